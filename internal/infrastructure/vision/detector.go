// Package vision runs plate detection against inference services: a
// localization model proposes a plate region, the region is cropped
// and handed to a recognition (OCR) model. The two-stage composition
// is internal; callers only see a Detection.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "image/jpeg"

	"PlateIntake/internal/config"
	"PlateIntake/internal/domain"
	"PlateIntake/internal/ports"
)

// Detector composes localization and recognition behind one call. Any
// internal fault (unreadable file, service error, bad crop) degrades
// to the explicit no-detection outcome instead of failing the sweep.
type Detector struct {
	localizeURL   string
	recognizeURL  string
	apiKey        string
	minConfidence float64
	http          *http.Client
	logger        *slog.Logger
}

var _ ports.Detector = (*Detector)(nil)

type box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

type localizeResponse struct {
	Found      bool    `json:"found"`
	Confidence float64 `json:"confidence"`
	Box        box     `json:"box"`
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// NewDetector creates a reusable inference client.
func NewDetector(cfg config.VisionConfig, logger *slog.Logger) *Detector {
	return &Detector{
		localizeURL:   cfg.LocalizeURL,
		recognizeURL:  cfg.RecognizeURL,
		apiKey:        cfg.APIKey,
		minConfidence: cfg.MinConfidence,
		http:          &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}
}

// Detect runs the full pipeline on a local image file.
func (d *Detector) Detect(ctx context.Context, imagePath string) (domain.Detection, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		d.logger.Warn("read image failed", "path", imagePath, "error", err)
		return domain.NoDetection(), nil
	}

	var loc localizeResponse
	if err := d.post(ctx, d.localizeURL, data, http.DetectContentType(data), &loc); err != nil {
		d.logger.Warn("localization failed", "path", imagePath, "error", err)
		return domain.NoDetection(), nil
	}
	if !loc.Found || loc.Confidence < d.minConfidence {
		return domain.NoDetection(), nil
	}

	region, err := cropRegion(data, loc.Box)
	if err != nil {
		d.logger.Warn("crop failed", "path", imagePath, "error", err)
		return domain.NoDetection(), nil
	}

	var rec recognizeResponse
	if err := d.post(ctx, d.recognizeURL, region, "image/png", &rec); err != nil {
		d.logger.Warn("recognition failed", "path", imagePath, "error", err)
		return domain.NoDetection(), nil
	}

	return domain.Detected(rec.Text), nil
}

func (d *Detector) post(ctx context.Context, url string, payload []byte, contentType string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// cropRegion decodes the original image and re-encodes just the
// proposed plate region as PNG for the recognizer.
func cropRegion(data []byte, b box) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	rect := image.Rect(b.Left, b.Top, b.Right, b.Bottom).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region %v outside image bounds %v", b, img.Bounds())
	}

	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("image type %T does not support cropping", img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sub.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}

	return buf.Bytes(), nil
}
