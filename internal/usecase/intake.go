package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"PlateIntake/internal/domain"
	"PlateIntake/internal/filename"
	"PlateIntake/internal/infrastructure/ledger"
	"PlateIntake/internal/ports"
)

// IntakeDeps wires all driven adapters into the intake pipeline.
type IntakeDeps struct {
	Inventory ports.Inventory
	Ledger    ports.Ledger
	Detector  ports.Detector
	Notifier  ports.Notifier
	Logger    *slog.Logger

	// CacheDir holds one local file per downloaded candidate, named
	// identically to the remote filename.
	CacheDir string
	// ViewURLTemplate builds the public reference URL from the remote
	// identifier (fmt.Sprintf with one %s verb).
	ViewURLTemplate string
}

// Report summarizes one sweep so callers can tell a clean empty run
// from a run that skipped failing candidates.
type Report struct {
	Candidates int
	Processed  int
	Unknown    int
	Skipped    int
}

func (r Report) String() string {
	return fmt.Sprintf("candidates=%d processed=%d unknown=%d skipped=%d",
		r.Candidates, r.Processed, r.Unknown, r.Skipped)
}

// Intake reconciles the remote inventory against the ledger and
// processes every unseen candidate: fetch, detect, decode timestamp,
// persist. One candidate's failure never aborts the sweep.
type Intake struct {
	inventory ports.Inventory
	ledger    ports.Ledger
	detector  ports.Detector
	notifier  ports.Notifier
	logger    *slog.Logger

	cacheDir    string
	viewURLTmpl string
}

// NewIntake constructs the orchestration component.
func NewIntake(deps IntakeDeps) *Intake {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Intake{
		inventory:   deps.Inventory,
		ledger:      deps.Ledger,
		detector:    deps.Detector,
		notifier:    deps.Notifier,
		logger:      logger,
		cacheDir:    deps.CacheDir,
		viewURLTmpl: deps.ViewURLTemplate,
	}
}

// Sweep runs one full batch: list remote, list ledger, diff, process
// each remaining candidate in listing order. The returned error is
// only non-nil for batch-fatal conditions (listing either side
// failed); per-candidate failures are logged and counted.
func (in *Intake) Sweep(ctx context.Context) (Report, error) {
	candidates, err := in.inventory.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list inventory: %w", err)
	}

	processed, err := in.ledger.ProcessedFilenames(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list processed: %w", err)
	}

	var report Report
	for _, candidate := range candidates {
		if !filename.Valid(candidate.Name) {
			in.logger.Debug("ignoring candidate with invalid name", "file", candidate.Name)
			continue
		}
		if processed[candidate.Name] {
			continue
		}

		report.Candidates++
		in.processCandidate(ctx, candidate, &report)
	}

	in.logger.Info("sweep complete", "report", report.String())
	in.notify(ctx, report)

	return report, nil
}

// processCandidate runs the per-item sub-flow. Every failure inside it
// downgrades to a logged skip; the candidate stays unrecorded and is
// retried on the next sweep.
func (in *Intake) processCandidate(ctx context.Context, candidate domain.Candidate, report *Report) {
	localPath := filepath.Join(in.cacheDir, candidate.Name)

	if !cachedFileUsable(localPath) {
		if err := in.inventory.Fetch(ctx, candidate, localPath); err != nil {
			in.logger.Warn("download failed, skipping", "file", candidate.Name, "error", err)
			report.Skipped++
			return
		}
	}

	in.logger.Info("processing capture", "file", candidate.Name)

	detection, err := in.detector.Detect(ctx, localPath)
	if err != nil {
		// The detector already degrades internally; treat a surfaced
		// error the same way and keep the candidate.
		in.logger.Warn("detection fault", "file", candidate.Name, "error", err)
		detection = domain.NoDetection()
	}

	plate := domain.UnknownPlate
	if detection.Found {
		plate = detection.Plate
	} else {
		in.logger.Info("no plate detected", "file", candidate.Name)
	}

	capturedAt, ok := filename.Timestamp(candidate.Name)
	if !ok {
		in.logger.Warn("cannot decode capture timestamp, skipping", "file", candidate.Name)
		report.Skipped++
		return
	}

	var deviceID *int64
	if device, err := in.ledger.FindDevice(ctx, plate); err != nil {
		in.logger.Warn("device lookup failed", "plate", plate, "error", err)
	} else if device != nil {
		deviceID = &device.ID
	}

	capture := domain.Capture{
		Plate:      plate,
		ViewURL:    fmt.Sprintf(in.viewURLTmpl, candidate.ID),
		CapturedAt: capturedAt,
		SourceFile: candidate.Name,
		DeviceID:   deviceID,
	}

	if err := in.ledger.InsertCapture(ctx, capture); err != nil {
		if errors.Is(err, ledger.ErrDuplicateFilename) {
			in.logger.Warn("capture already recorded, skipping", "file", candidate.Name)
		} else {
			in.logger.Warn("persist failed, skipping", "file", candidate.Name, "error", err)
		}
		report.Skipped++
		return
	}

	in.logger.Info("capture recorded", "file", candidate.Name, "plate", plate)
	report.Processed++
	if plate == domain.UnknownPlate {
		report.Unknown++
	}
}

func (in *Intake) notify(ctx context.Context, report Report) {
	if in.notifier == nil {
		return
	}

	summary := fmt.Sprintf("Plate intake sweep finished: %s", report.String())
	if err := in.notifier.PublishSummary(ctx, summary); err != nil {
		in.logger.Warn("summary notification failed", "error", err)
	}
}

// cachedFileUsable treats presence of a non-empty file as a valid
// cached download. Zero-byte leftovers are re-fetched; deeper
// integrity checks (content hash) are future work.
func cachedFileUsable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
