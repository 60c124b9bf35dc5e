// Package inventory lists and fetches capture uploads from Azure Blob
// Storage.
package inventory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"PlateIntake/internal/config"
	"PlateIntake/internal/domain"
	"PlateIntake/internal/ports"
)

// AzureClient implements ports.Inventory over a blob container. The
// configured prefix scopes the sweep to one upload folder.
type AzureClient struct {
	client    *azblob.Client
	container string
	prefix    string
	logger    *slog.Logger
}

var _ ports.Inventory = (*AzureClient)(nil)

// NewAzureClient validates the connection string and builds the blob
// client; no network traffic happens until List or Fetch.
func NewAzureClient(cfg config.InventoryConfig, logger *slog.Logger) (*AzureClient, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create inventory client: %w", err)
	}

	return &AzureClient{
		client:    client,
		container: cfg.Container,
		prefix:    cfg.Prefix,
		logger:    logger,
	}, nil
}

// List walks the container and returns every image-typed blob under
// the prefix. Unbounded paging is fine at this workload's volume
// (hundreds of uploads, not millions).
func (a *AzureClient) List(ctx context.Context) ([]domain.Candidate, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if a.prefix != "" {
		opts.Prefix = &a.prefix
	}

	var candidates []domain.Candidate
	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list container %s: %w", a.container, err)
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name == nil || item.Properties == nil {
				continue
			}
			if !isImage(deref(item.Properties.ContentType)) {
				continue
			}

			candidate := domain.Candidate{
				ID:   *item.Name,
				Name: path.Base(*item.Name),
			}
			if item.Properties.CreationTime != nil {
				candidate.CreatedAt = *item.Properties.CreationTime
			}
			candidates = append(candidates, candidate)
		}
	}

	a.logger.Debug("listed inventory", "container", a.container, "candidates", len(candidates))
	return candidates, nil
}

// Fetch downloads a candidate to destPath through a temp file so a
// failed transfer never leaves a partial file behind.
func (a *AzureClient) Fetch(ctx context.Context, candidate domain.Candidate, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	resp, err := a.client.DownloadStream(ctx, a.container, candidate.ID, nil)
	if err != nil {
		return fmt.Errorf("download %s: %w", candidate.ID, err)
	}
	defer resp.Body.Close()

	tmpPath := destPath + ".part"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpPath, err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize %s: %w", destPath, err)
	}

	return nil
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
