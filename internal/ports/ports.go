package ports

import (
	"context"
	"time"

	"PlateIntake/internal/domain"
)

// Inventory lists and fetches candidate images from the remote store.
type Inventory interface {
	// List returns every image-typed file in the configured scope.
	// Filename-pattern filtering happens on the caller's side.
	List(ctx context.Context) ([]domain.Candidate, error)

	// Fetch downloads a candidate to destPath. All-or-nothing: on
	// failure no partial file remains at destPath.
	Fetch(ctx context.Context, candidate domain.Candidate, destPath string) error
}

// Ledger is the durable record of processed captures.
type Ledger interface {
	// ProcessedFilenames returns a snapshot of every source filename
	// currently recorded.
	ProcessedFilenames(ctx context.Context) (map[string]bool, error)

	// FindDevice looks up a registered device by plate. A miss returns
	// (nil, nil); absence is not an error.
	FindDevice(ctx context.Context, plate string) (*domain.Device, error)

	// InsertCapture atomically records one capture. Failures roll back
	// and leave the connection usable for the next insert.
	InsertCapture(ctx context.Context, capture domain.Capture) error
}

// Detector runs the plate detection pipeline on a local image.
type Detector interface {
	Detect(ctx context.Context, imagePath string) (domain.Detection, error)
}

// Notifier publishes batch sweep summaries to an outbound channel.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}

// Scheduler controls when recurring sweeps execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
