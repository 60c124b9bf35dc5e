// Package ledger persists processed captures into Postgres.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"PlateIntake/internal/domain"
	"PlateIntake/internal/ports"
)

const uniqueViolationCode = "23505"

// ErrDuplicateFilename marks an insert rejected by the unique index on
// source_file. Callers treat it like any other insert failure; it only
// exists so logs can tell a dedup race from a genuine fault.
var ErrDuplicateFilename = errors.New("source filename already recorded")

// Postgres implements ports.Ledger over a single shared connection
// pool held for the batch duration.
type Postgres struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Ledger = (*Postgres)(nil)

// NewPostgres wires a sql.DB implementation.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ProcessedFilenames returns every source filename currently recorded.
// A single SELECT gives a consistent snapshot; inserts from the same
// sweep are never observed mid-flight.
func (p *Postgres) ProcessedFilenames(ctx context.Context) (map[string]bool, error) {
	query := p.builder.Select("source_file").From("captures")

	rows, err := query.RunWith(p.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query processed filenames: %w", err)
	}
	defer rows.Close()

	processed := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan filename: %w", err)
		}
		processed[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return processed, nil
}

// FindDevice resolves a registered device by plate. A miss returns
// (nil, nil).
func (p *Postgres) FindDevice(ctx context.Context, plate string) (*domain.Device, error) {
	query := p.builder.
		Select("id", "plate", "label").
		From("devices").
		Where(sq.Eq{"plate": plate}).
		Limit(1)

	var device domain.Device
	err := query.RunWith(p.db).QueryRowContext(ctx).Scan(&device.ID, &device.Plate, &device.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find device by plate: %w", err)
	}

	return &device, nil
}

// InsertCapture records one capture inside a transaction. On failure
// the transaction is rolled back and the pool stays usable for the
// next candidate.
func (p *Postgres) InsertCapture(ctx context.Context, capture domain.Capture) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}

	query := p.builder.
		Insert("captures").
		Columns("plate", "view_url", "capture_date", "capture_time", "source_file", "device_id").
		Values(
			capture.Plate,
			capture.ViewURL,
			capture.CapturedAt.Format("2006-01-02"),
			capture.CapturedAt.Format("15:04:05"),
			capture.SourceFile,
			capture.DeviceID,
		)

	if _, err := query.RunWith(tx).ExecContext(ctx); err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return fmt.Errorf("insert capture %s: %w", capture.SourceFile, ErrDuplicateFilename)
		}
		return fmt.Errorf("insert capture %s: %w", capture.SourceFile, err)
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("commit capture %s: %w", capture.SourceFile, err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
