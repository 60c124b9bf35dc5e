package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	dup := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "captures_source_file_key"}
	if !isUniqueViolation(dup) {
		t.Error("expected unique violation to be recognized")
	}
	if !isUniqueViolation(fmt.Errorf("exec insert: %w", dup)) {
		t.Error("expected wrapped unique violation to be recognized")
	}

	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misclassified")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Error("plain error misclassified")
	}
}
