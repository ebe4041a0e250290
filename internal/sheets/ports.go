// Package sheets defines the outbound ports for the spreadsheet ledger
// mirror. The mirror is a convenience copy; SQLite stays the source of
// truth for every computation.
package sheets

import (
	"context"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

type (
	// LedgerWriter appends one ledger entry to the mirror.
	LedgerWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// LedgerDeleter removes a mirrored entry. Not every mirror supports
	// deletion; the worker checks for this interface at runtime.
	LedgerDeleter interface {
		Delete(ctx context.Context, id int64) error
	}
)
