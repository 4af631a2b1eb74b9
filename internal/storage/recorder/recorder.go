// Package recorder keeps a SQL history of vault accounting after every
// committed operation.
package recorder

import (
	"context"
	"fmt"
	"strings"
)

// Snapshot is one row of vault history.
type Snapshot struct {
	Vault        string
	Op           string
	Seq          uint64
	Slot         uint64
	Timestamp    uint64
	AUM          string
	SharesIssued uint64
	SharePrice   string
	PendingFees  string
}

// Recorder persists vault history.
type Recorder interface {
	Record(ctx context.Context, snap *Snapshot) error
	// History returns up to limit rows for vault, newest first.
	History(ctx context.Context, vault string, limit int) ([]Snapshot, error)
	Close() error
}

// Drivers accepted by New.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// New opens the recorder for driver. The DSN is a file path for sqlite and a
// connection string for postgres; it is ignored for none.
func New(ctx context.Context, driver, dsn string) (Recorder, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite:
		return NewSQLiteRecorder(ctx, dsn)
	case DriverPostgres:
		return NewPostgresRecorder(ctx, dsn)
	case DriverNone, "":
		return NewNoopRecorder(), nil
	default:
		return nil, fmt.Errorf("unknown recorder driver %q", driver)
	}
}
