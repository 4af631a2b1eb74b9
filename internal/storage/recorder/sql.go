package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// sqlRecorder writes the vault_snapshots table through database/sql. The two
// drivers differ only in DDL and placeholder syntax.
type sqlRecorder struct {
	db       *sql.DB
	mu       sync.Mutex
	numbered bool // $1 placeholders instead of ?
}

func (r *sqlRecorder) migrate(ctx context.Context, idColumn string) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vault_snapshots (
			id            ` + idColumn + `,
			vault         TEXT NOT NULL,
			op            TEXT NOT NULL,
			seq           BIGINT NOT NULL,
			slot          BIGINT NOT NULL,
			timestamp     BIGINT NOT NULL,
			aum           TEXT NOT NULL,
			shares_issued BIGINT NOT NULL,
			share_price   TEXT NOT NULL,
			pending_fees  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vault_snapshots_vault_seq ON vault_snapshots(vault, seq)`,
	}

	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders for drivers that number them.
func (r *sqlRecorder) rebind(query string) string {
	if !r.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *sqlRecorder) Record(ctx context.Context, snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, r.rebind(`INSERT INTO vault_snapshots
		(vault, op, seq, slot, timestamp, aum, shares_issued, share_price, pending_fees)
		VALUES (?,?,?,?,?,?,?,?,?)`),
		snap.Vault, snap.Op, int64(snap.Seq), int64(snap.Slot), int64(snap.Timestamp),
		snap.AUM, int64(snap.SharesIssued), snap.SharePrice, snap.PendingFees,
	)
	if err != nil {
		return fmt.Errorf("record snapshot %s #%d: %w", snap.Vault, snap.Seq, err)
	}
	return nil
}

func (r *sqlRecorder) History(ctx context.Context, vault string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(`SELECT
		vault, op, seq, slot, timestamp, aum, shares_issued, share_price, pending_fees
		FROM vault_snapshots WHERE vault = ? ORDER BY seq DESC LIMIT ?`), vault, limit)
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", vault, err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var seq, slot, ts, sharesIssued int64
		if err := rows.Scan(&s.Vault, &s.Op, &seq, &slot, &ts, &s.AUM, &sharesIssued, &s.SharePrice, &s.PendingFees); err != nil {
			return nil, fmt.Errorf("scan history %s: %w", vault, err)
		}
		s.Seq, s.Slot, s.Timestamp, s.SharesIssued = uint64(seq), uint64(slot), uint64(ts), uint64(sharesIssued)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sqlRecorder) Close() error {
	return r.db.Close()
}
