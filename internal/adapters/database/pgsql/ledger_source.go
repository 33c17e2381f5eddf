package pgsql

import (
	"context"
	"fmt"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerSource implements the native EntrySource port against the
// ledger_entries table. Mandates that keep real books land here; the
// materializer prefers these entries over document synthesis.
type PgxLedgerSource struct {
	db *pgxpool.Pool
}

// NewLedgerSource creates a new PgxLedgerSource.
func NewLedgerSource(db *pgxpool.Pool) *PgxLedgerSource {
	return &PgxLedgerSource{db: db}
}

var _ portsrepo.EntrySource = (*PgxLedgerSource)(nil)

// ListEntries implements ports.EntrySource. Entries come back newest first,
// the display order the materializer hands to callers.
func (s *PgxLedgerSource) ListEntries(ctx context.Context, period domain.Period) ([]domain.CanonicalEntry, error) {
	query := `
		SELECT sequence, description, amount, side, account_code, account_label,
		       counterpart_code, counterpart_label, occurred_at, status, scope, source_ref
		FROM ledger_entries
		WHERE occurred_at BETWEEN $1 AND $2
		  AND ($3 = '' OR scope = $3)
		ORDER BY occurred_at DESC, sequence DESC
	`
	rows, err := s.db.Query(ctx, query, period.From, period.To, period.Scope)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CanonicalEntry
	for rows.Next() {
		var entry domain.CanonicalEntry
		err := rows.Scan(
			&entry.Sequence, &entry.Description, &entry.Amount, &entry.Side,
			&entry.AccountCode, &entry.AccountLabel,
			&entry.CounterpartCode, &entry.CounterpartLabel,
			&entry.OccurredAt, &entry.Status, &entry.Scope, &entry.SourceRef,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning ledger entry: %w", err)
		}
		entry.Provenance = domain.Native
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
