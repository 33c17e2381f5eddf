package pgsql

import (
	"context"
	"fmt"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portsrepo "github.com/abacusworks/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFilingRepository implements the ports.FilingRepository interface using pgxpool.
type PgxFilingRepository struct {
	db *pgxpool.Pool
}

// NewFilingRepository creates a new PgxFilingRepository.
func NewFilingRepository(db *pgxpool.Pool) *PgxFilingRepository {
	return &PgxFilingRepository{db: db}
}

var _ portsrepo.FilingRepository = (*PgxFilingRepository)(nil)

// UpsertFiling records the filed flag for one quarter. The upsert is keyed
// by (year, quarter, scope); a duplicate submission simply overwrites the
// previous row, last write wins.
func (r *PgxFilingRepository) UpsertFiling(ctx context.Context, filing domain.VATFiling) error {
	query := `
		INSERT INTO vat_filings (year, quarter, scope, filed, filed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (year, quarter, scope)
		DO UPDATE SET filed = EXCLUDED.filed, filed_at = EXCLUDED.filed_at
	`
	_, err := r.db.Exec(ctx, query,
		filing.Year, filing.Quarter, filing.Scope, filing.Filed, filing.FiledAt,
	)
	if err != nil {
		return fmt.Errorf("error upserting vat filing: %w", err)
	}
	return nil
}

// ListFilings returns the persisted filing rows of one year.
func (r *PgxFilingRepository) ListFilings(ctx context.Context, year int, scope string) ([]domain.VATFiling, error) {
	query := `
		SELECT year, quarter, scope, filed, filed_at
		FROM vat_filings
		WHERE year = $1
		  AND ($2 = '' OR scope = $2)
		ORDER BY quarter
	`
	rows, err := r.db.Query(ctx, query, year, scope)
	if err != nil {
		return nil, fmt.Errorf("error querying vat filings: %w", err)
	}
	defer rows.Close()

	var filings []domain.VATFiling
	for rows.Next() {
		var filing domain.VATFiling
		if err := rows.Scan(&filing.Year, &filing.Quarter, &filing.Scope, &filing.Filed, &filing.FiledAt); err != nil {
			return nil, fmt.Errorf("error scanning vat filing: %w", err)
		}
		filings = append(filings, filing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vat filings: %w", err)
	}
	return filings, nil
}
