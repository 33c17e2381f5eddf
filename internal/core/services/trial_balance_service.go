package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/core/taxonomy"
	"github.com/abacusworks/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// trialBalanceService aggregates canonical entries into per-class,
// per-account debit/credit totals.
type trialBalanceService struct {
	BaseService
	materializer portssvc.MaterializerSvc
}

// NewTrialBalanceService creates a new trial balance service.
func NewTrialBalanceService(materializer portssvc.MaterializerSvc) portssvc.TrialBalanceSvc {
	return &trialBalanceService{materializer: materializer}
}

var _ portssvc.TrialBalanceSvc = (*trialBalanceService)(nil)

// TrialBalance aggregates the period's entries in a single pass. Accounts
// with no movement are dropped from the result; an imbalance beyond the
// minor-unit epsilon is flagged on the report, never raised as an error.
func (s *trialBalanceService) TrialBalance(ctx context.Context, period domain.Period) (*domain.TrialBalanceReport, error) {
	entries, err := s.materializer.Materialize(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to materialize entries for trial balance")
		return nil, fmt.Errorf("failed to materialize entries: %w", err)
	}

	// Seed every taxonomy account at zero so chart accounts keep a stable
	// identity even before their first movement.
	rows := make(map[string]*domain.TrialBalanceRow)
	for _, acc := range taxonomy.Chart() {
		rows[acc.Code] = &domain.TrialBalanceRow{
			AccountCode: acc.Code,
			Label:       acc.Label,
			Class:       acc.Class,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
	}

	for _, entry := range entries {
		row, ok := rows[entry.AccountCode]
		if !ok {
			// Ad hoc account outside the chart: class from the first
			// digit of its code.
			acc := taxonomy.Lookup(entry.AccountCode)
			label := entry.AccountLabel
			if label == "" {
				label = acc.Label
			}
			row = &domain.TrialBalanceRow{
				AccountCode: acc.Code,
				Label:       label,
				Class:       acc.Class,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			rows[entry.AccountCode] = row
		}

		if entry.Side == domain.Debit {
			row.Debit = row.Debit.Add(entry.Amount)
		} else {
			row.Credit = row.Credit.Add(entry.Amount)
		}
	}

	report := buildTrialBalanceReport(period, rows)
	if report.Unbalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("grand_debit", report.GrandDebit.String()),
			slog.String("grand_credit", report.GrandCredit.String()))
	}

	s.LogInfo(ctx, "Trial balance generated",
		slog.Int("section_count", len(report.Sections)),
		slog.Int("entry_count", len(entries)))
	return report, nil
}

// buildTrialBalanceReport groups the non-zero rows by class and computes the
// section and grand totals.
func buildTrialBalanceReport(period domain.Period, rows map[string]*domain.TrialBalanceRow) *domain.TrialBalanceReport {
	sections := make(map[domain.AccountClass]*domain.TrialBalanceSection)

	for _, row := range rows {
		if row.Debit.IsZero() && row.Credit.IsZero() {
			continue
		}
		section, ok := sections[row.Class]
		if !ok {
			section = &domain.TrialBalanceSection{
				Class:       row.Class,
				Label:       taxonomy.ClassLabel(row.Class),
				DebitTotal:  decimal.Zero,
				CreditTotal: decimal.Zero,
			}
			sections[row.Class] = section
		}
		section.Rows = append(section.Rows, *row)
		section.DebitTotal = section.DebitTotal.Add(row.Debit)
		section.CreditTotal = section.CreditTotal.Add(row.Credit)
	}

	report := &domain.TrialBalanceReport{
		Period:      period,
		GrandDebit:  decimal.Zero,
		GrandCredit: decimal.Zero,
	}
	for _, section := range sections {
		sort.Slice(section.Rows, func(i, j int) bool {
			return section.Rows[i].AccountCode < section.Rows[j].AccountCode
		})
		report.Sections = append(report.Sections, *section)
		report.GrandDebit = report.GrandDebit.Add(section.DebitTotal)
		report.GrandCredit = report.GrandCredit.Add(section.CreditTotal)
	}
	sort.Slice(report.Sections, func(i, j int) bool {
		return report.Sections[i].Class < report.Sections[j].Class
	})

	report.Unbalanced = accounting.IsUnbalanced(report.GrandDebit, report.GrandCredit)
	return report
}
