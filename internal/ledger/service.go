package ledger

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-books/meridian-books/internal/shared"
)

// Querier is the per-source read contract the aggregator depends on.
type Querier interface {
	JournalEntries(ctx context.Context, f Filter) ([]Entry, error)
	MonthlyExpenses(ctx context.Context, f Filter) ([]Entry, error)
	Expenses(ctx context.Context, f Filter) ([]Entry, error)
	SalesInvoices(ctx context.Context, f Filter) ([]Entry, error)
	CreditNotes(ctx context.Context, f Filter) ([]Entry, error)
	ReceiptVouchers(ctx context.Context, f Filter) ([]Entry, error)
	PaymentVouchers(ctx context.Context, f Filter) ([]Entry, error)
	ManualIncome(ctx context.Context, f Filter) ([]Entry, error)
	SalaryPayrolls(ctx context.Context, f Filter) ([]Entry, error)
}

// Service aggregates the financial source tables into one ledger sequence.
type Service struct {
	repo     Querier
	validate *validator.Validate
}

// NewService constructs the aggregator.
func NewService(repo Querier) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

type sourceQuery struct {
	source SourceType
	fetch  func(context.Context, Filter) ([]Entry, error)
}

func (s *Service) sources() []sourceQuery {
	return []sourceQuery{
		{SourceJournal, s.repo.JournalEntries},
		{SourceMonthlyExpense, s.repo.MonthlyExpenses},
		{SourceExpense, s.repo.Expenses},
		{SourceInvoice, s.repo.SalesInvoices},
		{SourceCreditNote, s.repo.CreditNotes},
		{SourceReceiptVoucher, s.repo.ReceiptVouchers},
		{SourcePaymentVoucher, s.repo.PaymentVouchers},
		{SourceManualIncome, s.repo.ManualIncome},
		{SourcePayroll, s.repo.SalaryPayrolls},
	}
}

// ValidateFilter checks the tenant scope and date range before any query runs.
func (s *Service) ValidateFilter(f Filter) error {
	if err := s.validate.Struct(f); err != nil {
		return shared.ErrCompanyRequired
	}
	if f.Period.From.After(f.Period.To) {
		return shared.ErrInvalidPeriod
	}
	return nil
}

// Collect fans out one query per selected source table and concatenates the
// results in source order. Any single source failure fails the whole report:
// a partial ledger that looks complete is worse than no ledger.
func (s *Service) Collect(ctx context.Context, f Filter) ([]Entry, error) {
	if err := s.ValidateFilter(f); err != nil {
		return nil, err
	}

	queries := s.sources()
	results := make([][]Entry, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		if !f.WantsSource(q.source) {
			continue
		}
		g.Go(func() error {
			entries, err := q.fetch(gctx, f)
			if err != nil {
				return fmt.Errorf("source %s: %w", q.source, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Entry
	for _, entries := range results {
		merged = append(merged, entries...)
	}
	return merged, nil
}
