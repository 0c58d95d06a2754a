package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/sales"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// LedgerPort reads ledger entries for summaries and exports.
type LedgerPort interface {
	ListRange(ctx context.Context, tenantID string, rng finance.Range) ([]finance.Transaction, error)
}

// SalesPort reads sale records.
type SalesPort interface {
	List(ctx context.Context, tenantID string) ([]sales.SaleRecord, error)
}

// SalesSummary aggregates the sales book.
type SalesSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	OrderCount   int     `json:"orderCount"`
	UnpaidCount  int     `json:"unpaidCount"`
}

// Service computes summaries and spreadsheet exports. Finance
// summaries are cached in Redis for a short TTL since the dashboard
// polls them.
type Service struct {
	ledger   LedgerPort
	salesSrc SalesPort
	rdb      *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewService constructs Service. rdb may be nil; caching is then
// skipped.
func NewService(ledger LedgerPort, salesSrc SalesPort, rdb *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, salesSrc: salesSrc, rdb: rdb, cacheTTL: cacheTTL, logger: logger}
}

func (s *Service) guard(actor shared.Actor) error {
	if !actor.HasModule(string(tenants.ModuleReports)) {
		return httpx.ErrForbidden
	}
	return nil
}

// SalesSummary totals the sales book.
func (s *Service) SalesSummary(ctx context.Context, actor shared.Actor) (SalesSummary, error) {
	if err := s.guard(actor); err != nil {
		return SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	records, err := s.salesSrc.List(ctx, actor.TenantID)
	if err != nil {
		return SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	var sum SalesSummary
	for _, sr := range records {
		sum.TotalRevenue += sr.Total
		sum.OrderCount++
		if sr.Status != finance.StatusPaid {
			sum.UnpaidCount++
		}
	}
	return sum, nil
}

// FinanceSummary aggregates the ledger over a range, via the Redis
// cache when one is configured.
func (s *Service) FinanceSummary(ctx context.Context, actor shared.Actor, rng finance.Range) (finance.Summary, error) {
	if err := s.guard(actor); err != nil {
		return finance.Summary{}, fmt.Errorf("finance summary: %w", err)
	}
	key := fmt.Sprintf("report:finance:%s:%s:%s", actor.TenantID, rng.From, rng.To)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached finance.Summary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}
	txs, err := s.ledger.ListRange(ctx, actor.TenantID, finance.Range{})
	if err != nil {
		return finance.Summary{}, fmt.Errorf("finance summary: %w", err)
	}
	sum := finance.Summarize(txs, rng)
	if s.rdb != nil {
		raw, _ := json.Marshal(sum)
		if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "report cache write failed", "error", err)
		}
	}
	return sum, nil
}

// Overview bundles the dashboard's headline numbers.
type Overview struct {
	Finance finance.Summary `json:"finance"`
	Sales   SalesSummary    `json:"sales"`
}

// Overview fetches the finance and sales summaries concurrently.
func (s *Service) Overview(ctx context.Context, actor shared.Actor, rng finance.Range) (Overview, error) {
	if err := s.guard(actor); err != nil {
		return Overview{}, fmt.Errorf("overview: %w", err)
	}
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.FinanceSummary(gctx, actor, rng)
		if err != nil {
			return err
		}
		out.Finance = sum
		return nil
	})
	g.Go(func() error {
		sum, err := s.SalesSummary(gctx, actor)
		if err != nil {
			return err
		}
		out.Sales = sum
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

var amountPrinter = message.NewPrinter(language.English)

// ExportLedgerXLSX renders the ledger as a spreadsheet.
func (s *Service) ExportLedgerXLSX(ctx context.Context, actor shared.Actor, rng finance.Range) ([]byte, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	txs, err := s.ledger.ListRange(ctx, actor.TenantID, rng)
	if err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Ledger"
	f.SetSheetName("Sheet1", sheet)
	header := []any{"Date", "Category", "Type", "Status", "Amount"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	for i, tx := range txs {
		row := []any{tx.Date, tx.Category, string(tx.Type), tx.Status, amountPrinter.Sprintf("%.2f", tx.Amount)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export ledger: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export ledger: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportSalesXLSX renders the sales book as a spreadsheet.
func (s *Service) ExportSalesXLSX(ctx context.Context, actor shared.Actor) ([]byte, error) {
	if err := s.guard(actor); err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	records, err := s.salesSrc.List(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sales"
	f.SetSheetName("Sheet1", sheet)
	header := []any{"Date", "Customer", "Items", "Status", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	for i, sr := range records {
		row := []any{sr.Date, sr.Customer, len(sr.Lines), sr.Status, amountPrinter.Sprintf("%.2f", sr.Total)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export sales: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("export sales: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	return buf.Bytes(), nil
}
