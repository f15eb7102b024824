// Package store persists the canonical order/customer/line-item ledger and
// the commission records computed against it.
package store

import (
	"context"
	"time"

	"github.com/ridgepoint/commission-cli/internal/model"
)

// WriteBatch queues ledger upserts and commits them in bounded batches.
// Queue methods absorb errors: a failed commit is logged, the batch is lost,
// and the writer re-arms. Close flushes the remainder.
type WriteBatch interface {
	UpsertCustomer(ctx context.Context, c *model.Customer)
	UpsertOrder(ctx context.Context, o *model.SalesOrder)
	UpsertLineItem(ctx context.Context, li *model.LineItem)
	Flush(ctx context.Context)
	Close(ctx context.Context) error

	// Flushed and Failed report committed and lost batch counts.
	Flushed() int
	Failed() int
}

// Store is the persistence interface for the commission engine.
type Store interface {
	// Ledger
	Batch() WriteBatch
	GetCustomer(ctx context.Context, customerID string) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	ApplyAccountTypes(ctx context.Context, updates []model.Customer) (int64, error)
	GetOrder(ctx context.Context, orderID string) (*model.SalesOrder, error)
	ListOrdersByMonth(ctx context.Context, monthKey, repCode string) ([]model.SalesOrder, error)
	// LatestOrderBefore returns the single most recent order for a customer
	// with a posting date strictly before the given date, or nil.
	LatestOrderBefore(ctx context.Context, customerID string, before time.Time) (*model.SalesOrder, error)

	// Reference data
	ListReps(ctx context.Context) ([]model.Rep, error)
	UpsertRep(ctx context.Context, rep *model.Rep) error
	ListRateTables(ctx context.Context) (map[string]*model.CommissionRate, error)
	SaveRateTable(ctx context.Context, id string, rate *model.CommissionRate) error
	GetPolicy(ctx context.Context) (*model.CommissionPolicy, error)
	SavePolicy(ctx context.Context, policy *model.CommissionPolicy) error
	ListCopperCompanies(ctx context.Context) ([]model.CopperCompany, error)
	SaveCopperCompanies(ctx context.Context, companies []model.CopperCompany) (int64, error)

	// Commissions
	UpsertCommission(ctx context.Context, rec *model.CommissionRecord) error
	ListCommissionsByMonth(ctx context.Context, monthKey string) ([]model.CommissionRecord, error)
	SaveMonthlySummary(ctx context.Context, s *model.MonthlySummary) error

	// Import progress
	SaveProgress(ctx context.Context, p *model.ImportProgress) error
	GetProgress(ctx context.Context, importID string) (*model.ImportProgress, error)

	// Quarterly bonus
	SaveBonusEntry(ctx context.Context, e *model.BonusEntry) error
	ListBonusEntries(ctx context.Context, salesPerson, quarter string) ([]model.BonusEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
