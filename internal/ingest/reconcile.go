// Package ingest turns a tabular ERP extract into upserted customer,
// order, and line-item records. Two passes: a pure aggregation of order
// totals, then a reconciling walk that writes through a bounded batch.
// Re-running the same file is safe; every write is a keyed upsert.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/acctsync"
	"github.com/ridgepoint/commission-cli/internal/fetcher"
	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/normalize"
	"github.com/ridgepoint/commission-cli/internal/refdata"
	"github.com/ridgepoint/commission-cli/internal/store"
)

// progressInterval is how many rows pass between progress-record writes.
const progressInterval = 50

// Alternate-sales-channel heuristics. Orders tagged here are kept in the
// ledger but flagged so downstream reporting can segment them.
var (
	altChannelPrefixes = []string{"WEB-", "AMZ-", "EBAY-"}
	altChannelReps     = []string{"online", "web store", "house account"}
)

// Reconciler runs pass 2 of an ingestion: the per-row upsert walk.
type Reconciler struct {
	store store.Store
	log   *zap.Logger
}

func NewReconciler(st store.Store) *Reconciler {
	return &Reconciler{
		store: st,
		log:   zap.L().With(zap.String("component", "ingest")),
	}
}

// resolvedType is the per-customer account-type resolution, cached for the
// duration of one run so each customer is looked up at most once.
type resolvedType struct {
	Type     model.AccountType
	Source   model.AccountTypeSource
	Override model.AccountType
	CopperID string
}

// Run ingests one extract. Malformed rows are counted as skipped, never
// fatal; a failed batch commit is logged and lost while the run continues.
// The only hard failures are an empty extract and a store that cannot be
// reached at all.
func (r *Reconciler) Run(ctx context.Context, importID string, rows []fetcher.Row) (model.IngestStats, error) {
	var stats model.IngestStats

	if len(rows) == 0 {
		r.saveProgress(ctx, &model.ImportProgress{
			ImportID: importID,
			Status:   model.ImportFailed,
			Error:    "no data rows in extract",
		})
		return stats, eris.New("ingest: no data rows in extract")
	}

	r.saveProgress(ctx, &model.ImportProgress{
		ImportID:  importID,
		Status:    model.ImportParsing,
		TotalRows: len(rows),
	})

	totals := Aggregate(rows)

	// CRM company index for account-type resolution. Unavailability is
	// recovered locally: resolution falls through to the ERP's raw value.
	companies, err := refdata.LoadCompanies(ctx, r.store)
	if err != nil {
		r.log.Warn("copper company index unavailable, resolving from ERP values only", zap.Error(err))
		companies = nil
	}

	batch := r.store.Batch()
	typeCache := make(map[string]resolvedType)
	seenOrders := make(map[string]struct{})
	now := time.Now().UTC()

	for i, row := range rows {
		customerID := normalize.Key(firstNonEmpty(row, colCustomerID))
		orderNumber := normalize.Key(firstNonEmpty(row, colOrderNumber))
		orderID := normalize.Key(firstNonEmpty(row, colOrderID))
		lineItemID := normalize.Key(firstNonEmpty(row, colLineItemID))

		if customerID == "" || orderNumber == "" || orderID == "" || lineItemID == "" {
			stats.Skipped++
			continue
		}

		salesPerson := strings.TrimSpace(firstNonEmpty(row, colSalesPerson))

		res, cached := typeCache[customerID]
		if !cached {
			accountNumber := strings.TrimSpace(firstNonEmpty(row, colAccountNumber))
			res = r.resolveType(ctx, customerID, accountNumber, firstNonEmpty(row, colAccountType), companies)
			typeCache[customerID] = res

			batch.UpsertCustomer(ctx, &model.Customer{
				CustomerID:          customerID,
				Name:                strings.TrimSpace(firstNonEmpty(row, colCustomerName)),
				AccountNumber:       accountNumber,
				AccountType:         res.Type,
				AccountTypeSource:   res.Source,
				AccountTypeOverride: res.Override,
				CopperID:            res.CopperID,
				ShipStreet:          strings.TrimSpace(firstNonEmpty(row, colShipStreet)),
				ShipCity:            strings.TrimSpace(firstNonEmpty(row, colShipCity)),
				ShipState:           strings.TrimSpace(firstNonEmpty(row, colShipState)),
				ShipZip:             strings.TrimSpace(firstNonEmpty(row, colShipZip)),
				UpdatedAt:           now,
			})
			stats.Customers++
		}

		// Order numbers repeat across rows and even across distinct
		// orders; orderID is the only stable key.
		if _, seen := seenOrders[orderID]; !seen {
			seenOrders[orderID] = struct{}{}

			order := &model.SalesOrder{
				OrderID:         orderID,
				OrderNumber:     orderNumber,
				CustomerID:      customerID,
				SalesPersonCode: salesPerson,
				AccountType:     res.Type,
				AltChannel:      altChannel(orderNumber, salesPerson),
				UpdatedAt:       now,
			}
			if parts, ok := normalize.FlexibleDate(firstNonEmpty(row, colPostingDate)); ok {
				d := parts.Date
				order.PostingDate = &d
				order.CommissionMonth = parts.MonthKey
				order.CommissionYear = parts.Year
			}
			t := totals[orderNumber]
			order.Revenue = t.Revenue
			order.OrderValue = t.OrderValue
			order.LineItemCount = t.LineCount

			batch.UpsertOrder(ctx, order)
			stats.Orders++
		}

		shipping, cc := lineFlags(
			firstNonEmpty(row, colPartNumber),
			firstNonEmpty(row, colDescription),
		)
		batch.UpsertLineItem(ctx, &model.LineItem{
			LineItemID:     lineItemID,
			OrderID:        orderID,
			PartNumber:     strings.TrimSpace(firstNonEmpty(row, colPartNumber)),
			Description:    strings.TrimSpace(firstNonEmpty(row, colDescription)),
			Quantity:       normalize.Amount(firstNonEmpty(row, colQuantity)),
			UnitPrice:      normalize.Amount(firstNonEmpty(row, colUnitPrice)),
			Revenue:        normalize.Amount(firstNonEmpty(row, colLineAmount)),
			IsShippingItem: shipping,
			IsCCProcessing: cc,
			UpdatedAt:      now,
		})
		stats.LineItems++
		stats.Processed++

		if (i+1)%progressInterval == 0 {
			r.saveProgress(ctx, &model.ImportProgress{
				ImportID:        importID,
				Status:          model.ImportProcessing,
				CurrentRow:      i + 1,
				TotalRows:       len(rows),
				Percentage:      (i + 1) * 100 / len(rows),
				CurrentCustomer: customerID,
				CurrentOrder:    orderNumber,
				Stats:           stats,
			})
		}
	}

	if err := batch.Close(ctx); err != nil {
		// Failed batches are lost writes, not a failed run. Committed
		// batches stay intact and the file re-ingests cleanly.
		r.log.Error("final batch close reported failures", zap.Error(err))
	}
	stats.Batches = batch.Flushed()
	stats.FailedBatches = batch.Failed()

	r.saveProgress(ctx, &model.ImportProgress{
		ImportID:   importID,
		Status:     model.ImportComplete,
		CurrentRow: len(rows),
		TotalRows:  len(rows),
		Percentage: 100,
		Stats:      stats,
	})

	r.log.Info("ingestion complete",
		zap.String("import_id", importID),
		zap.Int("processed", stats.Processed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("orders", stats.Orders),
		zap.Int("failed_batches", stats.FailedBatches),
	)
	return stats, nil
}

// resolveType applies the account-type precedence chain:
// override > existing > copper > fishbowl raw > Retail default.
func (r *Reconciler) resolveType(ctx context.Context, customerID, accountNumber, rawType string, companies map[string]refdata.CompanyRef) resolvedType {
	existing, err := r.store.GetCustomer(ctx, customerID)
	if err != nil {
		r.log.Warn("customer lookup failed, resolving from row values",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		existing = nil
	}

	var res resolvedType
	if existing != nil {
		res.Override = existing.AccountTypeOverride
		res.CopperID = existing.CopperID

		if existing.AccountTypeOverride != "" {
			res.Type = existing.AccountTypeOverride
			res.Source = model.SourceOverride
			return res
		}
		if existing.AccountType != "" {
			res.Type = existing.AccountType
			res.Source = model.SourceExisting
			return res
		}
	}

	if ref, ok := companies[accountNumber]; ok {
		if t, ok := acctsync.NormalizeType(ref.AccountType); ok {
			res.Type = t
			res.Source = model.SourceCopper
			res.CopperID = ref.CopperID
			return res
		}
	}

	if t, ok := acctsync.NormalizeType(rawType); ok {
		res.Type = t
		res.Source = model.SourceFishbowl
		return res
	}

	res.Type = model.AccountRetail
	res.Source = model.SourceFishbowl
	return res
}

// altChannel tags orders sold outside the direct rep channel, by order
// number prefix or by a marketplace pseudo-rep name.
func altChannel(orderNumber, salesPerson string) bool {
	upper := strings.ToUpper(orderNumber)
	for _, p := range altChannelPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	lower := strings.ToLower(salesPerson)
	for _, m := range altChannelReps {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// saveProgress persists the polling record best-effort. A progress write
// must never abort the run.
func (r *Reconciler) saveProgress(ctx context.Context, p *model.ImportProgress) {
	p.UpdatedAt = time.Now().UTC()
	if err := r.store.SaveProgress(ctx, p); err != nil {
		r.log.Warn("progress write failed, continuing",
			zap.String("import_id", p.ImportID),
			zap.Error(err),
		)
	}
}
