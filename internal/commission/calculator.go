package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ridgepoint/commission-cli/internal/classify"
	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/money"
	"github.com/ridgepoint/commission-cli/internal/normalize"
	"github.com/ridgepoint/commission-cli/internal/refdata"
	"github.com/ridgepoint/commission-cli/internal/store"
)

// Calculator computes commission records for a month. Concurrent runs
// against the same (rep, month) scope would interleave the summary
// overwrite, so runs are serialized through singleflight.
type Calculator struct {
	store store.Store
	group singleflight.Group
	log   *zap.Logger
}

func NewCalculator(st store.Store) *Calculator {
	return &Calculator{
		store: st,
		log:   zap.L().With(zap.String("component", "commission")),
	}
}

// Run calculates commissions for every qualifying order in the given
// month, optionally filtered to one rep code. Duplicate concurrent calls
// for the same scope share a single execution.
func (c *Calculator) Run(ctx context.Context, month, year int, repFilter string) (*model.CalcResult, error) {
	monthKey := normalize.MonthKey(year, month)
	key := fmt.Sprintf("%s|%s", repFilter, monthKey)

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.run(ctx, monthKey, repFilter)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.CalcResult), nil
}

func (c *Calculator) run(ctx context.Context, monthKey, repFilter string) (*model.CalcResult, error) {
	bundle, err := refdata.Load(ctx, c.store)
	if err != nil {
		return nil, err
	}

	repList, err := c.store.ListReps(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "commission: load reps")
	}
	reps := make(map[string]model.Rep, len(repList))
	for _, r := range repList {
		reps[r.Code] = r
	}

	orders, err := c.store.ListOrdersByMonth(ctx, monthKey, repFilter)
	if err != nil {
		return nil, eris.Wrapf(err, "commission: list orders for %s", monthKey)
	}

	result := &model.CalcResult{PerRep: make(map[string]*model.MonthlySummary)}
	now := time.Now().UTC()

	// Account types may have changed since ingestion denormalized them;
	// the customer record is current, the order copy is the fallback.
	typeCache := make(map[string]model.AccountType)

	for i := range orders {
		order := &orders[i]
		result.Processed++

		segment := c.accountType(ctx, order, typeCache)
		if segment == model.AccountRetail {
			result.SkippedRetail++
			continue
		}

		rep, ok := reps[order.SalesPersonCode]
		if !ok || !rep.Active {
			result.SkippedInactive++
			continue
		}

		rateTable := bundle.RateFor(rep.Title)
		if rateTable == nil {
			result.SkippedNoRate++
			c.log.Info("no rate table for title, order skipped",
				zap.String("title", rep.Title),
				zap.String("order_id", order.OrderID),
			)
			continue
		}

		orderDate := now
		if order.PostingDate != nil {
			orderDate = *order.PostingDate
		}
		status := classify.Classify(ctx, c.store, order.CustomerID, order.SalesPersonCode, orderDate)

		pct, ok := ResolveRate(rateTable, segment, status)
		if !ok {
			result.SkippedNoRate++
			continue
		}

		amount := order.Revenue
		if bundle.Policy.UseOrderValue {
			amount = order.OrderValue
		}

		commission := money.Percent(amount, pct)
		if status == model.StatusRepTransfer && rateTable.RepTransfer != nil && rateTable.RepTransfer.Enabled {
			commission = repTransferAmount(amount, rateTable.RepTransfer)
		}

		rec := &model.CommissionRecord{
			SalesPerson:     order.SalesPersonCode,
			CommissionMonth: monthKey,
			OrderID:         order.OrderID,
			CustomerID:      order.CustomerID,
			CustomerSegment: segment,
			CustomerStatus:  status,
			RatePct:         pct,
			OrderAmount:     money.Round2(amount),
			Amount:          money.Round2(commission),
			PaidStatus:      "pending",
			CalculatedAt:    now,
		}
		if err := c.store.UpsertCommission(ctx, rec); err != nil {
			return nil, eris.Wrapf(err, "commission: upsert record for order %s", order.OrderID)
		}
		result.CommissionsCalculated++
	}

	if err := c.overwriteSummaries(ctx, monthKey, repFilter, now, result); err != nil {
		return nil, err
	}

	c.log.Info("calculation complete",
		zap.String("month", monthKey),
		zap.String("rep_filter", repFilter),
		zap.Int("processed", result.Processed),
		zap.Int("calculated", result.CommissionsCalculated),
		zap.String("total_commission", result.TotalCommission),
	)
	return result, nil
}

// overwriteSummaries rebuilds each rep's monthly summary from the stored
// commission records. Full overwrite, never incremental, so a re-run
// converges instead of compounding.
func (c *Calculator) overwriteSummaries(ctx context.Context, monthKey, repFilter string, now time.Time, result *model.CalcResult) error {
	records, err := c.store.ListCommissionsByMonth(ctx, monthKey)
	if err != nil {
		return eris.Wrapf(err, "commission: list records for %s", monthKey)
	}

	total := decimal.Zero
	for _, rec := range records {
		if repFilter != "" && rec.SalesPerson != repFilter {
			continue
		}
		s := result.PerRep[rec.SalesPerson]
		if s == nil {
			s = &model.MonthlySummary{
				SalesPerson:     rec.SalesPerson,
				CommissionMonth: monthKey,
				CalculatedAt:    now,
			}
			result.PerRep[rec.SalesPerson] = s
		}
		s.TotalOrders++
		s.TotalRevenue = s.TotalRevenue.Add(rec.OrderAmount)
		s.TotalCommission = s.TotalCommission.Add(rec.Amount)
		total = total.Add(rec.Amount)
	}

	for _, s := range result.PerRep {
		if err := c.store.SaveMonthlySummary(ctx, s); err != nil {
			return eris.Wrapf(err, "commission: save summary for %s", s.SalesPerson)
		}
	}

	result.TotalCommission = money.Round2(total).StringFixed(2)
	return nil
}

func (c *Calculator) accountType(ctx context.Context, order *model.SalesOrder, cache map[string]model.AccountType) model.AccountType {
	if t, ok := cache[order.CustomerID]; ok {
		return t
	}
	t := order.AccountType
	if cust, err := c.store.GetCustomer(ctx, order.CustomerID); err == nil && cust != nil && cust.AccountType != "" {
		t = cust.AccountType
	}
	cache[order.CustomerID] = t
	return t
}

// repTransferAmount applies the per-title flat-fee override:
// the flat fee outright, or the greater of the fee and the fallback
// percentage when the rule says to take the better of the two.
func repTransferAmount(amount decimal.Decimal, rule *model.RepTransferRule) decimal.Decimal {
	pctAmount := money.Percent(amount, rule.PercentFallback)
	if rule.UseGreater && pctAmount.GreaterThan(rule.FlatFee) {
		return pctAmount
	}
	return rule.FlatFee
}
