package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ridgepoint/commission-cli/internal/model"
)

// Memory is an in-process Store for tests and ephemeral runs. Writes are
// guarded by a single mutex; batch commits are immediate.
type Memory struct {
	mu         sync.Mutex
	customers  map[string]*model.Customer
	orders     map[string]*model.SalesOrder
	lineItems  map[string]*model.LineItem
	reps       map[string]*model.Rep
	rates      map[string]*model.CommissionRate
	policy     *model.CommissionPolicy
	copper     map[string]*model.CopperCompany
	commission map[string]*model.CommissionRecord
	summaries  map[string]*model.MonthlySummary
	progress   map[string]*model.ImportProgress
	bonuses    map[string]*model.BonusEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		customers:  make(map[string]*model.Customer),
		orders:     make(map[string]*model.SalesOrder),
		lineItems:  make(map[string]*model.LineItem),
		reps:       make(map[string]*model.Rep),
		rates:      make(map[string]*model.CommissionRate),
		copper:     make(map[string]*model.CopperCompany),
		commission: make(map[string]*model.CommissionRecord),
		summaries:  make(map[string]*model.MonthlySummary),
		progress:   make(map[string]*model.ImportProgress),
		bonuses:    make(map[string]*model.BonusEntry),
	}
}

func (s *Memory) Migrate(ctx context.Context) error { return nil }
func (s *Memory) Close() error                      { return nil }

type memoryBatch struct {
	s       *Memory
	flushed int
}

func (s *Memory) Batch() WriteBatch { return &memoryBatch{s: s} }

func (b *memoryBatch) UpsertCustomer(_ context.Context, c *model.Customer) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	cp := *c
	if existing, ok := b.s.customers[c.CustomerID]; ok {
		// Ingestion never touches override or copper fields.
		cp.AccountTypeOverride = existing.AccountTypeOverride
		cp.CopperID = existing.CopperID
	}
	b.s.customers[c.CustomerID] = &cp
}

func (b *memoryBatch) UpsertOrder(_ context.Context, o *model.SalesOrder) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	cp := *o
	b.s.orders[o.OrderID] = &cp
}

func (b *memoryBatch) UpsertLineItem(_ context.Context, li *model.LineItem) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	cp := *li
	b.s.lineItems[li.LineItemID] = &cp
}

func (b *memoryBatch) Flush(context.Context)             { b.flushed++ }
func (b *memoryBatch) Close(ctx context.Context) error   { b.Flush(ctx); return nil }
func (b *memoryBatch) Flushed() int                      { return b.flushed }
func (b *memoryBatch) Failed() int                       { return 0 }

func (s *Memory) GetCustomer(_ context.Context, customerID string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[customerID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

// PutCustomer seeds a customer directly; test helper.
func (s *Memory) PutCustomer(c *model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.customers[c.CustomerID] = &cp
}

func (s *Memory) ListCustomers(context.Context) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, nil
}

func (s *Memory) ApplyAccountTypes(_ context.Context, updates []model.Customer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range updates {
		c, ok := s.customers[u.CustomerID]
		if !ok {
			continue
		}
		c.AccountType = u.AccountType
		c.AccountTypeSource = u.AccountTypeSource
		c.CopperID = u.CopperID
		n++
	}
	return n, nil
}

func (s *Memory) GetOrder(_ context.Context, orderID string) (*model.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[orderID]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

// GetLineItem returns a stored line item; test helper.
func (s *Memory) GetLineItem(lineItemID string) *model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if li, ok := s.lineItems[lineItemID]; ok {
		cp := *li
		return &cp
	}
	return nil
}

func (s *Memory) ListOrdersByMonth(_ context.Context, monthKey, repCode string) ([]model.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SalesOrder
	for _, o := range s.orders {
		if o.CommissionMonth != monthKey {
			continue
		}
		if repCode != "" && o.SalesPersonCode != repCode {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

func (s *Memory) LatestOrderBefore(_ context.Context, customerID string, before time.Time) (*model.SalesOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.SalesOrder
	for _, o := range s.orders {
		if o.CustomerID != customerID || o.PostingDate == nil {
			continue
		}
		if !o.PostingDate.Before(before) {
			continue
		}
		if latest == nil || o.PostingDate.After(*latest.PostingDate) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *Memory) ListReps(context.Context) ([]model.Rep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Rep, 0, len(s.reps))
	for _, r := range s.reps {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Memory) UpsertRep(_ context.Context, rep *model.Rep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rep
	s.reps[rep.Code] = &cp
	return nil
}

func (s *Memory) ListRateTables(context.Context) (map[string]*model.CommissionRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*model.CommissionRate, len(s.rates))
	for id, r := range s.rates {
		cp := *r
		out[id] = &cp
	}
	return out, nil
}

func (s *Memory) SaveRateTable(_ context.Context, id string, rate *model.CommissionRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rate
	s.rates[id] = &cp
	return nil
}

func (s *Memory) GetPolicy(context.Context) (*model.CommissionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == nil {
		return nil, nil
	}
	cp := *s.policy
	return &cp, nil
}

func (s *Memory) SavePolicy(_ context.Context, policy *model.CommissionPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *policy
	s.policy = &cp
	return nil
}

func (s *Memory) ListCopperCompanies(context.Context) ([]model.CopperCompany, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CopperCompany, 0, len(s.copper))
	for _, c := range s.copper {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CopperID < out[j].CopperID })
	return out, nil
}

func (s *Memory) SaveCopperCompanies(_ context.Context, companies []model.CopperCompany) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range companies {
		cp := c
		s.copper[c.CopperID] = &cp
	}
	return int64(len(companies)), nil
}

func commissionKey(salesPerson, month, orderID string) string {
	return strings.Join([]string{salesPerson, month, orderID}, "|")
}

func (s *Memory) UpsertCommission(_ context.Context, rec *model.CommissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.commission[commissionKey(rec.SalesPerson, rec.CommissionMonth, rec.OrderID)] = &cp
	return nil
}

func (s *Memory) ListCommissionsByMonth(_ context.Context, monthKey string) ([]model.CommissionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CommissionRecord
	for _, r := range s.commission {
		if r.CommissionMonth == monthKey {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SalesPerson != out[j].SalesPerson {
			return out[i].SalesPerson < out[j].SalesPerson
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

func (s *Memory) SaveMonthlySummary(_ context.Context, sum *model.MonthlySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sum
	s.summaries[sum.SalesPerson+"|"+sum.CommissionMonth] = &cp
	return nil
}

// GetMonthlySummary returns a stored summary; test helper.
func (s *Memory) GetMonthlySummary(salesPerson, monthKey string) *model.MonthlySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sum, ok := s.summaries[salesPerson+"|"+monthKey]; ok {
		cp := *sum
		return &cp
	}
	return nil
}

func (s *Memory) SaveProgress(_ context.Context, p *model.ImportProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.progress[p.ImportID] = &cp
	return nil
}

func (s *Memory) GetProgress(_ context.Context, importID string) (*model.ImportProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.progress[importID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *Memory) SaveBonusEntry(_ context.Context, e *model.BonusEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.bonuses[strings.Join([]string{e.SalesPerson, e.Quarter, e.Bucket, e.SubGoal}, "|")] = &cp
	return nil
}

func (s *Memory) ListBonusEntries(_ context.Context, salesPerson, quarter string) ([]model.BonusEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.BonusEntry
	for _, e := range s.bonuses {
		if e.SalesPerson == salesPerson && e.Quarter == quarter {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return out[i].Bucket < out[j].Bucket
		}
		return out[i].SubGoal < out[j].SubGoal
	})
	return out, nil
}

var _ Store = (*Memory)(nil)
