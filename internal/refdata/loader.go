// Package refdata loads and indexes the reference sets the calculation
// paths depend on: per-title commission rate tables, global policy flags,
// and active CRM company records.
package refdata

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/normalize"
	"github.com/ridgepoint/commission-cli/internal/store"
)

// ErrNoRateConfig means no commission rate table exists for any title.
// This is the one reference-data condition that fails a whole run.
var ErrNoRateConfig = eris.New("refdata: no commission rate configuration exists")

// CompanyRef is the slice of a CRM company the calculation paths need.
type CompanyRef struct {
	CopperID    string
	AccountType string // raw CRM text, normalized downstream
}

// Bundle holds the loaded reference sets for one run.
type Bundle struct {
	// Rates is keyed by lowercased title ("account manager"), derived
	// from the storage id ("account_manager").
	Rates map[string]*model.CommissionRate

	Policy model.CommissionPolicy

	// Companies is keyed by the CRM account-order id, the join key to
	// customer.AccountNumber. Only active companies with a populated join
	// key are present.
	Companies map[string]CompanyRef
}

// TitleKey converts a rate-table storage id ("account_manager") to the
// lookup key matched against rep titles ("account manager").
func TitleKey(id string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(id, "_", " ")))
}

// Load assembles a Bundle from the store. A missing policy document falls
// back to the hardcoded default; an empty rate set is ErrNoRateConfig.
func Load(ctx context.Context, st store.Store) (*Bundle, error) {
	log := zap.L().With(zap.String("component", "refdata"))

	raw, err := st.ListRateTables(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: load rate tables")
	}
	if len(raw) == 0 {
		return nil, ErrNoRateConfig
	}
	rates := make(map[string]*model.CommissionRate, len(raw))
	for id, rate := range raw {
		rates[TitleKey(id)] = rate
	}

	policy := model.DefaultPolicy()
	stored, err := st.GetPolicy(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: load policy")
	}
	if stored != nil {
		policy = *stored
	}

	companies, err := LoadCompanies(ctx, st)
	if err != nil {
		return nil, err
	}

	log.Info("reference data loaded",
		zap.Int("rate_tables", len(rates)),
		zap.Int("active_companies", len(companies)),
		zap.Bool("use_order_value", policy.UseOrderValue),
	)

	return &Bundle{Rates: rates, Policy: policy, Companies: companies}, nil
}

// LoadCompanies indexes active CRM companies by their account-order id.
// Records whose active flag is falsy under any of the known truthy
// encodings, or whose join key is blank, are excluded.
func LoadCompanies(ctx context.Context, st store.Store) (map[string]CompanyRef, error) {
	all, err := st.ListCopperCompanies(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: load copper companies")
	}
	return IndexCompanies(all), nil
}

// IndexCompanies is the pure indexing step behind LoadCompanies.
func IndexCompanies(all []model.CopperCompany) map[string]CompanyRef {
	out := make(map[string]CompanyRef)
	for _, c := range all {
		if !normalize.Boolean(c.ActiveRaw) {
			continue
		}
		key := strings.TrimSpace(c.AccountOrderID)
		if key == "" {
			continue
		}
		out[key] = CompanyRef{CopperID: c.CopperID, AccountType: c.AccountTypeRaw}
	}
	return out
}

// RateFor returns the rate table for a rep title, or nil when none is
// configured. Matching is case-insensitive; callers report the affected
// order as skipped and continue.
func (b *Bundle) RateFor(title string) *model.CommissionRate {
	return b.Rates[strings.ToLower(strings.TrimSpace(title))]
}
