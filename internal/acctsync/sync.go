package acctsync

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/store"
)

// Syncer reconciles customer account types against the mirrored Copper
// company table.
type Syncer struct {
	store store.Store
	log   *zap.Logger
}

func NewSyncer(st store.Store) *Syncer {
	return &Syncer{
		store: st,
		log:   zap.L().With(zap.String("component", "acctsync")),
	}
}

// Run matches every ERP customer to a CRM company and writes back the
// resolved account type, source, and CRM id. Only customers whose
// resolved values actually changed are written, so a re-run against a
// settled ledger is nearly free. Manual overrides are never modified.
func (s *Syncer) Run(ctx context.Context) (model.SyncStats, error) {
	var stats model.SyncStats

	companies, err := s.store.ListCopperCompanies(ctx)
	if err != nil {
		return stats, eris.Wrap(err, "acctsync: load copper companies")
	}
	matcher := NewMatcher(companies)
	stats.CopperLoaded = matcher.Active()

	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return stats, eris.Wrap(err, "acctsync: load customers")
	}
	stats.FishbowlLoaded = len(customers)

	var updates []model.Customer
	for i := range customers {
		cust := &customers[i]

		company, ok := matcher.Match(cust)
		if !ok {
			stats.NoMatch++
			continue
		}
		stats.Matched++

		next := *cust
		next.CopperID = company.CopperID
		if cust.AccountTypeOverride == "" {
			if t, ok := NormalizeType(company.AccountTypeRaw); ok {
				next.AccountType = t
				next.AccountTypeSource = model.SourceCopper
			}
		}

		if next.AccountType == cust.AccountType &&
			next.AccountTypeSource == cust.AccountTypeSource &&
			next.CopperID == cust.CopperID {
			stats.AlreadyCorrect++
			continue
		}
		updates = append(updates, next)
	}

	if len(updates) > 0 {
		n, err := s.store.ApplyAccountTypes(ctx, updates)
		if err != nil {
			return stats, eris.Wrap(err, "acctsync: apply account types")
		}
		stats.Updated = int(n)
	}

	s.log.Info("account-type sync complete",
		zap.Int("copper_loaded", stats.CopperLoaded),
		zap.Int("fishbowl_loaded", stats.FishbowlLoaded),
		zap.Int("matched", stats.Matched),
		zap.Int("updated", stats.Updated),
		zap.Int("already_correct", stats.AlreadyCorrect),
		zap.Int("no_match", stats.NoMatch),
	)
	return stats, nil
}
