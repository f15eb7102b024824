package acctsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/store"
)

func TestNormalizeType_ExactBeforeSubstring(t *testing.T) {
	// "chain hq" would also match the "chain" substring rule; the exact
	// rule must win.
	typ, ok := NormalizeType("Chain HQ")
	require.True(t, ok)
	assert.Equal(t, model.AccountRetail, typ)

	typ, ok = NormalizeType("chain stores")
	require.True(t, ok)
	assert.Equal(t, model.AccountWholesale, typ)
}

func TestNormalizeType_Rules(t *testing.T) {
	cases := map[string]model.AccountType{
		"Retail":               model.AccountRetail,
		"  wholesale ":         model.AccountWholesale,
		"Distributor":          model.AccountDistributor,
		"Distribution Partner": model.AccountDistributor,
		"Authorized Dealer":    model.AccountWholesale,
		"E-Commerce":           model.AccountRetail,
	}
	for raw, want := range cases {
		typ, ok := NormalizeType(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, typ, raw)
	}

	_, ok := NormalizeType("Unrelated Label")
	assert.False(t, ok)
	_, ok = NormalizeType("")
	assert.False(t, ok)
}

func TestCompositeKey_Normalization(t *testing.T) {
	a := CompositeKey("Café Verde, LLC", "123 Main St.", "Austin", "Texas", "78701")
	b := CompositeKey("cafe verde llc", "123 MAIN ST", "austin", "TX", "78701")
	assert.Equal(t, a, b)

	assert.Empty(t, CompositeKey("", "123 Main St", "Austin", "TX", "78701"),
		"a name-less key would collide")
}

func TestMatcher_DirectJoinIsPrimary(t *testing.T) {
	companies := []model.CopperCompany{
		{CopperID: "cop-1", Name: "Acme", AccountOrderID: "ACC-1", ActiveRaw: "checked"},
		{CopperID: "cop-2", Name: "Beta Corp", Street: "5 Oak Ave", City: "Denver", State: "CO", Zip: "80014", ActiveRaw: "true"},
		{CopperID: "cop-3", Name: "Inactive Inc", AccountOrderID: "ACC-3", ActiveRaw: "no"},
	}
	m := NewMatcher(companies)

	// Direct join by account number, even though the names differ.
	got, ok := m.Match(&model.Customer{AccountNumber: "ACC-1", Name: "Totally Different"})
	require.True(t, ok)
	assert.Equal(t, "cop-1", got.CopperID)

	// No join key: the composite name/address fallback.
	got, ok = m.Match(&model.Customer{
		Name: "Beta Corp", ShipStreet: "5 Oak Ave", ShipCity: "Denver",
		ShipState: "Colorado", ShipZip: "80014",
	})
	require.True(t, ok)
	assert.Equal(t, "cop-2", got.CopperID)

	// Inactive companies are invisible.
	_, ok = m.Match(&model.Customer{AccountNumber: "ACC-3"})
	assert.False(t, ok)

	_, ok = m.Match(&model.Customer{Name: "Nobody"})
	assert.False(t, ok)
}

func TestSyncer_Run(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	_, err := st.SaveCopperCompanies(ctx, []model.CopperCompany{
		{CopperID: "cop-1", Name: "Acme", AccountOrderID: "ACC-1", AccountTypeRaw: "Wholesale", ActiveRaw: "checked"},
		{CopperID: "cop-2", Name: "Beta", AccountOrderID: "ACC-2", AccountTypeRaw: "Chain HQ", ActiveRaw: "checked"},
	})
	require.NoError(t, err)

	st.PutCustomer(&model.Customer{
		CustomerID: "C1", AccountNumber: "ACC-1",
		AccountType: model.AccountRetail, AccountTypeSource: model.SourceFishbowl,
	})
	// Override holders keep their type but still gain the CRM link.
	st.PutCustomer(&model.Customer{
		CustomerID: "C2", AccountNumber: "ACC-2",
		AccountType: model.AccountDistributor, AccountTypeSource: model.SourceOverride,
		AccountTypeOverride: model.AccountDistributor,
	})
	st.PutCustomer(&model.Customer{CustomerID: "C3", AccountNumber: "ACC-999"})

	stats, err := NewSyncer(st).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.CopperLoaded)
	assert.Equal(t, 3, stats.FishbowlLoaded)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, 1, stats.NoMatch)

	c1, err := st.GetCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, model.AccountWholesale, c1.AccountType)
	assert.Equal(t, model.SourceCopper, c1.AccountTypeSource)
	assert.Equal(t, "cop-1", c1.CopperID)

	c2, err := st.GetCustomer(ctx, "C2")
	require.NoError(t, err)
	assert.Equal(t, model.AccountDistributor, c2.AccountType, "override untouched")
	assert.Equal(t, model.AccountDistributor, c2.AccountTypeOverride)
	assert.Equal(t, "cop-2", c2.CopperID, "CRM id still linked")

	// Second run: everything already correct.
	again, err := NewSyncer(st).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Updated)
	assert.Equal(t, 2, again.AlreadyCorrect)
}
