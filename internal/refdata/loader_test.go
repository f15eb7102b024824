package refdata

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/store"
)

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "account manager", TitleKey("account_manager"))
	assert.Equal(t, "sales director", TitleKey(" sales_director "))
	assert.Equal(t, "rep", TitleKey("rep"))
}

func TestIndexCompanies_ActiveEncodings(t *testing.T) {
	idx := IndexCompanies([]model.CopperCompany{
		{CopperID: "1", AccountOrderID: "A-1", ActiveRaw: "checked", AccountTypeRaw: "Wholesale"},
		{CopperID: "2", AccountOrderID: "A-2", ActiveRaw: "Checked", AccountTypeRaw: "Retail"},
		{CopperID: "3", AccountOrderID: "A-3", ActiveRaw: "true", AccountTypeRaw: "Distributor"},
		{CopperID: "4", AccountOrderID: "A-4", ActiveRaw: "false"},
		{CopperID: "5", AccountOrderID: "A-5", ActiveRaw: ""},
	})
	require.Len(t, idx, 3)
	assert.Equal(t, "Wholesale", idx["A-1"].AccountType)
	assert.Equal(t, "2", idx["A-2"].CopperID)
}

func TestIndexCompanies_MissingJoinKeyExcluded(t *testing.T) {
	idx := IndexCompanies([]model.CopperCompany{
		{CopperID: "1", AccountOrderID: "", ActiveRaw: "checked"},
		{CopperID: "2", AccountOrderID: "   ", ActiveRaw: "checked"},
		{CopperID: "3", AccountOrderID: "A-3", ActiveRaw: "checked"},
	})
	assert.Len(t, idx, 1)
}

func TestLoad_NoRateTablesIsFatal(t *testing.T) {
	st := store.NewMemory()
	_, err := Load(context.Background(), st)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoRateConfig))
}

func TestLoad_DefaultPolicyWhenUnset(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.SaveRateTable(context.Background(), "account_manager", &model.CommissionRate{Title: "account manager"}))

	b, err := Load(context.Background(), st)
	require.NoError(t, err)
	assert.True(t, b.Policy.ExcludeShipping)
	assert.True(t, b.Policy.UseOrderValue)
	assert.NotNil(t, b.RateFor("account manager"))
	assert.Nil(t, b.RateFor("unknown title"))
}

func TestLoad_StoredPolicyWins(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, st.SaveRateTable(ctx, "rep", &model.CommissionRate{Title: "rep"}))
	require.NoError(t, st.SavePolicy(ctx, &model.CommissionPolicy{ExcludeShipping: true, UseOrderValue: false}))

	b, err := Load(ctx, st)
	require.NoError(t, err)
	assert.False(t, b.Policy.UseOrderValue)
}
