package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAccountType(t *testing.T) {
	cases := []struct {
		raw  string
		want AccountType
	}{
		{"revenue", AccountRevenue},
		{"Income", AccountRevenue},
		{"ايراد", AccountRevenue},
		{"إيراد", AccountRevenue},
		{"expense", AccountExpense},
		{"COGS", AccountExpense},
		{"مصروف", AccountExpense},
		{" asset ", AccountAsset},
		{"أصل", AccountAsset},
		{"liability", AccountLiability},
		{"equity", AccountEquity},
		{"", AccountUnknown},
		{"misc", AccountUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeAccountType(tc.raw), "raw %q", tc.raw)
	}
}

func TestFilterWantsSource(t *testing.T) {
	assert.True(t, Filter{}.WantsSource(SourcePayroll), "empty filter selects everything")

	f := Filter{Sources: []SourceType{SourceInvoice, SourceCreditNote}}
	assert.True(t, f.WantsSource(SourceCreditNote))
	assert.False(t, f.WantsSource(SourcePayroll))
}
