package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedCurrency(t *testing.T) {
	assert.True(t, SupportedCurrency(CurrencyBTC))
	assert.True(t, SupportedCurrency(CurrencyUSDT))
	assert.False(t, SupportedCurrency("ETH"))
	assert.False(t, SupportedCurrency("btc"))
	assert.False(t, SupportedCurrency(""))
}

func TestWalletCreditDebit(t *testing.T) {
	u := &User{
		LinkedWalletBalanceBtc:  d("0.5"),
		LinkedWalletBalanceUsdt: d("20000"),
	}

	u.CreditWallet(CurrencyUSDT, d("1000"))
	assert.True(t, d("21000").Equal(u.LinkedWalletBalanceUsdt))
	assert.True(t, d("0.5").Equal(u.LinkedWalletBalanceBtc))

	require.NoError(t, u.DebitWallet(CurrencyBTC, d("0.2")))
	assert.True(t, d("0.3").Equal(u.LinkedWalletBalanceBtc))
}

func TestDebitWalletInsufficientBalance(t *testing.T) {
	u := &User{
		LinkedWalletBalanceBtc:  d("0.1"),
		LinkedWalletBalanceUsdt: d("50"),
	}

	err := u.DebitWallet(CurrencyUSDT, d("50.01"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	// Failed debit leaves the balance untouched
	assert.True(t, d("50").Equal(u.LinkedWalletBalanceUsdt))

	// Exact balance is spendable
	require.NoError(t, u.DebitWallet(CurrencyUSDT, d("50")))
	assert.True(t, u.LinkedWalletBalanceUsdt.IsZero())
}

func TestElevatedRisk(t *testing.T) {
	assert.False(t, ElevatedRisk(RiskLow))
	assert.False(t, ElevatedRisk(RiskMedium))
	assert.True(t, ElevatedRisk(RiskMediumHigh))
	assert.True(t, ElevatedRisk(RiskHigh))
	assert.False(t, ElevatedRisk("unknown"))
}
