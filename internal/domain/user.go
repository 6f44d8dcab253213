package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a borrower in the system
type User struct {
	ID                      uuid.UUID       `json:"id"`
	Username                string          `json:"username"`
	WalletAddress           string          `json:"walletAddress"`
	LinkedWalletBalanceBtc  decimal.Decimal `json:"linkedWalletBalanceBtc"`
	LinkedWalletBalanceUsdt decimal.Decimal `json:"linkedWalletBalanceUsdt"`
	AutoTopUpEnabled        bool            `json:"autoTopUpEnabled"`
	SmsAlertsEnabled        bool            `json:"smsAlertsEnabled"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

// Currency constants for wallet balances and collateral
const (
	CurrencyBTC  = "BTC"
	CurrencyUSDT = "USDT"
)

// SupportedCurrency reports whether the given symbol can be used for
// top-ups and repayments.
func SupportedCurrency(currency string) bool {
	return currency == CurrencyBTC || currency == CurrencyUSDT
}

// WalletBalance returns the linked wallet balance for the given currency.
func (u *User) WalletBalance(currency string) decimal.Decimal {
	if currency == CurrencyBTC {
		return u.LinkedWalletBalanceBtc
	}
	return u.LinkedWalletBalanceUsdt
}

// CreditWallet adds amount to the linked wallet balance for the given currency.
func (u *User) CreditWallet(currency string, amount decimal.Decimal) {
	if currency == CurrencyBTC {
		u.LinkedWalletBalanceBtc = u.LinkedWalletBalanceBtc.Add(amount)
		return
	}
	u.LinkedWalletBalanceUsdt = u.LinkedWalletBalanceUsdt.Add(amount)
}

// DebitWallet subtracts amount from the linked wallet balance for the
// given currency. Returns ErrInsufficientBalance if the balance would go
// negative.
func (u *User) DebitWallet(currency string, amount decimal.Decimal) error {
	balance := u.WalletBalance(currency)
	if balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	if currency == CurrencyBTC {
		u.LinkedWalletBalanceBtc = balance.Sub(amount)
		return nil
	}
	u.LinkedWalletBalanceUsdt = balance.Sub(amount)
	return nil
}
