// README: Currency codes and the money value object shared across modules.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	JPY Currency = "JPY"
	USD Currency = "USD"
	VND Currency = "VND"
	CNY Currency = "CNY"
	KRW Currency = "KRW"
)

// BaseCurrency is the currency every catalog price and cost breakdown is denominated in.
const BaseCurrency = JPY

// SupportedCurrencies lists the codes a calculation may be requested in.
var SupportedCurrencies = []Currency{JPY, USD, VND, CNY, KRW}

func (c Currency) Supported() bool {
	for _, s := range SupportedCurrencies {
		if s == c {
			return true
		}
	}
	return false
}

// ParseCurrency normalises a client supplied code. Empty input yields the base currency.
func ParseCurrency(s string) Currency {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return BaseCurrency
	}
	return Currency(s)
}

type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

func NewMoney(amount decimal.Decimal, cur Currency) Money {
	return Money{Amount: amount, Currency: cur}
}

func (m Money) String() string {
	return FormatAmount(m.Amount, m.Currency)
}
