package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Holding is one aggregated position: the summed Value of every cleaned
// record sharing the same security and account.
type Holding struct {
	Category      string          `json:"asset_category"`
	Name          string          `json:"name"`
	Ticker        string          `json:"ticker"`
	Custodian     string          `json:"custodian"`
	AccountType   string          `json:"account_type"`
	AccountNumber string          `json:"account_number"`
	AccountInfo   string          `json:"account_info"`
	Value         decimal.Decimal `json:"value"`
}

// AccountInfo formats the derived account identifier, e.g. "IRA (1234)"
func AccountInfo(accountType, accountNumber string) string {
	return fmt.Sprintf("%s (%s)", accountType, accountNumber)
}

// SecurityKey identifies a security row in the cross-tab
func (h Holding) SecurityKey() PivotRowKey {
	return PivotRowKey{Category: h.Category, Name: h.Name, Ticker: h.Ticker}
}

// HoldingColumns is the header used when holdings are rendered as a table
var HoldingColumns = []string{
	ColAssetCategory,
	ColName,
	ColTicker,
	ColCustodian,
	ColAccountType,
	ColAccountNumber,
	ColAccountInfo,
	ColValue,
}

// Row renders the holding in HoldingColumns order
func (h Holding) Row() Row {
	return Row{
		h.Category,
		h.Name,
		h.Ticker,
		h.Custodian,
		h.AccountType,
		h.AccountNumber,
		h.AccountInfo,
		h.Value.String(),
	}
}
