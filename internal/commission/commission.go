// Package commission implements the swap profit split. All math is
// decimal based and rounded to 2 places at the component level, with
// the company share taking the rounding remainder so the three parts
// always sum back to the total profit.
package commission

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Input is what a split is computed from. Percentages are expressed
// as 0..100 values, not fractions.
type Input struct {
	TransactionValue  decimal.Decimal
	FeePercent        decimal.Decimal
	CommissionPercent decimal.Decimal // affiliate share of the profit
	CascadePercent    decimal.Decimal // recruiter share of the profit
}

// Split is the outcome of dividing a swap's service fee.
type Split struct {
	TotalProfit         decimal.Decimal
	AffiliateCommission decimal.Decimal
	CascadeCommission   decimal.Decimal
	CompanyProfit       decimal.Decimal
}

// Zero returns an all-zero split. Used when the lead has no resolvable
// affiliate so the ticket still records a consistent breakdown.
func Zero() Split {
	zero := decimal.Zero
	return Split{
		TotalProfit:         zero,
		AffiliateCommission: zero,
		CascadeCommission:   zero,
		CompanyProfit:       zero,
	}
}

// Compute splits the service fee of a transaction. The company share is
// the remainder after affiliate and cascade cuts, so it absorbs any
// rounding drift.
func Compute(in Input) Split {
	totalProfit := in.TransactionValue.Mul(in.FeePercent).Div(oneHundred).Round(2)
	affiliateCut := totalProfit.Mul(in.CommissionPercent).Div(oneHundred).Round(2)
	cascadeCut := totalProfit.Mul(in.CascadePercent).Div(oneHundred).Round(2)
	company := totalProfit.Sub(affiliateCut).Sub(cascadeCut)
	return Split{
		TotalProfit:         totalProfit,
		AffiliateCommission: affiliateCut,
		CascadeCommission:   cascadeCut,
		CompanyProfit:       company,
	}
}
