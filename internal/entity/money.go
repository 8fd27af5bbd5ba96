package entity

import "github.com/shopspring/decimal"

// NetPay computes gross × (1 − commission/100), rounded to integer CLP.
// Computed once at capture time and stored with the report.
func NetPay(gross int64, commissionPercent float64) int64 {
	g := decimal.NewFromInt(gross)
	pct := decimal.NewFromFloat(commissionPercent).Div(decimal.NewFromInt(100))
	net := g.Mul(decimal.NewFromInt(1).Sub(pct))
	return net.Round(0).IntPart()
}

// CommissionAmount is the branch's cut of a gross total, rounded to integer CLP.
func CommissionAmount(gross int64, commissionPercent float64) int64 {
	return gross - NetPay(gross, commissionPercent)
}
