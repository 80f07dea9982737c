package fee

import "github.com/shopspring/decimal"

// Supported currencies carry integer amounts, so fees round to whole units.
const minorUnitPrecision = 0

// Compute applies a percentage rate plus an optional fixed fee to a gross
// amount and returns the fee together with the remaining net amount.
//
// fee = round(amount * rate, half-up) + fixedFee
// net = amount - fee
//
// The percentage part is rounded to the currency's minor-unit precision
// before the fixed fee is added. A misconfigured policy can produce a fee
// larger than the amount; the negative net is returned as-is and rejecting
// it is the caller's business rule.
func Compute(amount, rate decimal.Decimal, fixedFee *decimal.Decimal) (fee, net decimal.Decimal) {
	fee = amount.Mul(rate).Round(minorUnitPrecision)
	if fixedFee != nil {
		fee = fee.Add(*fixedFee)
	}
	net = amount.Sub(fee)
	return fee, net
}
