package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

// Terms are the shop-wide inputs to a quote.
type Terms struct {
	TaxPercentage decimal.Decimal
	Rules         []Rule
}

// Breakdown is a fully priced quote.
type Breakdown struct {
	Lines            []Line
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	DiscountRuleID   string
	DiscountRuleName string
	Tax              decimal.Decimal
	TaxPercentage    decimal.Decimal
	Total            decimal.Decimal
}

// Quote prices selections against the catalog and applies discount and tax.
func Quote(catalog Catalog, selections []Selection, terms Terms) (*Breakdown, error) {
	lines, err := catalog.PriceLines(selections)
	if err != nil {
		return nil, err
	}
	return Finalize(lines, terms), nil
}

// Finalize applies discount and tax to already priced lines.
func Finalize(lines []Line, terms Terms) *Breakdown {
	subtotal := Subtotal(lines)
	breakdown := &Breakdown{
		Lines:         lines,
		Subtotal:      subtotal,
		Discount:      decimal.Zero,
		TaxPercentage: terms.TaxPercentage,
	}
	if applied := EvaluateDiscount(terms.Rules, lines, subtotal); applied != nil {
		breakdown.Discount = applied.Amount
		breakdown.DiscountRuleID = applied.RuleID
		breakdown.DiscountRuleName = applied.RuleName
	}
	taxable := subtotal.Sub(breakdown.Discount)
	breakdown.Tax = Tax(taxable, terms.TaxPercentage)
	breakdown.Total = taxable.Add(breakdown.Tax).Round(2)
	return breakdown
}

// Claimed is a client-supplied breakdown to check against the server's.
type Claimed struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

var tolerance = decimal.New(1, -2)

// Verify rejects a claimed breakdown that drifts more than one cent from b.
func (b *Breakdown) Verify(claimed Claimed) error {
	checks := []struct {
		field  string
		want   decimal.Decimal
		gotten decimal.Decimal
	}{
		{"pricing.subtotal", b.Subtotal, claimed.Subtotal},
		{"pricing.discount", b.Discount, claimed.Discount},
		{"pricing.tax", b.Tax, claimed.Tax},
		{"pricing.total", b.Total, claimed.Total},
	}
	details := map[string]string{}
	for _, check := range checks {
		if check.want.Sub(check.gotten).Abs().GreaterThan(tolerance) {
			details[check.field] = "expected " + check.want.StringFixed(2)
		}
	}
	if len(details) > 0 {
		return pkgerrors.Invalid("pricing does not match current prices", details)
	}
	return nil
}
