package testing

import "github.com/aristath/homestead/internal/modules/housing"

// NewAssumptionFixtures returns named assumption sets for use in tests.
//
//   - "default": the illustrative condo; finances a monthly deficit
//   - "rented": rent far above costs; reinvests a monthly surplus
//   - "short_hold": the default condo sold after two and a half years
func NewAssumptionFixtures() map[string]housing.Assumptions {
	rented := housing.DefaultAssumptions()
	rented.PropertyTax = 0.00125
	rented.Insurance = 0.000317
	rented.TenantIncome = 0.025

	short := housing.DefaultAssumptions()
	short.InvestingYears = 2.5

	return map[string]housing.Assumptions{
		"default":    housing.DefaultAssumptions(),
		"rented":     rented,
		"short_hold": short,
	}
}

// NewAssumptionFixture returns the named fixture, panicking on a typo.
func NewAssumptionFixture(name string) housing.Assumptions {
	a, ok := NewAssumptionFixtures()[name]
	if !ok {
		panic("unknown assumption fixture " + name)
	}
	return a
}
