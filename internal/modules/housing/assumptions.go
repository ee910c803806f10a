// Package housing models a leveraged single-property residential investment:
// mortgage amortization, carrying costs, mortgage-interest tax benefit and
// terminal sale, aggregated into a modified internal rate of return (MIRR).
package housing

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Assumptions is the complete input of the investment model. Models and
// With copy it by value, so changing a caller's Assumptions never reaches a
// model built from it.
//
// Rates are monthly unless the field says annual. Fractions of price are
// monthly amounts relative to HousePrice.
type Assumptions struct {
	DownPayment    float64 `json:"down_payment" msgpack:"down_payment"`       // fraction of price
	IncomeTax      float64 `json:"income_tax" msgpack:"income_tax"`           // marginal rate
	Years          int     `json:"years" msgpack:"years"`                     // mortgage term
	PropertyTax    float64 `json:"property_tax" msgpack:"property_tax"`       // monthly, fraction of price
	Insurance      float64 `json:"insurance" msgpack:"insurance"`             // monthly, fraction of price
	APR            float64 `json:"apr" msgpack:"apr"`                         // monthly periodic rate (APR/12)
	Inflation      float64 `json:"inflation" msgpack:"inflation"`             // annual
	FinancingCost  float64 `json:"financing_cost" msgpack:"financing_cost"`   // monthly, discounts outflows
	StockReturn    float64 `json:"stock_return" msgpack:"stock_return"`       // monthly, compounds inflows
	HOA            float64 `json:"hoa" msgpack:"hoa"`                         // monthly dollars
	HousePrice     float64 `json:"house_price" msgpack:"house_price"`         // dollars
	TenantIncome   float64 `json:"tenant_income" msgpack:"tenant_income"`     // monthly, fraction of price
	Repairs        float64 `json:"repairs" msgpack:"repairs"`                 // monthly, fraction of price
	Appreciation   float64 `json:"appreciation" msgpack:"appreciation"`       // annual
	InvestingYears float64 `json:"investing_years" msgpack:"investing_years"` // holding period
}

// DefaultAssumptions returns an illustrative condo purchase: 15% down on
// $900k at 3% APR over 30 years, rented at a 1/30 price-to-rent ratio with
// 90% occupancy, held for 7 years.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		DownPayment:    0.15,
		IncomeTax:      0.32,
		Years:          30,
		PropertyTax:    0.015 / 12,
		Insurance:      0.0038 / 12,
		APR:            0.03 / 12,
		Inflation:      0.02,
		FinancingCost:  0.03 / 12,
		StockReturn:    math.Pow(1.07, 1.0/12) - 1,
		HOA:            500,
		HousePrice:     900000,
		TenantIncome:   1.0 / 30 * 0.9 / 12,
		Repairs:        0,
		Appreciation:   0.01,
		InvestingYears: 7,
	}
}

// Months is the mortgage term in months.
func (a Assumptions) Months() int {
	return a.Years * 12
}

// InvestingMonths is the holding period in whole months (truncated).
func (a Assumptions) InvestingMonths() int {
	return int(a.InvestingYears * 12)
}

// field binds an external assumption name to its struct field.
type field struct {
	name string
	get  func(a *Assumptions) float64
	set  func(a *Assumptions, v float64) error
}

func floatField(name string, ptr func(a *Assumptions) *float64) field {
	return field{
		name: name,
		get:  func(a *Assumptions) float64 { return *ptr(a) },
		set: func(a *Assumptions, v float64) error {
			*ptr(a) = v
			return nil
		},
	}
}

var fields = []field{
	floatField("down_payment", func(a *Assumptions) *float64 { return &a.DownPayment }),
	floatField("income_tax", func(a *Assumptions) *float64 { return &a.IncomeTax }),
	{
		name: "years",
		get:  func(a *Assumptions) float64 { return float64(a.Years) },
		set: func(a *Assumptions, v float64) error {
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				return invalid("years", "must be a whole number of years, got %g", v)
			}
			a.Years = int(v)
			return nil
		},
	},
	floatField("property_tax", func(a *Assumptions) *float64 { return &a.PropertyTax }),
	floatField("insurance", func(a *Assumptions) *float64 { return &a.Insurance }),
	floatField("apr", func(a *Assumptions) *float64 { return &a.APR }),
	floatField("inflation", func(a *Assumptions) *float64 { return &a.Inflation }),
	floatField("financing_cost", func(a *Assumptions) *float64 { return &a.FinancingCost }),
	floatField("stock_return", func(a *Assumptions) *float64 { return &a.StockReturn }),
	floatField("hoa", func(a *Assumptions) *float64 { return &a.HOA }),
	floatField("house_price", func(a *Assumptions) *float64 { return &a.HousePrice }),
	floatField("tenant_income", func(a *Assumptions) *float64 { return &a.TenantIncome }),
	floatField("repairs", func(a *Assumptions) *float64 { return &a.Repairs }),
	floatField("appreciation", func(a *Assumptions) *float64 { return &a.Appreciation }),
	floatField("investing_years", func(a *Assumptions) *float64 { return &a.InvestingYears }),
}

func lookupField(name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// FieldNames lists every assumption name in canonical order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Get returns the named assumption.
func (a Assumptions) Get(name string) (float64, error) {
	f, ok := lookupField(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	return f.get(&a), nil
}

// With returns a copy of a with the named assumption replaced. The receiver
// is never modified.
func (a Assumptions) With(name string, value float64) (Assumptions, error) {
	f, ok := lookupField(name)
	if !ok {
		return a, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
	}
	if err := f.set(&a, value); err != nil {
		return a, err
	}
	return a, nil
}

// ToMap flattens the assumptions into the external name→value form.
func (a Assumptions) ToMap() map[string]float64 {
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f.name] = f.get(&a)
	}
	return out
}

// FromMap builds validated assumptions from a flat name→value mapping.
// Unknown and missing keys are both rejected.
func FromMap(values map[string]float64) (Assumptions, error) {
	var unknown []string
	for k := range values {
		if _, ok := lookupField(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Assumptions{}, invalid(strings.Join(unknown, ", "), "not recognised")
	}

	var a Assumptions
	var missing []string
	for _, f := range fields {
		v, ok := values[f.name]
		if !ok {
			missing = append(missing, f.name)
			continue
		}
		if err := f.set(&a, v); err != nil {
			return Assumptions{}, err
		}
	}
	if len(missing) > 0 {
		return Assumptions{}, invalid(strings.Join(missing, ", "), "missing")
	}

	if err := a.Validate(); err != nil {
		return Assumptions{}, err
	}
	return a, nil
}

// Validate checks every field for a usable value.
//
// An investing horizon longer than the mortgage term is a precondition, not a
// validation rule: it is reported by Model.Evaluate when the schedule cannot
// cover the horizon.
func (a Assumptions) Validate() error {
	for _, f := range fields {
		v := f.get(&a)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(f.name, "must be finite, got %g", v)
		}
	}

	switch {
	case a.HousePrice <= 0:
		return invalid("house_price", "must be positive, got %g", a.HousePrice)
	case a.Years <= 0:
		return invalid("years", "must be positive, got %d", a.Years)
	case a.InvestingYears <= 0:
		return invalid("investing_years", "must be positive, got %g", a.InvestingYears)
	case a.InvestingMonths() < 1:
		return invalid("investing_years", "must cover at least one month, got %g", a.InvestingYears)
	case a.DownPayment <= 0 || a.DownPayment > 1:
		return invalid("down_payment", "must be in (0, 1], got %g", a.DownPayment)
	case a.IncomeTax < 0 || a.IncomeTax > 1:
		return invalid("income_tax", "must be in [0, 1], got %g", a.IncomeTax)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"apr", a.APR},
		{"property_tax", a.PropertyTax},
		{"insurance", a.Insurance},
		{"hoa", a.HOA},
		{"tenant_income", a.TenantIncome},
		{"repairs", a.Repairs},
	}
	for _, nn := range nonNegative {
		if nn.value < 0 {
			return invalid(nn.name, "must not be negative, got %g", nn.value)
		}
	}

	growthRates := []struct {
		name  string
		value float64
	}{
		{"inflation", a.Inflation},
		{"appreciation", a.Appreciation},
		{"financing_cost", a.FinancingCost},
		{"stock_return", a.StockReturn},
	}
	for _, gr := range growthRates {
		if gr.value <= -1 {
			return invalid(gr.name, "must be greater than -1, got %g", gr.value)
		}
	}

	return nil
}
