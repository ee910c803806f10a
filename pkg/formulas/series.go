// Package formulas provides time-value-of-money building blocks shared by the
// housing model: discount and compounding factor series, rate conversions and
// the standard annuity payment.
package formulas

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidPeriods is returned when a factor series is requested over an
// empty horizon.
var ErrInvalidPeriods = errors.New("periods must be at least 1")

// DiscountSeries returns present-value factors for cash flows received at the
// end of each of the next periods periods.
//
// Formula: d[0] = 1/(1+r), d[i] = d[i-1]/(1+r)
func DiscountSeries(rate float64, periods int) ([]float64, error) {
	if periods < 1 {
		return nil, fmt.Errorf("discount series over %d periods: %w", periods, ErrInvalidPeriods)
	}

	res := make([]float64, periods)
	res[0] = 1 / (1 + rate)
	for i := 1; i < periods; i++ {
		res[i] = res[i-1] / (1 + rate)
	}
	return res, nil
}

// CompoundingSeries returns the factors that carry each period's cash flow
// forward to the end of the horizon.
//
// The series is built forward (c[0] = 1, c[i] = c[i-1]*(1+r)) and then
// reversed, so index 0 holds the largest factor and the last element is
// always exactly 1. A dot product against a chronologically ordered cash-flow
// slice therefore yields its terminal value.
func CompoundingSeries(rate float64, periods int) ([]float64, error) {
	if periods < 1 {
		return nil, fmt.Errorf("compounding series over %d periods: %w", periods, ErrInvalidPeriods)
	}

	res := make([]float64, periods)
	res[0] = 1
	for i := 1; i < periods; i++ {
		res[i] = res[i-1] * (1 + rate)
	}
	floats.Reverse(res)
	return res, nil
}

// AverageCompounding returns the average compounding factor over a horizon
// of possibly fractional length. The series covers the whole periods of the
// horizon and its sum is divided by the untruncated horizon. Used to scale a
// monthly amount to its horizon-average level.
func AverageCompounding(rate, horizon float64) (float64, error) {
	series, err := CompoundingSeries(rate, int(horizon))
	if err != nil {
		return 0, err
	}
	return floats.Sum(series) / horizon, nil
}

// EffectiveMonthlyRate converts an annual rate to the equivalent compounded
// monthly rate: (1+annual)^(1/12) - 1.
func EffectiveMonthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

// Annualize turns a terminal wealth multiple over years into an annual rate.
//
// Formula: multiple^(1/years) - 1
//
// A negative multiple yields NaN, as a fractional power of a negative number
// has no real value.
func Annualize(multiple, years float64) float64 {
	return math.Pow(multiple, 1/years) - 1
}

// AnnuityPayment returns the level payment that fully amortizes principal over
// periods at a periodic rate.
//
// Formula: P × r(1+r)^n / ((1+r)^n - 1), or P/n when r == 0
func AnnuityPayment(principal, rate float64, periods int) (float64, error) {
	if periods < 1 {
		return 0, fmt.Errorf("annuity over %d periods: %w", periods, ErrInvalidPeriods)
	}
	if rate == 0 {
		return principal / float64(periods), nil
	}
	growth := math.Pow(1+rate, float64(periods))
	return principal * rate * growth / (growth - 1), nil
}

// Linspace returns n evenly spaced values over [lower, upper], inclusive of
// both ends. With n == 1 the single value is lower.
func Linspace(lower, upper float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{lower}
	}
	return floats.Span(make([]float64, n), lower, upper)
}
