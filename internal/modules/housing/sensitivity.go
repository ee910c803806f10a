package housing

import (
	"fmt"
	"math"

	"github.com/aristath/homestead/pkg/formulas"
)

// SensitivityPoints is the number of grid values in a sweep.
const SensitivityPoints = 10

// SensitivityResult holds a sweep of one assumption and the MIRR at each
// value, in grid order.
type SensitivityResult struct {
	Attribute string    `json:"attribute"`
	Values    []float64 `json:"values"`
	MIRR      []float64 `json:"mirr"`
}

// Sensitivity recomputes the MIRR at SensitivityPoints evenly spaced values
// of attr over [lower, upper], all other assumptions held fixed.
//
// Every grid point is evaluated on its own copy of the assumptions, so the
// model is left exactly as it was, including when a point fails.
func (m *Model) Sensitivity(attr string, lower, upper float64) (*SensitivityResult, error) {
	if _, err := m.assumptions.Get(attr); err != nil {
		return nil, err
	}
	for _, bound := range []float64{lower, upper} {
		if math.IsNaN(bound) || math.IsInf(bound, 0) {
			return nil, invalid(attr, "sweep bounds must be finite, got [%g, %g]", lower, upper)
		}
	}

	res := &SensitivityResult{
		Attribute: attr,
		Values:    formulas.Linspace(lower, upper, SensitivityPoints),
		MIRR:      make([]float64, SensitivityPoints),
	}

	for i, v := range res.Values {
		varied, err := m.assumptions.With(attr, v)
		if err != nil {
			return nil, err
		}
		point, err := m.derive(varied)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", attr, v, err)
		}
		mirr, err := point.MIRR()
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", attr, v, err)
		}
		res.MIRR[i] = mirr
	}

	m.log.Debug().
		Str("attribute", attr).
		Float64("lower", lower).
		Float64("upper", upper).
		Msg("Sensitivity sweep finished")

	return res, nil
}
