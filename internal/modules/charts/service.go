// Package charts renders sensitivity sweeps as interactive HTML line charts.
package charts

import (
	"fmt"
	"io"

	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog"
)

// YAxisLabel is the y-axis caption of every sensitivity chart.
const YAxisLabel = "Modified Internal Rate of Return"

// ChartDataPoint represents a single point on a chart
type ChartDataPoint struct {
	X float64 `json:"x"` // Swept assumption value
	Y float64 `json:"y"` // MIRR at that value
}

// Points pairs the swept values with their MIRRs.
func Points(res *housing.SensitivityResult) ([]ChartDataPoint, error) {
	if len(res.Values) != len(res.MIRR) {
		return nil, fmt.Errorf("sweep of %s has %d values but %d results", res.Attribute, len(res.Values), len(res.MIRR))
	}
	points := make([]ChartDataPoint, len(res.Values))
	for i := range res.Values {
		points[i] = ChartDataPoint{X: res.Values[i], Y: res.MIRR[i]}
	}
	return points, nil
}

// Service renders sensitivity charts
type Service struct {
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// RenderSensitivity writes a standalone HTML page plotting MIRR against the
// swept assumption.
func (s *Service) RenderSensitivity(w io.Writer, res *housing.SensitivityResult) error {
	points, err := Points(res)
	if err != nil {
		return err
	}

	xAxis := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		xAxis[i] = fmt.Sprintf("%.6g", p.X)
		data[i] = opts.LineData{Value: p.Y}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sensitivity: " + res.Attribute}),
		charts.WithTitleOpts(opts.Title{
			Title:    "MIRR sensitivity to " + res.Attribute,
			Subtitle: fmt.Sprintf("%d evenly spaced values", len(points)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: res.Attribute}),
		charts.WithYAxisOpts(opts.YAxis{Name: YAxisLabel}),
	)
	line.SetXAxis(xAxis).AddSeries("MIRR", data)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render sensitivity chart: %w", err)
	}

	s.log.Debug().Str("attribute", res.Attribute).Int("points", len(points)).Msg("Rendered sensitivity chart")
	return nil
}
