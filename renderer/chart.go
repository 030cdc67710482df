package renderer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/etnz/portfel"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// scenarioColors are used in turn for the trajectories.
var scenarioColors = []drawing.Color{
	drawing.ColorFromHex("dc2626"), // red-600
	drawing.ColorFromHex("2563eb"), // blue-600
	drawing.ColorFromHex("16a34a"), // green-600
	drawing.ColorFromHex("9333ea"), // purple-600
}

// CategoryChart renders a PNG pie chart of the portfolio structure.
func CategoryChart(v *portfel.Valuation) ([]byte, error) {
	shares := v.Aggregate.Shares()
	values := make([]chart.Value, 0, len(shares))
	for _, s := range shares {
		if !s.Value.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", s.Category, s.Share),
			Value: s.Value.AsFloat(),
		})
	}
	if len(values) == 0 {
		return nil, errors.New("no valued position to chart")
	}

	pie := chart.PieChart{
		Title:  "Portfolio structure",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WealthChart renders a PNG line chart of the wealth trajectories by age,
// up to the retirement age, with the required capital as target.
func WealthChart(r *portfel.Retirement) ([]byte, error) {
	years := r.Plan.YearsToRetirement
	if years <= 0 || len(r.Projection.Trajectories) == 0 {
		return nil, errors.New("no accumulation period to chart")
	}

	ages := make([]float64, years+1)
	target := make([]float64, years+1)
	for i := range ages {
		ages[i] = float64(r.Assumptions.CurrentAge + i)
		target[i] = r.Projection.Target
	}

	series := make([]chart.Series, 0, len(r.Projection.Trajectories)+1)
	for i, t := range r.Projection.Trajectories {
		series = append(series, chart.ContinuousSeries{
			Name: fmt.Sprintf("%s (%.1f%%)", t.Name, t.Return*100),
			Style: chart.Style{
				StrokeColor: scenarioColors[i%len(scenarioColors)],
				StrokeWidth: 2,
			},
			XValues: ages,
			YValues: append([]float64{r.NetWorth}, t.Values...),
		})
	}
	series = append(series, chart.ContinuousSeries{
		Name: "Required capital",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: ages,
		YValues: target,
	})

	graph := chart.Chart{
		Title:  "Wealth until retirement",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Age",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
