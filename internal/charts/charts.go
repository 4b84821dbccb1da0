package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/core"
)

// ErrNoData is returned when a projection has nothing to draw.
var ErrNoData = errors.New("no data to render")

// Renderer turns the chart projections into PNG images.
type Renderer struct {
	currency string
}

func NewRenderer(currency string) *Renderer {
	return &Renderer{currency: currency}
}

func (r *Renderer) label(p core.ChartPoint) string {
	return fmt.Sprintf("%s: %s", p.Label, core.FormatAmount(r.currency, p.Value))
}

// BalancePie renders the income-vs-expense pie.
func (r *Renderer) BalancePie(points []core.ChartPoint) ([]byte, error) {
	return r.renderPie(points, "Income vs Expense")
}

// CategoryPie renders the per-category spending pie.
func (r *Renderer) CategoryPie(points []core.ChartPoint) ([]byte, error) {
	return r.renderPie(points, "Spending by Category")
}

func (r *Renderer) renderPie(points []core.ChartPoint, title string) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(points))
	for _, p := range points {
		value, _ := p.Value.Float64()
		values = append(values, chart.Value{
			Label: r.label(p),
			Value: value,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render %s: %w", title, err)
	}
	return buffer.Bytes(), nil
}

// MonthlyNetBars renders the month-by-month net bar chart. Positive months
// are green, negative months red.
func (r *Renderer) MonthlyNetBars(points []core.ChartPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		value, _ := p.Value.Float64()
		fill := chart.ColorGreen
		if p.Value.IsNegative() {
			fill = chart.ColorRed
		}
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: value,
			Style: chart.Style{
				StrokeColor: fill,
				FillColor:   fill.WithAlpha(180),
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Monthly Net",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%s%.0f", core.CurrencySymbol(r.currency), v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render monthly net chart: %w", err)
	}
	return buffer.Bytes(), nil
}
