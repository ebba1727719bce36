package chart

import (
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sudogwon/web/internal/format"
	"sudogwon/web/internal/models"
)

// Snippet is an embeddable chart fragment for the detail template.
type Snippet struct {
	Element template.HTML
	Script  template.HTML
}

// Render builds the composed chart over an already windowed slice. The price
// line uses the computed domain on the left axis; deal counts are bars on an
// unscaled right axis.
func Render(points []models.HistoryPoint) Snippet {
	months := make([]string, len(points))
	priceData := make([]opts.LineData, len(points))
	countData := make([]opts.BarData, len(points))
	for i, p := range points {
		months[i] = format.Month(p.Month)
		priceData[i] = opts.LineData{Value: p.AvgAmount}
		countData[i] = opts.BarData{Value: p.Count}
	}

	domainMin, domainMax, _ := PriceDomain(points)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "300px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Min:  domainMin,
			Max:  domainMax,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
	)
	line.ExtendYAxis(opts.YAxis{Type: "value"})

	line.SetXAxis(months).AddSeries("평균가", priceData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), YAxisIndex: 0}),
	)

	bar := charts.NewBar()
	bar.SetXAxis(months).AddSeries("거래량", countData,
		charts.WithBarChartOpts(opts.BarChart{YAxisIndex: 1}),
	)
	line.Overlap(bar)

	snippet := line.RenderSnippet()
	return Snippet{
		Element: template.HTML(snippet.Element),
		Script:  template.HTML(snippet.Script),
	}
}
