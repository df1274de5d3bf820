package components

import (
	"fmt"
	"math"
	"strconv"
)

// LineChartConfig describes a single-series line chart
type LineChartConfig struct {
	Width       float64
	Height      float64
	XKey        string // name of the x field, e.g. "date"
	DataKey     string // name of the y field, e.g. "attendanceRate"
	Name        string // legend / tooltip name of the series
	Stroke      string
	StrokeWidth int
	GridColor   string
	AxisColor   string
	YMax        float64 // upper bound of the y axis; grows to fit larger values
	YTicks      int
}

// DefaultLineChartConfig matches the dashboard card styling
func DefaultLineChartConfig() LineChartConfig {
	return LineChartConfig{
		Width:       600,
		Height:      256,
		Stroke:      "#3b82f6",
		StrokeWidth: 3,
		GridColor:   "#e2e8f0",
		AxisColor:   "#64748b",
		YMax:        100,
		YTicks:      4,
	}
}

// ChartPoint is a plotted value in SVG coordinates
type ChartPoint struct {
	Label string
	Value float64
	X     float64
	Y     float64
}

func (p ChartPoint) CX() string         { return coord(p.X) }
func (p ChartPoint) CY() string         { return coord(p.Y) }
func (p ChartPoint) ValueLabel() string { return strconv.FormatFloat(p.Value, 'f', -1, 64) }

// LineSeries is one plotted line
type LineSeries struct {
	DataKey     string
	Name        string
	Stroke      string
	StrokeWidth string
	Path        string
	Points      []ChartPoint
}

// AxisTick is a labelled position on an axis
type AxisTick struct {
	Label string
	X     float64
	Y     float64
}

func (t AxisTick) PosX() string { return coord(t.X) }
func (t AxisTick) PosY() string { return coord(t.Y) }

// GridLine is a dashed background line, coordinates already formatted
type GridLine struct {
	X1, Y1, X2, Y2 string
}

func gridLine(x1, y1, x2, y2 float64) GridLine {
	return GridLine{X1: coord(x1), Y1: coord(y1), X2: coord(x2), Y2: coord(y2)}
}

// LineChart is the laid-out chart ready for rendering
type LineChart struct {
	Width     float64
	Height    float64
	XKey      string
	GridColor string
	AxisColor string
	Grid      []GridLine
	XTicks    []AxisTick
	YTicks    []AxisTick
	Series    []LineSeries
}

// ViewBox returns the SVG viewBox attribute
func (c LineChart) ViewBox() string {
	return fmt.Sprintf("0 0 %s %s", coord(c.Width), coord(c.Height))
}

const (
	padLeft   = 40
	padRight  = 16
	padTop    = 16
	padBottom = 32
)

// NewLineChart lays out labels/values as one series. It always yields exactly one
// series, with an empty path when there are no values.
func NewLineChart(cfg LineChartConfig, labels []string, values []float64) LineChart {
	def := DefaultLineChartConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.YMax <= 0 {
		cfg.YMax = def.YMax
	}
	if cfg.YTicks <= 0 {
		cfg.YTicks = def.YTicks
	}
	if cfg.StrokeWidth <= 0 {
		cfg.StrokeWidth = def.StrokeWidth
	}

	yMax := cfg.YMax
	for _, v := range values {
		if v > yMax {
			yMax = math.Ceil(v/20) * 20
		}
	}

	left, right := float64(padLeft), cfg.Width-padRight
	top, bottom := float64(padTop), cfg.Height-padBottom
	plotW, plotH := right-left, bottom-top

	chart := LineChart{
		Width:     cfg.Width,
		Height:    cfg.Height,
		XKey:      cfg.XKey,
		GridColor: cfg.GridColor,
		AxisColor: cfg.AxisColor,
	}

	for i := 0; i <= cfg.YTicks; i++ {
		v := yMax * float64(i) / float64(cfg.YTicks)
		y := bottom - plotH*float64(i)/float64(cfg.YTicks)
		chart.Grid = append(chart.Grid, gridLine(left, y, right, y))
		chart.YTicks = append(chart.YTicks, AxisTick{
			Label: strconv.FormatFloat(v, 'f', -1, 64),
			X:     left - 8,
			Y:     y + 4,
		})
	}

	n := len(values)
	if len(labels) < n {
		n = len(labels)
	}

	series := LineSeries{
		DataKey:     cfg.DataKey,
		Name:        cfg.Name,
		Stroke:      cfg.Stroke,
		StrokeWidth: strconv.Itoa(cfg.StrokeWidth),
		Points:      make([]ChartPoint, 0, n),
	}

	path := make([]byte, 0, n*16)
	for i := 0; i < n; i++ {
		x := left + plotW/2
		if n > 1 {
			x = left + plotW*float64(i)/float64(n-1)
		}
		y := bottom - plotH*values[i]/yMax
		series.Points = append(series.Points, ChartPoint{Label: labels[i], Value: values[i], X: x, Y: y})
		chart.Grid = append(chart.Grid, gridLine(x, top, x, bottom))
		chart.XTicks = append(chart.XTicks, AxisTick{Label: labels[i], X: x, Y: bottom + 20})

		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		if i > 0 {
			path = append(path, ' ')
		}
		path = append(path, cmd+coord(x)+" "+coord(y)...)
	}
	series.Path = string(path)
	chart.Series = []LineSeries{series}
	return chart
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
