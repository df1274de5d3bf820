package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLineChart(t *testing.T) {
	cfg := DefaultLineChartConfig()
	cfg.XKey = "date"
	cfg.DataKey = "attendanceRate"

	t.Run("No points still yields one series", func(t *testing.T) {
		chart := NewLineChart(cfg, nil, nil)
		if assert.Len(t, chart.Series, 1) {
			assert.Equal(t, "attendanceRate", chart.Series[0].DataKey)
			assert.Empty(t, chart.Series[0].Path)
			assert.Empty(t, chart.Series[0].Points)
		}
		assert.Empty(t, chart.XTicks)
		assert.Len(t, chart.YTicks, cfg.YTicks+1)
		assert.Equal(t, "date", chart.XKey)
		assert.Equal(t, "0 0 600.0 256.0", chart.ViewBox())
	})

	t.Run("Path visits every point", func(t *testing.T) {
		chart := NewLineChart(cfg, []string{"Mar 9", "Mar 10", "Mar 11"}, []float64{80, 90, 100})
		series := chart.Series[0]
		assert.True(t, strings.HasPrefix(series.Path, "M40.0 "), series.Path)
		assert.Equal(t, 2, strings.Count(series.Path, "L"))
		assert.Len(t, series.Points, 3)
		assert.Len(t, chart.XTicks, 3)

		// 100 sits on the top edge of the plot area
		assert.Equal(t, "16.0", series.Points[2].CY())
		assert.Equal(t, "100", series.Points[2].ValueLabel())
		assert.Equal(t, "Mar 11", chart.XTicks[2].Label)
	})

	t.Run("Single point is centered", func(t *testing.T) {
		chart := NewLineChart(cfg, []string{"Mar 11"}, []float64{50})
		assert.Equal(t, "312.0", chart.Series[0].Points[0].CX())
	})

	t.Run("Mismatched inputs use the shorter", func(t *testing.T) {
		chart := NewLineChart(cfg, []string{"a", "b"}, []float64{1, 2, 3})
		assert.Len(t, chart.Series[0].Points, 2)
	})

	t.Run("Y axis grows to fit", func(t *testing.T) {
		chart := NewLineChart(cfg, []string{"a"}, []float64{130})
		assert.Equal(t, "140", chart.YTicks[len(chart.YTicks)-1].Label)
	})

	t.Run("Zero config falls back to defaults", func(t *testing.T) {
		chart := NewLineChart(LineChartConfig{}, nil, nil)
		assert.Equal(t, 600.0, chart.Width)
		assert.Equal(t, "3", chart.Series[0].StrokeWidth)
	})
}

func TestJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{}", JSON(make(chan int)))
}
