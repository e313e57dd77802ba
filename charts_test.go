package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderChartAllNames(t *testing.T) {
	d := BuildDashboard(scenarioTable().Rows, "", 1, 10)
	for _, name := range chartNames {
		t.Run(name, func(t *testing.T) {
			png, err := renderChart(name, d)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}

// un só mes e un só aeroporto: rangos degradados
func TestRenderChartSinglePoint(t *testing.T) {
	rows := scenarioTable().Rows[:1]
	d := BuildDashboard(rows, "", 1, 10)
	for _, name := range []string{"trend-count", "trend-amounts", "airports-amount", "months-bar"} {
		png, err := renderChart(name, d)
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(png, pngMagic), name)
	}
}

func TestRenderChartEmpty(t *testing.T) {
	d := BuildDashboard(nil, "", 1, 10)
	for _, name := range chartNames {
		_, err := renderChart(name, d)
		assert.ErrorIs(t, err, errNoChartData, name)
	}
}

func TestRenderChartUnknown(t *testing.T) {
	d := BuildDashboard(scenarioTable().Rows, "", 1, 10)
	_, err := renderChart("scatter", d)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNoChartData)
}
