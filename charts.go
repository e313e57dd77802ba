package main

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ==== Gráficas PNG (go-chart) ====

var errNoChartData = errors.New("sen datos para a gráfica")

// nomes válidos en /chart/{name}.png
var chartNames = []string{
	"trend-count", "trend-amounts",
	"airports-count", "airports-amount",
	"companies-count", "companies-amount",
	"months-bar", "months-pie",
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 3,
		DotColor:    col,
		DotWidth:    4,
	}
}

// renderChart debuxa a gráfica pedida a partir do Dashboard xa calculado.
func renderChart(name string, d Dashboard) ([]byte, error) {
	switch name {
	case "trend-count":
		if d.Trend.Empty {
			return nil, errNoChartData
		}
		xs, counts := make([]time.Time, len(d.Trend.Points)), make([]float64, len(d.Trend.Points))
		for i, p := range d.Trend.Points {
			xs[i], counts[i] = p.Month, float64(p.Count)
		}
		return renderTimeChart("Número de Licitaciones por Mes", "Número de Licitaciones", xs,
			chart.TimeSeries{Name: "Número de Licitaciones", XValues: xs, YValues: counts, Style: lineStyle(chart.ColorBlue)})
	case "trend-amounts":
		if d.Trend.Empty {
			return nil, errNoChartData
		}
		n := len(d.Trend.Points)
		xs, base, awarded := make([]time.Time, n), make([]float64, n), make([]float64, n)
		for i, p := range d.Trend.Points {
			xs[i], base[i], awarded[i] = p.Month, p.Base/1e6, p.Awarded/1e6
		}
		return renderTimeChart("Importes por Mes (M€)", "Importe (M€)", xs,
			chart.TimeSeries{Name: "Presupuesto Base", XValues: xs, YValues: base, Style: lineStyle(chart.ColorOrange)},
			chart.TimeSeries{Name: "Importe Adjudicado", XValues: xs, YValues: awarded, Style: lineStyle(chart.ColorGreen)})
	case "airports-count":
		if d.Airports.Empty {
			return nil, errNoChartData
		}
		return renderBars("Top 10 Aeropuertos por Número de Licitaciones", rankValues(d.Airports.ByCount, false), chart.ColorBlue)
	case "airports-amount":
		if d.Airports.Empty {
			return nil, errNoChartData
		}
		return renderBars("Top 10 Aeropuertos por Importe Adjudicado (M€)", rankValues(d.Airports.ByAmount, true), chart.ColorGreen)
	case "companies-count":
		if d.Companies.Empty {
			return nil, errNoChartData
		}
		return renderBars("Top 15 Empresas por Número de Licitaciones", rankValues(d.Companies.ByCount, false), drawing.ColorFromHex("6a3d9a"))
	case "companies-amount":
		if d.Companies.Empty {
			return nil, errNoChartData
		}
		return renderBars("Top 15 Empresas por Importe Adjudicado (M€)", rankValues(d.Companies.ByAmount, true), chart.ColorRed)
	case "months-bar":
		if d.Monthly.Empty {
			return nil, errNoChartData
		}
		vals := make([]chart.Value, len(d.Monthly.Months))
		for i, m := range d.Monthly.Months {
			vals[i] = chart.Value{Label: m.Label[:3], Value: float64(m.Count)}
		}
		return renderBars("Licitaciones por Mes", vals, drawing.ColorFromHex("21918c"))
	case "months-pie":
		if d.Monthly.Empty {
			return nil, errNoChartData
		}
		return renderDonut("Distribución de Licitaciones por Mes", d.Monthly)
	}
	return nil, fmt.Errorf("gráfica descoñecida: %s", name)
}

func rankValues(items []RankItem, amount bool) []chart.Value {
	vals := make([]chart.Value, len(items))
	for i, it := range items {
		v := float64(it.Count)
		if amount {
			v = it.Amount / 1e6
		}
		vals[i] = chart.Value{Label: truncateLabel(it.Label, 18, "…"), Value: v}
	}
	return vals
}

// go-chart falla con rangos de ancho cero: fixamos os dous eixes.
func renderTimeChart(title, yName string, xs []time.Time, series ...chart.TimeSeries) ([]byte, error) {
	lo, hi := xs[0].AddDate(0, 0, -15), xs[len(xs)-1].AddDate(0, 0, 15)
	var ymax float64
	for _, s := range series {
		for _, y := range s.YValues {
			ymax = max(ymax, y)
		}
	}
	if ymax == 0 {
		ymax = 1
	}

	c := chart.Chart{
		Title:      title,
		Width:      900,
		Height:     320,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/2006"),
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)},
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: ymax * 1.1},
		},
	}
	for _, s := range series {
		c.Series = append(c.Series, s)
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBars(title string, vals []chart.Value, col drawing.Color) ([]byte, error) {
	if len(vals) == 0 {
		return nil, errNoChartData
	}
	var ymax float64
	for i := range vals {
		vals[i].Style = chart.Style{FillColor: col, StrokeColor: col}
		ymax = max(ymax, vals[i].Value)
	}
	if ymax == 0 {
		ymax = 1
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      900,
		Height:     400,
		BarWidth:   max(12, 600/len(vals)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 60}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: ymax * 1.1},
		},
		Bars: vals,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// os meses a cero non entran no donut
func renderDonut(title string, m MonthlyView) ([]byte, error) {
	var vals []chart.Value
	for _, mc := range m.Months {
		if mc.Count > 0 {
			vals = append(vals, chart.Value{Label: mc.Label, Value: float64(mc.Count)})
		}
	}
	if len(vals) == 0 {
		return nil, errNoChartData
	}
	dc := chart.DonutChart{
		Title:  title,
		Width:  500,
		Height: 500,
		Values: vals,
	}
	var buf bytes.Buffer
	if err := dc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
