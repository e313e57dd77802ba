package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ==== Exportacións da vista filtrada (antes da busca) ====

const exportPrefix = "licitaciones_aena_filtradas"

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", exportPrefix, now.Format("20060102_150405"), ext)
}

// cabeceira: todas as columnas de orixe + derivadas
func exportHeader(t *Table) []string {
	var head []string
	if t.Header != nil {
		head = append(head, t.Header...)
	} else {
		c := t.Cols
		head = []string{c.Airport, c.ID, c.Object, c.Base, c.Awarded, c.Date, c.Company}
		if t.HasDiscount {
			head = append(head, c.Discount)
		}
	}
	if !t.HasDiscount {
		head = append(head, "Diferencia_Importe")
	}
	return append(head, "Mes", "Año", "Trimestre", "Día_Semana", "Nombre_Mes", "Porcentaje_Ahorro")
}

// exportIDColumn: o expediente vai sempre como texto
func exportIDColumn(t *Table) int {
	if t.Header != nil {
		return t.idCol
	}
	return 1
}

func rawFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func rawFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return rawFloat(*f)
}

func rawDate(d time.Time) string {
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 {
		return d.Format("2006-01-02")
	}
	return d.Format("2006-01-02 15:04:05")
}

// exportRecord: valores sen formato, como na orixe
func exportRecord(t *Table, r Tender) []string {
	var rec []string
	if t.Header != nil {
		rec = make([]string, len(t.Header))
		copy(rec, r.Raw)
		rec[t.dateCol] = rawDate(r.Submitted)
	} else {
		rec = []string{r.Airport, r.ID, r.Object, rawFloat(r.BaseBudget), rawFloatPtr(r.Awarded), rawDate(r.Submitted), r.Company}
		if t.HasDiscount {
			rec = append(rec, rawFloatPtr(r.Discount))
		}
	}
	if !t.HasDiscount {
		rec = append(rec, rawFloatPtr(r.Difference))
	}
	return append(rec,
		strconv.Itoa(r.Month), strconv.Itoa(r.Year), strconv.Itoa(r.Quarter),
		r.Weekday, r.MonthName, rawFloatPtr(r.Savings))
}

// writeCSV escribe UTF-8 con BOM para que Excel lea ben os acentos.
func writeCSV(w io.Writer, t *Table, rows []Tender) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(t)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(exportRecord(t, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, t *Table, rows []Tender) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headStr := exportHeader(t)
	head := make([]any, len(headStr))
	for i, h := range headStr {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	idCol := exportIDColumn(t)
	for i, r := range rows {
		rec := exportRecord(t, r)
		row := make([]any, len(rec))
		for j, s := range rec {
			if fval, err := strconv.ParseFloat(s, 64); err == nil && j != idCol {
				row[j] = fval // número REAL -> Excel/LibreOffice veno como número
			} else {
				row[j] = s
			}
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// writePDF: informe cas métricas, os rankings e a evolución temporal.
func writePDF(w io.Writer, t *Table, d Dashboard, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252: acentos e €
	pdf.SetTitle(tr("Licitaciones "+t.Title), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Dashboard de licitaciones - "+t.Title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, tr("Generado el "+now.Format("02/01/2006 15:04")))
	pdf.Ln(10)

	m := d.Metrics
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr("Métricas principales"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	metrics := [][2]string{
		{"Total Licitaciones", groupThousands(strconv.Itoa(m.Count))},
		{"Presupuesto Total (M€)", formatMillions(m.Budget)},
		{"Importe Adjudicado (M€)", formatMillions(m.Awarded)},
		{"Ahorro Total (M€)", formatMillions(m.Savings) + " (" + formatPercent(m.SavingsRate) + ")"},
	}
	if m.HasDiscount {
		metrics = append(metrics, [2]string{"%Baja Medio", formatPercent(m.MeanDiscount)})
	}
	for _, kv := range metrics {
		pdf.CellFormat(70, 6, tr(kv[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(kv[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if d.Trend.Empty {
		pdf.Cell(0, 6, tr(emptyNotice))
		pdf.Ln(8)
	} else if png, err := renderChart("trend-amounts", d); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("trend", opts, bytes.NewReader(png))
		pdf.ImageOptions("trend", 10, pdf.GetY(), 190, 0, true, opts, 0, "")
		pdf.Ln(4)
	}

	rankTable := func(title string, items []RankItem) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, tr(title))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for i, it := range items {
			pdf.CellFormat(10, 5, strconv.Itoa(i+1), "1", 0, "R", false, 0, "")
			pdf.CellFormat(110, 5, tr(truncateLabel(it.Label, 60, "...")), "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 5, strconv.Itoa(it.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 5, tr(formatEuroFloat(it.Amount)+" €"), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}
	if !d.Airports.Empty {
		rankTable("Top 10 Aeropuertos por Número de Licitaciones", d.Airports.ByCount)
	}
	if !d.Companies.Empty {
		rankTable("Top 15 Empresas por Importe Adjudicado", d.Companies.ByAmount)
	}

	return pdf.Output(w)
}
