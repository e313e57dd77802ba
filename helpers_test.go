package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func f64(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mkTender(id, airport, company string, base float64, awarded *float64, date time.Time) Tender {
	t := Tender{ID: id, Airport: airport, Object: "Objeto " + id, Company: company, BaseBudget: base, Awarded: awarded, Submitted: date}
	deriveDateParts(&t)
	return t
}

func newTestTable(rows ...Tender) *Table {
	t := &Table{Title: "Test", Cols: DefaultColumns(), Rows: rows, LoadedAt: time.Now()}
	deriveSavings(t)
	return t
}

// fullFilters: filtros que deixan pasar toda a táboa
func fullFilters(t *Table) Filters {
	b := TableBounds(t)
	return Filters{Selection: defaultSelection(), From: b.DateMin, To: b.DateMax, MinAmount: 0, MaxAmount: b.AmountMax}
}

// Tres filas, dous aeroportos: o escenario básico de estreitamento.
func scenarioTable() *Table {
	return newTestTable(
		mkTender("EXP-1", "A", "Acme", 100000, f64(80000), day(2024, time.January, 15)),
		mkTender("EXP-2", "A", "Beta", 50000, f64(45000), day(2024, time.March, 3)),
		mkTender("EXP-3", "B", "Gamma", 200000, f64(150000), day(2024, time.March, 20)),
	)
}

var fixtureHeader = []string{
	"Aeropuerto", "Número de expediente", "Objeto del Contrato",
	"Presupuesto base sin impuestos", "Importe adjudicación sin impuestos licitación/lote",
	"Fecha presentación licitación", "Adjudicatario licitación/lote",
}

// writeXLSXFixture crea un XLSX no directorio temporal do test.
func writeXLSXFixture(t *testing.T, name string, header []string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &head))
	for i, r := range rows {
		row := r
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func fixtureRows() [][]any {
	return [][]any{
		{"Madrid-Barajas", "EXP-001", "Mantenimiento de pasarelas", 100000.0, 80000.0, day(2024, time.January, 15), "ACCIONA"},
		{"Madrid-Barajas", "EXP-002", "Limpieza terminal T4", 50000.0, 45000.0, "2024-03-03", "Ferrovial"},
		{"Barcelona-El Prat", "EXP-003", "Suministro eléctrico", 200000.0, 150000.0, "20/03/2024", "ACCIONA"},
		{"Palma de Mallorca", "EXP-004", "Seguridad", 30000.0, "", "2024-05-10", ""},
	}
}
