package main

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "licitaciones_aena_filtradas_20240305_140709.csv", exportFilename(now, "csv"))
	assert.Equal(t, "licitaciones_aena_filtradas_20240305_140709.xlsx", exportFilename(now, "xlsx"))
}

func TestExportHeader(t *testing.T) {
	tbl := scenarioTable()
	head := exportHeader(tbl)
	require.Len(t, head, 14)
	assert.Equal(t, fixtureHeader, head[:7])
	assert.Equal(t, "Diferencia_Importe", head[7])
	assert.Equal(t, []string{"Mes", "Año", "Trimestre", "Día_Semana", "Nombre_Mes", "Porcentaje_Ahorro"}, head[8:])

	tbl.HasDiscount = true
	head = exportHeader(tbl)
	assert.Equal(t, "%baja", head[7])
}

func readCSVExport(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte("\xef\xbb\xbf")), "falta o BOM")
	recs, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestWriteCSV(t *testing.T) {
	tbl := scenarioTable()
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, tbl, tbl.Rows))

	recs := readCSVExport(t, buf.Bytes())
	require.Len(t, recs, 4)
	assert.Equal(t, exportHeader(tbl), recs[0])
	assert.Equal(t, []string{
		"A", "EXP-1", "Objeto EXP-1", "100000", "80000", "2024-01-15", "Acme",
		"20000", "1", "2024", "1", "Monday", "January", "20",
	}, recs[1])
}

func TestWriteCSVWithoutAward(t *testing.T) {
	tbl := newTestTable(mkTender("E1", "A", "", 1000, nil, day(2024, time.May, 10)))
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, tbl, tbl.Rows))

	recs := readCSVExport(t, buf.Bytes())
	require.Len(t, recs, 2)
	assert.Equal(t, "", recs[1][4])
	assert.Equal(t, "", recs[1][7])
	assert.Equal(t, "", recs[1][13])
}

// a exportación leva as filas filtradas, sen aplicar a busca do detalle
func TestWriteCSVIgnoresSearch(t *testing.T) {
	tbl := scenarioTable()
	f := fullFilters(tbl)
	f.Airport = "A"
	rows := ApplyFilters(tbl, f)
	d := BuildDashboard(rows, "acme", 1, 10)
	require.Equal(t, 1, d.Detail.Matches)

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, tbl, rows))
	recs := readCSVExport(t, buf.Bytes())
	assert.Len(t, recs, 3)
}

func TestWriteCSVEmpty(t *testing.T) {
	tbl := scenarioTable()
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, tbl, nil))
	recs := readCSVExport(t, buf.Bytes())
	assert.Len(t, recs, 1, "só a cabeceira")
}

func TestWriteXLSX(t *testing.T) {
	tbl := scenarioTable()
	var buf bytes.Buffer
	require.NoError(t, writeXLSX(&buf, tbl, tbl.Rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, exportHeader(tbl), rows[0])
	assert.Equal(t, "EXP-3", rows[3][1])
	assert.Equal(t, "Gamma", rows[3][6])

	typ, err := f.GetCellType("Sheet1", "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ, "os importes quedan como número")
}

func TestWritePDF(t *testing.T) {
	tbl := scenarioTable()
	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, writePDF(&buf, tbl, BuildDashboard(tbl.Rows, "", 1, 10), now))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))

	buf.Reset()
	require.NoError(t, writePDF(&buf, tbl, BuildDashboard(nil, "", 1, 10), now))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestExportKeepsUnmappedColumns(t *testing.T) {
	header := append(append([]string{}, fixtureHeader...), "Tipo de contrato")
	rows := fixtureRows()
	for i := range rows {
		rows[i] = append(rows[i], "Servicios")
	}
	rows[2][7] = "Suministros"
	path := writeXLSXFixture(t, "aena.xlsx", header, rows)
	tbl, err := loadTable(fixtureSource(path), discardLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, tbl, tbl.Rows))
	recs := readCSVExport(t, buf.Bytes())
	require.Len(t, recs, 5)
	require.Len(t, recs[0], 15)
	assert.Equal(t, header, recs[0][:8])
	assert.Equal(t, "Diferencia_Importe", recs[0][8])

	assert.Equal(t, "Servicios", recs[1][7])
	assert.Equal(t, "Suministros", recs[3][7])
	assert.Equal(t, "2024-01-15", recs[1][5], "a data sae normalizada")
	assert.Equal(t, "2024-03-20", recs[3][5])
	assert.Equal(t, "EXP-003", recs[3][1])

	buf.Reset()
	require.NoError(t, writeXLSX(&buf, tbl, tbl.Rows))
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	xrows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, recs[0], xrows[0])
	assert.Equal(t, "Suministros", xrows[3][7])
}
