package main

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// --- Números europeos tipo "12.345,67", así chegan algúns exports da plataforma ---
var euroNumRe = regexp.MustCompile(`^\s*-?(\d{1,3}(\.\d{3})+|\d+)(,\d+)?\s*$`)

// "150.000" son milleiros; "0.125" segue sendo decimal
var groupedDotRe = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

// ==== utilidades ====

func quoteIdent(id string) string {
	// minimal: wrap with double quotes and escape existing quotes
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// remove extension
func stripExt(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext)
}

// "datos/2024_AENA.xlsx" -> "2024 Aena"
func datasetTitle(path string) string {
	base := stripExt(filepath.Base(path))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	caser := cases.Title(language.EuropeanSpanish)
	return caser.String(strings.TrimSpace(base))
}

// conversores formatos de importes

// Converte "12.345,67" -> 12345.67
func parseEuroNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !euroNumRe.MatchString(s) {
		return 0, false
	}
	// quitar puntos de milleiro e cambiar coma por punto
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseAmount acepta valores crus de Excel ("80000", "1.5E5") e o formato europeo.
// Con coma, símbolo € ou puntos de milleiro, o formato europeo ten prioridade.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	euro := strings.HasSuffix(s, "€")
	s = strings.TrimSpace(strings.TrimSuffix(s, "€"))
	if s == "" {
		return 0, false
	}
	if euro || strings.Contains(s, ",") || groupedDotRe.MatchString(s) {
		return parseEuroNumber(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}
	return parseEuroNumber(s)
}

// parsePercent: o %baja non leva milleiros, un punto só é decimal ("12.125")
func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		return parseEuroNumber(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// milleiros con puntos: "1234567" -> "1.234.567"
func groupThousands(intp string) string {
	neg := strings.HasPrefix(intp, "-")
	intp = strings.TrimPrefix(intp, "-")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, n := range intp {
		if i > 0 && (len(intp)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(n)
	}
	return b.String()
}

// 12.345,67 a partir dun float64
// "-0.0" -> "0.0"
func noNegZero(s string) string {
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

func formatEuroFloat(f float64) string {
	s := noNegZero(fmt.Sprintf("%.2f", f)) // "12345.67"
	parts := strings.SplitN(s, ".", 2)
	intp, decp := parts[0], "00"
	if len(parts) > 1 {
		decp = parts[1]
	}
	return groupThousands(intp) + "," + decp
}

// "1.234.567 €" (sen decimais, como na táboa de detalle)
func formatEuroInt(f float64) string {
	return groupThousands(noNegZero(fmt.Sprintf("%.0f", f))) + " €"
}

// millóns con un decimal: 12345678 -> "12,3"
func formatMillions(f float64) string {
	s := noNegZero(fmt.Sprintf("%.1f", f/1e6))
	parts := strings.SplitN(s, ".", 2)
	return groupThousands(parts[0]) + "," + parts[1]
}

// 12.5 -> "12,5%"
func formatPercent(f float64) string {
	return strings.Replace(noNegZero(fmt.Sprintf("%.1f", f)), ".", ",", 1) + "%"
}

func formatDateES(t time.Time) string {
	return t.Format("02/01/2006")
}

// recorta etiquetas longas; n en runas, non en bytes
func truncateLabel(s string, n int, ellipsis string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}

