package main

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ==== Filtros: aeroporto <-> empresa, datas e importes ====

const (
	AllAirports  = "Todos"
	AllCompanies = "Todas"
)

// Driver indica que selector cambiou neste pase e manda na orde de estreitamento.
type Driver int

const (
	DriverAirport Driver = iota
	DriverCompany
)

func parseDriver(s string) Driver {
	if s == "company" {
		return DriverCompany
	}
	return DriverAirport
}

func (d Driver) String() string {
	if d == DriverCompany {
		return "company"
	}
	return "airport"
}

type Selection struct {
	Airport string
	Company string
}

func defaultSelection() Selection {
	return Selection{Airport: AllAirports, Company: AllCompanies}
}

// Options: opcións dos dous selectores, sempre co sentinela en primeira posición.
type Options struct {
	Airports          []string
	Companies         []string
	AirportsNarrowed  bool
	CompaniesNarrowed bool
}

// Reconcile é un só pase sobre a táboa completa: estreita as empresas polo
// aeroporto e os aeroportos pola empresa, na orde que marca o driver, e
// repón o sentinela no lado que quede inviable.
func Reconcile(t *Table, prior Selection, driver Driver) (Selection, Options) {
	sel := prior
	if sel.Airport == "" {
		sel.Airport = AllAirports
	}
	if sel.Company == "" {
		sel.Company = AllCompanies
	}

	airports := make(map[string]bool)
	companies := make(map[string]bool)
	for _, r := range t.Rows {
		if r.Airport != "" {
			airports[r.Airport] = true
		}
		if r.HasAward() {
			companies[r.Company] = true
		}
	}
	// valores que xa non existen (p.ex. tras recargar o ficheiro)
	if sel.Airport != AllAirports && !airports[sel.Airport] {
		sel.Airport = AllAirports
	}
	if sel.Company != AllCompanies && !companies[sel.Company] {
		sel.Company = AllCompanies
	}

	opts := Options{
		Airports:  withSentinel(AllAirports, airports),
		Companies: withSentinel(AllCompanies, companies),
	}

	narrowCompanies := func() {
		if sel.Airport == AllAirports {
			return
		}
		at := make(map[string]bool)
		for _, r := range t.Rows {
			if r.HasAward() && r.Airport == sel.Airport {
				at[r.Company] = true
			}
		}
		opts.Companies = withSentinel(AllCompanies, at)
		opts.CompaniesNarrowed = true
		if sel.Company != AllCompanies && !at[sel.Company] {
			sel.Company = AllCompanies
		}
	}
	narrowAirports := func() {
		if sel.Company == AllCompanies {
			return
		}
		where := make(map[string]bool)
		for _, r := range t.Rows {
			if r.HasAward() && r.Company == sel.Company && r.Airport != "" {
				where[r.Airport] = true
			}
		}
		opts.Airports = withSentinel(AllAirports, where)
		opts.AirportsNarrowed = true
		if sel.Airport != AllAirports && !where[sel.Airport] {
			sel.Airport = AllAirports
		}
	}

	if driver == DriverCompany {
		narrowAirports()
		narrowCompanies()
	} else {
		narrowCompanies()
		narrowAirports()
	}
	return sel, opts
}

func withSentinel(sentinel string, set map[string]bool) []string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	// o Collator non é seguro entre goroutines: un por chamada
	collate.New(language.Spanish).SortStrings(vals)
	return append([]string{sentinel}, vals...)
}

// ==== Límites dos rangos ====

type Bounds struct {
	DateMin   time.Time
	DateMax   time.Time
	AmountMin float64
	AmountMax float64
}

// TableBounds calcúlase sempre sobre a táboa sen filtrar.
func TableBounds(t *Table) Bounds {
	var b Bounds
	seenAmount := false
	for i, r := range t.Rows {
		d := dayOf(r.Submitted)
		if i == 0 || d.Before(b.DateMin) {
			b.DateMin = d
		}
		if i == 0 || d.After(b.DateMax) {
			b.DateMax = d
		}
		if r.Awarded == nil {
			continue
		}
		if !seenAmount || *r.Awarded < b.AmountMin {
			b.AmountMin = *r.Awarded
		}
		if !seenAmount || *r.Awarded > b.AmountMax {
			b.AmountMax = *r.Awarded
		}
		seenAmount = true
	}
	return b
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClampDates: datas cero collen o límite; fóra de rango recórtanse; invertidas intercámbianse.
func ClampDates(from, to time.Time, b Bounds) (time.Time, time.Time) {
	if from.IsZero() {
		from = b.DateMin
	}
	if to.IsZero() {
		to = b.DateMax
	}
	from, to = clampDay(dayOf(from), b), clampDay(dayOf(to), b)
	if from.After(to) {
		from, to = to, from
	}
	return from, to
}

func clampDay(d time.Time, b Bounds) time.Time {
	if d.Before(b.DateMin) {
		return b.DateMin
	}
	if d.After(b.DateMax) {
		return b.DateMax
	}
	return d
}

// ClampAmounts: mínimo en [0, max]; máximo en [mínimo, 2*max].
func ClampAmounts(lo, hi float64, b Bounds) (float64, float64) {
	if lo < 0 {
		lo = 0
	}
	if lo > b.AmountMax {
		lo = b.AmountMax
	}
	if hi > 2*b.AmountMax {
		hi = 2 * b.AmountMax
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// ==== Aplicación dos filtros ====

type Filters struct {
	Selection
	From      time.Time
	To        time.Time
	MinAmount float64
	MaxAmount float64
}

// ApplyFilters devolve as filas que cumpren todos os predicados, na orde orixinal.
// Sen importe adxudicado a fila non entra: o filtro de importes está sempre activo.
func ApplyFilters(t *Table, f Filters) []Tender {
	from, to := dayOf(f.From), dayOf(f.To)
	out := make([]Tender, 0, len(t.Rows))
	for _, r := range t.Rows {
		if f.Airport != "" && f.Airport != AllAirports && r.Airport != f.Airport {
			continue
		}
		if f.Company != "" && f.Company != AllCompanies && r.Company != f.Company {
			continue
		}
		d := dayOf(r.Submitted)
		if d.Before(from) || d.After(to) {
			continue
		}
		if r.Awarded == nil || *r.Awarded < f.MinAmount || *r.Awarded > f.MaxAmount {
			continue
		}
		out = append(out, r)
	}
	return out
}
