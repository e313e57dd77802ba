package main

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ==== API JSON: as mesmas vistas ca o dashboard ====

type apiRank struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

func toAPIRank(items []RankItem) []apiRank {
	out := make([]apiRank, len(items))
	for i, it := range items {
		out[i] = apiRank(it)
	}
	return out
}

// /api/dashboard: estado da sesión + todas as vistas calculadas
func (s *server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := s.state(w, r)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	d := BuildDashboard(st.Rows, st.Session.Search, page, s.perPage)

	type filters struct {
		Airport   string  `json:"airport"`
		Company   string  `json:"company"`
		Driver    string  `json:"driver"`
		From      string  `json:"from"`
		To        string  `json:"to"`
		MinAmount float64 `json:"min"`
		MaxAmount float64 `json:"max"`
		Search    string  `json:"q"`
	}
	type trendPoint struct {
		Month   string  `json:"month"` // YYYY-MM
		Count   int     `json:"count"`
		Base    float64 `json:"base"`
		Awarded float64 `json:"awarded"`
	}
	type monthCount struct {
		Month string `json:"month"`
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	type resp struct {
		Title     string   `json:"title"`
		Filters   filters  `json:"filters"`
		Airports  []string `json:"airports"`
		Companies []string `json:"companies"`

		Metrics struct {
			Count        int      `json:"count"`
			Budget       float64  `json:"budget"`
			Awarded      float64  `json:"awarded"`
			Savings      float64  `json:"savings"`
			SavingsRate  float64  `json:"savingsRate"`
			MeanDiscount *float64 `json:"meanDiscount"`
		} `json:"metrics"`

		Notice string `json:"notice,omitempty"`

		Trend []trendPoint `json:"trend"`

		AirportsByCount  []apiRank `json:"airportsByCount"`
		AirportsByAmount []apiRank `json:"airportsByAmount"`

		CompaniesNotice   string    `json:"companiesNotice,omitempty"`
		CompaniesByCount  []apiRank `json:"companiesByCount"`
		CompaniesByAmount []apiRank `json:"companiesByAmount"`
		DistinctCompanies int       `json:"distinctCompanies"`
		TopCompany        string    `json:"topCompany"`
		MeanPerCompany    float64   `json:"meanPerCompany"`

		Months        []monthCount `json:"months"`
		BusiestMonth  string       `json:"busiestMonth"`
		QuietestMonth string       `json:"quietestMonth"`
		MonthlyMean   float64      `json:"monthlyMean"`

		Detail struct {
			Total   int         `json:"total"`
			Matches int         `json:"matches"`
			Page    int         `json:"page"`
			Pages   int         `json:"pages"`
			Rows    []DetailRow `json:"rows"`
		} `json:"detail"`
	}

	sess := st.Session
	out := resp{
		Title: st.Table.Title,
		Filters: filters{
			Airport:   sess.Selection.Airport,
			Company:   sess.Selection.Company,
			Driver:    st.Driver.String(),
			From:      sess.From.Format("2006-01-02"),
			To:        sess.To.Format("2006-01-02"),
			MinAmount: sess.MinAmount,
			MaxAmount: sess.MaxAmount,
			Search:    sess.Search,
		},
		Airports:  st.Options.Airports,
		Companies: st.Options.Companies,
	}

	m := d.Metrics
	out.Metrics.Count, out.Metrics.Budget, out.Metrics.Awarded = m.Count, m.Budget, m.Awarded
	out.Metrics.Savings, out.Metrics.SavingsRate = m.Savings, m.SavingsRate
	if m.HasDiscount {
		mean := m.MeanDiscount
		out.Metrics.MeanDiscount = &mean
	}

	out.Trend = make([]trendPoint, 0, len(d.Trend.Points))
	for _, p := range d.Trend.Points {
		out.Trend = append(out.Trend, trendPoint{Month: p.Month.Format("2006-01"), Count: p.Count, Base: p.Base, Awarded: p.Awarded})
	}
	if d.Trend.Empty {
		out.Notice = d.Trend.Notice
	}

	out.AirportsByCount = toAPIRank(d.Airports.ByCount)
	out.AirportsByAmount = toAPIRank(d.Airports.ByAmount)

	c := d.Companies
	if c.Empty {
		out.CompaniesNotice = c.Notice
	}
	out.CompaniesByCount = toAPIRank(c.ByCount)
	out.CompaniesByAmount = toAPIRank(c.ByAmount)
	out.DistinctCompanies, out.TopCompany, out.MeanPerCompany = c.Distinct, c.TopCompany, c.MeanPerCompany

	out.Months = make([]monthCount, 0, len(d.Monthly.Months))
	for _, mc := range d.Monthly.Months {
		out.Months = append(out.Months, monthCount{Month: mc.Name, Label: mc.Label, Count: mc.Count})
	}
	if !d.Monthly.Empty {
		out.BusiestMonth, out.QuietestMonth = d.Monthly.Busiest.Label, d.Monthly.Quietest.Label
		out.MonthlyMean = d.Monthly.Mean
	}

	out.Detail.Total, out.Detail.Matches = d.Detail.Total, d.Detail.Matches
	out.Detail.Page, out.Detail.Pages = d.Detail.Page, d.Detail.Pages
	out.Detail.Rows = d.Detail.Rows
	if out.Detail.Rows == nil {
		out.Detail.Rows = []DetailRow{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(out)
}
