package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const sessionCookie = "licitaena_session"

type dashTab struct {
	Key   string
	Label string
}

var dashboardTabs = []dashTab{
	{"trend", "Evolución Temporal"},
	{"airports", "Análisis Aeropuertos"},
	{"companies", "Análisis Empresas"},
	{"months", "Análisis Mensual"},
	{"detail", "Datos"},
}

func parseTab(s string) string {
	for _, t := range dashboardTabs {
		if t.Key == s {
			return s
		}
	}
	return dashboardTabs[0].Key
}

// dashState: o resultado de pasar a petición pola sesión e polos filtros.
type dashState struct {
	Table   *Table
	Session Session
	Options Options
	Bounds  Bounds
	Driver  Driver
	Rows    []Tender // filtradas, antes da busca
}

// state carga a táboa, recupera (ou crea) a sesión, mestura os parámetros,
// reconcilia os selectores e aplica os filtros. Garda a sesión resultante.
func (s *server) state(w http.ResponseWriter, r *http.Request) (dashState, error) {
	t, err := s.cache.Get()
	if err != nil {
		return dashState{}, err
	}
	b := TableBounds(t)
	q := r.URL.Query()

	var sess Session
	found := false
	if c, err := r.Cookie(sessionCookie); err == nil {
		sess, found = s.sessions.Get(c.Value)
	}
	if !found || q.Has("reset") {
		id := sess.ID
		sess = newSession(b)
		if found {
			sess.ID = id
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	sess, driver := applyParams(sess, q)
	sess, opts := sess.Reconcile(t, b, driver)
	s.sessions.Put(sess)

	return dashState{
		Table:   t,
		Session: sess,
		Options: opts,
		Bounds:  b,
		Driver:  driver,
		Rows:    ApplyFilters(t, sess.Filters()),
	}, nil
}

func (s *server) renderError(w http.ResponseWriter, err error) {
	s.logger.Error("petición fallida", "error", err)
	status := http.StatusInternalServerError
	w.WriteHeader(status)
	msg := "No se pudieron cargar los datos. Verifica que el archivo existe."
	var le *LoadError
	if errors.As(err, &le) && errors.Is(err, ErrMissingDateColumn) {
		msg = le.Error()
	}
	if terr := s.tpl.ExecuteTemplate(w, "error.gohtml", map[string]any{
		"Status":  status,
		"Message": msg,
		"Detail":  err.Error(),
	}); terr != nil {
		http.Error(w, err.Error(), status)
	}
}

// handlers
func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st, err := s.state(w, r)
	if err != nil {
		s.renderError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	tab := parseTab(r.URL.Query().Get("tab"))
	if r.URL.Query().Has("q") && !r.URL.Query().Has("tab") {
		tab = "detail"
	}
	d := BuildDashboard(st.Rows, st.Session.Search, page, s.perPage)

	pageURL := func(p int) string {
		v := url.Values{}
		v.Set("tab", "detail")
		v.Set("page", strconv.Itoa(p))
		return "/?" + v.Encode()
	}
	data := map[string]any{
		"Title":     st.Table.Title,
		"LoadedAt":  st.Table.LoadedAt,
		"Rows":      len(st.Table.Rows),
		"Session":   st.Session,
		"Options":   st.Options,
		"Bounds":    st.Bounds,
		"Driver":    st.Driver.String(),
		"Tabs":      dashboardTabs,
		"Tab":       tab,
		"D":         d,
		"AllAir":    AllAirports,
		"AllComp":   AllCompanies,
		"HasPrev":   d.Detail.Page > 1,
		"HasNext":   d.Detail.Page < d.Detail.Pages,
		"PrevURL":   pageURL(d.Detail.Page - 1),
		"NextURL":   pageURL(d.Detail.Page + 1),
		"AmountTop": 2 * st.Bounds.AmountMax,
	}
	if err := s.tpl.ExecuteTemplate(w, "dashboard.gohtml", data); err != nil {
		s.logger.Error("template", "error", err)
		http.Error(w, err.Error(), 500)
	}
}

// /chart/{name}.png: gráfica da vista filtrada da sesión
func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	st, err := s.state(w, r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	name := chi.URLParam(r, "name")
	png, err := renderChart(name, BuildDashboard(st.Rows, "", 1, s.perPage))
	switch {
	case errors.Is(err, errNoChartData):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil && !isChartName(name):
		http.NotFound(w, r)
		return
	case err != nil:
		s.logger.Error("chart", "name", name, "error", err)
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func isChartName(name string) bool {
	for _, n := range chartNames {
		if n == name {
			return true
		}
	}
	return false
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
}

// As exportacións levan as filas filtradas sen a busca do detalle.
func (s *server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	st, err := s.state(w, r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	var buf bytes.Buffer
	if err := writeCSV(&buf, st.Table, st.Rows); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	attachment(w, "text/csv; charset=utf-8", exportFilename(s.now(), "csv"))
	_, _ = buf.WriteTo(w)
}

func (s *server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	st, err := s.state(w, r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	var buf bytes.Buffer
	if err := writeXLSX(&buf, st.Table, st.Rows); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportFilename(s.now(), "xlsx"))
	_, _ = buf.WriteTo(w)
}

func (s *server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	st, err := s.state(w, r)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	var buf bytes.Buffer
	d := BuildDashboard(st.Rows, "", 1, s.perPage)
	if err := writePDF(&buf, st.Table, d, s.now()); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	attachment(w, "application/pdf", exportFilename(s.now(), "pdf"))
	_, _ = buf.WriteTo(w)
}

// POST /reload: forza a relectura do ficheiro na seguinte petición
func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	s.logger.Info("recarga solicitada")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
