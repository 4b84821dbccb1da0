package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/charts"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type dashboardResponse struct {
	Summary core.Summary      `json:"summary"`
	Display map[string]string `json:"display"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	key := s.revisionKey("dashboard")
	if cached, ok := s.dashboardCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	records, err := s.service.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary := core.Summarize(records, s.now())
	resp := dashboardResponse{
		Summary: summary,
		Display: s.displayStrings(summary),
	}
	s.dashboardCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// displayStrings renders the summary figures in the configured currency.
// Runway and trend carry their sentinel forms here so clients never have to
// interpret the raw numbers.
func (s *Server) displayStrings(sum core.Summary) map[string]string {
	d := map[string]string{
		"balance":          core.FormatAmount(s.currency, sum.Balance),
		"totalIncome":      core.FormatAmount(s.currency, sum.TotalIncome),
		"totalExpense":     core.FormatAmount(s.currency, sum.TotalExpense),
		"monthlyIncome":    core.FormatAmount(s.currency, sum.MonthlyIncome),
		"monthlyExpense":   core.FormatAmount(s.currency, sum.MonthlyExpense),
		"monthlyNet":       core.FormatAmount(s.currency, sum.MonthlyNet),
		"highestExpense":   core.FormatAmount(s.currency, sum.HighestExpense.Abs()),
		"highestIncome":    core.FormatAmount(s.currency, sum.HighestIncome),
		"avgDailySpending": core.FormatAmount(s.currency, sum.AvgDailySpend),
		"trend":            sum.TrendPct.StringFixed(1) + "%",
	}
	if sum.Runway.Infinite {
		d["runway"] = "Infinite"
	} else {
		d["runway"] = fmt.Sprintf("%d days", sum.Runway.Days)
	}
	return d
}

type transactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	records, err := s.service.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := criteria.Apply(records)
	writeJSON(w, http.StatusOK, transactionsResponse{Transactions: view, Count: len(view)})
}

// criteriaFromQuery decodes the filter/sort request. Unset parameters leave
// their stage inactive; a date range needs both bounds before it applies.
func criteriaFromQuery(r *http.Request) (core.Criteria, error) {
	q := r.URL.Query()

	c := core.Criteria{
		Search:   sanitizeInput(q.Get("searchTerm")),
		Type:     core.TypeAll,
		Selector: core.ParseSelector(q.Get("category")),
		Sort:     core.SortDateDesc,
	}
	if t := q.Get("type"); t != "" {
		switch core.TypeFilter(t) {
		case core.TypeAll, core.TypeIncome, core.TypeExpense:
			c.Type = core.TypeFilter(t)
		default:
			return core.Criteria{}, fmt.Errorf("unknown type filter %q", t)
		}
	}
	if sk := q.Get("sortKey"); sk != "" {
		c.Sort = core.SortKey(sk)
	}
	if raw := q.Get("startDate"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.Criteria{}, fmt.Errorf("invalid startDate %q", raw)
		}
		c.Start = d
	}
	if raw := q.Get("endDate"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.Criteria{}, fmt.Errorf("invalid endDate %q", raw)
		}
		c.End = d
	}
	return c, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var draft ledger.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	draft.ID = ""

	txn, err := s.service.AddOrUpdate(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var draft ledger.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	draft.ID = r.PathValue("id")

	txn, err := s.service.AddOrUpdate(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type bulkDeleteResponse struct {
	Removed int `json:"removed"`
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	removed, err := s.service.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkDeleteResponse{Removed: removed})
}

type goalResponse struct {
	Goal     core.Goal         `json:"goal"`
	Forecast core.GoalForecast `json:"forecast"`
	Display  map[string]string `json:"display"`
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, ok, err := s.service.Goal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no goal set"})
		return
	}

	records, err := s.service.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	forecast := core.Forecast(goal, records, s.now())
	display := map[string]string{
		"progress":  forecast.ProgressPct.StringFixed(1) + "%",
		"remaining": core.FormatAmount(s.currency, forecast.Remaining),
		"target":    core.FormatAmount(s.currency, goal.Target),
		"saved":     core.FormatAmount(s.currency, goal.Saved),
	}
	if forecast.MonthsKnown {
		display["monthsRemaining"] = fmt.Sprintf("%d", forecast.Months)
	} else {
		display["monthsRemaining"] = "N/A"
	}
	if forecast.DateKnown {
		display["forecastedDate"] = forecast.Date.ISO()
	} else {
		display["forecastedDate"] = "N/A"
	}

	writeJSON(w, http.StatusOK, goalResponse{Goal: goal, Forecast: forecast, Display: display})
}

func (s *Server) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(w, r, &goal); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := s.service.UpdateGoal(r.Context(), goal); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

type chartSeriesResponse struct {
	Balance    []core.ChartPoint `json:"balance"`
	Category   []core.ChartPoint `json:"category"`
	MonthlyNet []core.ChartPoint `json:"monthlyNet"`
}

func (s *Server) handleChartSeries(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary := core.Summarize(records, s.now())
	writeJSON(w, http.StatusOK, chartSeriesResponse{
		Balance:    core.BalancePie(summary),
		Category:   core.CategoryPie(summary),
		MonthlyNet: core.MonthlyNet(records),
	})
}

func (s *Server) handleBalancePNG(w http.ResponseWriter, r *http.Request) {
	s.servePNG(w, r, "balance.png", func(records []core.Transaction) ([]byte, error) {
		return s.renderer.BalancePie(core.BalancePie(core.Summarize(records, s.now())))
	})
}

func (s *Server) handleCategoryPNG(w http.ResponseWriter, r *http.Request) {
	s.servePNG(w, r, "category.png", func(records []core.Transaction) ([]byte, error) {
		return s.renderer.CategoryPie(core.CategoryPie(core.Summarize(records, s.now())))
	})
}

func (s *Server) handleMonthlyPNG(w http.ResponseWriter, r *http.Request) {
	s.servePNG(w, r, "monthly.png", func(records []core.Transaction) ([]byte, error) {
		return s.renderer.MonthlyNetBars(core.MonthlyNet(records))
	})
}

func (s *Server) servePNG(w http.ResponseWriter, r *http.Request, kind string, render func([]core.Transaction) ([]byte, error)) {
	key := s.revisionKey(kind)
	if png, ok := s.chartCache.Get(key); ok {
		writePNG(w, png)
		return
	}

	records, err := s.service.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	png, err := render(records)
	if errors.Is(err, charts.ErrNoData) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data to render"})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.chartCache.Set(key, png)
	writePNG(w, png)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type exportResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Goal         *core.Goal         `json:"goal,omitempty"`
	ExportedAt   time.Time          `json:"exportedAt"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Collection(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, ok, err := s.service.Goal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := exportResponse{Transactions: records, ExportedAt: s.now()}
	if ok {
		resp.Goal = &goal
	}
	writeJSON(w, http.StatusOK, resp)
}
