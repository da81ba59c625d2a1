package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/money"
	"sales-dashboard/internal/services"
)

const maxTableRows = 100

var fragmentFuncs = template.FuncMap{
	"rupiah": money.FormatCurrency,
}

var kpiTemplate = template.Must(template.New("kpis").Parse(`
<div id="kpi-cards" class="kpi-grid">
<div class="stat-card"><div class="stat-title">Total Penjualan</div><div class="stat-value">{{.TotalRevenueFormatted}}</div></div>
<div class="stat-card"><div class="stat-title">Total Unit Terjual</div><div class="stat-value">{{.TotalUnitsFormatted}}</div></div>
<div class="stat-card"><div class="stat-title">Rata-rata Harga</div><div class="stat-value">{{.AverageUnitPriceFormatted}}</div></div>
<div class="stat-card"><div class="stat-title">Kategori Teratas</div><div class="stat-value">{{.TopCategory}}</div></div>
</div>`))

var summaryTemplate = template.Must(template.New("summary").Parse(`
<div id="quick-summary" class="summary-card">
<h3>Ringkasan Cepat</h3>
<div>Total Revenue: <strong>{{.TotalRevenueFormatted}}</strong></div>
<div>Unit Terjual: <strong>{{.TotalUnits}}</strong></div>
<div>Baris ditampilkan: <strong>{{.RecordCount}}</strong></div>
</div>`))

var tableTemplate = template.Must(template.New("table").Funcs(fragmentFuncs).Parse(`
<div id="transactions-table">
<table class="modern-table">
<thead><tr><th>ID</th><th>Product</th><th>Kategori</th><th>Qty</th><th>Price</th><th>Date</th><th>Country</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.ID}}</td>
<td><strong>{{.Product}}</strong></td>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{.Quantity}}</td>
<td>{{rupiah .Price}}</td>
<td>{{.Date}}</td>
<td>{{.Country}}</td>
</tr>{{else}}<tr><td colspan="7" class="empty">Tidak ada transaksi</td></tr>{{end}}
</tbody>
</table>
{{if .Truncated}}<p class="table-note">Menampilkan {{.Shown}} dari {{.Total}} baris</p>{{end}}
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// dashboardSignals mirrors the filter controls bound on the page.
type dashboardSignals struct {
	Category string `json:"category"`
	Search   string `json:"search"`
}

type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func seriesFromGroups(groups []models.GroupTotal) ChartSeries {
	s := ChartSeries{Labels: make([]string, len(groups)), Values: make([]float64, len(groups))}
	for i, g := range groups {
		s.Labels[i] = g.Key
		s.Values[i] = g.Revenue
	}
	return s
}

type chartSignals struct {
	CategoryChart ChartSeries           `json:"categoryChart"`
	CountryChart  ChartSeries           `json:"countryChart"`
	MonthlyChart  ChartSeries           `json:"monthlyChart"`
	TopProducts   []models.ProductUnits `json:"topProducts"`
	RowCount      int                   `json:"rowCount"`
}

func newChartSignals(a *services.Aggregates) chartSignals {
	return chartSignals{
		CategoryChart: seriesFromGroups(a.RevenueByCategory.Entries()),
		CountryChart:  seriesFromGroups(a.RevenueByCountry.Entries()),
		MonthlyChart:  seriesFromGroups(a.MonthlySeries()),
		TopProducts:   a.TopProducts,
		RowCount:      len(a.Records),
	}
}

type tableData struct {
	Rows      []models.Transaction
	Shown     int
	Total     int
	Truncated bool
}

func render(t *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (h *SSEHandlers) renderKPIs(a *services.Aggregates) (string, error) {
	return render(kpiTemplate, NewKPISummary(a))
}

func (h *SSEHandlers) renderSummary(a *services.Aggregates) (string, error) {
	return render(summaryTemplate, NewKPISummary(a))
}

func (h *SSEHandlers) renderTable(a *services.Aggregates) (string, error) {
	rows := a.LatestFirst()
	data := tableData{Rows: rows, Shown: len(rows), Total: len(rows)}
	if len(rows) > maxTableRows {
		data.Rows = rows[:maxTableRows]
		data.Shown = maxTableRows
		data.Truncated = true
	}
	return render(tableTemplate, data)
}

// HandleDashboard recomputes the aggregates for the filter signals sent by
// the page and patches the cards, summary, table and chart signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, r, h.logger, errors.BadRequestWrap(err, "invalid signals"))
		return
	}
	f := models.Filter{Category: signals.Category, Search: signals.Search}
	if err := validateFilter(f); err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	result := h.analytics.Compute(r.Context(), f)

	fragments := make([]string, 0, 3)
	for _, renderFn := range []func(*services.Aggregates) (string, error){
		h.renderKPIs, h.renderSummary, h.renderTable,
	} {
		html, err := renderFn(result)
		if err != nil {
			h.logger.Error("render dashboard fragment", "error", err)
			errors.WriteError(w, r, h.logger, errors.InternalWrap(err, "render failed"))
			return
		}
		fragments = append(fragments, html)
	}

	sse := datastar.NewSSE(w, r)

	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err)
			return
		}
	}

	chartData, err := json.Marshal(newChartSignals(result))
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	if err := sse.PatchSignals(chartData); err != nil {
		h.logger.Warn("patch chart signals", "error", err)
	}
}

// HandleCategories sends the category options as a signal.
func (h *SSEHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(map[string]any{
		"categories": h.analytics.Categories(),
	})
	if err != nil {
		h.logger.Error("marshal category signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchSignals(data); err != nil {
		h.logger.Warn("patch category signals", "error", err)
	}
}
