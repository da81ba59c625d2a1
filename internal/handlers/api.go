package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/money"
	"sales-dashboard/internal/services"
)

const (
	maxSearchLength = 200
	cacheControl    = "private, max-age=60"
	version         = "1.0.0"
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// filterFromQuery reads ?category= and ?q= from the request.
func filterFromQuery(r *http.Request) (models.Filter, error) {
	query := r.URL.Query()
	f := models.Filter{
		Category: query.Get("category"),
		Search:   query.Get("q"),
	}
	return f, validateFilter(f)
}

func validateFilter(f models.Filter) error {
	if utf8.RuneCountInString(f.Search) > maxSearchLength {
		return errors.BadRequest(fmt.Sprintf("search text must be at most %d characters", maxSearchLength))
	}
	return nil
}

type KPISummary struct {
	TotalRevenue              float64 `json:"total_revenue"`
	TotalRevenueFormatted     string  `json:"total_revenue_formatted"`
	TotalUnits                int     `json:"total_units"`
	TotalUnitsFormatted       string  `json:"total_units_formatted"`
	AverageUnitPrice          int64   `json:"average_unit_price"`
	AverageUnitPriceFormatted string  `json:"average_unit_price_formatted"`
	TopCategory               string  `json:"top_category"`
	RecordCount               int     `json:"record_count"`
}

func NewKPISummary(a *services.Aggregates) KPISummary {
	return KPISummary{
		TotalRevenue:              a.TotalRevenue,
		TotalRevenueFormatted:     money.FormatCurrency(a.TotalRevenue),
		TotalUnits:                a.TotalUnits,
		TotalUnitsFormatted:       money.FormatNumber(a.TotalUnits),
		AverageUnitPrice:          a.AverageUnitPrice,
		AverageUnitPriceFormatted: money.FormatCurrency(float64(a.AverageUnitPrice)),
		TopCategory:               a.TopCategory,
		RecordCount:               len(a.Records),
	}
}

type summaryResponse struct {
	Filter            models.Filter         `json:"filter"`
	KPIs              KPISummary            `json:"kpis"`
	RevenueByCategory services.GroupSums    `json:"revenue_by_category"`
	RevenueByCountry  services.GroupSums    `json:"revenue_by_country"`
	MonthlyRevenue    []models.GroupTotal   `json:"monthly_revenue"`
	TopProducts       []models.ProductUnits `json:"top_products"`
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	result := h.analytics.Compute(r.Context(), f)

	errors.WriteSuccessWithHeaders(w, summaryResponse{
		Filter:            result.Filter,
		KPIs:              NewKPISummary(result),
		RevenueByCategory: result.RevenueByCategory,
		RevenueByCountry:  result.RevenueByCountry,
		MonthlyRevenue:    result.MonthlySeries(),
		TopProducts:       result.TopProducts,
	}, map[string]string{"Cache-Control": cacheControl})
}

type transactionsResponse struct {
	Filter  models.Filter        `json:"filter"`
	Count   int                  `json:"count"`
	Records []models.Transaction `json:"records"`
}

// HandleTransactions lists the filtered records, most recent first.
func (h *APIHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		errors.WriteError(w, r, h.logger, err)
		return
	}

	result := h.analytics.Compute(r.Context(), f)

	errors.WriteSuccessWithHeaders(w, transactionsResponse{
		Filter:  result.Filter,
		Count:   len(result.Records),
		Records: result.LatestFirst(),
	}, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.Categories(), map[string]string{
		"Cache-Control": cacheControl,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.analytics.RecordCount() == 0 {
		errors.WriteError(w, r, h.logger, errors.ServiceUnavailable("dataset not loaded"))
		return
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
