package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine/internal/domain/analytics"
)

type summaryDTO struct {
	TotalOrders     int64  `json:"total_orders"`
	TotalRevenueINR string `json:"total_revenue_inr"`
	TotalRevenueUSD string `json:"total_revenue_usd"`
	TablesServed    int64  `json:"tables_served"`
}

func toSummaryDTO(s analytics.Summary) summaryDTO {
	return summaryDTO{
		TotalOrders:     s.TotalOrders,
		TotalRevenueINR: money(s.TotalRevenueINR),
		TotalRevenueUSD: money(s.TotalRevenueUSD),
		TablesServed:    s.TablesServed,
	}
}

type itemSalesDTO struct {
	ItemName     string `json:"item_name"`
	QuantitySold int64  `json:"quantity_sold"`
	RevenueINR   string `json:"revenue_inr"`
	RevenueUSD   string `json:"revenue_usd"`
}

func toItemSalesDTOs(items []analytics.ItemSales) []itemSalesDTO {
	out := make([]itemSalesDTO, 0, len(items))
	for _, it := range items {
		out = append(out, itemSalesDTO{
			ItemName:     it.ItemName,
			QuantitySold: it.QuantitySold,
			RevenueINR:   money(it.RevenueINR),
			RevenueUSD:   money(it.RevenueUSD),
		})
	}
	return out
}

func (h *Handler) analyticsTest(w http.ResponseWriter, _ *http.Request) {
	respondMessage(w, "Analytics API is working", nil)
}

// periodWindow reads the ?period= query parameter and resolves it to a time
// window anchored at now.
func periodWindow(r *http.Request) (start, end time.Time) {
	return analytics.DateRange(r.URL.Query().Get("period"), time.Now())
}

// reportWindow loads summary+items for a window, the shared core of the
// daily/monthly/quarterly/yearly reports.
func (h *Handler) reportWindow(w http.ResponseWriter, r *http.Request, start, end time.Time) (summaryDTO, []itemSalesDTO, bool) {
	summary, err := h.analytics.Summary(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch analytics", err)
		return summaryDTO{}, nil, false
	}
	items, err := h.analytics.ItemSales(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch analytics", err)
		return summaryDTO{}, nil, false
	}
	return toSummaryDTO(*summary), toItemSalesDTOs(items), true
}

func (h *Handler) analyticsDaily(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	summary, items, ok := h.reportWindow(w, r, start, end)
	if !ok {
		return
	}
	respondData(w, map[string]any{
		"date":    start.Format("2006-01-02"),
		"summary": summary,
		"items":   items,
	})
}

func (h *Handler) analyticsMonthly(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	summary, items, ok := h.reportWindow(w, r, start, end)
	if !ok {
		return
	}
	daily, err := h.analytics.DailyBreakdown(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch analytics", err)
		return
	}
	breakdown := make([]map[string]any, 0, len(daily))
	for _, d := range daily {
		breakdown = append(breakdown, map[string]any{
			"date":        d.Date.Format("2006-01-02"),
			"orders":      d.Orders,
			"revenue_inr": money(d.RevenueINR),
			"revenue_usd": money(d.RevenueUSD),
		})
	}
	respondData(w, map[string]any{
		"month":           month,
		"year":            year,
		"summary":         summary,
		"items":           items,
		"daily_breakdown": breakdown,
	})
}

func (h *Handler) analyticsQuarterly(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	quarter := queryInt(r, "quarter", (int(now.Month())-1)/3+1)
	year := queryInt(r, "year", now.Year())
	if quarter < 1 || quarter > 4 {
		respondFail(w, http.StatusBadRequest, "Quarter must be between 1 and 4")
		return
	}
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 3, 0)

	summary, items, ok := h.reportWindow(w, r, start, end)
	if !ok {
		return
	}
	respondData(w, map[string]any{
		"quarter": quarter,
		"year":    year,
		"summary": summary,
		"items":   items,
	})
}

func (h *Handler) analyticsYearly(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().Year())
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	summary, items, ok := h.reportWindow(w, r, start, end)
	if !ok {
		return
	}
	monthly, err := h.analytics.MonthlyBreakdown(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch analytics", err)
		return
	}
	breakdown := make([]map[string]any, 0, len(monthly))
	for _, m := range monthly {
		breakdown = append(breakdown, map[string]any{
			"month":       m.Month,
			"orders":      m.Orders,
			"revenue_inr": money(m.RevenueINR),
			"revenue_usd": money(m.RevenueUSD),
		})
	}
	respondData(w, map[string]any{
		"year":              year,
		"summary":           summary,
		"items":             items,
		"monthly_breakdown": breakdown,
	})
}

func (h *Handler) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	start, end := periodWindow(r)
	summary, err := h.analytics.Summary(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch analytics summary", err)
		return
	}

	currency := currencyParam(r)
	revenue := summary.TotalRevenueINR
	if currency == "usd" {
		revenue = summary.TotalRevenueUSD
	}
	avg := decimal.Zero
	if summary.TotalOrders > 0 {
		avg = revenue.Div(decimal.NewFromInt(summary.TotalOrders)).Round(2)
	}
	respondData(w, map[string]any{
		"total_orders":                summary.TotalOrders,
		"total_revenue_" + currency:   money(revenue),
		"tables_served":               summary.TablesServed,
		"avg_order_value_" + currency: money(avg),
	})
}

// analyticsRevenueOrders returns a bare JSON array, not the envelope; the
// dashboard chart consumes it as-is.
func (h *Handler) analyticsRevenueOrders(w http.ResponseWriter, r *http.Request) {
	start, end, ok := customWindow(w, r)
	if !ok {
		return
	}
	points, err := h.analytics.RevenueOrders(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch revenue data", err)
		return
	}
	out := make([]map[string]any, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]any{
			"date":    p.Date.Format("2006-01-02"),
			"revenue": p.Revenue.InexactFloat64(),
			"orders":  p.Orders,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// analyticsTopItems also returns a bare JSON array.
func (h *Handler) analyticsTopItems(w http.ResponseWriter, r *http.Request) {
	start, end, ok := customWindow(w, r)
	if !ok {
		return
	}
	items, err := h.analytics.TopItems(r.Context(), start, end, 10)
	if err != nil {
		respondError(w, r, "Failed to fetch top items", err)
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{
			"item_name":     it.ItemName,
			"quantity_sold": it.QuantitySold,
			"revenue_inr":   money(it.RevenueINR),
			"category":      it.Category,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) analyticsCategoryPerformance(w http.ResponseWriter, r *http.Request) {
	start, end := periodWindow(r)
	stats, err := h.analytics.CategoryPerformance(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch category performance", err)
		return
	}
	currency := currencyParam(r)
	out := make([]map[string]any, 0, len(stats))
	for _, s := range stats {
		revenue := s.RevenueINR
		if currency == "usd" {
			revenue = s.RevenueUSD
		}
		out = append(out, map[string]any{
			"category":            s.Category,
			"total_orders":        s.TotalOrders,
			"total_items":         s.TotalItems,
			"revenue_" + currency: money(revenue),
		})
	}
	respondData(w, out)
}

func (h *Handler) analyticsPaymentMethods(w http.ResponseWriter, r *http.Request) {
	start, end := periodWindow(r)
	counts, err := h.analytics.PaymentMethodCounts(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch payment method stats", err)
		return
	}
	respondData(w, counts)
}

func (h *Handler) analyticsTablePerformance(w http.ResponseWriter, r *http.Request) {
	start, end := periodWindow(r)
	stats, err := h.analytics.TablePerformance(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch table performance", err)
		return
	}
	currency := currencyParam(r)
	out := make([]map[string]any, 0, len(stats))
	for _, s := range stats {
		revenue, avg := s.TotalRevenueINR, s.AvgOrderValueINR
		if currency == "usd" {
			revenue, avg = s.TotalRevenueUSD, s.AvgOrderValueUSD
		}
		out = append(out, map[string]any{
			"table_number":                s.TableNumber,
			"table_name":                  s.TableName,
			"total_orders":                s.TotalOrders,
			"total_revenue_" + currency:   money(revenue),
			"avg_order_value_" + currency: money(avg),
		})
	}
	respondData(w, out)
}

// analyticsHourlyOrders always returns a full 24-entry grid so charts render
// quiet hours as zeroes.
func (h *Handler) analyticsHourlyOrders(w http.ResponseWriter, r *http.Request) {
	start, end := periodWindow(r)
	buckets, err := h.analytics.HourlyOrders(r.Context(), start, end)
	if err != nil {
		respondError(w, r, "Failed to fetch hourly stats", err)
		return
	}
	byHour := make(map[int]analytics.HourBucket, len(buckets))
	for _, b := range buckets {
		byHour[b.Hour] = b
	}
	out := make([]map[string]any, 0, 24)
	for hour := 0; hour < 24; hour++ {
		b := byHour[hour]
		out = append(out, map[string]any{
			"hour":        hour,
			"hour_label":  fmt.Sprintf("%02d:00", hour),
			"orders":      b.Orders,
			"revenue_inr": money(b.RevenueINR),
			"revenue_usd": money(b.RevenueUSD),
		})
	}
	respondData(w, out)
}

// currencyParam normalizes the ?currency= query parameter; anything other
// than "usd" means INR.
func currencyParam(r *http.Request) string {
	if r.URL.Query().Get("currency") == "usd" {
		return "usd"
	}
	return "inr"
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// customWindow reads explicit ?start_date=&end_date= bounds, defaulting to
// the last 30 days. The end date is inclusive.
func customWindow(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	now := time.Now()
	start, end = now.AddDate(0, 0, -30), now

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD")
			return start, end, false
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD")
			return start, end, false
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, true
}
