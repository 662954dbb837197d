// Package analytics defines the read-only reporting model: aggregate shapes
// over orders, order lines, menu items, and tables, plus the period windows
// the dashboards query by.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period labels accepted by the dashboard endpoints.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// DateRange maps a dashboard period label to the half-open time window
// [start, end) it covers, anchored at now. Unknown labels fall back to the
// daily window.
func DateRange(period string, now time.Time) (start, end time.Time) {
	switch period {
	case PeriodWeekly:
		return now.AddDate(0, 0, -28), now
	case PeriodMonthly:
		return now.AddDate(0, -11, 0), now
	case PeriodYearly:
		return now.AddDate(-4, 0, 0), now
	default: // daily
		return now.AddDate(0, 0, -7), now
	}
}

// Summary aggregates order volume and revenue over a window.
type Summary struct {
	TotalOrders     int64
	TotalRevenueINR decimal.Decimal
	TotalRevenueUSD decimal.Decimal
	TablesServed    int64
}

// ItemSales aggregates sold quantity and revenue per item name.
type ItemSales struct {
	ItemName     string
	QuantitySold int64
	RevenueINR   decimal.Decimal
	RevenueUSD   decimal.Decimal
}

// DayBucket is one day's order count and revenue.
type DayBucket struct {
	Date       time.Time
	Orders     int64
	RevenueINR decimal.Decimal
	RevenueUSD decimal.Decimal
}

// MonthBucket is one month's order count and revenue.
type MonthBucket struct {
	Month      int
	Orders     int64
	RevenueINR decimal.Decimal
	RevenueUSD decimal.Decimal
}

// HourBucket is one hour-of-day's order count and revenue.
type HourBucket struct {
	Hour       int
	Orders     int64
	RevenueINR decimal.Decimal
	RevenueUSD decimal.Decimal
}

// RevenuePoint is one day's line-derived revenue, as plotted by the
// revenue-over-time chart.
type RevenuePoint struct {
	Date    time.Time
	Revenue decimal.Decimal
	Orders  int64
}

// TopItem is one menu item's sales ranking entry. Items that never sold
// appear with zero quantity.
type TopItem struct {
	ItemName     string
	QuantitySold int64
	RevenueINR   decimal.Decimal
	Category     string
}

// CategoryStats aggregates order reach and revenue per category.
type CategoryStats struct {
	Category    string
	TotalOrders int64
	TotalItems  int64
	RevenueINR  decimal.Decimal
	RevenueUSD  decimal.Decimal
}

// TableStats aggregates orders and revenue per restaurant table. Tables with
// no orders in the window appear with zero counts.
type TableStats struct {
	TableNumber      int
	TableName        string
	TotalOrders      int64
	TotalRevenueINR  decimal.Decimal
	TotalRevenueUSD  decimal.Decimal
	AvgOrderValueINR decimal.Decimal
	AvgOrderValueUSD decimal.Decimal
}

// Repository defines the aggregation queries behind the analytics endpoints.
// All windows are half-open [start, end).
type Repository interface {
	Summary(ctx context.Context, start, end time.Time) (*Summary, error)
	ItemSales(ctx context.Context, start, end time.Time) ([]ItemSales, error)
	DailyBreakdown(ctx context.Context, start, end time.Time) ([]DayBucket, error)
	MonthlyBreakdown(ctx context.Context, start, end time.Time) ([]MonthBucket, error)
	RevenueOrders(ctx context.Context, start, end time.Time) ([]RevenuePoint, error)
	TopItems(ctx context.Context, start, end time.Time, limit int) ([]TopItem, error)
	CategoryPerformance(ctx context.Context, start, end time.Time) ([]CategoryStats, error)
	PaymentMethodCounts(ctx context.Context, start, end time.Time) (map[string]int64, error)
	TablePerformance(ctx context.Context, start, end time.Time) ([]TableStats, error)
	HourlyOrders(ctx context.Context, start, end time.Time) ([]HourBucket, error)
}
