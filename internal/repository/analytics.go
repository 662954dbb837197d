package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qrdine/qrdine/internal/domain/analytics"
)

var _ analytics.Repository = (*AnalyticsRepository)(nil)

// AnalyticsRepository implements the reporting aggregations backed by
// PostgreSQL. All queries are read-only and window on created_at.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository returns an AnalyticsRepository that uses the given
// pool.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Summary aggregates order count, revenue in both currencies, and distinct
// tables served over the window.
func (r *AnalyticsRepository) Summary(ctx context.Context, start, end time.Time) (*analytics.Summary, error) {
	var s analytics.Summary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_amount_inr), 0),
		        COALESCE(SUM(total_amount_usd), 0),
		        COUNT(DISTINCT table_number)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2`,
		start, end,
	).Scan(&s.TotalOrders, &s.TotalRevenueINR, &s.TotalRevenueUSD, &s.TablesServed)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}
	return &s, nil
}

// ItemSales aggregates sold quantity and revenue per item name, best sellers
// first.
func (r *AnalyticsRepository) ItemSales(ctx context.Context, start, end time.Time) ([]analytics.ItemSales, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT oi.item_name,
		        SUM(oi.quantity),
		        SUM(oi.price_inr * oi.quantity),
		        SUM(oi.price_usd * oi.quantity)
		 FROM order_items oi
		 JOIN orders o ON oi.order_id = o.id
		 WHERE o.created_at >= $1 AND o.created_at < $2
		 GROUP BY oi.item_name
		 ORDER BY SUM(oi.quantity) DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("item sales query: %w", err)
	}
	defer rows.Close()

	var items []analytics.ItemSales
	for rows.Next() {
		var it analytics.ItemSales
		if err := rows.Scan(&it.ItemName, &it.QuantitySold, &it.RevenueINR, &it.RevenueUSD); err != nil {
			return nil, fmt.Errorf("scanning item sales: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DailyBreakdown buckets orders and revenue per calendar day.
func (r *AnalyticsRepository) DailyBreakdown(ctx context.Context, start, end time.Time) ([]analytics.DayBucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('day', created_at),
		        COUNT(*),
		        COALESCE(SUM(total_amount_inr), 0),
		        COALESCE(SUM(total_amount_usd), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY 1
		 ORDER BY 1`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("daily breakdown query: %w", err)
	}
	defer rows.Close()

	var buckets []analytics.DayBucket
	for rows.Next() {
		var b analytics.DayBucket
		if err := rows.Scan(&b.Date, &b.Orders, &b.RevenueINR, &b.RevenueUSD); err != nil {
			return nil, fmt.Errorf("scanning day bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// MonthlyBreakdown buckets orders and revenue per calendar month of the
// window.
func (r *AnalyticsRepository) MonthlyBreakdown(ctx context.Context, start, end time.Time) ([]analytics.MonthBucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(MONTH FROM created_at)::int,
		        COUNT(*),
		        COALESCE(SUM(total_amount_inr), 0),
		        COALESCE(SUM(total_amount_usd), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY 1
		 ORDER BY 1`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly breakdown query: %w", err)
	}
	defer rows.Close()

	var buckets []analytics.MonthBucket
	for rows.Next() {
		var b analytics.MonthBucket
		if err := rows.Scan(&b.Month, &b.Orders, &b.RevenueINR, &b.RevenueUSD); err != nil {
			return nil, fmt.Errorf("scanning month bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// RevenueOrders buckets line-derived INR revenue and distinct order counts
// per day, for the revenue-over-time chart.
func (r *AnalyticsRepository) RevenueOrders(ctx context.Context, start, end time.Time) ([]analytics.RevenuePoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('day', o.created_at),
		        COALESCE(SUM(oi.quantity * oi.price_inr), 0),
		        COUNT(DISTINCT o.id)
		 FROM orders o
		 LEFT JOIN order_items oi ON o.id = oi.order_id
		 WHERE o.created_at >= $1 AND o.created_at < $2
		 GROUP BY 1
		 ORDER BY 1`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("revenue orders query: %w", err)
	}
	defer rows.Close()

	var points []analytics.RevenuePoint
	for rows.Next() {
		var p analytics.RevenuePoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Orders); err != nil {
			return nil, fmt.Errorf("scanning revenue point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// TopItems ranks menu items by quantity sold in the window. Items with no
// sales still appear, with zero quantity, so new dishes show up on the
// dashboard.
func (r *AnalyticsRepository) TopItems(ctx context.Context, start, end time.Time, limit int) ([]analytics.TopItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT mi.name,
		        COALESCE(SUM(oi.quantity), 0),
		        COALESCE(SUM(oi.quantity * oi.price_inr), 0),
		        mi.category
		 FROM menu_items mi
		 LEFT JOIN order_items oi ON mi.id = oi.menu_item_id
		 LEFT JOIN orders o ON oi.order_id = o.id
		     AND o.created_at >= $1 AND o.created_at < $2
		 GROUP BY mi.id, mi.name, mi.category
		 ORDER BY COALESCE(SUM(oi.quantity), 0) DESC
		 LIMIT $3`,
		start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top items query: %w", err)
	}
	defer rows.Close()

	var items []analytics.TopItem
	for rows.Next() {
		var it analytics.TopItem
		if err := rows.Scan(&it.ItemName, &it.QuantitySold, &it.RevenueINR, &it.Category); err != nil {
			return nil, fmt.Errorf("scanning top item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CategoryPerformance aggregates order reach and revenue per category.
func (r *AnalyticsRepository) CategoryPerformance(ctx context.Context, start, end time.Time) ([]analytics.CategoryStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT mi.category,
		        COUNT(DISTINCT o.id),
		        SUM(oi.quantity),
		        SUM(oi.quantity * oi.price_inr),
		        SUM(oi.quantity * oi.price_usd)
		 FROM order_items oi
		 JOIN orders o ON oi.order_id = o.id
		 JOIN menu_items mi ON oi.menu_item_id = mi.id
		 WHERE o.created_at >= $1 AND o.created_at < $2
		 GROUP BY mi.category
		 ORDER BY COUNT(DISTINCT o.id) DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("category performance query: %w", err)
	}
	defer rows.Close()

	var stats []analytics.CategoryStats
	for rows.Next() {
		var s analytics.CategoryStats
		if err := rows.Scan(&s.Category, &s.TotalOrders, &s.TotalItems, &s.RevenueINR, &s.RevenueUSD); err != nil {
			return nil, fmt.Errorf("scanning category stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PaymentMethodCounts counts orders per payment method.
func (r *AnalyticsRepository) PaymentMethodCounts(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT payment_method, COUNT(*)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY payment_method`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("payment methods query: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var method string
		var n int64
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("scanning payment method: %w", err)
		}
		counts[method] = n
	}
	return counts, rows.Err()
}

// TablePerformance aggregates orders and revenue per table, highest INR
// revenue first. Tables without orders in the window still appear.
func (r *AnalyticsRepository) TablePerformance(ctx context.Context, start, end time.Time) ([]analytics.TableStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.table_number,
		        t.table_name,
		        COUNT(o.id),
		        COALESCE(SUM(o.total_amount_inr), 0),
		        COALESCE(SUM(o.total_amount_usd), 0),
		        COALESCE(AVG(o.total_amount_inr), 0),
		        COALESCE(AVG(o.total_amount_usd), 0)
		 FROM restaurant_tables t
		 LEFT JOIN orders o ON t.id = o.table_id
		     AND o.created_at >= $1 AND o.created_at < $2
		 GROUP BY t.id, t.table_number, t.table_name
		 ORDER BY COALESCE(SUM(o.total_amount_inr), 0) DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("table performance query: %w", err)
	}
	defer rows.Close()

	var stats []analytics.TableStats
	for rows.Next() {
		var s analytics.TableStats
		err := rows.Scan(
			&s.TableNumber, &s.TableName, &s.TotalOrders,
			&s.TotalRevenueINR, &s.TotalRevenueUSD,
			&s.AvgOrderValueINR, &s.AvgOrderValueUSD,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning table stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// HourlyOrders buckets orders and revenue per hour of day. Hours with no
// orders are absent; the handler fills the full 24-hour grid.
func (r *AnalyticsRepository) HourlyOrders(ctx context.Context, start, end time.Time) ([]analytics.HourBucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT EXTRACT(HOUR FROM created_at)::int,
		        COUNT(*),
		        COALESCE(SUM(total_amount_inr), 0),
		        COALESCE(SUM(total_amount_usd), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY 1
		 ORDER BY 1`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("hourly orders query: %w", err)
	}
	defer rows.Close()

	var buckets []analytics.HourBucket
	for rows.Next() {
		var b analytics.HourBucket
		if err := rows.Scan(&b.Hour, &b.Orders, &b.RevenueINR, &b.RevenueUSD); err != nil {
			return nil, fmt.Errorf("scanning hour bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
