// Package analytics turns a flat list of order records into the sales
// snapshot shown in the back office. Aggregate is a pure function of the
// order list and the reference time; nothing is cached or persisted.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/boutique/internal/order"
)

const topProductLimit = 5

// Point is one time-series bucket.
type Point struct {
	Label  string  `json:"date"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// TopProduct ranks a product by accumulated revenue across all orders.
type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Sales     float64 `json:"sales"`
}

// Snapshot is the derived analytics view. It is recomputed on every request
// and discarded on the next load.
type Snapshot struct {
	TotalSales        float64      `json:"total_sales"`
	TotalOrders       int          `json:"total_orders"`
	AverageOrderValue float64      `json:"average_order_value"`
	TopProducts       []TopProduct `json:"top_products"`
	DailySales        []Point      `json:"daily_sales"`
	WeeklySales       []Point      `json:"weekly_sales"`
	MonthlySales      []Point      `json:"monthly_sales"`
}

// Aggregate computes the full snapshot from the given orders. now anchors the
// daily (7 days), weekly (4 weeks) and monthly (6 months) series; all three
// are always computed, oldest bucket first. Records with a non-finite total
// are dropped; records without a timestamp count toward the summary only.
func Aggregate(orders []order.Record, now time.Time) Snapshot {
	valid := orders[:0:0]
	for _, o := range orders {
		if math.IsNaN(o.Total) || math.IsInf(o.Total, 0) {
			continue
		}
		valid = append(valid, o)
	}

	snapshot := Snapshot{
		TotalOrders:  len(valid),
		TopProducts:  topProducts(valid),
		DailySales:   dailySales(valid, now),
		WeeklySales:  weeklySales(valid, now),
		MonthlySales: monthlySales(valid, now),
	}
	for _, o := range valid {
		snapshot.TotalSales += o.Total
	}
	if snapshot.TotalOrders > 0 {
		snapshot.AverageOrderValue = snapshot.TotalSales / float64(snapshot.TotalOrders)
	}
	return snapshot
}

// topProducts groups line items by product id and ranks by revenue. Ties keep
// first-encountered order (stable sort).
func topProducts(orders []order.Record) []TopProduct {
	index := make(map[string]int)
	products := []TopProduct{}
	for _, o := range orders {
		for _, item := range o.Items {
			if i, ok := index[item.ProductID]; ok {
				products[i].Quantity += item.Quantity
				products[i].Sales += item.Price * float64(item.Quantity)
				continue
			}
			index[item.ProductID] = len(products)
			products = append(products, TopProduct{
				ProductID: item.ProductID,
				Name:      item.ProductName,
				Quantity:  item.Quantity,
				Sales:     item.Price * float64(item.Quantity),
			})
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Sales > products[j].Sales
	})
	if len(products) > topProductLimit {
		products = products[:topProductLimit]
	}
	return products
}

// dailySales buckets orders into the 7 calendar days ending today.
func dailySales(orders []order.Record, now time.Time) []Point {
	points := make([]Point, 0, 7)
	for i := 6; i >= 0; i-- {
		day := dateOf(now.AddDate(0, 0, -i))
		point := Point{Label: dayLabel(day)}
		for _, o := range orders {
			if o.CreatedAt.IsZero() {
				continue
			}
			if dateOf(o.CreatedAt).Equal(day) {
				point.Sales += o.Total
				point.Orders++
			}
		}
		points = append(points, point)
	}
	return points
}

// weeklySales buckets orders into 4 non-overlapping 7-day ranges ending
// today: [today-7(k+1)+1, today-7k] for k = 3..0, inclusive on both ends.
func weeklySales(orders []order.Record, now time.Time) []Point {
	points := make([]Point, 0, 4)
	for k := 3; k >= 0; k-- {
		start := dateOf(now.AddDate(0, 0, -7*(k+1)+1))
		end := dateOf(now.AddDate(0, 0, -7*k))
		point := Point{Label: fmt.Sprintf("Sem %d", 4-k)}
		for _, o := range orders {
			if o.CreatedAt.IsZero() {
				continue
			}
			day := dateOf(o.CreatedAt)
			if !day.Before(start) && !day.After(end) {
				point.Sales += o.Total
				point.Orders++
			}
		}
		points = append(points, point)
	}
	return points
}

// monthlySales buckets orders into the 6 calendar months ending with the
// current one. Matching is by month and year only.
func monthlySales(orders []order.Record, now time.Time) []Point {
	points := make([]Point, 0, 6)
	for i := 5; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		point := Point{Label: monthLabel(month)}
		for _, o := range orders {
			if o.CreatedAt.IsZero() {
				continue
			}
			if o.CreatedAt.Month() == month.Month() && o.CreatedAt.Year() == month.Year() {
				point.Sales += o.Total
				point.Orders++
			}
		}
		points = append(points, point)
	}
	return points
}

// dateOf truncates a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// frMonths are the French month abbreviations used by the admin charts.
var frMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

func dayLabel(day time.Time) string {
	return fmt.Sprintf("%d %s", day.Day(), frMonths[day.Month()-1])
}

func monthLabel(month time.Time) string {
	return fmt.Sprintf("%s %02d", frMonths[month.Month()-1], month.Year()%100)
}
