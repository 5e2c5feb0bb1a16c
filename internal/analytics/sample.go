package analytics

import "time"

// Sample returns the demo snapshot served when the order store is
// unreachable, so the back office renders instead of blocking. Figures are
// static; labels follow the reference time like a real aggregation would.
func Sample(now time.Time) Snapshot {
	dailySales := []float64{1200, 1800, 2200, 1600, 2800, 3200, 2950}
	dailyOrders := []int{3, 5, 6, 4, 8, 9, 7}
	daily := make([]Point, 0, 7)
	for i := 6; i >= 0; i-- {
		day := dateOf(now.AddDate(0, 0, -i))
		daily = append(daily, Point{Label: dayLabel(day), Sales: dailySales[6-i], Orders: dailyOrders[6-i]})
	}

	weekly := []Point{
		{Label: "Sem 1", Sales: 8500, Orders: 22},
		{Label: "Sem 2", Sales: 9200, Orders: 25},
		{Label: "Sem 3", Sales: 7800, Orders: 19},
		{Label: "Sem 4", Sales: 10500, Orders: 28},
	}

	monthlySales := []float64{28500, 32200, 29800, 35500, 41200, 38900}
	monthlyOrders := []int{75, 85, 78, 92, 108, 98}
	monthly := make([]Point, 0, 6)
	for i := 5; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthly = append(monthly, Point{Label: monthLabel(month), Sales: monthlySales[5-i], Orders: monthlyOrders[5-i]})
	}

	return Snapshot{
		TotalSales:        15750,
		TotalOrders:       42,
		AverageOrderValue: 375,
		TopProducts: []TopProduct{
			{Name: "Produit Premium", Sales: 4500, Quantity: 12},
			{Name: "Article Populaire", Sales: 3200, Quantity: 16},
			{Name: "Nouveau Produit", Sales: 2800, Quantity: 8},
			{Name: "Produit Classique", Sales: 2100, Quantity: 14},
			{Name: "Article Tendance", Sales: 1650, Quantity: 6},
		},
		DailySales:   daily,
		WeeklySales:  weekly,
		MonthlySales: monthly,
	}
}
