package services

import (
	"sort"
	"time"

	"pizzapoint/server/internal/models"
)

// Периоды отчета о продажах
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// SalesBucket - агрегат за единицу времени (час или день)
type SalesBucket struct {
	Label   string  `json:"label"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// TopItem - позиция меню в топе продаж
type TopItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// SalesReport - сводка продаж для админ-консоли
type SalesReport struct {
	Period        string         `json:"period"`
	TotalOrders   int            `json:"total_orders"`
	TotalRevenue  float64        `json:"total_revenue"`
	AvgOrderValue float64        `json:"avg_order_value"`
	ByStatus      map[string]int `json:"by_status"`
	Buckets       []SalesBucket  `json:"buckets"`
	TopItems      []TopItem      `json:"top_items"`
}

// ReportService считает сводки продаж по коллекции заказов стора
type ReportService struct {
	store *OrderStore
	now   func() time.Time
}

// NewReportService создает сервис отчетов
func NewReportService(store *OrderStore) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

// BuildReport строит сводку продаж за период (today | week | month).
// Неизвестный период - весь текущий состав стора.
func (rs *ReportService) BuildReport(period string) SalesReport {
	now := rs.now()
	orders := rs.store.Orders()

	var cutoff time.Time
	switch period {
	case PeriodToday:
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		cutoff = now.AddDate(0, 0, -7)
	case PeriodMonth:
		cutoff = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if cutoff.IsZero() || !order.CreatedAt.Before(cutoff) {
			filtered = append(filtered, order)
		}
	}

	report := SalesReport{
		Period:      period,
		TotalOrders: len(filtered),
		ByStatus: map[string]int{
			models.StatusPending:   0,
			models.StatusPreparing: 0,
			models.StatusReady:     0,
			models.StatusCompleted: 0,
		},
	}

	itemStats := make(map[string]*TopItem)
	for _, order := range filtered {
		report.TotalRevenue += order.Total
		report.ByStatus[order.Status]++

		for _, line := range order.Items {
			stat, ok := itemStats[line.MenuItem.ID]
			if !ok {
				stat = &TopItem{Name: line.MenuItem.Name}
				itemStats[line.MenuItem.ID] = stat
			}
			stat.Quantity += line.Quantity
			stat.Revenue += line.TotalPrice
		}
	}
	if report.TotalOrders > 0 {
		report.AvgOrderValue = report.TotalRevenue / float64(report.TotalOrders)
	}

	report.Buckets = buildBuckets(filtered, period, now)
	report.TopItems = topItems(itemStats, 5)
	return report
}

// buildBuckets группирует заказы по часам (today) или по дням (week/month)
func buildBuckets(orders []models.Order, period string, now time.Time) []SalesBucket {
	if period == PeriodToday {
		buckets := make([]SalesBucket, 24)
		for h := range buckets {
			buckets[h].Label = time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:00")
		}
		for _, order := range orders {
			h := order.CreatedAt.Hour()
			buckets[h].Orders++
			buckets[h].Revenue += order.Total
		}
		return buckets
	}

	byDay := make(map[string]*SalesBucket)
	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &SalesBucket{Label: day}
			byDay[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue += order.Total
	}

	result := make([]SalesBucket, 0, len(byDay))
	for _, bucket := range byDay {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result
}

// topItems возвращает limit самых продаваемых позиций
func topItems(stats map[string]*TopItem, limit int) []TopItem {
	result := make([]TopItem, 0, len(stats))
	for _, stat := range stats {
		result = append(result, *stat)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
