package services

import (
	"sort"
	"time"

	"proshop/internal/apperrors"
	"proshop/internal/models"
	"proshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// StatsRange selects both the look-back window and the time-bucket
// granularity of the sales time series.
type StatsRange string

const (
	Range1D  StatsRange = "1D"
	Range1M  StatsRange = "1M"
	Range6M  StatsRange = "6M"
	Range1Y  StatsRange = "1Y"
	RangeAll StatsRange = "ALL"
)

// ParseStatsRange validates a client-supplied range string.
func ParseStatsRange(s string) (StatsRange, error) {
	switch StatsRange(s) {
	case Range1D, Range1M, Range6M, Range1Y, RangeAll:
		return StatsRange(s), nil
	}
	return "", apperrors.NewValidation("invalid stats range: %s", s)
}

// SalesBucket is one time-interval group of the sales time series. Only
// buckets containing at least one paid order are emitted; callers must not
// assume contiguous buckets.
type SalesBucket struct {
	Key        string          `json:"key"`
	TotalSales decimal.Decimal `json:"total_sales"`
	Count      int             `json:"count"`
}

// TopProduct is one entry of the top-products ranking.
type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CountrySessions is a shipping-address-based proxy metric, not real session
// telemetry.
type CountrySessions struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// Stats is the snapshot the dashboard consumes. The customer percentages are
// the canonical unrounded ratios; rounding to one decimal place happens at
// the display boundary.
type Stats struct {
	TotalOrders               int               `json:"total_orders"`
	SalesOverTime             []SalesBucket     `json:"sales_over_time"`
	TopProducts               []TopProduct      `json:"top_products"`
	NewCustomersPercent       float64           `json:"new_customers_percent"`
	ReturningCustomersPercent float64           `json:"returning_customers_percent"`
	RecentOrders              []models.Order    `json:"recent_orders"`
	SessionsByCountry         []CountrySessions `json:"sessions_by_country"`
}

const (
	topProductsLimit  = 5
	recentOrdersLimit = 5
)

// StatsService derives time-bucketed and cross-sectional sales metrics
// directly from the order store. Every call recomputes from scratch; there
// is no cache and no incremental maintenance.
type StatsService struct {
	orderRepo repositories.OrderRepository
	now       func() time.Time // injectable clock for tests
}

// NewStatsService creates a new StatsService.
func NewStatsService(orderRepo repositories.OrderRepository) *StatsService {
	return &StatsService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// ComputeStats builds a fresh stats snapshot for the given range. An empty
// order store yields all-zero/empty results, never an error.
func (s *StatsService) ComputeStats(r StatsRange) (*Stats, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalOrders:       len(orders), // not range-filtered
		SalesOverTime:     []SalesBucket{},
		TopProducts:       []TopProduct{},
		RecentOrders:      []models.Order{},
		SessionsByCountry: []CountrySessions{},
	}

	// Orders arrive newest first; the most recent N are for display
	// regardless of the requested range.
	for i := 0; i < len(orders) && i < recentOrdersLimit; i++ {
		stats.RecentOrders = append(stats.RecentOrders, orders[i])
	}

	windowStart := s.windowStart(r)

	bucketIndex := make(map[string]int)
	productIndex := make(map[string]int)
	countryIndex := make(map[string]int)
	ordersPerUser := make(map[string]int)

	// Scan oldest to newest so buckets, product ranking and country counts
	// all follow stable first-seen order.
	for i := len(orders) - 1; i >= 0; i-- {
		order := orders[i]

		if order.UserID != "" {
			ordersPerUser[order.UserID]++
		}

		if !order.IsPaid {
			continue
		}

		// Time series: paid orders within the look-back window only.
		if windowStart.IsZero() || !order.CreatedAt.Before(windowStart) {
			key := bucketKey(order.CreatedAt, r)
			idx, ok := bucketIndex[key]
			if !ok {
				idx = len(stats.SalesOverTime)
				bucketIndex[key] = idx
				stats.SalesOverTime = append(stats.SalesOverTime, SalesBucket{Key: key, TotalSales: decimal.Zero})
			}
			stats.SalesOverTime[idx].TotalSales = stats.SalesOverTime[idx].TotalSales.Add(order.TotalPrice)
			stats.SalesOverTime[idx].Count++
		}

		// Product ranking and country breakdown cover all paid orders.
		for _, item := range order.OrderItems {
			idx, ok := productIndex[item.ProductID]
			if !ok {
				idx = len(stats.TopProducts)
				productIndex[item.ProductID] = idx
				stats.TopProducts = append(stats.TopProducts, TopProduct{
					ProductID: item.ProductID,
					Name:      item.Name,
					Revenue:   decimal.Zero,
				})
			}
			stats.TopProducts[idx].Quantity += item.Quantity
			stats.TopProducts[idx].Revenue = stats.TopProducts[idx].Revenue.
				Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		country := order.ShippingAddress.Country
		idx, ok := countryIndex[country]
		if !ok {
			idx = len(stats.SessionsByCountry)
			countryIndex[country] = idx
			stats.SessionsByCountry = append(stats.SessionsByCountry, CountrySessions{Country: country})
		}
		stats.SessionsByCountry[idx].Count++
	}

	// Top products: highest quantity first; ties keep first-seen order
	// (stable sort), no secondary key.
	sort.SliceStable(stats.TopProducts, func(i, j int) bool {
		return stats.TopProducts[i].Quantity > stats.TopProducts[j].Quantity
	})
	if len(stats.TopProducts) > topProductsLimit {
		stats.TopProducts = stats.TopProducts[:topProductsLimit]
	}

	sort.SliceStable(stats.SessionsByCountry, func(i, j int) bool {
		return stats.SessionsByCountry[i].Count > stats.SessionsByCountry[j].Count
	})

	// New vs returning: of everyone who ever ordered, "new" means exactly
	// one order. Both percentages are zero for an empty store.
	if len(ordersPerUser) > 0 {
		newCount := 0
		for _, n := range ordersPerUser {
			if n == 1 {
				newCount++
			}
		}
		total := float64(len(ordersPerUser))
		stats.NewCustomersPercent = float64(newCount) / total * 100
		stats.ReturningCustomersPercent = float64(len(ordersPerUser)-newCount) / total * 100
	}

	return stats, nil
}

// windowStart returns the inclusive lower bound of the look-back window, or
// the zero time for ALL.
func (s *StatsService) windowStart(r StatsRange) time.Time {
	now := s.now()
	switch r {
	case Range1D:
		return now.AddDate(0, 0, -1)
	case Range1M:
		return now.AddDate(0, -1, 0)
	case Range6M:
		return now.AddDate(0, -6, 0)
	case Range1Y:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// bucketKey maps an order timestamp to its bucket label: hour within the day
// for 1D, calendar day for 1M/6M, calendar month for 1Y/ALL.
func bucketKey(t time.Time, r StatsRange) string {
	switch r {
	case Range1D:
		return t.Format("2006-01-02 15:00")
	case Range1M, Range6M:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01")
	}
}
