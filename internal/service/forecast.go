package service

import (
	"context"
	"math"
	"sort"
	"time"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/model"
)

const (
	// forecastHistoryLimit caps how many recent sales feed the regression.
	forecastHistoryLimit = 1000

	// trendSlopeThreshold separates "stable" from "up"/"down".
	trendSlopeThreshold = 0.5

	dayFormat = "2006-01-02"
)

// ForecastService projects daily sales totals forward with a least-squares
// linear regression over the tenant's sale history.
type ForecastService struct {
	backend backend.Backend
}

// NewForecastService creates a forecast service.
func NewForecastService(b backend.Backend) *ForecastService {
	return &ForecastService{backend: b}
}

// SalesForecast aggregates the tenant's sales by day and projects the next
// `days` daily totals.
func (s *ForecastService) SalesForecast(ctx context.Context, tenantID string, days int) (model.Forecast, error) {
	sales, err := s.backend.ListSales(ctx, tenantID, forecastHistoryLimit)
	if err != nil {
		return model.Forecast{}, err
	}
	return BuildForecast(sales, days), nil
}

// BuildForecast runs the regression over the given sales. With fewer than
// two distinct days of history there is nothing to extrapolate and an empty
// projection with zero confidence is returned.
func BuildForecast(sales []model.Sale, days int) model.Forecast {
	if days <= 0 {
		days = 7
	}

	byDay := make(map[string]float64)
	for _, sale := range sales {
		day := sale.SaleDate.Format(dayFormat)
		byDay[day] += sale.TotalPrice
	}

	historical := make([]model.ForecastPoint, 0, len(byDay))
	for day, total := range byDay {
		historical = append(historical, model.ForecastPoint{Date: day, Value: total})
	}
	sort.Slice(historical, func(i, j int) bool { return historical[i].Date < historical[j].Date })

	if len(historical) < 2 {
		return model.Forecast{Historical: historical, Projected: []model.ForecastPoint{}, Trend: "stable", Confidence: 0}
	}

	// x = day index, y = daily sales total
	n := float64(len(historical))
	var sumX, sumY, sumXY, sumXX float64
	for i, point := range historical {
		x := float64(i)
		sumX += x
		sumY += point.Value
		sumXY += x * point.Value
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	lastDate, _ := time.Parse(dayFormat, historical[len(historical)-1].Date)
	projected := make([]model.ForecastPoint, 0, days)
	for i := 1; i <= days; i++ {
		x := n - 1 + float64(i)
		predicted := slope*x + intercept
		if predicted < 0 {
			predicted = 0
		}
		projected = append(projected, model.ForecastPoint{
			Date:  lastDate.AddDate(0, 0, i).Format(dayFormat),
			Value: math.Round(predicted*100) / 100,
		})
	}

	trend := "stable"
	if slope > trendSlopeThreshold {
		trend = "up"
	} else if slope < -trendSlopeThreshold {
		trend = "down"
	}

	return model.Forecast{
		Historical: historical,
		Projected:  projected,
		Trend:      trend,
		Confidence: rSquared(historical, slope, intercept),
	}
}

// rSquared measures how well the fitted line explains the history.
func rSquared(points []model.ForecastPoint, slope, intercept float64) float64 {
	mean := 0.0
	for _, p := range points {
		mean += p.Value
	}
	mean /= float64(len(points))

	var ssRes, ssTot float64
	for i, p := range points {
		fitted := slope*float64(i) + intercept
		ssRes += (p.Value - fitted) * (p.Value - fitted)
		ssTot += (p.Value - mean) * (p.Value - mean)
	}
	if ssTot == 0 {
		return 0
	}

	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	return math.Round(r2*100) / 100
}
