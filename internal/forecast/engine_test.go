package forecast

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steadyProduct() *domain.Product {
	return &domain.Product{
		ID:            1,
		Name:          "Espresso Beans 1kg",
		MinStockLevel: 50,
		IsActive:      true,
		History:       flatHistory(30, 10, 200),
	}
}

func TestEnginePlan_SteadyStateExample(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := steadyProduct()
	anchor := product.LastHistoryDate()

	plan, err := engine.Plan(product, domain.ForecastRequest{Months: 1, ReviewDays: 15}, anchor)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	first := plan.Entries[0]
	assert.Equal(t, anchor.AddDays(15), first.ReviewDate)
	assert.InDelta(t, 50, first.StockBefore, 1e-9)
	assert.InDelta(t, 150, first.DemandNext, 1e-9)
	assert.InDelta(t, 150, first.OrderQty, 1e-9)

	second := plan.Entries[1]
	assert.Equal(t, anchor.AddDays(30), second.ReviewDate)
	assert.InDelta(t, 50, second.StockBefore, 1e-9)
	assert.InDelta(t, 150, second.OrderQty, 1e-9)

	require.NotNil(t, plan.Summary.NextReviewDate)
	assert.Equal(t, first.ReviewDate, *plan.Summary.NextReviewDate)
	assert.InDelta(t, 300, plan.Summary.TotalOrderQty, 1e-9)
	require.NotNil(t, plan.Summary.AccuracyPct)
	assert.InDelta(t, 100, *plan.Summary.AccuracyPct, 1e-9)
}

func TestEnginePlan_TotalMatchesEntrySum(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := steadyProduct()
	for i := range product.History {
		product.History[i].DailySales = float64(3 + i%7)
	}

	plan, err := engine.Plan(product, domain.ForecastRequest{Months: 3, ReviewDays: 11}, product.LastHistoryDate())
	require.NoError(t, err)
	require.Len(t, plan.Entries, 90/11)

	var sum float64
	for _, entry := range plan.Entries {
		sum += entry.OrderQty
	}
	assert.InDelta(t, sum, plan.Summary.TotalOrderQty, 1e-9)
}

func TestEnginePlan_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := steadyProduct()
	anchor := product.LastHistoryDate()
	req := domain.ForecastRequest{Months: 2, ReviewDays: 10}

	first, err := engine.Plan(product, req, anchor)
	require.NoError(t, err)
	second, err := engine.Plan(product, req, anchor)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON, "identical inputs must yield byte-identical plans")
}

func TestEnginePlan_InvalidRequest(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := steadyProduct()
	anchor := product.LastHistoryDate()

	for _, req := range []domain.ForecastRequest{
		{Months: 0, ReviewDays: 14},
		{Months: 3, ReviewDays: 0},
		{Months: -1, ReviewDays: 14},
	} {
		_, err := engine.Plan(product, req, anchor)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest), "req %+v", req)
	}
}

func TestEnginePlan_EmptyHistory(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := &domain.Product{ID: 2, Name: "New Item", MinStockLevel: 50}
	anchor := domain.NewDate(2024, time.August, 1)

	plan, err := engine.Plan(product, domain.ForecastRequest{Months: 1, ReviewDays: 15}, anchor)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	for _, entry := range plan.Entries {
		assert.Zero(t, entry.DemandNext)
		assert.Zero(t, entry.OrderQty)
	}
	assert.Nil(t, plan.Summary.AccuracyPct, "no history means accuracy is unknown, not zero")
	assert.Zero(t, plan.Summary.TotalOrderQty)
}

func TestEnginePlan_SingleRecordHistory(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := &domain.Product{
		ID:            3,
		Name:          "Sample",
		MinStockLevel: 20,
		History: []domain.HistoryRecord{
			{Date: domain.NewDate(2024, time.April, 10), DailySales: 5, StockQuantity: 60},
		},
	}

	plan, err := engine.Plan(product, domain.ForecastRequest{Months: 1, ReviewDays: 10}, product.LastHistoryDate())
	require.NoError(t, err)
	require.Len(t, plan.Entries, 3)

	assert.InDelta(t, 50, plan.Entries[0].DemandNext, 1e-9, "rate comes from the single observation")
	assert.Nil(t, plan.Summary.AccuracyPct)
}

func TestEnginePlan_CadenceBeyondHorizon(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := steadyProduct()

	plan, err := engine.Plan(product, domain.ForecastRequest{Months: 1, ReviewDays: 45}, product.LastHistoryDate())
	require.NoError(t, err)

	assert.Empty(t, plan.Entries, "no review fits the horizon")
	assert.Nil(t, plan.Summary.NextReviewDate)
	assert.Zero(t, plan.Summary.TotalOrderQty)
}

func TestEnginePlan_CanonicalJSONShape(t *testing.T) {
	engine := NewEngine(DefaultAlpha)
	product := steadyProduct()

	plan, err := engine.Plan(product, domain.ForecastRequest{Months: 1, ReviewDays: 15}, product.LastHistoryDate())
	require.NoError(t, err)

	payload, err := json.Marshal(plan)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Contains(t, decoded, "plan")
	assert.Contains(t, decoded, "summary")

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(decoded["plan"], &entries))
	require.NotEmpty(t, entries)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, entries[0]["review_date"])
}
