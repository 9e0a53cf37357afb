package domain

import "time"

// HistoryRecord is one observed day of a product's sales history. Within a
// product, dates are unique and the history is ordered ascending by date.
type HistoryRecord struct {
	Date          Date    `json:"date" db:"date"`
	DailySales    float64 `json:"daily_sales" db:"daily_sales"`
	StockQuantity float64 `json:"stock_quantity" db:"stock_quantity"`
}

// Product is a stocked item with its configured safety floor and sales history.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"stock_name" db:"stock_name"`
	MinStockLevel float64         `json:"min_stock_level" db:"min_stock_level"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	History       []HistoryRecord `json:"history,omitempty" db:"-"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// LastHistoryDate returns the date of the newest history record, assuming
// ascending order. Zero Date when the history is empty.
func (p *Product) LastHistoryDate() Date {
	if len(p.History) == 0 {
		return Date{}
	}
	return p.History[len(p.History)-1].Date
}

// CurrentStock returns the stock level of the newest history record, or 0
// when there is no history.
func (p *Product) CurrentStock() float64 {
	if len(p.History) == 0 {
		return 0
	}
	return p.History[len(p.History)-1].StockQuantity
}

// ForecastRequest are the caller-supplied horizon parameters. Both fields
// must be strictly positive.
type ForecastRequest struct {
	Months     int `json:"months"`
	ReviewDays int `json:"review_days"`
}

// ReviewPlanEntry is one scheduled review: the projected stock walking into
// the review, the expected demand until the next review, and the recommended
// order quantity under the order-up-to policy. Stockout is persisted for
// analysis but stays off the wire; responses carry exactly the four plan
// fields.
type ReviewPlanEntry struct {
	ReviewDate  Date    `json:"review_date" db:"review_date"`
	StockBefore float64 `json:"stock_before" db:"stock_before"`
	DemandNext  float64 `json:"demand_next" db:"demand_next"`
	OrderQty    float64 `json:"order_qty" db:"order_qty"`
	Stockout    bool    `json:"-" db:"stockout"`
}

// ForecastSummary aggregates a plan. NextReviewDate is nil for an empty plan
// and AccuracyPct is nil when the history is too short to backtest; both mean
// "unknown", never a stand-in zero.
type ForecastSummary struct {
	NextReviewDate *Date    `json:"next_review_date"`
	TotalOrderQty  float64  `json:"total_order_qty"`
	AccuracyPct    *float64 `json:"accuracy_pct"`
}

// ForecastPlan is the full engine response for one request. The engine never
// persists it; saving a run is the caller's choice.
type ForecastPlan struct {
	Entries []ReviewPlanEntry `json:"plan"`
	Summary ForecastSummary   `json:"summary"`
}

// ForecastRun is a persisted plan computation, grouping its plan entries
// under one run id. This is the data source of the alerts history view.
type ForecastRun struct {
	ID          int64             `json:"id" db:"id"`
	ProductID   int64             `json:"product_id" db:"product_id"`
	ProductName string            `json:"stock_name" db:"stock_name"`
	Months      int               `json:"months" db:"months"`
	ReviewDays  int               `json:"review_days" db:"review_days"`
	AccuracyPct *float64          `json:"accuracy_pct" db:"accuracy_pct"`
	RunAt       time.Time         `json:"run_at" db:"run_at"`
	Entries     []ReviewPlanEntry `json:"plan,omitempty" db:"-"`
}
