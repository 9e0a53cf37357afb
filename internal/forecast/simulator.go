package forecast

import "github.com/Mihaix21/Stock-Forecasting/internal/domain"

// Projection is the simulator input: the stock level at the anchor date, the
// product's configured safety floor, and the estimated demand model.
type Projection struct {
	InitialStock  float64
	MinStockLevel float64
	DemandRate    float64
	ReviewDays    int
}

// ProjectStock walks the review schedule under an order-up-to periodic review
// policy. At each review:
//
//	stock_before = carried stock - rate * days since the previous review
//	               (floored at 0; going below zero is a stockout, not debt)
//	demand_next  = rate * review_days
//	order_qty    = max(0, (min_stock_level + demand_next) - stock_before)
//	               (0 whenever the demand rate itself is 0)
//
// Orders arrive instantaneously, so the stock carried into the next review is
// stock_before + order_qty. Monetary-style rounding to one decimal applies to
// the reported fields only; the carried stock stays exact.
func ProjectStock(anchor domain.Date, schedule []domain.Date, p Projection) []domain.ReviewPlanEntry {
	entries := make([]domain.ReviewPlanEntry, 0, len(schedule))

	stock := p.InitialStock
	prev := anchor

	for _, reviewDate := range schedule {
		elapsed := prev.DaysUntil(reviewDate)

		stockBefore := stock - p.DemandRate*float64(elapsed)
		stockout := false
		if stockBefore < 0 {
			stockBefore = 0
			stockout = true
		}

		demandNext := p.DemandRate * float64(p.ReviewDays)

		// Without a demand signal there is nothing to size an order
		// against; an empty or dead history yields a zero-order plan.
		orderQty := 0.0
		if p.DemandRate > 0 {
			orderQty = (p.MinStockLevel + demandNext) - stockBefore
			if orderQty < 0 {
				orderQty = 0
			}
		}

		entries = append(entries, domain.ReviewPlanEntry{
			ReviewDate:  reviewDate,
			StockBefore: round1(stockBefore),
			DemandNext:  round1(demandNext),
			OrderQty:    round1(orderQty),
			Stockout:    stockout,
		})

		stock = stockBefore + orderQty
		prev = reviewDate
	}

	return entries
}
