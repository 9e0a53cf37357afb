package forecast

import "github.com/Mihaix21/Stock-Forecasting/internal/domain"

// daysPerMonth fixes the horizon arithmetic: a plan horizon of M months is
// exactly M*30 days. Calendar month lengths are deliberately not used, so a
// valid request always yields floor(months*30/review_days) reviews.
const daysPerMonth = 30

// ReviewSchedule returns the review dates anchor+review_days,
// anchor+2*review_days, ... within the horizon. Empty (non-nil) when the
// cadence exceeds the horizon.
func ReviewSchedule(anchor domain.Date, months, reviewDays int) []domain.Date {
	if months <= 0 || reviewDays <= 0 {
		return []domain.Date{}
	}

	horizon := months * daysPerMonth
	n := horizon / reviewDays

	dates := make([]domain.Date, 0, n)
	for k := 1; k <= n; k++ {
		dates = append(dates, anchor.AddDays(k*reviewDays))
	}
	return dates
}
