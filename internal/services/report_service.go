package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "thrift/internal/errors"
	"thrift/internal/models"
	"thrift/internal/validation"
)

// reportService aggregates expense entries into report shapes.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// expenses loads all of the user's expenses. Every report mode filters in
// memory over this set; the ledger is small enough per user that pushing
// each window into SQL buys nothing.
func (s *reportService) expenses(userID string) ([]models.Entry, error) {
	var entries []models.Entry
	if err := s.db.Where("user_id = ? AND kind = ?", userID, models.EntryKindExpense).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// bucket folds matching entries into the fixed category list. Every
// category appears, zeros included, so charts always show all eight
// slots. No matching entries at all yields an empty report instead.
func bucket(entries []models.Entry, match func(e *models.Entry) bool) *BucketReport {
	sums := make(map[string]int64, len(models.ExpenseCategories))
	matched := false
	for i := range entries {
		if match(&entries[i]) {
			sums[entries[i].Category] += entries[i].Amount
			matched = true
		}
	}
	report := &BucketReport{}
	if !matched {
		return report
	}
	for _, cat := range models.ExpenseCategories {
		report.Buckets = append(report.Buckets, CategoryTotal{Category: cat, Total: sums[cat]})
		report.Total += sums[cat]
	}
	return report
}

// before reports whether date a is strictly earlier than date b, comparing
// year, then month, then day.
func before(ay, am, ad, by, bm, bd int) bool {
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// CategorySpan returns every expense of one category between two months,
// inclusive, as a time series sorted ascending by calendar date. The end
// month must be strictly after the start month.
func (s *reportService) CategorySpan(userID, category string, startYear, startMonth, endYear, endMonth int) ([]SeriesPoint, error) {
	if !models.ValidCategory(category) {
		return nil, apperrors.ErrInvalidCategory
	}
	if r := validation.YearMonth(startYear, startMonth); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month"))
	}
	if r := validation.YearMonth(endYear, endMonth); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month"))
	}
	if !before(startYear, startMonth, 0, endYear, endMonth, 0) {
		return nil, apperrors.ErrInvalidDateRange
	}

	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}

	var points []SeriesPoint
	for i := range entries {
		e := &entries[i]
		if e.Category != category {
			continue
		}
		if before(e.Year, e.Month, 0, startYear, startMonth, 0) ||
			before(endYear, endMonth, 0, e.Year, e.Month, 0) {
			continue
		}
		points = append(points, SeriesPoint{
			Year: e.Year, Month: e.Month, Day: e.Day,
			Name: e.Name, Amount: e.Amount,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return before(points[i].Year, points[i].Month, points[i].Day,
			points[j].Year, points[j].Month, points[j].Day)
	})
	return points, nil
}

// Biweekly buckets the fourteen days starting at the given date:
// the start date is included, the fourteenth day after it is not.
// The window end uses real calendar arithmetic, not the fixed month
// lengths the challenge deadlines use.
func (s *reportService) Biweekly(userID string, year, month, day int) (*BucketReport, error) {
	if r := validation.DateParts(year, month, day); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month", "day"))
	}

	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}

	end := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 14)
	endYear, endMonth, endDay := end.Year(), int(end.Month()), end.Day()
	return bucket(entries, func(e *models.Entry) bool {
		if before(e.Year, e.Month, e.Day, year, month, day) {
			return false
		}
		return before(e.Year, e.Month, e.Day, endYear, endMonth, endDay)
	}), nil
}

// Monthly buckets the expenses of one exact month.
func (s *reportService) Monthly(userID string, year, month int) (*BucketReport, error) {
	if r := validation.YearMonth(year, month); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month"))
	}
	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}
	return bucket(entries, func(e *models.Entry) bool {
		return e.Year == year && e.Month == month
	}), nil
}

// Yearly buckets the expenses of one exact year.
func (s *reportService) Yearly(userID string, year int) (*BucketReport, error) {
	if r := validation.Year(year); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year"))
	}
	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}
	return bucket(entries, func(e *models.Entry) bool {
		return e.Year == year
	}), nil
}

// CustomRange buckets expenses between two dates, both ends included.
// The end date must be strictly later than the start date.
func (s *reportService) CustomRange(userID string, startYear, startMonth, startDay, endYear, endMonth, endDay int) (*BucketReport, error) {
	if r := validation.DateParts(startYear, startMonth, startDay); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month", "day"))
	}
	if r := validation.DateParts(endYear, endMonth, endDay); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month", "day"))
	}
	if !before(startYear, startMonth, startDay, endYear, endMonth, endDay) {
		return nil, apperrors.ErrInvalidDateRange
	}

	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}
	return bucket(entries, func(e *models.Entry) bool {
		if before(e.Year, e.Month, e.Day, startYear, startMonth, startDay) {
			return false
		}
		return !before(endYear, endMonth, endDay, e.Year, e.Month, e.Day)
	}), nil
}

// MonthlyAverages divides each category's all-time total by the span in
// months between the user's earliest and latest expense, gap months
// counted. Unlike the bucketed modes, only categories that actually have
// an entry appear. Averages are integer cents.
func (s *reportService) MonthlyAverages(userID string) (*AverageReport, error) {
	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}
	report := &AverageReport{}
	if len(entries) == 0 {
		return report, nil
	}

	first := entries[0]
	earliestY, earliestM := first.Year, first.Month
	latestY, latestM := first.Year, first.Month
	totals := make(map[string]int64)
	for i := range entries {
		e := &entries[i]
		totals[e.Category] += e.Amount
		if before(e.Year, e.Month, 0, earliestY, earliestM, 0) {
			earliestY, earliestM = e.Year, e.Month
		}
		if before(latestY, latestM, 0, e.Year, e.Month, 0) {
			latestY, latestM = e.Year, e.Month
		}
	}

	months := (latestY-earliestY)*12 + (latestM - earliestM + 1)
	if months < 1 {
		months = 1
	}
	report.MonthsCount = months

	for _, cat := range models.ExpenseCategories {
		if total, ok := totals[cat]; ok {
			report.Averages = append(report.Averages, CategoryTotal{
				Category: cat,
				Total:    total / int64(months),
			})
		}
	}
	return report, nil
}

// CategoryTrend returns per-month totals for one category across the whole
// ledger, sorted ascending by (year, month).
func (s *reportService) CategoryTrend(userID, category string) ([]SeriesPoint, error) {
	if !models.ValidCategory(category) {
		return nil, apperrors.ErrInvalidCategory
	}
	entries, err := s.expenses(userID)
	if err != nil {
		return nil, err
	}

	type ym struct{ y, m int }
	sums := make(map[ym]int64)
	for i := range entries {
		e := &entries[i]
		if e.Category == category {
			sums[ym{e.Year, e.Month}] += e.Amount
		}
	}

	keys := make([]ym, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return before(keys[i].y, keys[i].m, 0, keys[j].y, keys[j].m, 0)
	})

	points := make([]SeriesPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, SeriesPoint{Year: k.y, Month: k.m, Amount: sums[k]})
	}
	return points, nil
}

// SplitPlan allocates a total across named percentage shares. Shares over
// 100% are rejected; anything left under 100% comes back as an "Extra"
// bucket so the allocations always sum to the total.
func (s *reportService) SplitPlan(total int64, parts []PlanPart) ([]PlanAllocation, error) {
	if total <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Total must be a positive number.")
	}

	var percent float64
	for _, p := range parts {
		if p.Percent <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Each share must be a positive percentage.")
		}
		percent += p.Percent
	}
	if percent > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Shares cannot exceed 100%.")
	}

	allocations := make([]PlanAllocation, 0, len(parts)+1)
	var allocated int64
	for _, p := range parts {
		amount := int64(float64(total) * p.Percent / 100)
		allocations = append(allocations, PlanAllocation{Name: p.Name, Amount: amount})
		allocated += amount
	}
	if percent < 100 {
		allocations = append(allocations, PlanAllocation{Name: "Extra", Amount: total - allocated})
	} else if allocated < total {
		// Fractional percents truncate to whole cents; without an Extra
		// bucket the shortfall lands in the last share.
		allocations[len(allocations)-1].Amount += total - allocated
	}
	return allocations, nil
}
