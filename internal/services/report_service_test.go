package services

import (
	"testing"

	"thrift/internal/models"
	"thrift/internal/testutil"
)

func TestMonthly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	t.Run("buckets_all_categories_with_zeros", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 4_000, 2024, 6, 5, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1_000, 2024, 6, 9, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 80_000, 2024, 6, 1, "Housing")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 999, 2024, 7, 1, "Food") // outside
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindIncome, 999, 2024, 6, 1, "")       // not an expense

		report, err := svc.Monthly(user.ID, 2024, 6)
		testutil.AssertNoError(t, err)
		if len(report.Buckets) != len(models.ExpenseCategories) {
			t.Fatalf("expected %d buckets, got %d", len(models.ExpenseCategories), len(report.Buckets))
		}
		for i, cat := range models.ExpenseCategories {
			if report.Buckets[i].Category != cat {
				t.Errorf("bucket %d: expected category %q, got %q", i, cat, report.Buckets[i].Category)
			}
		}
		byCat := map[string]int64{}
		for _, b := range report.Buckets {
			byCat[b.Category] = b.Total
		}
		if byCat["Food"] != 5_000 || byCat["Housing"] != 80_000 || byCat["Education"] != 0 {
			t.Errorf("unexpected totals %v", byCat)
		}
		if report.Total != 85_000 {
			t.Errorf("expected total 85000, got %d", report.Total)
		}
	})

	t.Run("no_matches_means_empty_report", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		report, err := svc.Monthly(user.ID, 2024, 6)
		testutil.AssertNoError(t, err)
		if len(report.Buckets) != 0 || report.Total != 0 {
			t.Errorf("expected empty report, got %+v", report)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		_, err := svc.Monthly(user.ID, 2024, 13)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestYearly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 100, 2023, 12, 31, "Food")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 200, 2024, 1, 1, "Food")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 300, 2024, 12, 31, "Transport")

	report, err := svc.Yearly(user.ID, 2024)
	testutil.AssertNoError(t, err)
	if report.Total != 500 {
		t.Errorf("expected total 500 for 2024 only, got %d", report.Total)
	}
}

func TestBiweekly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	t.Run("start_inclusive_end_exclusive", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		// Window [2024-08-20, 2024-09-03).
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1, 2024, 8, 19, "Food")  // before
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 10, 2024, 8, 20, "Food") // first day
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 100, 2024, 9, 2, "Food") // last day
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1_000, 2024, 9, 3, "Food") // end, excluded

		report, err := svc.Biweekly(user.ID, 2024, 8, 20)
		testutil.AssertNoError(t, err)
		if report.Total != 110 {
			t.Errorf("expected total 110, got %d", report.Total)
		}
	})

	t.Run("leap_february_stays_fourteen_days", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		// 2024 is a leap year: 14 days after Feb 20 is Mar 5, exclusive.
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 10, 2024, 3, 4, "Food")    // last day
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1_000, 2024, 3, 5, "Food") // end, excluded

		report, err := svc.Biweekly(user.ID, 2024, 2, 20)
		testutil.AssertNoError(t, err)
		if report.Total != 10 {
			t.Errorf("expected total 10, got %d", report.Total)
		}
	})
}

func TestCustomRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	t.Run("inclusive_both_ends", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1, 2024, 6, 9, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 10, 2024, 6, 10, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 100, 2024, 6, 20, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1_000, 2024, 6, 21, "Food")

		report, err := svc.CustomRange(user.ID, 2024, 6, 10, 2024, 6, 20)
		testutil.AssertNoError(t, err)
		if report.Total != 110 {
			t.Errorf("expected total 110, got %d", report.Total)
		}
	})

	t.Run("equal_dates_rejected", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		_, err := svc.CustomRange(user.ID, 2024, 6, 10, 2024, 6, 10)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("end_before_start_rejected", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		_, err := svc.CustomRange(user.ID, 2024, 6, 10, 2024, 6, 9)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})
}

func TestCategorySpan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	t.Run("sorted_ascending_series", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 3, 2024, 3, 1, "Transport")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 1, 2024, 1, 15, "Transport")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 2, 2024, 1, 20, "Transport")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 9, 2024, 2, 1, "Food")       // other category
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 9, 2024, 4, 1, "Transport") // after span

		points, err := svc.CategorySpan(user.ID, "Transport", 2024, 1, 2024, 3)
		testutil.AssertNoError(t, err)
		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(points))
		}
		for i, want := range []int64{1, 2, 3} {
			if points[i].Amount != want {
				t.Errorf("point %d: expected amount %d, got %d", i, want, points[i].Amount)
			}
		}
	})

	t.Run("equal_months_rejected", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		_, err := svc.CategorySpan(user.ID, "Food", 2024, 6, 2024, 6)
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})

	t.Run("unknown_category", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		_, err := svc.CategorySpan(user.ID, "Snacks", 2024, 1, 2024, 3)
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})
}

func TestMonthlyAverages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	t.Run("counts_gap_months", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		// January and March only; February still counts, so 3 months.
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 3_000, 2024, 1, 10, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 6_000, 2024, 3, 10, "Food")
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 900, 2024, 2, 1, "Transport")

		report, err := svc.MonthlyAverages(user.ID)
		testutil.AssertNoError(t, err)
		if report.MonthsCount != 3 {
			t.Fatalf("expected monthsCount 3, got %d", report.MonthsCount)
		}
		// Only categories with entries appear, in display order.
		if len(report.Averages) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(report.Averages))
		}
		if report.Averages[0].Category != "Food" || report.Averages[0].Total != 3_000 {
			t.Errorf("unexpected Food average %+v", report.Averages[0])
		}
		if report.Averages[1].Category != "Transport" || report.Averages[1].Total != 300 {
			t.Errorf("unexpected Transport average %+v", report.Averages[1])
		}
	})

	t.Run("single_month", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 5_000, 2024, 6, 1, "Health")

		report, err := svc.MonthlyAverages(user.ID)
		testutil.AssertNoError(t, err)
		if report.MonthsCount != 1 || report.Averages[0].Total != 5_000 {
			t.Errorf("unexpected report %+v", report)
		}
	})

	t.Run("no_expenses_short_circuits", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db)
		report, err := svc.MonthlyAverages(user.ID)
		testutil.AssertNoError(t, err)
		if report.MonthsCount != 0 || len(report.Averages) != 0 {
			t.Errorf("expected empty report, got %+v", report)
		}
	})
}

func TestCategoryTrend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)

	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 10, 2024, 2, 1, "Food")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 20, 2024, 2, 15, "Food")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 5, 2023, 12, 1, "Food")
	testutil.CreateTestEntry(t, db, user.ID, models.EntryKindExpense, 99, 2024, 1, 1, "Housing")

	points, err := svc.CategoryTrend(user.ID, "Food")
	testutil.AssertNoError(t, err)
	if len(points) != 2 {
		t.Fatalf("expected 2 months, got %d", len(points))
	}
	if points[0].Year != 2023 || points[0].Month != 12 || points[0].Amount != 5 {
		t.Errorf("unexpected first point %+v", points[0])
	}
	if points[1].Year != 2024 || points[1].Month != 2 || points[1].Amount != 30 {
		t.Errorf("unexpected second point %+v", points[1])
	}
}

func TestSplitPlan(t *testing.T) {
	svc := NewReportService(nil)

	t.Run("exact_hundred", func(t *testing.T) {
		allocs, err := svc.SplitPlan(10_000, []PlanPart{
			{Name: "Rent", Percent: 60},
			{Name: "Food", Percent: 40},
		})
		testutil.AssertNoError(t, err)
		if len(allocs) != 2 {
			t.Fatalf("expected 2 allocations, got %d", len(allocs))
		}
		if allocs[0].Amount != 6_000 || allocs[1].Amount != 4_000 {
			t.Errorf("unexpected allocations %+v", allocs)
		}
	})

	t.Run("under_hundred_adds_extra", func(t *testing.T) {
		allocs, err := svc.SplitPlan(10_000, []PlanPart{
			{Name: "Rent", Percent: 50},
			{Name: "Food", Percent: 25},
		})
		testutil.AssertNoError(t, err)
		last := allocs[len(allocs)-1]
		if last.Name != "Extra" || last.Amount != 2_500 {
			t.Errorf("expected Extra bucket of 2500, got %+v", last)
		}
	})

	t.Run("over_hundred_rejected", func(t *testing.T) {
		_, err := svc.SplitPlan(10_000, []PlanPart{
			{Name: "Rent", Percent: 70},
			{Name: "Food", Percent: 40},
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("allocations_always_sum_to_total", func(t *testing.T) {
		allocs, err := svc.SplitPlan(9_999, []PlanPart{
			{Name: "A", Percent: 33.3},
			{Name: "B", Percent: 33.3},
		})
		testutil.AssertNoError(t, err)
		var sum int64
		for _, a := range allocs {
			sum += a.Amount
		}
		if sum != 9_999 {
			t.Errorf("expected allocations to sum to 9999, got %d", sum)
		}
	})

	t.Run("fractional_exact_hundred_sums_to_total", func(t *testing.T) {
		// Per-share truncation loses a cent; the last share absorbs it.
		allocs, err := svc.SplitPlan(10_001, []PlanPart{
			{Name: "A", Percent: 33.25},
			{Name: "B", Percent: 33.25},
			{Name: "C", Percent: 33.5},
		})
		testutil.AssertNoError(t, err)
		if len(allocs) != 3 {
			t.Fatalf("expected 3 allocations with no Extra, got %d", len(allocs))
		}
		var sum int64
		for _, a := range allocs {
			sum += a.Amount
		}
		if sum != 10_001 {
			t.Errorf("expected allocations to sum to 10001, got %d", sum)
		}
	})
}
