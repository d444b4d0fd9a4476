package services

import (
	"context"
	"io"
	"time"

	"thrift/internal/models"
	"thrift/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// EntryInput carries the fields for a new ledger entry.
type EntryInput struct {
	Name        string
	Amount      int64
	Year        int
	Month       int
	Day         int
	Category    string
	Description string
}

// ImportResult summarizes a CSV import. When Aborted is true, FailedLine is
// the 1-based index of the row that stopped the import and Imported counts
// the rows written before it; those rows stay written.
type ImportResult struct {
	Imported   int    `json:"imported"`
	Aborted    bool   `json:"aborted"`
	FailedLine int    `json:"failed_line,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// LedgerServicer defines the contract for the expense and income ledger.
type LedgerServicer interface {
	CreateEntry(ctx context.Context, userID string, kind models.EntryKind, in EntryInput) (*models.Entry, error)
	GetEntries(userID string, kind models.EntryKind, page pagination.PageRequest) (*pagination.PageResponse[models.Entry], error)
	GetEntry(userID string, kind models.EntryKind, name string) (*models.Entry, error)
	DeleteEntry(userID string, kind models.EntryKind, name string) error
	EnsureBalance(ctx context.Context, userID string) (int64, error)
	ImportEntries(ctx context.Context, userID string, r io.Reader) (*ImportResult, error)
}

// ChallengeTemplate is one of the fixed premade savings challenges.
type ChallengeTemplate struct {
	Label string `json:"label"`
	Goal  int64  `json:"goal"`
	Days  int    `json:"days"`
}

// ChallengeUpdate carries the editable fields of a challenge.
type ChallengeUpdate struct {
	Name        string
	Amount      int64
	TotalAmount int64
	Year        int
	Month       int
	Day         int
}

// ChallengeServicer defines the contract for savings challenges.
type ChallengeServicer interface {
	Templates() []ChallengeTemplate
	CreateChallenge(userID, name string, totalAmount int64, year, month, day int) (*models.Challenge, error)
	CreateFromTemplate(userID, customName, label string, now time.Time) (*models.Challenge, error)
	GetChallenges(userID string) ([]models.Challenge, error)
	GetChallenge(userID, name string) (*models.Challenge, error)
	AddSaving(userID, name string, amount int64) (*models.Challenge, error)
	EditChallenge(userID, oldName string, upd ChallengeUpdate) (*models.Challenge, error)
	DeleteChallenge(userID, name string) error
	DaysUntilDeadline(c *models.Challenge, now time.Time) (days int, passed bool)
}

// CategoryTotal is one bucket of a category report.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// SeriesPoint is one dated value in a report time series.
type SeriesPoint struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day,omitempty"`
	Name   string `json:"name,omitempty"`
	Amount int64  `json:"amount"`
}

// BucketReport is the result of the bucketed report modes. Buckets always
// lists all categories in display order; Total sums them. An empty Buckets
// slice means no expense matched the window.
type BucketReport struct {
	Buckets []CategoryTotal `json:"buckets"`
	Total   int64           `json:"total"`
}

// AverageReport maps categories to their monthly average spend. Only
// categories with at least one entry appear.
type AverageReport struct {
	Averages    []CategoryTotal `json:"averages"`
	MonthsCount int             `json:"months_count"`
}

// PlanPart is one named share of a split plan request.
type PlanPart struct {
	Name    string  `json:"name" binding:"required"`
	Percent float64 `json:"percent" binding:"required,gt=0"`
}

// PlanAllocation is one resolved share of a split plan.
type PlanAllocation struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// ReportServicer defines the contract for report aggregation.
type ReportServicer interface {
	CategorySpan(userID, category string, startYear, startMonth, endYear, endMonth int) ([]SeriesPoint, error)
	Biweekly(userID string, year, month, day int) (*BucketReport, error)
	Monthly(userID string, year, month int) (*BucketReport, error)
	Yearly(userID string, year int) (*BucketReport, error)
	CustomRange(userID string, startYear, startMonth, startDay, endYear, endMonth, endDay int) (*BucketReport, error)
	MonthlyAverages(userID string) (*AverageReport, error)
	CategoryTrend(userID, category string) ([]SeriesPoint, error)
	SplitPlan(total int64, parts []PlanPart) ([]PlanAllocation, error)
}
