package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "thrift/internal/errors"
	"thrift/internal/models"
	"thrift/internal/validation"
)

// challengeTemplates is the fixed premade catalog, in display order.
// Goals are cents.
var challengeTemplates = []ChallengeTemplate{
	{Label: "$100 in 2 weeks", Goal: 10_000, Days: 14},
	{Label: "$200 in 2 weeks", Goal: 20_000, Days: 14},
	{Label: "$500 in 30 days", Goal: 50_000, Days: 30},
	{Label: "$1,000 in 30 days", Goal: 100_000, Days: 30},
	{Label: "$1,000 in 90 days", Goal: 100_000, Days: 90},
	{Label: "$2,000 in 90 days", Goal: 200_000, Days: 90},
	{Label: "$2,500 in 6 months", Goal: 250_000, Days: 180},
	{Label: "$5,000 in 6 months", Goal: 500_000, Days: 180},
	{Label: "$5,000 in 1 year", Goal: 500_000, Days: 365},
	{Label: "$10,000 in 1 year", Goal: 1_000_000, Days: 365},
}

// daysInMonth returns the fixed month length used for deadline arithmetic.
// February is always 28; leap years are deliberately ignored, matching the
// approximation the product has always used.
func daysInMonth(month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		return 28
	default:
		return 31
	}
}

// addDays advances a date by offset days using the fixed month lengths,
// carrying into later months and wrapping the year as needed.
func addDays(year, month, day, offset int) (int, int, int) {
	if day+offset <= daysInMonth(month) {
		return year, month, day + offset
	}

	daysTill := offset - (daysInMonth(month) - day)
	month++
	if month > 12 {
		month = 1
		year++
	}
	for daysTill > daysInMonth(month) {
		daysTill -= daysInMonth(month)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return year, month, daysTill
}

// formatDeadline renders the stored deadline string. Parts are not
// zero-padded; the string round-trips through the display layer as is.
func formatDeadline(year, month, day int) string {
	return fmt.Sprintf("%d-%d-%d", year, month, day)
}

// challengeService handles savings-challenge business logic.
type challengeService struct {
	db *gorm.DB
}

// NewChallengeService creates a new ChallengeServicer.
func NewChallengeService(db *gorm.DB) ChallengeServicer {
	return &challengeService{db: db}
}

// Templates lists the premade challenge catalog.
func (s *challengeService) Templates() []ChallengeTemplate {
	out := make([]ChallengeTemplate, len(challengeTemplates))
	copy(out, challengeTemplates)
	return out
}

func (s *challengeService) insert(c *models.Challenge) (*models.Challenge, error) {
	if err := s.db.Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "A challenge with this name already exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return c, nil
}

// CreateChallenge creates a custom challenge. The saved amount starts at
// zero; reaching or exceeding the goal is not a terminal state.
func (s *challengeService) CreateChallenge(userID, name string, totalAmount int64, year, month, day int) (*models.Challenge, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required.")
	}
	if totalAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal must be a positive number.")
	}
	if r := validation.DateParts(year, month, day); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month", "day"))
	}

	return s.insert(&models.Challenge{
		UserID:      userID,
		Name:        name,
		TotalAmount: totalAmount,
		Deadline:    formatDeadline(year, month, day),
		Year:        year,
		Month:       month,
		Day:         day,
	})
}

// CreateFromTemplate creates a challenge from the premade catalog. The
// final name is "customName: label" and the deadline is now plus the
// template's day count under the fixed month lengths.
func (s *challengeService) CreateFromTemplate(userID, customName, label string, now time.Time) (*models.Challenge, error) {
	if strings.TrimSpace(customName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required.")
	}

	var tpl *ChallengeTemplate
	for i := range challengeTemplates {
		if challengeTemplates[i].Label == label {
			tpl = &challengeTemplates[i]
			break
		}
	}
	if tpl == nil {
		return nil, apperrors.ErrUnknownTemplate
	}

	year, month, day := addDays(now.Year(), int(now.Month()), now.Day(), tpl.Days)
	return s.insert(&models.Challenge{
		UserID:      userID,
		Name:        customName + ": " + tpl.Label,
		TotalAmount: tpl.Goal,
		Deadline:    formatDeadline(year, month, day),
		Year:        year,
		Month:       month,
		Day:         day,
	})
}

// GetChallenges returns all of the user's challenges, newest first.
func (s *challengeService) GetChallenges(userID string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&challenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return challenges, nil
}

// GetChallenge retrieves one challenge by name.
func (s *challengeService) GetChallenge(userID, name string) (*models.Challenge, error) {
	var c models.Challenge
	if err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &c, nil
}

// AddSaving moves amount from the user's balance into a challenge. The
// balance decrement is conditional on sufficient funds; when it does not
// apply, neither the balance nor the challenge changes and the caller gets
// INSUFFICIENT_BALANCE. Both mutations run in one transaction as atomic
// SQL increments.
func (s *challengeService) AddSaving(userID, name string, amount int64) (*models.Challenge, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be a positive number.")
	}

	challenge, err := s.GetChallenge(userID, name)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND balance IS NOT NULL AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInsufficientBalance
		}
		return tx.Model(&models.Challenge{}).
			Where("id = ?", challenge.ID).
			Update("amount", gorm.Expr("amount + ?", amount)).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetChallenge(userID, name)
}

// EditChallenge replaces a challenge's editable fields, saved amount
// included. The deadline parts are validated before anything else, and the
// stored row is replaced by a delete plus insert inside one transaction,
// so the old row never disappears without its replacement.
func (s *challengeService) EditChallenge(userID, oldName string, upd ChallengeUpdate) (*models.Challenge, error) {
	if r := validation.DateParts(upd.Year, upd.Month, upd.Day); !r.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month", "day"))
	}
	if strings.TrimSpace(upd.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required.")
	}
	if upd.TotalAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Goal must be a positive number.")
	}
	if upd.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Saved amount cannot be negative.")
	}

	old, err := s.GetChallenge(userID, oldName)
	if err != nil {
		return nil, err
	}

	replacement := &models.Challenge{
		UserID:      userID,
		Name:        upd.Name,
		Amount:      upd.Amount,
		TotalAmount: upd.TotalAmount,
		Deadline:    formatDeadline(upd.Year, upd.Month, upd.Day),
		Year:        upd.Year,
		Month:       upd.Month,
		Day:         upd.Day,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Challenge{}, "id = ?", old.ID).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateName, "A challenge with this name already exists")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return replacement, nil
}

// DeleteChallenge removes a challenge. The saved amount is not returned to
// the balance; money put into a deleted challenge is gone from the ledger.
func (s *challengeService) DeleteChallenge(userID, name string) error {
	challenge, err := s.GetChallenge(userID, name)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.Challenge{}, "id = ?", challenge.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DaysUntilDeadline computes the countdown shown next to a challenge.
// A deadline earlier than now reports passed; otherwise days is the
// number of whole days remaining plus one, so "due today" reads as 1.
func (s *challengeService) DaysUntilDeadline(c *models.Challenge, now time.Time) (int, bool) {
	deadline := time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, now.Location())
	diff := deadline.Sub(now)
	if diff < 0 {
		return 0, true
	}
	return int(diff.Hours()/24) + 1, false
}
