package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "thrift/internal/errors"
	"thrift/internal/models"
	"thrift/internal/pagination"
	"thrift/internal/validation"
)

// ledgerService handles expense and income entries and the user balance.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

func validKind(kind models.EntryKind) bool {
	return kind == models.EntryKindExpense || kind == models.EntryKindIncome
}

// validateEntry runs the entry field checks in form order: name, amount,
// date parts, then category and description. The first failure wins.
func validateEntry(kind models.EntryKind, in EntryInput) *apperrors.AppError {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required.")
	}
	if in.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be a positive number.")
	}
	if r := validation.DateParts(in.Year, in.Month, in.Day); !r.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, r.First("year", "month", "day"))
	}
	if kind == models.EntryKindExpense && !models.ValidCategory(in.Category) {
		return apperrors.ErrInvalidCategory
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Description is required.")
	}
	return nil
}

// CreateEntry writes a new entry and applies its signed delta to the user's
// balance in a single transaction. The balance update is an atomic SQL
// increment, so concurrent writes cannot lose an update. Name uniqueness
// per user and kind is enforced by the composite index; a violation maps
// to DUPLICATE_NAME.
func (s *ledgerService) CreateEntry(ctx context.Context, userID string, kind models.EntryKind, in EntryInput) (*models.Entry, error) {
	if !validKind(kind) {
		return nil, apperrors.ErrInvalidKind
	}
	if appErr := validateEntry(kind, in); appErr != nil {
		return nil, appErr
	}

	// The balance must exist before it can be incremented.
	if _, err := s.EnsureBalance(ctx, userID); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID:      userID,
		Kind:        kind,
		Name:        in.Name,
		Amount:      in.Amount,
		Year:        in.Year,
		Month:       in.Month,
		Day:         in.Day,
		Description: in.Description,
	}
	if kind == models.EntryKindExpense {
		entry.Category = in.Category
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", entry.Delta())).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateName
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return entry, nil
}

// GetEntries returns a page of the user's entries of one kind, most recent
// date first (year, month, day descending).
func (s *ledgerService) GetEntries(userID string, kind models.EntryKind, page pagination.PageRequest) (*pagination.PageResponse[models.Entry], error) {
	if !validKind(kind) {
		return nil, apperrors.ErrInvalidKind
	}
	page.Defaults()

	base := s.db.Model(&models.Entry{}).Where("user_id = ? AND kind = ?", userID, kind)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.Entry
	if err := base.
		Order("year DESC, month DESC, day DESC").
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// GetEntry retrieves one entry by name.
func (s *ledgerService) GetEntry(userID string, kind models.EntryKind, name string) (*models.Entry, error) {
	if !validKind(kind) {
		return nil, apperrors.ErrInvalidKind
	}
	var entry models.Entry
	if err := s.db.Where("user_id = ? AND kind = ? AND name = ?", userID, kind, name).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// DeleteEntry removes an entry and reverses its balance contribution in a
// single transaction. Entry first, then balance, matching creation order.
func (s *ledgerService) DeleteEntry(userID string, kind models.EntryKind, name string) error {
	entry, err := s.GetEntry(userID, kind, name)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Entry{}, "id = ?", entry.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance - ?", entry.Delta())).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// EnsureBalance returns the user's balance, computing and persisting it
// first if it has never been set. The income and expense sums are read
// concurrently. Once set, the stored value is authoritative and is only
// changed by entry and saving mutations.
func (s *ledgerService) EnsureBalance(ctx context.Context, userID string) (int64, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.Balance != nil {
		return *user.Balance, nil
	}

	var incomes, expenses int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Entry{}).
			Where("user_id = ? AND kind = ?", userID, models.EntryKindIncome).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&incomes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Entry{}).
			Where("user_id = ? AND kind = ?", userID, models.EntryKindExpense).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&expenses).Error
	})
	if err := g.Wait(); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := incomes - expenses
	// Guard against a concurrent initializer: only fill in a still-NULL
	// balance, then re-read whichever value won.
	if err := s.db.Model(&models.User{}).
		Where("id = ? AND balance IS NULL", userID).
		Update("balance", balance).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if user.Balance == nil {
		return balance, nil
	}
	return *user.Balance, nil
}

// importColumns is the exact CSV layout for expense import.
const importColumns = 7

// parseImportRow validates one CSV row and converts it to an expense input.
// Field order: name, amount, year, month, day, category, description.
func parseImportRow(row []string) (EntryInput, string) {
	if len(row) != importColumns {
		return EntryInput{}, fmt.Sprintf("expected %d columns, got %d", importColumns, len(row))
	}
	for i, f := range row {
		if strings.TrimSpace(f) == "" {
			return EntryInput{}, fmt.Sprintf("column %d is empty", i+1)
		}
	}
	for _, i := range []int{1, 2, 3, 4} {
		if !validation.IsNumeric(row[i]) {
			return EntryInput{}, fmt.Sprintf("column %d must be numeric", i+1)
		}
	}

	amount, _ := strconv.ParseInt(row[1], 10, 64)
	year, _ := strconv.Atoi(row[2])
	month, _ := strconv.Atoi(row[3])
	day, _ := strconv.Atoi(row[4])

	in := EntryInput{
		Name:        row[0],
		Amount:      amount,
		Year:        year,
		Month:       month,
		Day:         day,
		Category:    row[5],
		Description: row[6],
	}
	if r := validation.DateParts(year, month, day); !r.Valid() {
		return EntryInput{}, r.First("year", "month", "day")
	}
	if !models.ValidCategory(in.Category) {
		return EntryInput{}, fmt.Sprintf("unknown category %q", in.Category)
	}
	return in, ""
}

// ImportEntries bulk-imports expenses from CSV. Rows are written one by
// one; the first malformed row aborts the import before it is processed,
// and rows written before it stay written. The balance is updated once at
// the end with the accumulated delta of the rows that actually landed, so
// it stays consistent with the stored entries even on abort.
func (s *ledgerService) ImportEntries(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	if _, err := s.EnsureBalance(ctx, userID); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width is checked per row

	result := &ImportResult{}
	var delta int64
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Aborted = true
			result.FailedLine = line
			result.Reason = err.Error()
			break
		}

		in, reason := parseImportRow(row)
		if reason != "" {
			result.Aborted = true
			result.FailedLine = line
			result.Reason = reason
			break
		}

		entry := &models.Entry{
			UserID:      userID,
			Kind:        models.EntryKindExpense,
			Name:        in.Name,
			Amount:      in.Amount,
			Year:        in.Year,
			Month:       in.Month,
			Day:         in.Day,
			Category:    in.Category,
			Description: in.Description,
		}
		if err := s.db.Create(entry).Error; err != nil {
			result.Aborted = true
			result.FailedLine = line
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Reason = fmt.Sprintf("duplicate entry name %q", in.Name)
			} else {
				result.Reason = "storage error"
			}
			break
		}
		result.Imported++
		delta -= in.Amount
	}

	if result.Imported > 0 {
		if err := s.db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return result, nil
}
