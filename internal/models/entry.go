package models

// EntryKind distinguishes expenses from incomes.
type EntryKind string

const (
	EntryKindExpense EntryKind = "expense"
	EntryKindIncome  EntryKind = "income"
)

// ExpenseCategories is the fixed category list, in report display order.
// Incomes carry no category.
var ExpenseCategories = []string{
	"Education",
	"Housing",
	"Food",
	"Transport",
	"Health",
	"Personal",
	"Entertainment",
	"Miscellaneous",
}

// ValidCategory reports whether c is one of the fixed expense categories.
func ValidCategory(c string) bool {
	for _, cat := range ExpenseCategories {
		if cat == c {
			return true
		}
	}
	return false
}

// Entry represents one discrete cash-flow movement, either an expense or
// an income. Entries are immutable once written: there is no update path,
// only create and delete.
//
// The composite unique index is the conditional write that enforces
// per-user, per-kind name uniqueness; a violation comes back as
// gorm.ErrDuplicatedKey. An expense and an income may share a name.
type Entry struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_entries_user_kind_name" json:"user_id"`
	Kind        EntryKind `gorm:"not null;uniqueIndex:idx_entries_user_kind_name" json:"kind"`
	Name        string    `gorm:"not null;uniqueIndex:idx_entries_user_kind_name" json:"name"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Year        int       `gorm:"not null" json:"year"`
	Month       int       `gorm:"not null" json:"month"`
	Day         int       `gorm:"not null" json:"day"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description"`
}

// Delta returns the signed balance contribution of the entry:
// +amount for incomes, -amount for expenses.
func (e *Entry) Delta() int64 {
	if e.Kind == EntryKindIncome {
		return e.Amount
	}
	return -e.Amount
}
