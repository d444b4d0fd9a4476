// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"thrift/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("entry_kind", validateEntryKind)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
	}
}

func validateEntryKind(fl validator.FieldLevel) bool {
	switch models.EntryKind(fl.Field().String()) {
	case models.EntryKindExpense, models.EntryKindIncome:
		return true
	}
	return false
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ValidCategory(fl.Field().String())
}
