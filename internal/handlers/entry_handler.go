package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "thrift/internal/errors"
	"thrift/internal/models"
	"thrift/internal/pagination"
	"thrift/internal/services"
)

// EntryHandler handles expense and income ledger requests. One handler
// serves both kinds; the kind is fixed per route group.
type EntryHandler struct {
	ledgerService services.LedgerServicer
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(ledgerService services.LedgerServicer) *EntryHandler {
	return &EntryHandler{ledgerService: ledgerService}
}

// CreateExpenseRequest represents the expense creation payload
type CreateExpenseRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Year        int    `json:"year" binding:"required"`
	Month       int    `json:"month" binding:"required,min=1,max=12"`
	Day         int    `json:"day" binding:"required,min=1,max=31"`
	Category    string `json:"category" binding:"required,expense_category"`
	Description string `json:"description" binding:"required"`
}

// CreateIncomeRequest represents the income creation payload
type CreateIncomeRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Year        int    `json:"year" binding:"required"`
	Month       int    `json:"month" binding:"required,min=1,max=12"`
	Day         int    `json:"day" binding:"required,min=1,max=31"`
	Description string `json:"description" binding:"required"`
}

// CreateExpense creates a new expense entry
// @Summary     Create an expense
// @Description Record an expense and deduct its amount from the balance
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense data"
// @Success     201 {object} models.Entry "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /expenses [post]
func (h *EntryHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), userID, models.EntryKindExpense, services.EntryInput{
		Name:        req.Name,
		Amount:      req.Amount,
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// CreateIncome creates a new income entry
// @Summary     Create an income
// @Description Record an income and add its amount to the balance
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income data"
// @Success     201 {object} models.Entry "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /incomes [post]
func (h *EntryHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), userID, models.EntryKindIncome, services.EntryInput{
		Name:        req.Name,
		Amount:      req.Amount,
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) list(c *gin.Context, kind models.EntryKind) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	resp, err := h.ledgerService.GetEntries(userID, kind, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListExpenses lists the user's expenses
// @Summary     List expenses
// @Description List expenses, most recent date first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Entry] "Expenses"
// @Router      /expenses [get]
func (h *EntryHandler) ListExpenses(c *gin.Context) {
	h.list(c, models.EntryKindExpense)
}

// ListIncomes lists the user's incomes
// @Summary     List incomes
// @Description List incomes, most recent date first
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Entry] "Incomes"
// @Router      /incomes [get]
func (h *EntryHandler) ListIncomes(c *gin.Context) {
	h.list(c, models.EntryKindIncome)
}

func (h *EntryHandler) get(c *gin.Context, kind models.EntryKind) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.ledgerService.GetEntry(userID, kind, c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetExpense retrieves one expense by name
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Expense name"
// @Success     200 {object} models.Entry "Expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{name} [get]
func (h *EntryHandler) GetExpense(c *gin.Context) {
	h.get(c, models.EntryKindExpense)
}

// GetIncome retrieves one income by name
// @Summary     Get an income
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Income name"
// @Success     200 {object} models.Entry "Income"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /incomes/{name} [get]
func (h *EntryHandler) GetIncome(c *gin.Context) {
	h.get(c, models.EntryKindIncome)
}

func (h *EntryHandler) delete(c *gin.Context, kind models.EntryKind) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteEntry(userID, kind, c.Param("name")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteExpense deletes one expense by name
// @Summary     Delete an expense
// @Description Delete an expense and credit its amount back to the balance
// @Tags        expenses
// @Security    BearerAuth
// @Param       name path string true "Expense name"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{name} [delete]
func (h *EntryHandler) DeleteExpense(c *gin.Context) {
	h.delete(c, models.EntryKindExpense)
}

// DeleteIncome deletes one income by name
// @Summary     Delete an income
// @Description Delete an income and deduct its amount from the balance
// @Tags        incomes
// @Security    BearerAuth
// @Param       name path string true "Income name"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /incomes/{name} [delete]
func (h *EntryHandler) DeleteIncome(c *gin.Context) {
	h.delete(c, models.EntryKindIncome)
}

// ImportExpenses bulk-imports expenses from a CSV file
// @Summary     Import expenses from CSV
// @Description Import expense rows (name, amount, year, month, day, category, description). A malformed row aborts the import; rows before it stay imported.
// @Tags        expenses
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "CSV file"
// @Success     200 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ErrorResponse "Missing file"
// @Router      /expenses/import [post]
func (h *EntryHandler) ImportExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "A CSV file is required."))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	result, err := h.ledgerService.ImportEntries(c.Request.Context(), userID, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
