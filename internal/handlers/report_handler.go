package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "thrift/internal/errors"
	"thrift/internal/services"
)

// ReportHandler handles report aggregation requests
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CategorySpanQuery holds the category-span report parameters
type CategorySpanQuery struct {
	Category   string `form:"category" binding:"required"`
	StartYear  int    `form:"start_year" binding:"required"`
	StartMonth int    `form:"start_month" binding:"required"`
	EndYear    int    `form:"end_year" binding:"required"`
	EndMonth   int    `form:"end_month" binding:"required"`
}

// DateQuery holds a full date in query parameters
type DateQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required"`
	Day   int `form:"day" binding:"required"`
}

// RangeQuery holds the custom range report parameters
type RangeQuery struct {
	StartYear  int `form:"start_year" binding:"required"`
	StartMonth int `form:"start_month" binding:"required"`
	StartDay   int `form:"start_day" binding:"required"`
	EndYear    int `form:"end_year" binding:"required"`
	EndMonth   int `form:"end_month" binding:"required"`
	EndDay     int `form:"end_day" binding:"required"`
}

// PlanRequest holds the split-plan payload
type PlanRequest struct {
	Total int64               `json:"total" binding:"required,gt=0"`
	Parts []services.PlanPart `json:"parts" binding:"required,min=1,dive"`
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return false
	}
	return true
}

// CategorySpan returns one category's expenses across a month span
// @Summary     Category span report
// @Description Expenses of one category between two months, as an ascending time series
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       category query string true "Category"
// @Param       start_year query int true "Start year"
// @Param       start_month query int true "Start month"
// @Param       end_year query int true "End year"
// @Param       end_month query int true "End month"
// @Success     200 {array} services.SeriesPoint "Time series"
// @Failure     400 {object} ErrorResponse "Invalid input or range"
// @Router      /reports/category-span [get]
func (h *ReportHandler) CategorySpan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q CategorySpanQuery
	if !bindQuery(c, &q) {
		return
	}

	points, err := h.reportService.CategorySpan(userID, q.Category, q.StartYear, q.StartMonth, q.EndYear, q.EndMonth)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// Biweekly returns category buckets for a fourteen-day window
// @Summary     Biweekly report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Start year"
// @Param       month query int true "Start month"
// @Param       day query int true "Start day"
// @Success     200 {object} services.BucketReport "Category buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/biweekly [get]
func (h *ReportHandler) Biweekly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q DateQuery
	if !bindQuery(c, &q) {
		return
	}

	report, err := h.reportService.Biweekly(userID, q.Year, q.Month, q.Day)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Monthly returns category buckets for one month
// @Summary     Monthly report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Year"
// @Param       month query int true "Month"
// @Success     200 {object} services.BucketReport "Category buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q struct {
		Year  int `form:"year" binding:"required"`
		Month int `form:"month" binding:"required"`
	}
	if !bindQuery(c, &q) {
		return
	}

	report, err := h.reportService.Monthly(userID, q.Year, q.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Yearly returns category buckets for one year
// @Summary     Yearly report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       year query int true "Year"
// @Success     200 {object} services.BucketReport "Category buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/yearly [get]
func (h *ReportHandler) Yearly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q struct {
		Year int `form:"year" binding:"required"`
	}
	if !bindQuery(c, &q) {
		return
	}

	report, err := h.reportService.Yearly(userID, q.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CustomRange returns category buckets between two dates
// @Summary     Custom range report
// @Description Category buckets between two dates, both ends inclusive
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       start_year query int true "Start year"
// @Param       start_month query int true "Start month"
// @Param       start_day query int true "Start day"
// @Param       end_year query int true "End year"
// @Param       end_month query int true "End month"
// @Param       end_day query int true "End day"
// @Success     200 {object} services.BucketReport "Category buckets"
// @Failure     400 {object} ErrorResponse "Invalid input or range"
// @Router      /reports/range [get]
func (h *ReportHandler) CustomRange(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q RangeQuery
	if !bindQuery(c, &q) {
		return
	}

	report, err := h.reportService.CustomRange(userID, q.StartYear, q.StartMonth, q.StartDay, q.EndYear, q.EndMonth, q.EndDay)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// MonthlyAverages returns per-category monthly averages over the whole ledger
// @Summary     Monthly averages report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.AverageReport "Averages"
// @Router      /reports/monthly-averages [get]
func (h *ReportHandler) MonthlyAverages(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.MonthlyAverages(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CategoryTrend returns per-month totals for one category
// @Summary     Category trend report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       category query string true "Category"
// @Success     200 {array} services.SeriesPoint "Per-month totals"
// @Failure     400 {object} ErrorResponse "Unknown category"
// @Router      /reports/trend [get]
func (h *ReportHandler) CategoryTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q struct {
		Category string `form:"category" binding:"required"`
	}
	if !bindQuery(c, &q) {
		return
	}

	points, err := h.reportService.CategoryTrend(userID, q.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// SplitPlan allocates a total across percentage shares
// @Summary     Split plan
// @Description Allocate a total across named percentage shares. Anything under 100% comes back as an Extra bucket.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PlanRequest true "Plan"
// @Success     200 {array} services.PlanAllocation "Allocations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/plan [post]
func (h *ReportHandler) SplitPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocations, err := h.reportService.SplitPlan(req.Total, req.Parts)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allocations": allocations})
}
