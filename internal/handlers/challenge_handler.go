package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "thrift/internal/errors"
	"thrift/internal/models"
	"thrift/internal/services"
)

// ChallengeHandler handles savings-challenge requests
type ChallengeHandler struct {
	challengeService services.ChallengeServicer
}

// NewChallengeHandler creates a new ChallengeHandler
func NewChallengeHandler(challengeService services.ChallengeServicer) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// CreateChallengeRequest represents the custom challenge creation payload
type CreateChallengeRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	TotalAmount int64  `json:"total_amount" binding:"required,gt=0"`
	Year        int    `json:"year" binding:"required"`
	Month       int    `json:"month" binding:"required,min=1,max=12"`
	Day         int    `json:"day" binding:"required,min=1,max=31"`
}

// PremadeChallengeRequest represents the template challenge creation payload
type PremadeChallengeRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Label string `json:"label" binding:"required"`
}

// AddSavingRequest represents the saving contribution payload
type AddSavingRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// UpdateChallengeRequest represents the challenge edit payload
type UpdateChallengeRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Amount      int64  `json:"amount" binding:"gte=0"`
	TotalAmount int64  `json:"total_amount" binding:"required,gt=0"`
	Year        int    `json:"year" binding:"required"`
	Month       int    `json:"month" binding:"required,min=1,max=12"`
	Day         int    `json:"day" binding:"required,min=1,max=31"`
}

// ChallengeResponse is a challenge with its computed progress and countdown.
type ChallengeResponse struct {
	models.Challenge
	Progress      float64 `json:"progress"`
	DaysRemaining int     `json:"days_remaining"`
	Passed        bool    `json:"passed"`
}

func (h *ChallengeHandler) response(c *models.Challenge) ChallengeResponse {
	days, passed := h.challengeService.DaysUntilDeadline(c, time.Now())
	return ChallengeResponse{
		Challenge:     *c,
		Progress:      c.Progress(),
		DaysRemaining: days,
		Passed:        passed,
	}
}

// ListTemplates lists the premade challenge catalog
// @Summary     List challenge templates
// @Tags        challenges
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.ChallengeTemplate "Templates"
// @Router      /challenges/templates [get]
func (h *ChallengeHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": h.challengeService.Templates()})
}

// CreateChallenge creates a custom challenge
// @Summary     Create a challenge
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateChallengeRequest true "Challenge data"
// @Success     201 {object} ChallengeResponse "Challenge created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /challenges [post]
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	challenge, err := h.challengeService.CreateChallenge(userID, req.Name, req.TotalAmount, req.Year, req.Month, req.Day)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.response(challenge))
}

// CreatePremadeChallenge creates a challenge from a template
// @Summary     Create a premade challenge
// @Description Create a challenge from the fixed catalog. The deadline is computed from today.
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PremadeChallengeRequest true "Template choice"
// @Success     201 {object} ChallengeResponse "Challenge created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown template"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /challenges/premade [post]
func (h *ChallengeHandler) CreatePremadeChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PremadeChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	challenge, err := h.challengeService.CreateFromTemplate(userID, req.Name, req.Label, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.response(challenge))
}

// ListChallenges lists the user's challenges
// @Summary     List challenges
// @Tags        challenges
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} ChallengeResponse "Challenges"
// @Router      /challenges [get]
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenges, err := h.challengeService.GetChallenges(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	out := make([]ChallengeResponse, 0, len(challenges))
	for i := range challenges {
		out = append(out, h.response(&challenges[i]))
	}
	c.JSON(http.StatusOK, gin.H{"challenges": out})
}

// GetChallenge retrieves one challenge by name
// @Summary     Get a challenge
// @Tags        challenges
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Challenge name"
// @Success     200 {object} ChallengeResponse "Challenge"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /challenges/{name} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenge, err := h.challengeService.GetChallenge(userID, c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.response(challenge))
}

// AddSaving contributes an amount from the balance to a challenge
// @Summary     Add a saving
// @Description Move an amount from the balance into the challenge. Rejected if the balance is insufficient.
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Challenge name"
// @Param       request body AddSavingRequest true "Amount"
// @Success     200 {object} ChallengeResponse "Updated challenge"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient balance"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /challenges/{name}/savings [post]
func (h *ChallengeHandler) AddSaving(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddSavingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	challenge, err := h.challengeService.AddSaving(userID, c.Param("name"), req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.response(challenge))
}

// UpdateChallenge edits a challenge
// @Summary     Update a challenge
// @Description Replace a challenge's name, saved amount, goal, and deadline.
// @Tags        challenges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Challenge name"
// @Param       request body UpdateChallengeRequest true "New values"
// @Success     200 {object} ChallengeResponse "Updated challenge"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /challenges/{name} [put]
func (h *ChallengeHandler) UpdateChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	challenge, err := h.challengeService.EditChallenge(userID, c.Param("name"), services.ChallengeUpdate{
		Name:        req.Name,
		Amount:      req.Amount,
		TotalAmount: req.TotalAmount,
		Year:        req.Year,
		Month:       req.Month,
		Day:         req.Day,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.response(challenge))
}

// DeleteChallenge deletes a challenge
// @Summary     Delete a challenge
// @Description Delete a challenge. The saved amount is not returned to the balance.
// @Tags        challenges
// @Security    BearerAuth
// @Param       name path string true "Challenge name"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /challenges/{name} [delete]
func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.challengeService.DeleteChallenge(userID, c.Param("name")); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
