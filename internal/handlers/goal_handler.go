package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=150"`
	TargetAmount  decimal.Decimal `json:"target_amount" binding:"required"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *string         `json:"target_date"`
	Category      string          `json:"category" binding:"max=100"`
	Icon          string          `json:"icon" binding:"max=50"`
	Color         string          `json:"color" binding:"omitempty,hex_color"`
}

// UpdateGoalRequest represents the request payload for editing a goal.
type UpdateGoalRequest struct {
	Name          *string            `json:"name" binding:"omitempty,min=1,max=150"`
	TargetAmount  *decimal.Decimal   `json:"target_amount"`
	CurrentAmount *decimal.Decimal   `json:"current_amount"`
	TargetDate    *string            `json:"target_date"`
	Category      *string            `json:"category" binding:"omitempty,max=100"`
	Icon          *string            `json:"icon" binding:"omitempty,max=50"`
	Color         *string            `json:"color" binding:"omitempty,hex_color"`
	Status        *models.GoalStatus `json:"status" binding:"omitempty,goal_status"`
}

// DepositRequest represents the request payload for depositing into a goal.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateGoal handles creating a savings goal.
// @Summary     Create a goal
// @Description Create a savings goal, subject to the plan's active goal limit
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Goal limit reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	userPlan, err := getPlan(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(userID, userPlan, services.GoalInput{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    targetDate,
		Category:      req.Category,
		Icon:          req.Icon,
		Color:         req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals handles listing the user's goals.
// @Summary     Get goals
// @Description Get all savings goals, active first
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetGoal handles fetching a single goal.
// @Summary     Get a goal
// @Description Get a goal by ID
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.Goal "Goal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoal handles editing a goal.
// @Summary     Update a goal
// @Description Edit a goal; reaching the target auto-completes it unless an explicit status is supplied
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to update"
// @Success     200 {object} models.Goal "Goal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseOptionalDate(req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.UpdateGoal(userID, id, services.GoalUpdate{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    targetDate,
		Category:      req.Category,
		Icon:          req.Icon,
		Color:         req.Color,
		Status:        req.Status,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// Deposit handles adding to a goal's saved balance.
// @Summary     Deposit into a goal
// @Description Add to the saved balance; the goal completes when it reaches its target
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Goal ID"
// @Param       request body DepositRequest true "Deposit amount"
// @Success     200 {object} models.Goal "Goal after deposit"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/deposit [post]
func (h *GoalHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.Deposit(userID, id, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles removing a goal.
// @Summary     Delete a goal
// @Description Remove a savings goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     204 "Goal deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
