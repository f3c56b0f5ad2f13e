package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
)

// goalService handles savings goal tracking.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal. The goal quota counts active goals
// only, so completing or pausing a goal frees up a slot.
func (s *goalService) CreateGoal(userID string, userPlan plan.Plan, input GoalInput) (*models.Goal, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}
	if input.TargetAmount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
	}
	if input.CurrentAmount.Sign() < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current amount cannot be negative")
	}

	var count int64
	if err := s.db.Model(&models.Goal{}).
		Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !plan.CanAddGoal(userPlan, int(count)) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded, "Goal limit reached. Upgrade to Pro for unlimited goals.")
	}

	category := input.Category
	if strings.TrimSpace(category) == "" {
		category = "General"
	}
	color := input.Color
	if strings.TrimSpace(color) == "" {
		color = "#ff1a66"
	}

	status := models.GoalStatusActive
	if input.CurrentAmount.GreaterThanOrEqual(input.TargetAmount) {
		status = models.GoalStatusCompleted
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          input.Name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		TargetDate:    input.TargetDate,
		Category:      category,
		Icon:          input.Icon,
		Color:         color,
		Status:        status,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns the user's goals, active first, nearest deadline
// first within a status.
func (s *goalService) GetUserGoals(userID string) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).
		Order("status, target_date").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID returns a goal if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal edits a goal. Supplying CurrentAmount sets the saved balance
// directly; when the new balance reaches the target the goal auto-completes,
// unless the caller supplies an explicit status, which always wins.
// Completion never reverts on its own: lowering the balance of a completed
// goal leaves it completed.
func (s *goalService) UpdateGoal(userID, goalID string, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	targetAmount := goal.TargetAmount
	currentAmount := goal.CurrentAmount

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name cannot be empty")
		}
		updates["name"] = *update.Name
	}
	if update.TargetAmount != nil {
		if update.TargetAmount.Sign() <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Target amount must be positive")
		}
		targetAmount = *update.TargetAmount
		updates["target_amount"] = targetAmount
	}
	if update.CurrentAmount != nil {
		if update.CurrentAmount.Sign() < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Current amount cannot be negative")
		}
		currentAmount = *update.CurrentAmount
		updates["current_amount"] = currentAmount
	}
	if update.TargetDate != nil {
		updates["target_date"] = *update.TargetDate
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.Icon != nil {
		updates["icon"] = *update.Icon
	}
	if update.Color != nil {
		updates["color"] = *update.Color
	}

	if update.Status != nil {
		switch *update.Status {
		case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusPaused:
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown goal status")
		}
		updates["status"] = *update.Status
	} else if goal.Status == models.GoalStatusActive && currentAmount.GreaterThanOrEqual(targetAmount) {
		updates["status"] = models.GoalStatusCompleted
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// Deposit adds to a goal's saved balance. When the balance reaches the
// target the goal completes exactly once; deposits into a completed goal
// keep accumulating without changing the status.
func (s *goalService) Deposit(userID, goalID string, amount decimal.Decimal) (*models.Goal, error) {
	if amount.Sign() <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Deposit amount must be positive")
	}

	var goal models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		if goal.Status == models.GoalStatusActive && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			goal.Status = models.GoalStatusCompleted
		}

		updates := map[string]interface{}{
			"current_amount": goal.CurrentAmount,
			"status":         goal.Status,
		}
		if err := tx.Model(&goal).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}
