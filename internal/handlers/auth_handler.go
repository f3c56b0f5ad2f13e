package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jumbenylon/invest/internal/errors"
	"github.com/jumbenylon/invest/internal/middleware"
	"github.com/jumbenylon/invest/internal/plan"
	"github.com/jumbenylon/invest/internal/services"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the user data in the response.
type UserResponse struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Plan  plan.Plan `json:"plan"`
}

// AuthResponse represents the authentication response with token.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register handles user registration.
// @Summary     Register a new user
// @Description Register a new user with email and password and create the default portfolio
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"plan":  user.Plan,
		},
	})
}

// Login handles user login.
// @Summary     Log in
// @Description Authenticate with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User credentials"
// @Success     200 {object} AuthResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"plan":  user.Plan,
		},
	})
}

// GetProfile returns the authenticated user's profile.
// @Summary     Get profile
// @Description Get the authenticated user's profile and plan features
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"plan":     user.Plan,
		"features": plan.Features(user.Plan),
	})
}

// GenerateAPIKey issues a fresh API key for the authenticated user.
// @Summary     Generate an API key
// @Description Generate a new API key for programmatic access (Enterprise only). The key is shown once.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} map[string]string "Plaintext API key"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan does not include API access"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/api-key [post]
func (h *AuthHandler) GenerateAPIKey(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key, err := h.userService.GenerateAPIKey(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"api_key": key})
}

// GetPlans lists the available plan tiers.
// @Summary     List plans
// @Description List plan tiers with their limits and monthly prices
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]interface{} "Plan catalogue"
// @Router      /plans [get]
func (h *AuthHandler) GetPlans(c *gin.Context) {
	plans := make([]gin.H, 0, len(plan.All))
	for _, p := range plan.All {
		plans = append(plans, gin.H{
			"id":       p,
			"label":    plan.Labels[p],
			"price":    plan.Prices[p],
			"features": plan.Features(p),
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
