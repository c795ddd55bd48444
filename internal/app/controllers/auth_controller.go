// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// AuthController handles account claims, login and logout
type AuthController struct {
	claimService *services.ClaimService
	authService  *services.AuthService
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(claimService *services.ClaimService, authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		claimService: claimService,
		authService:  authService,
		logger:       logger,
	}
}

// ClaimPlayer handles a player's account claim
// @Summary Claim a player account
// @Description Matches the claimed name against players and registrations, links the records and creates the account. The generated password is returned once.
// @Tags claims
// @Accept json
// @Produce json
// @Param request body dto.ClaimPlayerRequest true "Player identity"
// @Success 201 {object} dto.APIResponse{data=dto.ClaimPlayerResponse} "Account created"
// @Success 200 {object} dto.APIResponse{data=dto.ClaimPlayerResponse} "Existing account linked"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Not registered as a player"
// @Failure 409 {object} dto.ErrorResponse "Account already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/claim/player [post]
func (c *AuthController) ClaimPlayer(ctx *gin.Context) {
	var req dto.ClaimPlayerRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.claimService.ClaimPlayerAccount(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusCreated
	if resp.Status == dto.ClaimLinked {
		status = http.StatusOK
	}
	ctx.JSON(status, dto.NewSuccessResponse(resp, "Player account ready"))
}

// ClaimCoach handles a coach's account claim
// @Summary Claim a coach account
// @Description Finds the coach record by email or name, creating it when none exists, and creates the account
// @Tags claims
// @Accept json
// @Produce json
// @Param request body dto.ClaimCoachRequest true "Coach identity"
// @Success 201 {object} dto.APIResponse{data=dto.ClaimCoachResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Account already exists or coach record belongs to another email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/claim/coach [post]
func (c *AuthController) ClaimCoach(ctx *gin.Context) {
	var req dto.ClaimCoachRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.claimService.ClaimCoachAccount(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Coach account created"))
}

// ClaimParent handles a parent's account claim
// @Summary Claim a parent account
// @Description Collects every registration submitted with the parent email and creates the account
// @Tags claims
// @Accept json
// @Produce json
// @Param request body dto.ClaimParentRequest true "Parent identity"
// @Success 201 {object} dto.APIResponse{data=dto.ClaimParentResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "No registration found for this parent"
// @Failure 409 {object} dto.ErrorResponse "Account already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/claim/parent [post]
func (c *AuthController) ClaimParent(ctx *gin.Context) {
	var req dto.ClaimParentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.claimService.ClaimParentAccount(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Parent account created"))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user for the expected role and re-resolves the linked records, repairing stale links
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "No record is linked to this account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondWithProfile(ctx, resp)
}

// Logout revokes the current access token
// @Summary Logout
// @Description Revokes the bearer token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.GetAccessToken(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Logged out"))
}

// Me returns the records linked to the authenticated user
// @Summary Current profile
// @Description Re-resolves and repairs the records linked to the authenticated account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Invalid token"
// @Failure 404 {object} dto.ErrorResponse "No record is linked to this account"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	resp, err := c.authService.Profile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.respondWithProfile(ctx, resp)
}

func (c *AuthController) respondWithProfile(ctx *gin.Context, resp *dto.LoginResponse) {
	if resp.Status == dto.LoginNoProfile {
		detail := dto.NewErrorDetail(apperrors.CodeNotFound, "no academy record is linked to this account, please contact staff").
			WithStatus(string(dto.LoginNoProfile))
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(detail))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
