package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// RegistrationController handles the public registration form and staff review
type RegistrationController struct {
	registrationService *services.RegistrationService
	logger              zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService *services.RegistrationService, logger zerolog.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Submit handles a new registration
// @Summary Submit a registration
// @Description Stores a pending registration for a future player
// @Tags registrations
// @Accept json
// @Produce json
// @Param request body dto.SubmitRegistrationRequest true "Registration form"
// @Success 201 {object} dto.APIResponse{data=models.Registration} "Registration stored"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /registrations [post]
func (c *RegistrationController) Submit(ctx *gin.Context) {
	var req dto.SubmitRegistrationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	reg, err := c.registrationService.Submit(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(reg, "Registration received"))
}

// Get returns a registration visible to the caller
// @Summary Get a registration
// @Description Staff see every registration, parents the ones they submitted and players their own
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Registration"
// @Failure 403 {object} dto.ErrorResponse "Not your registration"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [get]
func (c *RegistrationController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	reg, err := c.registrationService.GetForUser(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reg, ""))
}

// Accept promotes a registration to a player
// @Summary Accept a registration
// @Description Creates or reuses the player for this registration and marks it accepted. Safe to repeat.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.APIResponse{data=dto.AcceptRegistrationResponse} "Registration accepted"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Registration was rejected"
// @Router /admin/registrations/{id}/accept [post]
func (c *RegistrationController) Accept(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	resp, err := c.registrationService.Accept(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Registration accepted"))
}

// Reject marks a registration rejected
// @Summary Reject a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.APIResponse{data=models.Registration} "Registration rejected"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Registration already linked to a player"
// @Router /admin/registrations/{id}/reject [post]
func (c *RegistrationController) Reject(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	reg, err := c.registrationService.Reject(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(reg, "Registration rejected"))
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("id must be a positive integer"))
		return 0, false
	}
	return id, true
}
