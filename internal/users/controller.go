package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beambyp/EventBud/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SignUp handles POST /signup
func (c *Controller) SignUp(ctx *gin.Context) {
	var req SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	auth, err := c.service.SignUp(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusCreated, "Account created", auth)
}

// SignIn handles POST /signin
func (c *Controller) SignIn(ctx *gin.Context) {
	var req SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	auth, err := c.service.SignIn(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Signed in", auth)
}

// OrganizerSignUp handles POST /eo_signup
func (c *Controller) OrganizerSignUp(ctx *gin.Context) {
	var req OrganizerSignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	auth, err := c.service.OrganizerSignUp(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusCreated, "Organizer account created", auth)
}

// OrganizerSignIn handles POST /eo_signin
func (c *Controller) OrganizerSignIn(ctx *gin.Context) {
	var req SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	auth, err := c.service.OrganizerSignIn(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Signed in", auth)
}

// GetProfile handles GET /profile/:userID
func (c *Controller) GetProfile(ctx *gin.Context) {
	user, err := c.service.GetProfile(ctx.Request.Context(), ctx.Param("userID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Profile retrieved successfully", user)
}

// UpdateProfile handles POST /update_profile
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.service.UpdateProfile(ctx.Request.Context(), req); err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Profile updated", nil)
}

// ResetPassword handles POST /reset_password
func (c *Controller) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.service.ResetPassword(ctx.Request.Context(), req); err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Password updated", nil)
}

// StaffEvents handles GET /staff_event/:userID
func (c *Controller) StaffEvents(ctx *gin.Context) {
	events, err := c.service.StaffEvents(ctx.Request.Context(), ctx.Param("userID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Staff events retrieved successfully", events)
}
