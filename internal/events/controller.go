package events

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

// ListOnGoing handles GET /event
func (c *Controller) ListOnGoing(ctx *gin.Context) {
	events, err := c.service.ListOnGoing(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Events retrieved successfully", events)
}

// GetEvent handles GET /event/:eventID
func (c *Controller) GetEvent(ctx *gin.Context) {
	event, err := c.service.GetEvent(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Event retrieved successfully", event)
}

// CreateDraft handles POST /eo_create_event/:organizerID
func (c *Controller) CreateDraft(ctx *gin.Context) {
	event, err := c.service.CreateDraft(ctx.Request.Context(), ctx.Param("organizerID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusCreated, "Draft event created", gin.H{"eventID": event.EventID})
}

// DeleteEvent handles DELETE /eo_delete_event/:organizerID/:eventID
func (c *Controller) DeleteEvent(ctx *gin.Context) {
	err := c.service.DeleteEvent(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Event deleted", nil)
}

// Publish handles POST /eo_publish_event/:organizerID/:eventID
func (c *Controller) Publish(ctx *gin.Context) {
	err := c.service.Publish(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Event published", nil)
}

// UpdateSettings handles POST /eo_event_setting/:organizerID/:eventID
func (c *Controller) UpdateSettings(ctx *gin.Context) {
	var req EventSettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := c.service.UpdateSettings(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Event settings updated", nil)
}

// CreateClass handles POST /eo_create_ticket_type/:organizerID/:eventID
func (c *Controller) CreateClass(ctx *gin.Context) {
	var req CreateTicketClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := c.service.CreateClass(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusCreated, "Ticket class created", nil)
}

// DeleteClass handles POST /eo_delete_ticket_type/:organizerID/:eventID/:className
func (c *Controller) DeleteClass(ctx *gin.Context) {
	err := c.service.DeleteClass(ctx.Request.Context(),
		ctx.Param("organizerID"), ctx.Param("eventID"), ctx.Param("className"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Ticket class deleted", nil)
}

// ListOrganizerEvents handles GET /eo_event/:organizerID
func (c *Controller) ListOrganizerEvents(ctx *gin.Context) {
	events, err := c.service.ListOrganizerEvents(ctx.Request.Context(), ctx.Param("organizerID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Organizer events retrieved successfully", events)
}

// RevenueSummary handles GET /eo_get_all_ticket_sold/:eventID
func (c *Controller) RevenueSummary(ctx *gin.Context) {
	summary, err := c.service.RevenueSummary(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Revenue summary retrieved successfully", summary)
}

// ListStaff handles GET /eo_get_all_staff/:organizerID/:eventID
func (c *Controller) ListStaff(ctx *gin.Context) {
	staff, err := c.service.ListStaff(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Staff retrieved successfully", staff)
}

// AddStaff handles POST /eo_add_staff/:organizerID/:eventID
func (c *Controller) AddStaff(ctx *gin.Context) {
	var req StaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := c.service.AddStaff(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"), req.Email)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Staff added", nil)
}

// RemoveStaff handles POST /eo_remove_staff/:organizerID/:eventID
func (c *Controller) RemoveStaff(ctx *gin.Context) {
	var req StaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := c.service.RemoveStaff(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"), req.Email)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Staff removed", nil)
}

// SetBankAccount handles POST /eo_post_bank_account/:organizerID/:eventID
func (c *Controller) SetBankAccount(ctx *gin.Context) {
	var req BankAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := c.service.SetBankAccount(ctx.Request.Context(), ctx.Param("organizerID"), ctx.Param("eventID"), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondSuccess(ctx, http.StatusOK, "Bank account saved", nil)
}
