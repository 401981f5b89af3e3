package tickets

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beambyp/EventBud/internal/shared/utils/response"
)

// Controller interface defines the contract for ticket HTTP handlers
type Controller interface {
	Reserve(c *gin.Context)
	CancelReserve(c *gin.Context)
	Purchase(c *gin.Context)
	Scan(c *gin.Context)
	Transfer(c *gin.Context)
	GetTicket(c *gin.Context)
	ListUserTickets(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ct *controller) Reserve(c *gin.Context) {
	var req SeatSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ct.service.Reserve(c.Request.Context(), req); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Seats reserved successfully", nil)
}

func (ct *controller) CancelReserve(c *gin.Context) {
	var req SeatSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ct.service.CancelReserve(c.Request.Context(), req); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Reservation cancelled successfully", nil)
}

func (ct *controller) Purchase(c *gin.Context) {
	var req SeatSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	batch, err := ct.service.Issue(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusCreated, "Tickets purchased successfully", batch)
}

func (ct *controller) Scan(c *gin.Context) {
	eventID := c.Param("eventID")
	ticketID := c.Param("ticketID")

	ticket, err := ct.service.Scan(c.Request.Context(), eventID, ticketID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Ticket scanned successfully", ticket)
}

func (ct *controller) Transfer(c *gin.Context) {
	srcUserID := c.Param("srcUserID")
	ticketID := c.Param("ticketID")
	dstEmail := c.Param("dstUserEmail")

	receipt, err := ct.service.Transfer(c.Request.Context(), srcUserID, ticketID, dstEmail)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Ticket transferred successfully", receipt)
}

func (ct *controller) GetTicket(c *gin.Context) {
	ticketID := c.Param("ticketID")

	ticket, err := ct.service.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Ticket retrieved successfully", ticket)
}

func (ct *controller) ListUserTickets(c *gin.Context) {
	userID := c.Param("userID")

	rows, err := ct.service.ListUserTickets(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c, http.StatusOK, "Tickets retrieved successfully", rows)
}
