package tickets

import (
	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures all ticket related routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller Controller) {
	rg.POST("/reserve_ticket", controller.Reserve)
	rg.POST("/cancel_reserve_ticket", controller.CancelReserve)
	rg.POST("/post_ticket", controller.Purchase)
	rg.POST("/transfer_ticket/:srcUserID/:ticketID/:dstUserEmail", controller.Transfer)
	rg.POST("/scanner/:eventID/:ticketID", controller.Scan)
	rg.GET("/ticket/:ticketID", controller.GetTicket)
	rg.GET("/user_ticket/:userID", controller.ListUserTickets)
}
