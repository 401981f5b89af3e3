package events

import (
	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public browsing
	rg.GET("/event", controller.ListOnGoing)
	rg.GET("/event/:eventID", controller.GetEvent)

	// Organizer console
	rg.POST("/eo_create_event/:organizerID", controller.CreateDraft)
	rg.DELETE("/eo_delete_event/:organizerID/:eventID", controller.DeleteEvent)
	rg.POST("/eo_publish_event/:organizerID/:eventID", controller.Publish)
	rg.POST("/eo_event_setting/:organizerID/:eventID", controller.UpdateSettings)
	rg.POST("/eo_create_ticket_type/:organizerID/:eventID", controller.CreateClass)
	rg.POST("/eo_delete_ticket_type/:organizerID/:eventID/:className", controller.DeleteClass)
	rg.GET("/eo_event/:organizerID", controller.ListOrganizerEvents)
	rg.GET("/eo_get_all_ticket_sold/:eventID", controller.RevenueSummary)
	rg.GET("/eo_get_all_staff/:organizerID/:eventID", controller.ListStaff)
	rg.POST("/eo_add_staff/:organizerID/:eventID", controller.AddStaff)
	rg.POST("/eo_remove_staff/:organizerID/:eventID", controller.RemoveStaff)
	rg.POST("/eo_post_bank_account/:organizerID/:eventID", controller.SetBankAccount)
}
