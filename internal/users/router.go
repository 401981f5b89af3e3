package users

import (
	"github.com/gin-gonic/gin"

	"github.com/beambyp/EventBud/internal/shared/middleware"
)

// SetupUserRoutes configures all account-related routes
func SetupUserRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/signup", controller.SignUp)
	rg.POST("/signin", controller.SignIn)
	rg.POST("/eo_signup", controller.OrganizerSignUp)
	rg.POST("/eo_signin", controller.OrganizerSignIn)

	rg.GET("/staff_event/:userID", controller.StaffEvents)

	// Profile routes require a valid access token
	profile := rg.Group("/")
	profile.Use(middleware.JWTAuth())
	{
		profile.GET("/profile/:userID", controller.GetProfile)
		profile.POST("/update_profile", controller.UpdateProfile)
		profile.POST("/reset_password", controller.ResetPassword)
	}
}
