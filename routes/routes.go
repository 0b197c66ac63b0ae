package routes

import (
	"confhub/auth"
	"confhub/bookings"
	"confhub/facilities"
	"confhub/invitations"
	"confhub/middleware"
	"confhub/models"
	"confhub/ratelim"
	"confhub/realtime"
	"confhub/reports"
	"confhub/resources"
	"confhub/rooms"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *bookings.Handler) {
	router.GET("/api/bookings", middleware.OptionalAuth(h.ListBookings))
	router.GET("/api/bookings/:id", middleware.Authenticate(h.GetBooking))
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(h.CreateBooking)))
	router.PATCH("/api/bookings/:id", middleware.RequireRole(h.UpdateBookingStatus, models.RoleFacilityManager, models.RoleAdmin))
	router.DELETE("/api/bookings/:id", middleware.Authenticate(h.DeleteBooking))
	router.POST("/api/bookings/:id/checkin", middleware.Authenticate(h.CheckIn))
}

func AddInvitationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *invitations.Handler) {
	router.POST("/api/meeting-invitations", rl.Limit(middleware.Authenticate(h.CreateInvitations)))
	router.GET("/api/meeting-invitations", middleware.Authenticate(h.ListForBooking))
	router.GET("/api/meeting-invitations/capacity-check", middleware.Authenticate(h.CapacityCheck))
	router.GET("/api/meeting-invitations/checkin", rl.Limit(h.CheckInByQR))
	router.POST("/api/meeting-invitations/:id/rsvp", rl.Limit(h.RSVP))
}

func AddRoomRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *rooms.Handler) {
	router.GET("/api/rooms", h.ListRooms)
	router.GET("/api/rooms/:id", h.GetRoom)
	router.POST("/api/rooms", middleware.RequireRole(h.CreateRoom, models.RoleFacilityManager, models.RoleAdmin))
	router.PUT("/api/rooms/:id", middleware.RequireRole(h.UpdateRoom, models.RoleFacilityManager, models.RoleAdmin))
	router.DELETE("/api/rooms/:id", middleware.RequireRole(h.DeleteRoom, models.RoleAdmin))
	router.GET("/api/rooms/:id/availability", h.GetAvailability)
	router.PUT("/api/rooms/:id/availability", middleware.RequireRole(h.SetAvailability, models.RoleFacilityManager, models.RoleAdmin))
	router.POST("/api/rooms/:id/photo", rl.Limit(middleware.RequireRole(h.UploadPhoto, models.RoleFacilityManager, models.RoleAdmin)))
}

func AddFacilityRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/facilities", facilities.ListFacilities)
	router.GET("/api/facilities/:id", facilities.GetFacility)
	router.POST("/api/facilities", middleware.RequireRole(facilities.CreateFacility, models.RoleAdmin))
	router.PUT("/api/facilities/:id", middleware.RequireRole(facilities.UpdateFacility, models.RoleFacilityManager, models.RoleAdmin))
	router.DELETE("/api/facilities/:id", middleware.RequireRole(facilities.DeleteFacility, models.RoleAdmin))
}

func AddResourceRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/resources", resources.ListResources)
	router.POST("/api/resources", middleware.RequireRole(resources.CreateResource, models.RoleFacilityManager, models.RoleAdmin))
	router.PUT("/api/resources/:id", middleware.RequireRole(resources.UpdateResource, models.RoleFacilityManager, models.RoleAdmin))
	router.DELETE("/api/resources/:id", middleware.RequireRole(resources.DeleteResource, models.RoleFacilityManager, models.RoleAdmin))
}

func AddReportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/reports/bookings/:bookingid/pdf", rl.Limit(middleware.Authenticate(reports.BookingPDF)))
	router.GET("/api/reports/facilities/:facilityid/usage", rl.Limit(middleware.RequireRole(reports.FacilityUsagePDF, models.RoleFacilityManager, models.RoleAdmin)))
}

func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws/rooms/:roomid", realtime.ServeWS(hub))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/roompic/*filepath", http.Dir("static/roompic"))
}
