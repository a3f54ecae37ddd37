package routes

import (
	"time"

	"salonbook/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers the read-only slot endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.POST("", hb.AvailabilityHandler)
		api.POST("/group", hb.GroupAvailabilityHandler)
	}
}

// RegisterBookingRoutes registers booking creation, lookup and lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBookingHandler)
		api.GET("/code/:code", hb.GetBookingByCodeHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.POST("/:id/status", hb.UpdateStatusHandler)
		api.POST("/:id/reschedule", hb.RescheduleHandler)
	}

	series := r.Group("/api/series")
	{
		series.POST("/:seriesRef/cancel", hb.CancelSeriesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
