// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lastmile/internal/http/handlers"
	"lastmile/internal/http/middleware"
	"lastmile/internal/infra"
	"lastmile/internal/modules/assignment"
	"lastmile/internal/modules/fleet"
	"lastmile/internal/modules/geo"
	"lastmile/internal/modules/order"
	"lastmile/internal/modules/performance"
	"lastmile/internal/modules/slot"
)

type ServerDeps struct {
	Order       *order.Service
	Geo         *geo.Resolver
	Slot        *slot.Service
	Assignment  *assignment.Service
	Performance *performance.Service
	Fleet       *fleet.Registry
	Locations   handlers.CourierLocator
	Verifier    infra.TokenVerifier
	Log         zerolog.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Log))
	r.Use(middleware.Logging(s.deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api")
	api.Use(middleware.Auth(s.deps.Verifier))

	geoHandler := handlers.NewGeoHandler(s.deps.Geo)
	api.POST("/zones/resolve", geoHandler.ResolveZone)
	api.PUT("/zones", geoHandler.ReplaceAreas)
	api.GET("/zones", geoHandler.ListAreas)
	api.GET("/geo/reverse", geoHandler.Reverse)
	api.GET("/geo/search", geoHandler.Search)

	orderHandler := handlers.NewOrderHandler(s.deps.Order)
	api.POST("/orders", orderHandler.Place)
	api.GET("/orders/:id", orderHandler.Get)
	api.GET("/orders/:id/history", orderHandler.History)
	api.POST("/orders/:id/delivered", orderHandler.MarkDelivered)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)
	api.POST("/orders/:id/rating", orderHandler.Rate)

	slotHandler := handlers.NewSlotHandler(s.deps.Slot)
	api.GET("/slots/:pool/availability", slotHandler.Availability)
	api.POST("/orders/:id/slots/auto", slotHandler.AutoBook)

	assignmentHandler := handlers.NewAssignmentHandler(s.deps.Assignment)
	api.POST("/orders/:id/assign", assignmentHandler.Assign)

	courierHandler := handlers.NewCourierHandler(s.deps.Fleet, s.deps.Performance, s.deps.Locations)
	api.GET("/couriers", courierHandler.List)
	api.GET("/couriers/nearby", courierHandler.Nearby)
	api.PUT("/couriers/:id/active", courierHandler.SetActive)
	api.PUT("/couriers/:id/location", courierHandler.SetLocation)
	api.GET("/couriers/:id/performance", courierHandler.Performance)

	return r
}
