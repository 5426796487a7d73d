package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/gosuda/reserva/internal/api/v1"
	"github.com/gosuda/reserva/internal/booking"
	redisstore "github.com/gosuda/reserva/internal/store/redis"
	"github.com/gosuda/reserva/internal/tenant"
)

func registerResolveRoutes(api huma.API, cache *tenant.Cache) {
	v1.RegisterTenantRoutes(api, cache)
}

func registerBookingRoutes(api huma.API, validator *booking.Validator, detector *booking.Detector) {
	v1.RegisterBookingRoutes(api, validator, detector)
}

func registerAdminRoutes(api huma.API, cache *tenant.Cache, loader *tenant.Loader, pubsub *redisstore.PubSub) {
	v1.RegisterAdminRoutes(api, cache, loader, pubsub)
}
