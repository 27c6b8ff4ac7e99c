package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/translay/translay/internal/server/handlers"
)

func (s *Server) registerRoutes() {
	translate := &handlers.TranslateHandler{Translator: s.translator}
	s.router.Post("/translate", translate.ServeHTTP)

	if s.health != nil {
		s.router.Get("/health", s.health.HealthHandler)
		s.router.Get("/health/live", s.health.LivenessHandler)
		s.router.Get("/health/ready", s.health.ReadinessHandler)
	}

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}
