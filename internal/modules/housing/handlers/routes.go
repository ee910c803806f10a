package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all housing model routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/housing", func(r chi.Router) {
		r.Get("/defaults", h.HandleGetDefaults)
		r.Post("/mirr", h.HandleMIRR)
		r.Post("/schedule", h.HandleSchedule)
		r.Post("/sensitivity", h.HandleSensitivity)
		r.Post("/sensitivity/chart", h.HandleSensitivityChart)
	})
}
