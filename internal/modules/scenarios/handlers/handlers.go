// Package handlers provides HTTP handlers for stored scenarios.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/homestead/internal/modules/charts"
	housinghandlers "github.com/aristath/homestead/internal/modules/housing/handlers"
	"github.com/aristath/homestead/internal/modules/scenarios"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles scenario HTTP requests
type Handler struct {
	service *scenarios.Service
	charts  *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new scenario handler
func NewHandler(service *scenarios.Service, chartService *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		charts:  chartService,
		log:     log.With().Str("handler", "scenarios").Logger(),
	}
}

// SweepRequest is the body of POST /api/scenarios/{id}/sensitivity
type SweepRequest struct {
	Attribute string  `json:"attribute"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// HandleList handles GET /api/scenarios
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, list, map[string]interface{}{
		"count": len(list),
	})
}

// HandleCreate handles POST /api/scenarios
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input scenarios.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scenario, err := h.service.Create(input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusCreated, scenario, nil)
}

// HandleGet handles GET /api/scenarios/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, scenario, nil)
}

// HandleUpdate handles PUT /api/scenarios/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input scenarios.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	scenario, err := h.service.Update(chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, scenario, nil)
}

// HandleDelete handles DELETE /api/scenarios/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMIRR handles GET /api/scenarios/{id}/mirr
func (h *Handler) HandleMIRR(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Evaluate(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, housinghandlers.EvaluationSummary(res.Evaluation), map[string]interface{}{
		"scenario_id":   res.Scenario.ID,
		"scenario_name": res.Scenario.Name,
	})
}

// HandleSensitivity handles POST /api/scenarios/{id}/sensitivity.
// With ?format=chart the sweep is returned as an HTML chart.
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	res, err := h.service.Sensitivity(id, req.Attribute, req.Lower, req.Upper)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "chart" {
		housinghandlers.WriteChart(w, h.charts, res, h.log)
		return
	}

	h.writeData(w, http.StatusOK, res, map[string]interface{}{
		"scenario_id": id,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scenarios.ErrScenarioNotFound):
		housinghandlers.WriteErrorStatus(w, http.StatusNotFound, err, h.log)
	case errors.Is(err, scenarios.ErrInvalidName):
		housinghandlers.WriteErrorStatus(w, http.StatusBadRequest, err, h.log)
	default:
		housinghandlers.WriteError(w, err, h.log)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}, metadata map[string]interface{}) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["timestamp"] = time.Now().Format(time.RFC3339)

	housinghandlers.WriteJSON(w, status, map[string]interface{}{
		"data":     data,
		"metadata": metadata,
	}, h.log)
}
