// Package handlers provides HTTP handlers for housing investment analysis.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/homestead/internal/modules/charts"
	"github.com/aristath/homestead/internal/modules/housing"
	"github.com/rs/zerolog"
)

// Handler handles housing model HTTP requests
type Handler struct {
	factory *housing.Factory
	charts  *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new housing handler
func NewHandler(factory *housing.Factory, chartService *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		factory: factory,
		charts:  chartService,
		log:     log.With().Str("handler", "housing").Logger(),
	}
}

// SensitivityRequest is the body of the sensitivity endpoints
type SensitivityRequest struct {
	Assumptions map[string]float64 `json:"assumptions"`
	Attribute   string             `json:"attribute"`
	Lower       float64            `json:"lower"`
	Upper       float64            `json:"upper"`
}

// HandleGetDefaults handles GET /api/housing/defaults
func (h *Handler) HandleGetDefaults(w http.ResponseWriter, r *http.Request) {
	cfg := h.factory.SolverConfig()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"assumptions": housing.DefaultAssumptions().ToMap(),
			"attributes":  housing.FieldNames(),
		},
		"metadata": map[string]interface{}{
			"solver_method":    cfg.Method,
			"principal_policy": h.factory.PrincipalPolicy(),
			"timestamp":        time.Now().Format(time.RFC3339),
		},
	}, h.log)
}

// HandleMIRR handles POST /api/housing/mirr
func (h *Handler) HandleMIRR(w http.ResponseWriter, r *http.Request) {
	a, ok := h.decodeAssumptions(w, r)
	if !ok {
		return
	}

	ev, err := h.factory.Evaluate(a)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to evaluate assumptions")
		WriteError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":     EvaluationSummary(ev),
		"metadata": h.metadata(),
	}, h.log)
}

// HandleSchedule handles POST /api/housing/schedule?limit=N
func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	a, ok := h.decodeAssumptions(w, r)
	if !ok {
		return
	}

	model, err := h.factory.NewModel(a)
	if err != nil {
		WriteError(w, err, h.log)
		return
	}
	solved, schedule, err := model.Solve()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to solve loan payment")
		WriteError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"loan_amount":    model.LoanAmount(),
			"payment":        solved.Amount,
			"months":         schedule.Months(),
			"total_interest": schedule.TotalInterest(),
			"solver":         solved,
			"rows":           schedule.Rows(limit),
		},
		"metadata": h.metadata(),
	}, h.log)
}

// HandleSensitivity handles POST /api/housing/sensitivity
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	res, ok := h.sweep(w, r)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":     res,
		"metadata": h.metadata(),
	}, h.log)
}

// HandleSensitivityChart handles POST /api/housing/sensitivity/chart
func (h *Handler) HandleSensitivityChart(w http.ResponseWriter, r *http.Request) {
	res, ok := h.sweep(w, r)
	if !ok {
		return
	}
	WriteChart(w, h.charts, res, h.log)
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) (*housing.SensitivityResult, bool) {
	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}

	a, err := housing.FromMap(req.Assumptions)
	if err != nil {
		WriteError(w, err, h.log)
		return nil, false
	}

	res, err := h.factory.Sensitivity(a, req.Attribute, req.Lower, req.Upper)
	if err != nil {
		h.log.Warn().Err(err).Str("attribute", req.Attribute).Msg("Sensitivity sweep failed")
		WriteError(w, err, h.log)
		return nil, false
	}
	return res, true
}

func (h *Handler) decodeAssumptions(w http.ResponseWriter, r *http.Request) (housing.Assumptions, bool) {
	var values map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return housing.Assumptions{}, false
	}

	a, err := housing.FromMap(values)
	if err != nil {
		WriteError(w, err, h.log)
		return housing.Assumptions{}, false
	}
	return a, true
}

func (h *Handler) metadata() map[string]interface{} {
	return map[string]interface{}{
		"principal_policy": h.factory.PrincipalPolicy(),
		"timestamp":        time.Now().Format(time.RFC3339),
	}
}

// EvaluationSummary flattens an evaluation for JSON responses. The factor
// series are left out; the schedule is reduced to its totals.
func EvaluationSummary(ev *housing.Evaluation) map[string]interface{} {
	return map[string]interface{}{
		"mirr":            ev.MIRR,
		"branch":          ev.Branch,
		"terminal_value":  ev.TerminalValue,
		"sale_proceeds":   ev.SaleProceeds,
		"loan_payment":    ev.LoanPayment,
		"carrying_cost":   ev.CarryingCost,
		"monthly_payment": ev.MonthlyPayment,
		"tax_benefit":     ev.TaxBenefit,
		"cash_flow_value": ev.CashFlowValue,
		"capital":         ev.Capital,
		"total_interest":  ev.Schedule.TotalInterest(),
		"solver":          ev.Solver,
	}
}

// StatusFor maps a model error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, housing.ErrInvalidAssumptions), errors.Is(err, housing.ErrAttributeNotFound):
		return http.StatusBadRequest
	case errors.Is(err, housing.ErrNumericDomain):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body with the status from StatusFor.
// Internal errors are logged and their detail hidden.
func WriteError(w http.ResponseWriter, err error, log zerolog.Logger) {
	WriteErrorStatus(w, StatusFor(err), err, log)
}

// WriteErrorStatus writes err as a JSON error body with an explicit status
func WriteErrorStatus(w http.ResponseWriter, status int, err error, log zerolog.Logger) {
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
		message = "Internal server error"
	}
	WriteJSON(w, status, map[string]interface{}{
		"error": message,
	}, log)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteChart renders a sensitivity chart as an HTML page
func WriteChart(w http.ResponseWriter, chartService *charts.Service, res *housing.SensitivityResult, log zerolog.Logger) {
	var buf bytes.Buffer
	if err := chartService.RenderSensitivity(&buf, res); err != nil {
		WriteError(w, err, log)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("Failed to write chart response")
	}
}
