package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"claimcost/ml"
	"claimcost/render"
)

// API serves the claim cost endpoints on top of a model provider.
type API struct {
	provider  ml.ModelProvider
	formatter *render.CurrencyFormatter
	validator *RequestValidator
	page      *template.Template
	logger    *zap.Logger
}

func NewAPI(provider ml.ModelProvider, formatter *render.CurrencyFormatter, logger *zap.Logger) (*API, error) {
	validator, err := NewRequestValidator()
	if err != nil {
		return nil, err
	}
	page, err := template.New("form").Parse(formPage)
	if err != nil {
		return nil, err
	}
	return &API{
		provider:  provider,
		formatter: formatter,
		validator: validator,
		page:      page,
		logger:    logger,
	}, nil
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/ready", a.handleReady)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("POST /api/predict", a.handlePredict)
	mux.HandleFunc("POST /api/predict/batch", a.handlePredictBatch)
	mux.HandleFunc("GET /{$}", a.handleForm)
	mux.HandleFunc("POST /predict", a.handleFormSubmit)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if !a.provider.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "model unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type schemaResponse struct {
	Columns ml.FeatureSchema `json:"columns"`
	Options inputOptions     `json:"options"`
}

type inputOptions struct {
	VehicleValueMin     int      `json:"vehicle_value_min"`
	VehicleValueMax     int      `json:"vehicle_value_max"`
	VehicleValueStep    int      `json:"vehicle_value_step"`
	VehicleValueDefault int      `json:"vehicle_value_default"`
	VehicleAgeMax       int      `json:"vehicle_age_max"`
	VehicleAgeDefault   int      `json:"vehicle_age_default"`
	FiscalPower         []int    `json:"fiscal_power"`
	DriverType          []string `json:"driver_type"`
	Zone                []string `json:"zone"`
}

func currentOptions() inputOptions {
	return inputOptions{
		VehicleValueMin:     ml.VehicleValueMin,
		VehicleValueMax:     ml.VehicleValueMax,
		VehicleValueStep:    ml.VehicleValueStep,
		VehicleValueDefault: ml.VehicleValueDefault,
		VehicleAgeMax:       ml.VehicleAgeMax,
		VehicleAgeDefault:   ml.VehicleAgeDefault,
		FiscalPower:         ml.FiscalPowerOptions,
		DriverType:          ml.DriverTypeOptions,
		Zone:                ml.ZoneOptions,
	}
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemaResponse{Columns: ml.ClaimSchema, Options: currentOptions()})
}

// predictionStatus maps a service error to the HTTP status returned for it.
func predictionStatus(err error) int {
	if errors.Is(err, ml.ErrModelUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("encode response", zap.Int("status", status), zap.Error(err))
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
