package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"claimcost/ml"
)

const maxBodyBytes = 1 << 20

type predictResponse struct {
	Cost          int       `json:"cost"`
	Tier          ml.Tier   `json:"tier"`
	Advisory      string    `json:"advisory"`
	FormattedCost string    `json:"formatted_cost"`
	Features      []float64 `json:"features,omitempty"`
}

type batchRequest struct {
	Rows []map[string]float64 `json:"rows"`
}

type batchResponse struct {
	Predictions []predictResponse `json:"predictions"`
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	if err := a.validator.ValidatePredict(body); err != nil {
		a.writeValidationError(w, err)
		return
	}
	var input ml.RawInput
	if err := json.Unmarshal(body, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	features := ml.Encode(input)
	prediction, err := a.provider.Predict(r.Context(), features)
	if err != nil {
		a.logger.Error("prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		writeError(w, predictionStatus(err), err.Error())
		return
	}

	resp := a.toResponse(prediction)
	resp.Features = features.Vector()
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	if err := a.validator.ValidateBatch(body); err != nil {
		a.writeValidationError(w, err)
		return
	}
	var req batchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rows := make([][]float64, len(req.Rows))
	for i, fields := range req.Rows {
		rows[i] = ml.EncodeFields(fields)
	}
	predictions, err := a.provider.PredictBatch(r.Context(), rows)
	if err != nil {
		a.logger.Error("batch prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		writeError(w, predictionStatus(err), err.Error())
		return
	}

	resp := batchResponse{Predictions: make([]predictResponse, len(predictions))}
	for i, p := range predictions {
		resp.Predictions[i] = a.toResponse(p)
		resp.Predictions[i].Features = rows[i]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) toResponse(p ml.Prediction) predictResponse {
	return predictResponse{
		Cost:          p.Cost,
		Tier:          p.Tier,
		Advisory:      p.Tier.Advisory(),
		FormattedCost: a.formatter.Format(p.Cost),
	}
}

func (a *API) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

func (a *API) writeValidationError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, "invalid request", verr.Problems...)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
