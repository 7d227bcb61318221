package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"claimcost/ml"
)

// RequestValidator checks request bodies against the ranges the claim form
// offers. No field is required: absent fields are encoded as 0.
type RequestValidator struct {
	predict *gojsonschema.Schema
	batch   *gojsonschema.Schema
}

const maxBatchRows = 1000

func NewRequestValidator() (*RequestValidator, error) {
	predict, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(predictSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile predict schema: %w", err)
	}
	batch, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(batchSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile batch schema: %w", err)
	}
	return &RequestValidator{predict: predict, batch: batch}, nil
}

func (v *RequestValidator) ValidatePredict(body []byte) error {
	return validate(v.predict, body)
}

func (v *RequestValidator) ValidateBatch(body []byte) error {
	return validate(v.batch, body)
}

// ValidationError lists every schema violation of a request body.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		problems[i] = desc.String()
	}
	return &ValidationError{Problems: problems}
}

func predictSchema() map[string]interface{} {
	powers := make([]interface{}, len(ml.FiscalPowerOptions))
	for i, p := range ml.FiscalPowerOptions {
		powers[i] = p
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"vehicle_value": map[string]interface{}{
				"type":    "integer",
				"minimum": ml.VehicleValueMin,
				"maximum": ml.VehicleValueMax,
			},
			"vehicle_age": map[string]interface{}{
				"type":    "integer",
				"minimum": 0,
				"maximum": ml.VehicleAgeMax,
			},
			"fiscal_power": map[string]interface{}{
				"type": "integer",
				"enum": powers,
			},
			"driver_type": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{ml.DriverPrincipal, ml.DriverOccasional},
			},
			"zone": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{ml.ZoneUrban, ml.ZoneRural},
			},
		},
	}
}

func batchSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"rows"},
		"properties": map[string]interface{}{
			"rows": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"maxItems": maxBatchRows,
				"items": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": map[string]interface{}{"type": "number"},
				},
			},
		},
	}
}
