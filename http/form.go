package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"claimcost/ml"
)

type formView struct {
	Options inputOptions
	Input   ml.RawInput
	Result  *predictResponse
	Error   string
}

func (a *API) handleForm(w http.ResponseWriter, r *http.Request) {
	a.renderForm(w, http.StatusOK, formView{
		Options: currentOptions(),
		Input:   defaultInput(),
	})
}

func (a *API) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	view := formView{Options: currentOptions()}

	input, err := a.parseFormInput(r)
	if err != nil {
		view.Input = defaultInput()
		view.Error = err.Error()
		a.renderForm(w, http.StatusBadRequest, view)
		return
	}
	view.Input = input

	prediction, err := a.provider.Predict(r.Context(), ml.Encode(input))
	if err != nil {
		a.logger.Error("prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		view.Error = "Prediction failed: " + err.Error()
		if errors.Is(err, ml.ErrModelUnavailable) {
			view.Error = "The claim cost model is not available: " + err.Error()
		}
		a.renderForm(w, predictionStatus(err), view)
		return
	}
	resp := a.toResponse(prediction)
	view.Result = &resp
	a.renderForm(w, http.StatusOK, view)
}

func (a *API) renderForm(w http.ResponseWriter, status int, view formView) {
	var buf bytes.Buffer
	if err := a.page.Execute(&buf, view); err != nil {
		a.logger.Error("render form", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func defaultInput() ml.RawInput {
	return ml.RawInput{
		VehicleValue: ml.VehicleValueDefault,
		VehicleAge:   ml.VehicleAgeDefault,
		FiscalPower:  ml.FiscalPowerOptions[0],
		DriverType:   ml.DriverPrincipal,
		Zone:         ml.ZoneUrban,
	}
}

// parseFormInput reads the claim form and checks it against the same rules
// as the JSON endpoint. Empty fields are left out and encode as 0.
func (a *API) parseFormInput(r *http.Request) (ml.RawInput, error) {
	if err := r.ParseForm(); err != nil {
		return ml.RawInput{}, err
	}
	submitted := make(map[string]interface{})
	for _, name := range []string{"vehicle_value", "vehicle_age", "fiscal_power"} {
		v, ok, err := formInt(r, name)
		if err != nil {
			return ml.RawInput{}, err
		}
		if ok {
			submitted[name] = v
		}
	}
	for _, name := range []string{"driver_type", "zone"} {
		if v := strings.TrimSpace(r.PostFormValue(name)); v != "" {
			submitted[name] = v
		}
	}

	body, err := json.Marshal(submitted)
	if err != nil {
		return ml.RawInput{}, err
	}
	if err := a.validator.ValidatePredict(body); err != nil {
		return ml.RawInput{}, err
	}
	var input ml.RawInput
	if err := json.Unmarshal(body, &input); err != nil {
		return ml.RawInput{}, err
	}
	return input, nil
}

func formInt(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.PostFormValue(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, &ValidationError{Problems: []string{name + ": must be an integer"}}
	}
	return v, true, nil
}

const formPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Claim Cost Modelling</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 320px; padding: 1.5rem; background: #f0f2f6; min-height: 100vh; }
main { padding: 1.5rem 3rem; flex: 1; }
label { display: block; margin-top: 1rem; font-weight: bold; }
.metric { font-size: 2.5rem; margin: 0.5rem 0 1rem; }
.tier { padding: 0.75rem 1rem; border-radius: 4px; }
.tier-HIGH { background: #ffe0e0; }
.tier-MEDIUM { background: #fff4d6; }
.tier-LOW { background: #def7e5; }
.error { background: #ffe0e0; padding: 0.75rem 1rem; }
</style>
</head>
<body>
<aside>
<h2>Claim parameters</h2>
<form method="post" action="/predict">
<label for="vehicle_value">Vehicle new value</label>
<input type="range" id="vehicle_value" name="vehicle_value" min="{{.Options.VehicleValueMin}}" max="{{.Options.VehicleValueMax}}" step="{{.Options.VehicleValueStep}}" value="{{.Input.VehicleValue}}">
<output>{{.Input.VehicleValue}}</output>
<label for="vehicle_age">Vehicle age (years)</label>
<input type="range" id="vehicle_age" name="vehicle_age" min="0" max="{{.Options.VehicleAgeMax}}" value="{{.Input.VehicleAge}}">
<output>{{.Input.VehicleAge}}</output>
<label for="fiscal_power">Fiscal power (CV)</label>
<select id="fiscal_power" name="fiscal_power">
{{- range .Options.FiscalPower}}
<option value="{{.}}"{{if eq . $.Input.FiscalPower}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
<label>Driver type</label>
{{- range .Options.DriverType}}
<div><input type="radio" name="driver_type" value="{{.}}"{{if eq . $.Input.DriverType}} checked{{end}}> {{.}}</div>
{{- end}}
<label>Main circulation zone</label>
{{- range .Options.Zone}}
<div><input type="radio" name="zone" value="{{.}}"{{if eq . $.Input.Zone}} checked{{end}}> {{.}}</div>
{{- end}}
<p><button type="submit">Predict claim cost</button></p>
</form>
</aside>
<main>
<h1>Claim Cost Modelling - Damage Cover</h1>
<p>A <strong>decision-support tool</strong> for insurance claim experts.</p>
<hr>
{{- if .Error}}
<div class="error">{{.Error}}</div>
{{- else if .Result}}
<h2>Modelling result</h2>
<div>Predicted claim cost</div>
<div class="metric">{{.Result.FormattedCost}}</div>
<div class="tier tier-{{.Result.Tier}}">{{.Result.Advisory}}</div>
{{- else}}
<p>Enter the claim parameters in the left panel and press Predict.</p>
{{- end}}
</main>
</body>
</html>
`
