package ml

// Column names of the claim feature table, in the order the regressor was fit on.
const (
	ColVehicleNewValue = "vehicle_new_value"
	ColVehicleAgeYears = "vehicle_age_years"
	ColFiscalPower     = "fiscal_power"
	ColDriverPrincipal = "driver_type_is_principal"
	ColZoneUrban       = "zone_is_urban"

	FeatureCount = 5
)

// FeatureSchema is an ordered list of column names shared by the encoder and
// the model artifact.
type FeatureSchema []string

// ClaimSchema is the column order every claim cost model is trained against.
var ClaimSchema = FeatureSchema{
	ColVehicleNewValue,
	ColVehicleAgeYears,
	ColFiscalPower,
	ColDriverPrincipal,
	ColZoneUrban,
}

// Reindex lays named values out in schema order. Missing columns are 0 and
// names the schema does not know are dropped.
func (s FeatureSchema) Reindex(values map[string]float64) []float64 {
	row := make([]float64, len(s))
	for i, name := range s {
		row[i] = values[name]
	}
	return row
}

func (s FeatureSchema) Equal(other FeatureSchema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
