package ml

// Reference labels for the two binary choices of the claim form.
const (
	DriverPrincipal  = "Principal"
	DriverOccasional = "Occasional"
	ZoneUrban        = "Urban"
	ZoneRural        = "Rural"
)

// Options offered by the claim form. Range checks belong to the input
// provider; Encode never validates.
var (
	VehicleValueMin     = 80000
	VehicleValueMax     = 1000000
	VehicleValueStep    = 10000
	VehicleValueDefault = 250000
	VehicleAgeMax       = 20
	VehicleAgeDefault   = 5
	FiscalPowerOptions  = []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	DriverTypeOptions   = []string{DriverPrincipal, DriverOccasional}
	ZoneOptions         = []string{ZoneUrban, ZoneRural}
)

// RawInput is what the input provider collects for one claim.
type RawInput struct {
	VehicleValue int    `json:"vehicle_value"`
	VehicleAge   int    `json:"vehicle_age"`
	FiscalPower  int    `json:"fiscal_power"`
	DriverType   string `json:"driver_type"`
	Zone         string `json:"zone"`
}

// ClaimFeatures is the numeric encoding of one claim.
type ClaimFeatures struct {
	VehicleNewValue       int `json:"vehicle_new_value"`
	VehicleAgeYears       int `json:"vehicle_age_years"`
	FiscalPower           int `json:"fiscal_power"`
	DriverTypeIsPrincipal int `json:"driver_type_is_principal"`
	ZoneIsUrban           int `json:"zone_is_urban"`
}

func Encode(in RawInput) ClaimFeatures {
	return ClaimFeatures{
		VehicleNewValue:       in.VehicleValue,
		VehicleAgeYears:       in.VehicleAge,
		FiscalPower:           in.FiscalPower,
		DriverTypeIsPrincipal: indicator(in.DriverType == DriverPrincipal),
		ZoneIsUrban:           indicator(in.Zone == ZoneUrban),
	}
}

// Fields returns the features keyed by ClaimSchema column.
func (f ClaimFeatures) Fields() map[string]float64 {
	return map[string]float64{
		ColVehicleNewValue: float64(f.VehicleNewValue),
		ColVehicleAgeYears: float64(f.VehicleAgeYears),
		ColFiscalPower:     float64(f.FiscalPower),
		ColDriverPrincipal: float64(f.DriverTypeIsPrincipal),
		ColZoneUrban:       float64(f.ZoneIsUrban),
	}
}

// Vector returns the row handed to the regressor, in ClaimSchema order.
func (f ClaimFeatures) Vector() []float64 {
	return ClaimSchema.Reindex(f.Fields())
}

// EncodeFields builds a ClaimSchema row from named values, zero-filling
// absent columns.
func EncodeFields(values map[string]float64) []float64 {
	return ClaimSchema.Reindex(values)
}

func indicator(b bool) int {
	if b {
		return 1
	}
	return 0
}
