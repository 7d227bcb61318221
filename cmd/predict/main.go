package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"claimcost/ml"
	"claimcost/render"
)

func main() {
	modelPath := flag.String("model_path", "./models/claim_cost_model.json", "model artifact path")
	modelType := flag.String("model_type", ml.ModelTypeRandomForest, "model type")
	value := flag.Int("value", ml.VehicleValueDefault, "vehicle new value")
	age := flag.Int("age", ml.VehicleAgeDefault, "vehicle age in years")
	power := flag.Int("power", ml.FiscalPowerOptions[0], "fiscal power (CV)")
	driver := flag.String("driver", ml.DriverPrincipal, "driver type: Principal or Occasional")
	zone := flag.String("zone", ml.ZoneUrban, "circulation zone: Urban or Rural")
	currency := flag.String("currency", render.DefaultCurrency, "currency symbol")
	flag.Parse()

	service := ml.NewService(func() (ml.Regressor, error) {
		return ml.LoadModel(*modelType, *modelPath)
	})
	if err := service.Init(); err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	features := ml.Encode(ml.RawInput{
		VehicleValue: *value,
		VehicleAge:   *age,
		FiscalPower:  *power,
		DriverType:   *driver,
		Zone:         *zone,
	})
	prediction, err := service.Predict(context.Background(), features)
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}

	fmt.Printf("features: %v\n", features.Vector())
	fmt.Printf("predicted claim cost: %s\n", render.NewCurrencyFormatter(*currency).Format(prediction.Cost))
	fmt.Printf("tier: %s - %s\n", prediction.Tier, prediction.Tier.Advisory())
}
