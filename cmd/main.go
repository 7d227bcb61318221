package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"claimcost/config"
	qhttp "claimcost/http"
	"claimcost/logger"
	"claimcost/ml"
	"claimcost/monitoring"
	"claimcost/render"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// Look for config in root even if run from cmd/
	path := *configPath
	if path == "" {
		path = "config.yaml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = fallbackConfigPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Model.Path = resolveModelPath(path, cfg.Model.Path)

	zlog := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	metrics := monitoring.NewMetrics()
	service := ml.NewService(
		modelLoader(cfg, zlog),
		ml.WithLogger(zlog),
		ml.WithRecorder(metrics),
	)

	// The model is loaded before the listener opens; a failed load never serves.
	if err := service.Init(); err != nil {
		zlog.Fatal("claim cost model unavailable, refusing to serve",
			zap.String("model_path", cfg.Model.Path),
			zap.Error(err),
		)
	}

	api, err := qhttp.NewAPI(service, render.NewCurrencyFormatter(cfg.Render.Currency), zlog)
	if err != nil {
		zlog.Fatal("failed to build API", zap.Error(err))
	}
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, api, metrics, zlog)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := server.Stop(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("exiting")
}

var fallbackConfigPath = filepath.Join("..", "config.yaml")

// resolveModelPath rebases a relative model path onto the repository root
// when the config was picked up from the parent directory.
func resolveModelPath(configPath, modelPath string) string {
	if !filepath.IsAbs(modelPath) && configPath == fallbackConfigPath {
		return filepath.Join("..", modelPath)
	}
	return modelPath
}

func modelLoader(cfg *config.Config, zlog *zap.Logger) ml.LoadFunc {
	return func() (ml.Regressor, error) {
		model, err := ml.LoadModel(cfg.Model.Type, cfg.Model.Path)
		if err != nil {
			return nil, err
		}
		fields := []zap.Field{zap.String("model_path", cfg.Model.Path)}
		switch m := model.(type) {
		case *ml.RandomForest:
			fields = append(fields, zap.String("model_type", ml.ModelTypeRandomForest), zap.Int("trees", m.Size()))
		case *ml.RegressionTree:
			fields = append(fields, zap.String("model_type", ml.ModelTypeDecisionTree), zap.Int("depth", m.Depth()))
		}
		zlog.Info("model artifact read", fields...)
		return ml.NewCachedRegressor(model, cfg.Model.CacheSize)
	}
}
