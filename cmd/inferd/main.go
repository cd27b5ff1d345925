package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/config"
	"inferd/internal/dispatch"
	"inferd/internal/gateway"
	"inferd/internal/httpapi"
	"inferd/internal/registry"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("INFERD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultModelsDir := "~/models"
	if v := os.Getenv("INFERD_MODELS_DIR"); v != "" {
		defaultModelsDir = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	modelsDir := flag.String("models-dir", defaultModelsDir, "Directory to scan for model-settings files")
	configPath := flag.String("config", "", "Optional config file (yaml/json/toml); flags override it")
	logLevel := flag.String("log-level", "", "Log level: off|error|info|debug")
	maxBody := flag.Int64("max-body-bytes", 0, "Maximum request body size in bytes (0=default 1MiB)")
	inferTimeout := flag.Int64("infer-timeout-sec", 0, "Per-request inference timeout in seconds (0=disabled)")
	flag.Parse()

	cfg := config.Config{Addr: *addr, ModelsDir: *modelsDir, LogLevel: *logLevel, MaxBodyBytes: *maxBody}
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = mergeConfig(fileCfg, cfg)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetInferTimeoutSeconds(*inferTimeout)
	if cfg.CORSEnabled {
		httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)
	}
	if cfg.LogLevel != "" {
		os.Setenv("INFERD_LOG_LEVEL", cfg.LogLevel)
	}

	// Load model settings and bind predictors
	settings, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		log.Fatalf("failed to load models: %v", err)
	}
	reg := registry.New()
	for _, s := range settings {
		p, err := predictorFor(s.Implementation)
		if err != nil {
			log.Fatalf("model %q: %v", s.Name, err)
		}
		reg.Register(&dispatch.Model{Meta: s.Metadata(), Predictor: p})
	}
	gw := gateway.New(reg, dispatch.New(nil))

	baseCtx, stopBase := context.WithCancel(context.Background())
	httpapi.SetBaseContext(baseCtx)
	mux := httpapi.NewMux(gw)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Int("models", reg.Len()).Msg("inferd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	stopBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

// predictorFor binds a settings implementation name to a predictor.
func predictorFor(impl string) (dispatch.Predictor, error) {
	switch impl {
	case "", "echo":
		return dispatch.Echo{}, nil
	}
	return nil, fmt.Errorf("unknown implementation %q", impl)
}

// mergeConfig fills unset fields of flags from the config file.
func mergeConfig(file, flags config.Config) config.Config {
	out := flags
	if out.Addr == "" || out.Addr == ":8080" {
		if file.Addr != "" {
			out.Addr = file.Addr
		}
	}
	if out.ModelsDir == "" || out.ModelsDir == "~/models" {
		if file.ModelsDir != "" {
			out.ModelsDir = file.ModelsDir
		}
	}
	if out.LogLevel == "" {
		out.LogLevel = file.LogLevel
	}
	if out.MaxBodyBytes == 0 {
		out.MaxBodyBytes = file.MaxBodyBytes
	}
	out.CORSEnabled = file.CORSEnabled
	out.CORSOrigins = file.CORSOrigins
	return out
}
