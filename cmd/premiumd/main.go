package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"premiumd/internal/common/fsutil"
	"premiumd/internal/config"
	"premiumd/internal/httpapi"
	"premiumd/internal/registry"
	"premiumd/internal/service"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Optional .env next to the binary; absence is fine.
	_ = godotenv.Load()

	addr := flag.String("addr", envDefault("PREMIUMD_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	modelsDir := flag.String("models-dir", envDefault("PREMIUMD_MODELS_DIR", "./models"), "Directory to scan for *.forest.json artifacts")
	defaultModel := flag.String("default-model", envDefault("PREMIUMD_DEFAULT_MODEL", ""), "Default model id when request omits model")
	datasetPath := flag.String("dataset", envDefault("PREMIUMD_DATASET", "insurance.csv"), "Reference CSV for the analytics pages")
	animationPath := flag.String("animation", envDefault("PREMIUMD_ANIMATION", "animation.json"), "Optional animation JSON for the home page")
	configPath := flag.String("config", envDefault("PREMIUMD_CONFIG", ""), "Optional config file (yaml/json/toml); flags override")
	logLevel := flag.String("log-level", envDefault("PREMIUMD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	flag.Parse()

	cfg := config.Config{
		Addr:          *addr,
		ModelsDir:     *modelsDir,
		DefaultModel:  *defaultModel,
		DatasetPath:   *datasetPath,
		AnimationPath: *animationPath,
		LogLevel:      *logLevel,
	}
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			bootLog := zerolog.New(os.Stderr)
			bootLog.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
		cfg = merge(fileCfg, cfg)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("svc", "premiumd").Logger()

	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ModelsDir).Msg("scan models dir")
	}
	svc, err := service.New(service.Config{
		Registry:     reg,
		DefaultModel: cfg.DefaultModel,
		CacheSize:    cfg.CacheSize,
		Logger:       log,
	})
	if err != nil {
		// The tool is non-functional without a loadable model.
		log.Fatal().Err(err).Msg("load model")
	}

	// Optional page assets: warn early, but absence is handled per request.
	if cfg.DatasetPath != "" && !fsutil.PathExists(cfg.DatasetPath) {
		log.Warn().Str("path", cfg.DatasetPath).Msg("dataset not found; analytics will show a fallback")
	}
	if cfg.AnimationPath != "" && !fsutil.PathExists(cfg.AnimationPath) {
		log.Debug().Str("path", cfg.AnimationPath).Msg("animation not found; home page uses a placeholder")
	}

	httpapi.SetLogger(log)
	httpapi.SetAssets(cfg.DatasetPath, cfg.AnimationPath)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPreviewRows(cfg.PreviewRows)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)

	mux := httpapi.NewMux(svc)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Int("models", len(reg)).Msg("premiumd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}

// merge overlays flag/env values (which include their defaults) onto a
// config file: any field the file sets wins only when the flag kept its
// zero-equivalent default, so explicit flags always take precedence.
func merge(file, flags config.Config) config.Config {
	out := file
	if flags.Addr != ":8080" || out.Addr == "" {
		out.Addr = flags.Addr
	}
	if flags.ModelsDir != "./models" || out.ModelsDir == "" {
		out.ModelsDir = flags.ModelsDir
	}
	if flags.DefaultModel != "" {
		out.DefaultModel = flags.DefaultModel
	}
	if flags.DatasetPath != "insurance.csv" || out.DatasetPath == "" {
		out.DatasetPath = flags.DatasetPath
	}
	if flags.AnimationPath != "animation.json" || out.AnimationPath == "" {
		out.AnimationPath = flags.AnimationPath
	}
	if flags.LogLevel != "info" || out.LogLevel == "" {
		out.LogLevel = flags.LogLevel
	}
	return out
}
