package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"advisord/internal/catalog"
	"advisord/internal/common/fsutil"
	"advisord/internal/config"
	"advisord/internal/httpapi"
	"advisord/internal/lifecycle"
	"advisord/internal/llama"
	"advisord/internal/logx"
	"advisord/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath              string
		addr                 string
		cacheDir             string
		persistFile          string
		defaultModel         string
		logLevel             string
		consoleLog           bool
		maxNewTokens         int
		streamAbandonSeconds int
		llamaCtx             int
		llamaThreads         int
		corsEnabled          bool
		corsOrigins          string
	)

	cmd := &cobra.Command{
		Use:   "advisord",
		Short: "Local LLM lifecycle daemon for the stock advisor dashboard",
		Long: `advisord manages one in-process llama.cpp model at a time: it downloads
weights, loads and swaps models on demand, and serves blocking and
streaming generation over HTTP.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{
				Addr:                 addr,
				CacheDir:             cacheDir,
				PersistFile:          persistFile,
				DefaultModel:         defaultModel,
				LogLevel:             logLevel,
				MaxNewTokens:         maxNewTokens,
				StreamAbandonSeconds: streamAbandonSeconds,
				LlamaCtx:             llamaCtx,
				LlamaThreads:         llamaThreads,
				CORSEnabled:          corsEnabled,
			}
			if corsOrigins != "" {
				cfg.CORSOrigins = splitCSV(corsOrigins)
			}
			if cfgPath != "" {
				fileCfg, err := config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("load config %s: %w", cfgPath, err)
				}
				cfg = mergeConfig(fileCfg, cfg, cmd)
			}
			applyDefaults(&cfg)
			logx.Configure(cfg.LogLevel, consoleLog)
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", envOr("ADVISORD_CONFIG", ""), "Config file (.yaml, .json or .toml)")
	f.StringVar(&addr, "addr", envOr("ADVISORD_ADDR", ""), "HTTP listen address, e.g. :8080")
	f.StringVar(&cacheDir, "cache-dir", envOr("ADVISORD_CACHE_DIR", ""), "Directory for downloaded weights")
	f.StringVar(&persistFile, "persist-file", envOr("ADVISORD_PERSIST_FILE", ""), "Path of the last-loaded-model record")
	f.StringVar(&defaultModel, "default-model", envOr("ADVISORD_DEFAULT_MODEL", ""), "Model to load at startup when no record exists")
	f.StringVar(&logLevel, "log-level", envOr("ADVISORD_LOG_LEVEL", ""), "trace, debug, info, warn or error")
	f.BoolVar(&consoleLog, "console-log", false, "Human-readable log output instead of JSON")
	f.IntVar(&maxNewTokens, "max-new-tokens", 0, "Default cap on generated tokens")
	f.IntVar(&streamAbandonSeconds, "stream-abandon-seconds", 0, "Seconds before a streaming generation is abandoned")
	f.IntVar(&llamaCtx, "llama-ctx", 0, "Context window passed to llama.cpp")
	f.IntVar(&llamaThreads, "llama-threads", 0, "Inference threads; 0 picks a default")
	f.BoolVar(&corsEnabled, "cors", false, "Enable CORS for browser clients")
	f.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed origins (implies --cors)")

	return cmd
}

// mergeConfig overlays flag values on top of the config file. A flag wins
// only when it was set explicitly on the command line.
func mergeConfig(file, flags config.Config, cmd *cobra.Command) config.Config {
	out := file
	if cmd.Flags().Changed("addr") || (flags.Addr != "" && out.Addr == "") {
		out.Addr = flags.Addr
	}
	if cmd.Flags().Changed("cache-dir") || (flags.CacheDir != "" && out.CacheDir == "") {
		out.CacheDir = flags.CacheDir
	}
	if cmd.Flags().Changed("persist-file") || (flags.PersistFile != "" && out.PersistFile == "") {
		out.PersistFile = flags.PersistFile
	}
	if cmd.Flags().Changed("default-model") || (flags.DefaultModel != "" && out.DefaultModel == "") {
		out.DefaultModel = flags.DefaultModel
	}
	if cmd.Flags().Changed("log-level") || (flags.LogLevel != "" && out.LogLevel == "") {
		out.LogLevel = flags.LogLevel
	}
	if cmd.Flags().Changed("max-new-tokens") {
		out.MaxNewTokens = flags.MaxNewTokens
	}
	if cmd.Flags().Changed("stream-abandon-seconds") {
		out.StreamAbandonSeconds = flags.StreamAbandonSeconds
	}
	if cmd.Flags().Changed("llama-ctx") {
		out.LlamaCtx = flags.LlamaCtx
	}
	if cmd.Flags().Changed("llama-threads") {
		out.LlamaThreads = flags.LlamaThreads
	}
	if cmd.Flags().Changed("cors") {
		out.CORSEnabled = flags.CORSEnabled
	}
	if cmd.Flags().Changed("cors-origins") {
		out.CORSOrigins = flags.CORSOrigins
	}
	return out
}

func applyDefaults(cfg *config.Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "~/.cache/advisord/models"
	}
	if cfg.PersistFile == "" {
		cfg.PersistFile = "~/.cache/advisord/last_model.json"
	}
	if cfg.LlamaCtx <= 0 {
		cfg.LlamaCtx = 8192
	}
	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}
}

func run(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cacheDir, err := fsutil.ExpandHome(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("cache dir: %w", err)
	}
	st, err := store.Open(cacheDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// Catalog: built-in entries plus any *.gguf already in the cache dir.
	models := catalog.Builtin()
	if scanned, err := catalog.ScanDir(st.Dir()); err == nil {
		models = catalog.Merge(models, scanned)
	}

	persistPath, err := fsutil.ExpandHome(cfg.PersistFile)
	if err != nil {
		return fmt.Errorf("persist file: %w", err)
	}
	loader := llama.NewLoader(st, cfg.LlamaCtx, cfg.LlamaThreads)
	mgrCfg := lifecycle.ManagerConfig{
		Loader:       loader,
		Catalog:      models,
		PersistPath:  persistPath,
		MaxNewTokens: cfg.MaxNewTokens,
	}
	if cfg.StreamAbandonSeconds > 0 {
		mgrCfg.StreamAbandonTimeout = time.Duration(cfg.StreamAbandonSeconds) * time.Second
	}
	mgr := lifecycle.NewWithConfig(mgrCfg)

	// Resume the model of the previous run; fall back to the configured
	// default. Startup does not wait for the load.
	if id := mgr.LastPersistedModel(); id != "" {
		log.Info().Str("model", id).Msg("resuming persisted model")
		go mgr.Load(context.Background(), id, nil)
	} else if cfg.DefaultModel != "" {
		log.Info().Str("model", cfg.DefaultModel).Msg("loading default model")
		go mgr.Load(context.Background(), cfg.DefaultModel, nil)
	}

	httpapi.SetBaseContext(ctx)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins)
	mux := httpapi.NewMux(httpapi.NewService(mgr, st))
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", cfg.Addr).
			Str("cache_dir", st.Dir()).
			Bool("engine", llama.Built()).
			Msg("advisord listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("graceful shutdown")
		}
		mgr.Unload()
		return nil
	})
	return g.Wait()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
