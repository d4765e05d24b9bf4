package app

import (
	"context"
	"fmt"
	"io"

	"github.com/jislas1039-svg/higher-self/internal/clipper"
	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/device"
	"github.com/jislas1039-svg/higher-self/internal/generative"
	"github.com/jislas1039-svg/higher-self/internal/llm"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/metrics"
	"github.com/jislas1039-svg/higher-self/internal/ritual"
	"github.com/jislas1039-svg/higher-self/internal/state"
	"github.com/jislas1039-svg/higher-self/internal/storage"
)

// Devices are supplied by the host; either may be nil.
type Devices struct {
	Camera   device.Camera
	Audio    device.Audio
	OnNotice func(ritual.Notice)
}

// Bootstrap builds the application from configuration. On error every
// resource opened so far is closed.
func Bootstrap(ctx context.Context, cfg *config.Config, log *logger.Logger, devices Devices) (*App, error) {
	var closers []io.Closer
	fail := func(err error) (*App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	backend, err := storage.NewByEngine(cfg.StorageEngine, storage.Options{
		Path:       cfg.StoragePath,
		QuotaBytes: cfg.StorageQuotaBytes,
		RedisAddr:  cfg.RedisAddr,
		Logger:     log,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to open %s storage: %w", cfg.StorageEngine, err))
	}
	closers = append(closers, backend)

	store := state.Load(ctx, backend, log, state.Options{DailyReset: cfg.StatsDailyReset})

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, gen)

	opts := generative.Options{
		Tunings: generative.TuningsFromConfig(cfg),
		Timeout: cfg.GenerationTimeout,
	}
	if cfg.MetricsDBPath != "" {
		metricsStore, err := metrics.NewStore(cfg.MetricsDBPath)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize metrics store: %w", err))
		}
		closers = append(closers, metricsStore)
		opts.Recorder = metricsStore
	}

	return New(Deps{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Content:  generative.New(gen, log, opts),
		Clipper:  clipper.NewClipper(),
		Camera:   devices.Camera,
		Audio:    devices.Audio,
		OnNotice: devices.OnNotice,
		Closers:  closers,
	}), nil
}

// newGenerator picks the text provider. Groq cannot see or draw, so image
// work goes to Gemini whenever a Gemini key is configured.
func newGenerator(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.Provider != config.ProviderGroq {
		gemini, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		return gemini, nil
	}

	groq := llm.NewGroqClient(cfg)
	if cfg.GeminiAPIKey == "" {
		return groq, nil
	}
	gemini, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &mediaRouter{text: groq, media: gemini}, nil
}

type mediaRouter struct {
	text  llm.Client
	media llm.Client
}

func (r *mediaRouter) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	if req.Attachment != nil || req.WantImage {
		return r.media.Generate(ctx, req)
	}
	return r.text.Generate(ctx, req)
}

func (r *mediaRouter) Close() error {
	err := r.text.Close()
	if mErr := r.media.Close(); err == nil {
		err = mErr
	}
	return err
}
