// Package service wraps loaded regression forests behind a single
// predict-one-record operation. Artifacts load once, eagerly for the
// default model, and stay cached for the process lifetime.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"premiumd/internal/encode"
	"premiumd/internal/model"
	"premiumd/pkg/types"
)

// State represents the lifecycle state of the service.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateError   State = "error"
)

// defaultCacheSize bounds the number of resident forests when the
// config leaves it unset.
const defaultCacheSize = 8

// Config encapsulates all tunables for Service construction.
type Config struct {
	Registry     []types.Model
	DefaultModel string
	CacheSize    int
	Logger       zerolog.Logger
}

// Service scores prediction requests against cached forest artifacts.
// Safe for concurrent use; forests are read-only after load.
type Service struct {
	mu           sync.RWMutex
	state        State
	lastErr      string
	registry     []types.Model
	defaultModel string
	cache        *lru.Cache[string, *model.Forest]

	loads       atomic.Uint64
	predictions atomic.Uint64
	startTime   time.Time
	log         zerolog.Logger
}

// New constructs a Service and eagerly loads the default model. A
// default model that is missing or unusable is a construction error:
// the process is non-functional without one, so callers should treat
// it as fatal rather than degrade.
func New(cfg Config) (*Service, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *model.Forest](size)
	if err != nil {
		return nil, fmt.Errorf("model cache: %w", err)
	}
	s := &Service{
		state:        StateLoading,
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		cache:        cache,
		startTime:    time.Now(),
		log:          cfg.Logger,
	}
	if s.defaultModel == "" && len(s.registry) > 0 {
		s.defaultModel = s.registry[0].ID
	}
	if s.defaultModel == "" {
		s.setError("no models available")
		return nil, fmt.Errorf("no models available")
	}
	if _, err := s.forest(s.defaultModel); err != nil {
		s.setError(err.Error())
		return nil, fmt.Errorf("load default model %s: %w", s.defaultModel, err)
	}
	s.mu.Lock()
	s.state = StateReady
	s.mu.Unlock()
	return s, nil
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	s.state = StateError
	s.lastErr = msg
	s.mu.Unlock()
}

// lookup resolves a model id to its registry entry.
func (s *Service) lookup(id string) (types.Model, error) {
	for _, m := range s.registry {
		if m.ID == id {
			return m, nil
		}
	}
	return types.Model{}, ErrModelNotFound(id)
}

// forest returns the cached forest for id, loading it on first use.
func (s *Service) forest(id string) (*model.Forest, error) {
	if f, ok := s.cache.Get(id); ok {
		return f, nil
	}
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	f, err := model.Load(entry.Path)
	if err != nil {
		if model.IsInvalid(err) {
			return nil, ErrArtifactUnavailable(err.Error())
		}
		return nil, ErrArtifactUnavailable(fmt.Sprintf("artifact %s: %v", entry.Path, err))
	}
	s.loads.Add(1)
	s.cache.Add(id, f)
	s.log.Info().Str("model", id).Str("path", entry.Path).Msg("artifact loaded")
	return f, nil
}

// Predict encodes one request and scores it against the requested (or
// default) model. The context is honored between the cheap steps; a
// single tree walk is fast enough to run to completion.
func (s *Service) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.PredictResponse{}, err
	}
	rec, err := encode.FromRequest(req)
	if err != nil {
		return types.PredictResponse{}, err
	}
	id := req.Model
	if id == "" {
		id = s.defaultModel
	}
	f, err := s.forest(id)
	if err != nil {
		return types.PredictResponse{}, err
	}
	charge, err := f.Predict(encode.Vector(rec))
	if err != nil {
		return types.PredictResponse{}, ErrArtifactUnavailable(fmt.Sprintf("score %s: %v", id, err))
	}
	s.predictions.Add(1)
	return types.PredictResponse{
		Model:   id,
		Charge:  charge,
		Display: FormatCharge(charge),
	}, nil
}

// FormatCharge renders a charge as currency with two decimals. Display
// only; the numeric Charge field is the semantic result.
func FormatCharge(charge float64) string {
	return fmt.Sprintf("$%.2f", charge)
}

// ListModels returns the discovered artifacts.
func (s *Service) ListModels() []types.Model {
	out := make([]types.Model, len(s.registry))
	copy(out, s.registry)
	return out
}

// Ready reports whether the default model is loaded and usable.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateReady
}

// Status returns a read-only projection of the service state.
func (s *Service) Status() types.StatusResponse {
	s.mu.RLock()
	state := s.state
	lastErr := s.lastErr
	s.mu.RUnlock()
	return types.StatusResponse{
		DefaultModel:     s.defaultModel,
		CachedModels:     s.cache.Keys(),
		RegistrySize:     len(s.registry),
		LoadsTotal:       s.loads.Load(),
		PredictionsTotal: s.predictions.Load(),
		UptimeSeconds:    int64(time.Since(s.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
		State:            string(state),
		LastError:        lastErr,
	}
}
