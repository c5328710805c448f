package taskpool

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/taskpool/internal/clock"
	"github.com/viant/taskpool/meta"
	"github.com/viant/taskpool/metrics"
	"github.com/viant/taskpool/policy"
	"github.com/viant/taskpool/registry"
	"github.com/viant/taskpool/scheduler"
	"github.com/viant/taskpool/stats"
	"github.com/viant/taskpool/tracing"
	"github.com/viant/x"
)

// Service assembles the dispatch core, the named handler registry and the
// optional metrics endpoint from one Config.
type Service struct {
	config    *Config
	configURL string

	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option

	poolSize       int
	metricsAddress string
	pol            *policy.Policy

	scheduler *scheduler.Service
	handlers  *registry.Service
	tracker   *stats.Stats

	schedulerOptions []scheduler.Option
	extensionTypes   []*x.Type
	onChange         func(stats.Stats)

	metricsCancel context.CancelFunc
	metricsDone   chan struct{}
}

// New creates a service. Construction never fails; configuration problems
// surface from Start.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
}

func (s *Service) ensureBaseSetup() {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	s.handlers = registry.New(s.extensionTypes...)
}

// Start resolves the configuration, builds the scheduler and brings the
// pool to its configured size. The supplied context bounds the lifetime of
// every execution context the pool spawns.
func (s *Service) Start(ctx context.Context) error {
	if s.scheduler != nil {
		return fmt.Errorf("service already started")
	}
	if s.configURL != "" {
		config := &Config{}
		if err := s.metaService.Load(ctx, s.configURL, config); err != nil {
			return err
		}
		s.config = config
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.config.Telemetry.Enabled {
		name := s.config.Telemetry.ServiceName
		if name == "" {
			name = "taskpool"
		}
		if err := tracing.Init(name, s.config.Telemetry.ServiceVersion, s.config.Telemetry.OutputFile); err != nil {
			return err
		}
	}

	cfg := s.config.schedulerConfig()
	if s.poolSize > 0 {
		cfg.PoolSize = s.poolSize
	}
	name := s.config.Name
	if name == "" {
		name = "taskpool"
	}
	tracker := &stats.Stats{Pool: name, StartedAt: clock.Now()}
	options := append([]scheduler.Option{
		scheduler.WithConfig(cfg),
		scheduler.WithTracker(tracker),
	}, s.schedulerOptions...)
	pol := s.pol
	if pol == nil && s.config.Policy != nil {
		pol = policy.FromConfig(s.config.Policy)
	}
	if pol != nil {
		options = append(options, scheduler.WithPolicy(pol))
	}

	core, err := scheduler.New(options...)
	if err != nil {
		return err
	}
	if err = core.Start(ctx); err != nil {
		return err
	}
	s.scheduler = core
	s.tracker = core.Tracker()
	if s.onChange != nil {
		s.tracker.OnChange(s.onChange)
	}

	address := s.config.Metrics.Address
	enabled := s.config.Metrics.Enabled
	if s.metricsAddress != "" {
		address, enabled = s.metricsAddress, true
	}
	if enabled {
		s.startMetrics(ctx, address)
	}
	return nil
}

func (s *Service) startMetrics(ctx context.Context, address string) {
	reg := metrics.NewRegistry(s.tracker)
	metricsCtx, cancel := context.WithCancel(ctx)
	s.metricsCancel = cancel
	s.metricsDone = make(chan struct{})
	go func() {
		defer close(s.metricsDone)
		if err := metrics.Serve(metricsCtx, address, reg); err != nil {
			log.Errorf("metrics server stopped: %v", err)
		}
	}()
}

// Shutdown stops the metrics endpoint and the scheduler. Queued tasks fail
// with scheduler.ErrClosed, in-flight tasks with scheduler.ErrWorkerDisposed,
// and every completion is delivered before Shutdown returns, unless ctx
// expires first.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.metricsCancel != nil {
		s.metricsCancel()
		select {
		case <-s.metricsDone:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.metricsCancel = nil
	}
	if s.scheduler == nil {
		return scheduler.ErrNotStarted
	}
	return s.scheduler.Shutdown(ctx)
}

// Submit schedules task for execution and returns its future.
func (s *Service) Submit(ctx context.Context, task scheduler.Task) (*scheduler.Future, error) {
	if s.scheduler == nil {
		return nil, scheduler.ErrNotStarted
	}
	return s.scheduler.Submit(ctx, task)
}

// Dispatch schedules task fire-and-forget style; onComplete, which may be
// nil, receives the outcome exactly once.
func (s *Service) Dispatch(ctx context.Context, task scheduler.Task, onComplete scheduler.Listener) error {
	if s.scheduler == nil {
		return scheduler.ErrNotStarted
	}
	return s.scheduler.Dispatch(ctx, task, onComplete)
}

// Resize grows or shrinks the pool at runtime.
func (s *Service) Resize(ctx context.Context, size int) error {
	if s.scheduler == nil {
		return scheduler.ErrNotStarted
	}
	return s.scheduler.Resize(ctx, size)
}

// Register adds a named handler with typed input/output prototypes.
func (s *Service) Register(name string, input, output interface{}, handler registry.Handler) error {
	return s.handlers.Register(name, input, output, handler)
}

// SubmitNamed schedules the named handler with the supplied loose input.
// The returned future resolves to a pointer to the handler's typed output.
func (s *Service) SubmitNamed(ctx context.Context, name string, input interface{}) (*scheduler.Future, error) {
	if s.scheduler == nil {
		return nil, scheduler.ErrNotStarted
	}
	return s.scheduler.Submit(ctx, s.handlers.Task(name, input))
}

// RegisterExtensionTypes adds Go types to the handler type registry.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.handlers.Types().Register(types[i])
	}
}

// Scheduler exposes the dispatch core; nil until Start.
func (s *Service) Scheduler() *scheduler.Service {
	return s.scheduler
}

// Handlers exposes the named handler registry.
func (s *Service) Handlers() *registry.Service {
	return s.handlers
}

// Tracker exposes the pool counters; nil until Start.
func (s *Service) Tracker() *stats.Stats {
	return s.tracker
}
