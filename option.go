package taskpool

import (
	"github.com/viant/afs/storage"
	"github.com/viant/taskpool/isolate"
	"github.com/viant/taskpool/meta"
	"github.com/viant/taskpool/policy"
	"github.com/viant/taskpool/scheduler"
	"github.com/viant/taskpool/stats"
	"github.com/viant/taskpool/tracing"
	"github.com/viant/x"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service facade.
type Option func(s *Service)

// WithConfig sets the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithConfigURL defers configuration to Start, which loads it from URL
// through the meta service, so env expansion and every afs scheme apply.
func WithConfigURL(URL string) Option {
	return func(s *Service) { s.configURL = URL }
}

// WithPoolSize overrides the configured pool size.
func WithPoolSize(size int) Option {
	return func(s *Service) { s.poolSize = size }
}

// WithMetricsAddress enables the prometheus endpoint on address.
func WithMetricsAddress(address string) Option {
	return func(s *Service) { s.metricsAddress = address }
}

// WithMetaService sets the meta service used to load configuration.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) { s.metaBaseURL = url }
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithPolicy sets the default submission policy; a per-submission policy
// carried by the context still takes precedence.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.pol = p }
}

// WithListener registers an observer invoked once per task completion.
func WithListener(listener scheduler.Listener) Option {
	return func(s *Service) {
		s.schedulerOptions = append(s.schedulerOptions, scheduler.WithListener(listener))
	}
}

// WithSpawner substitutes the execution-context spawner.
func WithSpawner(spawner isolate.Spawner) Option {
	return func(s *Service) {
		s.schedulerOptions = append(s.schedulerOptions, scheduler.WithSpawner(spawner))
	}
}

// WithSchedulerOptions lets the caller supply additional options passed to
// scheduler.New.
func WithSchedulerOptions(options ...scheduler.Option) Option {
	return func(s *Service) {
		s.schedulerOptions = append(s.schedulerOptions, options...)
	}
}

// WithExtensionTypes seeds the handler type registry.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithStatsListener registers a callback invoked after every counter
// update with a snapshot of the pool counters.
func WithStatsListener(onChange func(stats.Stats)) Option {
	return func(s *Service) { s.onChange = onChange }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
