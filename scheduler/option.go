package scheduler

import (
	"github.com/viant/taskpool/isolate"
	"github.com/viant/taskpool/policy"
	"github.com/viant/taskpool/stats"
)

// Option customises a scheduler Service.
type Option func(*Service)

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithPoolSize sets the number of pool workers
func WithPoolSize(size int) Option {
	return func(s *Service) {
		s.config.PoolSize = size
	}
}

// WithDrainOnShrink lets workers removed by a shrink finish their in-flight
// task before termination
func WithDrainOnShrink(drain bool) Option {
	return func(s *Service) {
		s.config.DrainOnShrink = drain
	}
}

// WithSpawner sets the execution-context spawner implementation
func WithSpawner(spawner isolate.Spawner) Option {
	return func(s *Service) {
		s.spawner = spawner
	}
}

// WithPendingQueue substitutes the pending task queue implementation
func WithPendingQueue(queue PendingQueue) Option {
	return func(s *Service) {
		if queue != nil {
			s.pending = queue
		}
	}
}

// WithPolicy sets the default submission policy; a policy carried by the
// submit context takes precedence
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.pol = p
	}
}

// WithListener registers a callback invoked after every completed task
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}

// WithTracker sets the stats tracker, letting callers share one with
// metrics exporters
func WithTracker(tracker *stats.Stats) Option {
	return func(s *Service) {
		s.tracker = tracker
	}
}
