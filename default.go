package taskpool

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/viant/taskpool/scheduler"
)

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default returns the process-wide service, created and started with the
// package defaults on first use. Programs that need configuration, a custom
// pool size or a bounded lifetime should build their own Service with New.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = New()
		if err := defaultService.Start(context.Background()); err != nil {
			log.Errorf("failed to start default service: %v", err)
		}
	})
	return defaultService
}

// Submit schedules task on the default service.
func Submit(ctx context.Context, task scheduler.Task) (*scheduler.Future, error) {
	return Default().Submit(ctx, task)
}

// Dispatch schedules task fire-and-forget style on the default service.
func Dispatch(ctx context.Context, task scheduler.Task, onComplete scheduler.Listener) error {
	return Default().Dispatch(ctx, task, onComplete)
}

// Resize changes the default service pool size.
func Resize(ctx context.Context, size int) error {
	return Default().Resize(ctx, size)
}
