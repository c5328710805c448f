// Package taskpool provides a fixed-capacity, runtime-resizable pool of
// isolated execution contexts for asynchronous tasks.
//
// Tasks run on pooled workers, each wrapping its own execution context,
// with pluggable service layers such as:
//
//   - scheduler – task admission, queuing and worker assignment
//   - isolate   – execution-context substrate and entry loops
//   - registry  – named handlers with typed input/output
//   - policy    – admission rules for saturated or empty pools
//
// Taskpool is designed to be embedded in host applications.  End-users
// typically interact with the pool via the high-level Service façade
// exposed by the root package:
//
//	srv := taskpool.New(taskpool.WithPoolSize(4))
//	_ = srv.Start(ctx)
//	future, _ := srv.Submit(ctx, func(ctx context.Context) (interface{}, error) {
//		return compute(ctx)
//	})
//	out, _ := future.Wait(ctx)
//	_ = srv.Shutdown(ctx)
//
// For more details see the README and individual sub-packages.
package taskpool
