// Package scheduler implements the task dispatch core: a fixed-capacity,
// runtime-resizable pool of workers, each bound to its own execution
// context, fed from an unbounded FIFO queue of pending tasks. Submissions
// return a Future that is always completed, either with the task's outcome
// or with a failure when the task errors, panics, the worker is disposed or
// the scheduler shuts down.
package scheduler
