// Package isolate defines the contract between the scheduler and the
// execution-isolation substrate its workers run on: spawn an execution
// context running an entry loop, receive the context handle back once the
// loop is up (the readiness handshake), then exchange request/result
// messages with it until the context is terminated.
//
// The default substrate spawns a goroutine per context and passes messages
// over channels. The substrate is pluggable so that tests can substitute
// a context with, for example, a deliberately slow handshake.
package isolate
