/*
Package host defines the surface of the blockchain execution host as seen by
guest contracts.

A contract is an implementation of [Contract]: the host dispatches an
incoming call to Invoke with an [Env] scoped to that single call. Within one
invocation execution is sequential and uninterrupted; asynchrony exists only
between calls. A contract initiates an outbound call with [Env.CallMethod]
and chains a callback to it with [Promise.Then]; the host delivers the
outcome of the dependency to the callback exactly once, via
[Env.PromiseResult].

Failure is signalled by panicking. The host recovers the panic, discards the
state mutations of the failed call and returns the attached value to the
caller, so a panicking entry point never leaves partial state behind.
*/
package host
