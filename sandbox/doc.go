/*
Package sandbox runs host contracts in process, without a chain.

It implements the host.Env surface over in-memory (or bbolt-backed)
key-value stores and a deterministic FIFO receipt queue. Asynchronous calls
created during a receipt are queued when the receipt succeeds; a callback
chained with Then runs after its dependency settles and observes the
outcome through PromiseResult, exactly once. Failed receipts are rolled
back wholesale and their attached deposit returns to the caller.

The scheduler is deliberately steppable: Begin executes only the entry
call, Step one queued receipt at a time, so tests can interleave calls
between the stages of a transfer-and-notify round-trip the way independent
transactions interleave on a real chain.
*/
package sandbox
