// Package jobqueue serializes asynchronous work per key.
//
// A Scheduler keeps one queue ("bucket") per key. The first submission for a
// key creates the bucket and starts a goroutine that runs the bucket's jobs
// strictly in submission order, one at a time. When the queue is drained the
// goroutine removes the bucket and exits; a later submission starts a fresh
// one. Different keys never wait on each other.
//
// # Memory
//
// Executed jobs stay in the bucket's backing slice until the loop has run a
// full window of CompactionLimit jobs and more are waiting. At that point the
// executed prefix is discarded. Compaction only reclaims storage: every job
// has already been settled before it is discarded.
//
// # Cancellation
//
// The Scheduler never cancels work. An operation that hangs stalls its own
// bucket only. Callers that need a deadline should put it on the context
// they submit with, and the operation must honour it.
package jobqueue
