// Package session keeps per-device session records and serializes every
// mutation of one device's record.
//
// Work for an address is submitted to a jobqueue.Scheduler keyed by the
// address text, so concurrent callers touching the same device run one
// after another in call order while different devices proceed in parallel.
package session
