// Package reactive provides a minimal reactive effect synchronization core
// for Go.
//
// React-ive Go keeps one logical unit of asynchronous computation in sync
// with the inputs that feed it: it re-runs side effects when inputs change,
// discards results that arrive too late to matter, coalesces rapid input
// bursts, and releases every resource it holds deterministically on teardown.
//
// # What lives where
//
// The umbrella package holds the connective tissue: Subject and Observable,
// a small fan-out primitive every component publishes through. The components
// themselves are subpackages:
//
//   - watch: a pure predicate deciding whether a dependency set changed
//   - debounce: trailing-edge timers that coalesce bursts into one firing
//   - resource: generation-tagged asynchronous producers with stale-result
//     suppression and a {pending, succeeded, failed} status feed
//   - mirror: values mirrored into a durable key-value store with debounced
//     flushing and hydrate-on-first-use
//   - guard: callbacks fired for interactions landing outside a region
//
// # Lifecycle
//
// Every component is constructed explicitly and owns a Close method that is
// safe to call more than once. Nothing is torn down implicitly by a host;
// callers wire Close into whatever scoping mechanism they have (defer,
// context cancellation, their framework's unmount hook).
//
// # Temporal races
//
// No shared-memory races are possible across a single component instance,
// but temporal ones are: a slow producer settling after a newer one already
// started. The core resolves those with generation tags; stale completions
// are discarded, never queued or reordered.
package reactive
