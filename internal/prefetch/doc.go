// Package prefetch warms every scene's media into the local cache before an
// episode is presented, so playback never stalls waiting on the network.
//
// The buffer is a settle-all join, not fail-fast: errors and timeouts count
// the same as successes toward completion.
package prefetch
