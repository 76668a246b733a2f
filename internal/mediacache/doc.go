// Package mediacache stores prefetched media on disk, keyed by source URL
// digest. Writes are atomic and serialized across processes with an advisory
// file lock, so concurrent CLI invocations never corrupt an entry.
package mediacache
