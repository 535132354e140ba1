// Package cache holds the in-memory metadata store that lets the send pipeline
// skip repeated filesystem probes for the same logical request path. Entries are
// keyed by the decoded request path and remember which precompressed siblings
// exist, which extension candidates were found, stat results per resolved path,
// and fully buffered bodies. A Policy decides per request whether the shared
// entry is used; otherwise callers get an ephemeral entry that is dropped after
// the request. The store never evicts: it is meant for small, bounded file sets.
package cache
