package cache

import (
	"io/fs"
	"sync"
)

// ProbeFunc reports whether a filesystem name exists.
type ProbeFunc func(name string) bool

// StatFunc returns file information for name.
type StatFunc func(name string) (fs.FileInfo, error)

// Entry is the metadata remembered for one decoded request path.
//
// The mutex only guards map access. Probes and stats run unlocked, so two
// requests racing on a cold entry may both hit the filesystem and both store
// the same result.
type Entry struct {
	shared bool

	mu        sync.Mutex
	encodings map[string]bool
	paths     map[string]bool
	stats     map[string]fs.FileInfo
	bodies    map[string][]byte
}

func newEntry(shared bool) *Entry {
	return &Entry{
		shared:    shared,
		encodings: make(map[string]bool),
		paths:     make(map[string]bool),
		stats:     make(map[string]fs.FileInfo),
		bodies:    make(map[string][]byte),
	}
}

// NewEphemeral returns an entry that is not owned by any Store.
func NewEphemeral() *Entry {
	return newEntry(false)
}

// Shared reports whether the entry lives in a Store. Ephemeral entries are
// discarded when the request ends.
func (e *Entry) Shared() bool {
	return e.shared
}

// Encoding returns the remembered existence of the variant with the given
// suffix ("br", "gz"), probing name only when the suffix is unknown.
func (e *Entry) Encoding(suffix, name string, probe ProbeFunc) bool {
	e.mu.Lock()
	exists, ok := e.encodings[suffix]
	e.mu.Unlock()
	if ok {
		return exists
	}

	exists = probe(name)
	e.mu.Lock()
	e.encodings[suffix] = exists
	e.mu.Unlock()
	return exists
}

// ProbePath always probes name and records the outcome. The recorded value
// is exposed through KnownPath but never short-circuits a later probe.
func (e *Entry) ProbePath(name string, probe ProbeFunc) bool {
	exists := probe(name)
	e.mu.Lock()
	e.paths[name] = exists
	e.mu.Unlock()
	return exists
}

// KnownPath returns the last recorded probe result for name.
func (e *Entry) KnownPath(name string) (exists, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	exists, ok = e.paths[name]
	return exists, ok
}

// Stat returns the remembered FileInfo for name or calls stat. Only
// successful results are stored.
func (e *Entry) Stat(name string, stat StatFunc) (fs.FileInfo, error) {
	e.mu.Lock()
	info, ok := e.stats[name]
	e.mu.Unlock()
	if ok {
		return info, nil
	}

	info, err := stat(name)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.stats[name] = info
	e.mu.Unlock()
	return info, nil
}

// Body returns the buffered body read from name, if a complete read finished.
func (e *Entry) Body(name string) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	body, ok := e.bodies[name]
	return body, ok
}

// StoreBody keeps a complete body for name. Ephemeral entries drop it.
func (e *Entry) StoreBody(name string, body []byte) {
	if !e.shared {
		return
	}
	e.mu.Lock()
	e.bodies[name] = body
	e.mu.Unlock()
}

func (e *Entry) bodyUsage() (int, int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var size int64
	for _, body := range e.bodies {
		size += int64(len(body))
	}
	return len(e.bodies), size
}
