package send

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/static-hub/static-hub/internal/cache"
)

// HeaderFunc lets the caller adjust response headers before the defaults are
// applied. It receives the final filesystem path and its FileInfo.
type HeaderFunc func(h ResponseHeader, path string, info fs.FileInfo)

// Options configures a single Send call. Use DefaultOptions for the usual
// defaults; the zero value disables index formatting and both encodings.
type Options struct {
	// Root is the directory requests are resolved against; empty means the
	// working directory.
	Root string
	// Index is appended for trailing-slash requests and directory hits.
	Index string
	// MaxAge is emitted as Cache-Control max-age in whole seconds.
	MaxAge    time.Duration
	Immutable bool
	// Hidden allows serving paths with a segment starting with ".".
	Hidden bool
	// Format enables directory → Index substitution.
	Format bool
	// Extensions are tried in order when the request has no extension; nil disables.
	Extensions []string
	Brotli     bool
	Gzip       bool
	SetHeaders HeaderFunc

	// Cache is the site's metadata store; nil disables caching entirely.
	Cache cache.Store
	// CachePolicy decides per decoded path whether Cache is used.
	CachePolicy cache.Policy
}

// DefaultOptions returns options with Format, Brotli and Gzip enabled.
func DefaultOptions(root string) Options {
	return Options{
		Root:   root,
		Format: true,
		Brotli: true,
		Gzip:   true,
	}
}

// Validate reports malformed options. Send calls it before touching the
// filesystem so misconfiguration surfaces immediately.
func (o Options) Validate() error {
	if o.MaxAge < 0 {
		return configError("option MaxAge must not be negative")
	}
	if strings.ContainsAny(o.Index, "/\\\x00") || o.Index == "." || o.Index == ".." {
		return configError(fmt.Sprintf("option Index must be a plain file name, got %q", o.Index))
	}
	for i, ext := range o.Extensions {
		if err := validateExtension(ext); err != nil {
			return configError(fmt.Sprintf("option Extensions[%d]: %v", i, err))
		}
	}
	return nil
}

func validateExtension(ext string) error {
	trimmed := strings.TrimPrefix(ext, ".")
	if trimmed == "" {
		return fmt.Errorf("empty extension")
	}
	if strings.ContainsAny(trimmed, "/\\\x00") {
		return fmt.Errorf("extension %q contains a separator", ext)
	}
	return nil
}
