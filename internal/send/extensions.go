package send

import (
	"path/filepath"
	"strings"

	"github.com/static-hub/static-hub/internal/resolvepath"
)

// completeExtension tries each configured extension when the requested file
// name has none. The first candidate that exists replaces the path; when none
// exists the path is kept and the later stat reports 404.
func completeExtension(res *resolution, opts Options) error {
	if len(opts.Extensions) == 0 || res.path.IsRoot() || strings.Contains(filepath.Base(res.path.String()), ".") {
		return nil
	}

	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		candidate, err := resolvepath.WithSuffix(res.path, ext)
		if err != nil {
			return fromResolve(err)
		}
		if res.entry.ProbePath(candidate.String(), exists) {
			res.path = candidate
			return nil
		}
	}
	return nil
}
