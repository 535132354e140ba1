package send

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/static-hub/static-hub/internal/resolvepath"
)

// resolveDirectory substitutes the index file when info is a directory. It
// returns handled=false when the directory cannot be served.
func resolveDirectory(res *resolution, info fs.FileInfo, opts Options) (fs.FileInfo, bool, error) {
	if !info.IsDir() {
		return info, true, nil
	}
	if !opts.Format || opts.Index == "" {
		return nil, false, nil
	}

	indexPath, err := resolvepath.Join(res.path, opts.Index)
	if err != nil {
		return nil, false, fromResolve(err)
	}
	res.path = indexPath

	info, err = statPath(res)
	if err != nil {
		return nil, false, err
	}
	if info.IsDir() {
		return nil, false, nil
	}
	return info, true, nil
}

// isHidden reports whether any segment below the root starts with a dot.
func isHidden(p resolvepath.Path) bool {
	rel := p.Rel()
	if rel == "." {
		return false
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
