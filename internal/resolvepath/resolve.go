// Package resolvepath validates an untrusted relative path and joins it onto a
// trusted root. It performs no filesystem access apart from looking up the
// working directory when the root is relative.
package resolvepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrMaliciousPath is returned for paths carrying a NUL byte or an absolute path.
	ErrMaliciousPath = errors.New("malicious path")
	// ErrForbidden is returned when the normalized path climbs above the root.
	ErrForbidden = errors.New("forbidden")
)

// upPath matches a ".." segment bounded by a separator or the string edges.
var upPath = regexp.MustCompile(`(?:^|[\\/])\.\.(?:[\\/]|$)`)

// Path is a cleaned absolute path that is the root itself or nested under it.
// The zero value is not a valid path; values only come from Resolve.
type Path struct {
	root string
	path string
}

// String returns the absolute filesystem path.
func (p Path) String() string {
	return p.path
}

// Root returns the absolute root the path was resolved against.
func (p Path) Root() string {
	return p.root
}

// Rel returns the path relative to its root, "." for the root itself.
func (p Path) Rel() string {
	rel, err := filepath.Rel(p.root, p.path)
	if err != nil {
		return "."
	}
	return rel
}

// IsRoot reports whether p is the root itself.
func (p Path) IsRoot() bool {
	return p.path != "" && p.path == p.root
}

// IsZero reports whether p was never produced by Resolve.
func (p Path) IsZero() bool {
	return p.path == ""
}

// Resolve joins relativePath onto root. An empty root means the current
// working directory. Checks run in order: NUL byte, absolute path, traversal.
func Resolve(root, relativePath string) (Path, error) {
	if strings.IndexByte(relativePath, 0) != -1 {
		return Path{}, ErrMaliciousPath
	}
	if isAbsolute(relativePath) {
		return Path{}, ErrMaliciousPath
	}
	if upPath.MatchString(filepath.Clean("." + string(filepath.Separator) + relativePath)) {
		return Path{}, ErrForbidden
	}

	absRoot, err := absoluteRoot(root)
	if err != nil {
		return Path{}, err
	}
	resolved := filepath.Clean(filepath.Join(absRoot, relativePath))
	if !within(absRoot, resolved) {
		return Path{}, ErrForbidden
	}
	return Path{root: absRoot, path: resolved}, nil
}

// ResolveCwd resolves relativePath against the current working directory.
func ResolveCwd(relativePath string) (Path, error) {
	return Resolve("", relativePath)
}

// Join appends a relative suffix (for example an index filename) to an
// already resolved path, applying the same checks as Resolve.
func Join(base Path, suffix string) (Path, error) {
	if base.IsZero() {
		return Path{}, errors.New("resolvepath: join on zero path")
	}
	rel := filepath.Join(base.Rel(), suffix)
	return Resolve(base.root, rel)
}

// WithSuffix returns base with a literal suffix appended to its final element,
// used for sibling variants such as "app.js.br" or "about.html".
func WithSuffix(base Path, suffix string) (Path, error) {
	if base.IsZero() {
		return Path{}, errors.New("resolvepath: suffix on zero path")
	}
	if strings.ContainsAny(suffix, `/\`) || strings.IndexByte(suffix, 0) != -1 {
		return Path{}, ErrMaliciousPath
	}
	// A suffix on the root names a sibling of the root, not a child.
	if base.IsRoot() {
		return Path{}, ErrForbidden
	}
	return Path{root: base.root, path: base.path + suffix}, nil
}

func absoluteRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}
	return abs, nil
}

// isAbsolute treats both separators and drive/UNC prefixes as absolute so a
// request cannot smuggle a Windows-style path onto a POSIX host.
func isAbsolute(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') && isDriveLetter(p[0])
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func within(root, p string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}
