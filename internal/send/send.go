// Package send resolves a client-supplied path against a site root and serves
// the best-matching file: directory index, extension completion and
// precompressed variants, backed by an optional per-path metadata cache.
package send

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/resolvepath"
)

// resolution carries the per-request state between pipeline stages.
type resolution struct {
	path        resolvepath.Path
	encodingExt string
	entry       *cache.Entry
}

// Send serves rawPath, the undecoded path of the request target. It returns
// the filesystem path that was served, or "" with a nil error when the request
// is not handled (directory without index, hidden path). Failures are *Error.
func Send(ctx context.Context, ex Exchange, rawPath string, opts Options) (string, error) {
	if ex == nil {
		return "", configError("exchange required")
	}
	if rawPath == "" {
		return "", configError("pathname required")
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "request cancelled", Err: err}
	}

	trailingSlash := strings.HasSuffix(rawPath, "/")
	decoded, err := decodePath(rawPath)
	if err != nil {
		return "", invalidInput("failed to decode", err)
	}

	res := &resolution{entry: entryFor(opts, decoded)}

	rel := decoded
	if opts.Index != "" && trailingSlash {
		rel += opts.Index
	}
	res.path, err = resolvepath.Resolve(opts.Root, rel)
	if err != nil {
		return "", fromResolve(err)
	}

	if !opts.Hidden && isHidden(res.path) {
		return "", nil
	}

	if err := negotiateEncoding(ex, res, opts); err != nil {
		return "", err
	}
	if err := completeExtension(res, opts); err != nil {
		return "", err
	}

	info, err := statPath(res)
	if err != nil {
		return "", err
	}
	info, handled, err := resolveDirectory(res, info, opts)
	if err != nil || !handled {
		return "", err
	}

	if err := assemble(ex, res, info, opts); err != nil {
		return "", err
	}
	return res.path.String(), nil
}

var errInvalidUTF8 = errors.New("invalid utf-8 in path")

// decodePath strips the leading "/" and percent-decodes the remainder. The
// decoded path must be valid UTF-8.
func decodePath(raw string) (string, error) {
	decoded, err := url.PathUnescape(strings.TrimPrefix(raw, "/"))
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(decoded) {
		return "", errInvalidUTF8
	}
	return decoded, nil
}

func entryFor(opts Options, key string) *cache.Entry {
	if opts.Cache == nil {
		return cache.NewEphemeral()
	}
	return opts.Cache.Ensure(key, opts.CachePolicy)
}

func statPath(res *resolution) (fs.FileInfo, error) {
	info, err := res.entry.Stat(res.path.String(), os.Stat)
	if err != nil {
		return nil, fromStat(err)
	}
	return info, nil
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
