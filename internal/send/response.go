package send

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/static-hub/static-hub/internal/cache"
)

// assemble writes the response headers derived from info and assigns the body.
// Headers already present on the response (for example from SetHeaders) win
// over Last-Modified, Cache-Control and Content-Type defaults.
func assemble(ex Exchange, res *resolution, info fs.FileInfo, opts Options) error {
	name := res.path.String()

	if opts.SetHeaders != nil {
		opts.SetHeaders(ex, name, info)
	}

	ex.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if ex.Get("Last-Modified") == "" {
		ex.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	}
	if ex.Get("Cache-Control") == "" {
		ex.Set("Cache-Control", cacheControl(opts))
	}
	if ex.Get("Content-Type") == "" {
		if ct := contentType(name, res.encodingExt); ct != "" {
			ex.Set("Content-Type", ct)
		}
	}

	if body, ok := res.entry.Body(name); ok {
		return ex.SendBytes(body)
	}

	f, err := os.Open(name)
	if err != nil {
		return fromStat(err)
	}
	body := cache.NewBodyRecorder(res.entry, name, f, info.Size())
	if err := ex.SendStream(body, info.Size()); err != nil {
		return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "assign body", Err: err}
	}
	return nil
}

func cacheControl(opts Options) string {
	directives := []string{fmt.Sprintf("max-age=%d", int64(opts.MaxAge.Seconds()))}
	if opts.Immutable {
		directives = append(directives, "immutable")
	}
	return strings.Join(directives, ",")
}
