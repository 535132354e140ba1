package send

import (
	"github.com/static-hub/static-hub/internal/resolvepath"
)

// variant is a precompressed sibling served in place of the original file.
type variant struct {
	encoding string
	suffix   string
	enabled  func(Options) bool
}

// variants are tried in order; brotli always outranks gzip.
var variants = []variant{
	{encoding: "br", suffix: "br", enabled: func(o Options) bool { return o.Brotli }},
	{encoding: "gzip", suffix: "gz", enabled: func(o Options) bool { return o.Gzip }},
}

// negotiateEncoding switches res to the first enabled variant the client
// prefers over identity and that exists next to the requested file.
func negotiateEncoding(ex Exchange, res *resolution, opts Options) error {
	if res.path.IsRoot() {
		return nil
	}
	for _, v := range variants {
		if ex.AcceptsEncodings(v.encoding, "identity") != v.encoding || !v.enabled(opts) {
			continue
		}
		candidate, err := resolvepath.WithSuffix(res.path, "."+v.suffix)
		if err != nil {
			return fromResolve(err)
		}
		if !res.entry.Encoding(v.suffix, candidate.String(), exists) {
			continue
		}

		res.path = candidate
		res.encodingExt = "." + v.suffix
		ex.Set("Content-Encoding", v.encoding)
		ex.Del("Content-Length")
		return nil
	}
	return nil
}
