package send

import (
	"mime"
	"path/filepath"
	"strings"
)

// webTypes is consulted before the OS MIME registry so common static assets
// get the same type on every host, without the charset parameter some
// registries append.
var webTypes = map[string]string{
	// --- markup ---
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".xml":  "text/xml",
	".svg":  "image/svg+xml",
	".md":   "text/markdown",
	".txt":  "text/plain",

	// --- scripts / data ---
	".js":          "text/javascript",
	".mjs":         "text/javascript",
	".cjs":         "text/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".wasm":        "application/wasm",
	".csv":         "text/csv",
	".yaml":        "text/yaml",
	".yml":         "text/yaml",
	".toml":        "text/x-toml",

	// --- images ---
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".ico":  "image/x-icon",

	// --- fonts ---
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",

	// --- media / documents ---
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
}

// contentType infers the type from the file name with the compression suffix
// stripped, so "app.js.br" is served as JavaScript. It returns "" when the
// extension is unknown, leaving Content-Type unset.
func contentType(name, encodingExt string) string {
	base := filepath.Base(name)
	if encodingExt != "" {
		base = strings.TrimSuffix(base, encodingExt)
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ""
	}
	if t, ok := webTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}
