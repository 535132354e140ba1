package send

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// recorder is an in-memory Exchange used by the pipeline tests.
type recorder struct {
	acceptEncoding string
	header         http.Header
	body           []byte
	streamed       bool
	size           int64
}

func newRecorder(acceptEncoding string) *recorder {
	return &recorder{acceptEncoding: acceptEncoding, header: http.Header{}}
}

func (r *recorder) Get(key string) string { return r.header.Get(key) }
func (r *recorder) Set(key, value string) { r.header.Set(key, value) }
func (r *recorder) Del(key string)        { r.header.Del(key) }

func (r *recorder) AcceptsEncodings(offers ...string) string {
	if strings.TrimSpace(r.acceptEncoding) == "" {
		for _, offer := range offers {
			if offer == "identity" {
				return offer
			}
		}
		return ""
	}
	accepted := map[string]bool{}
	for _, part := range strings.Split(r.acceptEncoding, ",") {
		name := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		accepted[strings.ToLower(name)] = true
	}
	for _, offer := range offers {
		if accepted[offer] || accepted["*"] {
			return offer
		}
	}
	return ""
}

func (r *recorder) SendStream(body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if closer, ok := body.(io.Closer); ok {
		closer.Close()
	}
	if err != nil {
		return err
	}
	r.body = data
	r.size = size
	r.streamed = true
	return nil
}

func (r *recorder) SendBytes(body []byte) error {
	r.body = body
	r.size = int64(len(body))
	r.streamed = false
	return nil
}

// writeTree creates files (relative slash paths → content) below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// failingStream rejects every stream and keeps the reader without closing it.
type failingStream struct {
	*recorder
	held io.Reader
}

func (f *failingStream) SendStream(body io.Reader, _ int64) error {
	f.held = body
	return errors.New("client went away")
}

// closeHeld closes the reader handed to SendStream.
func (f *failingStream) closeHeld() error {
	closer, ok := f.held.(io.Closer)
	if !ok {
		return errors.New("stream is not closable")
	}
	return closer.Close()
}
