package cache

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func TestStoreEnsureHonoursPolicy(t *testing.T) {
	store := NewStore()

	ephemeral := store.Ensure("a.txt", Never)
	if ephemeral.Shared() {
		t.Fatalf("expected ephemeral entry when policy does not match")
	}
	if _, ok := store.Lookup("a.txt"); ok {
		t.Fatalf("ephemeral entry must not be stored")
	}

	shared := store.Ensure("a.txt", Always)
	if !shared.Shared() {
		t.Fatalf("expected shared entry")
	}
	if again := store.Ensure("a.txt", Never); again != shared {
		t.Fatalf("existing entry should be reused regardless of policy")
	}
	if got := store.Keys(); len(got) != 1 || got[0] != "a.txt" {
		t.Fatalf("unexpected keys: %v", got)
	}

	store.Reset()
	if _, ok := store.Lookup("a.txt"); ok {
		t.Fatalf("reset should drop entries")
	}
}

func TestStoreEnsureNilPolicy(t *testing.T) {
	store := NewStore()
	if store.Ensure("x", nil).Shared() {
		t.Fatalf("nil policy should never activate the cache")
	}
}

func TestMatchPattern(t *testing.T) {
	policy, err := MatchPattern(`^assets/`)
	if err != nil {
		t.Fatalf("MatchPattern error: %v", err)
	}
	if !policy.Match("assets/app.js") {
		t.Fatalf("expected match")
	}
	if policy.Match("index.html") {
		t.Fatalf("unexpected match")
	}

	if p, _ := MatchPattern(""); p.Match("anything") {
		t.Fatalf("empty pattern should never match")
	}
	if p, _ := MatchPattern("*"); !p.Match("anything") {
		t.Fatalf("* should always match")
	}
	if _, err := MatchPattern("("); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestEntryEncodingMemoizes(t *testing.T) {
	entry := newEntry(true)
	var calls int
	probe := func(string) bool {
		calls++
		return true
	}

	if !entry.Encoding("br", "/x.br", probe) {
		t.Fatalf("expected true")
	}
	if !entry.Encoding("br", "/x.br", probe) {
		t.Fatalf("expected cached true")
	}
	if calls != 1 {
		t.Fatalf("expected a single probe, got %d", calls)
	}
}

func TestEntryProbePathAlwaysProbes(t *testing.T) {
	entry := newEntry(true)
	var calls int
	probe := func(string) bool {
		calls++
		return calls > 1
	}

	if entry.ProbePath("/x.html", probe) {
		t.Fatalf("first probe should report false")
	}
	if !entry.ProbePath("/x.html", probe) {
		t.Fatalf("second probe should report the fresh result")
	}
	if calls != 2 {
		t.Fatalf("expected two probes, got %d", calls)
	}
	if exists, ok := entry.KnownPath("/x.html"); !ok || !exists {
		t.Fatalf("expected recorded result, got %v %v", exists, ok)
	}
}

func TestEntryStatStoresOnlySuccess(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(file, []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entry := newEntry(true)
	var calls int
	stat := func(name string) (fs.FileInfo, error) {
		calls++
		return os.Stat(name)
	}

	if _, err := entry.Stat(filepath.Join(dir, "missing"), stat); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
	if _, err := entry.Stat(filepath.Join(dir, "missing"), stat); err == nil {
		t.Fatalf("failed stat must not be cached")
	}
	if _, err := entry.Stat(file, stat); err != nil {
		t.Fatalf("stat: %v", err)
	}
	if _, err := entry.Stat(file, stat); err != nil {
		t.Fatalf("cached stat: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 stat calls, got %d", calls)
	}
}

func TestBodyRecorderCommitsOnEOF(t *testing.T) {
	store := NewStore()
	entry := store.Ensure("k", Always)

	rec := NewBodyRecorder(entry, "/f", io.NopCloser(bytes.NewReader([]byte("payload"))), 7)
	var out bytes.Buffer
	if _, err := io.Copy(&out, rec); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if out.String() != "payload" {
		t.Fatalf("unexpected streamed body: %q", out.String())
	}
	body, ok := entry.Body("/f")
	if !ok || string(body) != "payload" {
		t.Fatalf("expected buffered body, got %q %v", body, ok)
	}
	if stats := store.Stats(); stats.Bodies != 1 || stats.BodyBytes != 7 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestBodyRecorderDiscardsPartialRead(t *testing.T) {
	entry := newEntry(true)
	rec := NewBodyRecorder(entry, "/f", io.NopCloser(bytes.NewReader([]byte("payload"))), 0)

	buf := make([]byte, 3)
	if _, err := rec.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := entry.Body("/f"); ok {
		t.Fatalf("partial read must not be stored")
	}
}

func TestBodyRecorderDiscardsOnError(t *testing.T) {
	entry := newEntry(true)
	src := io.NopCloser(io.MultiReader(bytes.NewReader([]byte("abc")), errReader{}))
	rec := NewBodyRecorder(entry, "/f", src, 0)

	if _, err := io.ReadAll(rec); err == nil {
		t.Fatalf("expected read error")
	}
	rec.Close()
	if _, ok := entry.Body("/f"); ok {
		t.Fatalf("failed read must not be stored")
	}
}

func TestBodyRecorderSkipsEphemeralEntries(t *testing.T) {
	src := io.NopCloser(bytes.NewReader(nil))
	if got := NewBodyRecorder(newEntry(false), "/f", src, 0); got != src {
		t.Fatalf("ephemeral entries should not be wrapped")
	}
}

func TestEntryConcurrentProbesAreIdempotent(t *testing.T) {
	store := NewStore()
	var probes atomic.Int32
	probe := func(string) bool {
		probes.Add(1)
		return true
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry := store.Ensure("same", Always)
			if !entry.Encoding("gz", "/same.gz", probe) {
				t.Errorf("expected gz to exist")
			}
		}()
	}
	wg.Wait()

	if n := probes.Load(); n < 1 || n > 16 {
		t.Fatalf("unexpected probe count %d", n)
	}
	if len(store.Keys()) != 1 {
		t.Fatalf("expected a single shared entry")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}
