package cache

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// BodyRecorder 包装文件读取流：响应读取的同一批字节被同时写入缓冲区，
// 只有在读到干净的 EOF 时才把完整正文写回条目；中途出错或提前 Close 的
// 读取不会留下残缺正文。
type BodyRecorder struct {
	entry *Entry
	name  string
	src   io.ReadCloser

	mu        sync.Mutex
	buf       bytes.Buffer
	committed bool
	failed    bool
}

// NewBodyRecorder 为共享条目返回记录器；临时条目无需缓冲，直接返回 src。
func NewBodyRecorder(entry *Entry, name string, src io.ReadCloser, sizeHint int64) io.ReadCloser {
	if entry == nil || !entry.Shared() {
		return src
	}
	r := &BodyRecorder{entry: entry, name: name, src: src}
	if sizeHint > 0 {
		r.buf.Grow(int(sizeHint))
	}
	return r
}

func (r *BodyRecorder) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)

	r.mu.Lock()
	defer r.mu.Unlock()
	if n > 0 && !r.failed && !r.committed {
		r.buf.Write(p[:n])
	}
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		r.commitLocked()
	default:
		r.failed = true
		r.buf.Reset()
	}
	return n, err
}

// Close 关闭底层文件；未提交的缓冲直接丢弃。
func (r *BodyRecorder) Close() error {
	r.mu.Lock()
	if !r.committed {
		r.failed = true
		r.buf.Reset()
	}
	r.mu.Unlock()
	return r.src.Close()
}

// Committed 报告正文是否已经完整写回条目。
func (r *BodyRecorder) Committed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

func (r *BodyRecorder) commitLocked() {
	if r.committed || r.failed {
		return
	}
	r.committed = true
	body := make([]byte, r.buf.Len())
	copy(body, r.buf.Bytes())
	r.buf.Reset()
	r.entry.StoreBody(r.name, body)
}
