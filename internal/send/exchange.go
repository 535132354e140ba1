package send

import "io"

// ResponseHeader is the part of the response the pipeline reads and writes.
type ResponseHeader interface {
	Get(key string) string
	Set(key, value string)
	Del(key string)
}

// Exchange is the request/response pair of the surrounding HTTP layer.
type Exchange interface {
	ResponseHeader

	// AcceptsEncodings returns the offer the client prefers, or "" when none
	// is acceptable. A request without Accept-Encoding prefers "identity".
	AcceptsEncodings(offers ...string) string

	// SendStream assigns a body of the given size. The implementation closes
	// r when it implements io.Closer.
	SendStream(r io.Reader, size int64) error

	// SendBytes assigns an in-memory body.
	SendBytes(body []byte) error
}
