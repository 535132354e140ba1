package server

import (
	"bytes"
	"context"
	"io"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// fiberExchange adapts a fiber.Ctx to send.Exchange.
type fiberExchange struct {
	c       fiber.Ctx
	ctx     context.Context
	limiter *rate.Limiter
}

func newExchange(c fiber.Ctx, ctx context.Context, limiter *rate.Limiter) *fiberExchange {
	// Without this fasthttp reports text/plain for an unset Content-Type and
	// the type inferred from the file name would never be applied.
	c.Response().Header.SetNoDefaultContentType(true)
	return &fiberExchange{c: c, ctx: ctx, limiter: limiter}
}

func (e *fiberExchange) Get(key string) string {
	return e.c.GetRespHeader(key)
}

func (e *fiberExchange) Set(key, value string) {
	e.c.Set(key, value)
}

func (e *fiberExchange) Del(key string) {
	e.c.Response().Header.Del(key)
}

// AcceptsEncodings treats a missing Accept-Encoding header as identity only;
// fiber would otherwise hand back the first offer.
func (e *fiberExchange) AcceptsEncodings(offers ...string) string {
	if len(bytes.TrimSpace(e.c.Request().Header.Peek(fiber.HeaderAcceptEncoding))) == 0 {
		for _, offer := range offers {
			if offer == "identity" {
				return offer
			}
		}
		return ""
	}
	return e.c.AcceptsEncodings(offers...)
}

// SendStream copies r into the response body before returning, so a cache
// recorder wrapped around r sees the whole read inside the request.
func (e *fiberExchange) SendStream(r io.Reader, _ int64) error {
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}
	if e.limiter != nil {
		r = &throttledReader{ctx: e.ctx, src: r, limiter: e.limiter}
	}

	// io.Copy reads to EOF, which is what commits a buffered body.
	_, err := io.Copy(e.c.Response().BodyWriter(), r)
	return err
}

func (e *fiberExchange) SendBytes(body []byte) error {
	if e.limiter != nil {
		return e.SendStream(bytes.NewReader(body), int64(len(body)))
	}
	return e.c.Send(body)
}
