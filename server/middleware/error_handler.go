// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/core/audit"
	"codeberg.org/phraseforge/phraseforge/server/request_context"
	"codeberg.org/phraseforge/phraseforge/server/routes"
	"github.com/rs/zerolog/log"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// The handler's output is buffered. Afterwards:
//   - If the handler returned an error without writing an error status, the
//     buffered response is discarded and a 500 error page is sent.
//   - If the handler wrote a 404 that is not JSON, the buffered response is
//     replaced with the error page.
//   - Otherwise the buffered response is sent as is.
//
// Finally the request is logged through an audit.Span.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := request_context.FromRequest(r)

		span := audit.Span{
			RequestID: rc.RequestID,
			Method:    r.Method,
			URL:       r.URL.String(),
		}

		r = r.WithContext(span.Begin(r.Context()))
		defer span.End()

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		rc.RequestError = err

		// End the span before the headers go out so that its timing is reported.
		span.End()

		var written int

		switch {
		case (err != nil && recorder.Code < http.StatusBadRequest) ||
			(recorder.Code == http.StatusNotFound && !isJSON(recorder.Header())):
			if recorder.Code == http.StatusNotFound {
				rc.StatusCode = http.StatusNotFound
			} else {
				rc.StatusCode = http.StatusInternalServerError
			}

			counter := &countingWriter{ResponseWriter: w}
			routes.ErrorPage(counter, r)
			written = counter.n

		default:
			rc.StatusCode = recorder.Code

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			n, err := recorder.Body.WriteTo(w)
			if err != nil {
				log.Err(err).Msg("Failed to write response body")
			}

			written = int(n)
		}

		span.StatusCode = rc.StatusCode
		span.ResponseSize = written
		span.Error = rc.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

func isJSON(h http.Header) bool {
	return strings.HasPrefix(h.Get("Content-Type"), "application/json")
}

// countingWriter counts the body bytes written through it.
type countingWriter struct {
	http.ResponseWriter
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.ResponseWriter.Write(p)
	c.n += n

	return n, err
}
