package idempotency

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/expense-tracker-service/internal/models"
)

// Middleware implements the idempotent-write protocol for the route it is
// mounted on (the create-expense POST; reads never carry it).
//
// Per request it is one of three states:
//
//   - no key:  pass through untouched. Idempotency is opt-in per request;
//     requests without a key get no replay protection.
//   - hit:     replay the cached status, content type and body verbatim and
//     abort the chain, skipping validation and persistence entirely. The
//     key, not the request body, is authoritative: a retry with a different
//     body still gets the original response.
//   - miss:    run the chain against a buffering writer, persist the
//     captured response, then deliver it.
//
// Only successful (2xx) responses are cached, so a failed write leaves the
// key unused and the client can retry with the same key. A lost insert race
// is logged and swallowed: the write itself already succeeded, and each
// concurrent caller gets its own freshly computed response. This is a
// deliberate best-effort bound, not exactly-once: two truly concurrent
// first-time requests with one key may both reach the repository, with one
// cache entry surviving.
func Middleware(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderKey))
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		rec, ok, err := store.Lookup(ctx, key)
		if err != nil {
			slog.ErrorContext(ctx, "Idempotency lookup failed", "error", err, "key", key)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
			return
		}
		if ok {
			slog.InfoContext(ctx, "Idempotency key found, returning cached response", "key", key)
			status := rec.Status
			if status == 0 {
				status = http.StatusCreated
			}
			contentType := rec.ContentType
			if contentType == "" {
				contentType = "application/json; charset=utf-8"
			}
			c.Data(status, contentType, rec.Body)
			c.Abort()
			return
		}

		w := newRecorder(c.Writer)
		c.Writer = w

		// The restore and flush must survive a handler panic: otherwise the
		// recovery middleware's 500 would land in the suppressed recorder and
		// the client would see an empty 200 for a failed write. On a panic
		// nothing is cached or flushed; the restored writer receives the 500.
		completed := false
		defer func() {
			c.Writer = w.ResponseWriter
			if !completed {
				return
			}

			if w.status >= 200 && w.status < 300 {
				inserted, err := store.InsertIfAbsent(ctx, Record{
					Key:         key,
					Status:      w.status,
					ContentType: w.Header().Get("Content-Type"),
					Body:        w.body.Bytes(),
				})
				switch {
				case err != nil:
					slog.ErrorContext(ctx, "Failed to cache idempotency key", "error", err, "key", key)
				case !inserted:
					slog.InfoContext(ctx, "Idempotency key already cached by a concurrent request", "key", key)
				default:
					slog.InfoContext(ctx, "Idempotency key saved", "key", key)
				}
			}

			w.flush()
		}()

		c.Next()
		completed = true
	}
}

// recorder buffers the downstream response so it can be persisted before it
// leaves the server. Nothing reaches the transport until flush.
type recorder struct {
	gin.ResponseWriter
	status  int
	written bool
	body    bytes.Buffer
}

func newRecorder(w gin.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.written = true
}

// WriteHeaderNow is suppressed so gin cannot flush the header early.
func (r *recorder) WriteHeaderNow() {}

func (r *recorder) Write(b []byte) (int, error) {
	r.written = true
	return r.body.Write(b)
}

func (r *recorder) WriteString(s string) (int, error) {
	r.written = true
	return r.body.WriteString(s)
}

func (r *recorder) Status() int {
	return r.status
}

func (r *recorder) Size() int {
	return r.body.Len()
}

func (r *recorder) Written() bool {
	return r.written
}

func (r *recorder) flush() {
	r.ResponseWriter.WriteHeader(r.status)
	r.ResponseWriter.WriteHeaderNow()
	if r.body.Len() > 0 {
		_, _ = r.ResponseWriter.Write(r.body.Bytes())
	}
}
