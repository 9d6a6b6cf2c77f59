// Package requestid tags each request with an ID that follows it through
// logs, spans and published submissions.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"casebook/pkg/requestcontext"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

const maxLength = 128

// Middleware reuses a caller supplied ID when it looks sane, otherwise it
// generates a UUID. The ID is echoed on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
