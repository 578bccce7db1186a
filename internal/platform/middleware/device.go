package middleware

import (
	"fmt"
	"net/http"

	"github.com/mssola/useragent"

	"hireflow/pkg/requestcontext"
)

// Device parses the User-Agent and stores a short browser/OS summary in the
// context. Audit events record it so remote approval decisions can be traced
// back to the device that submitted them.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.UserAgent()
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ua := useragent.New(raw)
		name, version := ua.Browser()
		summary := fmt.Sprintf("%s %s on %s", name, version, ua.OS())
		if ua.Bot() {
			summary = "bot: " + name
		}

		ctx := requestcontext.WithDevice(r.Context(), summary)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
