package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// rejectForeignOrigin refuses browser requests issued by another site. Requests without
// an Origin header (curl, scripts) pass; browsers always send one on cross-site POSTs.
func (s *Server) rejectForeignOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && !s.originAllowed(origin) {
			s.logger.Warn("Request Rejected", "reason", "origin", "origin", origin, "path", r.URL.Path)
			http.Error(w, "Forbidden origin", http.StatusForbidden)
			return
		}
		if origin == "" && r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			s.logger.Warn("Request Rejected", "reason", "cross-site", "path", r.URL.Path)
			http.Error(w, "Forbidden origin", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.allowedOrigins {
		if strings.EqualFold(strings.TrimRight(o, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}
	return false
}

// requireToken enforces "Authorization: Bearer <token>" when a token is configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(s.token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="deckhand"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
