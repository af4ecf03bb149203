package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autowhapp/platform/internal/tenancy"
)

// TenantContext copies the {businessID} route param into the request
// context so auth and downstream code can key on the tenant.
func TenantContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := chi.URLParam(r, "businessID"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				r = r.WithContext(tenancy.WithBusinessID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// TenantScope rejects admin tokens issued for a different business. A token
// whose subject is empty is platform-wide and passes every tenant check.
func TenantScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		if ok && claims.Subject != "" {
			id, present := tenancy.BusinessIDFromContext(r.Context())
			if !present || claims.Subject != strconv.FormatInt(id, 10) {
				http.Error(w, "token not valid for this business", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
