package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/wordclimb/wordclimb-api/auth"
)

type contextKey string

const adminUserKey contextKey = "adminUser"

// RequireAdmin guards admin-only routes. The token is read from the
// Authorization bearer header or the admin_token cookie set at login.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := r.Cookie("admin_token"); err == nil {
			tokenString = cookie.Value
		}

		if tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		username, err := auth.VerifyAdminToken(tokenString)
		if err != nil {
			log.Printf("RequireAdmin: invalid token: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminUserKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminUsername returns the admin name attached by RequireAdmin.
func AdminUsername(r *http.Request) (string, bool) {
	username, ok := r.Context().Value(adminUserKey).(string)
	return username, ok
}
