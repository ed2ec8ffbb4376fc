package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pennywise/pennywise/internal/rest"
	"github.com/pennywise/pennywise/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires the middlewares shared by all routes.
func SetupMiddleware(r *mux.Router) {
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			log.Debugf("%s %s handled in %s", req.Method, req.URL.Path, time.Since(start))
		})
	})
}

// authenticate resolves the bearer access token into the current user of the request context.
func authenticate(deps *Dependencies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				log.Debug("request without bearer token")
				rest.WriteError(w, http.StatusUnauthorized, "Authentication credentials were not provided", "")
				return
			}

			uid, err := deps.TokenService.ValidateAccess(token)
			if err != nil {
				log.Debugf("invalid access token: %v", err)
				rest.WriteError(w, http.StatusUnauthorized, "Token is invalid or expired", "")
				return
			}

			ctx := req.Context()
			u, err := deps.UserService.GetUserByUid(ctx, uid)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					log.Debugf("user not found: %s", uid)
					rest.WriteError(w, http.StatusUnauthorized, "User not found", "")
					return
				}
				log.Errorf("failed to get user: %v", err)
				rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
				return
			}
			log.Tracef("user found: %s", u.Uid)
			next.ServeHTTP(w, req.WithContext(user.WithUser(ctx, u)))
		})
	}
}
