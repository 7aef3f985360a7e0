package rest

import (
	"ReferralHub/internal/core/domain"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// requestLogger writes one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := s.log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = s.log.Error()
		case status >= http.StatusBadRequest:
			evt = s.log.Warn()
		}

		if actor, ok := actorFrom(c); ok {
			evt = evt.Str("user_id", actor.UserID.String())
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// cors allows the configured origins. A single "*" allows any origin.
func (s *Server) cors() gin.HandlerFunc {
	allowAny := len(s.allowedOrigins) == 1 && s.allowedOrigins[0] == "*"
	allowed := make(map[string]struct{}, len(s.allowedOrigins))
	for _, o := range s.allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAny {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authenticate resolves the bearer token into an Actor.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			s.writeError(c, domain.ErrUnauthorized)
			return
		}

		actor, err := s.tokens.Verify(token)
		if err != nil {
			s.writeError(c, domain.ErrUnauthorized)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// requireAdmin stops non-admin callers before any handler runs.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok || !actor.IsAdmin() {
			s.writeError(c, domain.ErrForbidden)
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

func mustActor(c *gin.Context) domain.Actor {
	actor, _ := actorFrom(c)
	return actor
}
