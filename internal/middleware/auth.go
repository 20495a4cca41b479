package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/handler"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

const ContextActor = "actor"

// ActorResolver turns a bearer token into an actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (access.Actor, error)
}

// Identify resolves the caller for every request. Requests without an
// Authorization header continue as anonymous; a header that does not carry
// a valid bearer token is rejected.
func Identify(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(ContextActor, access.Actor(access.Anonymous{}))
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			handler.RespondError(c, &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: "invalid authorization format"})
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), parts[1])
		if err != nil {
			handler.RespondError(c, err)
			return
		}

		c.Set(ContextActor, actor)
		log.Ctx(c.Request.Context()).Debug().
			Str("user_id", actor.UserID().String()).
			Str("role", access.RoleName(actor)).
			Msg("request authenticated")
		c.Next()
	}
}

// RequireAuth rejects anonymous callers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !access.Authenticated(ActorFrom(c)) {
			handler.RespondError(c, &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everyone but admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if !access.Authenticated(actor) {
			handler.RespondError(c, &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: "authentication required"})
			return
		}
		if !access.IsAdmin(actor) {
			handler.RespondError(c, apperrors.NewForbidden("admin access required"))
			return
		}
		c.Next()
	}
}

// ActorFrom returns the actor set by Identify, or Anonymous.
func ActorFrom(c *gin.Context) access.Actor {
	if v, ok := c.Get(ContextActor); ok {
		if actor, ok := v.(access.Actor); ok {
			return actor
		}
	}
	return access.Anonymous{}
}
