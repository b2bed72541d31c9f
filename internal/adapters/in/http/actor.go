package http

import (
	"errors"
	"strings"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	HeaderActorEmail = "X-Actor-Email"
	HeaderActorRole  = "X-Actor-Role"

	actorContextKey = "compliance.actor"
)

// ActorMiddleware reads the caller identity forwarded by the authenticating gateway.
// Requests without the headers pass through; operations that need an actor reject them.
func ActorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawEmail := strings.TrimSpace(c.Request().Header.Get(HeaderActorEmail))
			rawRole := strings.TrimSpace(c.Request().Header.Get(HeaderActorRole))
			if rawEmail == "" && rawRole == "" {
				return next(c)
			}

			actor, err := parseActor(rawEmail, rawRole)
			if err != nil {
				return err
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func parseActor(rawEmail, rawRole string) (kernel.Actor, error) {
	var emailErr, roleErr error
	if rawEmail == "" {
		emailErr = errs.NewValueIsRequiredError(HeaderActorEmail)
	}
	if rawRole == "" {
		roleErr = errs.NewValueIsRequiredError(HeaderActorRole)
	}
	if err := errors.Join(emailErr, roleErr); err != nil {
		return kernel.Actor{}, err
	}

	email, err := kernel.NewEmail(rawEmail)
	if err != nil {
		return kernel.Actor{}, err
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(email, role)
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errs.NewValueIsRequiredError(HeaderActorEmail)
	}
	return actor, nil
}
