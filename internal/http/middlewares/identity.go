package middleware

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"activity-tracker.com/activity-tracker/internal/auth"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// UserHeader carries the id of the acting user, set by the fronting
// authentication proxy.
const UserHeader = "X-User-ID"

type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// Identity resolves the acting user and stores it in the request context.
// Requests without a known user continue anonymously.
func Identity(users UserLister) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			userID := req.Header.Get(UserHeader)

			var id auth.Identity = auth.NewUserIdentity(nil)
			if userID != "" {
				list, err := users.List(req.Context())
				if err != nil {
					log.Printf("identity: failed to load users: %v", err)
				} else {
					id = auth.Resolve(list, userID)
				}
			}

			c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}
