package middleware

import (
	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/internal/queue"
	"github.com/OFFIS-RIT/docvis/pkg/render"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AppUser is the caller resolved by AuthMiddleware.
type AppUser struct {
	Subject string
	Role    string
}

// KeyProvider resolves the verification key of a JWT. keyfunc.Keyfunc
// implements it.
type KeyProvider interface {
	Keyfunc(token *jwt.Token) (any, error)
}

// App holds the dependencies shared by all handlers.
type App struct {
	Pipeline *pipeline.Pipeline
	Vis      render.VisAdapter
	SVG      render.SVGAdapter
	// Key verifies bearer JWTs. Nil disables JWT auth.
	Key          KeyProvider
	MasterAPIKey string
	// Queue receives visualization jobs. Nil disables job submission.
	Queue queue.Publisher
}

// AuthEnabled reports whether /api requires credentials.
func (a *App) AuthEnabled() bool {
	return a.Key != nil || a.MasterAPIKey != ""
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{Context: c, App: app})
		}
	}
}

// GetApp returns the App of a request that went through
// AppContextMiddleware.
func GetApp(c echo.Context) *App {
	return c.(*AppContext).App
}
