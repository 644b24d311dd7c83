package adapters

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pierremrtn/chassis/pkg/chassis"
)

// EchoAdapter mounts a bus on an Echo v4 engine
type EchoAdapter struct {
	engine *echo.Echo
	bus    *chassis.Bus
}

// NewEchoAdapter creates a new Echo adapter over an existing engine
func NewEchoAdapter(engine *echo.Echo, bus *chassis.Bus) *EchoAdapter {
	return &EchoAdapter{engine: engine, bus: bus}
}

// NewDefaultEchoAdapter creates an adapter with a fresh Echo instance
func NewDefaultEchoAdapter(bus *chassis.Bus) *EchoAdapter {
	return NewEchoAdapter(echo.New(), bus)
}

// Mount registers the dispatch route under the given prefix, e.g.
// Mount("/bus") serves POST /bus/:message.
func (a *EchoAdapter) Mount(prefix string) {
	a.engine.POST(prefix+"/:message", a.handle)
}

// Engine returns the underlying Echo instance
func (a *EchoAdapter) Engine() *echo.Echo {
	return a.engine
}

func (a *EchoAdapter) handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err))
	}

	res := dispatch(c.Request().Context(), a.bus, c.Param("message"), body)
	if res.err != nil {
		return c.JSON(res.status, errorBody(res.err))
	}
	if res.status == http.StatusNoContent {
		return c.NoContent(res.status)
	}
	return c.JSON(res.status, res.payload)
}
