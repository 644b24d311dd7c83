package adapters

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pierremrtn/chassis/pkg/chassis"
)

// FiberAdapter mounts a bus on a Fiber v2 app
type FiberAdapter struct {
	app *fiber.App
	bus *chassis.Bus
}

// NewFiberAdapter creates a new Fiber adapter over an existing app
func NewFiberAdapter(app *fiber.App, bus *chassis.Bus) *FiberAdapter {
	return &FiberAdapter{app: app, bus: bus}
}

// NewDefaultFiberAdapter creates an adapter with a fresh Fiber app
func NewDefaultFiberAdapter(bus *chassis.Bus) *FiberAdapter {
	return NewFiberAdapter(fiber.New(), bus)
}

// Mount registers the dispatch route under the given prefix
func (a *FiberAdapter) Mount(prefix string) {
	a.app.Post(prefix+"/:message", a.handle)
}

// App returns the underlying Fiber app
func (a *FiberAdapter) App() *fiber.App {
	return a.app
}

func (a *FiberAdapter) handle(c *fiber.Ctx) error {
	res := dispatch(c.UserContext(), a.bus, c.Params("message"), c.Body())
	if res.err != nil {
		return c.Status(res.status).JSON(errorBody(res.err))
	}
	if res.status == http.StatusNoContent {
		return c.SendStatus(res.status)
	}
	return c.Status(res.status).JSON(res.payload)
}
