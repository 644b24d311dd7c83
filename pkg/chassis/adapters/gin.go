package adapters

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pierremrtn/chassis/pkg/chassis"
)

// GinAdapter mounts a bus on a Gin engine
type GinAdapter struct {
	engine *gin.Engine
	bus    *chassis.Bus
}

// NewGinAdapter creates a new Gin adapter over an existing engine
func NewGinAdapter(engine *gin.Engine, bus *chassis.Bus) *GinAdapter {
	return &GinAdapter{engine: engine, bus: bus}
}

// NewDefaultGinAdapter creates an adapter with a fresh Gin engine
func NewDefaultGinAdapter(bus *chassis.Bus) *GinAdapter {
	return NewGinAdapter(gin.New(), bus)
}

// Mount registers the dispatch route under the given prefix
func (a *GinAdapter) Mount(prefix string) {
	a.engine.POST(prefix+"/:message", a.handle)
}

// Engine returns the underlying Gin engine
func (a *GinAdapter) Engine() *gin.Engine {
	return a.engine
}

func (a *GinAdapter) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}

	res := dispatch(c.Request.Context(), a.bus, c.Param("message"), body)
	switch {
	case res.err != nil:
		c.JSON(res.status, errorBody(res.err))
	case res.status == http.StatusNoContent:
		c.Status(res.status)
	default:
		c.JSON(res.status, res.payload)
	}
}
