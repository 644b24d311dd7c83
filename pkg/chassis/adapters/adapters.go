// Package adapters mounts a chassis.Bus behind popular HTTP frameworks.
// Each adapter exposes one route, POST <prefix>/:message, resolves the
// message name against the bus registry, decodes the JSON body into the
// registered message type, and dispatches under the registered role.
//
// Watch messages are rejected: a subscription channel has no place in a
// request/response exchange.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/pierremrtn/chassis/pkg/chassis"
)

// result is the outcome of one HTTP dispatch
type result struct {
	status  int
	payload any
	err     error
}

// dispatch resolves, decodes, and runs one message against the bus
func dispatch(ctx context.Context, bus *chassis.Bus, name string, body []byte) result {
	info, ok := bus.Lookup(name)
	if !ok {
		return result{
			status: http.StatusNotFound,
			err:    fmt.Errorf("no message registered under %q", name),
		}
	}
	if info.Kind == chassis.KindWatch {
		return result{
			status: http.StatusUnprocessableEntity,
			err:    fmt.Errorf("message %q is a watch query and needs a streaming transport", name),
		}
	}

	msg := reflect.New(info.Type)
	if len(body) > 0 {
		if err := json.Unmarshal(body, msg.Interface()); err != nil {
			return result{
				status: http.StatusBadRequest,
				err:    fmt.Errorf("invalid body for message %q: %w", name, err),
			}
		}
	}

	out, err := bus.Dispatch(ctx, info.Kind, msg.Elem().Interface())
	if err != nil {
		return result{status: http.StatusInternalServerError, err: err}
	}
	if _, void := out.(chassis.Void); void {
		return result{status: http.StatusNoContent}
	}
	return result{status: http.StatusOK, payload: out}
}

// errorBody is the JSON error envelope shared by all adapters
func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
