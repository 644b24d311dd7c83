package adapters

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pierremrtn/chassis/pkg/chassis"
)

type greetCommand struct {
	Name string `json:"name"`
}

type greeting struct {
	Message string `json:"message"`
}

type resetCommand struct{}

type countQuery struct{}

type tickQuery struct{}

type failCommand struct{}

var errBoom = errors.New("boom")

// testBus wires one handler per role plus a failing one.
func testBus(t *testing.T) *chassis.Bus {
	t.Helper()
	bus := chassis.NewBus()

	require.NoError(t, chassis.RegisterCommand[greetCommand, greeting](bus,
		chassis.CommandHandlerFunc[greetCommand, greeting](func(ctx context.Context, msg greetCommand) (greeting, error) {
			return greeting{Message: fmt.Sprintf("Hello, %s", msg.Name)}, nil
		})))

	require.NoError(t, chassis.RegisterCommand[resetCommand, chassis.Void](bus,
		chassis.CommandHandlerFunc[resetCommand, chassis.Void](func(ctx context.Context, msg resetCommand) (chassis.Void, error) {
			return chassis.Void{}, nil
		})))

	require.NoError(t, chassis.RegisterCommand[failCommand, chassis.Void](bus,
		chassis.CommandHandlerFunc[failCommand, chassis.Void](func(ctx context.Context, msg failCommand) (chassis.Void, error) {
			return chassis.Void{}, errBoom
		})))

	require.NoError(t, chassis.RegisterRead[countQuery, int](bus,
		chassis.ReadHandlerFunc[countQuery, int](func(ctx context.Context, msg countQuery) (int, error) {
			return 42, nil
		})))

	require.NoError(t, chassis.RegisterWatch[tickQuery, int](bus,
		chassis.WatchHandlerFunc[tickQuery, int](func(ctx context.Context, msg tickQuery) (<-chan int, error) {
			ch := make(chan int)
			close(ch)
			return ch, nil
		})))

	return bus
}
