package chassis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sharedMsg struct{}
type onlyInA struct{}

func constRead(result string) ReadHandler[sharedMsg, string] {
	return ReadHandlerFunc[sharedMsg, string](
		func(ctx context.Context, msg sharedMsg) (string, error) {
			return result, nil
		})
}

func TestMerge_LastWriteWins(t *testing.T) {
	a := NewBus()
	b := NewBus()
	require.NoError(t, RegisterRead(a, constRead("from-a")))
	require.NoError(t, RegisterRead(b, constRead("from-b")))
	require.NoError(t, RegisterRead(a, ReadHandlerFunc[onlyInA, string](
		func(ctx context.Context, msg onlyInA) (string, error) {
			return "unique-a", nil
		})))

	merged := Merge(a, b)

	out, err := Read[string](context.Background(), merged, sharedMsg{})
	require.NoError(t, err)
	assert.Equal(t, "from-b", out)

	// A type unique to a still resolves after merge.
	out, err = Read[string](context.Background(), merged, onlyInA{})
	require.NoError(t, err)
	assert.Equal(t, "unique-a", out)
}

func TestMerge_InputsAreUntouched(t *testing.T) {
	a := NewBus()
	b := NewBus()
	require.NoError(t, RegisterRead(a, constRead("from-a")))
	require.NoError(t, RegisterRead(b, constRead("from-b")))

	_ = Merge(a, b)

	out, err := Read[string](context.Background(), a, sharedMsg{})
	require.NoError(t, err)
	assert.Equal(t, "from-a", out)
}

func TestMerge_MiddlewareOrderPreserved(t *testing.T) {
	var order []string
	tracer := func(name string) Middleware {
		return func(kind Kind, next Next) Next {
			return func(ctx context.Context, msg any) (any, error) {
				order = append(order, name)
				return next(ctx, msg)
			}
		}
	}

	a := NewBus()
	a.Use(tracer("a1"))
	a.Use(tracer("a2"))
	b := NewBus()
	b.Use(tracer("b1"))
	require.NoError(t, RegisterRead(b, constRead("x")))

	merged := Merge(a, b)
	_, err := Read[string](context.Background(), merged, sharedMsg{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1"}, order)
}
