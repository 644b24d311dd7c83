// Package chassis provides the runtime dispatch core that generated code wires
// into: a role-keyed message registry, a middleware chain, and a pure merge
// operation. Generated aggregators register handlers during construction; after
// that the bus is treated as read-only and is safe for concurrent dispatch.
package chassis

import (
	"context"
	"reflect"
	"sort"
)

// Kind identifies the dispatch role of a message.
type Kind int

const (
	KindCommand Kind = iota
	KindRead
	KindWatch
)

// String returns the lowercase role name used in diagnostics and adapters.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindRead:
		return "read"
	case KindWatch:
		return "watch"
	default:
		return "unknown"
	}
}

// Void is the result type of commands that return nothing.
type Void struct{}

// CommandHandler fulfills exactly one command message type.
type CommandHandler[M any, R any] interface {
	Handle(ctx context.Context, msg M) (R, error)
}

// ReadHandler fulfills exactly one one-shot query message type.
type ReadHandler[M any, R any] interface {
	Handle(ctx context.Context, msg M) (R, error)
}

// WatchHandler fulfills exactly one continuous query message type. The returned
// channel is owned by the handler; it must be closed when the given context is
// cancelled, and each Handle call must produce an independent subscription so
// that cancelling one never affects siblings.
type WatchHandler[M any, R any] interface {
	Handle(ctx context.Context, msg M) (<-chan R, error)
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc[M any, R any] func(ctx context.Context, msg M) (R, error)

func (f CommandHandlerFunc[M, R]) Handle(ctx context.Context, msg M) (R, error) {
	return f(ctx, msg)
}

// ReadHandlerFunc adapts a function to ReadHandler.
type ReadHandlerFunc[M any, R any] func(ctx context.Context, msg M) (R, error)

func (f ReadHandlerFunc[M, R]) Handle(ctx context.Context, msg M) (R, error) {
	return f(ctx, msg)
}

// WatchHandlerFunc adapts a function to WatchHandler.
type WatchHandlerFunc[M any, R any] func(ctx context.Context, msg M) (<-chan R, error)

func (f WatchHandlerFunc[M, R]) Handle(ctx context.Context, msg M) (<-chan R, error) {
	return f(ctx, msg)
}

// VoidCommandHandler is the shape of command handlers that return nothing.
// Generated aggregators adapt them with AsCommand before registration.
type VoidCommandHandler[M any] interface {
	Handle(ctx context.Context, msg M) error
}

type voidAdapter[M any] struct {
	h VoidCommandHandler[M]
}

func (a voidAdapter[M]) Handle(ctx context.Context, msg M) (Void, error) {
	return Void{}, a.h.Handle(ctx, msg)
}

// AsCommand adapts a void command handler to CommandHandler[M, Void].
func AsCommand[M any](h VoidCommandHandler[M]) CommandHandler[M, Void] {
	return voidAdapter[M]{h: h}
}

// Next is the continuation a middleware wraps. The msg argument is the message
// value being dispatched; the result is the handler's return value (for watch
// dispatch, the subscription channel).
type Next func(ctx context.Context, msg any) (any, error)

// Middleware wraps the dispatch operation to inject cross-cutting behavior.
// Middlewares run for every role.
type Middleware func(kind Kind, next Next) Next

// entry is a registered handler wrapped so handlers of different message types
// can share one map.
type entry struct {
	kind     Kind
	msgType  reflect.Type
	instance any
	invoke   Next
}

// Bus is the runtime registry plus middleware chain. Lookup is role-specific:
// a command never resolves against the read or watch maps.
//
// All Register calls must happen during the single-threaded wiring phase,
// before the first dispatch. No locks guard the maps; the wiring phase is
// established to happen-before every dispatch.
type Bus struct {
	commands   map[reflect.Type]entry
	reads      map[reflect.Type]entry
	watches    map[reflect.Type]entry
	middleware []Middleware
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		commands: make(map[reflect.Type]entry),
		reads:    make(map[reflect.Type]entry),
		watches:  make(map[reflect.Type]entry),
	}
}

// Use appends a middleware. The chain is append-only; the first middleware
// registered wraps all others.
func (b *Bus) Use(mw Middleware) {
	b.middleware = append(b.middleware, mw)
}

func (b *Bus) roleMap(kind Kind) map[reflect.Type]entry {
	switch kind {
	case KindCommand:
		return b.commands
	case KindRead:
		return b.reads
	default:
		return b.watches
	}
}

func (b *Bus) register(e entry) error {
	m := b.roleMap(e.kind)
	if _, ok := m[e.msgType]; ok {
		return &DuplicateRegistrationError{Kind: e.kind, Message: e.msgType}
	}
	m[e.msgType] = e
	return nil
}

// RegisterCommand registers a command handler for message type M.
// Registering a second handler for the same type and role is a hard error.
//
// This is a package-level function because methods cannot have type parameters
// independent of the receiver.
func RegisterCommand[M any, R any](b *Bus, h CommandHandler[M, R]) error {
	return b.register(entry{
		kind:     KindCommand,
		msgType:  reflect.TypeOf((*M)(nil)).Elem(),
		instance: h,
		invoke: func(ctx context.Context, msg any) (any, error) {
			return h.Handle(ctx, msg.(M))
		},
	})
}

// RegisterRead registers a one-shot query handler for message type M.
func RegisterRead[M any, R any](b *Bus, h ReadHandler[M, R]) error {
	return b.register(entry{
		kind:     KindRead,
		msgType:  reflect.TypeOf((*M)(nil)).Elem(),
		instance: h,
		invoke: func(ctx context.Context, msg any) (any, error) {
			return h.Handle(ctx, msg.(M))
		},
	})
}

// RegisterWatch registers a continuous query handler for message type M.
func RegisterWatch[M any, R any](b *Bus, h WatchHandler[M, R]) error {
	return b.register(entry{
		kind:     KindWatch,
		msgType:  reflect.TypeOf((*M)(nil)).Elem(),
		instance: h,
		invoke: func(ctx context.Context, msg any) (any, error) {
			return h.Handle(ctx, msg.(M))
		},
	})
}

// Dispatch resolves msg against the role-specific map and invokes the handler
// through the middleware chain. Absence is a typed lookup failure, never a
// fallback to another role.
func (b *Bus) Dispatch(ctx context.Context, kind Kind, msg any) (any, error) {
	t := reflect.TypeOf(msg)
	e, ok := b.roleMap(kind)[t]
	if !ok {
		return nil, &NotRegisteredError{Kind: kind, Message: t}
	}

	// Fold right-to-left so the first middleware registered ends up outermost.
	next := e.invoke
	for i := len(b.middleware) - 1; i >= 0; i-- {
		next = b.middleware[i](kind, next)
	}
	return next(ctx, msg)
}

// Run dispatches a command and returns its typed result.
func Run[R any](ctx context.Context, b *Bus, msg any) (R, error) {
	return dispatchTyped[R](ctx, b, KindCommand, msg)
}

// Read dispatches a one-shot query and returns its typed result.
func Read[R any](ctx context.Context, b *Bus, msg any) (R, error) {
	return dispatchTyped[R](ctx, b, KindRead, msg)
}

// Watch dispatches a continuous query and returns the subscription channel.
// Each call produces an independent subscription; cancel ctx to stop it.
func Watch[R any](ctx context.Context, b *Bus, msg any) (<-chan R, error) {
	return dispatchTyped[<-chan R](ctx, b, KindWatch, msg)
}

func dispatchTyped[R any](ctx context.Context, b *Bus, kind Kind, msg any) (R, error) {
	var zero R
	out, err := b.Dispatch(ctx, kind, msg)
	if err != nil {
		return zero, err
	}
	res, ok := out.(R)
	if !ok {
		return zero, &ResultTypeError{
			Kind:    kind,
			Message: reflect.TypeOf(msg),
			Want:    reflect.TypeOf((*R)(nil)).Elem(),
			Got:     reflect.TypeOf(out),
		}
	}
	return res, nil
}

// MessageInfo describes one registered message type, for introspection and
// transport adapters.
type MessageInfo struct {
	Kind Kind
	Name string
	Type reflect.Type
}

// Lookup finds a registered message type by its unqualified type name. A name
// carried by more than one registered type (same type name from different
// packages, or one type under several roles) is ambiguous and does not
// resolve; map iteration order must never pick the winner.
func (b *Bus) Lookup(name string) (MessageInfo, bool) {
	var found MessageInfo
	matches := 0
	for _, kind := range []Kind{KindCommand, KindRead, KindWatch} {
		for t, e := range b.roleMap(kind) {
			if t.Name() == name {
				found = MessageInfo{Kind: e.kind, Name: name, Type: t}
				matches++
			}
		}
	}
	if matches != 1 {
		return MessageInfo{}, false
	}
	return found, true
}

// Messages returns every registered message type, sorted by name.
func (b *Bus) Messages() []MessageInfo {
	var infos []MessageInfo
	for _, kind := range []Kind{KindCommand, KindRead, KindWatch} {
		for t, e := range b.roleMap(kind) {
			infos = append(infos, MessageInfo{Kind: e.kind, Name: t.Name(), Type: t})
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].Kind < infos[j].Kind
	})
	return infos
}
