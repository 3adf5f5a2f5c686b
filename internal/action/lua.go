package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wordevent/internal/word"
)

// DefaultLuaTimeout bounds a single Lua run.
const DefaultLuaTimeout = 2 * time.Second

// ErrStateClosed is returned when running a closed Lua action.
var ErrStateClosed = errors.New("lua state is closed")

// Lua runs a compiled chunk for each match. The chunk sees the globals
// word (string), keys (array of key names), matcher (string) and id.
//
// gopher-lua states are not goroutine-safe; runs are serialized.
type Lua struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	timeout time.Duration
	out     io.Writer
	outMu   *sync.Mutex
	closed  bool
}

func newLua(script string, o options) (*Lua, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	a := &Lua{
		L:       L,
		timeout: o.timeout,
		out:     o.out,
		outMu:   o.outMu,
	}
	a.installSandbox()

	fn, err := L.LoadString(script)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("compiling script: %w", err)
	}
	a.fn = fn
	return a, nil
}

// openSafeLibraries opens only the libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes loaders and routes print to the action output.
func (a *Lua) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		a.L.SetGlobal(name, lua.LNil)
	}
	a.L.SetGlobal("print", a.L.NewFunction(a.luaPrint))
}

// luaPrint writes its arguments tab-separated, like the stock print.
func (a *Lua) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	if _, err := io.WriteString(a.out, strings.Join(parts, "\t")+"\n"); err != nil {
		L.RaiseError("print: %v", err)
	}
	return 0
}

// Run executes the chunk with the match in scope.
func (a *Lua) Run(m word.Match) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrStateClosed
	}

	keys := a.L.NewTable()
	for _, evt := range m.Events {
		keys.Append(lua.LString(evt.String()))
	}
	a.L.SetGlobal("word", lua.LString(m.Word))
	a.L.SetGlobal("keys", keys)
	a.L.SetGlobal("matcher", lua.LString(m.Matcher.String()))
	a.L.SetGlobal("id", lua.LString(m.ID))

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	a.L.SetContext(ctx)
	defer a.L.RemoveContext()

	return a.callWithRecovery(ctx)
}

func (a *Lua) callWithRecovery(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = a.L.CallByParam(lua.P{Fn: a.fn, NRet: 0, Protect: true})
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return err
}

// Close releases the Lua state.
func (a *Lua) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.L.Close()
	a.closed = true
	return nil
}
