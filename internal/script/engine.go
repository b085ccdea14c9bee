package script

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"ScriptBoard/internal/state"
)

// ChunkName is the name scripts run under in error messages.
const ChunkName = "udp-script"

// ScriptError is a failed run. Line is 0 when the interpreter did not say.
type ScriptError struct {
	Line    int
	Message string
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

var (
	runtimePos = regexp.MustCompile(`(?s)^[^\s:]+:(\d+):\s*(.*)$`)
	syntaxPos  = regexp.MustCompile(`line:(\d+)\(column:\d+\)`)
)

// Engine runs Lua scripts against a Canvas. Each run gets a fresh
// interpreter, so globals from one script never leak into the next.
type Engine struct {
	canvas *Canvas

	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration
}

func NewEngine(canvas *Canvas) *Engine {
	return &Engine{canvas: canvas}
}

// Run executes source. Shapes drawn before a failing statement stay drawn.
// The returned error is a *ScriptError for anything the script did wrong.
func (e *Engine) Run(ctx context.Context, source string) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	L := newState()
	defer L.Close()
	L.SetContext(ctx)
	e.install(L)

	fn, err := L.Load(strings.NewReader(source), ChunkName)
	if err != nil {
		return toScriptError(err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return toScriptError(err)
	}
	return nil
}

func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	// No file access from scripts.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func (e *Engine) install(L *lua.LState) {
	c := e.canvas
	tbl := L.NewTable()

	// first returns the index of the first real argument, so both
	// canvas.line(...) and canvas:line(...) work.
	first := func(L *lua.LState) int {
		if L.Get(1) == tbl {
			return 2
		}
		return 1
	}
	num := func(L *lua.LState, n int) float64 { return float64(L.CheckNumber(n)) }
	width := func(L *lua.LState, n int) float64 {
		return float64(L.OptNumber(n, lua.LNumber(state.DefaultWidth)))
	}

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"clear": func(L *lua.LState) int {
			c.Clear()
			return 0
		},
		"line": func(L *lua.LState) int {
			i := first(L)
			c.Line(num(L, i), num(L, i+1), num(L, i+2), num(L, i+3), colorArg(L, i+4), width(L, i+5))
			return 0
		},
		"rect": func(L *lua.LState) int {
			i := first(L)
			c.Rect(num(L, i), num(L, i+1), num(L, i+2), num(L, i+3), colorArg(L, i+4), colorArg(L, i+5), width(L, i+6))
			return 0
		},
		"circle": func(L *lua.LState) int {
			i := first(L)
			c.Circle(num(L, i), num(L, i+1), num(L, i+2), colorArg(L, i+3), width(L, i+4))
			return 0
		},
		"filledCircle": func(L *lua.LState) int {
			i := first(L)
			c.FilledCircle(num(L, i), num(L, i+1), num(L, i+2), colorArg(L, i+3))
			return 0
		},
		"triangle": func(L *lua.LState) int {
			i := first(L)
			c.Triangle(num(L, i), num(L, i+1), num(L, i+2), num(L, i+3), num(L, i+4), num(L, i+5),
				colorArg(L, i+6), colorArg(L, i+7), width(L, i+8))
			return 0
		},
		"setBackground": func(L *lua.LState) int {
			c.SetBackground(colorArg(L, first(L)))
			return 0
		},
		"setZoom": func(L *lua.LState) int {
			c.SetZoom(num(L, first(L)))
			return 0
		},
		"print": func(L *lua.LState) int {
			c.Print(joinArgs(L, first(L)))
			return 0
		},
	})
	L.SetGlobal("canvas", tbl)

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		c.Print(joinArgs(L, 1))
		return 0
	}))

	qt := L.NewTable()
	L.SetFuncs(qt, map[string]lua.LGFunction{
		"rgba": func(L *lua.LState) int {
			if L.GetTop() < 3 {
				L.Push(lua.LNil)
				return 1
			}
			a := float64(L.OptNumber(4, 1))
			pushColor(L, state.FromFloat(num(L, 1), num(L, 2), num(L, 3), a))
			return 1
		},
		"color": func(L *lua.LState) int {
			col := state.ParseColor(L.OptString(1, ""))
			if !col.Valid {
				L.Push(lua.LNil)
				return 1
			}
			pushColor(L, col)
			return 1
		},
	})
	L.SetGlobal("Qt", qt)
}

func pushColor(L *lua.LState, c state.Color) {
	ud := L.NewUserData()
	ud.Value = c
	L.Push(ud)
}

// colorArg accepts color strings and values made by Qt.rgba / Qt.color.
// Anything else, nil included, is no color.
func colorArg(L *lua.LState, n int) state.Color {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return state.ParseColor(string(v))
	case *lua.LUserData:
		if c, ok := v.Value.(state.Color); ok {
			return c
		}
	}
	return state.NoColor
}

func joinArgs(L *lua.LState, from int) string {
	parts := make([]string, 0, L.GetTop())
	for i := from; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	return strings.Join(parts, "\t")
}

func toScriptError(err error) *ScriptError {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	msg = strings.TrimSpace(msg)

	if m := runtimePos.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &ScriptError{Line: line, Message: m[2]}
	}
	if m := syntaxPos.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &ScriptError{Line: line, Message: msg}
	}
	return &ScriptError{Message: msg}
}
