//go:build js || wasm

package console

import (
	"fmt"
	"syscall/js"
)

func Log(args ...any) {
	call("log", args)
}

func Debug(args ...any) {
	call("debug", args)
}

func Warn(args ...any) {
	call("warn", args)
}

func Error(args ...any) {
	call("error", args)
}

// call forwards args to the browser console. Values js.ValueOf cannot
// convert (errors, structs) are formatted with fmt first.
func call(method string, args []any) {
	console := js.Global().Get("console")
	if !console.Truthy() {
		return
	}
	converted := make([]any, len(args))
	for i, a := range args {
		switch a.(type) {
		case nil, string, bool, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, float32, float64, js.Value:
			converted[i] = a
		default:
			converted[i] = fmt.Sprint(a)
		}
	}
	console.Call(method, converted...)
}
