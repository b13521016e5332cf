//go:build js && wasm

package wasm

import (
	"strings"
	"syscall/js"

	"github.com/tidwall/gjson"
)

// consoleWriter forwards JSON log lines to the browser console, choosing the
// console method from the entry level.
type consoleWriter struct {
	console js.Value
}

func newConsoleWriter() *consoleWriter {
	return &consoleWriter{console: js.Global().Get("console")}
}

func (c *consoleWriter) Write(p []byte) (int, error) {
	if !c.console.Truthy() {
		return len(p), nil
	}
	line := strings.TrimRight(string(p), "\n")
	method := "log"
	switch gjson.Get(line, "level").String() {
	case "ERROR":
		method = "error"
	case "WARN":
		method = "warn"
	case "DEBUG":
		method = "debug"
	}
	c.console.Call(method, line)
	return len(p), nil
}
