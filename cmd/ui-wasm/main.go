//go:build js && wasm

package main

import "github.com/Its-donkey/admin-picker/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
