//go:build js && wasm

// Command wasmbrowser builds the analyzer as a WebAssembly module that
// registers itself on globalThis for a browser or Node host to call.
package main

import "github.com/wasmlens/wasmlens/browser"

func main() {
	browser.Register()
	select {}
}
