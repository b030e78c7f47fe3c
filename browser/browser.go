//go:build js && wasm

// Package browser exposes the analyzer to a host JavaScript environment
// when this module is compiled with GOOS=js GOARCH=wasm.
package browser

import (
	"encoding/json"
	"syscall/js"

	"github.com/wasmlens/wasmlens/analyzer"
)

func jsError(msg string) any {
	return js.Global().Get("Promise").Call("reject",
		js.Global().Get("Error").New(msg))
}

// Register installs globalThis.wasmlensAnalyze(Uint8Array) -> Promise<string>,
// resolving to the canonical AnalysisReport JSON shape.
func Register() {
	js.Global().Set("wasmlensAnalyze", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) != 1 {
			return jsError("wasmlensAnalyze requires exactly 1 argument (Uint8Array)")
		}

		handler := js.FuncOf(func(_ js.Value, promise []js.Value) any {
			resolve := promise[0]
			reject := promise[1]

			go func() {
				jsArr := args[0]
				length := jsArr.Get("length").Int()

				data := make([]byte, length)
				js.CopyBytesToGo(data, jsArr)

				rep, err := analyzer.Analyze(data)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New("analysis failed: " + err.Error()))
					return
				}

				jsonBytes, err := json.Marshal(rep)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New("serialize result: " + err.Error()))
					return
				}

				resolve.Invoke(string(jsonBytes))
			}()

			return nil
		})

		return js.Global().Get("Promise").New(handler)
	}))
}
