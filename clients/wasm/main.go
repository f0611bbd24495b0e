//go:build js && wasm

// SnapPolish WASM — client-side renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o snappolish.wasm ./clients/wasm/
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/config"
	"github.com/xob0t/SnapPolish/pkg/editor"
	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/render"
)

var session *editor.Session

type consoleLogger struct{}

func (consoleLogger) Warnf(format string, args ...any) {
	js.Global().Get("console").Call("warn", fmt.Sprintf(format, args...))
}

func main() {
	fmt.Println("SnapPolish WASM loaded")

	cfg := config.Default()
	orch := export.New(cfg.ExportPolicy())
	session = editor.NewSession(nil, orch)

	// Register JS-callable functions.
	js.Global().Set("goLoadImage", js.FuncOf(loadImage))
	js.Global().Set("goRemoveAsset", js.FuncOf(removeAsset))
	js.Global().Set("goApply", js.FuncOf(apply))
	js.Global().Set("goApplyPreset", js.FuncOf(applyPreset))
	js.Global().Set("goComposition", js.FuncOf(snapshot))
	js.Global().Set("goRenderImage", js.FuncOf(renderImage))
	js.Global().Set("goPreview", js.FuncOf(preview))

	r, err := render.New(cfg.RenderOptions(consoleLogger{}))
	if err != nil {
		fmt.Println("load rasterizer:", err)
	} else {
		orch.SetRasterizer(r)
	}
	js.Global().Set("goReady", js.ValueOf(orch.Ready()))

	// Block forever (WASM must not exit).
	select {}
}

// goLoadImage(slot, name, base64Data) — decode into a slot, returns the asset ID.
func loadImage(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf("error: need slot, name, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[2].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}
	img, err := session.LoadImage(editor.Slot(args[0].String()), args[1].String(), data)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(img.ID)
}

// goRemoveAsset(id) — drop an asset from Go memory.
func removeAsset(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need id")
	}
	session.Assets().Remove(args[0].String())
	return js.ValueOf("ok")
}

// goApply(settingsJSON) — merge a settings document, returns warnings joined by newlines.
func apply(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need settingsJSON")
	}
	doc, err := composition.ParseDocument([]byte(args[0].String()))
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	_, warnings := session.Apply(doc)
	return js.ValueOf(strings.Join(warnings, "\n"))
}

// goApplyPreset(name) — true when the preset exists.
func applyPreset(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	_, ok := session.ApplyPreset(composition.PresetName(args[0].String()))
	return js.ValueOf(ok)
}

// goComposition() — current settings as JSON.
func snapshot(this js.Value, args []js.Value) any {
	data, err := json.Marshal(composition.Snapshot(session.Composition()))
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(string(data))
}

// goRenderImage() — Promise of {filename, base64}. The export waits for the
// settle delay, which must not block the JS event loop.
func renderImage(this js.Value, args []js.Value) any {
	promise := js.Global().Get("Promise")
	return promise.New(js.FuncOf(func(_ js.Value, pa []js.Value) any {
		resolve, reject := pa[0], pa[1]
		go func() {
			a, err := session.Export(context.Background())
			if err != nil {
				msg := export.Notice(err)
				if !errors.Is(err, export.ErrRasterizerUnavailable) {
					msg += " (" + err.Error() + ")"
				}
				reject.Invoke(js.Global().Get("Error").New(msg))
				return
			}
			resolve.Invoke(js.ValueOf(map[string]any{
				"filename": a.Filename,
				"base64":   base64.StdEncoding.EncodeToString(a.Data),
			}))
		}()
		return nil
	}))
}

// goPreview() — Promise of a base64 1× PNG for on-screen display. Previews
// run beside exports and never return "export in progress".
func preview(this js.Value, args []js.Value) any {
	promise := js.Global().Get("Promise")
	return promise.New(js.FuncOf(func(_ js.Value, pa []js.Value) any {
		resolve, reject := pa[0], pa[1]
		go func() {
			data, err := session.Preview(context.Background())
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(export.Notice(err)))
				return
			}
			resolve.Invoke(js.ValueOf(base64.StdEncoding.EncodeToString(data)))
		}()
		return nil
	}))
}
