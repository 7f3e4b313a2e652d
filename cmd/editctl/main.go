// Command editctl drives the editing engine headlessly: import a WAV
// into a project, apply one edit operation, and export a mixdown — the
// same surface a host UI would exercise through the engine package.
package main

import (
	"os"

	"github.com/tidesound/editor/cmd"
	"github.com/tidesound/editor/internal/conf"
	"github.com/tidesound/editor/internal/logging"
)

func main() {
	settings, err := conf.Load(os.Getenv("EDITOR_CONFIG"))
	if err != nil {
		settings = conf.Default()
	}
	logging.Init(logging.DefaultConfig())

	cmd.Execute(settings)
}
