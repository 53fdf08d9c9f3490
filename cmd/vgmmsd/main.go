// vgmmsd runs the message core headless: it owns the store and state
// mirror, and ingests modem notifications published on the bus. Transport
// adapters and UI front ends embed the daemon module and attach to the bus.
package main

import (
	"flag"

	"github.com/ikidd/vgmms/internal/daemon"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", "", "config file path (overrides the XDG default)")
	flag.Parse()

	app := fx.New(
		daemon.Module(daemon.Params{ConfigPath: *configFlag}),
	)

	app.Run()
}
