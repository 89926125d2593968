package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `short:"c" default:"pastortable.hcl" help:"HCL configuration file (missing file uses defaults)"`
	Debug   bool             `help:"Enable debug logging"`

	Play     PlayCmd     `cmd:"" default:"withargs" help:"Play a game at the terminal table"`
	Simulate SimulateCmd `cmd:"" help:"Play many random games and check the table invariants"`
	Check    CheckCmd    `cmd:"" help:"Validate a configuration file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pastortable"),
		kong.Description("A pastor ring game: eliminate, resurrect and rob your way around the table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
