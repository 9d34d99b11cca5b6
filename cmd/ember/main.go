package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"
)

// Set at link time with -ldflags "-X main.DevMode=1".
var DevMode string

var errColor = color.New(color.FgRed, color.Bold)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ember"
	app.Usage = "ahead-of-time compiler for the Ember language"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{devFlag, configFileFlag}
	app.Commands = []cli.Command{
		buildCommand,
		checkCommand,
		tokensCommand,
		astCommand,
		irCommand,
		runtimeCommand,
		envCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		config.SetDevMode(DevMode == "1" || ctx.GlobalBool(devFlag.Name))
		if config.DEV {
			log.Println("[DEV MODE] initialized")
		}
		return nil
	}
	return app
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		return config.Load(file)
	}
	return config.LoadDefault()
}

// report turns a pipeline failure into the process exit. Diagnostics are
// printed in red; everything else goes through the default cli handling.
func report(err error, collector *diagnostics.Collector) error {
	if !errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
		return err
	}
	diag := collector.First()
	errColor.Fprintf(os.Stderr, "%s: ", diag.Kind)
	fmt.Fprintln(os.Stderr, diag.Error())
	return cli.NewExitError("", 1)
}
