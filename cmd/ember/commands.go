package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/HicaroD/ember/internal/compiler"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/runtime"
	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"
)

// newCompiler loads the configuration and returns the single source file
// argument of ctx.
func newCompiler(ctx *cli.Context) (*compiler.Compiler, string, error) {
	if ctx.NArg() != 1 {
		return nil, "", cli.NewExitError(fmt.Sprintf("usage: ember %s %s", ctx.Command.Name, ctx.Command.ArgsUsage), 2)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, "", err
	}
	return compiler.New(cfg), ctx.Args().First(), nil
}

func buildOptions(ctx *cli.Context) compiler.Options {
	opts := compiler.Options{BuildType: config.DEBUG}
	if ctx.Bool(releaseFlag.Name) {
		opts.BuildType = config.RELEASE
	}
	return opts
}

func build(ctx *cli.Context) error {
	c, path, err := newCompiler(ctx)
	if err != nil {
		return err
	}
	opts := buildOptions(ctx)
	opts.Output = ctx.String("out")
	opts.KeepIR = ctx.Bool(keepIRFlag.Name)

	_, err = c.Build(path, opts)
	return report(err, c.Collector)
}

func check(ctx *cli.Context) error {
	c, path, err := newCompiler(ctx)
	if err != nil {
		return err
	}
	_, err = c.Check(path)
	return report(err, c.Collector)
}

func tokens(ctx *cli.Context) error {
	c, path, err := newCompiler(ctx)
	if err != nil {
		return err
	}
	toks, err := c.Tokens(path)
	if err != nil {
		return report(err, c.Collector)
	}
	for _, tok := range toks {
		fmt.Printf("%d:%d\t%s\t%q\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Lexeme)
	}
	return nil
}

func dumpAst(ctx *cli.Context) error {
	c, path, err := newCompiler(ctx)
	if err != nil {
		return err
	}
	program, err := c.Parse(path)
	if err != nil {
		return report(err, c.Collector)
	}
	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	dumper.Fdump(os.Stdout, program)
	return nil
}

func ir(ctx *cli.Context) error {
	c, path, err := newCompiler(ctx)
	if err != nil {
		return err
	}
	module, err := c.IR(path, buildOptions(ctx))
	if err != nil {
		return report(err, c.Collector)
	}
	fmt.Print(module)
	return nil
}

func listRuntime(ctx *cli.Context) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Symbol", "Signature", "Description"})
	table.SetAutoWrapText(false)

	groups := runtime.ByCategory()
	for _, category := range runtime.Categories() {
		for _, symbol := range groups[category] {
			table.Append([]string{category.String(), symbol.Name, signature(symbol), symbol.Doc})
		}
	}
	table.Render()
	return nil
}

func signature(symbol *runtime.Symbol) string {
	params := make([]string, len(symbol.Params))
	for i, param := range symbol.Params {
		params[i] = param.String()
	}
	if symbol.Variadic {
		params = append(params, "...")
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), symbol.Ret)
}

func env(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	dir, err := config.ConfigDir(config.APP_NAME)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n", dir)
	return cfg.Dump(os.Stdout)
}
