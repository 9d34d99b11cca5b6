package main

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "Log compiler stages and tool invocations",
	}
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}

	releaseFlag = cli.BoolFlag{
		Name:  "release",
		Usage: "Optimize and strip the executable, without stack traces",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "Executable path",
	}
	keepIRFlag = cli.BoolFlag{
		Name:  "keep-ll",
		Usage: "Write the unoptimized IR next to the executable",
	}

	buildCommand = cli.Command{
		Action:    build,
		Name:      "build",
		Usage:     "Compile a program into a native executable",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{releaseFlag, outFlag, keepIRFlag},
	}
	checkCommand = cli.Command{
		Action:    check,
		Name:      "check",
		Usage:     "Parse and type check a program",
		ArgsUsage: "FILE",
	}
	tokensCommand = cli.Command{
		Action:    tokens,
		Name:      "tokens",
		Usage:     "Print the token stream of a file",
		ArgsUsage: "FILE",
		Category:  "DEBUGGING COMMANDS",
	}
	astCommand = cli.Command{
		Action:    dumpAst,
		Name:      "ast",
		Usage:     "Dump the syntax tree of a program",
		ArgsUsage: "FILE",
		Category:  "DEBUGGING COMMANDS",
	}
	irCommand = cli.Command{
		Action:    ir,
		Name:      "ir",
		Usage:     "Print the LLVM IR of a program",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{releaseFlag},
		Category:  "DEBUGGING COMMANDS",
	}
	runtimeCommand = cli.Command{
		Action: listRuntime,
		Name:   "runtime",
		Usage:  "List the symbols generated code expects from the runtime library",
	}
	envCommand = cli.Command{
		Action: env,
		Name:   "env",
		Usage:  "Show the resolved configuration",
	}
)
