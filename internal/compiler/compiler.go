// Package compiler drives the pipeline from a source path to LLVM IR or a
// native executable.
package compiler

import (
	"log"
	"time"

	"github.com/HicaroD/ember/internal/ast"
	codegen "github.com/HicaroD/ember/internal/codegen/llvm"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/loader"
	"github.com/HicaroD/ember/internal/sema"
	"github.com/pkg/errors"
	"tinygo.org/x/go-llvm"
)

type Options struct {
	BuildType config.BuildType
	// Executable path; defaults to the source file name without extension
	Output string
	// KeepIR writes the unoptimized module next to the executable
	KeepIR bool
}

// Compiler runs one compilation at a time. Pipeline diagnostics end up in
// Collector and the methods return diagnostics.COMPILER_ERROR_FOUND in
// their place; any other error is an environment failure.
type Compiler struct {
	cfg       *config.Config
	Collector *diagnostics.Collector
}

func New(cfg *config.Config) *Compiler {
	return &Compiler{cfg: cfg, Collector: diagnostics.New()}
}

// Unit is a lowered and verified compilation unit. Dispose releases its
// LLVM context.
type Unit struct {
	Program *ast.Program
	Module  llvm.Module
	dispose func()
}

func (unit *Unit) Dispose() {
	unit.dispose()
}

func (c *Compiler) Tokens(path string) ([]*token.Token, error) {
	lex, err := lexer.NewFromFilePath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read '%s'", path)
	}
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, c.Collector.ReportAndSave(err)
	}
	return tokens, nil
}

// Parse loads path and every module it imports.
func (c *Compiler) Parse(path string) (*ast.Program, error) {
	defer stage("parse", time.Now())

	program, err := loader.Load(path, c.cfg.Paths.Std)
	if err != nil {
		return nil, c.Collector.ReportAndSave(err)
	}
	return program, nil
}

func (c *Compiler) Check(path string) (*ast.Program, error) {
	program, err := c.Parse(path)
	if err != nil {
		return nil, err
	}

	defer stage("check", time.Now())
	err = sema.New().Check(program)
	if err != nil {
		return nil, c.Collector.ReportAndSave(err)
	}
	return program, nil
}

func (c *Compiler) Compile(path string, opts Options) (*Unit, error) {
	program, err := c.Check(path)
	if err != nil {
		return nil, err
	}

	defer stage("codegen", time.Now())
	cgOpts := codegen.Options{StackTrace: c.cfg.StackTrace(opts.BuildType)}
	cg := codegen.NewCG(loader.ModuleName(path), program, cgOpts)

	module, err := cg.Generate()
	if err != nil {
		cg.Dispose()
		return nil, c.Collector.ReportAndSave(err)
	}
	err = llvm.VerifyModule(module, llvm.ReturnStatusAction)
	if err != nil {
		cg.Dispose()
		return nil, errors.Wrap(err, "generated module is invalid")
	}
	return &Unit{Program: program, Module: module, dispose: cg.Dispose}, nil
}

func (c *Compiler) IR(path string, opts Options) (string, error) {
	unit, err := c.Compile(path, opts)
	if err != nil {
		return "", err
	}
	defer unit.Dispose()
	return unit.Module.String(), nil
}

// Build compiles path into a native executable and returns its path.
func (c *Compiler) Build(path string, opts Options) (string, error) {
	unit, err := c.Compile(path, opts)
	if err != nil {
		return "", err
	}
	defer unit.Dispose()

	if opts.Output == "" {
		opts.Output = loader.ModuleName(path)
	}

	defer stage("link", time.Now())
	err = c.generateExe(unit.Module.String(), opts)
	if err != nil {
		return "", err
	}
	return opts.Output, nil
}

func stage(name string, start time.Time) {
	if config.DEV {
		log.Printf("%s: %s", name, time.Since(start))
	}
}
