// Package loader turns an entry file and the modules it imports into a
// single program.
package loader

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/parser"
	"github.com/HicaroD/ember/internal/sema"
	"github.com/pkg/errors"
)

const EXT = ".em"

type Loader struct {
	stdDir string
	// module name to the file it was loaded from, for every module parsed
	// so far or being parsed
	loaded  map[string]string
	stmts   []ast.Stmt
	modules map[string][]string
}

func New(stdDir string) *Loader {
	return &Loader{
		stdDir:  stdDir,
		loaded:  make(map[string]string),
		modules: make(map[string][]string),
	}
}

// Load parses the entry file at path together with everything it imports.
// Imported statements come first, in dependency order. Imports that cannot
// be resolved are left for the checker to report.
func Load(path, stdDir string) (*ast.Program, error) {
	return New(stdDir).Load(path)
}

func (l *Loader) Load(path string) (*ast.Program, error) {
	name := ModuleName(path)
	l.loaded[name] = path

	entry, err := l.parseFile(path)
	if err != nil {
		return nil, err
	}
	// a module importing the entry file back sees its exports
	l.modules[name] = Exports(entry)

	err = l.loadImports(entry, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	l.stmts = append(l.stmts, entry.Stmts...)

	program := ast.NewProgram(l.stmts)
	program.Modules = l.modules
	if config.DEV {
		log.Printf("loader: %s with %d modules", path, len(l.modules))
	}
	return program, nil
}

func (l *Loader) parseFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read '%s'", path)
	}
	return parser.ParseSource(path, src)
}

func (l *Loader) loadImports(program *ast.Program, dir string) error {
	for _, stmt := range program.Stmts {
		imp, ok := stmt.(*ast.ImportStmt)
		if !ok {
			continue
		}
		name := imp.Module.Name()
		if _, ok := l.loaded[name]; ok {
			continue
		}

		path, found := l.resolve(name, dir)
		if !found {
			continue
		}
		err := l.loadModule(name, path)
		if err != nil {
			return err
		}
	}
	return nil
}

// resolve looks for name next to the importing file first, then in the
// std directory.
func (l *Loader) resolve(name, dir string) (string, bool) {
	candidates := []string{filepath.Join(dir, name+EXT)}
	if l.stdDir != "" {
		candidates = append(candidates, filepath.Join(l.stdDir, name+EXT))
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func (l *Loader) loadModule(name, path string) error {
	// registered before its imports are followed, so cycles stop here
	l.loaded[name] = path

	module, err := l.parseFile(path)
	if err != nil {
		return err
	}
	err = l.loadImports(module, filepath.Dir(path))
	if err != nil {
		return err
	}

	l.modules[name] = Exports(module)
	l.stmts = append(l.stmts, module.Stmts...)
	if config.DEV {
		log.Printf("loader: module '%s' from %s", name, path)
	}
	return nil
}

// Exports lists the public top-level functions of a module.
func Exports(module *ast.Program) []string {
	exports := []string{}
	for _, stmt := range module.Stmts {
		def, ok := stmt.(*ast.FunctionDef)
		if !ok || sema.IsPrivate(def.Name.Name()) {
			continue
		}
		exports = append(exports, def.Name.Name())
	}
	return exports
}

// ModuleName is the import name of the module stored at path.
func ModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), EXT)
}
