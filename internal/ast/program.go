package ast

type Program struct {
	Stmts []Stmt
	// Module name to exported function names. Filled by the loader, read
	// only afterwards.
	Modules map[string][]string
}

func NewProgram(stmts []Stmt) *Program {
	return &Program{Stmts: stmts, Modules: map[string][]string{}}
}

func (program *Program) IsModule(name string) bool {
	_, ok := program.Modules[name]
	return ok
}

func (program *Program) Exports(module, function string) bool {
	for _, export := range program.Modules[module] {
		if export == function {
			return true
		}
	}
	return false
}
