package llvm

import (
	"log"
	"reflect"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/runtime"
	"github.com/HicaroD/ember/internal/scope"
	"github.com/HicaroD/ember/internal/sema"
	"tinygo.org/x/go-llvm"
)

type Options struct {
	// StackTrace makes every function report entry and exit to the runtime
	StackTrace bool
}

type llvmCodegen struct {
	context       llvm.Context
	module        llvm.Module
	builder       llvm.Builder
	allocaBuilder llvm.Builder

	program *ast.Program
	options Options

	globals   *scope.Scope[*Variable]
	functions map[string]*Function
	runtime   map[string]*Function
	classes   map[string]*Class
	strings   map[string]llvm.Value

	// function being lowered and its enclosing loops
	fn    *Function
	loops []*loop
}

func NewCG(name string, program *ast.Program, options Options) *llvmCodegen {
	context := llvm.NewContext()
	module := context.NewModule(name)
	builder := context.NewBuilder()

	defaultTargetTriple := llvm.DefaultTargetTriple()
	module.SetTarget(defaultTargetTriple)

	return &llvmCodegen{
		context:       context,
		module:        module,
		builder:       builder,
		allocaBuilder: context.NewBuilder(),
		program:       program,
		options:       options,
		globals:       scope.New[*Variable](nil),
		functions:     make(map[string]*Function),
		runtime:       make(map[string]*Function),
		classes:       make(map[string]*Class),
		strings:       make(map[string]llvm.Value),
	}
}

// Generate lowers the whole program into the module and returns it. The
// module stays owned by the code generator's context.
func (c *llvmCodegen) Generate() (llvm.Module, error) {
	c.generateClassTypes()
	c.generateDeclarations()

	err := c.generateMain()
	if err != nil {
		return llvm.Module{}, err
	}

	err = c.generateBodies()
	if err != nil {
		return llvm.Module{}, err
	}

	if config.DEV {
		log.Printf("codegen: lowered %d functions and %d classes", len(c.functions), len(c.classes))
	}
	return c.module, nil
}

func (c *llvmCodegen) Dispose() {
	c.module.Dispose()
	c.DisposeContext()
}

// DisposeContext is Dispose for a module whose ownership moved to an
// execution engine. The engine has to be disposed first.
func (c *llvmCodegen) DisposeContext() {
	c.builder.Dispose()
	c.allocaBuilder.Dispose()
	c.context.Dispose()
}

// generateClassTypes creates every named struct before setting any body,
// so fields may refer to classes declared later.
func (c *llvmCodegen) generateClassTypes() {
	var defs []*ast.ClassDef
	for _, stmt := range c.program.Stmts {
		if def, ok := stmt.(*ast.ClassDef); ok {
			defs = append(defs, def)
			name := def.Name.Name()
			c.classes[name] = &Class{
				Name:   name,
				Ty:     c.context.StructCreateNamed(name),
				Fields: def.Fields,
				index:  make(map[string]int, len(def.Fields)),
			}
		}
	}

	for _, def := range defs {
		class := c.classes[def.Name.Name()]
		types := make([]llvm.Type, len(def.Fields))
		for i, field := range def.Fields {
			types[i] = c.getType(field.Type)
			class.index[field.Name.Name()] = i
		}
		class.Ty.StructSetBody(types, false)
	}
}

func (c *llvmCodegen) generateDeclarations() {
	for _, stmt := range c.program.Stmts {
		switch def := stmt.(type) {
		case *ast.FunctionDef:
			c.generateFnSignature(def.Name.Name(), def)
		case *ast.ClassDef:
			class := c.classes[def.Name.Name()]
			for _, method := range def.Methods {
				c.generateFnSignature(sema.MethodName(class.Name, method.Name.Name()), method)
				if method.Name.Name() == "init" {
					class.HasInit = true
				}
			}
			params := make([]*ast.ExprType, len(def.Fields))
			for i, field := range def.Fields {
				params[i] = field.Type
			}
			class.Ctor = c.addFunction(class.Name+".new", params, ast.NewCustomType(class.Name))
		}
	}
}

func (c *llvmCodegen) generateFnSignature(name string, def *ast.FunctionDef) *Function {
	params := make([]*ast.ExprType, len(def.Params))
	for i, param := range def.Params {
		params[i] = param.Type
	}
	return c.addFunction(name, params, def.RetType)
}

// generateMain lowers the top-level statements into the entry point.
func (c *llvmCodegen) generateMain() error {
	mainType := llvm.FunctionType(c.context.Int32Type(), nil, false)
	mainFn := llvm.AddFunction(c.module, "main", mainType)
	c.fn = NewFunctionValue("main", mainFn, mainType)
	c.fn.Ret = ast.INT_TYPE

	entry := c.context.AddBasicBlock(mainFn, "entry")
	c.builder.SetInsertPointAtEnd(entry)
	err := c.generateStackPush("main")
	if err != nil {
		return err
	}

	for _, stmt := range c.program.Stmts {
		switch stmt.(type) {
		case *ast.FunctionDef, *ast.ClassDef, *ast.ImportStmt:
			continue
		}
		err := c.generateStmt(stmt, c.globals)
		if err != nil {
			return err
		}
	}

	if !c.blockTerminated() {
		if err := c.generateStackPop(); err != nil {
			return err
		}
		c.builder.CreateRet(llvm.ConstInt(c.context.Int32Type(), 0, false))
	}
	return nil
}

func (c *llvmCodegen) generateBodies() error {
	for _, stmt := range c.program.Stmts {
		switch def := stmt.(type) {
		case *ast.FunctionDef:
			err := c.generateFnBody(c.functions[def.Name.Name()], def)
			if err != nil {
				return err
			}
		case *ast.ClassDef:
			class := c.classes[def.Name.Name()]
			for _, method := range def.Methods {
				fn := c.functions[sema.MethodName(class.Name, method.Name.Name())]
				err := c.generateFnBody(fn, method)
				if err != nil {
					return err
				}
			}
			err := c.generateConstructor(class)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *llvmCodegen) generateFnBody(fn *Function, def *ast.FunctionDef) error {
	outerLoops := c.loops
	c.fn, c.loops = fn, nil
	defer func() { c.loops = outerLoops }()

	functionBlock := c.context.AddBasicBlock(fn.Fn, "entry")
	c.builder.SetInsertPointAtEnd(functionBlock)

	params := c.generateFnParams(fn, def)
	err := c.generateStackPush(fn.Name)
	if err != nil {
		return err
	}

	err = c.generateBlock(def.Body, params)
	if err != nil {
		return err
	}

	if !c.blockTerminated() {
		if err := c.generateStackPop(); err != nil {
			return err
		}
		if fn.Ret.IsVoid() {
			c.builder.CreateRetVoid()
		} else {
			c.builder.CreateRet(llvm.ConstNull(c.getType(fn.Ret)))
		}
	}
	return nil
}

func (c *llvmCodegen) generateFnParams(fn *Function, def *ast.FunctionDef) *scope.Scope[*Variable] {
	params := scope.New(c.globals)
	paramsTypes := fn.Ty.ParamTypes()
	for i, paramValue := range fn.Fn.Params() {
		paramType := paramsTypes[i]
		paramPtr := c.createAlloca(paramType, ".param")
		c.builder.CreateStore(paramValue, paramPtr)
		// sema rejected duplicated parameters already
		_ = params.Insert(def.Params[i].Name.Name(), NewVariableValue(paramType, paramPtr, fn.Params[i]))
	}
	return params
}

// generateConstructor emits Class.new: allocate a reference counted block,
// store the arguments field by field and run init when the class has one.
func (c *llvmCodegen) generateConstructor(class *Class) error {
	c.fn = class.Ctor
	entry := c.context.AddBasicBlock(class.Ctor.Fn, "entry")
	c.builder.SetInsertPointAtEnd(entry)

	err := c.generateStackPush(class.Ctor.Name)
	if err != nil {
		return err
	}
	self, err := c.callRuntime(runtime.RC_ALLOC, llvm.SizeOf(class.Ty))
	if err != nil {
		return err
	}
	for i, arg := range class.Ctor.Fn.Params() {
		field := c.builder.CreateStructGEP(class.Ty, self, i, ".field")
		c.builder.CreateStore(arg, field)
	}
	if class.HasInit {
		initFn := c.functions[sema.MethodName(class.Name, "init")]
		c.callFunction(initFn, []llvm.Value{self})
	}
	if err := c.generateStackPop(); err != nil {
		return err
	}
	c.builder.CreateRet(self)
	return nil
}

func (c *llvmCodegen) generateStackPush(name string) error {
	if !c.options.StackTrace {
		return nil
	}
	_, err := c.callRuntime(runtime.STACK_PUSH, c.globalString(name))
	return err
}

func (c *llvmCodegen) generateStackPop() error {
	if !c.options.StackTrace {
		return nil
	}
	_, err := c.callRuntime(runtime.STACK_POP)
	return err
}

func codegenError(pos token.Pos, format string, args ...any) error {
	return diagnostics.Errorf(diagnostics.CODEGEN_ERROR, pos, format, args...)
}

func unimplemented(node ast.Node) error {
	return codegenError(node.GetPos(), "unimplemented node for codegen: %s", reflect.TypeOf(node))
}
