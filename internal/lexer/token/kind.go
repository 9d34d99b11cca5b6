package token

import "strconv"

type Kind int

const (
	// EOF
	EOF Kind = iota
	INVALID

	// Statement terminator
	NEWLINE

	// Identifier
	ID

	// Literals
	INT_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL
	// Raw text of f"...": escapes are decoded, braces are kept as written
	FSTRING_LITERAL
	TRUE_BOOL_LITERAL
	FALSE_BOOL_LITERAL
	NONE_LITERAL

	// Keywords
	DEF
	CLASS
	IMPORT
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	PASS
	BREAK
	CONTINUE
	AND
	OR
	NOT
	ASSERT

	// Types
	INT_TYPE   // int
	FLOAT_TYPE // float
	BOOL_TYPE  // bool
	STR_TYPE   // str
	VOID_TYPE  // void
	LIST_TYPE  // list
	DICT_TYPE  // dict

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN

	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY

	// [
	OPEN_BRACKET
	// ]
	CLOSE_BRACKET

	// ,
	COMMA

	// ;
	SEMICOLON

	// :
	COLON

	// .
	DOT

	// ->
	ARROW

	// =
	EQUAL

	// ==
	EQUAL_EQUAL

	// !=
	BANG_EQUAL

	// >
	GREATER
	// >=
	GREATER_EQ
	// <
	LESS
	// <=
	LESS_EQ

	// +
	PLUS
	// -
	MINUS
	// *
	STAR
	// **
	STAR_STAR
	// /
	SLASH
	// //
	SLASH_SLASH
	// %
	PERCENT
)

var KEYWORDS map[string]Kind = map[string]Kind{
	"def":      DEF,
	"class":    CLASS,
	"import":   IMPORT,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"return":   RETURN,
	"pass":     PASS,
	"break":    BREAK,
	"continue": CONTINUE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"assert":   ASSERT,
	"True":     TRUE_BOOL_LITERAL,
	"False":    FALSE_BOOL_LITERAL,
	"None":     NONE_LITERAL,

	"int":   INT_TYPE,
	"float": FLOAT_TYPE,
	"bool":  BOOL_TYPE,
	"str":   STR_TYPE,
	"void":  VOID_TYPE,
	"list":  LIST_TYPE,
	"dict":  DICT_TYPE,
}

var BASIC_TYPES map[Kind]bool = map[Kind]bool{
	INT_TYPE:   true,
	FLOAT_TYPE: true,
	BOOL_TYPE:  true,
	STR_TYPE:   true,
	VOID_TYPE:  true,
}

func (kind Kind) IsBasicType() bool {
	_, ok := BASIC_TYPES[kind]
	return ok
}

func (kind Kind) IsLiteral() bool {
	switch kind {
	case INT_LITERAL, FLOAT_LITERAL, STRING_LITERAL, FSTRING_LITERAL,
		TRUE_BOOL_LITERAL, FALSE_BOOL_LITERAL, NONE_LITERAL:
		return true
	}
	return false
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case NEWLINE:
		return "newline"
	case ID:
		return "identifier"
	case INT_LITERAL:
		return "integer literal"
	case FLOAT_LITERAL:
		return "float literal"
	case STRING_LITERAL:
		return "string literal"
	case FSTRING_LITERAL:
		return "f-string literal"
	case TRUE_BOOL_LITERAL:
		return "True"
	case FALSE_BOOL_LITERAL:
		return "False"
	case NONE_LITERAL:
		return "None"
	case DEF:
		return "def"
	case CLASS:
		return "class"
	case IMPORT:
		return "import"
	case IF:
		return "if"
	case ELIF:
		return "elif"
	case ELSE:
		return "else"
	case WHILE:
		return "while"
	case FOR:
		return "for"
	case IN:
		return "in"
	case RETURN:
		return "return"
	case PASS:
		return "pass"
	case BREAK:
		return "break"
	case CONTINUE:
		return "continue"
	case AND:
		return "and"
	case OR:
		return "or"
	case NOT:
		return "not"
	case ASSERT:
		return "assert"
	case INT_TYPE:
		return "int"
	case FLOAT_TYPE:
		return "float"
	case BOOL_TYPE:
		return "bool"
	case STR_TYPE:
		return "str"
	case VOID_TYPE:
		return "void"
	case LIST_TYPE:
		return "list"
	case DICT_TYPE:
		return "dict"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case OPEN_CURLY:
		return "{"
	case CLOSE_CURLY:
		return "}"
	case OPEN_BRACKET:
		return "["
	case CLOSE_BRACKET:
		return "]"
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case COLON:
		return ":"
	case DOT:
		return "."
	case ARROW:
		return "->"
	case EQUAL:
		return "="
	case EQUAL_EQUAL:
		return "=="
	case BANG_EQUAL:
		return "!="
	case GREATER:
		return ">"
	case GREATER_EQ:
		return ">="
	case LESS:
		return "<"
	case LESS_EQ:
		return "<="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case STAR_STAR:
		return "**"
	case SLASH:
		return "/"
	case SLASH_SLASH:
		return "//"
	case PERCENT:
		return "%"
	}
	return "Kind(" + strconv.Itoa(int(kind)) + ")"
}
