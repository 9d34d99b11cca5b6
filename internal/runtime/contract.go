// Package runtime describes the call boundary between generated code and
// the runtime support library. Nothing here is implemented in Go: the
// symbols are resolved at link time or registered by a JIT driver.
package runtime

import "sort"

type ABI int

const (
	VOID ABI = iota
	I1
	I32
	I64
	F64
	PTR
)

func (abi ABI) String() string {
	switch abi {
	case VOID:
		return "void"
	case I1:
		return "i1"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F64:
		return "f64"
	case PTR:
		return "ptr"
	}
	return "?"
}

type Category int

const (
	ARRAY Category = iota
	DICT
	STRING
	RC
	FILE
	EXCEPTION
	STACK
	LIBC
)

func (category Category) String() string {
	switch category {
	case ARRAY:
		return "array"
	case DICT:
		return "dict"
	case STRING:
		return "string"
	case RC:
		return "rc"
	case FILE:
		return "file"
	case EXCEPTION:
		return "exception"
	case STACK:
		return "stack"
	case LIBC:
		return "libc"
	}
	return "?"
}

type Symbol struct {
	Name     string
	Ret      ABI
	Params   []ABI
	Variadic bool
	Category Category
	Doc      string
}

const (
	ARRAY_CREATE = "ember_array_create"
	ARRAY_PUSH   = "ember_array_push"
	ARRAY_POP    = "ember_array_pop"
	ARRAY_GET    = "ember_array_get"
	ARRAY_SET    = "ember_array_set"
	ARRAY_LENGTH = "ember_array_length"

	DICT_CREATE = "ember_dict_create"
	DICT_SET    = "ember_dict_set"
	DICT_GET    = "ember_dict_get"
	DICT_HAS    = "ember_dict_has"
	DICT_LENGTH = "ember_dict_length"
	DICT_KEYS   = "ember_dict_keys"

	STR_LENGTH   = "ember_str_length"
	STR_UPPER    = "ember_str_upper"
	STR_LOWER    = "ember_str_lower"
	STR_CONTAINS = "ember_str_contains"
	STR_CHAR_AT  = "ember_str_char_at"

	RC_ALLOC    = "ember_rc_alloc"
	RC_RETAIN   = "ember_rc_retain"
	RC_RELEASE  = "ember_rc_release"
	RC_COUNT    = "ember_rc_count"
	RC_IS_VALID = "ember_rc_is_valid"

	FILE_OPEN      = "ember_file_open"
	FILE_READ      = "ember_file_read"
	FILE_READ_LINE = "ember_file_read_line"
	FILE_WRITE     = "ember_file_write"
	FILE_CLOSE     = "ember_file_close"
	FILE_EXISTS    = "ember_file_exists"

	EXC_CREATE       = "ember_exc_create"
	EXC_RAISE        = "ember_exc_raise"
	EXC_CURRENT      = "ember_exc_current"
	EXC_CLEAR        = "ember_exc_clear"
	EXC_TYPE         = "ember_exc_type"
	EXC_MESSAGE      = "ember_exc_message"
	EXC_MATCHES      = "ember_exc_matches"
	EXC_PUSH_HANDLER = "ember_exc_push_handler"
	EXC_POP_HANDLER  = "ember_exc_pop_handler"

	STACK_PUSH = "ember_stack_push"
	STACK_POP  = "ember_stack_pop"

	STRLEN   = "strlen"
	MALLOC   = "malloc"
	STRCPY   = "strcpy"
	STRCAT   = "strcat"
	STRCMP   = "strcmp"
	SNPRINTF = "snprintf"
	PRINTF   = "printf"
)

// CONTRACT lists every symbol generated code may call. Container elements
// and dict values cross the boundary as i64; predicates return i64 0 or 1.
var CONTRACT = []*Symbol{
	{ARRAY_CREATE, PTR, nil, false, ARRAY, "new empty growable array"},
	{ARRAY_PUSH, VOID, []ABI{PTR, I64}, false, ARRAY, "append an element"},
	{ARRAY_POP, I64, []ABI{PTR}, false, ARRAY, "remove and return the last element"},
	{ARRAY_GET, I64, []ABI{PTR, I64}, false, ARRAY, "element at index"},
	{ARRAY_SET, VOID, []ABI{PTR, I64, I64}, false, ARRAY, "replace element at index"},
	{ARRAY_LENGTH, I64, []ABI{PTR}, false, ARRAY, "number of elements"},

	{DICT_CREATE, PTR, nil, false, DICT, "new empty string-keyed hash table"},
	{DICT_SET, VOID, []ABI{PTR, PTR, I64}, false, DICT, "insert or replace a key"},
	{DICT_GET, I64, []ABI{PTR, PTR}, false, DICT, "value for key, 0 when missing"},
	{DICT_HAS, I64, []ABI{PTR, PTR}, false, DICT, "1 if key is present"},
	{DICT_LENGTH, I64, []ABI{PTR}, false, DICT, "number of keys"},
	{DICT_KEYS, PTR, []ABI{PTR}, false, DICT, "array of the keys, as string pointers"},

	{STR_LENGTH, I64, []ABI{PTR}, false, STRING, "byte length"},
	{STR_UPPER, PTR, []ABI{PTR}, false, STRING, "uppercased copy"},
	{STR_LOWER, PTR, []ABI{PTR}, false, STRING, "lowercased copy"},
	{STR_CONTAINS, I64, []ABI{PTR, PTR}, false, STRING, "1 if needle occurs in haystack"},
	{STR_CHAR_AT, PTR, []ABI{PTR, I64}, false, STRING, "one-character string at index"},

	{RC_ALLOC, PTR, []ABI{I64}, false, RC, "allocate a reference-counted block, count 1"},
	{RC_RETAIN, VOID, []ABI{PTR}, false, RC, "increment the count"},
	{RC_RELEASE, VOID, []ABI{PTR}, false, RC, "decrement the count, free at zero"},
	{RC_COUNT, I64, []ABI{PTR}, false, RC, "current count"},
	{RC_IS_VALID, I64, []ABI{PTR}, false, RC, "1 if the block is still alive"},

	{FILE_OPEN, I64, []ABI{PTR, PTR}, false, FILE, "open path with mode, returns a handle"},
	{FILE_READ, PTR, []ABI{I64}, false, FILE, "rest of the file"},
	{FILE_READ_LINE, PTR, []ABI{I64}, false, FILE, "next line without the newline"},
	{FILE_WRITE, I64, []ABI{I64, PTR}, false, FILE, "write a string, returns bytes written"},
	{FILE_CLOSE, VOID, []ABI{I64}, false, FILE, "close a handle"},
	{FILE_EXISTS, I64, []ABI{PTR}, false, FILE, "1 if path exists"},

	{EXC_CREATE, PTR, []ABI{PTR, PTR}, false, EXCEPTION, "new exception from type name and message"},
	{EXC_RAISE, VOID, []ABI{PTR}, false, EXCEPTION, "unwind to the innermost handler"},
	{EXC_CURRENT, PTR, nil, false, EXCEPTION, "exception being handled"},
	{EXC_CLEAR, VOID, nil, false, EXCEPTION, "forget the current exception"},
	{EXC_TYPE, PTR, []ABI{PTR}, false, EXCEPTION, "type name of an exception"},
	{EXC_MESSAGE, PTR, []ABI{PTR}, false, EXCEPTION, "message of an exception"},
	{EXC_MATCHES, I64, []ABI{PTR, PTR}, false, EXCEPTION, "1 if the exception has the given type name"},
	{EXC_PUSH_HANDLER, PTR, nil, false, EXCEPTION, "register a handler, returns its jump buffer"},
	{EXC_POP_HANDLER, VOID, nil, false, EXCEPTION, "drop the innermost handler"},

	{STACK_PUSH, VOID, []ABI{PTR}, false, STACK, "enter a frame, by function name"},
	{STACK_POP, VOID, nil, false, STACK, "leave the current frame"},

	{STRLEN, I64, []ABI{PTR}, false, LIBC, ""},
	{MALLOC, PTR, []ABI{I64}, false, LIBC, ""},
	{STRCPY, PTR, []ABI{PTR, PTR}, false, LIBC, ""},
	{STRCAT, PTR, []ABI{PTR, PTR}, false, LIBC, ""},
	{STRCMP, I32, []ABI{PTR, PTR}, false, LIBC, ""},
	{SNPRINTF, I32, []ABI{PTR, I64, PTR}, true, LIBC, ""},
	{PRINTF, I32, []ABI{PTR}, true, LIBC, ""},
}

var symbols map[string]*Symbol

func init() {
	symbols = make(map[string]*Symbol, len(CONTRACT))
	for _, symbol := range CONTRACT {
		symbols[symbol.Name] = symbol
	}
}

func Lookup(name string) (*Symbol, bool) {
	symbol, ok := symbols[name]
	return symbol, ok
}

// ByCategory returns the contract grouped by category, each group in
// declaration order.
func ByCategory() map[Category][]*Symbol {
	groups := make(map[Category][]*Symbol)
	for _, symbol := range CONTRACT {
		groups[symbol.Category] = append(groups[symbol.Category], symbol)
	}
	return groups
}

func Categories() []Category {
	var categories []Category
	for category := range ByCategory() {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}
