package resolver

// Names that are usable in annotations without any import.
//
// The builtin table covers the builtin types and exception classes plus the
// value singletons None, NotImplemented and Ellipsis. Dunder names and
// builtin functions are deliberately absent: they are not types.
var builtinTypeNames = makeSet(
	// value singletons (still imperfectly handled by type checkers, but
	// they must not trigger an import)
	"None", "NotImplemented", "Ellipsis",
	// scalar and container types
	"bool", "int", "float", "complex", "str", "bytes", "bytearray",
	"memoryview", "list", "tuple", "dict", "set", "frozenset", "range",
	"slice", "object", "type", "super", "property", "staticmethod",
	"classmethod", "enumerate", "filter", "map", "zip", "reversed",
	// exceptions
	"BaseException", "Exception", "ArithmeticError", "AssertionError",
	"AttributeError", "BlockingIOError", "BrokenPipeError", "BufferError",
	"BytesWarning", "ChildProcessError", "ConnectionAbortedError",
	"ConnectionError", "ConnectionRefusedError", "ConnectionResetError",
	"DeprecationWarning", "EOFError", "EnvironmentError", "FileExistsError",
	"FileNotFoundError", "FloatingPointError", "FutureWarning",
	"GeneratorExit", "IOError", "ImportError", "ImportWarning",
	"IndentationError", "IndexError", "InterruptedError",
	"IsADirectoryError", "KeyError", "KeyboardInterrupt", "LookupError",
	"MemoryError", "ModuleNotFoundError", "NameError", "NotADirectoryError",
	"NotImplementedError", "OSError", "OverflowError",
	"PendingDeprecationWarning", "PermissionError", "ProcessLookupError",
	"RecursionError", "ReferenceError", "ResourceWarning", "RuntimeError",
	"RuntimeWarning", "StopAsyncIteration", "StopIteration", "SyntaxError",
	"SyntaxWarning", "SystemError", "SystemExit", "TabError", "TimeoutError",
	"TypeError", "UnboundLocalError", "UnicodeDecodeError",
	"UnicodeEncodeError", "UnicodeError", "UnicodeTranslateError",
	"UnicodeWarning", "UserWarning", "ValueError", "Warning",
	"ZeroDivisionError",
)

// Names importable from the typing module: generic aliases, special forms
// and the stock type variables.
var typingTypeNames = makeSet(
	"Any", "AnyStr", "Union", "Optional", "Callable", "ClassVar", "Final",
	"Literal", "NoReturn", "Text", "Type",
	"Tuple", "Dict", "List", "Set", "FrozenSet", "DefaultDict",
	"OrderedDict", "ChainMap", "Counter", "Deque", "NamedTuple", "TypedDict",
	"Iterable", "Iterator", "Generator", "Reversible",
	"Container", "Collection", "Hashable", "Sized",
	"AbstractSet", "MutableSet", "Mapping", "MutableMapping",
	"Sequence", "MutableSequence", "ByteString",
	"MappingView", "KeysView", "ItemsView", "ValuesView",
	"Awaitable", "Coroutine", "AsyncIterable", "AsyncIterator",
	"AsyncGenerator", "ContextManager", "AsyncContextManager",
	"Pattern", "Match", "IO", "TextIO", "BinaryIO",
	"SupportsAbs", "SupportsBytes", "SupportsComplex", "SupportsFloat",
	"SupportsIndex", "SupportsInt", "SupportsRound",
)

func makeSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// IsBuiltinType reports whether name needs no import at all.
func IsBuiltinType(name string) bool {
	_, ok := builtinTypeNames[name]
	return ok
}

// IsTypingType reports whether name is importable from the typing module.
func IsTypingType(name string) bool {
	_, ok := typingTypeNames[name]
	return ok
}
