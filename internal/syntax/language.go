package syntax

// Language describes the lexical surface the highlighter needs: reserved
// words, recognized punctuation, and string/comment delimiters. It is
// supplied by the caller so the highlighter stays language-agnostic.
type Language struct {
	Keywords map[string]bool
	Builtins map[string]bool

	LineComment       string
	BlockCommentOpen  string
	BlockCommentClose string

	StringDelims    []byte
	RawStringDelim  byte
	EscapeChar      byte
	Punctuation     map[byte]bool
	IdentRune       func(r rune) bool
	NumberStartRune func(r rune) bool
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Go returns the language definition the tutor uses for exercise source.
func Go() Language {
	return Language{
		Keywords: set(
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select",
			"struct", "switch", "type", "var",
		),
		Builtins: set(
			"bool", "byte", "complex64", "complex128", "error", "float32",
			"float64", "int", "int8", "int16", "int32", "int64", "rune",
			"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"any", "append", "cap", "clear", "close", "copy", "delete", "len",
			"make", "max", "min", "new", "panic", "print", "println",
			"recover", "true", "false", "iota", "nil",
		),
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		StringDelims:      []byte{'"', '\''},
		RawStringDelim:    '`',
		EscapeChar:        '\\',
		Punctuation: map[byte]bool{
			'(': true, ')': true, '{': true, '}': true, '[': true, ']': true,
			';': true, ':': true, ',': true, '.': true, '+': true, '-': true,
			'*': true, '/': true, '%': true, '=': true, '<': true, '>': true,
			'!': true, '&': true, '|': true, '^': true, '?': true, '~': true,
		},
	}
}
