// Package syntax tokenizes single lines of source into styled spans.
//
// Highlighting is incremental: each line is scanned once, left to right,
// and the only context carried between lines is a small State value. That
// keeps re-highlighting on every keystroke O(line length) with no global
// re-tokenization.
package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Class identifies the token class of a span.
type Class int

const (
	ClassPlain Class = iota
	ClassKeyword
	ClassBuiltin
	ClassString
	ClassComment
	ClassNumber
	ClassPunct
)

func (c Class) String() string {
	switch c {
	case ClassKeyword:
		return "keyword"
	case ClassBuiltin:
		return "builtin"
	case ClassString:
		return "string"
	case ClassComment:
		return "comment"
	case ClassNumber:
		return "number"
	case ClassPunct:
		return "punct"
	default:
		return "plain"
	}
}

// Span is a styled byte range of one line. Spans produced by HighlightLine
// are non-overlapping, ordered, and cover the full line.
type Span struct {
	Start int
	End   int
	Class Class
}

// State is the lexical context carried from the end of one line into the
// next. The zero value is the default state.
type State struct {
	InBlockComment bool
	InRawString    bool
}

type emitter struct {
	spans []Span
}

func (e *emitter) emit(start, end int, class Class) {
	if end <= start {
		return
	}
	if n := len(e.spans); n > 0 && e.spans[n-1].Class == class && e.spans[n-1].End == start {
		e.spans[n-1].End = end
		return
	}
	e.spans = append(e.spans, Span{Start: start, End: end, Class: class})
}

// HighlightLine scans one line and returns its spans plus the state to
// carry into the following line. An unterminated block comment or raw
// string is not an error: the rest of the line takes the open state's
// class and resolution is deferred to a later line.
func HighlightLine(lang Language, line string, st State) ([]Span, State) {
	e := &emitter{}
	i := 0
	n := len(line)

	for i < n {
		switch {
		case st.InBlockComment:
			if idx := strings.Index(line[i:], lang.BlockCommentClose); lang.BlockCommentClose != "" && idx >= 0 {
				end := i + idx + len(lang.BlockCommentClose)
				e.emit(i, end, ClassComment)
				i = end
				st.InBlockComment = false
			} else {
				e.emit(i, n, ClassComment)
				i = n
			}

		case st.InRawString:
			if idx := strings.IndexByte(line[i:], lang.RawStringDelim); lang.RawStringDelim != 0 && idx >= 0 {
				end := i + idx + 1
				e.emit(i, end, ClassString)
				i = end
				st.InRawString = false
			} else {
				e.emit(i, n, ClassString)
				i = n
			}

		case lang.LineComment != "" && strings.HasPrefix(line[i:], lang.LineComment):
			e.emit(i, n, ClassComment)
			i = n

		case lang.BlockCommentOpen != "" && strings.HasPrefix(line[i:], lang.BlockCommentOpen):
			st.InBlockComment = true
			e.emit(i, i+len(lang.BlockCommentOpen), ClassComment)
			i += len(lang.BlockCommentOpen)

		case lang.RawStringDelim != 0 && line[i] == lang.RawStringDelim:
			st.InRawString = true
			e.emit(i, i+1, ClassString)
			i++

		case isStringDelim(lang, line[i]):
			i = scanQuoted(lang, line, i, e)

		case isNumberStart(lang, line, i):
			i = scanNumber(line, i, e)

		case isIdentStart(lang, line, i):
			i = scanIdent(lang, line, i, e)

		case lang.Punctuation[line[i]]:
			e.emit(i, i+1, ClassPunct)
			i++

		default:
			_, size := utf8.DecodeRuneInString(line[i:])
			e.emit(i, i+size, ClassPlain)
			i += size
		}
	}

	if e.spans == nil {
		e.spans = []Span{}
	}
	return e.spans, st
}

// scanQuoted consumes a quoted literal starting at i. Quoted strings do
// not continue onto the next line; an unterminated one simply ends with
// the line.
func scanQuoted(lang Language, line string, i int, e *emitter) int {
	delim := line[i]
	j := i + 1
	for j < len(line) {
		if lang.EscapeChar != 0 && line[j] == lang.EscapeChar && j+1 < len(line) {
			j += 2
			continue
		}
		if line[j] == delim {
			j++
			break
		}
		j++
	}
	e.emit(i, j, ClassString)
	return j
}

func scanNumber(line string, i int, e *emitter) int {
	j := i
	for j < len(line) {
		c := line[j]
		if c >= '0' && c <= '9' || c == '.' || c == '_' ||
			c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' ||
			c == 'x' || c == 'X' || c == 'o' || c == 'O' || c == 'b' || c == 'B' {
			j++
			continue
		}
		break
	}
	e.emit(i, j, ClassNumber)
	return j
}

func scanIdent(lang Language, line string, i int, e *emitter) int {
	j := i
	for j < len(line) {
		r, size := utf8.DecodeRuneInString(line[j:])
		if !identRune(lang, r, j > i) {
			break
		}
		j += size
	}
	word := line[i:j]
	class := ClassPlain
	switch {
	case lang.Keywords[word]:
		class = ClassKeyword
	case lang.Builtins[word]:
		class = ClassBuiltin
	}
	e.emit(i, j, class)
	return j
}

func isStringDelim(lang Language, c byte) bool {
	for _, d := range lang.StringDelims {
		if c == d {
			return true
		}
	}
	return false
}

func isNumberStart(lang Language, line string, i int) bool {
	if lang.NumberStartRune != nil {
		r, _ := utf8.DecodeRuneInString(line[i:])
		return lang.NumberStartRune(r)
	}
	return line[i] >= '0' && line[i] <= '9'
}

func isIdentStart(lang Language, line string, i int) bool {
	r, _ := utf8.DecodeRuneInString(line[i:])
	return identRune(lang, r, false)
}

func identRune(lang Language, r rune, continuation bool) bool {
	if lang.IdentRune != nil {
		return lang.IdentRune(r)
	}
	if unicode.IsLetter(r) || r == '_' {
		return true
	}
	return continuation && unicode.IsDigit(r)
}
