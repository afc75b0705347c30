// Package lexer holds the quote and comment state machine shared by the
// normalizer, the call extractor and the PGML scanners.
//
// The machine only knows about single-quoted strings, double-quoted strings,
// backslash escapes and '#' line comments. By default quote state ends at a
// newline, which suits PGML prose where a stray apostrophe must not mask the
// rest of the region. Multiline scanners carry quote state across newlines,
// as Perl does; only a comment ends at the newline.
package lexer

// State is the position of a Scanner inside the lexical grammar.
type State uint8

const (
	// StateNone is plain code.
	StateNone State = iota

	// StateSingleQuote is inside a '...' literal.
	StateSingleQuote

	// StateDoubleQuote is inside a "..." literal.
	StateDoubleQuote

	// StateEscaped follows a backslash inside a literal.
	StateEscaped

	// StateComment runs from a '#' to the end of the line.
	StateComment
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateSingleQuote:
		return "single-quote"
	case StateDoubleQuote:
		return "double-quote"
	case StateEscaped:
		return "escaped"
	case StateComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Class is how a Scanner classified one byte.
type Class uint8

const (
	// Code is a byte outside any literal or comment.
	Code Class = iota

	// Quoted is a byte of a string literal, delimiters included.
	Quoted

	// Comment is a byte of a line comment, the '#' included.
	Comment
)

// Scanner classifies bytes one at a time. The zero value treats '#' as
// ordinary code; set Comments to recognize line comments.
type Scanner struct {
	// Comments enables '#' line comments. "$#" (the last-index sigil) never
	// starts a comment.
	Comments bool

	// Multiline keeps an open literal open across newlines.
	Multiline bool

	state State
	quote State
	prev  byte
}

// State returns the current state.
func (s *Scanner) State() State {
	return s.state
}

// InString reports whether the scanner is inside a literal.
func (s *Scanner) InString() bool {
	return s.state == StateSingleQuote || s.state == StateDoubleQuote || s.state == StateEscaped
}

// Reset returns the scanner to plain code.
func (s *Scanner) Reset() {
	s.state = StateNone
	s.quote = StateNone
	s.prev = 0
}

// Step consumes ch and reports its class.
func (s *Scanner) Step(ch byte) Class {
	prev := s.prev
	s.prev = ch

	if ch == '\n' {
		switch {
		case s.state == StateComment:
			s.state = StateNone
			return Comment
		case s.Multiline && s.state == StateEscaped:
			s.state = s.quote
			s.prev = 0
			return Quoted
		case s.Multiline && s.InString():
			return Quoted
		}
		s.state = StateNone
		s.quote = StateNone
		return Code
	}

	switch s.state {
	case StateComment:
		return Comment
	case StateEscaped:
		s.state = s.quote
		s.prev = 0
		return Quoted
	case StateSingleQuote, StateDoubleQuote:
		switch {
		case ch == '\\':
			s.quote = s.state
			s.state = StateEscaped
		case ch == '\'' && s.state == StateSingleQuote,
			ch == '"' && s.state == StateDoubleQuote:
			s.state = StateNone
		}
		return Quoted
	}

	switch {
	case ch == '\'':
		s.state = StateSingleQuote
		return Quoted
	case ch == '"':
		s.state = StateDoubleQuote
		return Quoted
	case ch == '#' && s.Comments && prev != '$':
		s.state = StateComment
		return Comment
	}
	return Code
}

// Classify returns the class of every byte of text.
func Classify(text string, comments bool) []Class {
	sc := Scanner{Comments: comments}
	return sc.Classify(text)
}

// Classify steps the scanner over text and returns the class of every byte.
// The scanner keeps its state afterwards, so consecutive calls continue one
// another.
func (s *Scanner) Classify(text string) []Class {
	classes := make([]Class, len(text))
	for i := 0; i < len(text); i++ {
		classes[i] = s.Step(text[i])
	}
	return classes
}

// CommentStart returns the offset of the '#' that starts a comment on line,
// or -1 when the line has none outside literals.
func CommentStart(line string) int {
	sc := Scanner{Comments: true}
	for i := 0; i < len(line); i++ {
		if sc.Step(line[i]) == Comment {
			return i
		}
	}
	return -1
}

// MatchClose returns the offset of the bracket closing the one at open, or
// -1 if it never closes. '(', '[' and '{' share one depth counter; literals
// and, when comments is set, line comments are skipped.
func MatchClose(text string, open int, comments bool) int {
	if open < 0 || open >= len(text) || !IsOpener(text[open]) {
		return -1
	}
	sc := Scanner{Comments: comments}
	depth := 0
	for i := open; i < len(text); i++ {
		if sc.Step(text[i]) != Code {
			continue
		}
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// IsOpener reports whether ch opens a bracket pair.
func IsOpener(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}
