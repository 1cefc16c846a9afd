package typeexpr

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"qs/internal/ast"
)

// ReadError reports malformed type expression text.
type ReadError struct {
	Text string
	Pos  int
	Msg  string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("type expression %q at %d: %s", e.Text, e.Pos, e.Msg)
}

// Read reads text such as "List<Outer<int>.Inner<string>>" into a fresh
// node store. It accepts identifiers, member access and type argument
// lists; whitespace between tokens is ignored.
func Read(text string) (*ast.TypeExps, ast.TypeID, error) {
	r := &reader{text: text, exps: ast.NewTypeExps(8)}
	id, err := r.expr()
	if err != nil {
		return nil, ast.NoTypeID, err
	}
	r.skipSpace()
	if r.pos < len(r.text) {
		return nil, ast.NoTypeID, r.errorf("unexpected %q", r.peek())
	}
	return r.exps, id, nil
}

type reader struct {
	text string
	pos  int
	exps *ast.TypeExps
}

func (r *reader) expr() (ast.TypeID, error) {
	start := r.skipSpace()
	name, err := r.ident()
	if err != nil {
		return ast.NoTypeID, err
	}
	args, err := r.args()
	if err != nil {
		return ast.NoTypeID, err
	}
	id := r.exps.NewId(ast.Span{Start: start, End: r.pos}, name, args)
	for {
		r.skipSpace()
		if r.peek() != '.' {
			return id, nil
		}
		r.pos++
		r.skipSpace()
		name, err := r.ident()
		if err != nil {
			return ast.NoTypeID, err
		}
		args, err := r.args()
		if err != nil {
			return ast.NoTypeID, err
		}
		id = r.exps.NewMember(ast.Span{Start: start, End: r.pos}, id, name, args)
	}
}

func (r *reader) args() ([]ast.TypeID, error) {
	r.skipSpace()
	if r.peek() != '<' {
		return nil, nil
	}
	r.pos++
	var out []ast.TypeID
	for {
		arg, err := r.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
		r.skipSpace()
		switch r.peek() {
		case ',':
			r.pos++
		case '>':
			r.pos++
			return out, nil
		case 0:
			return nil, r.errorf("unterminated type argument list")
		default:
			return nil, r.errorf("expected ',' or '>', found %q", r.peek())
		}
	}
}

func (r *reader) ident() (string, error) {
	start := r.pos
	for r.pos < len(r.text) {
		ch, size := utf8.DecodeRuneInString(r.text[r.pos:])
		if ch == '_' || unicode.IsLetter(ch) || (r.pos > start && unicode.IsDigit(ch)) {
			r.pos += size
			continue
		}
		break
	}
	if r.pos == start {
		if r.pos >= len(r.text) {
			return "", r.errorf("expected a name, found end of text")
		}
		return "", r.errorf("expected a name, found %q", r.peek())
	}
	return r.text[start:r.pos], nil
}

func (r *reader) peek() rune {
	if r.pos >= len(r.text) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(r.text[r.pos:])
	return ch
}

func (r *reader) skipSpace() int {
	for r.pos < len(r.text) {
		ch, size := utf8.DecodeRuneInString(r.text[r.pos:])
		if !unicode.IsSpace(ch) {
			break
		}
		r.pos += size
	}
	return r.pos
}

func (r *reader) errorf(format string, args ...any) error {
	return &ReadError{Text: r.text, Pos: r.pos, Msg: fmt.Sprintf(format, args...)}
}
