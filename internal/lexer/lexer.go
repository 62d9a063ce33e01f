// Package lexer tokenizes Vela source, folding in the comment filter
// (spec section 4.2 budgets them as one combined component): it skips
// whitespace and "#"-to-end-of-line comments between tokens, enforces
// the long-token guards, and processes string escapes.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/reader"
	"github.com/vela-lang/vela/pkg/position"
	"github.com/vela-lang/vela/pkg/token"
)

// Long-token guards from spec section 4.2. Chosen generously enough
// that no realistic program trips them, while still bounding a
// pathological or truncated input's memory use.
const (
	MaxIdentifierLength = 255
	MaxStringLength      = 65536
	MaxCommentLength     = 8192
)

// Lexer scans one file's worth of source into tokens, on demand.
type Lexer struct {
	r    *reader.Reader
	file string
}

// New wraps src (already decoded to runes by the reader) as a Lexer
// attributing errors to file.
func New(r *reader.Reader, file string) *Lexer {
	return &Lexer{r: r, file: file}
}

func (l *Lexer) cur() rune                 { return l.r.Current() }
func (l *Lexer) advance()                  { l.r.Advance() }
func (l *Lexer) pos() position.Position    { return l.r.Pos() }
func (l *Lexer) errAt(kind diag.Kind, pos position.Position, format string, args ...any) error {
	return diag.New(kind, pos, l.file, format, args...)
}

// Next scans and returns the next token. Once EOT is reached it is
// returned on every subsequent call (spec section 4.2's idempotence
// rule) — Next never returns an error once that point is reached.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipTrivia(); err != nil {
		return token.Token{}, err
	}
	if err := l.r.Err(); err != nil {
		return token.Token{}, err
	}

	start := l.pos()
	ch := l.cur()

	switch {
	case ch == reader.EOT:
		return token.Token{Type: token.EOT, Pos: start}, nil
	case isIdentStart(ch):
		return l.scanIdentifier(start)
	case unicode.IsDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	default:
		return l.scanOperator(start)
	}
}

// skipTrivia consumes whitespace and comments until a real token
// starts, the stream ends, or the reader itself fails.
func (l *Lexer) skipTrivia() error {
	for {
		ch := l.cur()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\v' || ch == '\f':
			l.advance()
		case ch == '#':
			if err := l.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
		if err := l.r.Err(); err != nil {
			return err
		}
	}
}

func (l *Lexer) skipComment() error {
	start := l.pos()
	l.advance() // consume '#'
	n := 0
	for {
		c := l.cur()
		if c == '\n' || c == reader.EOT {
			return nil
		}
		n++
		if n > MaxCommentLength {
			return l.errAt(diag.CommentTooLong, start, "comment exceeds maximum length of %d characters", MaxCommentLength)
		}
		l.advance()
		if err := l.r.Err(); err != nil {
			return err
		}
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentCont(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch) || ch == '\''
}

func (l *Lexer) scanIdentifier(start position.Position) (token.Token, error) {
	var sb strings.Builder
	n := 0
	for isIdentCont(l.cur()) {
		sb.WriteRune(l.cur())
		n++
		l.advance()
		if err := l.r.Err(); err != nil {
			return token.Token{}, err
		}
		if n > MaxIdentifierLength {
			// keep draining the rest of the identifier so the caller's
			// position doesn't land mid-token, then report.
			for isIdentCont(l.cur()) {
				l.advance()
			}
			return token.Token{}, l.errAt(diag.IdentifierTooLong, start, "identifier exceeds maximum length of %d characters", MaxIdentifierLength)
		}
	}

	name := sb.String()
	if kw, ok := token.Keywords[name]; ok {
		return token.Token{Type: kw, Pos: start, Value: token.Value{Str: name}}, nil
	}
	return token.Token{Type: token.IDENT, Pos: start, Value: token.Value{Str: name}}, nil
}

func (l *Lexer) scanDigits() string {
	var sb strings.Builder
	for unicode.IsDigit(l.cur()) {
		sb.WriteRune(l.cur())
		l.advance()
	}
	return sb.String()
}

func (l *Lexer) scanNumber(start position.Position) (token.Token, error) {
	first := l.cur()
	intPart := l.scanDigits()
	if err := l.r.Err(); err != nil {
		return token.Token{}, err
	}
	if first == '0' && len(intPart) > 1 {
		return token.Token{}, l.errAt(diag.IntWithLeadingZero, start, "integer literal %q has a leading zero", intPart)
	}
	if _, err := strconv.ParseInt(intPart, 10, 32); err != nil {
		return token.Token{}, l.errAt(diag.IntTooLarge, start, "integer literal %q does not fit in a 32-bit signed integer", intPart)
	}

	isFloat := false
	var fracPart, expSign, expDigits string

	if l.cur() == '.' {
		isFloat = true
		l.advance()
		fracPart = l.scanDigits()
	}

	if l.cur() == 'e' || l.cur() == 'E' {
		isFloat = true
		l.advance()
		if l.cur() == '+' || l.cur() == '-' {
			expSign = string(l.cur())
			l.advance()
		}
		expDigits = l.scanDigits()
		if expDigits == "" {
			return token.Token{}, l.errAt(diag.InvalidExponent, start, "malformed exponent in numeric literal")
		}
		if _, err := strconv.ParseInt(expDigits, 10, 32); err != nil {
			return token.Token{}, l.errAt(diag.IntTooLarge, start, "exponent %q does not fit in a 32-bit signed integer", expDigits)
		}
	}

	if !isFloat {
		v, _ := strconv.ParseInt(intPart, 10, 32)
		return token.Token{Type: token.INT, Pos: start, Value: token.Value{Int: int32(v)}}, nil
	}

	text := intPart + "."
	if fracPart != "" {
		text += fracPart
	} else {
		text += "0"
	}
	if expDigits != "" {
		text += "e" + expSign + expDigits
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token.Token{}, l.errAt(diag.IntTooLarge, start, "float literal %q is out of range", text)
	}
	return token.Token{Type: token.FLOAT, Pos: start, Value: token.Value{Float: f}}, nil
}

func hexDigitValue(ch rune) (int, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10, true
	default:
		return 0, false
	}
}

func (l *Lexer) scanString(start position.Position) (token.Token, error) {
	l.advance() // consume opening quote
	var sb strings.Builder
	n := 0

	for {
		if err := l.r.Err(); err != nil {
			return token.Token{}, err
		}
		ch := l.cur()
		switch ch {
		case reader.EOT:
			return token.Token{}, l.errAt(diag.UnterminatedString, start, "unterminated string literal")
		case '\n':
			return token.Token{}, l.errAt(diag.NewlineInString, l.pos(), "raw newline in string literal")
		case '"':
			l.advance()
			return token.Token{Type: token.STRING, Pos: start, Value: token.Value{Str: sb.String()}}, nil
		case '\\':
			escPos := l.pos()
			l.advance()
			switch l.cur() {
			case 'n':
				sb.WriteByte('\n')
				l.advance()
			case 'r':
				sb.WriteByte('\r')
				l.advance()
			case 't':
				sb.WriteByte('\t')
				l.advance()
			case '\\':
				sb.WriteByte('\\')
				l.advance()
			case '"':
				sb.WriteByte('"')
				l.advance()
			case 'x':
				l.advance()
				hi, okHi := hexDigitValue(l.cur())
				if !okHi {
					return token.Token{}, l.errAt(diag.InvalidHexChar, escPos, "invalid hex escape: expected two hex digits after \\x")
				}
				l.advance()
				lo, okLo := hexDigitValue(l.cur())
				if !okLo {
					return token.Token{}, l.errAt(diag.InvalidHexChar, escPos, "invalid hex escape: expected two hex digits after \\x")
				}
				l.advance()
				sb.WriteByte(byte(hi*16 + lo))
			default:
				return token.Token{}, l.errAt(diag.UnknownEscape, escPos, "unknown escape sequence \\%c", l.cur())
			}
		default:
			sb.WriteRune(ch)
			l.advance()
		}
		n++
		if n > MaxStringLength {
			return token.Token{}, l.errAt(diag.StringTooLong, start, "string literal exceeds maximum length of %d characters", MaxStringLength)
		}
	}
}

// scanOperator handles structural punctuation and operators, applying
// longest-match first (=== before ==, // before /, ** before *, ->
// before -) as spec section 4.2 requires.
func (l *Lexer) scanOperator(start position.Position) (token.Token, error) {
	ch := l.cur()
	l.advance()

	simple := func(t token.Type) (token.Token, error) {
		return token.Token{Type: t, Pos: start}, nil
	}

	switch ch {
	case '{':
		return simple(token.LBRACE)
	case '}':
		return simple(token.RBRACE)
	case ';':
		return simple(token.SEMI)
	case '(':
		return simple(token.LPAREN)
	case ')':
		return simple(token.RPAREN)
	case ',':
		return simple(token.COMMA)
	case '$':
		return simple(token.DOLLAR)
	case '[':
		return simple(token.LBRACKET)
	case ']':
		return simple(token.RBRACKET)
	case '.':
		return simple(token.DOT)
	case '@':
		return simple(token.AT)
	case '+':
		return simple(token.PLUS)
	case '%':
		return simple(token.PCT)
	case '-':
		if l.cur() == '>' {
			l.advance()
			return simple(token.ARROW)
		}
		return simple(token.MINUS)
	case '=':
		if l.cur() == '=' {
			l.advance()
			if l.cur() == '=' {
				l.advance()
				return simple(token.SAME)
			}
			return simple(token.EQ)
		}
		return simple(token.ASSIGN)
	case '!':
		if l.cur() == '=' {
			l.advance()
			if l.cur() == '=' {
				l.advance()
				return simple(token.NSAME)
			}
			return simple(token.NEQ)
		}
		return simple(token.BANG)
	case '>':
		if l.cur() == '=' {
			l.advance()
			return simple(token.GE)
		}
		return simple(token.GT)
	case '<':
		if l.cur() == '=' {
			l.advance()
			return simple(token.LE)
		}
		return simple(token.LT)
	case '*':
		if l.cur() == '*' {
			l.advance()
			return simple(token.POW)
		}
		return simple(token.STAR)
	case '/':
		if l.cur() == '/' {
			l.advance()
			return simple(token.IDIV)
		}
		return simple(token.SLASH)
	default:
		return token.Token{}, l.errAt(diag.UnknownToken, start, "unexpected character %q", ch)
	}
}
