package lexer

import (
	"strings"
	"testing"

	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/reader"
	"github.com/vela-lang/vela/pkg/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(reader.New(strings.NewReader(src), "t.vela"), "t.vela")
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOT {
			return toks
		}
	}
}

func TestNextTokenOperatorsAndKeywords(t *testing.T) {
	input := `func is while do if elif else continue break return
struct variant or xor and not true false
== != === !== -> // ** <= >= @ !`

	want := []token.Type{
		token.FUNC, token.IS, token.WHILE, token.DO, token.IF, token.ELIF, token.ELSE,
		token.CONTINUE, token.BREAK, token.RETURN,
		token.STRUCT, token.VARIANT, token.OR, token.XOR, token.AND, token.NOT, token.TRUE, token.FALSE,
		token.EQ, token.NEQ, token.SAME, token.NSAME, token.ARROW, token.IDIV, token.POW, token.LE, token.GE, token.AT, token.BANG,
		token.EOT,
	}

	toks := scanAll(t, input)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestNextTokenIdentifiersAndLiterals(t *testing.T) {
	input := `x foo' _bar 42 0 3.14 1e10 2.5e-3 "hi\n\t\"q\""`

	toks := scanAll(t, input)

	wantIdent := []string{"x", "foo'", "_bar"}
	for i, name := range wantIdent {
		if toks[i].Type != token.IDENT || toks[i].Value.Str != name {
			t.Fatalf("token %d: got %v, want IDENT %q", i, toks[i], name)
		}
	}

	intTok := toks[3]
	if intTok.Type != token.INT || intTok.Value.Int != 42 {
		t.Fatalf("token 3: got %v, want INT 42", intTok)
	}
	zeroTok := toks[4]
	if zeroTok.Type != token.INT || zeroTok.Value.Int != 0 {
		t.Fatalf("token 4: got %v, want INT 0", zeroTok)
	}

	floatTok := toks[5]
	if floatTok.Type != token.FLOAT || floatTok.Value.Float != 3.14 {
		t.Fatalf("token 5: got %v, want FLOAT 3.14", floatTok)
	}

	strTok := toks[len(toks)-2]
	if strTok.Type != token.STRING || strTok.Value.Str != "hi\n\t\"q\"" {
		t.Fatalf("string token: got %q, want %q", strTok.Value.Str, "hi\n\t\"q\"")
	}

	if toks[len(toks)-1].Type != token.EOT {
		t.Fatal("expected trailing EOT")
	}
}

func TestNextTokenSkipsComments(t *testing.T) {
	toks := scanAll(t, "x # this is a comment\ny")
	if len(toks) != 3 || toks[0].Value.Str != "x" || toks[1].Value.Str != "y" || toks[2].Type != token.EOT {
		t.Fatalf("unexpected token stream: %+v", toks)
	}
}

func TestNextTokenIdentifierTooLong(t *testing.T) {
	l := New(reader.New(strings.NewReader(strings.Repeat("a", MaxIdentifierLength+10)), "t.vela"), "t.vela")
	_, err := l.Next()
	assertDiagKind(t, err, diag.IdentifierTooLong)
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(reader.New(strings.NewReader(`"abc`), "t.vela"), "t.vela")
	_, err := l.Next()
	assertDiagKind(t, err, diag.UnterminatedString)
}

func TestNextTokenNewlineInString(t *testing.T) {
	l := New(reader.New(strings.NewReader("\"abc\ndef\""), "t.vela"), "t.vela")
	_, err := l.Next()
	assertDiagKind(t, err, diag.NewlineInString)
}

func TestNextTokenIntLeadingZero(t *testing.T) {
	l := New(reader.New(strings.NewReader("007"), "t.vela"), "t.vela")
	_, err := l.Next()
	assertDiagKind(t, err, diag.IntWithLeadingZero)
}

func TestNextTokenUnknownEscape(t *testing.T) {
	l := New(reader.New(strings.NewReader(`"\q"`), "t.vela"), "t.vela")
	_, err := l.Next()
	assertDiagKind(t, err, diag.UnknownEscape)
}

func TestNextTokenIdempotentAtEOT(t *testing.T) {
	l := New(reader.New(strings.NewReader(""), "t.vela"), "t.vela")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if tok.Type != token.EOT {
			t.Fatalf("call %d: got %s, want EOT", i, tok.Type)
		}
	}
}

func assertDiagKind(t *testing.T, err error, want diag.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", want)
	}
	de, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected *diag.Error, got %T: %v", err, err)
	}
	if de.Kind != want {
		t.Fatalf("got diag kind %v, want %v", de.Kind, want)
	}
}
