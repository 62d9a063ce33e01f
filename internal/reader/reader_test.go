package reader

import (
	"strings"
	"testing"
)

func TestReaderNormalizesNewlines(t *testing.T) {
	r := New(strings.NewReader("a\r\nb\rc\n"), "t.vela")

	var got []rune
	for {
		got = append(got, r.Current())
		if r.Current() == EOT {
			break
		}
		r.Advance()
	}

	want := []rune{'a', '\n', 'b', '\n', 'c', '\n', EOT}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", string(got), string(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rune %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReaderTracksLineAndColumn(t *testing.T) {
	r := New(strings.NewReader("ab\ncd"), "t.vela")

	if p := r.Pos(); p.Line != 1 || p.Column != 1 {
		t.Fatalf("initial pos = %+v, want line 1 col 1", p)
	}
	r.Advance() // 'b'
	if p := r.Pos(); p.Line != 1 || p.Column != 2 {
		t.Fatalf("pos after 'a' = %+v, want line 1 col 2", p)
	}
	r.Advance() // '\n'
	r.Advance() // 'c'
	if p := r.Pos(); p.Line != 2 || p.Column != 1 {
		t.Fatalf("pos after newline = %+v, want line 2 col 1", p)
	}
}

func TestReaderRejectsControlChar(t *testing.T) {
	r := New(strings.NewReader("a\x01b"), "t.vela")
	r.Advance()
	if r.Current() != EOT {
		t.Fatalf("expected EOT after control char, got %q", r.Current())
	}
	if r.Err() == nil {
		t.Fatal("expected a sticky error after a control character")
	}
}

func TestReaderStaysAtEOTAfterExhaustion(t *testing.T) {
	r := New(strings.NewReader(""), "t.vela")
	if r.Current() != EOT {
		t.Fatalf("empty stream should start at EOT, got %q", r.Current())
	}
	r.Advance()
	if r.Current() != EOT {
		t.Fatal("Advance past EOT must stay at EOT")
	}
}
