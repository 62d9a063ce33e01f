// Package reader implements the wide-character source stream described
// in spec section 4.1: newline normalization, a distinguished
// end-of-text sentinel, and control-character rejection, with
// line/column tracking carried forward into every later stage.
package reader

import (
	"bufio"
	"io"

	"golang.org/x/text/unicode/norm"

	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/pkg/position"
)

// EOT is the sentinel rune (code point 3, ASCII end-of-text) returned
// once the stream is exhausted or has failed. It is never a valid
// source character, so lexer code can test for it directly.
const EOT = rune(0x03)

// Reader exposes the stream-reader contract: Current, Advance, Pos.
// Source bytes are passed through golang.org/x/text/unicode/norm's NFC
// transform before decoding, so combining-character sequences in
// identifiers and string literals behave consistently regardless of
// the normalization form the source file was saved in.
type Reader struct {
	br   *bufio.Reader
	file string
	cur  rune
	pos  position.Position
	err  *diag.Error
	done bool
}

// New wraps r as a Reader positioned at the first character (or EOT,
// for an empty stream). file is attached to any reported error so it
// can be named in the spec section 7 "in file <path>" wrapper.
func New(r io.Reader, file string) *Reader {
	rd := &Reader{
		br:   bufio.NewReader(norm.NFC.Reader(r)),
		file: file,
		pos:  position.Start,
	}
	rd.decode(true)
	return rd
}

// Current returns the character at the reader's current position, or
// EOT once the stream is exhausted or errored.
func (r *Reader) Current() rune { return r.cur }

// Pos returns the position of Current().
func (r *Reader) Pos() position.Position { return r.pos }

// Err returns the sticky reader error, if any. Once set it never
// clears; Current keeps returning EOT and Advance becomes a no-op.
func (r *Reader) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Advance moves to the next character. A no-op once the stream is
// exhausted or has failed, per spec section 4.1's "after EOT, the
// reader stays at EOT" rule.
func (r *Reader) Advance() {
	if r.done {
		return
	}
	r.decode(false)
}

// decode reads the next normalized rune into r.cur, advancing r.pos
// based on the previously-current character (unless first, in which
// case r.pos is left at its initial value). \r\n and lone \r both
// collapse to \n before the control-character check runs, so a
// Windows-style line ending is never itself rejected.
func (r *Reader) decode(first bool) {
	if !first {
		if r.cur == '\n' {
			r.pos.Line++
			r.pos.Column = 1
		} else {
			r.pos.Column++
		}
	}

	ch, _, rerr := r.br.ReadRune()
	if rerr != nil {
		if rerr != io.EOF {
			r.err = diag.New(diag.ReaderInputError, r.pos, r.file, "failed to read source: %s", rerr.Error())
		}
		r.cur = EOT
		r.done = true
		return
	}

	if ch == '\r' {
		if next, _, perr := r.br.ReadRune(); perr == nil && next != '\n' {
			_ = r.br.UnreadRune()
		}
		ch = '\n'
	}

	if ch != '\n' && ch < 0x20 {
		r.err = diag.New(diag.ReaderControlChar, r.pos, r.file, "unexpected control character 0x%02X in source", ch)
		r.cur = EOT
		r.done = true
		return
	}

	r.cur = ch
}
