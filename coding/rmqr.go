// Copyright 2026 The rmqr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level rMQR coding details.
package coding // import "github.com/rmqr/rmqr/coding"

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

var (
	ErrLevel   = errors.New("rmqr: invalid level")
	ErrVersion = errors.New("rmqr: invalid version")
)

// A Level represents an rMQR error correction level.
// rMQR codes support levels M and H only.
type Level int

const (
	M Level = iota // 37% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if M <= l && l <= H {
		return "MH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for the data of an rMQR
// code of the given version and level.
func NewBits(v Version, l Level) *Bits {
	return &Bits{b: make([]byte, 0, (v.DataBits(l)+7)>>3)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

func (b *Bits) Bits() int {
	return b.nbit
}

func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("rmqr: fractional byte")
	}
	return b.b
}

func (b *Bits) growTo(n int) {
	for cap(b.b) < n {
		b.b = append(b.b[:cap(b.b)], 0)[:len(b.b)]
	}
}

func (b *Bits) Grow(n int) { b.growTo(len(b.b) + n) }

func (b *Bits) Write(v uint32, nbit int) {
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

func (b *Bits) padTo(t, n int) {
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	if len(b.b) < (n+7)>>3 {
		buf := b.b[len(b.b) : n>>3]
		b.b = b.b[:(n+7)>>3]
		b.b[len(b.b)-1] = 0
		for len(buf) >= 2 {
			buf[0], buf[1] = 0xec, 0x11
			buf = buf[2:]
		}
		if len(buf) > 0 {
			buf[0] = 0xec
		}
	}
	b.nbit = len(b.b) * 8
}

// PadTo adds up to t terminator bits to b and pads it to n bits with
// the pad codewords 0xec and 0x11.  rMQR terminators are up to 3 bits.
func (b *Bits) PadTo(t, n int) {
	b.growTo((n + 7) >> 3)
	b.padTo(t, n)
}

// Predefined encoding modes.  The order is significant: when an
// optimal split has equal-cost alternatives, the earlier mode wins.
const (
	Numeric      Mode = iota // numeric mode, digits only
	Alphanumeric             // alphanumeric mode, 45-character subset
	Byte                     // byte mode, any data
	Kanji                    // kanji mode, UTF-8 text
)

// A Mode is an rMQR segment encoder.
type Mode int

// ModeEncoder implements an rMQR segment encoding.
//
// The segment is validated rune by rune using Accepts.  Modes whose
// wire form is not the source bytes have a Transform function
// returning the byte representation to encode.
type ModeEncoder struct {
	Name      string // Name for error reporting
	Indicator byte   // 3 bit rMQR mode indicator

	// EncodedLength returns the encoded data length in bits of a valid
	// string of the given length in bytes and runes.
	EncodedLength func(bytes, runes int) int

	// Accepts reports whether the encoding mode accepts the rune.
	// If nil, any rune is accepted.
	Accepts func(rune) bool

	// Transform returns the string transformed for encoding and a
	// boolean indicating whether the transform was successful.
	// If nil, the string is encoded as is.
	Transform func(string) (string, bool)

	// Count returns the character count of the transformed string.
	// If nil, the length of the string in bytes is used.
	Count func(string) int

	// Encode3, Encode2 and Encode1 return the encoding of the bytes
	// and its length in bits.  The encoder calls a non-nil Encode{N}
	// repeatedly as long as N source bytes are available, in
	// descending order of N.  If all are nil, each byte is encoded as
	// 8 bits.  The encoder panics if not all bytes are consumed.
	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// IsKanji reports whether the Unicode rune r is encodable in rMQR
// kanji mode: its Shift JIS encoding must be a double byte character
// in 0x8140-0x9ffc or 0xe040-0xebbf.
func IsKanji(r rune) bool {
	if r < 0x80 {
		return false
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	s, err := japanese.ShiftJIS.NewEncoder().Bytes(buf[:n])
	if err != nil || len(s) != 2 {
		return false
	}
	k := uint32(s[0])<<8 | uint32(s[1])
	return k-0x8140 < 0x9ffd-0x8140 || k-0xe040 < 0xebc0-0xe040
}

// modes is the fixed encoder table.  Indexed by Mode.
var modes = [...]ModeEncoder{
	Numeric: {
		Name:          "numeric",
		Indicator:     1,
		EncodedLength: func(b, r int) int { return (10*b + 2) / 3 },
		Accepts:       func(r rune) bool { return uint32(r-'0') < 10 },
		Encode1: func(b byte) (uint32, int) {
			return uint32(b), 4
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0])*10 + uint32(b[1]) - '0'*11&0x7f, 7
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0])*100 + uint32(b[1])*10 +
				uint32(b[2]) + -'0'*111&0x3ff, 10
		},
	},
	Alphanumeric: {
		Name:          "alphanumeric",
		Indicator:     2,
		EncodedLength: func(b, r int) int { return (11*b + 1) / 2 },
		Accepts: func(r rune) bool {
			return alphamask>>(uint32(r)-' ')&1 != 0
		},
		Encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		Name:      "byte",
		Indicator: 3,
	},
	Kanji: {
		Name:          "kanji",
		Indicator:     4,
		EncodedLength: func(b, r int) int { return r * 13 },
		Accepts:       IsKanji,
		Transform: func(s string) (string, bool) {
			t, err := japanese.ShiftJIS.NewEncoder().String(s)
			return t, err == nil && len(t)&1 == 0
		},
		Count: func(s string) int { return len(s) >> 1 },
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]&^0xc0)*0xc0 + uint32(b[1]) - 0x100,
				13
		},
	},
}

func getMode(mode Mode) *ModeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// length returns the length in bits of a valid string of the given
// length in bytes and runes encoded with the given character count
// indicator length, including the header.
func (m *ModeEncoder) length(bytes, runes, cc int) int {
	n := 3 + cc
	if f := m.EncodedLength; f != nil {
		n += f(bytes, runes)
	} else {
		n += bytes * 8
	}
	return n
}

// Length returns the length in bits of a valid string of the given
// length in bytes and runes encoded in mode at the given rMQR
// version, including the header.  Length returns 0 if and only if
// mode or v is invalid.
func (mode Mode) Length(bytes, runes int, v Version) int {
	n := 0
	if m := getMode(mode); m != nil && MinVersion <= v && v <= MaxVersion {
		n = m.length(bytes, runes, int(vtab[v].cc[mode]))
	}
	return n
}

// Is reports whether r is encodable in mode.
func Is(r rune, mode Mode) bool {
	m := getMode(mode)
	return m != nil && (m.Accepts == nil || m.Accepts(r))
}

// A Segment describes an rMQR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if m := getMode(e.Mode); m != nil {
		return fmt.Sprintf("rmqr: non-%s string %#q", m.Name, e.Text)
	}
	return fmt.Sprintf("rmqr: invalid mode %d", e.Mode)
}

// ModeError represents an invalid Mode number.
type ModeError Mode

func (e ModeError) Error() string {
	return fmt.Sprintf("rmqr: invalid mode %s", Mode(e))
}

// IllegalCharacterError represents a character outside the valid set
// of the mode asked to encode it.
type IllegalCharacterError struct {
	Mode Mode
	Rune rune
}

func (e IllegalCharacterError) Error() string {
	return fmt.Sprintf("rmqr: character %q not encodable in %s mode",
		e.Rune, e.Mode)
}

// check returns the first rune of seg.Text, if any, that m does not
// accept.
func (m *ModeEncoder) check(seg Segment) (rune, bool) {
	if is := m.Accepts; is != nil {
		for _, r := range seg.Text {
			if !is(r) {
				return r, false
			}
		}
	}
	return 0, true
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	m := getMode(seg.Mode)
	if m == nil {
		return false
	}
	_, ok := m.check(seg)
	return ok
}

// EncodedLength returns the encoded length in bits of seg at the
// given rMQR version.  EncodedLength returns 0 if and only if mode or
// v is invalid.  The segment is not validated.
func (seg Segment) EncodedLength(v Version) int {
	return seg.Mode.Length(len(seg.Text), utf8.RuneCountInString(seg.Text), v)
}

// Encode writes seg encoded for the given rMQR version to b.
func (seg Segment) Encode(b *Bits, v Version) error {
	if v < MinVersion || v > MaxVersion {
		return ErrVersion
	}
	m := getMode(seg.Mode)
	if m == nil {
		return ModeError(seg.Mode)
	}
	if r, ok := m.check(seg); !ok {
		return IllegalCharacterError{seg.Mode, r}
	}
	s := seg.Text
	if m.Transform != nil {
		t, ok := m.Transform(s)
		if !ok {
			return SegmentError(seg)
		}
		s = t
	}
	// write header
	b.Write(uint32(m.Indicator), 3)
	w := len(s)
	if m.Count != nil {
		w = m.Count(s)
	}
	b.Write(uint32(w), int(vtab[v].cc[seg.Mode]))
	// encode the string
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 != nil || enc2 != nil || enc1 != nil {
		if enc3 != nil {
			for len(s) >= 3 {
				b.Write(enc3([3]byte{s[0], s[1], s[2]}))
				s = s[3:]
			}
		}
		if enc2 != nil {
			for len(s) >= 2 {
				b.Write(enc2([2]byte{s[0], s[1]}))
				s = s[2:]
			}
		}
		if enc1 != nil {
			for len(s) >= 1 {
				b.Write(enc1(s[0]))
				s = s[1:]
			}
		} else if s != "" {
			panic("rmqr: " + m.Name + " mode internal error")
		}
	} else if b.nbit&7 != 0 {
		for ; len(s) >= 4; s = s[4:] {
			u := uint32(s[0])<<24 | uint32(s[1])<<16 |
				uint32(s[2])<<8 | uint32(s[3])
			b.Write(u, 32)
		}
		if s != "" {
			var u uint32
			for i := 0; i < len(s); i++ {
				u = u<<8 | uint32(s[i])
			}
			b.Write(u, 8*len(s))
		}
	} else {
		b.b = append(b.b, s...)
		b.nbit += len(s) * 8
	}
	return nil
}
