// Copyright 2026 The rmqr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// bitstring returns the contents of b as a string of '0' and '1'.
func bitstring(b *Bits) string {
	var sb strings.Builder
	for i := 0; i < b.nbit; i++ {
		sb.WriteByte('0' + b.b[i>>3]>>(7&^i)&1)
	}
	return sb.String()
}

func TestSegmentEncode(t *testing.T) {
	for _, tc := range []struct {
		seg  Segment
		v    Version
		want string
	}{
		{
			// 10 digits: groups of 3 pack into 10 bits,
			// the trailing digit into 4.
			Segment{"0123456789", Numeric}, R7x43,
			"001" + "1010" +
				"0000001100" + "0101011001" + "1010100110" + "1001",
		},
		{
			// pairs pack into 11 bits, the trailing symbol into 6
			Segment{"AC-42", Alphanumeric}, R7x43,
			"010" + "101" +
				"00111001110" + "11100111001" + "000010",
		},
		{
			// unaligned byte payload
			Segment{"aA", Byte}, R7x43,
			"011" + "010" + "01100001" + "01000001",
		},
		{
			// byte-aligned byte payload
			Segment{"aA", Byte}, R7x99,
			"011" + "00010" + "01100001" + "01000001",
		},
		{
			// golden vector: each kanji packs into 13 bits
			Segment{"点茗", Kanji}, R7x99,
			"1000001001101100111111101010101010",
		},
		{Segment{"", Numeric}, R7x43, "001" + "0000"},
		{Segment{"", Kanji}, R7x99, "100" + "00000"},
	} {
		var b Bits
		if err := tc.seg.Encode(&b, tc.v); err != nil {
			t.Errorf("Encode(%q, %s, %s): %v",
				tc.seg.Text, tc.seg.Mode, tc.v, err)
			continue
		}
		if s := bitstring(&b); s != tc.want {
			t.Errorf("Encode(%q, %s, %s):\nhave %s\nwant %s",
				tc.seg.Text, tc.seg.Mode, tc.v, s, tc.want)
		}
	}
}

// TestLength verifies that the cost oracle agrees with the encoder
// for every mode.
func TestLength(t *testing.T) {
	for _, tc := range []struct {
		text string
		mode Mode
	}{
		{"", Numeric}, {"1", Numeric}, {"12", Numeric},
		{"123", Numeric}, {"1234", Numeric}, {"12345678", Numeric},
		{"", Alphanumeric}, {"A", Alphanumeric}, {"AB", Alphanumeric},
		{"HTTP://X.Y/ 123:$%", Alphanumeric},
		{"", Byte}, {"a", Byte}, {"\x00\xff\xfe", Byte},
		{"héllo wörld", Byte},
		{"", Kanji}, {"点", Kanji}, {"点茗", Kanji}, {"日本語テスト", Kanji},
	} {
		for _, v := range []Version{R7x43, R9x77, R13x59, R17x139} {
			var b Bits
			if err := (Segment{tc.text, tc.mode}).Encode(&b, v); err != nil {
				t.Fatalf("Encode(%q, %s, %s): %v",
					tc.text, tc.mode, v, err)
			}
			n := tc.mode.Length(len(tc.text),
				utf8.RuneCountInString(tc.text), v)
			if n != b.Bits() {
				t.Errorf("%s.Length(%q, %s) = %d, encoded %d bits",
					tc.mode, tc.text, v, n, b.Bits())
			}
			if el := (Segment{tc.text, tc.mode}).EncodedLength(v); el != n {
				t.Errorf("EncodedLength(%q, %s, %s) = %d, want %d",
					tc.text, tc.mode, v, el, n)
			}
		}
	}
}

func TestKanjiLength(t *testing.T) {
	if n := Kanji.Length(len("点茗"), 2, R7x99); n != 34 {
		t.Errorf("Kanji.Length(点茗, R7x99) = %d, want 34", n)
	}
}

func TestIsValid(t *testing.T) {
	for _, tc := range []struct {
		seg  Segment
		want bool
	}{
		{Segment{"0123456789", Numeric}, true},
		{Segment{"012a", Numeric}, false},
		{Segment{"ABC $%*+-./:", Alphanumeric}, true},
		{Segment{"abc", Alphanumeric}, false},
		{Segment{"anything at all \x00\xff", Byte}, true},
		{Segment{"点茗", Kanji}, true},
		{Segment{"abc", Kanji}, false},
		{Segment{"📌", Kanji}, false},
		{Segment{"点a茗", Kanji}, false},
		{Segment{"", Mode(4)}, false},
	} {
		if ok := tc.seg.IsValid(); ok != tc.want {
			t.Errorf("Segment{%q, %s}.IsValid() = %v, want %v",
				tc.seg.Text, tc.seg.Mode, ok, tc.want)
		}
	}
}

func TestEncodeIllegalCharacter(t *testing.T) {
	for _, tc := range []struct {
		seg  Segment
		rune rune
	}{
		{Segment{"abc123", Kanji}, 'a'},
		{Segment{"12x4", Numeric}, 'x'},
		{Segment{"AB?", Alphanumeric}, '?'},
	} {
		var b Bits
		err := tc.seg.Encode(&b, R7x99)
		var ice IllegalCharacterError
		if !errors.As(err, &ice) {
			t.Errorf("Encode(%q, %s) = %v, want IllegalCharacterError",
				tc.seg.Text, tc.seg.Mode, err)
			continue
		}
		if ice.Rune != tc.rune || ice.Mode != tc.seg.Mode {
			t.Errorf("Encode(%q, %s): error for %q in %s, want %q",
				tc.seg.Text, tc.seg.Mode, ice.Rune, ice.Mode, tc.rune)
		}
	}
}

func TestEncodeBadArgs(t *testing.T) {
	var b Bits
	if err := (Segment{"1", Numeric}).Encode(&b, MaxVersion+1); err != ErrVersion {
		t.Errorf("Encode at invalid version: %v, want ErrVersion", err)
	}
	if err := (Segment{"1", Mode(-1)}).Encode(&b, R7x43); err == nil {
		t.Error("Encode with invalid mode: no error")
	}
}

func TestIsKanji(t *testing.T) {
	for _, tc := range []struct {
		r    rune
		want bool
	}{
		{'点', true},
		{'茗', true},
		{'日', true},
		{'ア', true},  // full width katakana
		{'a', false}, // ASCII
		{'ｱ', false}, // half width katakana, single byte Shift JIS
		{'é', false},
		{0x1F4CC, false}, // no Shift JIS encoding
		{utf8.RuneError, false},
	} {
		if ok := IsKanji(tc.r); ok != tc.want {
			t.Errorf("IsKanji(%q) = %v, want %v", tc.r, ok, tc.want)
		}
	}
}

func TestVersionTable(t *testing.T) {
	if s := R7x43.String(); s != "R7x43" {
		t.Errorf("R7x43.String() = %q", s)
	}
	if s := R17x139.String(); s != "R17x139" {
		t.Errorf("R17x139.String() = %q", s)
	}
	if n := R7x99.CountLength(Kanji); n != 5 {
		t.Errorf("R7x99.CountLength(Kanji) = %d, want 5", n)
	}
	if n := (MaxVersion + 1).CountLength(Numeric); n != 0 {
		t.Errorf("CountLength at invalid version = %d, want 0", n)
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		if v.DataBits(M) <= v.DataBits(H) {
			t.Errorf("%s: DataBits(M) = %d <= DataBits(H) = %d",
				v, v.DataBits(M), v.DataBits(H))
		}
	}
	if n := R7x43.DataBits(Level(2)); n != 0 {
		t.Errorf("DataBits at invalid level = %d, want 0", n)
	}
}

func TestPadTo(t *testing.T) {
	var b Bits
	b.Write(0b10101, 5)
	b.PadTo(3, 48)
	want := []byte{0xa8, 0xec, 0x11, 0xec, 0x11, 0xec}
	if got := b.Bytes(); string(got) != string(want) {
		t.Errorf("PadTo: have %x, want %x", got, want)
	}
	if b.Bits() != 48 {
		t.Errorf("PadTo: %d bits, want 48", b.Bits())
	}
}

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(0b101, 3)
	b.Write(0x7fff, 15)
	b.Write(1, 1)
	b.Write(0xdead, 16)
	if s := bitstring(&b); s != "101"+"111111111111111"+"1"+
		"1101111010101101" {
		t.Errorf("Write: %s", s)
	}
	b.Reset()
	if b.Bits() != 0 || len(b.Bytes()) != 0 {
		t.Error("Reset: not empty")
	}
}
