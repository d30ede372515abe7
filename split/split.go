// Copyright 2026 The rmqr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits strings into rMQR code segments.

Split partitions a UTF-8 string into numeric, alphanumeric, byte and
kanji mode segments minimising the total encoded length for a given
version, by dynamic programming over (position, mode, phase) states.
The phase of a state is the number of characters already committed to
the current numeric or alphanumeric bit packing group; byte and kanji
modes have no grouping and their phase is always 0.
*/
package split // import "github.com/rmqr/rmqr/split"

import (
	"errors"
	"unicode/utf8"

	"github.com/rmqr/rmqr/coding"
)

// rMQR error correction levels.
const (
	M = coding.M // 37% redundant
	H = coding.H // 65% redundant
)

// Predefined modes, in tie-break priority order: on equal cost the
// earlier mode wins.
const (
	Numeric      = coding.Numeric
	Alphanumeric = coding.Alphanumeric
	Byte         = coding.Byte
	Kanji        = coding.Kanji
)

// ErrDataTooLong is returned when the input has more than MaxChars
// characters, or when no segmentation of it fits in the data bits of
// the requested version and level.
var ErrDataTooLong = errors.New("rmqr: data too long")

// MaxChars is the maximum number of input characters.  No rMQR code
// stores more than 360 digits, so longer inputs cannot be encoded at
// any version.
const MaxChars = 360

const (
	numModes  = 4
	numPhases = 3
	numStates = numModes * numPhases

	inf = 1 << 24 // larger than any encodable length
)

/*
An optimizer holds the dynamic programming tables for one split.

dp[n*numStates+mode*numPhases+phase] is the minimum bit length of an
encoding of the first n characters whose last character is encoded in
mode, with phase characters pending in the current packing group.
The root states (0, mode, 0) hold the header cost of an empty segment
in each mode, so appending a character to a root pays only its
payload contribution, while entering a different mode from any state
pays the full header of a fresh segment plus the first character.

parent holds, for each state, the packed mode*numPhases+phase of the
chosen predecessor; the predecessor's position is always one less, as
every transition consumes exactly one character.  Root states point
at themselves.

The tables are fixed-size arenas sized to MaxChars and are not reused
across calls: Split allocates a fresh optimizer per call.
*/
type optimizer struct {
	text string
	v    coding.Version
	n    int               // number of characters
	off  [MaxChars + 1]int // byte offset of each character
	mask [MaxChars]byte    // encodable modes per character

	dp     [(MaxChars + 1) * numStates]int32
	parent [(MaxChars + 1) * numStates]byte
}

// scan decodes the text into characters, recording byte offsets and
// the set of modes accepting each character.
func (o *optimizer) scan() error {
	n := 0
	for i := 0; i < len(o.text); {
		if n == MaxChars {
			return ErrDataTooLong
		}
		r, sz := utf8.DecodeRuneInString(o.text[i:])
		var m byte
		for mode := Numeric; mode <= Kanji; mode++ {
			if coding.Is(r, mode) {
				m |= 1 << mode
			}
		}
		o.off[n] = i
		o.mask[n] = m
		n++
		i += sz
	}
	o.off[n] = len(o.text)
	o.n = n
	return nil
}

// stepCost returns the cost in bits and the new phase for appending
// one more character of sz bytes to the current group of mode.
func stepCost(mode coding.Mode, phase, sz int) (int32, int) {
	switch mode {
	case Numeric:
		if phase == 0 {
			return 4, 1
		}
		return 3, (phase + 1) % 3
	case Alphanumeric:
		if phase == 0 {
			return 6, 1
		}
		return 5, 0
	case Kanji:
		return 13, 0
	}
	return int32(8 * sz), 0
}

// compute fills the dynamic programming tables.
func (o *optimizer) compute() {
	for i := range o.dp[:(o.n+1)*numStates] {
		o.dp[i] = inf
	}
	for m := Numeric; m <= Kanji; m++ {
		i := int(m) * numPhases
		o.dp[i] = int32(m.Length(0, 0, o.v))
		o.parent[i] = byte(i)
	}
	for n := 0; n < o.n; n++ {
		sz := o.off[n+1] - o.off[n]
		mask := o.mask[n]
		base := n * numStates
		for s := 0; s < numStates; s++ {
			c := o.dp[base+s]
			if c >= inf {
				continue
			}
			mode := coding.Mode(s / numPhases)
			for nm := Numeric; nm <= Kanji; nm++ {
				if mask&(1<<nm) == 0 {
					continue
				}
				var cost int32
				var np int
				if nm == mode {
					cost, np = stepCost(nm, s%numPhases, sz)
				} else {
					// header of a fresh segment plus its first character
					cost = int32(nm.Length(sz, 1, o.v))
					if nm <= Alphanumeric {
						np = 1
					}
				}
				t := base + numStates + int(nm)*numPhases + np
				if c+cost < o.dp[t] {
					o.dp[t] = c + cost
					o.parent[t] = byte(s)
				}
			}
		}
	}
}

// best returns the terminal state with the minimum cost and the cost
// itself.  States are scanned in mode order, so on equal cost the
// earlier mode wins.
func (o *optimizer) best() (int, int32) {
	base := o.n * numStates
	best, cost := 0, o.dp[base]
	for s := 1; s < numStates; s++ {
		if o.dp[base+s] < cost {
			best, cost = s, o.dp[base+s]
		}
	}
	return best, cost
}

// segments backtracks the optimal path from the given terminal state
// and merges adjacent same-mode characters into segments.
func (o *optimizer) segments(best int) []coding.Segment {
	if o.n == 0 {
		return nil
	}
	var mode [MaxChars]byte
	for n, s := o.n, best; n > 0; n-- {
		mode[n-1] = byte(s / numPhases)
		s = int(o.parent[n*numStates+s])
	}
	segs := make([]coding.Segment, 0, 4)
	start := 0
	for i := 1; i < o.n; i++ {
		if mode[i] != mode[start] {
			segs = append(segs, coding.Segment{
				Text: o.text[o.off[start]:o.off[i]],
				Mode: coding.Mode(mode[start]),
			})
			start = i
		}
	}
	return append(segs, coding.Segment{
		Text: o.text[o.off[start]:],
		Mode: coding.Mode(mode[start]),
	})
}

// Split splits text into segments minimising the encoded length at
// the given rMQR version and error correction level.  It returns the
// segments and their total encoded length in bits.  Concatenating
// the segment texts in order yields text.
//
// If text has more than MaxChars characters, or the minimal encoding
// does not fit in v.DataBits(l) bits, Split returns ErrDataTooLong
// and no segments.
func Split(text string, v coding.Version, l coding.Level) ([]coding.Segment, int, error) {
	if v < coding.MinVersion || v > coding.MaxVersion {
		return nil, 0, coding.ErrVersion
	}
	if l < M || l > H {
		return nil, 0, coding.ErrLevel
	}
	o := &optimizer{text: text, v: v}
	if err := o.scan(); err != nil {
		return nil, 0, err
	}
	o.compute()
	best, cost := o.best()
	if int(cost) > v.DataBits(l) {
		return nil, 0, ErrDataTooLong
	}
	return o.segments(best), int(cost), nil
}
