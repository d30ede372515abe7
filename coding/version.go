// Copyright 2026 The rmqr Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// A Version represents an rMQR version.  The version specifies the
// size of the symbol: version RHxW has H pixels on the short side and
// W on the long side.  The 32 versions run from R7x43 to R17x139;
// the larger the version, the more information the code can store.
type Version int

// Code versions.
const (
	R7x43 Version = iota
	R7x59
	R7x77
	R7x99
	R7x139
	R9x43
	R9x59
	R9x77
	R9x99
	R9x139
	R11x27
	R11x43
	R11x59
	R11x77
	R11x99
	R11x139
	R13x27
	R13x43
	R13x59
	R13x77
	R13x99
	R13x139
	R15x43
	R15x59
	R15x77
	R15x99
	R15x139
	R17x43
	R17x59
	R17x77
	R17x99
	R17x139

	MinVersion = R7x43   // Minimum rMQR version
	MaxVersion = R17x139 // Maximum rMQR version
)

func (v Version) String() string {
	if v < MinVersion || v > MaxVersion {
		return strconv.Itoa(int(v))
	}
	vt := &vtab[v]
	return "R" + strconv.Itoa(int(vt.h)) + "x" + strconv.Itoa(int(vt.w))
}

// Size returns the height and width of version v in pixels.
func (v Version) Size() (h, w int) {
	vt := &vtab[v]
	return int(vt.h), int(vt.w)
}

// CountLength returns the length in bits of the character count
// indicator for mode at version v, or 0 if mode or v is invalid.
func (v Version) CountLength(mode Mode) int {
	if v < MinVersion || v > MaxVersion ||
		mode < Numeric || mode > Kanji {
		return 0
	}
	return int(vtab[v].cc[mode])
}

// DataBits returns the number of data bits that can be stored in an
// rMQR code with the given version and level, or 0 if v or l is
// invalid.
func (v Version) DataBits(l Level) int {
	if v < MinVersion || v > MaxVersion || l < M || l > H {
		return 0
	}
	return int(vtab[v].data[l])
}

// A version describes metadata associated with a version: symbol
// height and width, character count indicator lengths per mode, and
// data bits per error correction level.
type version struct {
	h, w byte
	cc   [4]byte
	data [2]int16
}

// Version table, from ISO/IEC 23941.
var vtab = [MaxVersion + 1]version{
	R7x43:   {7, 43, [4]byte{4, 3, 3, 2}, [2]int16{48, 24}},
	R7x59:   {7, 59, [4]byte{5, 5, 4, 3}, [2]int16{96, 56}},
	R7x77:   {7, 77, [4]byte{6, 5, 5, 4}, [2]int16{160, 80}},
	R7x99:   {7, 99, [4]byte{7, 6, 5, 5}, [2]int16{224, 112}},
	R7x139:  {7, 139, [4]byte{7, 6, 6, 5}, [2]int16{352, 192}},
	R9x43:   {9, 43, [4]byte{5, 5, 4, 3}, [2]int16{96, 56}},
	R9x59:   {9, 59, [4]byte{6, 5, 5, 4}, [2]int16{168, 88}},
	R9x77:   {9, 77, [4]byte{7, 6, 5, 5}, [2]int16{248, 136}},
	R9x99:   {9, 99, [4]byte{7, 6, 5, 5}, [2]int16{336, 176}},
	R9x139:  {9, 139, [4]byte{8, 7, 6, 6}, [2]int16{504, 264}},
	R11x27:  {11, 27, [4]byte{4, 4, 3, 2}, [2]int16{64, 40}},
	R11x43:  {11, 43, [4]byte{6, 5, 5, 4}, [2]int16{152, 72}},
	R11x59:  {11, 59, [4]byte{7, 6, 5, 5}, [2]int16{232, 120}},
	R11x77:  {11, 77, [4]byte{7, 6, 5, 5}, [2]int16{344, 184}},
	R11x99:  {11, 99, [4]byte{8, 7, 6, 6}, [2]int16{456, 264}},
	R11x139: {11, 139, [4]byte{8, 7, 7, 6}, [2]int16{672, 352}},
	R13x27:  {13, 27, [4]byte{5, 5, 4, 3}, [2]int16{96, 56}},
	R13x43:  {13, 43, [4]byte{7, 6, 5, 5}, [2]int16{216, 104}},
	R13x59:  {13, 59, [4]byte{7, 6, 6, 5}, [2]int16{304, 160}},
	R13x77:  {13, 77, [4]byte{8, 7, 6, 6}, [2]int16{424, 232}},
	R13x99:  {13, 99, [4]byte{8, 7, 6, 6}, [2]int16{584, 296}},
	R13x139: {13, 139, [4]byte{8, 8, 7, 7}, [2]int16{840, 440}},
	R15x43:  {15, 43, [4]byte{7, 7, 6, 6}, [2]int16{264, 120}},
	R15x59:  {15, 59, [4]byte{8, 7, 7, 6}, [2]int16{384, 208}},
	R15x77:  {15, 77, [4]byte{8, 7, 7, 6}, [2]int16{536, 264}},
	R15x99:  {15, 99, [4]byte{8, 7, 7, 6}, [2]int16{712, 344}},
	R15x139: {15, 139, [4]byte{9, 8, 7, 7}, [2]int16{1032, 552}},
	R17x43:  {17, 43, [4]byte{8, 8, 6, 6}, [2]int16{312, 168}},
	R17x59:  {17, 59, [4]byte{8, 8, 7, 7}, [2]int16{464, 224}},
	R17x77:  {17, 77, [4]byte{8, 8, 7, 7}, [2]int16{624, 304}},
	R17x99:  {17, 99, [4]byte{8, 8, 7, 7}, [2]int16{832, 416}},
	R17x139: {17, 139, [4]byte{9, 8, 8, 7}, [2]int16{1216, 608}},
}
