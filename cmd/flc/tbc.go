package main

import (
	"encoding/binary"
	"fmt"
)

// tbcMagic marks the binary envelope "flc compile -tbc" writes
// (spec.md §6's "compile -tbc <module> -> emits backend bitcode to
// stdout (binary)"). This backend has no real LLVM bitcode encoder —
// llir/llvm only ever builds the textual IR form — so -tbc instead
// wraps that same IR text in a tiny length-prefixed binary frame,
// satisfying the CLI's "binary on stdout" contract honestly rather
// than fabricating a fake bitcode writer (recorded as a judgment call
// in DESIGN.md). "flc interpret" unwraps this frame transparently.
var tbcMagic = [4]byte{'F', 'L', 'C', 'B'}

func encodeTBC(irText string) []byte {
	buf := make([]byte, 4+4+len(irText))
	copy(buf, tbcMagic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(irText)))
	copy(buf[8:], irText)
	return buf
}

// decodeTBC unwraps a tbc envelope if raw starts with its magic,
// otherwise returns raw as-is (already plain IR text).
func decodeTBC(raw []byte) (string, error) {
	if len(raw) < 8 || string(raw[:4]) != string(tbcMagic[:]) {
		return string(raw), nil
	}
	n := binary.LittleEndian.Uint32(raw[4:8])
	if int(n) > len(raw)-8 {
		return "", fmt.Errorf("flc: truncated -tbc envelope")
	}
	return string(raw[8 : 8+n]), nil
}
