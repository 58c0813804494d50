package abiCodec

import (
	"math/big"
)

// LeftPadWord left-pads b into a fresh 32-byte word. Inputs longer than a
// word keep their low-order 32 bytes.
func LeftPadWord(b []byte) []byte {
	word := make([]byte, WordSize)
	if len(b) > WordSize {
		b = b[len(b)-WordSize:]
	}
	copy(word[WordSize-len(b):], b)
	return word
}

// UintWord encodes v as a right-aligned big-endian word.
func UintWord(v *big.Int) []byte {
	return LeftPadWord(v.Bytes())
}

// BoolWord encodes b as a word with the least-significant byte set.
func BoolWord(b bool) []byte {
	word := make([]byte, WordSize)
	if b {
		word[WordSize-1] = 1
	}
	return word
}

// EncodeDynamicBytes encodes a length word followed by the payload padded
// to a word boundary.
func EncodeDynamicBytes(b []byte) []byte {
	padded := (len(b) + WordSize - 1) / WordSize * WordSize
	out := make([]byte, WordSize+padded)
	copy(out, UintWord(big.NewInt(int64(len(b)))))
	copy(out[WordSize:], b)
	return out
}

// EncodeDynamicArray encodes an array of dynamically-sized elements: count
// word, one offset word per element, then the element encodings.
func EncodeDynamicArray(elements [][]byte) []byte {
	headSize := len(elements) * WordSize
	out := UintWord(big.NewInt(int64(len(elements))))
	tailOffset := headSize
	for _, element := range elements {
		out = append(out, UintWord(big.NewInt(int64(tailOffset)))...)
		tailOffset += len(element)
	}
	for _, element := range elements {
		out = append(out, element...)
	}
	return out
}

// EncodeFixedElementArray encodes an array of statically-sized elements
// laid out inline after the count word.
func EncodeFixedElementArray(elements [][]byte) []byte {
	out := UintWord(big.NewInt(int64(len(elements))))
	for _, element := range elements {
		out = append(out, element...)
	}
	return out
}

type tupleEntry struct {
	static []byte
	tail   []byte
}

// TupleEncoder assembles the head/tail encoding of a single tuple. Fields
// are appended in declaration order; Encode resolves the tail offsets.
type TupleEncoder struct {
	entries []tupleEntry
}

func NewTupleEncoder() *TupleEncoder {
	return &TupleEncoder{entries: make([]tupleEntry, 0)}
}

// Static appends a fixed-size field occupying one head word.
func (e *TupleEncoder) Static(word []byte) *TupleEncoder {
	e.entries = append(e.entries, tupleEntry{static: LeftPadWord(word)})
	return e
}

// Dynamic appends a dynamically-sized field; its head word becomes an
// offset to the given tail encoding.
func (e *TupleEncoder) Dynamic(tail []byte) *TupleEncoder {
	e.entries = append(e.entries, tupleEntry{tail: tail})
	return e
}

// Encode produces the tuple encoding: head words in order, followed by the
// tails of the dynamic fields with offsets relative to the tuple start.
func (e *TupleEncoder) Encode() []byte {
	headSize := len(e.entries) * WordSize
	tailOffset := headSize
	head := make([]byte, 0, headSize)
	tail := make([]byte, 0)
	for _, entry := range e.entries {
		if entry.static != nil {
			head = append(head, entry.static...)
			continue
		}
		head = append(head, UintWord(big.NewInt(int64(tailOffset)))...)
		tail = append(tail, entry.tail...)
		tailOffset += len(entry.tail)
	}
	return append(head, tail...)
}
