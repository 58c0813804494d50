// Package abiCodec implements the small set of EVM ABI head/tail readers
// the protocol decoders are built from, plus the matching writers used to
// assemble encodings for round-trip verification.
//
// Fixed-size fields occupy 32-byte head slots in declaration order; each
// dynamically-sized field's head slot holds a byte offset, relative to the
// start of the enclosing tuple's encoding, pointing at a tail region that
// starts with a length word. The input bytes are adversary-controlled, so
// every reader bounds-checks before touching the buffer and surfaces a
// typed error instead of indexing past it.
package abiCodec

import (
	"math/big"

	"github.com/pkg/errors"
)

// WordSize is the EVM ABI slot width in bytes.
const WordSize = 32

var (
	// ErrOutOfBounds marks a head-slot read past the end of the buffer.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrTruncatedData marks a tail region whose declared length exceeds
	// the bytes actually present.
	ErrTruncatedData = errors.New("truncated data")
)

// ReadWord returns the 32-byte slice occupying head slot wordIndex.
func ReadWord(data []byte, wordIndex int) ([]byte, error) {
	if wordIndex < 0 {
		return nil, errors.Wrapf(ErrOutOfBounds, "negative word index %d", wordIndex)
	}
	end := (wordIndex + 1) * WordSize
	if end < 0 || len(data) < end {
		return nil, errors.Wrapf(ErrOutOfBounds, "word %d requires %d bytes, have %d", wordIndex, end, len(data))
	}
	return data[wordIndex*WordSize : end], nil
}

// ReadWordAt returns the 32-byte word starting at the absolute byte offset.
func ReadWordAt(data []byte, offset uint64) ([]byte, error) {
	if offset > uint64(len(data)) || uint64(len(data))-offset < WordSize {
		return nil, errors.Wrapf(ErrOutOfBounds, "word at offset %d requires %d bytes, have %d", offset, offset+WordSize, len(data))
	}
	return data[offset : offset+WordSize], nil
}

// ReadBool interprets a word as a boolean: true iff the least-significant
// byte is nonzero. Higher bytes are ignored, matching the right-alignment
// of small scalars in the encoding.
func ReadBool(word []byte) bool {
	if len(word) == 0 {
		return false
	}
	return word[len(word)-1] != 0
}

// ReadUint interprets the low bitWidth bits of a word as a big-endian
// unsigned magnitude.
func ReadUint(word []byte, bitWidth int) *big.Int {
	v := new(big.Int).SetBytes(word)
	if bitWidth < len(word)*8 {
		mask := new(big.Int).Lsh(big.NewInt(1), uint(bitWidth))
		mask.Sub(mask, big.NewInt(1))
		v.And(v, mask)
	}
	return v
}

// ReadOffset reads the head slot at the absolute byte offset and interprets
// it as a byte offset into data. Offsets that cannot possibly land inside
// the buffer are rejected up front so adversarial words never turn into
// huge allocations downstream.
func ReadOffset(data []byte, offset uint64) (uint64, error) {
	word, err := ReadWordAt(data, offset)
	if err != nil {
		return 0, err
	}
	v := new(big.Int).SetBytes(word)
	if !v.IsUint64() || v.Uint64() > uint64(len(data)) {
		return 0, errors.Wrapf(ErrTruncatedData, "offset word at %d points past %d available bytes", offset, len(data))
	}
	return v.Uint64(), nil
}

// ReadDynamicBytes reads a length-prefixed byte sequence whose tail region
// starts at baseOffset+relativeOffset. The returned slice is a copy; the
// decoded object graph never aliases the input buffer.
func ReadDynamicBytes(data []byte, baseOffset, relativeOffset uint64) ([]byte, error) {
	loc, err := addOffsets(data, baseOffset, relativeOffset)
	if err != nil {
		return nil, err
	}
	lengthWord, err := ReadWordAt(data, loc)
	if err != nil {
		return nil, errors.Wrap(err, "reading bytes length word")
	}
	length := new(big.Int).SetBytes(lengthWord)
	remaining := uint64(len(data)) - (loc + WordSize)
	if !length.IsUint64() || length.Uint64() > remaining {
		return nil, errors.Wrapf(ErrTruncatedData, "bytes at offset %d declare length %s, only %d bytes remain", loc, length.String(), remaining)
	}
	start := loc + WordSize
	out := make([]byte, length.Uint64())
	copy(out, data[start:start+length.Uint64()])
	return out, nil
}

// ElementDecoder decodes one array element whose encoding starts at the
// given absolute byte offset.
type ElementDecoder[T any] func(data []byte, offset uint64) (T, error)

// ReadDynamicArray reads an array of dynamically-sized elements: a count
// word at baseOffset+relativeOffset, then one offset word per element,
// each relative to the start of the element region.
func ReadDynamicArray[T any](data []byte, baseOffset, relativeOffset uint64, decodeElement ElementDecoder[T]) ([]T, error) {
	loc, err := addOffsets(data, baseOffset, relativeOffset)
	if err != nil {
		return nil, err
	}
	count, elementBase, err := readArrayHeader(data, loc, 1)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		elementOffset, err := ReadOffset(data, elementBase+i*WordSize)
		if err != nil {
			return nil, errors.Wrapf(err, "reading offset of element %d", i)
		}
		element, err := decodeElement(data, elementBase+elementOffset)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding element %d", i)
		}
		out = append(out, element)
	}
	return out, nil
}

// ReadFixedElementArray reads an array whose elements are statically sized
// and laid out inline, elementWords words each.
func ReadFixedElementArray[T any](data []byte, baseOffset, relativeOffset uint64, elementWords int, decodeElement ElementDecoder[T]) ([]T, error) {
	loc, err := addOffsets(data, baseOffset, relativeOffset)
	if err != nil {
		return nil, err
	}
	count, elementBase, err := readArrayHeader(data, loc, uint64(elementWords))
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		element, err := decodeElement(data, elementBase+i*uint64(elementWords)*WordSize)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding element %d", i)
		}
		out = append(out, element)
	}
	return out, nil
}

// readArrayHeader reads the element-count word at loc and validates that
// count elements of at least wordsPerElement words can fit in the bytes
// that follow. Returns the count and the absolute start of the element
// region.
func readArrayHeader(data []byte, loc uint64, wordsPerElement uint64) (uint64, uint64, error) {
	countWord, err := ReadWordAt(data, loc)
	if err != nil {
		return 0, 0, errors.Wrap(err, "reading array count word")
	}
	count := new(big.Int).SetBytes(countWord)
	remainingWords := (uint64(len(data)) - (loc + WordSize)) / WordSize
	requiredWords := new(big.Int).Mul(count, new(big.Int).SetUint64(wordsPerElement))
	if !count.IsUint64() || requiredWords.Cmp(new(big.Int).SetUint64(remainingWords)) > 0 {
		return 0, 0, errors.Wrapf(ErrTruncatedData, "array at offset %d declares %s elements, only %d words remain", loc, count.String(), remainingWords)
	}
	return count.Uint64(), loc + WordSize, nil
}

func addOffsets(data []byte, baseOffset, relativeOffset uint64) (uint64, error) {
	if baseOffset > uint64(len(data)) || relativeOffset > uint64(len(data))-baseOffset {
		return 0, errors.Wrapf(ErrOutOfBounds, "offset %d+%d exceeds %d available bytes", baseOffset, relativeOffset, len(data))
	}
	return baseOffset + relativeOffset, nil
}
