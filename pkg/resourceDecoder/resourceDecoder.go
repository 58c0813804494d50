// Package resourceDecoder decodes opaque resource blobs observed in the
// wild. Unlike calldata, a blob's shape is not guaranteed by any interface:
// it may be a well-formed Resource encoding, an EIP-191/EIP-712 signing
// payload, or arbitrary application bytes. Decoding is therefore fail-soft:
// every input maps to a DecodedResource envelope and nothing is ever
// raised past this package.
package resourceDecoder

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rm-labs/explorer-sidecar/pkg/abiCodec"
	"github.com/rm-labs/explorer-sidecar/pkg/protocol"
	"go.uber.org/zap"
)

const (
	// resourceEncodedSize is the fixed width of an encoded Resource:
	// six 32-byte refs, one uint128 word, one bool word.
	resourceEncodedSize = 8 * abiCodec.WordSize

	// eip191Prefix starts every EIP-191 personal-message signing payload.
	eip191Prefix = 0x19
	// eip712Version is the second byte distinguishing EIP-712 typed
	// structured data from other EIP-191 payloads.
	eip712Version = 0x01

	quantityBitWidth = 128
)

type ResourceDecoder struct {
	logger *zap.Logger
}

func NewResourceDecoder(logger *zap.Logger) *ResourceDecoder {
	return &ResourceDecoder{
		logger: logger,
	}
}

// SafeDecodeResourceBlob decodes blob into a DecodedResource. It never
// returns an error and never panics; the Status tag tells the caller what
// happened:
//
//   - "pending": the blob is empty or the degenerate "0x" — not yet
//     observed upstream, which is an expected transient state
//   - "failed": the blob is not hexadecimal at all
//   - "success": the blob is an exactly 256-byte Resource encoding
//   - "raw": anything else, with the Error text classifying the bytes as
//     eip712, eip191, or unknown format
//
// A 0x prefix is optional; prefixed and unprefixed hex normalize to the
// same result.
func (rd *ResourceDecoder) SafeDecodeResourceBlob(blob string) *protocol.DecodedResource {
	normalized := strings.TrimPrefix(blob, "0x")
	if normalized == "" {
		return &protocol.DecodedResource{
			Status: protocol.ResourceDecodingStatus_Pending,
		}
	}

	data, err := hex.DecodeString(normalized)
	if err != nil {
		rd.logger.Sugar().Debugw("Resource blob is not valid hex",
			zap.Int("blobLength", len(blob)),
			zap.Error(err),
		)
		return &protocol.DecodedResource{
			Status: protocol.ResourceDecodingStatus_Failed,
			Error:  "Invalid hex format: blob is not a hexadecimal string",
		}
	}

	if resource, err := decodeResource(data); err == nil {
		return &protocol.DecodedResource{
			Resource: resource,
			Status:   protocol.ResourceDecodingStatus_Success,
		}
	}

	return &protocol.DecodedResource{
		Status: protocol.ResourceDecodingStatus_Raw,
		Error:  classify(data),
	}
}

// decodeResource decodes the fixed-width Resource tuple. The encoding has
// no dynamic fields, so anything other than the exact expected width is a
// structural failure.
func decodeResource(data []byte) (*protocol.Resource, error) {
	if len(data) != resourceEncodedSize {
		return nil, abiCodec.ErrTruncatedData
	}
	words := make([][]byte, 8)
	for i := range words {
		word, err := abiCodec.ReadWord(data, i)
		if err != nil {
			return nil, err
		}
		words[i] = word
	}
	return &protocol.Resource{
		LogicRef:               common.BytesToHash(words[0]),
		LabelRef:               common.BytesToHash(words[1]),
		ValueRef:               common.BytesToHash(words[2]),
		NullifierKeyCommitment: common.BytesToHash(words[3]),
		Nonce:                  common.BytesToHash(words[4]),
		RandSeed:               common.BytesToHash(words[5]),
		Quantity:               abiCodec.ReadUint(words[6], quantityBitWidth),
		Ephemeral:              abiCodec.ReadBool(words[7]),
	}, nil
}

// classify names the foreign encoding a non-Resource blob most likely is.
// Classification is by prefix byte only: the decoder's job is to make the
// non-decodability explainable, not to interpret foreign formats.
func classify(data []byte) string {
	if len(data) >= 2 && data[0] == eip191Prefix && data[1] == eip712Version {
		return "Blob matches eip712 format (typed structured data prefix 0x1901)"
	}
	if len(data) >= 1 && data[0] == eip191Prefix {
		return "Blob matches eip191 format (personal message prefix 0x19)"
	}
	return "Blob is in unknown format (not a resource encoding)"
}
