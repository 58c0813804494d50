package resourceDecoder

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rm-labs/explorer-sidecar/internal/logger"
	"github.com/rm-labs/explorer-sidecar/pkg/protocol"
	"github.com/stretchr/testify/assert"
)

func newTestDecoder(t *testing.T) *ResourceDecoder {
	t.Helper()
	return NewResourceDecoder(logger.NewNoopLogger())
}

func Test_SafeDecodeResourceBlob_Pending(t *testing.T) {
	rd := newTestDecoder(t)

	for _, input := range []string{"", "0x"} {
		decoded := rd.SafeDecodeResourceBlob(input)
		assert.Equal(t, protocol.ResourceDecodingStatus_Pending, decoded.Status)
		assert.Nil(t, decoded.Resource)
		assert.Equal(t, "", decoded.Error)
	}
}

func Test_SafeDecodeResourceBlob_InvalidHex(t *testing.T) {
	rd := newTestDecoder(t)

	tests := []string{
		"not-a-hex-string",
		"0xzz",
		"0x123", // odd length
	}
	for _, input := range tests {
		decoded := rd.SafeDecodeResourceBlob(input)
		assert.Equal(t, protocol.ResourceDecodingStatus_Failed, decoded.Status)
		assert.Nil(t, decoded.Resource)
		assert.Contains(t, decoded.Error, "Invalid hex format")
	}
}

func Test_SafeDecodeResourceBlob_Classification(t *testing.T) {
	rd := newTestDecoder(t)
	padding := strings.Repeat("0", 60)

	t.Run("Should classify a 0x1901 prefix as eip712", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x1901" + padding)
		assert.Equal(t, protocol.ResourceDecodingStatus_Raw, decoded.Status)
		assert.Nil(t, decoded.Resource)
		assert.Contains(t, decoded.Error, "eip712 format")
	})
	t.Run("Should classify a bare 0x19 prefix as eip191", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x19" + padding)
		assert.Equal(t, protocol.ResourceDecodingStatus_Raw, decoded.Status)
		assert.Nil(t, decoded.Resource)
		assert.Contains(t, decoded.Error, "eip191 format")
	})
	t.Run("Should classify anything else as unknown", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x1234" + padding)
		assert.Equal(t, protocol.ResourceDecodingStatus_Raw, decoded.Status)
		assert.Nil(t, decoded.Resource)
		assert.Contains(t, decoded.Error, "unknown format")
	})
	t.Run("Should treat a single 0x19 byte as eip191", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x19")
		assert.Equal(t, protocol.ResourceDecodingStatus_Raw, decoded.Status)
		assert.Contains(t, decoded.Error, "eip191 format")
	})
}

func Test_SafeDecodeResourceBlob_Success(t *testing.T) {
	rd := newTestDecoder(t)

	t.Run("Should decode an all-zero resource", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x" + strings.Repeat("00", 256))
		// 512 zero hex chars is 256 bytes, the exact fixed width
		assert.Equal(t, protocol.ResourceDecodingStatus_Success, decoded.Status)
		assert.NotNil(t, decoded.Resource)
		assert.Equal(t, common.Hash{}, decoded.Resource.LogicRef)
		assert.Equal(t, uint64(0), decoded.Resource.Quantity.Uint64())
		assert.False(t, decoded.Resource.Ephemeral)
		assert.Equal(t, "", decoded.Error)
	})
	t.Run("Should classify a 255-byte blob instead of decoding", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x" + strings.Repeat("00", 255))
		assert.Equal(t, protocol.ResourceDecodingStatus_Raw, decoded.Status)
	})
	t.Run("Should classify a 257-byte blob instead of decoding", func(t *testing.T) {
		decoded := rd.SafeDecodeResourceBlob("0x" + strings.Repeat("00", 257))
		assert.Equal(t, protocol.ResourceDecodingStatus_Raw, decoded.Status)
	})
}

func Test_SafeDecodeResourceBlob_PrefixNormalization(t *testing.T) {
	rd := newTestDecoder(t)

	inputs := []string{
		strings.Repeat("00", 256),
		"1901" + strings.Repeat("0", 60),
		"19" + strings.Repeat("0", 60),
		"1234" + strings.Repeat("0", 60),
	}
	for _, input := range inputs {
		withPrefix := rd.SafeDecodeResourceBlob("0x" + input)
		withoutPrefix := rd.SafeDecodeResourceBlob(input)
		assert.Equal(t, withPrefix, withoutPrefix)
	}
}

func testResource() *protocol.Resource {
	quantity, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10) // 2^128-1
	return &protocol.Resource{
		LogicRef:               common.HexToHash("0x01"),
		LabelRef:               common.HexToHash("0x02"),
		ValueRef:               common.HexToHash("0x03"),
		NullifierKeyCommitment: common.HexToHash("0x04"),
		Nonce:                  common.HexToHash("0x05"),
		RandSeed:               common.HexToHash("0x06"),
		Quantity:               quantity,
		Ephemeral:              true,
	}
}

func Test_EncodeResource_RoundTrip(t *testing.T) {
	rd := newTestDecoder(t)
	original := testResource()

	blob := rd.EncodeResource(original)
	decoded := rd.SafeDecodeResourceBlob(blob)

	assert.Equal(t, protocol.ResourceDecodingStatus_Success, decoded.Status)
	assert.Equal(t, original, decoded.Resource)
}
