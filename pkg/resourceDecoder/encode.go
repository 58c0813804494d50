package resourceDecoder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rm-labs/explorer-sidecar/pkg/abiCodec"
	"github.com/rm-labs/explorer-sidecar/pkg/protocol"
)

// EncodeResource produces the fixed 256-byte hex encoding of a Resource,
// the exact inverse of the success branch of SafeDecodeResourceBlob.
func (rd *ResourceDecoder) EncodeResource(r *protocol.Resource) string {
	quantity := r.Quantity
	if quantity == nil {
		quantity = big.NewInt(0)
	}
	out := make([]byte, 0, resourceEncodedSize)
	out = append(out, r.LogicRef.Bytes()...)
	out = append(out, r.LabelRef.Bytes()...)
	out = append(out, r.ValueRef.Bytes()...)
	out = append(out, r.NullifierKeyCommitment.Bytes()...)
	out = append(out, r.Nonce.Bytes()...)
	out = append(out, r.RandSeed.Bytes()...)
	out = append(out, abiCodec.UintWord(quantity)...)
	out = append(out, abiCodec.BoolWord(r.Ephemeral)...)
	return hexutil.Encode(out)
}
