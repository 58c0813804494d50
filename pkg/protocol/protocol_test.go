package protocol

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func Test_TransactionJsonRendering(t *testing.T) {
	tx := &Transaction{
		Actions: []*Action{
			{
				LogicVerifierInputs: []*LogicVerifierInput{
					{
						Tag:          common.HexToHash("0x01"),
						VerifyingKey: common.HexToHash("0x02"),
						AppData: AppData{
							ResourcePayload:    []*ExpirableBlob{{DeletionCriterion: DeletionCriterion_Never, Blob: []byte{0xbe, 0xef}}},
							DiscoveryPayload:   []*ExpirableBlob{},
							ExternalPayload:    []*ExpirableBlob{},
							ApplicationPayload: []*ExpirableBlob{},
						},
						Proof: []byte{0x01},
					},
				},
				ComplianceVerifierInputs: []*ComplianceVerifierInput{},
			},
		},
		DeltaProof:       []byte{0xaa},
		AggregationProof: []byte{},
	}

	out, err := json.Marshal(tx)
	assert.Nil(t, err)

	// byte sequences render as 0x-prefixed hex, not base64
	assert.Contains(t, string(out), `"deltaProof":"0xaa"`)
	assert.Contains(t, string(out), `"aggregationProof":"0x"`)
	assert.Contains(t, string(out), `"blob":"0xbeef"`)
	assert.Contains(t, string(out), `"deletionCriterion":1`)
}

func Test_DecodedResourceJsonRendering(t *testing.T) {
	t.Run("Should omit empty resource and error", func(t *testing.T) {
		out, err := json.Marshal(&DecodedResource{Status: ResourceDecodingStatus_Pending})
		assert.Nil(t, err)
		assert.Equal(t, `{"status":"pending"}`, string(out))
	})
	t.Run("Should render a decoded resource", func(t *testing.T) {
		out, err := json.Marshal(&DecodedResource{
			Resource: &Resource{Quantity: big.NewInt(7), Ephemeral: true},
			Status:   ResourceDecodingStatus_Success,
		})
		assert.Nil(t, err)
		assert.Contains(t, string(out), `"status":"success"`)
		assert.Contains(t, string(out), `"quantity":7`)
		assert.Contains(t, string(out), `"ephemeral":true`)
	})
}
