package calldataDecoder

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rm-labs/explorer-sidecar/pkg/abiCodec"
	"github.com/rm-labs/explorer-sidecar/pkg/protocol"
)

// EncodeExecuteCalldata produces the execute calldata for a Transaction:
// the selector followed by the ABI encoding of the argument tuple. It is
// the exact inverse of DecodeExecuteCalldata and exists so that callers
// (and the round-trip tests) can synthesize structurally valid calldata.
func (cd *CalldataDecoder) EncodeExecuteCalldata(tx *protocol.Transaction) string {
	argument := abiCodec.NewTupleEncoder().
		Dynamic(encodeTransaction(tx)).
		Encode()
	return ExecuteSelector + hexutil.Encode(argument)[2:]
}

func encodeTransaction(tx *protocol.Transaction) []byte {
	actions := make([][]byte, 0, len(tx.Actions))
	for _, action := range tx.Actions {
		actions = append(actions, encodeAction(action))
	}
	return abiCodec.NewTupleEncoder().
		Dynamic(abiCodec.EncodeDynamicArray(actions)).
		Dynamic(abiCodec.EncodeDynamicBytes(tx.DeltaProof)).
		Dynamic(abiCodec.EncodeDynamicBytes(tx.AggregationProof)).
		Encode()
}

func encodeAction(action *protocol.Action) []byte {
	logicInputs := make([][]byte, 0, len(action.LogicVerifierInputs))
	for _, input := range action.LogicVerifierInputs {
		logicInputs = append(logicInputs, encodeLogicVerifierInput(input))
	}
	complianceInputs := make([][]byte, 0, len(action.ComplianceVerifierInputs))
	for _, input := range action.ComplianceVerifierInputs {
		complianceInputs = append(complianceInputs, encodeComplianceVerifierInput(input))
	}
	return abiCodec.NewTupleEncoder().
		Dynamic(abiCodec.EncodeDynamicArray(logicInputs)).
		Dynamic(abiCodec.EncodeDynamicArray(complianceInputs)).
		Encode()
}

func encodeLogicVerifierInput(input *protocol.LogicVerifierInput) []byte {
	return abiCodec.NewTupleEncoder().
		Static(input.Tag.Bytes()).
		Static(input.VerifyingKey.Bytes()).
		Dynamic(encodeAppData(&input.AppData)).
		Dynamic(abiCodec.EncodeDynamicBytes(input.Proof)).
		Encode()
}

func encodeAppData(appData *protocol.AppData) []byte {
	encoder := abiCodec.NewTupleEncoder()
	for _, payload := range [][]*protocol.ExpirableBlob{
		appData.ResourcePayload,
		appData.DiscoveryPayload,
		appData.ExternalPayload,
		appData.ApplicationPayload,
	} {
		blobs := make([][]byte, 0, len(payload))
		for _, blob := range payload {
			blobs = append(blobs, encodeExpirableBlob(blob))
		}
		encoder.Dynamic(abiCodec.EncodeDynamicArray(blobs))
	}
	return encoder.Encode()
}

func encodeExpirableBlob(blob *protocol.ExpirableBlob) []byte {
	return abiCodec.NewTupleEncoder().
		Static([]byte{byte(blob.DeletionCriterion)}).
		Dynamic(abiCodec.EncodeDynamicBytes(blob.Blob)).
		Encode()
}

func encodeComplianceVerifierInput(input *protocol.ComplianceVerifierInput) []byte {
	return abiCodec.NewTupleEncoder().
		Dynamic(abiCodec.EncodeDynamicBytes(input.Proof)).
		Static(input.Instance.Consumed.Nullifier.Bytes()).
		Static(input.Instance.Consumed.LogicRef.Bytes()).
		Static(input.Instance.Consumed.CommitmentTreeRoot.Bytes()).
		Static(input.Instance.Created.Commitment.Bytes()).
		Static(input.Instance.Created.LogicRef.Bytes()).
		Static(input.Instance.UnitDeltaX.Bytes()).
		Static(input.Instance.UnitDeltaY.Bytes()).
		Encode()
}
