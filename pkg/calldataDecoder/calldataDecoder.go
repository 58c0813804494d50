// Package calldataDecoder turns raw execute calldata into the decoded
// Transaction object graph. Decoding is all-or-nothing: a transaction
// either fully matches the entry point's ABI shape or an error describing
// the first structural failure is returned. Nothing here panics on
// malformed input.
package calldataDecoder

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rm-labs/explorer-sidecar/pkg/abiCodec"
	"github.com/rm-labs/explorer-sidecar/pkg/protocol"
	"go.uber.org/zap"
)

// ExecuteSelector is the 4-byte function selector of the transaction
// submission entry point.
const ExecuteSelector = "0xed3cf91f"

var executeSelectorBytes = hexutil.MustDecode(ExecuteSelector)

// IsExecuteCalldata reports whether calldata is 0x-prefixed hex whose first
// 4 bytes equal the execute selector. It is a pure routing predicate: a
// true result does not imply the body will decode.
func IsExecuteCalldata(calldata string) bool {
	if !strings.HasPrefix(calldata, "0x") {
		return false
	}
	data, err := hex.DecodeString(calldata[2:])
	if err != nil || len(data) < len(executeSelectorBytes) {
		return false
	}
	return bytes.Equal(data[:len(executeSelectorBytes)], executeSelectorBytes)
}

type CalldataDecoder struct {
	logger *zap.Logger
}

func NewCalldataDecoder(logger *zap.Logger) *CalldataDecoder {
	return &CalldataDecoder{
		logger: logger,
	}
}

// DecodeExecuteCalldata decodes execute calldata into a Transaction.
//
// Error categories, distinguishable by substring:
//   - "Empty calldata": no bytes past an optional 0x prefix
//   - "Unknown function selector": the first 4 bytes are not the execute
//     selector (i.e. this is not our calldata)
//   - "Failed to decode calldata": the selector matched but the body does
//     not have the entry point's ABI shape (i.e. corrupt calldata)
func (cd *CalldataDecoder) DecodeExecuteCalldata(calldata string) (*protocol.Transaction, error) {
	normalized := strings.TrimPrefix(calldata, "0x")
	if normalized == "" {
		return nil, errors.New("Empty calldata")
	}
	data, err := hex.DecodeString(normalized)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to decode calldata")
	}
	if len(data) < len(executeSelectorBytes) || !bytes.Equal(data[:len(executeSelectorBytes)], executeSelectorBytes) {
		selector := data
		if len(selector) > len(executeSelectorBytes) {
			selector = selector[:len(executeSelectorBytes)]
		}
		return nil, errors.Errorf("Unknown function selector: %s", hexutil.Encode(selector))
	}

	tx, err := decodeTransactionArgument(data[len(executeSelectorBytes):])
	if err != nil {
		cd.logger.Sugar().Debugw("Failed to decode execute calldata",
			zap.Int("calldataBytes", len(data)),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "Failed to decode calldata")
	}
	return tx, nil
}

// GetActionFromCalldata returns the action at actionIndex, or nil when the
// calldata does not decode or the index is out of range. It is a
// best-effort lookup, not a validation gate, so failures are swallowed.
func (cd *CalldataDecoder) GetActionFromCalldata(calldata string, actionIndex int) *protocol.Action {
	if actionIndex < 0 {
		return nil
	}
	tx, err := cd.DecodeExecuteCalldata(calldata)
	if err != nil {
		cd.logger.Sugar().Debugw("Calldata did not decode during action lookup",
			zap.Int("actionIndex", actionIndex),
			zap.Error(err),
		)
		return nil
	}
	if actionIndex >= len(tx.Actions) {
		return nil
	}
	return tx.Actions[actionIndex]
}

// decodeTransactionArgument decodes the ABI-encoded argument tuple of the
// entry point: a single head word holding the offset to the Transaction
// tuple.
func decodeTransactionArgument(body []byte) (*protocol.Transaction, error) {
	tupleOffset, err := abiCodec.ReadOffset(body, 0)
	if err != nil {
		return nil, errors.Wrap(err, "reading transaction tuple offset")
	}
	return decodeTransaction(body, tupleOffset)
}

// Transaction head: [offset→actions][offset→deltaProof][offset→aggregationProof].
func decodeTransaction(data []byte, offset uint64) (*protocol.Transaction, error) {
	actionsOffset, err := abiCodec.ReadOffset(data, offset)
	if err != nil {
		return nil, errors.Wrap(err, "reading actions offset")
	}
	actions, err := abiCodec.ReadDynamicArray(data, offset, actionsOffset, decodeAction)
	if err != nil {
		return nil, errors.Wrap(err, "decoding actions")
	}
	deltaProofOffset, err := abiCodec.ReadOffset(data, offset+abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading delta proof offset")
	}
	deltaProof, err := abiCodec.ReadDynamicBytes(data, offset, deltaProofOffset)
	if err != nil {
		return nil, errors.Wrap(err, "decoding delta proof")
	}
	aggregationProofOffset, err := abiCodec.ReadOffset(data, offset+2*abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading aggregation proof offset")
	}
	aggregationProof, err := abiCodec.ReadDynamicBytes(data, offset, aggregationProofOffset)
	if err != nil {
		return nil, errors.Wrap(err, "decoding aggregation proof")
	}
	return &protocol.Transaction{
		Actions:          actions,
		DeltaProof:       deltaProof,
		AggregationProof: aggregationProof,
	}, nil
}

// Action head: [offset→logicVerifierInputs][offset→complianceVerifierInputs].
func decodeAction(data []byte, offset uint64) (*protocol.Action, error) {
	logicOffset, err := abiCodec.ReadOffset(data, offset)
	if err != nil {
		return nil, errors.Wrap(err, "reading logic verifier inputs offset")
	}
	logicInputs, err := abiCodec.ReadDynamicArray(data, offset, logicOffset, decodeLogicVerifierInput)
	if err != nil {
		return nil, errors.Wrap(err, "decoding logic verifier inputs")
	}
	complianceOffset, err := abiCodec.ReadOffset(data, offset+abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading compliance verifier inputs offset")
	}
	complianceInputs, err := abiCodec.ReadDynamicArray(data, offset, complianceOffset, decodeComplianceVerifierInput)
	if err != nil {
		return nil, errors.Wrap(err, "decoding compliance verifier inputs")
	}
	return &protocol.Action{
		LogicVerifierInputs:      logicInputs,
		ComplianceVerifierInputs: complianceInputs,
	}, nil
}

// LogicVerifierInput head: [tag][verifyingKey][offset→appData][offset→proof].
func decodeLogicVerifierInput(data []byte, offset uint64) (*protocol.LogicVerifierInput, error) {
	tagWord, err := abiCodec.ReadWordAt(data, offset)
	if err != nil {
		return nil, errors.Wrap(err, "reading tag")
	}
	verifyingKeyWord, err := abiCodec.ReadWordAt(data, offset+abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading verifying key")
	}
	appDataOffset, err := abiCodec.ReadOffset(data, offset+2*abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading app data offset")
	}
	appData, err := decodeAppData(data, offset+appDataOffset)
	if err != nil {
		return nil, errors.Wrap(err, "decoding app data")
	}
	proofOffset, err := abiCodec.ReadOffset(data, offset+3*abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading proof offset")
	}
	proof, err := abiCodec.ReadDynamicBytes(data, offset, proofOffset)
	if err != nil {
		return nil, errors.Wrap(err, "decoding proof")
	}
	return &protocol.LogicVerifierInput{
		Tag:          common.BytesToHash(tagWord),
		VerifyingKey: common.BytesToHash(verifyingKeyWord),
		AppData:      *appData,
		Proof:        proof,
	}, nil
}

// AppData head: four offsets, one per payload array.
func decodeAppData(data []byte, offset uint64) (*protocol.AppData, error) {
	payloads := make([][]*protocol.ExpirableBlob, 4)
	names := [4]string{"resource", "discovery", "external", "application"}
	for i := range payloads {
		payloadOffset, err := abiCodec.ReadOffset(data, offset+uint64(i)*abiCodec.WordSize)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s payload offset", names[i])
		}
		payload, err := abiCodec.ReadDynamicArray(data, offset, payloadOffset, decodeExpirableBlob)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s payload", names[i])
		}
		payloads[i] = payload
	}
	return &protocol.AppData{
		ResourcePayload:    payloads[0],
		DiscoveryPayload:   payloads[1],
		ExternalPayload:    payloads[2],
		ApplicationPayload: payloads[3],
	}, nil
}

// ExpirableBlob head: [deletionCriterion][offset→blob].
func decodeExpirableBlob(data []byte, offset uint64) (*protocol.ExpirableBlob, error) {
	criterionWord, err := abiCodec.ReadWordAt(data, offset)
	if err != nil {
		return nil, errors.Wrap(err, "reading deletion criterion")
	}
	criterion := abiCodec.ReadUint(criterionWord, 8).Uint64()
	if criterion > uint64(protocol.DeletionCriterion_Never) {
		return nil, fmt.Errorf("invalid deletion criterion %d", criterion)
	}
	blobOffset, err := abiCodec.ReadOffset(data, offset+abiCodec.WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "reading blob offset")
	}
	blob, err := abiCodec.ReadDynamicBytes(data, offset, blobOffset)
	if err != nil {
		return nil, errors.Wrap(err, "decoding blob")
	}
	return &protocol.ExpirableBlob{
		DeletionCriterion: protocol.DeletionCriterion(criterion),
		Blob:              blob,
	}, nil
}

// ComplianceVerifierInput head: [offset→proof] followed by the seven static
// instance words (consumed nullifier/logicRef/commitmentTreeRoot, created
// commitment/logicRef, unitDeltaX, unitDeltaY).
func decodeComplianceVerifierInput(data []byte, offset uint64) (*protocol.ComplianceVerifierInput, error) {
	proofOffset, err := abiCodec.ReadOffset(data, offset)
	if err != nil {
		return nil, errors.Wrap(err, "reading proof offset")
	}
	instanceWords := make([]common.Hash, 7)
	for i := range instanceWords {
		word, err := abiCodec.ReadWordAt(data, offset+uint64(i+1)*abiCodec.WordSize)
		if err != nil {
			return nil, errors.Wrapf(err, "reading instance word %d", i)
		}
		instanceWords[i] = common.BytesToHash(word)
	}
	proof, err := abiCodec.ReadDynamicBytes(data, offset, proofOffset)
	if err != nil {
		return nil, errors.Wrap(err, "decoding proof")
	}
	return &protocol.ComplianceVerifierInput{
		Proof: proof,
		Instance: protocol.ComplianceInstance{
			Consumed: protocol.ConsumedRefs{
				Nullifier:          instanceWords[0],
				LogicRef:           instanceWords[1],
				CommitmentTreeRoot: instanceWords[2],
			},
			Created: protocol.CreatedRefs{
				Commitment: instanceWords[3],
				LogicRef:   instanceWords[4],
			},
			UnitDeltaX: instanceWords[5],
			UnitDeltaY: instanceWords[6],
		},
	}, nil
}
