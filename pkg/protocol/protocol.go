// Package protocol defines the decoded protocol entities shared by the
// calldata and resource blob decoders and consumed by downstream storage
// and serving layers. These are plain value objects: construction happens
// in the decoder packages and nothing mutates them afterwards.
package protocol

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is the decoded argument of the execute entry point.
type Transaction struct {
	// Actions is never nil; a transaction with no actions decodes to an
	// empty slice. Index order matches the encoding order.
	Actions          []*Action     `json:"actions"`
	DeltaProof       hexutil.Bytes `json:"deltaProof"`
	AggregationProof hexutil.Bytes `json:"aggregationProof"`
}

// Action groups the verifier inputs of a single action. Slice order is
// semantically significant: an action index addresses a position here.
type Action struct {
	LogicVerifierInputs      []*LogicVerifierInput      `json:"logicVerifierInputs"`
	ComplianceVerifierInputs []*ComplianceVerifierInput `json:"complianceVerifierInputs"`
}

// ConsumedRefs identifies the resource consumed by a compliance unit.
type ConsumedRefs struct {
	Nullifier          common.Hash `json:"nullifier"`
	LogicRef           common.Hash `json:"logicRef"`
	CommitmentTreeRoot common.Hash `json:"commitmentTreeRoot"`
}

// CreatedRefs identifies the resource created by a compliance unit.
type CreatedRefs struct {
	Commitment common.Hash `json:"commitment"`
	LogicRef   common.Hash `json:"logicRef"`
}

type ComplianceInstance struct {
	Consumed   ConsumedRefs `json:"consumed"`
	Created    CreatedRefs  `json:"created"`
	UnitDeltaX common.Hash  `json:"unitDeltaX"`
	UnitDeltaY common.Hash  `json:"unitDeltaY"`
}

type ComplianceVerifierInput struct {
	Proof    hexutil.Bytes      `json:"proof"`
	Instance ComplianceInstance `json:"instance"`
}

type LogicVerifierInput struct {
	Tag          common.Hash   `json:"tag"`
	VerifyingKey common.Hash   `json:"verifyingKey"`
	AppData      AppData       `json:"appData"`
	Proof        hexutil.Bytes `json:"proof"`
}

// DeletionCriterion states when an expirable blob may be discarded.
type DeletionCriterion uint8

const (
	DeletionCriterion_Immediately DeletionCriterion = 0
	DeletionCriterion_Never       DeletionCriterion = 1
)

type ExpirableBlob struct {
	DeletionCriterion DeletionCriterion `json:"deletionCriterion"`
	Blob              hexutil.Bytes     `json:"blob"`
}

// AppData carries the application payloads attached to a logic verifier
// input. Each slice may be empty but keeps its encoding order.
type AppData struct {
	ResourcePayload    []*ExpirableBlob `json:"resourcePayload"`
	DiscoveryPayload   []*ExpirableBlob `json:"discoveryPayload"`
	ExternalPayload    []*ExpirableBlob `json:"externalPayload"`
	ApplicationPayload []*ExpirableBlob `json:"applicationPayload"`
}

// Resource is the protocol's atomic unit of value/data.
type Resource struct {
	LogicRef               common.Hash `json:"logicRef"`
	LabelRef               common.Hash `json:"labelRef"`
	ValueRef               common.Hash `json:"valueRef"`
	NullifierKeyCommitment common.Hash `json:"nullifierKeyCommitment"`
	Nonce                  common.Hash `json:"nonce"`
	RandSeed               common.Hash `json:"randSeed"`
	// Quantity is an unsigned 128-bit integer.
	Quantity  *big.Int `json:"quantity"`
	Ephemeral bool     `json:"ephemeral"`
}

type ResourceDecodingStatus string

const (
	ResourceDecodingStatus_Success ResourceDecodingStatus = "success"
	ResourceDecodingStatus_Failed  ResourceDecodingStatus = "failed"
	ResourceDecodingStatus_Pending ResourceDecodingStatus = "pending"
	ResourceDecodingStatus_Raw     ResourceDecodingStatus = "raw"
)

// DecodedResource is the result envelope of resource blob decoding. It is
// always returned, never raised: Status tells the caller whether Resource
// is populated ("success"), the blob has not been observed yet ("pending"),
// the blob was not hex at all ("failed"), or the blob is recognized or
// unrecognized foreign data ("raw").
type DecodedResource struct {
	Resource *Resource              `json:"resource,omitempty"`
	Status   ResourceDecodingStatus `json:"status"`
	Error    string                 `json:"error,omitempty"`
}
