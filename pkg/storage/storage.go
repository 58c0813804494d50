// Package storage declares the surface the persistence layer consumes.
// The decoders hand fully-constructed protocol objects to these interfaces
// and never see what happens behind them; concrete stores (postgres, etc.)
// live with the indexing pipeline, outside this repository's core.
package storage

import (
	"time"

	"github.com/rm-labs/explorer-sidecar/pkg/protocol"
)

// TransactionRecord is a decoded transaction as the indexing pipeline hands
// it to storage, keyed by its on-chain coordinates.
type TransactionRecord struct {
	BlockNumber     uint64
	TransactionHash string
	Transaction     *protocol.Transaction
	IndexedAt       time.Time
}

// ResourceRecord couples a resource tag with the outcome of decoding its
// blob. Status mirrors protocol.ResourceDecodingStatus so that stores can
// distinguish "not yet available" from "foreign format" from "unparsable".
type ResourceRecord struct {
	Tag             string
	BlockNumber     uint64
	DecodedResource *protocol.DecodedResource
	IndexedAt       time.Time
}

type TransactionStore interface {
	InsertDecodedTransaction(record *TransactionRecord) error
	GetTransactionByHash(txHash string) (*TransactionRecord, error)
	// ListActions returns the actions of a stored transaction in encoding
	// order; index position is the action's identity within the tx.
	ListActions(txHash string) ([]*protocol.Action, error)
}

type ResourceStore interface {
	UpsertDecodedResource(record *ResourceRecord) error
	GetResourceByTag(tag string) (*ResourceRecord, error)
}
