// Package transaction provides opaque transaction identifiers and page
// access permissions. Identity is all the storage layer needs: there is no
// locking or logging behind a TransactionID.
package transaction

import (
	"fmt"
	"sync/atomic"
)

var transactionCounter atomic.Int64

type TransactionID struct {
	id int64
}

// NewTransactionID returns an id that is unique within the process.
func NewTransactionID() *TransactionID {
	return &TransactionID{
		id: transactionCounter.Add(1),
	}
}

// NewTransactionIDFromValue creates a TransactionID with a specific ID value.
func NewTransactionIDFromValue(id int64) *TransactionID {
	return &TransactionID{
		id: id,
	}
}

func (tid *TransactionID) ID() int64 {
	return tid.id
}

func (tid *TransactionID) String() string {
	return fmt.Sprintf("TID-%d", tid.id)
}

func (tid *TransactionID) Equals(other *TransactionID) bool {
	if tid == nil || other == nil {
		return tid == other
	}
	return tid.id == other.id
}

// Permissions is the access level requested when fetching a page.
type Permissions int

const (
	ReadOnly Permissions = iota
	ReadWrite
)

func (p Permissions) String() string {
	if p == ReadWrite {
		return "READ_WRITE"
	}
	return "READ_ONLY"
}
