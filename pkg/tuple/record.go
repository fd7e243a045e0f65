package tuple

import (
	"fmt"

	"heapstore/pkg/primitives"
)

// RecordID locates a stored tuple: the page holding it and its slot on that page.
type RecordID struct {
	PageID   primitives.PageID // The page containing this tuple
	TupleNum primitives.SlotID // The slot within the page
}

// NewRecordID creates a new RecordID
func NewRecordID(pageID primitives.PageID, tupleNum primitives.SlotID) *RecordID {
	return &RecordID{
		PageID:   pageID,
		TupleNum: tupleNum,
	}
}

func (rid *RecordID) Equals(other *RecordID) bool {
	if other == nil {
		return false
	}
	return rid.PageID.Equals(other.PageID) && rid.TupleNum == other.TupleNum
}

func (rid *RecordID) String() string {
	return fmt.Sprintf("RecordID(page=%s, slot=%d)", rid.PageID.String(), rid.TupleNum)
}
