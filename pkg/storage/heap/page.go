package heap

import (
	"bytes"
	"sync"

	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"
)

// HeapPage is a single fixed-size page of a heap file and implements page.Page.
//
// Page Layout:
//
//	[header bitmap: ceil(numSlots/8) bytes][slot 0][slot 1]...[slot numSlots-1][zero padding]
//
// Bit j of the header lives in byte j/8 at bit position j%8 (least
// significant bit first) and is set when slot j holds a tuple. Every slot is
// exactly tupleDesc.GetSize() bytes; unoccupied slots and the tail padding
// are zero on disk.
type HeapPage struct {
	pageID    page.PageDescriptor
	tupleDesc *tuple.TupleDescription
	numSlots  int
	header    []byte
	tuples    []*tuple.Tuple // indexed by slot, nil when empty
	dirtier   *transaction.TransactionID
	oldData   []byte // Before-image for rollback
	mutex     sync.RWMutex
}

// NumSlots returns how many tuples of schema td fit on one page: the
// largest n with n*tupleSize + ceil(n/8) <= PageSize().
func NumSlots(td *tuple.TupleDescription) int {
	tupleSize := int(td.GetSize())
	if tupleSize == 0 {
		return 0
	}
	return (page.PageSize() * 8) / (tupleSize*8 + 1)
}

// HeaderSize returns the number of bitmap bytes for schema td.
func HeaderSize(td *tuple.TupleDescription) int {
	return (NumSlots(td) + 7) / 8
}

// CreateEmptyPageData returns the image of a page with no tuples: PageSize() zero bytes.
func CreateEmptyPageData() []byte {
	return make([]byte, page.PageSize())
}

// NewHeapPage decodes a page image.
//
// Parameters:
//   - pid: The id of the page being decoded
//   - data: The raw page image, exactly PageSize() bytes
//   - td: The schema of the tuples on the page
//
// Returns:
//   - *HeapPage: the decoded page; occupied slot i carries record id (pid, i)
//   - error: FORMAT_ERROR if data has the wrong length or an occupied slot
//     does not decode
func NewHeapPage(pid page.PageDescriptor, data []byte, td *tuple.TupleDescription) (*HeapPage, error) {
	if len(data) != page.PageSize() {
		return nil, dberror.Format("invalid page data size: expected %d, got %d", page.PageSize(), len(data))
	}

	numSlots := NumSlots(td)
	headerSize := (numSlots + 7) / 8
	tupleSize := int(td.GetSize())

	hp := &HeapPage{
		pageID:    pid,
		tupleDesc: td,
		numSlots:  numSlots,
		header:    make([]byte, headerSize),
		tuples:    make([]*tuple.Tuple, numSlots),
		oldData:   make([]byte, len(data)),
	}
	copy(hp.header, data[:headerSize])
	copy(hp.oldData, data)

	for i := range numSlots {
		if !hp.isSlotUsed(i) {
			continue
		}

		start := headerSize + i*tupleSize
		t, err := readTuple(bytes.NewReader(data[start:start+tupleSize]), td)
		if err != nil {
			return nil, dberror.Format("failed to decode slot %d of %s: %v", i, pid, err)
		}

		t.RecordID = tuple.NewRecordID(pid, primitives.SlotID(i)) // #nosec G115
		hp.tuples[i] = t
	}

	return hp, nil
}

// readTuple deserializes one tuple of schema td.
func readTuple(r *bytes.Reader, td *tuple.TupleDescription) (*tuple.Tuple, error) {
	t := tuple.NewTuple(td)
	for j, fieldType := range td.Types {
		field, err := types.ParseField(r, fieldType)
		if err != nil {
			return nil, err
		}
		if err := t.SetField(j, field); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// GetID returns the unique page identifier for this heap page.
func (hp *HeapPage) GetID() page.PageDescriptor {
	return hp.pageID
}

// IsDirty returns the transaction that last modified this page, or nil if clean.
func (hp *HeapPage) IsDirty() *transaction.TransactionID {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.dirtier
}

// MarkDirty marks this page as dirty or clean for a specific transaction.
func (hp *HeapPage) MarkDirty(dirty bool, tid *transaction.TransactionID) {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if dirty {
		hp.dirtier = tid
	} else {
		hp.dirtier = nil
	}
}

// GetPageData encodes the page. Decoding the result yields an equal page,
// and for a well-formed image encode(decode(b)) == b. A slot whose tuple
// cannot be serialized is left zeroed and the failure is logged; WritePage
// uses Encode and refuses such a page.
func (hp *HeapPage) GetPageData() []byte {
	data, err := hp.Encode()
	if err != nil {
		logging.WithPage(uint64(hp.pageID.FileID()), uint64(hp.pageID.PageNo())).
			WithError(err).
			Error("page image has unserializable slots")
	}
	return data
}

// Encode returns the page image and the first slot serialization error.
func (hp *HeapPage) Encode() ([]byte, error) {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.encode()
}

func (hp *HeapPage) encode() ([]byte, error) {
	data := make([]byte, page.PageSize())
	copy(data, hp.header)

	tupleSize := int(hp.tupleDesc.GetSize())
	offset := len(hp.header)

	var firstErr error
	for i, t := range hp.tuples {
		if t == nil {
			continue
		}

		slot, err := serializeTuple(t, hp.tupleDesc)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		copy(data[offset+i*tupleSize:offset+(i+1)*tupleSize], slot)
	}

	return data, firstErr
}

// serializeTuple encodes t into exactly td.GetSize() bytes.
func serializeTuple(t *tuple.Tuple, td *tuple.TupleDescription) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(td.GetSize()))

	for j := range td.NumFields() {
		field, err := t.GetField(j)
		if err != nil {
			return nil, err
		}
		if field == nil {
			return nil, dberror.InvalidArgument("field %d is unset", j)
		}
		if err := field.Serialize(&buf); err != nil {
			return nil, dberror.Wrap(err, dberror.CodeStorageIO, "serialize", "HeapPage")
		}
	}

	if buf.Len() != int(td.GetSize()) {
		return nil, dberror.Format("tuple encodes to %d bytes, slot holds %d", buf.Len(), td.GetSize())
	}
	return buf.Bytes(), nil
}

// GetBeforeImage returns the page as it was when SetBeforeImage last ran,
// or as it was read from disk.
func (hp *HeapPage) GetBeforeImage() page.Page {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	beforePage, err := NewHeapPage(hp.pageID, hp.oldData, hp.tupleDesc)
	if err != nil {
		return nil
	}
	return beforePage
}

// SetBeforeImage captures the current page state as the before-image.
func (hp *HeapPage) SetBeforeImage() {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	data, err := hp.encode()
	if err != nil {
		logging.WithPage(uint64(hp.pageID.FileID()), uint64(hp.pageID.PageNo())).
			WithError(err).
			Warn("before image has unserializable slots")
	}
	hp.oldData = data
}

// NumSlots returns the slot capacity of this page.
func (hp *HeapPage) NumSlots() int {
	return hp.numSlots
}

// GetNumEmptySlots returns the count of unoccupied tuple slots on this page.
func (hp *HeapPage) GetNumEmptySlots() int {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.getNumEmptySlots()
}

func (hp *HeapPage) getNumEmptySlots() int {
	empty := 0
	for i := range hp.numSlots {
		if !hp.isSlotUsed(i) {
			empty++
		}
	}
	return empty
}

// IsSlotUsed reports whether slot i holds a tuple.
func (hp *HeapPage) IsSlotUsed(i int) bool {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.isSlotUsed(i)
}

func (hp *HeapPage) isSlotUsed(i int) bool {
	if i < 0 || i >= hp.numSlots {
		return false
	}
	return hp.header[i/8]&(1<<(uint(i)%8)) != 0
}

func (hp *HeapPage) setSlot(i int, used bool) {
	if used {
		hp.header[i/8] |= 1 << (uint(i) % 8)
	} else {
		hp.header[i/8] &^= 1 << (uint(i) % 8)
	}
}

// AddTuple stores t in the first free slot and sets its record id.
//
// Returns:
//   - error: TYPE_MISMATCH if t's schema differs from the page's,
//     INVALID_ARGUMENT if a field is unset, STORAGE_FULL if every slot is occupied
func (hp *HeapPage) AddTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if !t.TupleDesc.Equals(hp.tupleDesc) {
		return dberror.TypeMismatch("tuple schema %s does not match page schema %s", t.TupleDesc, hp.tupleDesc)
	}
	if _, err := serializeTuple(t, hp.tupleDesc); err != nil {
		return err
	}

	for i := range hp.numSlots {
		if hp.isSlotUsed(i) {
			continue
		}

		hp.setSlot(i, true)
		hp.tuples[i] = t
		t.RecordID = tuple.NewRecordID(hp.pageID, primitives.SlotID(i)) // #nosec G115
		return nil
	}

	return dberror.StorageFull("no empty slot on %s", hp.pageID)
}

// DeleteTuple clears the slot named by t's record id. t keeps its record
// id so the caller can still identify the row, e.g. after an abort.
//
// Returns:
//   - error: TUPLE_NOT_FOUND if t has no record id, the record id names
//     another page, or the slot is already empty
func (hp *HeapPage) DeleteTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	rid := t.RecordID
	if rid == nil {
		return dberror.TupleNotFound("tuple has no record id")
	}
	if !rid.PageID.Equals(hp.pageID) {
		return dberror.TupleNotFound("tuple %s is not on %s", rid, hp.pageID)
	}

	slot := int(rid.TupleNum)
	if !hp.isSlotUsed(slot) {
		return dberror.TupleNotFound("slot %d of %s is empty", slot, hp.pageID)
	}

	hp.setSlot(slot, false)
	hp.tuples[slot] = nil
	return nil
}

// GetTuples returns the stored tuples in slot order.
func (hp *HeapPage) GetTuples() []*tuple.Tuple {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	tuples := make([]*tuple.Tuple, 0, hp.numSlots-hp.getNumEmptySlots())
	for _, t := range hp.tuples {
		if t != nil {
			tuples = append(tuples, t)
		}
	}
	return tuples
}

// Iterator returns an iterator over the page's tuples in slot order.
func (hp *HeapPage) Iterator() *HeapPageIterator {
	return NewHeapPageIterator(hp)
}
