// Package storage is the root of heapstore's disk-based storage engine.
//
// Data is organised into fixed-size pages (4096 bytes unless configured
// otherwise) that are read and written as atomic units.
//
// # Sub-packages
//
//   - [heapstore/pkg/storage/page] – Page and DbFile interfaces, page
//     descriptors, the process-wide page size and BaseFile raw page I/O.
//   - [heapstore/pkg/storage/heap] – Heap file: an unordered sequence of
//     slotted pages holding fixed-width tuples, with page and file iterators.
//
// # Page layout
//
// A heap page starts with a bitmap of ceil(slots/8) bytes, one bit per slot,
// least significant bit first. Fixed-size tuple slots follow the header and
// the remainder of the page is zero padding. A file holds pages back to back;
// page n starts at byte n × pageSize.
package storage
