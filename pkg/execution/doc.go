// Package execution holds the relational operators that run over heap files.
//
// The engine uses the iterator (volcano) model: every operator implements
// iterator.DbIterator with Open / HasNext / Next / Rewind / Close. Operators
// are composed into a tree; calling Next on the root pulls one row at a time
// through the pipeline.
//
//   - SequentialScan reads every tuple of a heap file through the buffer pool.
//   - Filter passes the child tuples that satisfy a TupleFilter.
//   - Delete removes every child tuple and reports how many it removed.
//   - [heapstore/pkg/execution/aggregation] groups and aggregates a child's
//     tuples (COUNT, SUM, AVG, MIN, MAX).
package execution
