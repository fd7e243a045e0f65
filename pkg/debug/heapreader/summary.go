// Package heapreader inspects heap files through the buffer pool: it
// summarizes page occupancy, renders the summary as a table and offers an
// interactive page browser.
package heapreader

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"heapstore/pkg/concurrency/transaction"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/heap"
	"heapstore/pkg/storage/page"
	"heapstore/pkg/types"
)

// PageSource is the part of the buffer pool the inspector reads through.
type PageSource interface {
	GetPage(tid *transaction.TransactionID, pid page.PageDescriptor, perm transaction.Permissions) (page.Page, error)
	CommitTransaction(tid *transaction.TransactionID) error
}

// PageSummary describes one page of a heap file.
type PageSummary struct {
	PageNo    primitives.PageNumber
	NumSlots  int
	UsedSlots int
	Rows      [][]string
}

// FileSummary describes one heap file page by page.
type FileSummary struct {
	Path    string
	FileID  primitives.FileID
	Columns []string
	Pages   []PageSummary
}

// NumTuples returns the number of live tuples across all pages.
func (f FileSummary) NumTuples() int {
	n := 0
	for _, p := range f.Pages {
		n += p.UsedSlots
	}
	return n
}

// Summarize reads every page of every file under a read-only transaction,
// one goroutine per file. Results keep the order of files.
func Summarize(ctx context.Context, store PageSource, files []*heap.HeapFile) ([]FileSummary, error) {
	summaries := make([]FileSummary, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, hf := range files {
		g.Go(func() error {
			s, err := summarizeFile(ctx, store, hf)
			if err != nil {
				return err
			}
			summaries[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func summarizeFile(ctx context.Context, store PageSource, hf *heap.HeapFile) (FileSummary, error) {
	if hf == nil {
		return FileSummary{}, dberror.InvalidArgument("heap file cannot be nil")
	}

	summary := FileSummary{
		Path:    string(hf.FilePath()),
		FileID:  hf.GetID(),
		Columns: columnNames(hf),
	}

	numPages, err := hf.NumPages()
	if err != nil {
		return FileSummary{}, err
	}

	tid := transaction.NewTransactionID()
	defer func() {
		if err := store.CommitTransaction(tid); err != nil {
			logging.WithTx(tid.ID()).WithError(err).Warn("release inspector transaction")
		}
	}()

	for pageNo := primitives.PageNumber(0); pageNo < numPages; pageNo++ {
		if err := ctx.Err(); err != nil {
			return FileSummary{}, err
		}

		pid := page.NewPageDescriptor(hf.GetID(), pageNo)
		pg, err := store.GetPage(tid, pid, transaction.ReadOnly)
		if err != nil {
			return FileSummary{}, err
		}
		hp, ok := pg.(*heap.HeapPage)
		if !ok {
			return FileSummary{}, dberror.InvalidPage("page %s is not a heap page", pid)
		}

		ps := PageSummary{
			PageNo:    pageNo,
			NumSlots:  hp.NumSlots(),
			UsedSlots: hp.NumSlots() - hp.GetNumEmptySlots(),
		}
		for _, t := range hp.GetTuples() {
			row := make([]string, t.TupleDesc.NumFields())
			for j := range row {
				f, err := t.GetField(j)
				if err != nil {
					return FileSummary{}, err
				}
				row[j] = formatField(f)
			}
			ps.Rows = append(ps.Rows, row)
		}
		summary.Pages = append(summary.Pages, ps)
	}

	logging.WithFile(summary.Path).
		WithField("pages", numPages).
		WithField("tuples", summary.NumTuples()).
		Debug("heap file summarized")
	return summary, nil
}

func columnNames(hf *heap.HeapFile) []string {
	td := hf.GetTupleDesc()
	names := make([]string, td.NumFields())
	for i := range names {
		name, _ := td.GetFieldName(i)
		if name == "" {
			typ, _ := td.TypeAtIndex(i)
			name = fmt.Sprintf("%d:%s", i, typ)
		}
		names[i] = name
	}
	return names
}

func formatField(field types.Field) string {
	if field == nil {
		return "NULL"
	}
	switch f := field.(type) {
	case *types.IntField:
		return fmt.Sprintf("%d", f.Value)
	case *types.StringField:
		return strings.TrimSpace(f.Value)
	default:
		return field.String()
	}
}
