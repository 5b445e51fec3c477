// Package frame reads a dataset's CSV table into a column-addressable frame.
package frame

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("frame: missing header row")

// Frame is an in-memory CSV table. Cells are kept as strings.
type Frame struct {
	columns []string
	index   map[string]int
	records [][]string
}

// ReadFile reads the CSV file at path.
func ReadFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fr, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fr, nil
}

// Read parses CSV from r. The first record is the header.
func Read(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(bufio.NewReader(r))

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("frame: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	fr := &Frame{
		columns: header,
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		// First occurrence wins for duplicated header names.
		if _, ok := fr.index[name]; !ok {
			fr.index[name] = i
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("frame: read records: %w", err)
	}
	fr.records = records
	return fr, nil
}

// Columns returns the header names in file order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.records)
}

// Missing returns the requested names that are not columns of the frame,
// in request order and without duplicates.
func (f *Frame) Missing(names []string) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, name := range names {
		if _, ok := f.index[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}
	return missing
}

// Select extracts the named columns as a row-major block of
// Len()*len(names) cells.
func (f *Frame) Select(names []string) ([]string, error) {
	idx := make([]int, len(names))
	for j, name := range names {
		i, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("frame: unknown column %q", name)
		}
		idx[j] = i
	}

	cells := make([]string, 0, len(f.records)*len(names))
	for _, rec := range f.records {
		for _, i := range idx {
			cells = append(cells, rec[i])
		}
	}
	return cells, nil
}
