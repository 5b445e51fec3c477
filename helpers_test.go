package biodatasets

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/sbinet/npyio/npy"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/biodatasets/blobstore"
)

// recordHandler keeps every record it sees. Derived handlers share the
// same record list.
type recordHandler struct {
	mu      *sync.Mutex
	records *[]slog.Record
}

func newRecordHandler() *recordHandler {
	return &recordHandler{mu: &sync.Mutex{}, records: &[]slog.Record{}}
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) errors() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var msgs []string
	for _, r := range *h.records {
		if r.Level >= slog.LevelError {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// spyStore counts downloads per key.
type spyStore struct {
	*blobstore.MemoryStore

	mu        sync.Mutex
	downloads map[string]int
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryStore: blobstore.NewMemoryStore(), downloads: make(map[string]int)}
}

func (s *spyStore) Download(ctx context.Context, name string, w io.WriterAt) (int64, error) {
	s.mu.Lock()
	s.downloads[name]++
	s.mu.Unlock()
	return s.MemoryStore.Download(ctx, name, w)
}

func (s *spyStore) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.downloads {
		n += c
	}
	return n
}

func (s *spyStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloads[name]
}

const alphaCSV = "colA,colB,label\n1,2,0\n3,4,1\n"

func npyBytes(t *testing.T, m *mat.Dense) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, npy.Write(&buf, m))
	return buf.Bytes()
}

// newTestStore seeds alpha (table + embeddings) and beta (table only).
func newTestStore(t *testing.T) *spyStore {
	t.Helper()

	ctx := context.Background()
	s := newSpyStore()
	emb := mat.NewDense(2, 3, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})

	require.NoError(t, s.Put(ctx, "alpha/dataset.csv", []byte(alphaCSV)))
	require.NoError(t, s.Put(ctx, "alpha/embeddings.npy", npyBytes(t, emb)))
	require.NoError(t, s.Put(ctx, "beta/dataset.csv", []byte("x,y\na,b\n")))
	return s
}

func newTestClient(t *testing.T, store blobstore.Store) (*Client, *recordHandler) {
	t.Helper()

	h := newRecordHandler()
	c, err := NewClient(
		WithStore(store),
		WithCacheDir(t.TempDir()),
		WithLogger(NewLogger(h)),
	)
	require.NoError(t, err)
	return c, h
}
