package biodatasets

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/biodatasets/blobstore"
)

func loadAlpha(t *testing.T) (*Dataset, *recordHandler) {
	t.Helper()

	c, h := newTestClient(t, newTestStore(t))
	ds, err := c.LoadDataset(context.Background(), "alpha", false)
	require.NoError(t, err)
	require.NotNil(t, ds)
	return ds, h
}

func TestDataset_ToArrays(t *testing.T) {
	t.Run("InputsAndTargets", func(t *testing.T) {
		ds, h := loadAlpha(t)

		in, out, err := ds.ToArrays([]string{"colA", "colB"}, []string{"label"})
		require.NoError(t, err)
		require.NotNil(t, in)
		require.NotNil(t, out)

		rows, cols := in.Shape()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 2, cols)
		assert.Equal(t, []string{"1", "2"}, in.Row(0))
		assert.Equal(t, []string{"2", "4"}, in.Column(1))

		rows, cols = out.Shape()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 1, cols)
		assert.Equal(t, "1", out.At(1, 0))

		assert.Empty(t, h.errors())
	})

	t.Run("MissingInput", func(t *testing.T) {
		ds, h := loadAlpha(t)

		in, out, err := ds.ToArrays([]string{"missing_col"}, nil)
		require.NoError(t, err)
		assert.Nil(t, in)
		assert.Nil(t, out)
		assert.Equal(t, []string{"some inputs are not in the dataset"}, h.errors())
	})

	t.Run("MissingTarget", func(t *testing.T) {
		ds, h := loadAlpha(t)

		in, out, err := ds.ToArrays([]string{"colA"}, []string{"missing_target"})
		require.NoError(t, err)
		require.NotNil(t, in)
		assert.Nil(t, out)

		rows, cols := in.Shape()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 1, cols)
		assert.Equal(t, []string{"some targets are not in the dataset"}, h.errors())
	})

	t.Run("NilTargets", func(t *testing.T) {
		ds, h := loadAlpha(t)

		in, out, err := ds.ToArrays([]string{"label", "colA"}, nil)
		require.NoError(t, err)
		require.NotNil(t, in)
		assert.Nil(t, out)
		assert.Equal(t, []string{"label", "colA"}, in.Columns())
		assert.Equal(t, []string{"0", "1"}, in.Row(0))
		assert.Empty(t, h.errors())
	})

	t.Run("EmptyTargets", func(t *testing.T) {
		ds, _ := loadAlpha(t)

		_, out, err := ds.ToArrays([]string{"colA"}, []string{})
		require.NoError(t, err)
		require.NotNil(t, out)

		rows, cols := out.Shape()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 0, cols)
	})

	t.Run("NoTable", func(t *testing.T) {
		ds, _ := loadAlpha(t)
		require.NoError(t, os.Remove(filepath.Join(ds.Path(), TableFile)))

		_, _, err := ds.ToArrays([]string{"colA"}, nil)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestDataset_Columns(t *testing.T) {
	ds, _ := loadAlpha(t)

	cols, err := ds.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"colA", "colB", "label"}, cols)
}

func TestDataset_Embeddings(t *testing.T) {
	ctx := context.Background()

	t.Run("Present", func(t *testing.T) {
		ds, _ := loadAlpha(t)

		m, err := ds.Embeddings()
		require.NoError(t, err)

		r, c := m.Dims()
		assert.Equal(t, 2, r)
		assert.Equal(t, 3, c)
		assert.InDelta(t, 0.6, m.At(1, 2), 1e-12)

		hdr, err := ds.EmbeddingsInfo()
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, hdr.Descr.Shape)
		assert.False(t, hdr.Descr.Fortran)
	})

	t.Run("Missing", func(t *testing.T) {
		c, _ := newTestClient(t, newTestStore(t))
		ds, err := c.LoadDataset(ctx, "beta", false)
		require.NoError(t, err)
		require.NotNil(t, ds)

		_, err = ds.Embeddings()
		require.ErrorIs(t, err, fs.ErrNotExist)

		_, err = ds.EmbeddingsInfo()
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

// rawNpy builds a version 1.0 .npy file around a little-endian payload.
func rawNpy(t *testing.T, descr string, fortran bool, shape string, values any) []byte {
	t.Helper()

	order := "False"
	if fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", descr, order, shape)
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY\x01\x00")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	if values != nil {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, values))
	}
	return buf.Bytes()
}

func loadWithEmbeddings(t *testing.T, npyData []byte) *Dataset {
	t.Helper()

	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "alpha/dataset.csv", []byte(alphaCSV)))
	require.NoError(t, store.Put(ctx, "alpha/embeddings.npy", npyData))

	c, _ := newTestClient(t, store)
	ds, err := c.LoadDataset(ctx, "alpha", false)
	require.NoError(t, err)
	require.NotNil(t, ds)
	return ds
}

func TestDataset_Embeddings_DTypes(t *testing.T) {
	tests := []struct {
		name   string
		descr  string
		values any
	}{
		{"Float32", "<f4", []float32{1, 2, 3, 4, 5, 6}},
		{"Float64", "<f8", []float64{1, 2, 3, 4, 5, 6}},
		{"Int32", "<i4", []int32{1, 2, 3, 4, 5, 6}},
		{"Int64", "<i8", []int64{1, 2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := loadWithEmbeddings(t, rawNpy(t, tt.descr, false, "(2, 3)", tt.values))

			hdr, err := ds.EmbeddingsInfo()
			require.NoError(t, err)
			assert.Equal(t, tt.descr, hdr.Descr.Type)

			m, err := ds.Embeddings()
			require.NoError(t, err)

			r, c := m.Dims()
			assert.Equal(t, 2, r)
			assert.Equal(t, 3, c)
			assert.Equal(t, 2.0, m.At(0, 1))
			assert.Equal(t, 4.0, m.At(1, 0))
			assert.Equal(t, 6.0, m.At(1, 2))
		})
	}
}

func TestDataset_Embeddings_FortranOrder(t *testing.T) {
	// Column-major storage of [[1 2 3] [4 5 6]].
	ds := loadWithEmbeddings(t, rawNpy(t, "<f4", true, "(2, 3)", []float32{1, 4, 2, 5, 3, 6}))

	m, err := ds.Embeddings()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, m.RawRowView(0))
	assert.Equal(t, []float64{4, 5, 6}, m.RawRowView(1))
}

func TestDataset_Embeddings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"OneDimensional", rawNpy(t, "<f4", false, "(4,)", []float32{1, 2, 3, 4})},
		{"UnsupportedDType", rawNpy(t, "<c16", false, "(1, 1)", []float64{1, 0})},
		{"NotNpy", []byte("colA,colB\n1,2\n")},
		{"EmptyHeader", []byte("\x93NUMPY\x01\x00\x00\x00")},
		{"HeaderPastEOF", []byte("\x93NUMPY\x01\x00\xff\x00{'descr'")},
		{"MalformedHeader", rawNpy(t, "<f4", false, "(2, 2", nil)},
		{"Empty", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := loadWithEmbeddings(t, tt.data)

			var err error
			require.NotPanics(t, func() { _, err = ds.Embeddings() })
			require.ErrorIs(t, err, ErrInvalidEmbeddings)
		})
	}
}
