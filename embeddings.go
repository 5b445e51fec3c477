package biodatasets

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

var npyMagic = []byte("\x93NUMPY")

// checkNpyHeader verifies the magic string and that the declared header
// length fits in data.
func checkNpyHeader(data []byte) error {
	const preamble = 8 // magic + major + minor
	if len(data) < preamble+2 || string(data[:len(npyMagic)]) != string(npyMagic) {
		return fmt.Errorf("%w: not an npy file", ErrInvalidEmbeddings)
	}

	var start, size int
	switch major := data[6]; major {
	case 1:
		start, size = preamble+2, int(binary.LittleEndian.Uint16(data[preamble:]))
	case 2, 3:
		if len(data) < preamble+4 {
			return fmt.Errorf("%w: truncated header", ErrInvalidEmbeddings)
		}
		start, size = preamble+4, int(binary.LittleEndian.Uint32(data[preamble:]))
	default:
		return fmt.Errorf("%w: unsupported npy version %d", ErrInvalidEmbeddings, major)
	}

	if size < 2 || start+size > len(data) {
		return fmt.Errorf("%w: header length %d out of range", ErrInvalidEmbeddings, size)
	}
	return nil
}

// decodeMatrix reads a 2-D array of any real numeric dtype as float64.
func decodeMatrix(r *npy.Reader) (*mat.Dense, error) {
	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: want a 2-D array, got shape %v", ErrInvalidEmbeddings, shape)
	}
	rows, cols := shape[0], shape[1]

	var (
		data []float64
		err  error
	)
	switch kind := strings.TrimLeft(r.Header.Descr.Type, "<>|="); kind {
	case "f8":
		err = r.Read(&data)
	case "f4":
		data, err = readAs[float32](r)
	case "i1":
		data, err = readAs[int8](r)
	case "i2":
		data, err = readAs[int16](r)
	case "i4":
		data, err = readAs[int32](r)
	case "i8":
		data, err = readAs[int64](r)
	case "u1":
		data, err = readAs[uint8](r)
	case "u2":
		data, err = readAs[uint16](r)
	case "u4":
		data, err = readAs[uint32](r)
	case "u8":
		data, err = readAs[uint64](r)
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidEmbeddings, r.Header.Descr.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEmbeddings, err)
	}

	if rows == 0 || cols == 0 {
		return new(mat.Dense), nil
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrInvalidEmbeddings, len(data), shape)
	}

	if r.Header.Descr.Fortran {
		var m mat.Dense
		m.CloneFrom(mat.NewDense(cols, rows, data).T())
		return &m, nil
	}
	return mat.NewDense(rows, cols, data), nil
}

type number interface {
	~float32 | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func readAs[T number](r *npy.Reader) ([]float64, error) {
	var raw []T
	if err := r.Read(&raw); err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}
