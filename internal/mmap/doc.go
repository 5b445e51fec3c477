// Package mmap provides read-only memory-mapped file access.
//
// Cached dataset artifacts (embedding arrays in particular) can be large;
// mapping them lets readers decode straight from the page cache without an
// intermediate heap copy.
//
//	m, err := mmap.Open("embeddings.npy")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix platforms use mmap(2)/madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and treats Advise as a no-op.
package mmap
