// Package fs abstracts the cache filesystem operations used when mirroring
// objects, so that write failures can be injected in tests.
//
//   - [LocalFS]: the os-backed implementation ([Default])
//   - [FaultyFS]: wraps a FileSystem and fails writes, syncs, closes or
//     renames on demand
//
// Calls take no context.Context: local filesystem calls are not
// interruptible at the syscall level. Cancellation of slow object reads
// is handled by the blobstore.
package fs
