// Package filesystem provides the filesystem abstraction used by xavr.
//
// FS is implemented by the OS filesystem and by an afero-backed filesystem,
// which tests use with an in-memory afero.Fs.
package filesystem
