package raytrace

import (
	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream is a generic reader: a *tiledb.VFSfh handle opened by the VFS
// layer satisfies it directly. Grounded on the teacher's reader.go, minus
// the in-memory bytes.Reader branch (GenericStream's inmem path), which
// existed to cater for GSF's random-access record walk; ping-set JSON
// files are read whole in one pass, so only the VFS handle itself is
// needed here.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

var _ Stream = (*tiledb.VFSfh)(nil)
