package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"svdump/internal/document"
)

// Document encodings accepted by --format.
const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

// writeDocument encodes doc into path. The bytes go to a temporary file
// next to path which is renamed into place only after a complete write,
// so a failed run never leaves a truncated document behind.
func writeDocument(path string, doc document.Value, format string, pretty bool) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = encodeDocument(tmp, doc, format, pretty); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// CreateTemp uses 0600
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

func encodeDocument(w io.Writer, doc document.Value, format string, pretty bool) error {
	switch format {
	case formatMsgpack:
		return document.WriteMsgpack(w, doc)
	default:
		return document.Write(w, doc, document.WriteOptions{Pretty: pretty})
	}
}
