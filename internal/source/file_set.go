package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every input of one run; FileIDs follow input order.
// Loading is single-threaded, after that the set is read-only and may be
// shared.
type FileSet struct {
	files      []*File
	baseDir    string
	includedBy map[FileID]FileID
}

func NewFileSet() *FileSet { return &FileSet{} }

// NewFileSetWithBase задаёт каталог, от которого печатаются относительные пути.
func NewFileSetWithBase(baseDir string) *FileSet { return &FileSet{baseDir: baseDir} }

// BaseDir falls back to the working directory when no base was given.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Add registers content that is already decoded. The same path added twice
// gets two IDs.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("source: too many files: %w", err))
	}
	f := &File{
		ID:      FileID(n),
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	fileSet.files = append(fileSet.files, f)
	return f.ID
}

// Load читает файл, снимает BOM/UTF-16 и приводит CRLF к LF.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags, err := decodeContent(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if lf, changed := normalizeCRLF(content); changed {
		content, flags = lf, flags|FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (test input, macro body).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// MarkIncluded records that id was first pulled in by an `include in by.
// Later includes of the same file keep the first includer.
func (fileSet *FileSet) MarkIncluded(id, by FileID) {
	if id == by {
		return
	}
	if fileSet.includedBy == nil {
		fileSet.includedBy = make(map[FileID]FileID)
	}
	if _, ok := fileSet.includedBy[id]; !ok {
		fileSet.includedBy[id] = by
	}
}

// Origin follows the include chain of id back to the file that started
// it. Files that were never included are their own origin.
func (fileSet *FileSet) Origin(id FileID) FileID {
	for range len(fileSet.files) {
		by, ok := fileSet.includedBy[id]
		if !ok {
			return id
		}
		id = by
	}
	return id
}

// AddMissing keeps an unreadable input in input order so its load
// diagnostic has a file to point at.
func (fileSet *FileSet) AddMissing(path string) FileID {
	return fileSet.Add(path, nil, FileMissing)
}

// Get returns nil for unknown IDs.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) < len(fileSet.files) {
		return fileSet.files[id]
	}
	return nil
}

func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Resolve maps both ends of span to 1-based positions; an unknown file
// yields zero values.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	if f := fileSet.Get(span.File); f != nil {
		start, end = toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
	}
	return start, end
}

// GetLine returns line n (1-based) without its newline, or "" when n is
// out of range.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders Path for messages. mode is one of absolute, relative,
// basename or auto; anything else prints Path unchanged.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
