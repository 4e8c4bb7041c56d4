package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // порядковый номер входа
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

// NoFile marks spans that do not belong to any input (command line, config).
const NoFile FileID = ^FileID(0)

const (
	// FileVirtual indicates the file was added from memory (test, macro body, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileUTF16 indicates the content was transcoded from UTF-16.
	FileUTF16
	// FileMissing marks an input that could not be read; Content is empty.
	FileMissing
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Missing reports whether the file failed to load.
func (f *File) Missing() bool { return f.Flags&FileMissing != 0 }

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
