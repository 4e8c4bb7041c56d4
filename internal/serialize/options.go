package serialize

// FileNames selects how location file paths are rendered.
type FileNames uint8

const (
	// FileNamesFull keeps the path stored in the tree.
	FileNamesFull FileNames = iota
	// FileNamesBase keeps only the final path element.
	FileNamesBase
)

// Options tunes the emitted document. The zero value drops locations;
// use DefaultOptions for the CLI defaults.
type Options struct {
	IncludeLocations bool
	FileNames        FileNames
}

func DefaultOptions() Options {
	return Options{IncludeLocations: true, FileNames: FileNamesFull}
}
