package coverart

// SaveOption configures behavior when saving tags.
//
// Example:
//
//	err := acc.SaveTags("song.mp3", "cover.png", "Title", "Artist",
//	    coverart.WithBackup(".bak"),
//	    coverart.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix     string     // Suffix for backup file (e.g., ".bak")
	coverDescription string     // Description stored in the picture frame
	version          TagVersion // ID3v2 version to write
	validate         bool       // Re-read after write to verify
	preserveModTime  bool       // Keep original modification time
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{
		backupSuffix:     "",
		coverDescription: "Cover",
		version:          ID3v23,
		validate:         false,
		preserveModTime:  false,
	}
}

// WithBackup keeps a copy of the original file before replacing it.
//
// WithBackup(".bak") leaves "song.mp3.bak" next to the rewritten
// "song.mp3". An existing backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the rewritten file with an independent reader and
// compares title, artist and (if replaced) the cover bytes. The check runs
// before the original is replaced; on a mismatch the original is kept.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithTagVersion selects the ID3v2 version written. Default is ID3v23.
//
// Backends that manage the version themselves (taglib) ignore it.
func WithTagVersion(v TagVersion) SaveOption {
	return func(o *saveOptions) {
		o.version = v
	}
}

// WithCoverDescription sets the description stored with a new cover.
// Default is "Cover".
func WithCoverDescription(desc string) SaveOption {
	return func(o *saveOptions) {
		o.coverDescription = desc
	}
}
