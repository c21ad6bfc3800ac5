package watch

// Kind is the type of change a FileEvent describes.
type Kind int

const (
	// Created is emitted when a file or directory appears.
	Created Kind = iota + 1
	// Modified is emitted when a file is written.
	Modified
	// Deleted is emitted when a file or directory disappears.
	Deleted
	// Moved is emitted when a rename is paired with the create of its
	// destination.
	Moved
)

// String returns the string representation of the event kind.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// FileEvent is a single filesystem change.
type FileEvent struct {
	Kind       Kind
	SourcePath string
	// DestPath is set for Moved events only.
	DestPath    string
	IsDirectory bool
}
