package models

import "time"

// File record kinds. Kind is immutable after creation.
const (
	KindFolder = "folder"
	KindFile   = "file"
	KindImage  = "image"
)

// ValidKind reports whether kind is one of the accepted file kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// FileRecord is the metadata document for a folder, file, or image,
// independent of where its bytes live.
//
// ParentID is empty for records at the root; otherwise it references a
// folder owned by the same user. Exactly one of LocalPath (blob-store
// locator) and Data (inline payload) is set for non-folder kinds.
type FileRecord struct {
	ID          string
	UserID      string
	Name        string
	Kind        string
	ParentID    string
	IsPublished bool
	LocalPath   string
	Data        []byte
	CreatedAt   time.Time
}

// IsFolder reports whether the record is a folder (and so has no content).
func (f *FileRecord) IsFolder() bool {
	return f.Kind == KindFolder
}
