package models

import "time"

// ClipType classifies what was on the clipboard when the clip was captured.
type ClipType string

const (
	ClipTypeText  ClipType = "text"
	ClipTypeHtml  ClipType = "html"
	ClipTypeRtf   ClipType = "rtf"
	ClipTypeImage ClipType = "image"
	ClipTypeFiles ClipType = "files"
	ClipTypeOther ClipType = "other"
)

// StorageType selects which blob table holds a payload.
type StorageType string

const (
	StorageText   StorageType = "text"
	StorageJpeg   StorageType = "jpeg"
	StoragePng    StorageType = "png"
	StorageBinary StorageType = "binary"
)

// Valid reports whether the storage type maps to a known blob table.
func (s StorageType) Valid() bool {
	switch s {
	case StorageText, StorageJpeg, StoragePng, StorageBinary:
		return true
	}
	return false
}

// Clip is one clipboard capture: a header row owning N per-format payloads.
type Clip struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Creator      string     `json:"creator,omitempty"`
	SourceUrl    string     `json:"source_url,omitempty"`
	CapturedAt   time.Time  `json:"captured_at"`
	Type         ClipType   `json:"type"`
	ContentHash  string     `json:"content_hash,omitempty"`
	CollectionID string     `json:"collection_id,omitempty"`
	FolderID     string     `json:"folder_id,omitempty"`
	IsFavorite   bool       `json:"is_favorite,omitempty"`
	Del          bool       `json:"del,omitempty"`
	DelDate      *time.Time `json:"del_date,omitempty"`
	SortKey      int        `json:"sort_key,omitempty"`
	Checksum     string     `json:"checksum,omitempty"`
}

// ClipData is the per-format metadata row for one payload of a Clip.
type ClipData struct {
	ID          string      `json:"id"`
	ClipID      string      `json:"clip_id"`
	FormatName  string      `json:"format_name"`
	Format      int         `json:"format"`
	StorageType StorageType `json:"storage_type"`
	Size        int64       `json:"size"`
}

// Payload is one blob row. ClipID is a denormalized copy of the owning
// ClipData's clip id, maintained by the write path only.
type Payload struct {
	ID         string `json:"id"`
	ClipDataID string `json:"clip_data_id"`
	ClipID     string `json:"clip_id"`
	Data       []byte `json:"-"`
}

// Text returns the payload bytes as a string.
func (p Payload) Text() string {
	return string(p.Data)
}

// Format pairs a ClipData row with its payload bytes, as supplied to the
// clip write path and as returned by full-graph reads.
type Format struct {
	Name        string
	Code        int
	StorageType StorageType
	Data        []byte
}
