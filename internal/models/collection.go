package models

// CollectionRole marks the special collections a database carries.
type CollectionRole string

const (
	RoleInbox    CollectionRole = "inbox"
	RoleSafe     CollectionRole = "safe"
	RoleOverflow CollectionRole = "overflow"
	RoleTrash    CollectionRole = "trash"
	RoleCustom   CollectionRole = "custom"
)

// Collection is a named container for clips. ParentID forms a tree; the
// database root collection has an empty ParentID.
type Collection struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	ParentID   string         `json:"parent_id,omitempty"`
	Role       CollectionRole `json:"role"`
	MaxBytes   int64          `json:"max_bytes,omitempty"`
	MaxAgeDays int            `json:"max_age_days,omitempty"`
	SortKey    int            `json:"sort_key,omitempty"`
}

// Shortcut maps a unique nickname to a clip.
type Shortcut struct {
	Nickname string `json:"nickname"`
	ClipID   string `json:"clip_id"`
	ClipGuid string `json:"clip_guid,omitempty"`
}
