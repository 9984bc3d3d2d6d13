package backgrounds

import "time"

// Type is the kind of background; it decides which fields are required.
type Type string

const (
	TypeVideo    Type = "video"
	TypeImage    Type = "image"
	TypeGradient Type = "gradient"
	TypeSolid    Type = "solid"
)

// Valid reports whether t is a known background type.
func (t Type) Valid() bool {
	switch t {
	case TypeVideo, TypeImage, TypeGradient, TypeSolid:
		return true
	default:
		return false
	}
}

// HasPrimaryAsset reports whether records of type t carry an uploaded primary asset.
func (t Type) HasPrimaryAsset() bool {
	return t == TypeVideo || t == TypeImage
}

// Background is a persisted background record.
type Background struct {
	ID              string
	Name            string
	Type            Type
	Src             string
	SrcHandle       string
	Style           string
	Thumbnail       string
	ThumbnailHandle string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Handles returns the non-empty asset handles held by the record.
func (b Background) Handles() []string {
	var out []string
	if b.SrcHandle != "" {
		out = append(out, b.SrcHandle)
	}
	if b.ThumbnailHandle != "" {
		out = append(out, b.ThumbnailHandle)
	}
	return out
}

// CreateInput is the payload for creating a background.
type CreateInput struct {
	Name  string
	Type  Type
	Style string
}

// Patch is a partial update. Nil fields are left untouched.
// Setting Src or Thumbnail directly stores an external URL with no handle.
type Patch struct {
	Name      *string
	Type      *Type
	Style     *string
	Src       *string
	Thumbnail *string
}

// Empty reports whether the patch changes no fields.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Style == nil && p.Src == nil && p.Thumbnail == nil
}

// RemoveResult confirms a deletion.
type RemoveResult struct {
	Deleted bool
	Message string
}
