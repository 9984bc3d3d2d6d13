package backgrounds

import "time"

// BackgroundResponse is the outward-facing representation of a background.
// Field names match the frontend model.
type BackgroundResponse struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	Type              Type      `json:"type"`
	Src               string    `json:"src,omitempty"`
	SrcPublicID       string    `json:"srcPublicId,omitempty"`
	Style             string    `json:"style,omitempty"`
	Thumbnail         string    `json:"thumbnail,omitempty"`
	ThumbnailPublicID string    `json:"thumbnailPublicId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// RemoveResponse confirms a deletion.
type RemoveResponse struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

// writeRequest is the JSON body accepted by create and update when no
// files are sent. Handles are deliberately absent.
type writeRequest struct {
	Name      *string `json:"name"`
	Type      *string `json:"type"`
	Style     *string `json:"style"`
	Src       *string `json:"src"`
	Thumbnail *string `json:"thumbnail"`
}

func toResponse(bg Background) BackgroundResponse {
	return BackgroundResponse{
		ID:                bg.ID,
		Name:              bg.Name,
		Type:              bg.Type,
		Src:               bg.Src,
		SrcPublicID:       bg.SrcHandle,
		Style:             bg.Style,
		Thumbnail:         bg.Thumbnail,
		ThumbnailPublicID: bg.ThumbnailHandle,
		CreatedAt:         bg.CreatedAt,
		UpdatedAt:         bg.UpdatedAt,
	}
}

func fromResponse(r BackgroundResponse) Background {
	return Background{
		ID:              r.ID,
		Name:            r.Name,
		Type:            r.Type,
		Src:             r.Src,
		SrcHandle:       r.SrcPublicID,
		Style:           r.Style,
		Thumbnail:       r.Thumbnail,
		ThumbnailHandle: r.ThumbnailPublicID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toResponses(list []Background) []BackgroundResponse {
	out := make([]BackgroundResponse, 0, len(list))
	for _, bg := range list {
		out = append(out, toResponse(bg))
	}
	return out
}

func (r writeRequest) patch() Patch {
	p := Patch{
		Name:      r.Name,
		Style:     r.Style,
		Src:       r.Src,
		Thumbnail: r.Thumbnail,
	}
	if r.Type != nil {
		t := Type(*r.Type)
		p.Type = &t
	}
	return p
}

func (r writeRequest) createInput() CreateInput {
	var in CreateInput
	if r.Name != nil {
		in.Name = *r.Name
	}
	if r.Type != nil {
		in.Type = Type(*r.Type)
	}
	if r.Style != nil {
		in.Style = *r.Style
	}
	return in
}
