package backgrounds

import (
	"fmt"
	"strings"
)

const typeList = "video, image, gradient, solid"

func validateCreate(in CreateInput, hasPrimary, hasThumbnail bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name is required")
	}
	if !in.Type.Valid() {
		return invalid("type must be one of " + typeList)
	}
	if in.Type.HasPrimaryAsset() && !hasPrimary {
		return invalid("primary asset required")
	}
	if !in.Type.HasPrimaryAsset() && hasPrimary {
		return invalid(fmt.Sprintf("primary asset not allowed for %s", in.Type))
	}
	if in.Type == TypeVideo && !hasThumbnail {
		return invalid("thumbnail required for video")
	}
	return nil
}

// validateMerged enforces the type invariants on a merged record, counting
// binaries that are about to be uploaded as present.
func validateMerged(bg Background, hasPrimary, hasThumbnail bool) error {
	if strings.TrimSpace(bg.Name) == "" {
		return invalid("name is required")
	}
	if !bg.Type.Valid() {
		return invalid("type must be one of " + typeList)
	}
	if bg.Type.HasPrimaryAsset() {
		if bg.Src == "" && !hasPrimary {
			return invalid("primary asset required")
		}
	} else if hasPrimary || bg.Src != "" {
		return invalid(fmt.Sprintf("primary asset not allowed for %s", bg.Type))
	}
	if bg.Type == TypeVideo && bg.Thumbnail == "" && !hasThumbnail {
		return invalid("thumbnail required for video")
	}
	return nil
}

// applyPatch merges p onto bg field by field. It returns handles the merged
// record no longer references; callers release them once the write succeeds.
func applyPatch(bg Background, p Patch) (Background, []string) {
	var released []string
	if p.Name != nil {
		bg.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		bg.Type = *p.Type
	}
	if p.Style != nil {
		bg.Style = *p.Style
	}
	if p.Src != nil && *p.Src != bg.Src {
		if bg.SrcHandle != "" {
			released = append(released, bg.SrcHandle)
		}
		bg.Src, bg.SrcHandle = *p.Src, ""
	}
	if p.Thumbnail != nil && *p.Thumbnail != bg.Thumbnail {
		if bg.ThumbnailHandle != "" {
			released = append(released, bg.ThumbnailHandle)
		}
		bg.Thumbnail, bg.ThumbnailHandle = *p.Thumbnail, ""
	}
	// Non-asset types drop an inherited primary asset unless the patch set one.
	if bg.Type.Valid() && !bg.Type.HasPrimaryAsset() && p.Src == nil && bg.Src != "" {
		if bg.SrcHandle != "" {
			released = append(released, bg.SrcHandle)
		}
		bg.Src, bg.SrcHandle = "", ""
	}
	return bg, released
}
