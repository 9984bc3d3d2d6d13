package backgrounds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"focus-backend/internal/shared/metrics"
	"focus-backend/internal/shared/storage/object"
	"focus-backend/internal/shared/telemetry"
)

var tracer = otel.Tracer("focus-backend/internal/backgrounds")

// Service keeps background records and their hosted assets consistent.
// It holds no state between calls; atomicity per record comes from Repo.
type Service struct {
	Repo    Repo
	Assets  object.AssetStore
	Cache   ListCache
	Metrics *metrics.Metrics

	// RollbackPartialUploads discards assets uploaded earlier in an operation
	// that later failed. Off by default, so such assets are left orphaned.
	RollbackPartialUploads bool
}

// Create uploads the supplied assets and stores a new record.
func (s *Service) Create(ctx context.Context, in CreateInput, primary, thumbnail *object.Binary) (bg Background, err error) {
	ctx, span := tracer.Start(ctx, "backgrounds.Create", trace.WithAttributes(
		attribute.String("background.type", string(in.Type)),
	))
	defer func() { s.finish(span, "create", err) }()

	if err := validateCreate(in, primary != nil, thumbnail != nil); err != nil {
		return Background{}, err
	}

	record := Background{
		Name:  strings.TrimSpace(in.Name),
		Type:  in.Type,
		Style: in.Style,
	}
	var uploaded []string
	if primary != nil {
		asset, err := s.upload(ctx, *primary)
		if err != nil {
			return Background{}, fmt.Errorf("%w: primary: %w", ErrUpload, err)
		}
		record.Src, record.SrcHandle = asset.URL, asset.Handle
		uploaded = append(uploaded, asset.Handle)
	}
	if thumbnail != nil {
		asset, err := s.upload(ctx, *thumbnail)
		if err != nil {
			s.rollback(ctx, uploaded)
			return Background{}, fmt.Errorf("%w: thumbnail: %w", ErrUpload, err)
		}
		record.Thumbnail, record.ThumbnailHandle = asset.URL, asset.Handle
		uploaded = append(uploaded, asset.Handle)
	}

	stored, err := s.Repo.Insert(ctx, record)
	if err != nil {
		s.rollback(ctx, uploaded)
		return Background{}, storeErr(err)
	}
	s.invalidate(ctx)
	telemetry.Info("background.created", map[string]any{
		"background_id": stored.ID,
		"type":          string(stored.Type),
	})
	return stored, nil
}

// Update merges patch onto the stored record, replacing assets for which a
// binary is supplied. Superseded assets are released after the write lands.
func (s *Service) Update(ctx context.Context, id string, patch Patch, primary, thumbnail *object.Binary) (bg Background, err error) {
	ctx, span := tracer.Start(ctx, "backgrounds.Update", trace.WithAttributes(
		attribute.String("background.id", id),
	))
	defer func() { s.finish(span, "update", err) }()

	existing, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return Background{}, storeErr(err)
	}
	merged, released := applyPatch(existing, patch)
	if err := validateMerged(merged, primary != nil, thumbnail != nil); err != nil {
		return Background{}, err
	}

	var uploaded []string
	if primary != nil {
		asset, err := s.upload(ctx, *primary)
		if err != nil {
			return Background{}, fmt.Errorf("%w: primary: %w", ErrUpload, err)
		}
		if merged.SrcHandle != "" {
			released = append(released, merged.SrcHandle)
		}
		merged.Src, merged.SrcHandle = asset.URL, asset.Handle
		uploaded = append(uploaded, asset.Handle)
	}
	if thumbnail != nil {
		asset, err := s.upload(ctx, *thumbnail)
		if err != nil {
			s.rollback(ctx, uploaded)
			return Background{}, fmt.Errorf("%w: thumbnail: %w", ErrUpload, err)
		}
		if merged.ThumbnailHandle != "" {
			released = append(released, merged.ThumbnailHandle)
		}
		merged.Thumbnail, merged.ThumbnailHandle = asset.URL, asset.Handle
		uploaded = append(uploaded, asset.Handle)
	}

	stored, err := s.Repo.ReplaceByID(ctx, id, merged)
	if err != nil {
		s.rollback(ctx, uploaded)
		return Background{}, storeErr(err)
	}
	for _, h := range released {
		s.discard(ctx, h)
	}
	s.invalidate(ctx)
	return stored, nil
}

// Remove deletes the record and then its hosted assets. Asset deletion is
// best effort: the record is gone even when the host refuses.
func (s *Service) Remove(ctx context.Context, id string) (res RemoveResult, err error) {
	ctx, span := tracer.Start(ctx, "backgrounds.Remove", trace.WithAttributes(
		attribute.String("background.id", id),
	))
	defer func() { s.finish(span, "remove", err) }()

	removed, err := s.Repo.DeleteByID(ctx, id)
	if err != nil {
		return RemoveResult{}, storeErr(err)
	}
	for _, h := range removed.Handles() {
		s.discard(ctx, h)
	}
	s.invalidate(ctx)
	return RemoveResult{
		Deleted: true,
		Message: fmt.Sprintf("Background with ID %s has been deleted.", id),
	}, nil
}

// List returns every record in insertion order.
func (s *Service) List(ctx context.Context) (out []Background, err error) {
	ctx, span := tracer.Start(ctx, "backgrounds.List")
	defer func() { s.finish(span, "list", err) }()

	// The generation is read before FindAll; a mutation landing in between
	// bumps it and strands this fill.
	var gen int64
	cacheable := false
	if s.Cache != nil {
		cached, g, ok, err := s.Cache.Get(ctx)
		switch {
		case err != nil:
			telemetry.Warn("background.cache.get_failed", map[string]any{"error": err})
		case ok:
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		default:
			gen, cacheable = g, true
		}
	}

	out, err = s.Repo.FindAll(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if cacheable {
		if err := s.Cache.Set(ctx, gen, out); err != nil {
			telemetry.Warn("background.cache.set_failed", map[string]any{"error": err})
		}
	}
	return out, nil
}

func (s *Service) upload(ctx context.Context, bin object.Binary) (object.Asset, error) {
	asset, err := s.Assets.Upload(ctx, bin)
	s.Metrics.ObserveUpload(err)
	if err != nil {
		telemetry.Error("asset.upload.failed", map[string]any{
			"file_name": bin.FileName,
			"error":     err,
		})
		return object.Asset{}, err
	}
	return asset, nil
}

// discard deletes a hosted asset. Failures are logged and counted, never returned.
func (s *Service) discard(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	err := s.Assets.Delete(context.WithoutCancel(ctx), handle)
	s.Metrics.ObserveDelete(err)
	if err != nil {
		telemetry.Warn("asset.delete.failed", map[string]any{
			"handle": handle,
			"error":  err,
		})
	}
}

func (s *Service) rollback(ctx context.Context, handles []string) {
	if !s.RollbackPartialUploads {
		for _, h := range handles {
			telemetry.Warn("asset.orphaned", map[string]any{"handle": h})
		}
		return
	}
	for _, h := range handles {
		s.discard(ctx, h)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		telemetry.Warn("background.cache.invalidate_failed", map[string]any{"error": err})
	}
}

func (s *Service) finish(span trace.Span, op string, err error) {
	s.Metrics.ObserveOp(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
