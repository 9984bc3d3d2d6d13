package backgrounds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"focus-backend/internal/shared/metrics"
	"focus-backend/internal/shared/storage/object"
)

type fakeAssets struct {
	mu         sync.Mutex
	n          int
	uploads    []string
	deletes    []string
	failUpload map[string]error
	failDelete error
}

func (f *fakeAssets) Upload(ctx context.Context, b object.Binary) (object.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failUpload[b.FileName]; err != nil {
		return object.Asset{}, err
	}
	f.n++
	h := fmt.Sprintf("h%d-%s", f.n, b.FileName)
	f.uploads = append(f.uploads, h)
	return object.Asset{URL: "https://cdn.test/" + h, Handle: h}, nil
}

func (f *fakeAssets) Delete(ctx context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, handle)
	return f.failDelete
}

func (f *fakeAssets) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

type fakeCache struct {
	gen           int64
	entries       map[int64][]Background
	getErr        error
	invalidations int
}

func (c *fakeCache) Get(ctx context.Context) ([]Background, int64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	list, ok := c.entries[c.gen]
	return list, c.gen, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, gen int64, list []Background) error {
	if c.entries == nil {
		c.entries = map[int64][]Background{}
	}
	c.entries[gen] = list
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.gen++
	c.invalidations++
	return nil
}

func (c *fakeCache) current() ([]Background, bool) {
	list, ok := c.entries[c.gen]
	return list, ok
}

// snapshotHookRepo runs afterFindAll once FindAll has taken its snapshot.
type snapshotHookRepo struct {
	*MemoryRepo
	afterFindAll func()
}

func (r *snapshotHookRepo) FindAll(ctx context.Context) ([]Background, error) {
	list, err := r.MemoryRepo.FindAll(ctx)
	if hook := r.afterFindAll; hook != nil {
		r.afterFindAll = nil
		hook()
	}
	return list, err
}

// flakyRepo fails selected writes and otherwise defers to a MemoryRepo.
type flakyRepo struct {
	*MemoryRepo
	insertErr  error
	replaceErr error
}

func (r *flakyRepo) Insert(ctx context.Context, bg Background) (Background, error) {
	if r.insertErr != nil {
		return Background{}, r.insertErr
	}
	return r.MemoryRepo.Insert(ctx, bg)
}

func (r *flakyRepo) ReplaceByID(ctx context.Context, id string, bg Background) (Background, error) {
	if r.replaceErr != nil {
		return Background{}, r.replaceErr
	}
	return r.MemoryRepo.ReplaceByID(ctx, id, bg)
}

func bin(name string) *object.Binary {
	return &object.Binary{FileName: name, ContentType: "image/png", Size: 3, Reader: strings.NewReader("abc")}
}

func strPtr(s string) *string { return &s }

func typePtr(t Type) *Type { return &t }

func newTestService(t *testing.T) (*Service, *fakeAssets, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	assets := &fakeAssets{}
	return &Service{Repo: repo, Assets: assets}, assets, repo
}

func mustCreate(t *testing.T, svc *Service, in CreateInput, primary, thumb *object.Binary) Background {
	t.Helper()
	bg, err := svc.Create(context.Background(), in, primary, thumb)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return bg
}

func TestCreateImageStoresUploadedAsset(t *testing.T) {
	svc, assets, repo := newTestService(t)

	bg := mustCreate(t, svc, CreateInput{Name: "  Forest ", Type: TypeImage}, bin("forest.png"), nil)

	if bg.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if bg.Name != "Forest" {
		t.Fatalf("expected trimmed name, got %q", bg.Name)
	}
	if bg.SrcHandle != assets.uploads[0] || bg.Src != "https://cdn.test/"+assets.uploads[0] {
		t.Fatalf("unexpected asset fields: %+v", bg)
	}
	if bg.Thumbnail != "" || bg.ThumbnailHandle != "" {
		t.Fatalf("expected no thumbnail, got %+v", bg)
	}
	stored, err := repo.FindByID(context.Background(), bg.ID)
	if err != nil || stored.SrcHandle != bg.SrcHandle {
		t.Fatalf("expected stored record, got %+v err=%v", stored, err)
	}
}

func TestCreateVideoUploadsPrimaryThenThumbnail(t *testing.T) {
	svc, assets, _ := newTestService(t)

	bg := mustCreate(t, svc, CreateInput{Name: "Rain", Type: TypeVideo}, bin("rain.mp4"), bin("rain.png"))

	if len(assets.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %v", assets.uploads)
	}
	if bg.SrcHandle != "h1-rain.mp4" || bg.ThumbnailHandle != "h2-rain.png" {
		t.Fatalf("unexpected handles: %+v", bg)
	}
}

func TestCreateGradientNeedsNoUpload(t *testing.T) {
	svc, assets, _ := newTestService(t)

	bg := mustCreate(t, svc, CreateInput{Name: "Dusk", Type: TypeGradient, Style: "linear-gradient(#000,#fff)"}, nil, nil)

	if len(assets.uploads) != 0 {
		t.Fatalf("expected no uploads, got %v", assets.uploads)
	}
	if bg.Style != "linear-gradient(#000,#fff)" || bg.Src != "" {
		t.Fatalf("unexpected record: %+v", bg)
	}
}

func TestCreateValidationMakesNoNetworkCalls(t *testing.T) {
	cases := []struct {
		name    string
		in      CreateInput
		primary *object.Binary
		thumb   *object.Binary
		message string
	}{
		{"blank name", CreateInput{Name: " ", Type: TypeImage}, bin("a.png"), nil, "name is required"},
		{"bad type", CreateInput{Name: "x", Type: "pattern"}, nil, nil, "type must be one of video, image, gradient, solid"},
		{"image without primary", CreateInput{Name: "x", Type: TypeImage}, nil, nil, "primary asset required"},
		{"video without primary", CreateInput{Name: "x", Type: TypeVideo}, nil, bin("t.png"), "primary asset required"},
		{"video without thumbnail", CreateInput{Name: "x", Type: TypeVideo}, bin("v.mp4"), nil, "thumbnail required for video"},
		{"solid with primary", CreateInput{Name: "x", Type: TypeSolid}, bin("a.png"), nil, "primary asset not allowed for solid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, assets, repo := newTestService(t)
			_, err := svc.Create(context.Background(), tc.in, tc.primary, tc.thumb)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if err.Error() != tc.message {
				t.Fatalf("unexpected message %q", err.Error())
			}
			if len(assets.uploads) != 0 {
				t.Fatalf("expected no uploads, got %v", assets.uploads)
			}
			list, _ := repo.FindAll(context.Background())
			if len(list) != 0 {
				t.Fatalf("expected nothing persisted, got %d", len(list))
			}
		})
	}
}

func TestCreatePrimaryUploadFailurePersistsNothing(t *testing.T) {
	svc, assets, repo := newTestService(t)
	assets.failUpload = map[string]error{"a.png": errors.New("host down")}

	_, err := svc.Create(context.Background(), CreateInput{Name: "x", Type: TypeImage}, bin("a.png"), nil)
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	list, _ := repo.FindAll(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(list))
	}
}

func TestCreateThumbnailFailureOrphansPrimaryByDefault(t *testing.T) {
	svc, assets, repo := newTestService(t)
	assets.failUpload = map[string]error{"t.png": errors.New("host down")}

	_, err := svc.Create(context.Background(), CreateInput{Name: "x", Type: TypeVideo}, bin("v.mp4"), bin("t.png"))
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if len(assets.uploads) != 1 {
		t.Fatalf("expected primary uploaded, got %v", assets.uploads)
	}
	if d := assets.deleted(); len(d) != 0 {
		t.Fatalf("expected orphaned primary left alone, got deletes %v", d)
	}
	list, _ := repo.FindAll(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(list))
	}
}

func TestCreateThumbnailFailureRollsBackWhenEnabled(t *testing.T) {
	svc, assets, _ := newTestService(t)
	svc.RollbackPartialUploads = true
	assets.failUpload = map[string]error{"t.png": errors.New("host down")}

	_, err := svc.Create(context.Background(), CreateInput{Name: "x", Type: TypeVideo}, bin("v.mp4"), bin("t.png"))
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if d := assets.deleted(); len(d) != 1 || d[0] != "h1-v.mp4" {
		t.Fatalf("expected primary discarded, got %v", d)
	}
}

func TestCreateStoreFailureIsStorageError(t *testing.T) {
	repo := &flakyRepo{MemoryRepo: NewMemoryRepo(), insertErr: errors.New("disk full")}
	svc := &Service{Repo: repo, Assets: &fakeAssets{}}

	_, err := svc.Create(context.Background(), CreateInput{Name: "x", Type: TypeSolid, Style: "#111"}, nil, nil)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestUpdateMergesOnlyPresentFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "Old", Type: TypeGradient, Style: "s1"}, nil, nil)

	updated, err := svc.Update(context.Background(), bg.ID, Patch{Name: strPtr("New")}, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "New" || updated.Style != "s1" || updated.Type != TypeGradient {
		t.Fatalf("unexpected merge: %+v", updated)
	}
	if !updated.CreatedAt.Equal(bg.CreatedAt) {
		t.Fatalf("expected createdAt preserved")
	}
}

func TestUpdateReplacesPrimaryAndReleasesOldOnce(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeVideo}, bin("v1.mp4"), bin("t1.png"))

	updated, err := svc.Update(context.Background(), bg.ID, Patch{}, bin("v2.mp4"), nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.SrcHandle != "h3-v2.mp4" {
		t.Fatalf("expected new primary handle, got %q", updated.SrcHandle)
	}
	if updated.ThumbnailHandle != bg.ThumbnailHandle {
		t.Fatalf("expected thumbnail untouched, got %q", updated.ThumbnailHandle)
	}
	if d := assets.deleted(); len(d) != 1 || d[0] != bg.SrcHandle {
		t.Fatalf("expected old primary released once, got %v", d)
	}
}

func TestUpdateUploadFailureLeavesRecordUnchanged(t *testing.T) {
	svc, assets, repo := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeVideo}, bin("v1.mp4"), bin("t1.png"))
	assets.failUpload = map[string]error{"t2.png": errors.New("host down")}

	_, err := svc.Update(context.Background(), bg.ID, Patch{Name: strPtr("y")}, bin("v2.mp4"), bin("t2.png"))
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), bg.ID)
	if stored.Name != "x" || stored.SrcHandle != bg.SrcHandle || stored.ThumbnailHandle != bg.ThumbnailHandle {
		t.Fatalf("expected stored record unchanged, got %+v", stored)
	}
	if d := assets.deleted(); len(d) != 0 {
		t.Fatalf("expected no deletes, got %v", d)
	}
}

func TestUpdatePersistFailureKeepsOldAssets(t *testing.T) {
	repo := &flakyRepo{MemoryRepo: NewMemoryRepo()}
	assets := &fakeAssets{}
	svc := &Service{Repo: repo, Assets: assets, RollbackPartialUploads: true}
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeImage}, bin("a.png"), nil)
	repo.replaceErr = errors.New("connection reset")

	_, err := svc.Update(context.Background(), bg.ID, Patch{}, bin("b.png"), nil)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	d := assets.deleted()
	if len(d) != 1 || d[0] != "h2-b.png" {
		t.Fatalf("expected only the new upload discarded, got %v", d)
	}
}

func TestUpdateVideoRemovingThumbnailIsRejected(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeVideo}, bin("v.mp4"), bin("t.png"))

	_, err := svc.Update(context.Background(), bg.ID, Patch{Thumbnail: strPtr("")}, nil, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(assets.uploads) != 2 || len(assets.deleted()) != 0 {
		t.Fatalf("expected no further asset calls, uploads=%v deletes=%v", assets.uploads, assets.deleted())
	}
}

func TestUpdateToVideoRequiresThumbnail(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeImage}, bin("a.png"), nil)

	_, err := svc.Update(context.Background(), bg.ID, Patch{Type: typePtr(TypeVideo)}, bin("v.mp4"), nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(assets.uploads) != 1 {
		t.Fatalf("expected validation before upload, got %v", assets.uploads)
	}
}

func TestUpdateToGradientDropsPrimaryAsset(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeImage}, bin("a.png"), nil)

	updated, err := svc.Update(context.Background(), bg.ID, Patch{Type: typePtr(TypeGradient), Style: strPtr("g")}, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Src != "" || updated.SrcHandle != "" {
		t.Fatalf("expected primary dropped, got %+v", updated)
	}
	if d := assets.deleted(); len(d) != 1 || d[0] != bg.SrcHandle {
		t.Fatalf("expected dropped primary discarded, got %v", d)
	}
}

func TestUpdateExternalURLClearsHandle(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeImage}, bin("a.png"), nil)

	updated, err := svc.Update(context.Background(), bg.ID, Patch{Src: strPtr("https://example.com/b.png")}, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Src != "https://example.com/b.png" || updated.SrcHandle != "" {
		t.Fatalf("unexpected record: %+v", updated)
	}
	if d := assets.deleted(); len(d) != 1 || d[0] != bg.SrcHandle {
		t.Fatalf("expected superseded asset discarded, got %v", d)
	}

	// A later delete must not pass the external URL to the asset host.
	if _, err := svc.Remove(context.Background(), bg.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if d := assets.deleted(); len(d) != 1 {
		t.Fatalf("expected no further deletes, got %v", d)
	}
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	svc, assets, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing", Patch{Name: strPtr("x")}, bin("a.png"), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(assets.uploads) != 0 {
		t.Fatalf("expected no uploads, got %v", assets.uploads)
	}
}

func TestRemoveDeletesEveryHandleOnce(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeVideo}, bin("v.mp4"), bin("t.png"))

	res, err := svc.Remove(context.Background(), bg.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !res.Deleted || res.Message != fmt.Sprintf("Background with ID %s has been deleted.", bg.ID) {
		t.Fatalf("unexpected result: %+v", res)
	}
	d := assets.deleted()
	if len(d) != 2 || d[0] != bg.SrcHandle || d[1] != bg.ThumbnailHandle {
		t.Fatalf("unexpected deletes: %v", d)
	}

	if _, err := svc.Remove(context.Background(), bg.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
	if len(assets.deleted()) != 2 {
		t.Fatalf("expected no extra deletes")
	}
}

func TestRemoveSwallowsAssetDeleteFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, assets, repo := newTestService(t)
	svc.Metrics = metrics.MustNew(reg)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeImage}, bin("a.png"), nil)
	assets.failDelete = errors.New("host refused")

	res, err := svc.Remove(context.Background(), bg.ID)
	if err != nil || !res.Deleted {
		t.Fatalf("expected success despite asset failure, got %+v err=%v", res, err)
	}
	if _, err := repo.FindByID(context.Background(), bg.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
	got, err := testutil.GatherAndCount(reg, "focus_asset_deletes_total")
	if err != nil || got != 1 {
		t.Fatalf("expected delete metric recorded, got %d series err=%v", got, err)
	}
}

func TestRemoveGradientSkipsAssetHost(t *testing.T) {
	svc, assets, _ := newTestService(t)
	bg := mustCreate(t, svc, CreateInput{Name: "x", Type: TypeSolid, Style: "#000"}, nil, nil)

	if _, err := svc.Remove(context.Background(), bg.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if d := assets.deleted(); len(d) != 0 {
		t.Fatalf("expected no deletes, got %v", d)
	}
}

func sameRecord(a, b Background) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Type == b.Type &&
		a.Src == b.Src && a.SrcHandle == b.SrcHandle &&
		a.Thumbnail == b.Thumbnail && a.ThumbnailHandle == b.ThumbnailHandle &&
		a.Style == b.Style && a.CreatedAt.Equal(b.CreatedAt) && a.UpdatedAt.Equal(b.UpdatedAt)
}

func TestListReturnsInsertionOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	a := mustCreate(t, svc, CreateInput{Name: "a", Type: TypeSolid, Style: "#123"}, nil, nil)
	b := mustCreate(t, svc, CreateInput{Name: "b", Type: TypeVideo}, bin("b.mp4"), bin("b.png"))
	c := mustCreate(t, svc, CreateInput{Name: "c", Type: TypeGradient, Style: "linear-gradient(#000,#fff)"}, nil, nil)

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Background{a, b, c}
	if len(list) != len(want) {
		t.Fatalf("expected %d records, got %+v", len(want), list)
	}
	for i := range want {
		if !sameRecord(list[i], want[i]) {
			t.Fatalf("record %d: listed %+v, created %+v", i, list[i], want[i])
		}
	}
}

func TestListAfterCreateMatchesCreatedRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, CreateInput{Name: " Rain ", Type: TypeVideo, Style: "cover"}, bin("rain.mp4"), bin("rain.png"))

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || !sameRecord(list[0], created) {
		t.Fatalf("expected exactly the created record, got %+v want %+v", list, created)
	}
}

func TestListUsesCacheAndMutationsInvalidate(t *testing.T) {
	svc, _, _ := newTestService(t)
	cache := &fakeCache{}
	svc.Cache = cache

	mustCreate(t, svc, CreateInput{Name: "a", Type: TypeSolid}, nil, nil)
	if cache.invalidations != 1 {
		t.Fatalf("expected invalidation on create, got %d", cache.invalidations)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if cached, ok := cache.current(); !ok || len(cached) != 1 {
		t.Fatalf("expected list cached, got %+v", cache)
	}

	cache.entries[cache.gen] = []Background{{ID: "cached"}}
	list, err := svc.List(context.Background())
	if err != nil || len(list) != 1 || list[0].ID != "cached" {
		t.Fatalf("expected cached list, got %+v err=%v", list, err)
	}
}

func TestListFallsThroughOnCacheError(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{Name: "a", Type: TypeSolid}, nil, nil)
	svc.Cache = &fakeCache{getErr: errors.New("redis down")}

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("expected store result, got %+v err=%v", list, err)
	}
}

func TestListDoesNotCacheSnapshotOlderThanMutation(t *testing.T) {
	for _, tc := range []struct {
		name  string
		cache ListCache
	}{
		{"fake", &fakeCache{}},
		{"redis", newRedisCache(&fakeRedis{data: map[string]string{}}, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			repo := &snapshotHookRepo{MemoryRepo: NewMemoryRepo()}
			svc := &Service{Repo: repo, Assets: &fakeAssets{}, Cache: tc.cache}

			var created Background
			repo.afterFindAll = func() {
				created = mustCreate(t, svc, CreateInput{Name: "late", Type: TypeSolid, Style: "#fff"}, nil, nil)
			}
			first, err := svc.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(first) != 0 {
				t.Fatalf("expected snapshot taken before create, got %+v", first)
			}

			list, err := svc.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 || !sameRecord(list[0], created) {
				t.Fatalf("expected record created during the earlier read, got %+v", list)
			}
		})
	}
}

func TestListSkipsFillWhenCacheReadFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{Name: "a", Type: TypeSolid}, nil, nil)
	cache := &fakeCache{getErr: errors.New("redis down")}
	svc.Cache = cache

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("expected no fill without a generation, got %+v", cache.entries)
	}
}
