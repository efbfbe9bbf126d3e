package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/VanshChitransh/ConsultabidV1/internal/model"
)

type fakeObjectStore struct {
	objects map[string][]byte
	removed []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) UploadObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return "http://store/" + key, nil
}

func (f *fakeObjectStore) GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return io.NopCloser(strings.NewReader(string(data))), int64(len(data)), nil
}

func (f *fakeObjectStore) RemoveObject(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeObjectStore) ObjectKey(fileURL string) string {
	return strings.TrimPrefix(fileURL, "http://store/")
}

func TestFileList_DerivedStatuses(t *testing.T) {
	uploads := newFakeUploadRepo(
		testUpload(1, 7),
		testUpload(2, 7),
		testUpload(3, 7),
		testUpload(4, 7),
	)
	estimates := newFakeEstimateRepo(uploads)
	svc := NewFileService(uploads, estimates, newFakeObjectStore())

	ctx := context.Background()
	u1, _ := uploads.GetByIDAndUser(ctx, 1, 7)
	u2, _ := uploads.GetByIDAndUser(ctx, 2, 7)
	u3, _ := uploads.GetByIDAndUser(ctx, 3, 7)

	// 1: processing, 2: failed, 3: completed, 4: no estimate -> pending
	now := time.Now()
	if _, err := estimates.UpsertProcessing(ctx, 7, u1, now); err != nil {
		t.Fatal(err)
	}
	est2, _ := estimates.UpsertProcessing(ctx, 7, u2, now)
	estimates.Fail(ctx, est2.ID, "boom")
	est3, _ := estimates.UpsertProcessing(ctx, 7, u3, now)
	estimates.Complete(ctx, est3.ID, 3, "http://store/result.json", nil, nil, now)

	items, err := svc.List(ctx, 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	byID := make(map[uint]string, len(items))
	for _, item := range items {
		byID[item.ID] = item.Status
	}
	want := map[uint]string{
		1: model.StatusProcessing,
		2: model.StatusFailed,
		3: model.StatusCompleted,
		4: model.StatusPending,
	}
	for id, status := range want {
		if byID[id] != status {
			t.Fatalf("upload %d: expected status %s, got %s", id, status, byID[id])
		}
	}
}

func TestFileList_OwnershipIsolation(t *testing.T) {
	uploads := newFakeUploadRepo(testUpload(1, 7), testUpload(2, 8))
	estimates := newFakeEstimateRepo(uploads)
	svc := NewFileService(uploads, estimates, newFakeObjectStore())

	items, err := svc.List(context.Background(), 7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("expected only user 7's upload, got %+v", items)
	}
}

func TestFileDelete_RemovesObjectAndRows(t *testing.T) {
	store := newFakeObjectStore()
	store.objects["uploads/1/abc.pdf"] = []byte("pdf")

	upload := testUpload(1, 7)
	upload.FileURL = "http://store/uploads/1/abc.pdf"
	uploads := newFakeUploadRepo(upload)
	estimates := newFakeEstimateRepo(uploads)
	estimates.UpsertProcessing(context.Background(), 7, upload, time.Now())

	svc := NewFileService(uploads, estimates, store)
	if err := svc.Delete(context.Background(), 7, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(store.removed) != 1 || store.removed[0] != "uploads/1/abc.pdf" {
		t.Fatalf("expected object removed, got %v", store.removed)
	}
	if estimates.rowCount() != 0 {
		t.Fatal("expected estimate row deleted")
	}
	if _, err := uploads.GetByIDAndUser(context.Background(), 1, 7); err == nil {
		t.Fatal("expected upload row deleted")
	}
}

func TestFileDelete_ForeignUploadNotFound(t *testing.T) {
	uploads := newFakeUploadRepo(testUpload(1, 7))
	svc := NewFileService(uploads, newFakeEstimateRepo(uploads), newFakeObjectStore())

	if err := svc.Delete(context.Background(), 99, 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
