package state

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/locallink/locallink-backend/pkg/blobstore"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/logger"
	"go.uber.org/multierr"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type flakyStore struct {
	*blobstore.Memory
	failSet bool
	failGet bool
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("connection refused")
	}
	return f.Memory.Get(ctx, key)
}

func newMirror(t *testing.T, store blobstore.Store, buf *bytes.Buffer) *Mirror {
	t.Helper()
	var logg *logger.Logger
	if buf != nil {
		logg = logger.New(logger.Options{ServiceName: "test", Output: buf})
	}
	m, err := NewMirror(store, logg, nil)
	if err != nil {
		t.Fatalf("new mirror: %v", err)
	}
	return m
}

func defaults() []item {
	return []item{{ID: "1", Name: "seed"}}
}

func TestLoadCollectionMissingKeyUsesDefaults(t *testing.T) {
	m := newMirror(t, blobstore.NewMemory(), nil)
	c, err := LoadCollection(context.Background(), m, KeyProducts, defaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Items(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestLoadCollectionMalformedBlobFallsBackAndWarns(t *testing.T) {
	store := blobstore.NewMemory()
	ctx := context.Background()
	if err := store.Set(ctx, KeyProducts, []byte("{not json")); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	buf := &bytes.Buffer{}
	m := newMirror(t, store, buf)

	c, err := LoadCollection(ctx, m, KeyProducts, defaults)
	if err != nil {
		t.Fatalf("malformed blobs must not surface, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected defaults after malformed blob")
	}
	if !strings.Contains(buf.String(), "state.malformed_blob_defaulted") {
		t.Fatalf("expected warning log, got %s", buf.String())
	}
}

func TestLoadCollectionRestoresStoredItems(t *testing.T) {
	store := blobstore.NewMemory()
	ctx := context.Background()
	if err := store.Set(ctx, KeyOrders, []byte(`[{"id":"a","name":"x"},{"id":"b","name":"y"}]`)); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	c, err := LoadCollection[item](ctx, newMirror(t, store, nil), KeyOrders, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := c.Items()
	if len(got) != 2 || got[1].ID != "b" {
		t.Fatalf("unexpected restore %+v", got)
	}
}

func TestLoadCollectionStoreUnavailable(t *testing.T) {
	store := &flakyStore{Memory: blobstore.NewMemory(), failGet: true}
	_, err := LoadCollection(context.Background(), newMirror(t, store, nil), KeyUsers, defaults)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestUpdateMirrorsWholeCollection(t *testing.T) {
	store := blobstore.NewMemory()
	ctx := context.Background()
	c, err := LoadCollection[item](ctx, newMirror(t, store, nil), KeyMessages, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, id := range []string{"m1", "m2"} {
		id := id
		if err := c.Update(ctx, func(items []item) ([]item, error) {
			return append(items, item{ID: id}), nil
		}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	reloaded, err := LoadCollection[item](ctx, newMirror(t, store, nil), KeyMessages, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Items(); len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
		t.Fatalf("round trip mismatch %+v", got)
	}
}

func TestUpdateRejectionLeavesStateUntouched(t *testing.T) {
	c, err := LoadCollection(context.Background(), newMirror(t, blobstore.NewMemory(), nil), KeyUsers, defaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := errors.New("rejected")
	err = c.Update(context.Background(), func(items []item) ([]item, error) {
		items[0].Name = "mutated"
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected rejection error, got %v", err)
	}
	if got := c.Items(); got[0].Name != "seed" {
		t.Fatalf("rejected update leaked into state: %+v", got)
	}
}

func TestMirrorFailureKeepsMemoryAndHealsOnNextSave(t *testing.T) {
	store := &flakyStore{Memory: blobstore.NewMemory(), failSet: true}
	ctx := context.Background()
	c, err := LoadCollection[item](ctx, newMirror(t, store, nil), KeyCart, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	err = c.Update(ctx, func(items []item) ([]item, error) { return append(items, item{ID: "p1"}), nil })
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("memory should keep the committed change")
	}

	store.failSet = false
	if err := c.Update(ctx, func(items []item) ([]item, error) { return append(items, item{ID: "p2"}), nil }); err != nil {
		t.Fatalf("second update: %v", err)
	}
	raw, err := store.Memory.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(string(raw), "p1") || !strings.Contains(string(raw), "p2") {
		t.Fatalf("expected healed blob, got %s", raw)
	}
}

func TestUpdateInMemorySkipsMirror(t *testing.T) {
	store := blobstore.NewMemory()
	ctx := context.Background()
	c, err := LoadCollection[item](ctx, newMirror(t, store, nil), KeyCart, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Update(ctx, func(items []item) ([]item, error) { return append(items, item{ID: "p1"}), nil }); err != nil {
		t.Fatalf("update: %v", err)
	}
	c.UpdateInMemory(func([]item) []item { return nil })

	if c.Len() != 0 {
		t.Fatalf("expected empty in-memory collection")
	}
	raw, _ := store.Get(ctx, KeyCart)
	if !strings.Contains(string(raw), "p1") {
		t.Fatalf("stored blob should be untouched, got %s", raw)
	}
}

func TestValueRoundTrip(t *testing.T) {
	store := blobstore.NewMemory()
	ctx := context.Background()
	v, err := LoadValue(ctx, newMirror(t, store, nil), KeyDarkMode, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v.Get() {
		t.Fatal("expected default false")
	}
	if err := v.Set(ctx, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	again, err := LoadValue(ctx, newMirror(t, store, nil), KeyDarkMode, false)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !again.Get() {
		t.Fatal("expected persisted true")
	}
}

func TestFlushAllCombinesErrors(t *testing.T) {
	store := &flakyStore{Memory: blobstore.NewMemory()}
	ctx := context.Background()
	m := newMirror(t, store, nil)
	a, _ := LoadCollection[item](ctx, m, KeyUsers, nil)
	b, _ := LoadValue(ctx, m, KeyDarkMode, true)

	if err := FlushAll(ctx, a, b, nil); err != nil {
		t.Fatalf("flush: %v", err)
	}
	store.failSet = true
	err := FlushAll(ctx, a, b)
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected two combined errors, got %d (%v)", got, err)
	}
}

func TestNewMirrorRequiresStore(t *testing.T) {
	if _, err := NewMirror(nil, nil, nil); err == nil {
		t.Fatal("expected error without store")
	}
}
