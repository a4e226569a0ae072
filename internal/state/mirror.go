// Package state owns the in-memory collections of the marketplace and
// mirrors each one to the blob store after every committed change.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/locallink/locallink-backend/pkg/blobstore"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/logger"
	"github.com/locallink/locallink-backend/pkg/metrics"
)

// Blob keys, one per persisted collection.
const (
	KeyUsers    = "locallink_users"
	KeyProducts = "locallink_products"
	KeyStores   = "locallink_stores"
	KeyOrders   = "locallink_orders"
	KeyMessages = "locallink_messages"
	KeyCart     = "locallink_cart"
	KeyDarkMode = "locallink_dark_mode"
)

// Mirror serializes values into the blob store.
type Mirror struct {
	store   blobstore.Store
	logg    *logger.Logger
	metrics *metrics.MarketplaceMetrics
}

// NewMirror builds a Mirror. logg and m may be nil.
func NewMirror(store blobstore.Store, logg *logger.Logger, m *metrics.MarketplaceMetrics) (*Mirror, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Mirror{store: store, logg: logg, metrics: m}, nil
}

// Ping checks the underlying blob store.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Mirror) save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+key)
	}
	start := time.Now()
	err = m.store.Set(ctx, key, raw)
	m.metrics.ObservePersist(key, time.Since(start), err)
	if err != nil {
		m.logg.Error(m.logg.WithField(ctx, "blob_key", key), "state.persist_failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist "+key)
	}
	return nil
}

// load decodes key into dest. It reports false when the key is absent or
// holds a blob that does not decode; the latter is logged and swallowed.
func (m *Mirror) load(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, blobstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{"blob_key": key, "error": err.Error()})
		m.logg.Warn(ctx, "state.malformed_blob_defaulted")
		return false, nil
	}
	return true, nil
}

// Committed reports whether a write that returned err still took effect in
// memory: either it succeeded or only the mirror failed.
func Committed(err error) bool {
	return err == nil || pkgerrors.IsCode(err, pkgerrors.CodeDependency)
}
