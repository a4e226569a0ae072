package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is a row of the kv_blobs table created by the goose migrations.
type Blob struct {
	Key       string    `gorm:"column:blob_key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Blob) TableName() string { return "kv_blobs" }

type sqlClient interface {
	DB() *gorm.DB
	Ping(ctx context.Context) error
}

// SQL keeps blobs in a relational table through gorm (sqlite or postgres).
type SQL struct {
	client sqlClient
	now    func() time.Time
}

func NewSQL(client sqlClient) (*SQL, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &SQL{client: client, now: time.Now}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var row Blob
	err := s.client.DB().WithContext(ctx).Where("blob_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select blob %s: %w", key, err)
	}
	return row.Value, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	row := Blob{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	err := s.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
