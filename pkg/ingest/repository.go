package ingest

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db         *gorm.DB
	pointMu    sync.Mutex
	pointReady bool
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate creates the risk and upload tables. The point table is
// created lazily by EnsurePointTable on the first point-shaped upload.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RiskRecord{}, &UploadRecord{})
}

// EnsurePointTable memoizes success only: a failed migration is retried
// on the next point-shaped upload rather than wedging them all.
func (r *Repository) EnsurePointTable(ctx context.Context) error {
	r.pointMu.Lock()
	defer r.pointMu.Unlock()

	if r.pointReady {
		return nil
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&PointRecord{}); err != nil {
		return err
	}
	r.pointReady = true
	return nil
}

func (r *Repository) InsertRisk(ctx context.Context, rec *RiskRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) InsertPoint(ctx context.Context, rec *PointRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) ListRisk(ctx context.Context) ([]RiskRecord, error) {
	var recs []RiskRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	return recs, err
}

func (r *Repository) ListPoints(ctx context.Context) ([]PointRecord, error) {
	var recs []PointRecord
	if !r.db.Migrator().HasTable(&PointRecord{}) {
		return recs, nil
	}
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	return recs, err
}

func (r *Repository) CreateUpload(ctx context.Context, rec *UploadRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *Repository) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	var recs []UploadRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (r *Repository) CountRisk(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&RiskRecord{}).Count(&n).Error
	return n, err
}

func (r *Repository) CountPoints(ctx context.Context) (int64, error) {
	if !r.db.Migrator().HasTable(&PointRecord{}) {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&PointRecord{}).Count(&n).Error
	return n, err
}
