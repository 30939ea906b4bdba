package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/riskatlas/platform/pkg/common/kafka"
	"github.com/riskatlas/platform/pkg/common/logger"
	"github.com/riskatlas/platform/pkg/common/models"
	"github.com/riskatlas/platform/pkg/observability/metrics"
	"gorm.io/datatypes"
)

type Service struct {
	repo     *Repository
	producer *kafka.Producer
	tempDir  string
}

// NewService wires the upload pipeline. producer may be nil when eventing
// is disabled.
func NewService(repo *Repository, producer *kafka.Producer, tempDir string) *Service {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Service{repo: repo, producer: producer, tempDir: tempDir}
}

// ProcessUpload runs the ingestion pipeline for one uploaded file: spool
// to a temp file, classify from the first parsed row, then insert rows
// strictly sequentially while the rest of the file streams in. There is
// no transaction around the loop: a parse or insert failure mid-file
// leaves earlier rows committed and returns a server error.
func (s *Service) ProcessUpload(ctx context.Context, src io.Reader, filename string) (*models.UploadResponse, error) {
	tmpPath, err := s.spool(src)
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}
	defer s.cleanup(tmpPath)

	file, err := os.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("reopening upload: %w", err)
	}
	defer file.Close()

	rows, err := NewRowReader(file)
	if err != nil {
		metrics.IncUploadFailed()
		s.audit(ctx, filename, "", 0, nil, err)
		return nil, err
	}

	kind, inserted, err := s.insertAll(ctx, rows)
	if err != nil {
		metrics.IncUploadFailed()
		s.audit(ctx, filename, kind, inserted, rows.Header(), err)
		return nil, err
	}

	metrics.IncUploadCompleted(kind, inserted)
	s.audit(ctx, filename, kind, inserted, rows.Header(), nil)

	if s.producer != nil {
		if err := s.producer.PublishUploadEvent(ctx, "upload.completed", filename, kind, inserted); err != nil {
			logger.Log.WithError(err).Warn("upload event not published")
		}
	}

	return &models.UploadResponse{
		Success: true,
		Message: fmt.Sprintf("processed %s data", kind),
		Rows:    inserted,
	}, nil
}

// insertAll classifies the file from its first row only and inserts every
// row under that single kind. Later rows are never re-inspected even if
// their shape differs.
func (s *Service) insertAll(ctx context.Context, rows *RowReader) (string, int, error) {
	first, err := rows.Next()
	if err == io.EOF {
		return "", 0, ErrEmptyUpload
	}
	if err != nil {
		return "", 0, err
	}

	kind := DetectKind(first)
	if kind == KindPoints {
		if err := s.repo.EnsurePointTable(ctx); err != nil {
			return kind, 0, fmt.Errorf("creating point table: %w", err)
		}
	}

	inserted := 0
	row := first
	for {
		if err := s.insertRow(ctx, kind, row); err != nil {
			return kind, inserted, fmt.Errorf("inserting row %d: %w", inserted+1, err)
		}
		inserted++

		row, err = rows.Next()
		if err == io.EOF {
			return kind, inserted, nil
		}
		if err != nil {
			return kind, inserted, err
		}
	}
}

func (s *Service) insertRow(ctx context.Context, kind string, row Row) error {
	if kind == KindRisk {
		return s.repo.InsertRisk(ctx, RiskFromRow(row))
	}
	return s.repo.InsertPoint(ctx, PointFromRow(row))
}

func (s *Service) ListRisk(ctx context.Context) ([]RiskRecord, error) {
	return s.repo.ListRisk(ctx)
}

func (s *Service) ListPoints(ctx context.Context) ([]PointRecord, error) {
	return s.repo.ListPoints(ctx)
}

func (s *Service) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	return s.repo.ListUploads(ctx, limit)
}

func (s *Service) spool(src io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.tempDir, "upload-*.csv")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// cleanup deletes the temp file best-effort; a failure is logged, never
// surfaced to the uploader.
func (s *Service) cleanup(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Log.WithError(err).WithField("path", path).Warn("failed to delete temp upload file")
	}
}

func (s *Service) audit(ctx context.Context, filename, kind string, rows int, header []string, cause error) {
	rec := &UploadRecord{
		ID:       uuid.New().String(),
		Filename: filename,
		Kind:     kind,
		Rows:     rows,
		Status:   StatusCompleted,
		Metadata: datatypes.JSONMap{"columns": header},
	}
	if cause != nil {
		rec.Status = StatusFailed
		rec.Error = cause.Error()
	}
	if err := s.repo.CreateUpload(ctx, rec); err != nil {
		logger.Log.WithError(err).Warn("failed to record upload audit row")
	}
}
