package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/riskatlas/platform/pkg/common/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return repo
}

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := newTestRepo(t)
	return NewService(repo, nil, t.TempDir()), repo
}

const riskCSV = "Respondent Type,Hotspot ID,Location,Phase,Risk Score,Likelihood,Severity,Risk Level,Metric Name,Timeline\n" +
	"Community,HS1,North Ward,1,6.5,3,4,High Risk,Flooding,Q3\n" +
	"Official,HS2,South Ward,2,2.5,2,1,Low Risk,Erosion,Q4\n"

func TestRiskUploadLandsOnlyInRiskTable(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ProcessUpload(ctx, strings.NewReader(riskCSV), "risk.csv")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !resp.Success || resp.Rows != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	riskCount, _ := repo.CountRisk(ctx)
	pointCount, _ := repo.CountPoints(ctx)
	if riskCount != 2 {
		t.Errorf("expected 2 risk rows, got %d", riskCount)
	}
	if pointCount != 0 {
		t.Errorf("expected 0 point rows, got %d", pointCount)
	}
}

func TestFirstRowDecidesWholeFile(t *testing.T) {
	// Later rows may lack the indicator columns entirely; the file stays
	// risk-classified because only the first row is inspected.
	csv := "Risk Score,Hotspot ID\n5,HS1\n,\n,\n"
	svc, repo := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ProcessUpload(ctx, strings.NewReader(csv), "mixed.csv")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if resp.Rows != 3 {
		t.Fatalf("expected 3 rows processed, got %d", resp.Rows)
	}

	riskCount, _ := repo.CountRisk(ctx)
	pointCount, _ := repo.CountPoints(ctx)
	if riskCount != 3 || pointCount != 0 {
		t.Errorf("expected 3 risk / 0 point rows, got %d / %d", riskCount, pointCount)
	}
}

func TestPointUploadUsesOnlyXY(t *testing.T) {
	csv := "x,y,label\n1.5,2,ignored\nbad,3,ignored\n"
	svc, repo := newTestService(t)
	ctx := context.Background()

	resp, err := svc.ProcessUpload(ctx, strings.NewReader(csv), "points.csv")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if resp.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", resp.Rows)
	}

	points, err := repo.ListPoints(ctx)
	if err != nil {
		t.Fatalf("failed to list points: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	// Newest first: the invalid-x row was inserted last.
	if points[0].X != 0 || points[0].Y != 3 {
		t.Errorf("expected defaulted x=0 y=3 first, got %+v", points[0])
	}

	riskCount, _ := repo.CountRisk(ctx)
	if riskCount != 0 {
		t.Errorf("expected 0 risk rows, got %d", riskCount)
	}
}

func TestReuploadDoublesRowCount(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.ProcessUpload(ctx, strings.NewReader(riskCSV), "risk.csv"); err != nil {
			t.Fatalf("upload %d failed: %v", i+1, err)
		}
	}

	riskCount, _ := repo.CountRisk(ctx)
	if riskCount != 4 {
		t.Errorf("expected duplicated rows (4), got %d", riskCount)
	}
}

func TestParseErrorMidFileKeepsEarlierRows(t *testing.T) {
	csv := "x,y\n1,2\n3,4\n5\n"
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.ProcessUpload(ctx, strings.NewReader(csv), "ragged.csv")
	if !IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}

	pointCount, _ := repo.CountPoints(ctx)
	if pointCount != 2 {
		t.Errorf("expected 2 committed rows before the failure, got %d", pointCount)
	}

	uploads, err := repo.ListUploads(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	if len(uploads) != 1 || uploads[0].Status != StatusFailed {
		t.Fatalf("expected one failed upload record, got %+v", uploads)
	}
}

func TestListRiskNewestFirst(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, metric := range []string{"oldest", "middle", "newest"} {
		rec := &RiskRecord{Metric: metric, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.InsertRisk(ctx, rec); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	recs, err := repo.ListRisk(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if recs[i].Metric != want {
			t.Errorf("position %d: expected %s, got %s", i, want, recs[i].Metric)
		}
	}
}

func TestUploadAuditRecorded(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ProcessUpload(ctx, strings.NewReader(riskCSV), "risk.csv"); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	uploads, err := repo.ListUploads(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	if len(uploads) != 1 {
		t.Fatalf("expected 1 upload record, got %d", len(uploads))
	}
	rec := uploads[0]
	if rec.Kind != KindRisk || rec.Rows != 2 || rec.Status != StatusCompleted || rec.Filename != "risk.csv" {
		t.Errorf("unexpected audit record: %+v", rec)
	}
}
