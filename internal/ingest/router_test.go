package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/extract"
	"github.com/sculptbody/cierre-backend/internal/localcache"
)

type fakeProfessionals struct {
	upserts []string
	fail    bool
}

func (f *fakeProfessionals) Upsert(_ context.Context, name, branchID string) (*entity.Professional, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	f.upserts = append(f.upserts, name)
	return &entity.Professional{ID: "prof-1", Name: name, BranchID: branchID}, nil
}

// fakeReports keys rows by (profesional_id, fecha_reporte) the way the real
// repository does, so the update-vs-insert distinction is observable.
type fakeReports struct {
	byKey   map[string]string
	rows    map[string]*entity.SalesReport
	nextID  int
	lines   map[string][]entity.ServiceLine
	listed  []entity.SalesReport
	listErr error
}

func (f *fakeReports) UpsertByNaturalKey(_ context.Context, rep *entity.SalesReport) (string, bool, error) {
	if f.byKey == nil {
		f.byKey = map[string]string{}
		f.rows = map[string]*entity.SalesReport{}
	}
	key := rep.ProfessionalID + "|" + rep.ReportDate
	clone := *rep
	if id, ok := f.byKey[key]; ok {
		f.rows[id] = &clone
		return id, true, nil
	}
	f.nextID++
	id := fmt.Sprintf("rep-%d", f.nextID)
	f.byKey[key] = id
	f.rows[id] = &clone
	return id, false, nil
}

func (f *fakeReports) Insert(_ context.Context, rep *entity.SalesReport) (string, error) {
	f.nextID++
	id := fmt.Sprintf("rep-%d", f.nextID)
	if f.rows == nil {
		f.rows = map[string]*entity.SalesReport{}
	}
	clone := *rep
	f.rows[id] = &clone
	return id, nil
}

func (f *fakeReports) InsertServiceLines(_ context.Context, reportID string, lines []entity.ServiceLine) error {
	if f.lines == nil {
		f.lines = map[string][]entity.ServiceLine{}
	}
	f.lines[reportID] = append(f.lines[reportID], lines...)
	return nil
}

func (f *fakeReports) ListByMonth(_ context.Context, _ string) ([]entity.SalesReport, error) {
	return f.listed, f.listErr
}

func (f *fakeReports) Delete(_ context.Context, _ string) error { return nil }

type fakeObjects struct {
	uploads int
	fail    bool
}

func (f *fakeObjects) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	f.uploads++
	return "https://storage.googleapis.com/test-bucket/reportes/" + key, nil
}

func sampleExtract() *extract.Report {
	return &extract.Report{
		ProfessionalName: "Ana Pérez",
		TotalSales:       60000,
		Services: []extract.Service{
			{Name: "Masaje reductor", Quantity: 2, UnitPrice: 30000, Subtotal: 60000},
		},
	}
}

func sampleImage() extract.Image {
	return extract.Image{FileName: "junio.jpg", MIMEType: "image/jpeg", Data: []byte{0xFF, 0xD8}}
}

func TestPersistHostedComputesNetPay(t *testing.T) {
	profs := &fakeProfessionals{}
	reps := &fakeReports{}
	objs := &fakeObjects{}
	router := NewRouter(profs, reps, objs, localcache.NewMemory(), nil)

	branch := entity.Branch{ID: "7b0c1f34-0000-0000-0000-000000000001", Name: "San Miguel", CommissionPercent: 2.0}
	rep, err := router.Persist(context.Background(), sampleExtract(), sampleImage(), branch, "2025-06")
	require.NoError(t, err)

	assert.Equal(t, int64(60000), rep.GrossSales)
	assert.Equal(t, int64(58800), rep.NetPay)
	assert.Equal(t, "2025-06-30", rep.ReportDate)
	assert.Equal(t, constants.ReportStatusProcessed, rep.Status)
	assert.Equal(t, []string{"Ana Pérez"}, profs.upserts)
	assert.Equal(t, 1, objs.uploads)
	assert.True(t, strings.HasPrefix(rep.ImageURL, "https://storage.googleapis.com/"))
	require.Len(t, reps.lines["rep-1"], 1)
	assert.Equal(t, "rep-1", rep.Services[0].ReportID)
}

func TestPersistHostedSurvivesUploadFailure(t *testing.T) {
	router := NewRouter(&fakeProfessionals{}, &fakeReports{}, &fakeObjects{fail: true}, localcache.NewMemory(), nil)

	branch := entity.Branch{ID: "7b0c1f34-0000-0000-0000-000000000001", Name: "Las Condes", CommissionPercent: 2.0}
	rep, err := router.Persist(context.Background(), sampleExtract(), sampleImage(), branch, "2025-06")
	require.NoError(t, err)
	assert.Empty(t, rep.ImageURL)
}

func TestPersistDemoPrependsToCache(t *testing.T) {
	cache := localcache.NewMemory()
	router := NewRouter(&fakeProfessionals{}, &fakeReports{}, &fakeObjects{}, cache, nil)
	branch := entity.Branch{ID: "suc-5", Name: "Hendaya", CommissionPercent: 2.5}

	first := sampleExtract()
	first.ProfessionalName = "Primera"
	_, err := router.Persist(context.Background(), first, sampleImage(), branch, "2025-06")
	require.NoError(t, err)

	second := sampleExtract()
	second.ProfessionalName = "Segunda"
	rep, err := router.Persist(context.Background(), second, sampleImage(), branch, "2025-06")
	require.NoError(t, err)

	assert.Equal(t, constants.ReportStatusDemo, rep.Status)
	assert.True(t, strings.HasPrefix(rep.ProfessionalID, constants.DemoProfessionalPrefix))

	got, err := cache.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Segunda", got[0].Professional.Name)
	assert.Equal(t, "Primera", got[1].Professional.Name)
	// 2.5% commission branch
	assert.Equal(t, int64(58500), got[0].NetPay)
}

func TestPersistKeepsExtractedReportDate(t *testing.T) {
	reps := &fakeReports{}
	router := NewRouter(&fakeProfessionals{}, reps, &fakeObjects{}, localcache.NewMemory(), nil)
	branch := entity.Branch{ID: "7b0c1f34-0000-0000-0000-000000000001", Name: "San Miguel", CommissionPercent: 2.0}

	dated := sampleExtract()
	dated.ReportDate = "2025-06-15"
	rep, err := router.Persist(context.Background(), dated, sampleImage(), branch, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", rep.ReportDate)

	// demo path honors it too
	cache := localcache.NewMemory()
	demoRouter := NewRouter(&fakeProfessionals{}, reps, &fakeObjects{}, cache, nil)
	demoRep, err := demoRouter.Persist(context.Background(), dated, sampleImage(),
		entity.Branch{ID: "suc-1", Name: "San Miguel", CommissionPercent: 2.0}, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", demoRep.ReportDate)
}

func TestPersistTwiceUpdatesSingleRow(t *testing.T) {
	reps := &fakeReports{}
	router := NewRouter(&fakeProfessionals{}, reps, &fakeObjects{}, localcache.NewMemory(), nil)
	branch := entity.Branch{ID: "7b0c1f34-0000-0000-0000-000000000001", Name: "San Miguel", CommissionPercent: 2.0}

	_, err := router.Persist(context.Background(), sampleExtract(), sampleImage(), branch, "2025-06")
	require.NoError(t, err)

	second := sampleExtract()
	second.TotalSales = 90000
	second.Services = []extract.Service{
		{Name: "Limpieza facial", Quantity: 3, UnitPrice: 30000, Subtotal: 90000},
	}
	rep, err := router.Persist(context.Background(), second, sampleImage(), branch, "2025-06")
	require.NoError(t, err)

	// same (professional, date): one row, reflecting the second save
	require.Len(t, reps.rows, 1)
	saved := reps.rows[rep.ID]
	assert.Equal(t, int64(90000), saved.GrossSales)
	assert.Equal(t, int64(88200), saved.NetPay)
	// line items from the first save are never removed on update
	assert.Len(t, reps.lines[rep.ID], 2)
}

func TestPersistRejectsBadMonth(t *testing.T) {
	router := NewRouter(&fakeProfessionals{}, &fakeReports{}, &fakeObjects{}, localcache.NewMemory(), nil)
	branch := entity.Branch{ID: "suc-1", Name: "San Miguel", CommissionPercent: 2.0}
	_, err := router.Persist(context.Background(), sampleExtract(), sampleImage(), branch, "junio")
	assert.Error(t, err)
}

func TestListReportsFallsBackToCache(t *testing.T) {
	cached := entity.SalesReport{
		ID:         "local-1",
		ReportDate: "2025-06-30",
		Status:     constants.ReportStatusDemo,
	}
	cache := localcache.NewMemory(cached)
	reps := &fakeReports{listErr: errors.New("connection refused")}

	got, err := ListReports(context.Background(), reps, cache, "2025-06", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "local-1", got[0].ID)

	// month filter applies to the cached copy too
	got, err = ListReports(context.Background(), reps, cache, "2025-07", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListReportsMergesDemoFirst(t *testing.T) {
	cache := localcache.NewMemory(entity.SalesReport{ID: "local-1", ReportDate: "2025-06-30"})
	reps := &fakeReports{listed: []entity.SalesReport{{ID: "hosted-1", ReportDate: "2025-06-30"}}}

	got, err := ListReports(context.Background(), reps, cache, "2025-06", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "local-1", got[0].ID)
	assert.Equal(t, "hosted-1", got[1].ID)
}

func TestDeleteLocal(t *testing.T) {
	cache := localcache.NewMemory(
		entity.SalesReport{ID: "keep"},
		entity.SalesReport{ID: "drop"},
	)
	require.NoError(t, DeleteLocal(context.Background(), cache, "drop"))

	got, err := cache.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].ID)

	assert.Error(t, DeleteLocal(context.Background(), cache, "missing"))
}
