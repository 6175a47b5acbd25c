package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bazaarku/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeSource struct {
	events  []models.Event
	ratings []models.Rating
	users   []models.AdminUser
	booths  []models.Booth
	err     error
}

func (f fakeSource) AllEvents(context.Context) ([]models.Event, error)    { return f.events, f.err }
func (f fakeSource) AllRatings(context.Context) ([]models.Rating, error)  { return f.ratings, f.err }
func (f fakeSource) AllUsers(context.Context) ([]models.AdminUser, error) { return f.users, f.err }
func (f fakeSource) AllBooths(context.Context) ([]models.Booth, error)    { return f.booths, f.err }

func newTestExporter(t *testing.T, src Source) *Exporter {
	t.Helper()
	e := NewExporter(src, filepath.Join(t.TempDir(), "exports"), nil)
	e.now = func() time.Time { return time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC) }
	return e
}

func TestExportEvents(t *testing.T) {
	src := fakeSource{events: []models.Event{{
		ID: 1, Name: "Jakarta Fair", Slot: 3,
		Booths: []models.Booth{{Status: models.BoothApproved}, {Status: models.BoothPending}},
	}}}
	e := newTestExporter(t, src)

	path, err := e.Export(context.Background(), TableEvents)
	require.NoError(t, err)
	assert.Equal(t, "events_20260504_103000.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Events"}, f.GetSheetList())
	name, _ := f.GetCellValue("Events", "B2")
	assert.Equal(t, "Jakarta Fair", name)
	accepted, _ := f.GetCellValue("Events", "H2")
	assert.Equal(t, "1", accepted)
	available, _ := f.GetCellValue("Events", "I2")
	assert.Equal(t, "2", available)
}

func TestExportRatingsSummary(t *testing.T) {
	src := fakeSource{ratings: []models.Rating{
		{ID: 1, EventID: 2, RatingStar: 4},
		{ID: 2, EventID: 2, RatingStar: 2},
		{ID: 3, EventID: 1, RatingStar: 5},
	}}
	path, err := newTestExporter(t, src).Export(context.Background(), TableRatings)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "1", "5"}, rows[1])
	assert.Equal(t, []string{"2", "2", "3"}, rows[2])
}

func TestExportUsersAndBooths(t *testing.T) {
	src := fakeSource{
		users:  []models.AdminUser{{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}},
		booths: []models.Booth{{ID: 9, EventID: 2, Status: models.BoothRejected}},
	}
	e := newTestExporter(t, src)

	path, err := e.Export(context.Background(), TableUsers)
	require.NoError(t, err)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	email, _ := f.GetCellValue("Users", "D2")
	assert.Equal(t, "admin@example.com", email)
	require.NoError(t, f.Close())

	path, err = e.Export(context.Background(), TableBooths)
	require.NoError(t, err)
	f, err = excelize.OpenFile(path)
	require.NoError(t, err)
	status, _ := f.GetCellValue("Booths", "E2")
	assert.Equal(t, models.BoothRejected, status)
	require.NoError(t, f.Close())
}

func TestExportErrors(t *testing.T) {
	e := newTestExporter(t, fakeSource{err: errors.New("backend down")})

	_, err := e.Export(context.Background(), "vendors")
	assert.ErrorContains(t, err, "unknown table")

	_, err = e.Export(context.Background(), TableEvents)
	assert.ErrorContains(t, err, "backend down")
}
