// Package export writes admin tables to XLSX workbooks.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bazaarku/internal/eligibility"
	"bazaarku/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	TableEvents  = "events"
	TableRatings = "ratings"
	TableUsers   = "users"
	TableBooths  = "booths"
)

// Tables lists every exportable table.
var Tables = []string{TableEvents, TableRatings, TableUsers, TableBooths}

// Source loads complete admin tables.
type Source interface {
	AllEvents(ctx context.Context) ([]models.Event, error)
	AllRatings(ctx context.Context) ([]models.Rating, error)
	AllUsers(ctx context.Context) ([]models.AdminUser, error)
	AllBooths(ctx context.Context) ([]models.Booth, error)
}

type Exporter struct {
	source Source
	dir    string
	logger *zerolog.Logger
	now    func() time.Time
}

func NewExporter(source Source, dir string, logger *zerolog.Logger) *Exporter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Exporter{source: source, dir: dir, logger: logger, now: time.Now}
}

// Export writes one table to <dir>/<table>_<timestamp>.xlsx and returns the path.
func (e *Exporter) Export(ctx context.Context, table string) (string, error) {
	var (
		sheets []sheet
		err    error
	)
	switch table {
	case TableEvents:
		sheets, err = e.eventSheets(ctx)
	case TableRatings:
		sheets, err = e.ratingSheets(ctx)
	case TableUsers:
		sheets, err = e.userSheets(ctx)
	case TableBooths:
		sheets, err = e.boothSheets(ctx)
	default:
		return "", fmt.Errorf("unknown table %q (want one of %s)", table, strings.Join(Tables, ", "))
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	fileName := fmt.Sprintf("%s_%s.xlsx", table, e.now().Format("20060102_150405"))
	path := filepath.Join(e.dir, fileName)

	if err := writeWorkbook(path, sheets); err != nil {
		return "", err
	}
	e.logger.Info().Str("table", table).Str("file_path", path).Msg("export written")
	return path, nil
}

type sheet struct {
	name    string
	headers []string
	rows    [][]any
	widths  []float64
}

func writeWorkbook(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		index, err := f.NewSheet(sh.name)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		for col, h := range sh.headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(sh.name, cell, h)
		}
		if len(sh.headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(sh.headers), 1)
			_ = f.SetCellStyle(sh.name, "A1", last, headerStyle)
		}

		for r, row := range sh.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sh.name, r+2, err)
			}
		}

		for col, w := range sh.widths {
			name, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(sh.name, name, name, w)
		}
	}

	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) eventSheets(ctx context.Context) ([]sheet, error) {
	evs, err := e.source.AllEvents(ctx)
	if err != nil {
		return nil, err
	}
	sh := sheet{
		name:    "Events",
		headers: []string{"ID", "Name", "Location", "Start", "End", "Price", "Slots", "Accepted", "Available", "Status"},
		widths:  []float64{8, 30, 25, 20, 20, 12, 8, 10, 10, 12},
	}
	for _, ev := range evs {
		accepted := eligibility.AcceptedBooths(ev.ID, ev.Booths)
		sh.rows = append(sh.rows, []any{
			ev.ID, ev.Name, ev.Location, ev.StartDate, ev.EndDate, ev.Price,
			ev.Slot, accepted, eligibility.AvailableBooths(ev.Slot, accepted), ev.Status,
		})
	}
	return []sheet{sh}, nil
}

func (e *Exporter) ratingSheets(ctx context.Context) ([]sheet, error) {
	ratings, err := e.source.AllRatings(ctx)
	if err != nil {
		return nil, err
	}
	list := sheet{
		name:    "Ratings",
		headers: []string{"ID", "Event ID", "User ID", "Name", "Stars", "Review", "Created"},
		widths:  []float64{8, 10, 10, 25, 8, 50, 20},
	}
	byEvent := make(map[int64][]models.Rating)
	for _, r := range ratings {
		list.rows = append(list.rows, []any{r.ID, r.EventID, r.UserID, r.Name, r.RatingStar, r.Review, r.CreatedAt})
		byEvent[r.EventID] = append(byEvent[r.EventID], r)
	}

	eventIDs := make([]int64, 0, len(byEvent))
	for id := range byEvent {
		eventIDs = append(eventIDs, id)
	}
	sort.Slice(eventIDs, func(i, j int) bool { return eventIDs[i] < eventIDs[j] })

	summary := sheet{
		name:    "Summary",
		headers: []string{"Event ID", "Reviews", "Average"},
		widths:  []float64{10, 10, 10},
	}
	for _, id := range eventIDs {
		rs := byEvent[id]
		summary.rows = append(summary.rows, []any{id, len(rs), eligibility.AverageRating(rs)})
	}
	return []sheet{list, summary}, nil
}

func (e *Exporter) userSheets(ctx context.Context) ([]sheet, error) {
	users, err := e.source.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	sh := sheet{
		name:    "Users",
		headers: []string{"ID", "First name", "Last name", "Email", "Role", "Phone", "Created"},
		widths:  []float64{8, 18, 18, 30, 10, 16, 20},
	}
	for _, u := range users {
		sh.rows = append(sh.rows, []any{u.ID, u.FirstName, u.LastName, u.Email, u.Role, u.Phone, u.CreatedAt})
	}
	return []sheet{sh}, nil
}

func (e *Exporter) boothSheets(ctx context.Context) ([]sheet, error) {
	booths, err := e.source.AllBooths(ctx)
	if err != nil {
		return nil, err
	}
	sh := sheet{
		name:    "Booths",
		headers: []string{"ID", "Event ID", "User ID", "Vendor ID", "Status", "Note"},
		widths:  []float64{8, 10, 10, 10, 12, 40},
	}
	for _, b := range booths {
		sh.rows = append(sh.rows, []any{b.ID, b.EventID, b.UserID, b.VendorID, b.Status, b.Note})
	}
	return []sheet{sh}, nil
}
