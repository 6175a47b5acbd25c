package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bazaarku/internal/eligibility"
	"bazaarku/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20

// Multipart values arrive as strings; these keys are stored as numbers.
var numericFields = map[string]bool{
	"id": true, "user_id": true, "event_id": true, "vendor_id": true,
	"area_id": true, "category_id": true, "rental_id": true, "slot": true,
	"price": true, "stock": true, "rating_star": true, "sort_order": true,
}

var requiredFields = map[string][]string{
	Banners:        {"title"},
	Events:         {"name", "start_date", "end_date"},
	Categories:     {"name"},
	Areas:          {"name"},
	Booths:         {"event_id"},
	Vendors:        {"name"},
	Rentals:        {"name"},
	RentalProducts: {"rental_id", "name"},
	Ratings:        {"event_id", "rating_star"},
}

var searchFields = []string{"name", "title", "email", "review", "description"}

type filterFunc func(r *http.Request, rec Record) bool

type prepareFunc func(r *http.Request, fields Record)

func ownedByCaller(r *http.Request, rec Record) bool {
	p, ok := userFrom(r.Context())
	return ok && rec.Int("user_id") == p.ID
}

// stampOwner assigns the record to the caller unless an admin named an owner.
func stampOwner(r *http.Request, fields Record) {
	p, ok := userFrom(r.Context())
	if !ok {
		return
	}
	if p.IsAdmin() && fields.Int("user_id") != 0 {
		return
	}
	fields["user_id"] = p.ID
}

func (s *Server) list(name string, keep filterFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows := s.store.List(name, func(rec Record) bool {
			return keep == nil || keep(r, rec)
		})
		rows = searchRecords(rows, r.URL.Query().Get("search"))
		page, pg := paginate(rows, r.URL.Query())
		writeList(w, page, pg)
	}
}

func (s *Server) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		rec, found := s.store.Get(name, id)
		if !found {
			writeError(w, http.StatusNotFound, name+" not found")
			return
		}
		writeData(w, http.StatusOK, rec)
	}
}

func (s *Server) create(name string, prepare prepareFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := readFields(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		delete(fields, "id")
		if prepare != nil {
			prepare(r, fields)
		}
		if missing := missingField(name, fields); missing != "" {
			writeError(w, http.StatusBadRequest, missing+" is required")
			return
		}
		rec, err := s.store.Create(name, fields)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusCreated, rec)
	}
}

// update merges the request fields into an existing row. With owned set,
// only the owner or an admin may change it.
func (s *Server) update(name string, owned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		rec, found := s.store.Get(name, id)
		if !found {
			writeError(w, http.StatusNotFound, name+" not found")
			return
		}
		if owned && !ownerOrAdmin(r.Context(), rec) {
			writeError(w, http.StatusForbidden, "not allowed to modify this "+name)
			return
		}
		fields, err := readFields(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if p, _ := userFrom(r.Context()); !p.IsAdmin() {
			delete(fields, "user_id")
		}
		updated, _ := s.store.Update(name, id, fields)
		writeData(w, http.StatusOK, updated)
	}
}

func (s *Server) remove(name string, owned bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		rec, found := s.store.Get(name, id)
		if !found {
			writeError(w, http.StatusNotFound, name+" not found")
			return
		}
		if owned && !ownerOrAdmin(r.Context(), rec) {
			writeError(w, http.StatusForbidden, "not allowed to delete this "+name)
			return
		}
		s.store.Delete(name, id)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": name + " deleted"})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	profile, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		// 401 is reserved for dead sessions; the client treats it as expiry.
		writeError(w, http.StatusBadRequest, "invalid email or password")
		return
	}
	s.writeSession(w, http.StatusOK, profile)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case strings.TrimSpace(req.FirstName) == "":
		writeError(w, http.StatusBadRequest, "first_name is required")
		return
	case strings.TrimSpace(req.Email) == "":
		writeError(w, http.StatusBadRequest, "email is required")
		return
	case len(req.Password) < 6:
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	profile, err := s.store.CreateAccount(models.UserProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeSession(w, http.StatusCreated, profile)
}

func (s *Server) writeSession(w http.ResponseWriter, status int, profile models.UserProfile) {
	token, err := s.tokens.Issue(profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeData(w, status, map[string]any{"token": token, "user": profile})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := userFrom(r.Context())
	writeData(w, http.StatusOK, p)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Revoke(bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "logged out"})
}

// handleGetEvent returns the event with its booths embedded.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, found := s.store.Get(Events, id)
	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	rec["booths"] = s.store.List(Booths, func(b Record) bool { return b.Int("event_id") == id })
	writeData(w, http.StatusOK, rec)
}

func (s *Server) handleUserBooths(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	caller, _ := userFrom(r.Context())
	if caller.ID != userID && !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "not allowed to view these booths")
		return
	}
	rows := s.store.List(Booths, func(b Record) bool { return b.Int("user_id") == userID })
	writeData(w, http.StatusOK, rows)
}

func (s *Server) handleCreateBooth(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	eventID := fields.Int("event_id")
	if eventID == 0 {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}
	if _, found := s.store.Get(Events, eventID); !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	caller, _ := userFrom(r.Context())
	delete(fields, "id")
	fields["user_id"] = caller.ID
	fields["status"] = models.BoothPending
	rec, err := s.store.Create(Booths, fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, rec)
}

// handleBoothStatus moves a booth between states. Approval is refused once
// the event has no free slot left.
func (s *Server) handleBoothStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := strings.ToUpper(fields.String("status"))
	switch status {
	case models.BoothPending, models.BoothApproved, models.BoothRejected:
	default:
		writeError(w, http.StatusBadRequest, "status must be PENDING, APPROVED or REJECTED")
		return
	}

	s.approveMu.Lock()
	defer s.approveMu.Unlock()

	booth, found := s.store.Get(Booths, id)
	if !found {
		writeError(w, http.StatusNotFound, "booth not found")
		return
	}
	if status == models.BoothApproved && booth.String("status") != models.BoothApproved {
		eventID := booth.Int("event_id")
		event, found := s.store.Get(Events, eventID)
		if !found {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		accepted := eligibility.AcceptedBooths(eventID, s.eventBooths(eventID))
		if eligibility.AvailableBooths(int(event.Int("slot")), accepted) == 0 {
			writeError(w, http.StatusConflict, "no booths available for this event")
			return
		}
	}
	updated, _ := s.store.Update(Booths, id, Record{"status": status})
	writeData(w, http.StatusOK, updated)
}

func (s *Server) eventBooths(eventID int64) []models.Booth {
	rows := s.store.List(Booths, func(b Record) bool { return b.Int("event_id") == eventID })
	out := make([]models.Booth, 0, len(rows))
	for _, row := range rows {
		b, err := decodeRecord[models.Booth](row)
		if err != nil {
			s.logger.Warn().Err(err).Int64("booth_id", row.ID()).Msg("skip undecodable booth")
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *Server) handleVendorUsers(w http.ResponseWriter, r *http.Request) {
	users := s.store.Accounts(func(p models.UserProfile) bool {
		return strings.EqualFold(p.Role, models.RoleVendor)
	})
	writeData(w, http.StatusOK, users)
}

func (s *Server) handleRentalsWithProducts(w http.ResponseWriter, r *http.Request) {
	rentals := s.store.List(Rentals, nil)
	for _, rental := range rentals {
		id := rental.ID()
		rental["products"] = s.store.List(RentalProducts, func(p Record) bool { return p.Int("rental_id") == id })
	}
	writeData(w, http.StatusOK, rentals)
}

func (s *Server) handleEventRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rows := s.store.List(Ratings, func(rec Record) bool { return rec.Int("event_id") == id })
	writeData(w, http.StatusOK, rows)
}

// handleCreateRating stores a review. The per-booth review quota is enforced
// by the client.
func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	star := fields.Int("rating_star")
	if star < models.MinRatingStar || star > models.MaxRatingStar {
		writeError(w, http.StatusBadRequest, "rating_star must be between 1 and 5")
		return
	}
	if _, found := s.store.Get(Events, fields.Int("event_id")); !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	caller, _ := userFrom(r.Context())
	delete(fields, "id")
	fields["user_id"] = caller.ID
	if strings.TrimSpace(fields.String("name")) == "" {
		fields["name"] = caller.FullName()
	}
	rec, err := s.store.Create(Ratings, fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, rec)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	users := s.store.Accounts(func(p models.UserProfile) bool {
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.FullName()), term) ||
			strings.Contains(strings.ToLower(p.Email), term)
	})
	page, pg := paginate(users, r.URL.Query())
	writeList(w, page, pg)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.AdminUserUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch strings.ToLower(in.Role) {
	case "", models.RoleAdmin, models.RoleVendor, models.RoleUser:
	default:
		writeError(w, http.StatusBadRequest, "unknown role "+in.Role)
		return
	}
	user, err := s.store.UpdateAccount(id, in)
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeData(w, http.StatusOK, user)
	}
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if caller, _ := userFrom(r.Context()); caller.ID == id {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	if !s.store.DeleteAccount(id) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "user deleted"})
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return id, true
}

// readFields reads a JSON or multipart body into a Record. Uploaded files
// are not kept; each file field F becomes an F_url pointing at /uploads.
func readFields(r *http.Request) (Record, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, errors.New("invalid multipart body")
		}
		fields := Record{}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = formValue(key, values[0])
			}
		}
		for key, files := range r.MultipartForm.File {
			if len(files) > 0 {
				fields[key+"_url"] = "/uploads/" + uuid.NewString() + "-" + files[0].Filename
			}
		}
		return fields, nil
	}

	fields := Record{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid request body")
	}
	return fields, nil
}

func formValue(key, value string) any {
	switch {
	case numericFields[key]:
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return json.Number(value)
		}
	case key == "is_active":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}

func missingField(name string, fields Record) string {
	for _, key := range requiredFields[name] {
		v, ok := fields[key]
		if !ok || v == nil || strings.TrimSpace(fields.String(key)) == "" {
			return key
		}
	}
	return ""
}

func searchRecords(rows []Record, term string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := rows[:0]
	for _, rec := range rows {
		for _, key := range searchFields {
			if strings.Contains(strings.ToLower(rec.String(key)), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// paginate slices items by the page/limit query. Without either parameter
// the whole list is returned and no pagination block is sent.
func paginate[T any](items []T, q url.Values) ([]T, *models.Pagination) {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page <= 0 && limit <= 0 {
		return items, nil
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	total := len(items)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return items[start:end], &models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

func writeList[T any](w http.ResponseWriter, items []T, pg *models.Pagination) {
	if items == nil {
		items = []T{}
	}
	body := map[string]any{"success": true, "data": items}
	if pg != nil {
		body["pagination"] = pg
	}
	writeJSON(w, http.StatusOK, body)
}
