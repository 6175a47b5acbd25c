package mockapi

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"bazaarku/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Collection names double as the route prefixes of the backend.
const (
	Banners        = "banners"
	Events         = "events"
	Categories     = "event-categories"
	Areas          = "areas"
	Booths         = "booths"
	Vendors        = "vendors"
	Rentals        = "rentals"
	RentalProducts = "rental-products"
	Ratings        = "rating"
)

var collectionNames = []string{Banners, Events, Categories, Areas, Booths, Vendors, Rentals, RentalProducts, Ratings}

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUnknownTable = errors.New("unknown collection")
	errNotFound     = errors.New("not found")
)

// Record is a schemaless JSON object as the backend stores it.
type Record map[string]any

func (r Record) ID() int64 { return toInt64(r["id"]) }

func (r Record) Int(key string) int64 { return toInt64(r[key]) }

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return strings.Trim(string(b), `"`)
	}
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return toInt64(v) != 0
	}
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return int64(f)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	default:
		return 0
	}
}

type collection struct {
	nextID int64
	rows   map[int64]Record
}

type account struct {
	profile   models.UserProfile
	hash      []byte
	createdAt time.Time
}

// Store is the in-memory database of the mock backend. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	accounts    map[int64]*account
	byEmail     map[string]int64
	nextUserID  int64
	revoked     map[string]bool
	hashCost    int
	now         func() time.Time
}

func NewStore() *Store {
	s := &Store{
		collections: make(map[string]*collection),
		accounts:    make(map[int64]*account),
		byEmail:     make(map[string]int64),
		revoked:     make(map[string]bool),
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, name := range collectionNames {
		s.collections[name] = &collection{rows: make(map[int64]Record)}
	}
	return s
}

func (s *Store) table(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, ErrUnknownTable
	}
	return c, nil
}

// List returns copies of the rows matching keep, ordered by id.
func (s *Store) List(name string, keep func(Record) bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.table(name)
	if err != nil {
		return nil
	}
	out := make([]Record, 0, len(c.rows))
	for _, rec := range c.rows {
		if keep == nil || keep(rec) {
			out = append(out, rec.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *Store) Get(name string, id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.table(name)
	if err != nil {
		return nil, false
	}
	rec, ok := c.rows[id]
	if !ok {
		return nil, false
	}
	return rec.clone(), true
}

func (s *Store) Create(name string, fields Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.table(name)
	if err != nil {
		return nil, err
	}
	c.nextID++
	rec := fields.clone()
	rec["id"] = c.nextID
	rec["created_at"] = s.now().UTC().Format(time.RFC3339)
	c.rows[c.nextID] = rec
	return rec.clone(), nil
}

// Update merges fields into the row. The id and created_at are immutable.
func (s *Store) Update(name string, id int64, fields Record) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.table(name)
	if err != nil {
		return nil, false
	}
	rec, ok := c.rows[id]
	if !ok {
		return nil, false
	}
	for k, v := range fields {
		if k == "id" || k == "created_at" {
			continue
		}
		rec[k] = v
	}
	rec["updated_at"] = s.now().UTC().Format(time.RFC3339)
	return rec.clone(), true
}

func (s *Store) Delete(name string, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.table(name)
	if err != nil {
		return false
	}
	if _, ok := c.rows[id]; !ok {
		return false
	}
	delete(c.rows, id)
	return true
}

// CreateAccount registers a user with a bcrypt-hashed password.
func (s *Store) CreateAccount(profile models.UserProfile, password string) (models.UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return models.UserProfile{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return models.UserProfile{}, err
	}

	s.nextUserID++
	profile.ID = s.nextUserID
	profile.Email = email
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}
	s.accounts[profile.ID] = &account{profile: profile, hash: hash, createdAt: s.now().UTC()}
	s.byEmail[email] = profile.ID
	return profile, nil
}

// Authenticate checks credentials and returns the matching profile.
func (s *Store) Authenticate(email, password string) (models.UserProfile, bool) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	var acc *account
	if ok {
		acc = s.accounts[id]
	}
	s.mu.RUnlock()

	if acc == nil {
		return models.UserProfile{}, false
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return models.UserProfile{}, false
	}
	return acc.profile, true
}

func (s *Store) Account(id int64) (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.UserProfile{}, false
	}
	return acc.profile, true
}

func adminRow(acc *account) models.AdminUser {
	p := acc.profile
	return models.AdminUser{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
		Phone:     p.Phone,
		CreatedAt: acc.createdAt.Format(time.RFC3339),
	}
}

// Accounts lists users matching keep, ordered by id.
func (s *Store) Accounts(keep func(models.UserProfile) bool) []models.AdminUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AdminUser, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if keep == nil || keep(acc.profile) {
			out = append(out, adminRow(acc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) UpdateAccount(id int64, in models.AdminUserUpdate) (models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return models.AdminUser{}, errNotFound
	}
	p := &acc.profile
	if in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if other, taken := s.byEmail[email]; taken && other != id {
			return models.AdminUser{}, ErrEmailTaken
		}
		delete(s.byEmail, p.Email)
		s.byEmail[email] = id
		p.Email = email
	}
	if in.FirstName != "" {
		p.FirstName = in.FirstName
	}
	if in.LastName != "" {
		p.LastName = in.LastName
	}
	if in.Role != "" {
		p.Role = in.Role
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	return adminRow(acc), nil
}

func (s *Store) DeleteAccount(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return false
	}
	delete(s.byEmail, acc.profile.Email)
	delete(s.accounts, id)
	return true
}

func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

func (s *Store) Revoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked[token]
}

// decodeRecord converts a stored row into a typed model.
func decodeRecord[T any](rec Record) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
