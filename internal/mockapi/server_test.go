package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bazaarku/internal/api"
	"bazaarku/internal/config"
	"bazaarku/internal/metrics"
	"bazaarku/internal/models"
	"bazaarku/internal/repository"
	"bazaarku/internal/service"
	"bazaarku/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "secret123"

func newTestBackend(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	store := NewStore()
	store.hashCost = bcrypt.MinCost

	cfg := config.MockConfig{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@bazaarku.local",
		AdminPassword: testPassword,
		Seed:          true,
	}
	require.NoError(t, Seed(store, cfg, time.Now()))

	srv := NewServer(cfg, store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

type clientRig struct {
	client   *api.Client
	store    *repository.MemorySessionStore
	nav      *session.RouteTracker
	sessions *service.SessionService
}

func newRig(t *testing.T, ts *httptest.Server) *clientRig {
	t.Helper()
	store := repository.NewMemorySessionStore()
	nav := session.NewRouteTracker("/events")
	flow := session.NewExpiryFlow(session.ExpiryOptions{
		Store:     store,
		Navigator: nav,
		Delay:     time.Millisecond,
	})
	client, err := api.NewClient(api.Options{BaseURL: ts.URL, Store: store, Expiry: flow})
	require.NoError(t, err)
	return &clientRig{
		client:   client,
		store:    store,
		nav:      nav,
		sessions: service.NewSessionService(client, store, flow, nil, nil),
	}
}

func (r *clientRig) login(t *testing.T, email string) *models.Session {
	t.Helper()
	sess, err := r.sessions.Login(context.Background(), email, testPassword)
	require.NoError(t, err)
	require.NotNil(t, sess.User)
	return sess
}

func TestUnknownRouteAnswersHTML(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)

	err := rig.client.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/nope"}, nil)

	var uf *api.UnexpectedResponseFormatError
	require.True(t, errors.As(err, &uf), "got %v", err)
	assert.Equal(t, http.StatusNotFound, uf.StatusCode)
	assert.Equal(t, "Cannot GET /nope", uf.Message)
}

func TestLoginStoresSession(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)

	sess := rig.login(t, "ADMIN@bazaarku.local")
	assert.True(t, sess.User.IsAdmin())

	token, err := session.Token(context.Background(), rig.store)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, token)

	profile, err := rig.client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@bazaarku.local", profile.Email)
}

func TestWrongPasswordDoesNotExpireSession(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)

	_, err := rig.sessions.Login(context.Background(), "admin@bazaarku.local", "wrong-password")
	require.Error(t, err)
	assert.False(t, api.IsSessionExpired(err))
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
	assert.Equal(t, "invalid email or password", api.UserMessage(err))
	assert.Empty(t, rig.nav.Replacements())
}

func TestExpiredTokenAnswers402(t *testing.T) {
	srv, ts := newTestBackend(t)
	rig := newRig(t, ts)
	sess := rig.login(t, SeedVendorEmail)

	srv.MarkExpired(sess.Token)

	_, err := rig.client.ListMyEvents(context.Background())
	var se *api.SessionExpiredError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusPaymentRequired, se.StatusCode)
	assert.Equal(t, api.ReasonPaymentExpired, se.Reason)

	loaded, err := session.Load(context.Background(), rig.store)
	require.NoError(t, err)
	assert.False(t, loaded.Valid())
	assert.Equal(t, []string{"/"}, rig.nav.Replacements())
}

func TestForgedTokenAnswers401(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)
	require.NoError(t, session.Save(context.Background(), rig.store, &models.Session{Token: "forged"}))

	_, err := rig.client.Profile(context.Background())
	require.True(t, api.IsSessionExpired(err), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)
	sess := rig.login(t, SeedVendorEmail)

	require.NoError(t, rig.sessions.Logout(context.Background()))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReviewFlow(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)
	sess := rig.login(t, SeedVendorEmail)
	ctx := context.Background()

	details := service.NewEventDetailService(rig.client, nil).WithRetryPolicy(api.NoRetry)
	detail, err := details.Load(ctx, 1, sess.User)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.AcceptedBooths)
	assert.Equal(t, 2, detail.AvailableBooths)
	assert.True(t, detail.Review.Eligible)
	assert.Equal(t, 1, detail.Review.Remaining)

	reviews := service.NewReviewService(details, rig.client, rig.store, nil, nil)
	rating, err := reviews.Submit(ctx, models.RatingInput{EventID: 1, RatingStar: 5, Review: "Ramai sekali"})
	require.NoError(t, err)
	assert.Equal(t, "Sari Dewi", rating.Name)
	assert.Equal(t, sess.User.ID, rating.UserID)

	_, err = reviews.Submit(ctx, models.RatingInput{EventID: 1, RatingStar: 4, Review: "Again"})
	assert.ErrorIs(t, err, service.ErrReviewNotAllowed)

	ratings, err := rig.client.ListEventRatings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ratings, 1)
}

func TestReviewRefusedBeforeEventEnds(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)
	rig.login(t, SeedVendorEmail)

	details := service.NewEventDetailService(rig.client, nil).WithRetryPolicy(api.NoRetry)
	reviews := service.NewReviewService(details, rig.client, rig.store, nil, nil)

	_, err := reviews.Submit(context.Background(), models.RatingInput{EventID: 2, RatingStar: 5, Review: "Early"})
	assert.ErrorIs(t, err, service.ErrReviewNotAllowed)
}

func TestBoothApprovalRespectsSlots(t *testing.T) {
	_, ts := newTestBackend(t)
	ctx := context.Background()

	admin := newRig(t, ts)
	admin.login(t, "admin@bazaarku.local")
	vendor := newRig(t, ts)
	vendor.login(t, SeedVendorEmail)

	event, err := admin.client.CreateEvent(ctx, models.EventInput{
		Name:      "Pasar Malam",
		StartDate: "2030-01-01T10:00:00Z",
		EndDate:   "2030-01-02T22:00:00Z",
		Slot:      1,
	}, &api.FormFile{Field: "image", FileName: "poster.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, 1, event.Slot)
	assert.True(t, strings.HasPrefix(event.ImageURL, "/uploads/"))
	assert.True(t, strings.HasSuffix(event.ImageURL, "-poster.png"))

	booths := service.NewBoothService(vendor.client, vendor.client, nil, nil)
	first, err := booths.Apply(ctx, models.BoothInput{EventID: event.ID})
	require.NoError(t, err)
	assert.Equal(t, models.BoothPending, first.Status)
	second, err := booths.Apply(ctx, models.BoothInput{EventID: event.ID})
	require.NoError(t, err)

	approved, err := admin.client.UpdateBoothStatus(ctx, first.ID, models.BoothApproved)
	require.NoError(t, err)
	assert.Equal(t, models.BoothApproved, approved.Status)

	_, err = admin.client.UpdateBoothStatus(ctx, second.ID, models.BoothApproved)
	assert.Equal(t, http.StatusConflict, api.StatusCode(err))

	_, err = booths.Apply(ctx, models.BoothInput{EventID: event.ID})
	assert.ErrorIs(t, err, service.ErrNoBoothsAvailable)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)
	rig.login(t, SeedVendorEmail)

	_, _, err := rig.client.ListUsers(context.Background(), models.ListParams{})
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))
	assert.False(t, api.IsSessionExpired(err))
}

func TestListPagingAndSearch(t *testing.T) {
	_, ts := newTestBackend(t)
	rig := newRig(t, ts)
	ctx := context.Background()

	items, pg, err := rig.client.ListEvents(ctx, models.ListParams{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, pg)
	assert.Equal(t, 2, pg.Total)
	assert.True(t, pg.HasNext())

	all, err := api.ListAll(ctx, rig.client.ListEvents, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, _, err := rig.client.ListEvents(ctx, models.ListParams{Search: "kuliner"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Festival Kuliner Nusantara", found[0].Name)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, pg := paginate(items, map[string][]string{})
	assert.Equal(t, items, page)
	assert.Nil(t, pg)

	page, pg = paginate(items, map[string][]string{"page": {"2"}, "limit": {"2"}})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, &models.Pagination{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, pg)

	page, _ = paginate(items, map[string][]string{"page": {"9"}, "limit": {"2"}})
	assert.Empty(t, page)
}

func TestFormValueConversion(t *testing.T) {
	assert.Equal(t, "12", Record{"slot": formValue("slot", "12")}.String("slot"))
	assert.Equal(t, int64(12), Record{"slot": formValue("slot", "12")}.Int("slot"))
	assert.Equal(t, true, formValue("is_active", "true"))
	assert.Equal(t, "abc", formValue("slot", "abc"))
	assert.Equal(t, "Pasar", formValue("name", "Pasar"))
}

func serverRequestCount(t *testing.T, route, method, status string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	want := map[string]string{"route": route, "method": method, "status": status}
	for _, mf := range families {
		if mf.GetName() != "bazaarku_server_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, want) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestServerRecordsRequestMetrics(t *testing.T) {
	metrics.Register()
	_, ts := newTestBackend(t)

	before := serverRequestCount(t, "/events/{id}", http.MethodGet, "2xx")

	resp, err := http.Get(ts.URL + "/events/1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return serverRequestCount(t, "/events/{id}", http.MethodGet, "2xx") == before+1
	}, time.Second, 10*time.Millisecond)
}
