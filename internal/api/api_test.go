package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/share"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const romeText = `**Day 1: Arrival**
- Check in
- Trastevere dinner
**Day 2: Ancient Rome**
- Colosseum`

type fakeGenerator struct {
	text  string
	err   error
	prefs domain.TripPrefs
}

func (f *fakeGenerator) Generate(_ context.Context, prefs domain.TripPrefs) (string, error) {
	f.prefs = prefs
	return f.text, f.err
}

type fakeRefiner struct {
	text             string
	err              error
	current, request string
}

func (f *fakeRefiner) Refine(_ context.Context, current, request string) (string, error) {
	f.current, f.request = current, request
	return f.text, f.err
}

type fakeGeocoder struct {
	places []domain.Place
	err    error
}

func (f fakeGeocoder) Search(context.Context, string) ([]domain.Place, error) {
	return f.places, f.err
}

type fakeEvents struct {
	events []domain.Event
	err    error
	query  intelligence.EventQuery
}

func (f *fakeEvents) Suggest(_ context.Context, q intelligence.EventQuery) ([]domain.Event, error) {
	f.query = q
	return f.events, f.err
}

var fixedNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, d Deps) *httptest.Server {
	t.Helper()
	d.Now = func() time.Time { return fixedNow }
	d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestGenerate_ReturnsTextAndDays(t *testing.T) {
	gen := &fakeGenerator{text: romeText}
	srv := newTestServer(t, Deps{Generator: gen})

	resp := postJSON(t, srv.URL+"/api/itinerary", map[string]any{
		"travelPace": "relaxed",
		"tripLength": 2,
		"countries":  []string{" Italy "},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[itineraryResponse](t, resp)
	assert.Equal(t, romeText, body.Text)
	require.Len(t, body.Days, 2)
	assert.Equal(t, "Arrival", body.Days[0].Title)
	assert.Len(t, body.Days[0].Activities, 2)

	assert.Equal(t, domain.PaceRelaxed, gen.prefs.Pace)
	assert.Equal(t, []string{"Italy"}, gen.prefs.Countries)
}

func TestGenerate_InvalidInput(t *testing.T) {
	srv := newTestServer(t, Deps{Generator: &fakeGenerator{text: romeText}})

	resp := postJSON(t, srv.URL+"/api/itinerary", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/itinerary", map[string]any{"travelPace": "sprint"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, resp).Error, "pace")
}

func TestGenerate_CollaboratorFailureIs502(t *testing.T) {
	srv := newTestServer(t, Deps{Generator: &fakeGenerator{err: intelligence.ErrEmptyItinerary}})

	resp := postJSON(t, srv.URL+"/api/itinerary", map[string]any{})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, intelligence.ErrEmptyItinerary.Error(), decode[errorResponse](t, resp).Error)
}

func TestGenerate_NotConfigured(t *testing.T) {
	srv := newTestServer(t, Deps{})
	resp := postJSON(t, srv.URL+"/api/itinerary", map[string]any{})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRefine(t *testing.T) {
	ref := &fakeRefiner{text: romeText}
	srv := newTestServer(t, Deps{Refiner: ref})

	resp := postJSON(t, srv.URL+"/api/refine", refineRequest{
		CurrentItineraryText: "**Day 1: Old**\n- Nap",
		UserRequest:          "add dinner",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[itineraryResponse](t, resp).Days, 2)
	assert.Equal(t, "add dinner", ref.request)
	assert.Contains(t, ref.current, "**Day 1: Old**")
}

func TestRefine_UnparsedTextGivesEmptyDays(t *testing.T) {
	srv := newTestServer(t, Deps{Refiner: &fakeRefiner{text: "Sorry, I can't change that."}})

	resp := postJSON(t, srv.URL+"/api/refine", refineRequest{CurrentItineraryText: romeText, UserRequest: "more food"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := decode[map[string]json.RawMessage](t, resp)
	assert.JSONEq(t, `[]`, string(raw["days"]))
}

func TestRefine_EmptyRequestIs400(t *testing.T) {
	srv := newTestServer(t, Deps{Refiner: &fakeRefiner{text: romeText}})
	resp := postJSON(t, srv.URL+"/api/refine", refineRequest{CurrentItineraryText: romeText, UserRequest: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefine_FailureIs502(t *testing.T) {
	srv := newTestServer(t, Deps{Refiner: &fakeRefiner{err: errors.New("upstream timeout")}})
	resp := postJSON(t, srv.URL+"/api/refine", refineRequest{CurrentItineraryText: romeText, UserRequest: "more food"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, resp).Error, "upstream timeout")
}

func TestGeocode(t *testing.T) {
	places := []domain.Place{{Name: "Colosseum", Lat: 41.89, Lng: 12.49, Address: "Rome"}}
	srv := newTestServer(t, Deps{Geocoder: fakeGeocoder{places: places}})

	resp := get(t, srv.URL+"/api/geocode?q=colosseum")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, places, decode[[]domain.Place](t, resp))

	resp = get(t, srv.URL+"/api/geocode?q=")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]domain.Place](t, resp))
}

func TestGeocode_FailureIs502(t *testing.T) {
	srv := newTestServer(t, Deps{Geocoder: fakeGeocoder{err: errors.New("lookup down")}})
	resp := get(t, srv.URL+"/api/geocode?q=rome")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestEvents(t *testing.T) {
	ev := &fakeEvents{events: []domain.Event{{Name: "Jazz Night", Venue: "Blue Note"}}}
	srv := newTestServer(t, Deps{Events: ev})

	resp := get(t, srv.URL+"/api/events?q=Rome&date=2025-09-02")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string][]domain.Event](t, resp)
	assert.Equal(t, "Jazz Night", body["events"][0].Name)
	assert.Equal(t, intelligence.EventQuery{Location: "Rome", Date: "2025-09-02"}, ev.query)
}

func TestEvents_EdgeCases(t *testing.T) {
	srv := newTestServer(t, Deps{Events: &fakeEvents{err: errors.New("boom")}})

	resp := get(t, srv.URL+"/api/events?q=Rome&date=tomorrow")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv.URL+"/api/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[map[string][]domain.Event](t, resp)["events"])

	resp = get(t, srv.URL+"/api/events?q=Rome")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestAlternatives_DeterministicWithoutModel(t *testing.T) {
	srv := newTestServer(t, Deps{})
	resp := postJSON(t, srv.URL+"/api/alternatives", alternativesRequest{
		Activity: domain.Activity{ID: "a1", Text: "Lunch", Start: "12:00", End: "13:00"},
		DayTitle: "Rome",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[map[string][]domain.PoolItem](t, resp)["items"]
	require.NotEmpty(t, items)
	assert.Equal(t, "12:00", items[0].Start)
}

func sampleDays() []domain.Day {
	return []domain.Day{
		{ID: "d1", Title: "Arrival", Activities: []domain.Activity{
			{ID: "a1", Text: "Check in", Start: "15:00", End: "16:00"},
		}},
		{ID: "d2", Title: "Ancient Rome", Activities: []domain.Activity{
			{ID: "a2", Text: "Colosseum", Place: &domain.Place{Name: "Colosseum", Lat: 41.89, Lng: 12.49}},
		}},
	}
}

func TestExportICS(t *testing.T) {
	srv := newTestServer(t, Deps{})
	resp := postJSON(t, srv.URL+"/api/export/ics", snapshotRequest{StartDate: "2025-09-01", Days: sampleDays()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	cal := string(body)
	assert.True(t, strings.HasPrefix(cal, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(cal, "BEGIN:VEVENT"))
	assert.Contains(t, cal, "DTSTART:20250901T150000")
}

func TestExportICS_InvalidInput(t *testing.T) {
	srv := newTestServer(t, Deps{})

	resp := postJSON(t, srv.URL+"/api/export/ics", snapshotRequest{Days: sampleDays()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/export/ics", snapshotRequest{StartDate: "09/01/2025", Days: sampleDays()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	days := sampleDays()
	days[1].ID = "d1"
	resp = postJSON(t, srv.URL+"/api/export/ics", snapshotRequest{StartDate: "2025-09-01", Days: days})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShare_RoundTrip(t *testing.T) {
	srv := newTestServer(t, Deps{ShareBaseURL: "https://trips.example.com/view"})

	resp := postJSON(t, srv.URL+"/api/share", snapshotRequest{StartDate: "2025-09-01", Days: sampleDays()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[shareResponse](t, resp)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, "https://trips.example.com/view?trip="+created.Token, created.Link)

	resp = get(t, srv.URL+"/api/share/"+created.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	opened := decode[snapshotResponse](t, resp)
	assert.Equal(t, "2025-09-01", opened.StartDate)
	assert.Equal(t, sampleDays(), opened.Days)
}

func TestShare_InvalidTokenIs400(t *testing.T) {
	srv := newTestServer(t, Deps{})
	resp := get(t, srv.URL+"/api/share/not-a-token")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, resp).Error, share.ErrInvalidToken.Error())
}

func TestShareQR(t *testing.T) {
	token, err := share.Encode(share.Snapshot{Itinerary: domain.Itinerary{Days: sampleDays()}})
	require.NoError(t, err)

	srv := newTestServer(t, Deps{ShareBaseURL: "https://trips.example.com/view"})
	resp := get(t, srv.URL+"/api/share/"+token+"/qr")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	_, err = png.Decode(resp.Body)
	require.NoError(t, err)

	noLinks := newTestServer(t, Deps{})
	resp = get(t, noLinks.URL+"/api/share/"+token+"/qr")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Deps{AllowedOrigins: []string{"https://app.example.com"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/itinerary", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Deps{RequestsPerMinute: 2})

	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/healthz").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/healthz").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, get(t, srv.URL+"/healthz").StatusCode)
}

func TestIPRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	start := time.Now()

	rl.limiter("1.1.1.1", start)
	rl.limiter("2.2.2.2", start.Add(visitorTTL/2))
	assert.Len(t, rl.visitors, 2)

	rl.limiter("2.2.2.2", start.Add(visitorTTL+time.Second))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "2.2.2.2")
}
