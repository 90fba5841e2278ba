package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/export"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/share"
)

var errLLMUnavailable = errors.New("itinerary generation is not configured")

// itineraryResponse carries the model text together with the parsed days so
// clients do not need their own parser.
type itineraryResponse struct {
	Text string       `json:"text"`
	Days []domain.Day `json:"days"`
}

// newItineraryResponse parses text; nothing parsed is sent as an empty list.
func newItineraryResponse(text string) itineraryResponse {
	days := itinerary.Parse(text).Days
	if days == nil {
		days = []domain.Day{}
	}
	return itineraryResponse{Text: text, Days: days}
}

type refineRequest struct {
	CurrentItineraryText string `json:"currentItineraryText"`
	UserRequest          string `json:"userRequest"`
}

type alternativesRequest struct {
	Activity domain.Activity `json:"activity"`
	DayTitle string          `json:"dayTitle"`
}

// snapshotRequest is the body of the calendar and share routes.
type snapshotRequest struct {
	StartDate string       `json:"startDate"`
	Days      []domain.Day `json:"days"`
}

type shareResponse struct {
	Token string `json:"token"`
	Link  string `json:"link,omitempty"`
}

type snapshotResponse struct {
	StartDate string       `json:"startDate,omitempty"`
	Days      []domain.Day `json:"days"`
}

func (h *handler) generate(c *gin.Context) {
	if h.deps.Generator == nil {
		abortError(c, http.StatusServiceUnavailable, errLLMUnavailable.Error())
		return
	}
	var prefs domain.TripPrefs
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abortError(c, http.StatusBadRequest, "invalid preferences: "+err.Error())
		return
	}
	prefs = prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.deps.Generator.Generate(c.Request.Context(), prefs)
	if err != nil {
		h.collaboratorError(c, "generate", err)
		return
	}
	c.JSON(http.StatusOK, newItineraryResponse(text))
}

func (h *handler) refine(c *gin.Context) {
	if h.deps.Refiner == nil {
		abortError(c, http.StatusServiceUnavailable, errLLMUnavailable.Error())
		return
	}
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.UserRequest) == "" {
		abortError(c, http.StatusBadRequest, intelligence.ErrEmptyRequest.Error())
		return
	}

	text, err := h.deps.Refiner.Refine(c.Request.Context(), req.CurrentItineraryText, req.UserRequest)
	if err != nil {
		h.collaboratorError(c, "refine", err)
		return
	}
	c.JSON(http.StatusOK, newItineraryResponse(text))
}

func (h *handler) alternatives(c *gin.Context) {
	var req alternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Activity.Text) == "" {
		abortError(c, http.StatusBadRequest, "activity text is required")
		return
	}
	items := h.deps.Alternatives.Suggest(c.Request.Context(), req.Activity, req.DayTitle)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handler) geocode(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" || h.deps.Geocoder == nil {
		c.JSON(http.StatusOK, []domain.Place{})
		return
	}
	places, err := h.deps.Geocoder.Search(c.Request.Context(), q)
	if err != nil {
		h.collaboratorError(c, "geocode", err)
		return
	}
	if places == nil {
		places = []domain.Place{}
	}
	c.JSON(http.StatusOK, places)
}

func (h *handler) events(c *gin.Context) {
	q := intelligence.EventQuery{
		Location: strings.TrimSpace(c.Query("q")),
		Date:     strings.TrimSpace(c.Query("date")),
	}
	if q.Date != "" {
		if _, err := time.Parse(time.DateOnly, q.Date); err != nil {
			abortError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}
	if q.Location == "" || h.deps.Events == nil {
		c.JSON(http.StatusOK, gin.H{"events": []domain.Event{}})
		return
	}
	events, err := h.deps.Events.Suggest(c.Request.Context(), q)
	if err != nil {
		h.collaboratorError(c, "events", err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *handler) exportICS(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	if snap.StartDate == nil {
		abortError(c, http.StatusBadRequest, "startDate is required")
		return
	}
	cal, err := export.ICS(snap.Itinerary, *snap.StartDate, h.deps.Now())
	if err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="itinerary.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}

func (h *handler) createShare(c *gin.Context) {
	snap, ok := bindSnapshot(c)
	if !ok {
		return
	}
	token, err := share.Encode(snap)
	if err != nil {
		abortError(c, http.StatusInternalServerError, err.Error())
		return
	}
	resp := shareResponse{Token: token}
	if h.deps.ShareBaseURL != "" {
		if link, err := share.Link(h.deps.ShareBaseURL, token); err == nil {
			resp.Link = link
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) openShare(c *gin.Context) {
	snap, err := share.Decode(c.Param("token"))
	if err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	resp := snapshotResponse{Days: snap.Itinerary.Days}
	if snap.StartDate != nil {
		resp.StartDate = snap.StartDate.Format(time.DateOnly)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) shareQR(c *gin.Context) {
	token := c.Param("token")
	if _, err := share.Decode(token); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return
	}
	if h.deps.ShareBaseURL == "" {
		abortError(c, http.StatusNotFound, "share links are not configured")
		return
	}
	png, err := share.QRCode(h.deps.ShareBaseURL, token, 0)
	if err != nil {
		abortError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// bindSnapshot reads and validates a {startDate, days} body. It writes the
// 400 response itself and reports whether the handler should continue.
func bindSnapshot(c *gin.Context) (share.Snapshot, bool) {
	var req snapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return share.Snapshot{}, false
	}
	snap := share.Snapshot{Itinerary: domain.Itinerary{Days: req.Days}}
	if req.StartDate != "" {
		d, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			abortError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return share.Snapshot{}, false
		}
		snap.StartDate = &d
	}
	if err := validateItinerary(snap.Itinerary); err != nil {
		abortError(c, http.StatusBadRequest, err.Error())
		return share.Snapshot{}, false
	}
	return snap, true
}

func validateItinerary(it domain.Itinerary) error {
	if err := it.ValidateIDs(); err != nil {
		return err
	}
	for i, d := range it.Days {
		for j, a := range d.Activities {
			if a.Place == nil {
				continue
			}
			if err := a.Place.Validate(); err != nil {
				return fmt.Errorf("days[%d].activities[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

// collaboratorError reports an upstream failure as 502 without leaking
// transport details beyond the error text.
func (h *handler) collaboratorError(c *gin.Context, op string, err error) {
	h.deps.Logger.Warn("collaborator failed", "op", op, "error", err)
	abortError(c, http.StatusBadGateway, err.Error())
}
