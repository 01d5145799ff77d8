// internal/app/features/adminaudit/events.go
package adminaudit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/paging"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLimit       = 50
	defaultWindowHours = 24
	maxWindowHours     = 24 * 30
)

type eventsResponse struct {
	Events     []audit.Event     `json:"events"`
	Pagination paging.Pagination `json:"pagination"`
}

// optionalID parses key as an ObjectID. An empty value is nil; a
// malformed one is reported with ok=false.
func optionalID(r *http.Request, key string) (*primitive.ObjectID, bool) {
	raw := query.Get(r, key)
	if raw == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// optionalTime parses key as RFC 3339.
func optionalTime(r *http.Request, key string) (*time.Time, bool) {
	raw := query.Get(r, key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

// ServeEvents handles GET /api/admin/audit?category=&event_type=&user_id=
// &actor_id=&target_id=&since=&until=&page=&limit=.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	f := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
	}
	var ok bool
	if f.UserID, ok = optionalID(r, "user_id"); !ok {
		apiresp.BadRequest(w, "Invalid user_id")
		return
	}
	if f.ActorID, ok = optionalID(r, "actor_id"); !ok {
		apiresp.BadRequest(w, "Invalid actor_id")
		return
	}
	if f.TargetID, ok = optionalID(r, "target_id"); !ok {
		apiresp.BadRequest(w, "Invalid target_id")
		return
	}
	if f.StartTime, ok = optionalTime(r, "since"); !ok {
		apiresp.BadRequest(w, "since must be an RFC 3339 timestamp")
		return
	}
	if f.EndTime, ok = optionalTime(r, "until"); !ok {
		apiresp.BadRequest(w, "until must be an RFC 3339 timestamp")
		return
	}
	p := paging.Parse(r, defaultLimit)
	f.Limit = int64(p.Limit)
	f.Offset = p.Skip()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := audit.New(h.DB)
	events, err := store.Query(ctx, f)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load audit events", err)
		return
	}
	total, err := store.Count(ctx, f)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load audit events", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	apiresp.OK(w, eventsResponse{Events: events, Pagination: p.Meta(total)})
}

// ServeFailedLogins handles GET /api/admin/audit/failed-logins?hours=.
// The window defaults to a day and is capped at thirty.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	hours := defaultWindowHours
	if raw := query.Get(r, "hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apiresp.BadRequest(w, "hours must be a positive integer")
			return
		}
		hours = min(n, maxWindowHours)
	}
	p := paging.Parse(r, defaultLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	events, err := audit.New(h.DB).FailedLogins(ctx, since, int64(p.Limit))
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load failed logins", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	apiresp.OK(w, events)
}
