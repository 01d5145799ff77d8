// internal/app/features/collab/session.go
package collab

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	collabstore "github.com/dalemusser/stylehub/internal/app/store/collab"
	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	errItemNotFound  = errors.New("item not found")
	errNotItemOwner  = errors.New("unauthorized to remove this item")
	errSessionClosed = errors.New("session has ended")
)

// actionInput is the union of every action's fields.
type actionInput struct {
	Action      string                  `json:"action"`
	Code        string                  `json:"code"`
	Name        string                  `json:"name" validate:"max=80" label:"Session name"`
	HostName    string                  `json:"hostName" validate:"max=50" label:"Host name"`
	UserName    string                  `json:"userName" validate:"max=50" label:"Name"`
	ProductID   string                  `json:"productId" validate:"omitempty,objectid" label:"Product"`
	ProductData *models.ProductSnapshot `json:"productData"`
	Size        string                  `json:"size" validate:"max=40" label:"Size"`
	Color       string                  `json:"color" validate:"max=40" label:"Color"`
	Notes       string                  `json:"notes" validate:"max=500" label:"Notes"`
	ItemID      string                  `json:"itemId"`
	Value       int                     `json:"value"`
	Message     string                  `json:"message" validate:"max=1000" label:"Message"`
}

func systemMessage(text string, now time.Time) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		UserName:  SystemUserName,
		Message:   text,
		Timestamp: now,
		Type:      models.MessageSystem,
	}
}

func findItem(s *models.CollabSession, raw string) (int, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return -1, errItemNotFound
	}
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i, nil
		}
	}
	return -1, errItemNotFound
}

// HandleAction handles POST /api/collab. The body's action selects one
// of create, join, addItem, removeItem, vote, sendMessage, getSession
// and end.
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var in actionInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.UserName = htmlsanitize.PlainText(in.UserName)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	switch in.Action {
	case "create":
		h.create(ctx, w, in)
	case "join":
		h.join(ctx, w, in)
	case "addItem":
		h.addItem(ctx, w, in)
	case "removeItem":
		h.removeItem(ctx, w, in)
	case "vote":
		h.vote(ctx, w, in)
	case "sendMessage":
		h.sendMessage(ctx, w, in)
	case "getSession":
		h.load(ctx, w, in.Code)
	case "end":
		h.end(ctx, w, in)
	default:
		apiresp.BadRequest(w, "Unknown action")
	}
}

// ServeSession handles GET /api/collab?code=.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
	if code == "" {
		apiresp.BadRequest(w, "code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.load(ctx, w, code)
}

func (h *Handler) load(ctx context.Context, w http.ResponseWriter, code string) {
	s, err := collabstore.New(h.DB).GetByCode(ctx, code)
	if err != nil {
		h.writeError(w, err, code)
		return
	}
	h.writeSession(ctx, w, http.StatusOK, *s)
}

func (h *Handler) writeSession(ctx context.Context, w http.ResponseWriter, status int, s models.CollabSession) {
	v, err := populate.Collab(ctx, h.DB, s)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to load session", err, zap.String("code", s.Code))
		return
	}
	apiresp.JSON(w, status, v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, code string) {
	switch {
	case errors.Is(err, collabstore.ErrNotFound):
		apiresp.NotFound(w, "Session not found")
	case errors.Is(err, errItemNotFound):
		apiresp.NotFound(w, "Item not found")
	case errors.Is(err, errNotItemOwner):
		apiresp.Forbidden(w, "Unauthorized to remove this item")
	case errors.Is(err, errSessionClosed):
		apiresp.Conflict(w, "Session has ended")
	case errors.Is(err, collabstore.ErrConflict):
		apiresp.Conflict(w, "Session is busy, please retry")
	default:
		apiresp.ServerError(w, h.Log, "Internal server error", err, zap.String("code", code))
	}
}

// mutate applies fn to an active session and writes the result.
func (h *Handler) mutate(ctx context.Context, w http.ResponseWriter, code string, fn func(s *models.CollabSession, now time.Time) error) {
	s, err := collabstore.New(h.DB).Mutate(ctx, code, func(s *models.CollabSession) error {
		if !s.IsActive {
			return errSessionClosed
		}
		now := time.Now().UTC()
		if err := fn(s, now); err != nil {
			return err
		}
		s.LastActivity = now
		return nil
	})
	if err != nil {
		h.writeError(w, err, code)
		return
	}
	h.writeSession(ctx, w, http.StatusOK, *s)
}

func (h *Handler) create(ctx context.Context, w http.ResponseWriter, in actionInput) {
	name := htmlsanitize.PlainText(in.Name)
	if name == "" {
		name = DefaultSessionName
	}
	host := htmlsanitize.PlainText(in.HostName)
	if host == "" {
		host = DefaultHostName
	}
	now := time.Now().UTC()

	s, err := collabstore.New(h.DB).Create(ctx, models.CollabSession{
		Name:   name,
		HostID: host,
		Participants: []models.Participant{
			{UserID: host, UserName: host, JoinedAt: now, IsActive: true},
		},
		Messages: []models.ChatMessage{systemMessage("Welcome to the shopping party! 🎉", now)},
	})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create session", err)
		return
	}
	h.writeSession(ctx, w, http.StatusCreated, s)
}

func (h *Handler) join(ctx context.Context, w http.ResponseWriter, in actionInput) {
	if in.Code == "" || in.UserName == "" {
		apiresp.BadRequest(w, "code and userName are required")
		return
	}
	h.mutate(ctx, w, in.Code, func(s *models.CollabSession, now time.Time) error {
		for _, p := range s.Participants {
			if p.UserName == in.UserName {
				return nil
			}
		}
		s.Participants = append(s.Participants, models.Participant{
			UserID: in.UserName, UserName: in.UserName, JoinedAt: now, IsActive: true,
		})
		s.Messages = append(s.Messages, systemMessage(in.UserName+" joined the shopping party! 👋", now))
		return nil
	})
}

func (h *Handler) addItem(ctx context.Context, w http.ResponseWriter, in actionInput) {
	if in.Code == "" || in.UserName == "" {
		apiresp.BadRequest(w, "code and userName are required")
		return
	}
	if in.ProductID == "" && in.ProductData == nil {
		apiresp.BadRequest(w, "productId or productData is required")
		return
	}

	var (
		ref  *primitive.ObjectID
		snap = in.ProductData
	)
	if in.ProductID != "" && in.ProductData == nil {
		pid, _ := primitive.ObjectIDFromHex(in.ProductID)
		p, err := productstore.New(h.DB).GetByID(ctx, pid)
		if errors.Is(err, productstore.ErrNotFound) {
			apiresp.NotFound(w, "Product not found")
			return
		}
		if err != nil {
			apiresp.ServerError(w, h.Log, "Failed to add item", err, zap.String("product_id", in.ProductID))
			return
		}
		ref = &p.ID
		snap = &models.ProductSnapshot{Title: p.Title, Brand: p.Brand, Price: p.Price, Images: p.Images}
	}

	h.mutate(ctx, w, in.Code, func(s *models.CollabSession, now time.Time) error {
		s.Items = append(s.Items, models.CollabItem{
			ID:          primitive.NewObjectID(),
			Product:     ref,
			ProductData: snap,
			Size:        in.Size,
			Color:       in.Color,
			Notes:       htmlsanitize.PlainText(in.Notes),
			AddedBy:     in.UserName,
			Votes:       []models.ItemVote{},
			AddedAt:     now,
		})
		return nil
	})
}

func (h *Handler) removeItem(ctx context.Context, w http.ResponseWriter, in actionInput) {
	h.mutate(ctx, w, in.Code, func(s *models.CollabSession, _ time.Time) error {
		i, err := findItem(s, in.ItemID)
		if err != nil {
			return err
		}
		if s.Items[i].AddedBy != in.UserName {
			return errNotItemOwner
		}
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		return nil
	})
}

// vote replaces any earlier vote by the same name. Any value other than
// -1 counts as +1.
func (h *Handler) vote(ctx context.Context, w http.ResponseWriter, in actionInput) {
	if in.UserName == "" {
		apiresp.BadRequest(w, "userName is required")
		return
	}
	value := 1
	if in.Value == -1 {
		value = -1
	}
	h.mutate(ctx, w, in.Code, func(s *models.CollabSession, now time.Time) error {
		i, err := findItem(s, in.ItemID)
		if err != nil {
			return err
		}
		votes := make([]models.ItemVote, 0, len(s.Items[i].Votes)+1)
		for _, v := range s.Items[i].Votes {
			if v.UserName != in.UserName {
				votes = append(votes, v)
			}
		}
		s.Items[i].Votes = append(votes, models.ItemVote{UserName: in.UserName, Value: value, Timestamp: now})
		return nil
	})
}

func (h *Handler) sendMessage(ctx context.Context, w http.ResponseWriter, in actionInput) {
	msg := htmlsanitize.PlainText(in.Message)
	if msg == "" || in.UserName == "" {
		apiresp.BadRequest(w, "userName and message are required")
		return
	}
	h.mutate(ctx, w, in.Code, func(s *models.CollabSession, now time.Time) error {
		s.Messages = append(s.Messages, models.ChatMessage{
			ID:        uuid.NewString(),
			UserName:  in.UserName,
			Message:   msg,
			Timestamp: now,
			Type:      models.MessageUser,
		})
		return nil
	})
}

// end closes the session. Ending an ended session is a no-op.
func (h *Handler) end(ctx context.Context, w http.ResponseWriter, in actionInput) {
	s, err := collabstore.New(h.DB).Mutate(ctx, in.Code, func(s *models.CollabSession) error {
		s.IsActive = false
		s.Status = models.CollabEnded
		return nil
	})
	if err != nil {
		h.writeError(w, err, in.Code)
		return
	}
	h.writeSession(ctx, w, http.StatusOK, *s)
}
