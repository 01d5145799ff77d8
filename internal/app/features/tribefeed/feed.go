// internal/app/features/tribefeed/feed.go
package tribefeed

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	poststore "github.com/dalemusser/stylehub/internal/app/store/tribeposts"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/paging"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type taggedInput struct {
	Product string  `json:"product" validate:"required,objectid" label:"Tagged product"`
	X       float64 `json:"x" validate:"gte=0,lte=100" label:"X"`
	Y       float64 `json:"y" validate:"gte=0,lte=100" label:"Y"`
}

type postInput struct {
	PostType       string        `json:"postType" validate:"omitempty,oneof=image text discussion" label:"Post type"`
	Content        string        `json:"content" validate:"required,max=2000" label:"Content"`
	ImageURL       string        `json:"imageUrl" validate:"omitempty,httpurl" label:"Image URL"`
	TaggedProducts []taggedInput `json:"taggedProducts" validate:"max=20,dive" label:"Tagged products"`
}

type feedResponse struct {
	Posts      []models.PostView `json:"posts"`
	Pagination paging.Pagination `json:"pagination"`
}

// ServeFeed handles GET /api/tribes/{slug}/feed?page=&limit=.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")
	pg := paging.Parse(r, FeedPageSize)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := tribestore.New(h.DB).GetBySlug(ctx, sl)
	if errors.Is(err, tribestore.ErrNotFound) {
		apiresp.NotFound(w, "Tribe not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch feed", err, zap.String("slug", sl))
		return
	}

	posts := poststore.New(h.DB)
	var (
		page  []models.TribePost
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = posts.ListFeed(gctx, t.ID, pg.Skip(), int64(pg.Limit))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = posts.CountFeed(gctx, t.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch feed", err, zap.String("slug", sl))
		return
	}

	views, err := populate.Posts(ctx, h.DB, page)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch feed", err, zap.String("slug", sl))
		return
	}
	apiresp.OK(w, feedResponse{Posts: views, Pagination: pg.Meta(total)})
}

// HandleCreatePost handles POST /api/tribes/{slug}/feed. Only members may
// post.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	sl := chi.URLParam(r, "slug")

	var in postInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Content = htmlsanitize.PlainText(in.Content)
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := tribestore.New(h.DB).GetBySlug(ctx, sl)
	if errors.Is(err, tribestore.ErrNotFound) {
		apiresp.NotFound(w, "Tribe not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create post", err, zap.String("slug", sl))
		return
	}
	if !t.HasMember(u.ObjectID()) {
		apiresp.Forbidden(w, "You must be a member to post")
		return
	}

	tagged := make([]models.TaggedProduct, 0, len(in.TaggedProducts))
	for _, tp := range in.TaggedProducts {
		pid, _ := primitive.ObjectIDFromHex(tp.Product)
		tagged = append(tagged, models.TaggedProduct{Product: pid, X: tp.X, Y: tp.Y})
	}

	p, err := poststore.New(h.DB).Create(ctx, models.TribePost{
		User:           u.ObjectID(),
		Tribe:          t.ID,
		PostType:       in.PostType,
		Content:        in.Content,
		ImageURL:       in.ImageURL,
		TaggedProducts: tagged,
	})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create post", err, zap.String("slug", sl))
		return
	}

	views, err := populate.Posts(ctx, h.DB, []models.TribePost{p})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create post", err)
		return
	}
	apiresp.Created(w, views[0])
}
