// internal/app/features/tribefeed/posts.go
package tribefeed

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/stylehub/internal/app/features/shared/populate"
	commentstore "github.com/dalemusser/stylehub/internal/app/store/tribecomments"
	poststore "github.com/dalemusser/stylehub/internal/app/store/tribeposts"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/paging"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/txn"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type commentsResponse struct {
	Comments   []models.CommentView `json:"comments"`
	Pagination paging.Pagination    `json:"pagination"`
}

func postID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postId"))
	return id, err == nil
}

// HandleToggleLike handles POST /api/tribes/posts/{postId}.
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	pid, ok := postID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid post id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	liked, count, err := poststore.New(h.DB).ToggleLike(ctx, pid, u.ObjectID())
	if errors.Is(err, poststore.ErrNotFound) {
		apiresp.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to toggle like", err, zap.String("post_id", pid.Hex()))
		return
	}
	apiresp.OK(w, map[string]any{"liked": liked, "likesCount": count})
}

// ServeComments handles GET /api/tribes/posts/{postId}: active comments,
// oldest first.
func (h *Handler) ServeComments(w http.ResponseWriter, r *http.Request) {
	pid, ok := postID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid post id")
		return
	}
	pg := paging.Parse(r, CommentPageSize)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	comments := commentstore.New(h.DB)
	var (
		page  []models.TribeComment
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = comments.List(gctx, pid, pg.Skip(), int64(pg.Limit))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = comments.Count(gctx, pid)
		return err
	})
	if err := g.Wait(); err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch comments", err, zap.String("post_id", pid.Hex()))
		return
	}

	views, err := populate.Comments(ctx, h.DB, page)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch comments", err)
		return
	}
	apiresp.OK(w, commentsResponse{Comments: views, Pagination: pg.Meta(total)})
}

// HandleComment handles POST /api/tribes/posts/{postId}/comments. The
// comment insert and the post's counter bump commit together.
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	pid, ok := postID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid post id")
		return
	}

	var in struct {
		Content string `json:"content"`
	}
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	content := strings.TrimSpace(htmlsanitize.PlainText(in.Content))
	if content == "" {
		apiresp.BadRequest(w, "Comment content is required")
		return
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		apiresp.BadRequest(w, "Comment must be at most 500 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	posts := poststore.New(h.DB)
	if _, err := posts.GetByID(ctx, pid); err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			apiresp.NotFound(w, "Post not found")
			return
		}
		apiresp.ServerError(w, h.Log, "Failed to create comment", err)
		return
	}

	comments := commentstore.New(h.DB)
	var created models.TribeComment
	err := txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		c, err := comments.Insert(tctx, models.TribeComment{
			User:    u.ObjectID(),
			Post:    pid,
			Content: content,
		})
		if err != nil {
			return err
		}
		if err := posts.IncComments(tctx, pid, 1); err != nil {
			return err
		}
		created = c
		return nil
	})
	if errors.Is(err, poststore.ErrNotFound) {
		apiresp.NotFound(w, "Post not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create comment", err, zap.String("post_id", pid.Hex()))
		return
	}

	views, err := populate.Comments(ctx, h.DB, []models.TribeComment{created})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create comment", err)
		return
	}
	apiresp.Created(w, views[0])
}
