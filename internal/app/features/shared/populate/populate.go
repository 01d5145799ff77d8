// Package populate resolves the id references stored on tribes, posts,
// comments, submissions and collab items into the embedded objects the
// JSON responses carry. Each function issues one query per referenced
// collection, never one per row.
package populate

import (
	"context"

	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func products(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := productstore.New(db).GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// Tribes attaches owner summaries and the product set, in stored order.
// Products that no longer exist are skipped.
func Tribes(ctx context.Context, db *mongo.Database, tribes []models.Tribe) ([]models.TribeView, error) {
	var owners, prods []primitive.ObjectID
	for _, t := range tribes {
		if t.Owner != nil {
			owners = append(owners, *t.Owner)
		}
		prods = append(prods, t.Products...)
	}

	users, err := userstore.New(db).Summaries(ctx, owners)
	if err != nil {
		return nil, err
	}
	pm, err := products(ctx, db, prods)
	if err != nil {
		return nil, err
	}

	out := make([]models.TribeView, 0, len(tribes))
	for _, t := range tribes {
		v := models.TribeView{Tribe: t, Products: make([]models.Product, 0, len(t.Products))}
		if t.Owner != nil {
			if u, ok := users[*t.Owner]; ok {
				v.Owner = &u
			}
		}
		for _, id := range t.Products {
			if p, ok := pm[id]; ok {
				v.Products = append(v.Products, p)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Tribe is Tribes for a single tribe.
func Tribe(ctx context.Context, db *mongo.Database, t models.Tribe) (models.TribeView, error) {
	views, err := Tribes(ctx, db, []models.Tribe{t})
	if err != nil {
		return models.TribeView{}, err
	}
	return views[0], nil
}

// Posts attaches authors and the tagged product briefs.
func Posts(ctx context.Context, db *mongo.Database, posts []models.TribePost) ([]models.PostView, error) {
	var uids, pids []primitive.ObjectID
	for _, p := range posts {
		uids = append(uids, p.User)
		for _, tp := range p.TaggedProducts {
			pids = append(pids, tp.Product)
		}
	}

	users, err := userstore.New(db).Summaries(ctx, uids)
	if err != nil {
		return nil, err
	}
	pm, err := products(ctx, db, pids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		v := models.PostView{TribePost: p, TaggedProducts: make([]models.TaggedProductView, 0, len(p.TaggedProducts))}
		if u, ok := users[p.User]; ok {
			v.User = &u
		}
		for _, tp := range p.TaggedProducts {
			tv := models.TaggedProductView{X: tp.X, Y: tp.Y}
			if prod, ok := pm[tp.Product]; ok {
				tv.Product = &models.ProductBrief{
					ID:     prod.ID,
					Title:  prod.Title,
					Brand:  prod.Brand,
					Price:  prod.Price,
					Images: prod.Images,
				}
			}
			v.TaggedProducts = append(v.TaggedProducts, tv)
		}
		out = append(out, v)
	}
	return out, nil
}

// Comments attaches authors.
func Comments(ctx context.Context, db *mongo.Database, comments []models.TribeComment) ([]models.CommentView, error) {
	uids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		uids = append(uids, c.User)
	}
	users, err := userstore.New(db).Summaries(ctx, uids)
	if err != nil {
		return nil, err
	}

	out := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		v := models.CommentView{TribeComment: c}
		if u, ok := users[c.User]; ok {
			v.User = &u
		}
		out = append(out, v)
	}
	return out, nil
}

// Submissions attaches authors.
func Submissions(ctx context.Context, db *mongo.Database, subs []models.Submission) ([]models.SubmissionWithUser, error) {
	uids := make([]primitive.ObjectID, 0, len(subs))
	for _, s := range subs {
		uids = append(uids, s.UserID)
	}
	users, err := userstore.New(db).Summaries(ctx, uids)
	if err != nil {
		return nil, err
	}

	out := make([]models.SubmissionWithUser, 0, len(subs))
	for _, s := range subs {
		v := models.SubmissionWithUser{Submission: s}
		if u, ok := users[s.UserID]; ok {
			v.User = &u
		}
		out = append(out, v)
	}
	return out, nil
}

// Collab resolves catalog products on the session's items and computes
// each item's vote score.
func Collab(ctx context.Context, db *mongo.Database, s models.CollabSession) (models.CollabSessionView, error) {
	var pids []primitive.ObjectID
	for _, it := range s.Items {
		if it.Product != nil {
			pids = append(pids, *it.Product)
		}
	}
	pm, err := products(ctx, db, pids)
	if err != nil {
		return models.CollabSessionView{}, err
	}

	v := models.CollabSessionView{CollabSession: s, Items: make([]models.CollabItemView, 0, len(s.Items))}
	for _, it := range s.Items {
		iv := models.CollabItemView{CollabItem: it, Score: it.Score()}
		if it.Product != nil {
			if p, ok := pm[*it.Product]; ok {
				iv.Product = &p
			}
		}
		v.Items = append(v.Items, iv)
	}
	return v, nil
}
