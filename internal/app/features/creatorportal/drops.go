// internal/app/features/creatorportal/drops.go
package creatorportal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	creatorstore "github.com/dalemusser/stylehub/internal/app/store/creators"
	dropstore "github.com/dalemusser/stylehub/internal/app/store/drops"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/dropcalc"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/txn"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// launchLayouts are the accepted launch_datetime formats. The second is
// what an HTML datetime-local input submits.
var launchLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseLaunch(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range launchLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type dropProductInput struct {
	Name            string   `json:"name" validate:"required,max=200" label:"Product name"`
	Description     string   `json:"description" validate:"max=2000" label:"Product description"`
	Price           *float64 `json:"price" validate:"required,gte=0" label:"Product price"`
	OriginalPrice   float64  `json:"original_price" validate:"gte=0" label:"Original price"`
	ImageURL        string   `json:"image_url" validate:"omitempty,httpurl" label:"Product image"`
	Category        string   `json:"category"`
	Sizes           []string `json:"sizes"`
	Colors          []string `json:"colors"`
	StockQuantity   *int     `json:"stock_quantity" validate:"required,gte=0" label:"Stock quantity"`
	SoldQuantity    int      `json:"sold_quantity" validate:"gte=0" label:"Sold quantity"`
	IsExclusive     bool     `json:"is_exclusive"`
	LimitedQuantity bool     `json:"limited_quantity"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5" label:"Rating"`
}

func (p dropProductInput) model() models.DropProduct {
	return models.DropProduct{
		Name:            strings.TrimSpace(htmlsanitize.PlainText(p.Name)),
		Description:     htmlsanitize.PlainText(p.Description),
		Price:           *p.Price,
		OriginalPrice:   p.OriginalPrice,
		ImageURL:        p.ImageURL,
		Category:        p.Category,
		Sizes:           nonNil(p.Sizes),
		Colors:          nonNil(p.Colors),
		StockQuantity:   *p.StockQuantity,
		SoldQuantity:    p.SoldQuantity,
		IsExclusive:     p.IsExclusive,
		LimitedQuantity: p.LimitedQuantity,
		Rating:          p.Rating,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func productModels(in []dropProductInput) []models.DropProduct {
	out := make([]models.DropProduct, 0, len(in))
	for _, p := range in {
		out = append(out, p.model())
	}
	return out
}

type createDropInput struct {
	Title           string             `json:"title" validate:"required,max=200" label:"Title"`
	Description     string             `json:"description" validate:"required,max=5000" label:"Description"`
	LaunchDatetime  string             `json:"launch_datetime" validate:"required" label:"Launch date"`
	Products        []dropProductInput `json:"products" validate:"min=1,dive" label:"Products"`
	Tags            []string           `json:"tags" validate:"max=20" label:"Tags"`
	CollectionImage string             `json:"collection_image" validate:"omitempty,httpurl" label:"Collection image"`
	IsFeatured      bool               `json:"is_featured"`
	CommissionRate  float64            `json:"commission_rate" validate:"gte=0,lte=100" label:"Commission rate"`
	Status          string             `json:"status" validate:"omitempty,dropstatus" label:"Status"`
}

type updateDropInput struct {
	Title           *string             `json:"title" validate:"omitempty,min=1,max=200" label:"Title"`
	Description     *string             `json:"description" validate:"omitempty,max=5000" label:"Description"`
	LaunchDatetime  *string             `json:"launch_datetime" label:"Launch date"`
	Products        *[]dropProductInput `json:"products" validate:"omitempty,min=1,dive" label:"Products"`
	Tags            *[]string           `json:"tags" validate:"omitempty,max=20" label:"Tags"`
	CollectionImage *string             `json:"collection_image" validate:"omitempty,httpurl" label:"Collection image"`
	IsFeatured      *bool               `json:"is_featured"`
	Status          *string             `json:"status" validate:"omitempty,dropstatus" label:"Status"`
}

func dropID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// ServeDrops handles GET /api/creator/drops.
func (h *Handler) ServeDrops(w http.ResponseWriter, r *http.Request) {
	cid, ok := creatorID(r)
	if !ok {
		apiresp.Unauthorized(w, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := dropstore.New(h.DB).ListByCreator(ctx, cid)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch drops", err, zap.String("creator_id", cid.Hex()))
		return
	}
	apiresp.OK(w, dropcalc.Views(list, time.Now().UTC()))
}

// HandleCreateDrop handles POST /api/creator/drops. The drop and the
// creator's drop counter are written together.
func (h *Handler) HandleCreateDrop(w http.ResponseWriter, r *http.Request) {
	cid, ok := creatorID(r)
	if !ok {
		apiresp.Unauthorized(w, "Unauthorized")
		return
	}
	var in createDropInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Title = strings.TrimSpace(htmlsanitize.PlainText(in.Title))
	in.Description = htmlsanitize.PlainText(in.Description)
	if in.Title == "" || in.Description == "" || in.LaunchDatetime == "" {
		apiresp.BadRequest(w, "Title, description, and launch date are required")
		return
	}
	if len(in.Products) == 0 {
		apiresp.BadRequest(w, "At least one product is required")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}
	launch, ok := parseLaunch(in.LaunchDatetime)
	if !ok {
		apiresp.BadRequest(w, "Launch date is invalid")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	creators := creatorstore.New(h.DB)
	c, err := creators.GetByID(ctx, cid)
	if errors.Is(err, creatorstore.ErrNotFound) {
		apiresp.NotFound(w, "Creator not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create drop", err, zap.String("creator_id", cid.Hex()))
		return
	}

	drops := dropstore.New(h.DB)
	var d models.Drop
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		var err error
		d, err = drops.Create(tctx, models.Drop{
			Title:           in.Title,
			Description:     in.Description,
			CreatorID:       c.ID,
			CreatorName:     c.Name,
			CreatorImage:    c.ProfileImage,
			LaunchDatetime:  launch,
			Status:          in.Status,
			Products:        productModels(in.Products),
			Tags:            in.Tags,
			CollectionImage: in.CollectionImage,
			IsFeatured:      in.IsFeatured,
			CommissionRate:  in.CommissionRate,
		})
		if err != nil {
			return err
		}
		return creators.IncTotalDrops(tctx, c.ID, 1)
	})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create drop", err, zap.String("creator_id", cid.Hex()))
		return
	}
	apiresp.Created(w, dropcalc.View(d, time.Now().UTC()))
}

// ownedDrop loads the drop named in the URL if it belongs to the caller.
// Another creator's drop reads as not found.
func (h *Handler) ownedDrop(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Drop, bool) {
	cid, ok := creatorID(r)
	if !ok {
		apiresp.Unauthorized(w, "Unauthorized")
		return nil, false
	}
	id, ok := dropID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid drop id")
		return nil, false
	}
	d, err := dropstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, dropstore.ErrNotFound) || (err == nil && d.CreatorID != cid) {
		apiresp.NotFound(w, "Drop not found")
		return nil, false
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch drop", err, zap.String("drop_id", id.Hex()))
		return nil, false
	}
	return d, true
}

// ServeDrop handles GET /api/creator/drops/{id}.
func (h *Handler) ServeDrop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, ok := h.ownedDrop(ctx, w, r)
	if !ok {
		return
	}
	apiresp.OK(w, dropcalc.View(*d, time.Now().UTC()))
}

// HandleUpdateDrop handles PATCH /api/creator/drops/{id}. Aggregates and
// status are recomputed on save.
func (h *Handler) HandleUpdateDrop(w http.ResponseWriter, r *http.Request) {
	var in updateDropInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}
	var launch time.Time
	if in.LaunchDatetime != nil {
		var ok bool
		if launch, ok = parseLaunch(*in.LaunchDatetime); !ok {
			apiresp.BadRequest(w, "Launch date is invalid")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, ok := h.ownedDrop(ctx, w, r)
	if !ok {
		return
	}
	if in.Title != nil {
		d.Title = strings.TrimSpace(htmlsanitize.PlainText(*in.Title))
	}
	if in.Description != nil {
		d.Description = htmlsanitize.PlainText(*in.Description)
	}
	if in.LaunchDatetime != nil {
		d.LaunchDatetime = launch
	}
	if in.Products != nil {
		d.Products = productModels(*in.Products)
	}
	if in.Tags != nil {
		d.Tags = *in.Tags
	}
	if in.CollectionImage != nil {
		d.CollectionImage = *in.CollectionImage
	}
	if in.IsFeatured != nil {
		d.IsFeatured = *in.IsFeatured
	}
	if in.Status != nil {
		d.Status = *in.Status
	}

	if err := dropstore.New(h.DB).Save(ctx, d); err != nil {
		if errors.Is(err, dropstore.ErrNotFound) {
			apiresp.NotFound(w, "Drop not found")
			return
		}
		apiresp.ServerError(w, h.Log, "Failed to update drop", err, zap.String("drop_id", d.ID.Hex()))
		return
	}
	apiresp.OK(w, dropcalc.View(*d, time.Now().UTC()))
}

// HandleDeleteDrop handles DELETE /api/creator/drops/{id}.
func (h *Handler) HandleDeleteDrop(w http.ResponseWriter, r *http.Request) {
	cid, ok := creatorID(r)
	if !ok {
		apiresp.Unauthorized(w, "Unauthorized")
		return
	}
	id, ok := dropID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid drop id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	drops := dropstore.New(h.DB)
	creators := creatorstore.New(h.DB)
	err := txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		if err := drops.Delete(tctx, id, cid); err != nil {
			return err
		}
		return creators.IncTotalDrops(tctx, cid, -1)
	})
	if errors.Is(err, dropstore.ErrNotFound) {
		apiresp.NotFound(w, "Drop not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to delete drop", err, zap.String("drop_id", id.Hex()))
		return
	}
	apiresp.Message(w, "Drop deleted successfully")
}
