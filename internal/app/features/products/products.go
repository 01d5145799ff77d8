// internal/app/features/products/products.go
package products

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/inputval"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createInput struct {
	Title           string   `json:"title" validate:"required,max=200" label:"Title"`
	Brand           string   `json:"brand" validate:"required,max=100" label:"Brand"`
	Description     string   `json:"description" validate:"max=5000" label:"Description"`
	Price           float64  `json:"price" validate:"gte=0" label:"Price"`
	MRP             float64  `json:"mrp" validate:"gte=0" label:"MRP"`
	DiscountPercent float64  `json:"discountPercent" validate:"gte=0,lte=100" label:"Discount"`
	Category        string   `json:"category" validate:"required,max=100" label:"Category"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=MEN WOMEN UNISEX men women unisex" label:"Gender"`
	Sizes           []string `json:"sizes" validate:"max=30" label:"Sizes"`
	Colors          []string `json:"colors" validate:"max=30" label:"Colors"`
	Images          []string `json:"images" validate:"max=20,dive,httpurl" label:"Images"`
	InStock         *bool    `json:"inStock" label:"In stock"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5" label:"Rating"`
	RatingCount     int      `json:"ratingCount" validate:"gte=0" label:"Rating count"`
	Tags            []string `json:"tags" validate:"max=30" label:"Tags"`
}

// ServeList handles GET /api/products?gender=&category=&q=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := productstore.New(h.DB).List(ctx, productstore.Filter{
		Gender:   query.Get(r, "gender"),
		Category: query.Get(r, "category"),
		Query:    strings.TrimSpace(query.Get(r, "q")),
	})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch products", err)
		return
	}
	apiresp.OK(w, list)
}

// ServeProduct handles GET /api/products/{id}.
func (h *Handler) ServeProduct(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadRequest(w, "Invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := productstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, productstore.ErrNotFound) {
		apiresp.NotFound(w, "Product not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch product", err)
		return
	}
	apiresp.OK(w, p)
}

// HandleCreate handles POST /api/products.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Brand = htmlsanitize.PlainText(in.Brand)
	in.Description = htmlsanitize.PlainText(in.Description)
	if res := inputval.Validate(in); res.HasErrors() {
		apiresp.BadRequest(w, res.First())
		return
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := productstore.New(h.DB).Create(ctx, models.Product{
		Title:           in.Title,
		Brand:           in.Brand,
		Description:     in.Description,
		Price:           in.Price,
		MRP:             in.MRP,
		DiscountPercent: in.DiscountPercent,
		Category:        in.Category,
		Gender:          in.Gender,
		Sizes:           in.Sizes,
		Colors:          in.Colors,
		Images:          in.Images,
		InStock:         inStock,
		Rating:          in.Rating,
		RatingCount:     in.RatingCount,
		Tags:            in.Tags,
	})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to create product", err)
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, u.ObjectID(), audit.EventProductCreated, audit.TargetProduct, p.ID,
			map[string]string{"title": p.Title})
	}
	apiresp.Created(w, p)
}
