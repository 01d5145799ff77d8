// internal/app/features/admintribes/curated.go
package admintribes

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/stylehub/internal/app/store/audit"
	curatedstore "github.com/dalemusser/stylehub/internal/app/store/curated"
	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	tribestore "github.com/dalemusser/stylehub/internal/app/store/tribes"
	userstore "github.com/dalemusser/stylehub/internal/app/store/users"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/auth"
	"github.com/dalemusser/stylehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"github.com/dalemusser/stylehub/internal/app/system/txn"
	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type curateInput struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
	Order     int    `json:"order"`
}

func tribeID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "tribeId"))
	return id, err == nil
}

// ServeCurated handles GET /api/admin/tribes/{tribeId}/products.
func (h *Handler) ServeCurated(w http.ResponseWriter, r *http.Request) {
	tid, ok := tribeID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid tribe id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := curatedstore.New(h.DB).ListActive(ctx, tid)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch products", err)
		return
	}
	views, err := h.curatedViews(ctx, rows)
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to fetch products", err)
		return
	}
	apiresp.OK(w, views)
}

// HandleCurate handles POST /api/admin/tribes/{tribeId}/products. The
// curation row and the tribe's product set change together.
func (h *Handler) HandleCurate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	tid, ok := tribeID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid tribe id")
		return
	}
	var in curateInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	pid, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		apiresp.BadRequest(w, "productId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tribes := tribestore.New(h.DB)
	if _, err := tribes.GetByID(ctx, tid); err != nil {
		if errors.Is(err, tribestore.ErrNotFound) {
			apiresp.NotFound(w, "Tribe not found")
			return
		}
		apiresp.ServerError(w, h.Log, "Failed to add product", err)
		return
	}
	if _, err := productstore.New(h.DB).GetByID(ctx, pid); err != nil {
		if errors.Is(err, productstore.ErrNotFound) {
			apiresp.NotFound(w, "Product not found")
			return
		}
		apiresp.ServerError(w, h.Log, "Failed to add product", err)
		return
	}

	curator := u.ObjectID()
	curated := curatedstore.New(h.DB)
	var row models.TribeCuratedProduct
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		var err error
		row, err = curated.Curate(tctx, models.TribeCuratedProduct{
			Tribe:     tid,
			Product:   pid,
			Reason:    htmlsanitize.PlainText(in.Reason),
			Order:     in.Order,
			CuratedBy: &curator,
		})
		if err != nil {
			return err
		}
		_, err = tribes.AddProducts(tctx, tid, []primitive.ObjectID{pid})
		return err
	})
	if errors.Is(err, curatedstore.ErrAlreadyCurated) {
		apiresp.Conflict(w, "Product already curated for this tribe")
		return
	}
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to add product", err,
			zap.String("tribe_id", tid.Hex()), zap.String("product_id", pid.Hex()))
		return
	}

	h.AuditLog.AdminAction(ctx, r, curator, audit.EventProductCurated, audit.TargetTribe, tid,
		map[string]string{"product_id": pid.Hex()})

	views, err := h.curatedViews(ctx, []models.TribeCuratedProduct{row})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to add product", err)
		return
	}
	apiresp.Created(w, views[0])
}

// HandleUncurate handles DELETE /api/admin/tribes/{tribeId}/products
// {productId}. The row is deactivated, not deleted.
func (h *Handler) HandleUncurate(w http.ResponseWriter, r *http.Request) {
	tid, ok := tribeID(r)
	if !ok {
		apiresp.BadRequest(w, "Invalid tribe id")
		return
	}
	var in curateInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	pid, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		apiresp.BadRequest(w, "productId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	curated := curatedstore.New(h.DB)
	tribes := tribestore.New(h.DB)
	err = txn.Run(ctx, h.DB.Client(), h.Log, func(tctx context.Context) error {
		if err := curated.Deactivate(tctx, tid, pid); err != nil {
			return err
		}
		return tribes.RemoveProduct(tctx, tid, pid)
	})
	if err != nil {
		apiresp.ServerError(w, h.Log, "Failed to remove product", err,
			zap.String("tribe_id", tid.Hex()), zap.String("product_id", pid.Hex()))
		return
	}

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.AdminAction(ctx, r, u.ObjectID(), audit.EventProductUncurated, audit.TargetTribe, tid,
			map[string]string{"product_id": pid.Hex()})
	}
	apiresp.Message(w, "Product removed from curation")
}

// curatedViews resolves each row's product and curator.
func (h *Handler) curatedViews(ctx context.Context, rows []models.TribeCuratedProduct) ([]models.CuratedProductView, error) {
	var pids, uids []primitive.ObjectID
	for _, row := range rows {
		pids = append(pids, row.Product)
		if row.CuratedBy != nil {
			uids = append(uids, *row.CuratedBy)
		}
	}
	prods, err := productstore.New(h.DB).GetByIDs(ctx, pids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}
	users, err := userstore.New(h.DB).Summaries(ctx, uids)
	if err != nil {
		return nil, err
	}

	out := make([]models.CuratedProductView, 0, len(rows))
	for _, row := range rows {
		v := models.CuratedProductView{TribeCuratedProduct: row}
		if p, ok := byID[row.Product]; ok {
			v.Product = &p
		}
		if row.CuratedBy != nil {
			if s, ok := users[*row.CuratedBy]; ok {
				v.CuratedBy = &s
			}
		}
		out = append(out, v)
	}
	return out, nil
}
