// internal/app/features/aicuration/classify.go
package aicuration

import (
	"context"
	"net/http"

	productstore "github.com/dalemusser/stylehub/internal/app/store/products"
	"github.com/dalemusser/stylehub/internal/app/system/apiresp"
	"github.com/dalemusser/stylehub/internal/app/system/curation"
	"github.com/dalemusser/stylehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	defaultClassifyLimit = 5
	maxClassifyLimit     = 50
)

type classifyInput struct {
	TribeName        string   `json:"tribeName"`
	TribeDescription string   `json:"tribeDescription"`
	TribeTags        []string `json:"tribeTags"`
	Offset           int64    `json:"offset"`
	Limit            int64    `json:"limit"`
}

type classifyResponse struct {
	Results    []curation.Result `json:"results"`
	Offset     int64             `json:"offset"`
	NextOffset *int64            `json:"nextOffset"`
	Total      int64             `json:"total"`
}

// HandleClassify handles POST /api/ai/classify-products. It scores one
// window of the catalog (in _id order) against the described tribe.
// nextOffset is null once the window reaches the end of the catalog.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var in classifyInput
	if err := apiresp.Decode(r, &in); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if in.TribeName == "" {
		apiresp.BadRequest(w, "tribeName is required")
		return
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	if in.Limit <= 0 {
		in.Limit = defaultClassifyLimit
	}
	if in.Limit > maxClassifyLimit {
		in.Limit = maxClassifyLimit
	}
	if !h.Classifier.Configured() {
		h.writeAIError(w, "AI classification failed", curation.ErrNotConfigured)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.AI())
	defer cancel()

	products, total, err := productstore.New(h.DB).Window(ctx, in.Offset, in.Limit)
	if err != nil {
		apiresp.ServerError(w, h.Log, "AI classification failed", err)
		return
	}
	results, err := h.Classifier.Classify(ctx, curation.TribeBrief{
		Name:        in.TribeName,
		Description: in.TribeDescription,
		Tags:        in.TribeTags,
	}, products)
	if err != nil {
		h.writeAIError(w, "AI classification failed", err, zap.String("tribe", in.TribeName))
		return
	}

	resp := classifyResponse{Results: results, Offset: in.Offset, Total: total}
	if next := in.Offset + int64(len(products)); next < total {
		resp.NextOffset = &next
	}
	apiresp.OK(w, resp)
}
