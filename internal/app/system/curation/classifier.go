// Package curation asks a generative model which catalog products fit a
// tribe. The model is asked for JSON and its reply is decoded strictly:
// a reply that does not match the expected shape is an error, never an
// empty result.
package curation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured means no model API key was supplied.
	ErrNotConfigured = errors.New("AI service not configured")
	// ErrUnparseableReply means the model answered with something other
	// than the requested JSON. The call may be retried.
	ErrUnparseableReply = errors.New("AI reply could not be parsed")
)

// Model generates a JSON reply for a prompt.
type Model interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// TribeBrief is the tribe description sent to the model.
type TribeBrief struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// candidate is the product projection sent to the model. Only catalog
// attributes are included.
type candidate struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Brand    string   `json:"brand"`
	Category string   `json:"category"`
	Gender   string   `json:"gender"`
	Tags     []string `json:"tags"`
	Price    float64  `json:"price"`
}

// Pick is one scored product in the model reply.
type Pick struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

type reply struct {
	Items *[]Pick `json:"items"`
}

// Result is a pick resolved to its product.
type Result struct {
	Product models.Product `json:"product"`
	Score   float64        `json:"score"`
	Reason  string         `json:"reason"`
}

// Classifier scores product batches against a tribe.
type Classifier struct {
	model Model
	log   *zap.Logger
}

// NewClassifier returns a classifier. A nil model yields a classifier
// whose calls all fail with ErrNotConfigured.
func NewClassifier(m Model, log *zap.Logger) *Classifier {
	return &Classifier{model: m, log: log}
}

// Configured reports whether a model is attached.
func (c *Classifier) Configured() bool { return c != nil && c.model != nil }

const promptTemplate = `You are a fashion curator. Given a tribe and a SMALL product batch, select relevant products.
Return ONLY JSON matching this shape and nothing else:
{"items": [{"id": string, "score": number, "reason": string}]}
Score is in [0,1]. Reasons are at most 120 characters. Only use ids from the batch.
Tribe: %s
Products: %s
`

// BuildPrompt renders the classification prompt.
func BuildPrompt(tribe TribeBrief, products []models.Product) (string, error) {
	if tribe.Tags == nil {
		tribe.Tags = []string{}
	}
	cands := make([]candidate, 0, len(products))
	for _, p := range products {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		cands = append(cands, candidate{
			ID:       p.ID.Hex(),
			Title:    p.Title,
			Brand:    p.Brand,
			Category: p.Category,
			Gender:   p.Gender,
			Tags:     tags,
			Price:    p.Price,
		})
	}
	tb, err := json.Marshal(tribe)
	if err != nil {
		return "", err
	}
	pb, err := json.Marshal(cands)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, tb, pb), nil
}

// stripFence removes a markdown code fence (``` or ```json) wrapping text.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if lang := strings.TrimSpace(body[:nl]); lang == "" || strings.EqualFold(lang, "json") {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// ParseReply decodes a model reply, tolerating a markdown code fence
// around the JSON. Unknown fields, a missing "items" key, trailing data
// and scores outside [0,1] are all ErrUnparseableReply.
func ParseReply(text string) ([]Pick, error) {
	text = stripFence(strings.TrimSpace(text))
	if text == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrUnparseableReply)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()

	var r reply
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableReply, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data", ErrUnparseableReply)
	}
	if r.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrUnparseableReply)
	}
	for _, p := range *r.Items {
		if p.Score < 0 || p.Score > 1 {
			return nil, fmt.Errorf("%w: score %v out of range", ErrUnparseableReply, p.Score)
		}
	}
	return *r.Items, nil
}

// Classify asks the model to score products for tribe. Picks naming ids
// outside the batch are dropped; results are sorted by score descending.
func (c *Classifier) Classify(ctx context.Context, tribe TribeBrief, products []models.Product) ([]Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(products) == 0 {
		return []Result{}, nil
	}

	prompt, err := BuildPrompt(tribe, products)
	if err != nil {
		return nil, err
	}
	text, err := c.model.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	picks, err := ParseReply(text)
	if err != nil {
		if c.log != nil {
			c.log.Warn("unparseable AI reply", zap.String("tribe", tribe.Name), zap.Int("reply_len", len(text)), zap.Error(err))
		}
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}
	out := make([]Result, 0, len(picks))
	seen := make(map[string]bool, len(picks))
	for _, pk := range picks {
		p, ok := byID[pk.ID]
		if !ok || seen[pk.ID] {
			continue
		}
		seen[pk.ID] = true
		out = append(out, Result{Product: p, Score: pk.Score, Reason: pk.Reason})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
