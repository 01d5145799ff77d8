package curation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/stylehub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeModel struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeModel) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return `{"items":[]}`, nil
}

func catalog(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: primitive.NewObjectID(), Title: fmt.Sprintf("p%d", i), Category: "tops"}
	}
	return out
}

type sliceSource []models.Product

func (s sliceSource) Window(_ context.Context, offset, limit int64) ([]models.Product, int64, error) {
	total := int64(len(s))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return s[offset:end], total, nil
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		wantErr bool
	}{
		{"valid", `{"items":[{"id":"a","score":0.9,"reason":"fits"}]}`, 1, false},
		{"empty items", `{"items":[]}`, 0, false},
		{"empty", "", 0, true},
		{"prose", "Sure! Here are the picks.", 0, true},
		{"fenced json", "```json\n{\"items\":[{\"id\":\"a\",\"score\":0.9,\"reason\":\"fits\"}]}\n```", 1, false},
		{"fenced bare", "```\n{\"items\":[]}\n```", 0, false},
		{"fenced prose", "```json\nno picks today\n```", 0, true},
		{"unknown field", `{"items":[],"note":"x"}`, 0, true},
		{"unknown item field", `{"items":[{"id":"a","score":1,"reason":"","extra":1}]}`, 0, true},
		{"missing items", `{}`, 0, true},
		{"trailing", `{"items":[]} {"items":[]}`, 0, true},
		{"score range", `{"items":[{"id":"a","score":1.5,"reason":""}]}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparseableReply)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestBuildPrompt_IncludesBatch(t *testing.T) {
	ps := catalog(2)
	prompt, err := BuildPrompt(TribeBrief{Name: "Streetwear Fans"}, ps)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"name":"Streetwear Fans"`)
	assert.Contains(t, prompt, ps[0].ID.Hex())
	assert.Contains(t, prompt, ps[1].ID.Hex())
}

func TestClassify(t *testing.T) {
	ps := catalog(3)
	reply := fmt.Sprintf(`{"items":[
		{"id":%q,"score":0.4,"reason":"meh"},
		{"id":%q,"score":0.95,"reason":"great"},
		{"id":"ffffffffffffffffffffffff","score":1,"reason":"not in batch"}
	]}`, ps[0].ID.Hex(), ps[2].ID.Hex())

	c := NewClassifier(&fakeModel{replies: []string{reply}}, zap.NewNop())
	got, err := c.Classify(context.Background(), TribeBrief{Name: "t"}, ps)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ps[2].ID, got[0].Product.ID)
	assert.Equal(t, 0.95, got[0].Score)
	assert.Equal(t, ps[0].ID, got[1].Product.ID)
}

func TestClassify_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewClassifier(nil, zap.NewNop()).Classify(context.Background(), TribeBrief{}, catalog(1))
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("unparseable", func(t *testing.T) {
		c := NewClassifier(&fakeModel{replies: []string{"not json"}}, zap.NewNop())
		_, err := c.Classify(context.Background(), TribeBrief{}, catalog(1))
		assert.ErrorIs(t, err, ErrUnparseableReply)
	})

	t.Run("model error", func(t *testing.T) {
		boom := errors.New("quota")
		c := NewClassifier(&fakeModel{errs: []error{boom}}, zap.NewNop())
		_, err := c.Classify(context.Background(), TribeBrief{}, catalog(1))
		assert.ErrorIs(t, err, boom)
	})
}

func TestSync_SkipsFailedBatchesAndDedupes(t *testing.T) {
	ps := catalog(5)
	ok := func(ids ...primitive.ObjectID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf(`{"id":%q,"score":0.8,"reason":"r"}`, id.Hex())
		}
		return `{"items":[` + strings.Join(parts, ",") + `]}`
	}
	model := &fakeModel{
		replies: []string{ok(ps[0].ID, ps[1].ID), "", ok(ps[4].ID)},
		errs:    []error{nil, errors.New("boom"), nil},
	}
	c := NewClassifier(model, zap.NewNop())

	res, err := c.Sync(context.Background(), sliceSource(ps), TribeBrief{Name: "t"},
		SyncConfig{BatchSize: 2, MaxBatches: 10, MinScore: 0.6})
	require.NoError(t, err)

	assert.Equal(t, 3, model.calls)
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, 1, res.FailedBatches)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, []primitive.ObjectID{ps[0].ID, ps[1].ID, ps[4].ID}, res.ProductIDs)
}

func TestSync_RespectsMaxBatchesAndMinScore(t *testing.T) {
	ps := catalog(10)
	low := fmt.Sprintf(`{"items":[{"id":%q,"score":0.59,"reason":"r"}]}`, ps[0].ID.Hex())
	model := &fakeModel{replies: []string{low}}
	c := NewClassifier(model, zap.NewNop())

	res, err := c.Sync(context.Background(), sliceSource(ps), TribeBrief{},
		SyncConfig{BatchSize: 2, MaxBatches: 2, MinScore: 0.6})
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls)
	assert.Empty(t, res.ProductIDs)
}

func TestSync_NotConfigured(t *testing.T) {
	_, err := NewClassifier(nil, nil).Sync(context.Background(), sliceSource(nil), TribeBrief{}, DefaultSyncConfig())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
