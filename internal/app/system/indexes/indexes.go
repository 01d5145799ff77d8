// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, e := range []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"products", ensureProducts},
		{"tribes", ensureTribes},
		{"tribe_curated_products", ensureCuratedProducts},
		{"tribe_posts", ensureTribePosts},
		{"tribe_comments", ensureTribeComments},
		{"drops", ensureDrops},
		{"creators", ensureCreators},
		{"quests", ensureQuests},
		{"submissions", ensureSubmissions},
		{"votes", ensureVotes},
		{"user_badges", ensureUserBadges},
		{"collab_sessions", ensureCollabSessions},
		{"audit_events", ensureAuditEvents},
	} {
		if err := e.fn(ctx, db); err != nil {
			problems = append(problems, e.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// isTextIndex reports whether keys declare a text index. The server stores
// text indexes under synthetic _fts/_ftsx keys, so they are matched by name.
func isTextIndex(keys bson.D) bool {
	for _, kv := range keys {
		if s, ok := kv.Value.(string); ok && s == "text" {
			return true
		}
	}
	return false
}

func boolVal(b *bool) bool { return b != nil && *b }

func listIndexes(ctx context.Context, coll *mongo.Collection) (bySig, byName map[string]existingIndex, err error) {
	bySig = map[string]existingIndex{}
	byName = map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		bySig[keySig(idx.Key)] = idx
		byName[idx.Name] = idx
	}
	return bySig, byName, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	bySig, byName, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		bySig, byName = map[string]existingIndex{}, map[string]existingIndex{}
	}

	for _, m := range models {
		keys := m.Keys.(bson.D)
		name := *m.Options.Name
		unique := boolVal(m.Options.Unique)
		sig := keySig(keys)
		start := time.Now()

		var (
			ex    existingIndex
			found bool
		)
		if isTextIndex(keys) {
			ex, found = byName[name]
		} else {
			ex, found = bySig[sig]
		}

		if found && ex.Name == name && boolVal(ex.Unique) == unique {
			zap.L().Debug("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", name))
			continue
		}

		// Same keys under another name, or options changed: drop & recreate.
		if found {
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}

		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Bool("recreated", found),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func named(name string) *options.IndexOptions { return options.Index().SetName(name) }

func uniq(name string) *options.IndexOptions {
	return options.Index().SetUnique(true).SetName(name)
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "username_ci", Value: 1}}, Options: uniq("uniq_users_usernameci")},
		{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: uniq("uniq_users_emailci")},
		{Keys: bson.D{{Key: "role", Value: 1}}, Options: named("idx_users_role")},
	})
}

func ensureProducts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("products"), []mongo.IndexModel{
		// Catalog search: ?q= uses $text over these four fields.
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "brand", Value: "text"},
				{Key: "tags", Value: "text"},
				{Key: "category", Value: "text"},
			},
			Options: named("idx_products_text"),
		},
		{
			Keys:    bson.D{{Key: "gender", Value: 1}, {Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: named("idx_products_gender_category_created"),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: named("idx_products_created")},
	})
}

func ensureTribes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tribes"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: uniq("uniq_tribes_name")},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: uniq("uniq_tribes_slug")},
		{
			Keys:    bson.D{{Key: "is_public", Value: 1}, {Key: "member_count", Value: -1}},
			Options: named("idx_tribes_public_membercount"),
		},
		{Keys: bson.D{{Key: "owner", Value: 1}}, Options: named("idx_tribes_owner")},
	})
}

func ensureCuratedProducts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tribe_curated_products"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "tribe", Value: 1}, {Key: "product", Value: 1}}, Options: uniq("uniq_tcp_tribe_product")},
		{
			Keys:    bson.D{{Key: "tribe", Value: 1}, {Key: "is_active", Value: 1}, {Key: "order", Value: 1}, {Key: "created_at", Value: -1}},
			Options: named("idx_tcp_tribe_active_order"),
		},
	})
}

func ensureTribePosts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tribe_posts"), []mongo.IndexModel{
		// Feed order: featured first, newest first.
		{
			Keys: bson.D{
				{Key: "tribe", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "is_featured", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: named("idx_posts_tribe_active_featured_created"),
		},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}, Options: named("idx_posts_user_created")},
	})
}

func ensureTribeComments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tribe_comments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post", Value: 1}, {Key: "is_active", Value: 1}, {Key: "created_at", Value: 1}},
			Options: named("idx_comments_post_active_created"),
		},
	})
}

func ensureDrops(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("drops"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "launch_datetime", Value: 1}}, Options: named("idx_drops_status_launch")},
		{Keys: bson.D{{Key: "creator_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: named("idx_drops_creator_created")},
	})
}

func ensureCreators(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("creators"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "username_ci", Value: 1}}, Options: uniq("uniq_creators_usernameci")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniq("uniq_creators_email")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: named("idx_creators_status_created")},
	})
}

func ensureQuests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("quests"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: named("idx_quests_created")},
		{Keys: bson.D{{Key: "status", Value: 1}}, Options: named("idx_quests_status")},
	})
}

func ensureSubmissions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("submissions"), []mongo.IndexModel{
		// One submission per user per quest.
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "challenge_id", Value: 1}}, Options: uniq("uniq_submissions_user_challenge")},
		{
			Keys:    bson.D{{Key: "challenge_id", Value: 1}, {Key: "vote_count", Value: -1}, {Key: "created_at", Value: -1}},
			Options: named("idx_submissions_challenge_votes_created"),
		},
	})
}

func ensureVotes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("votes"), []mongo.IndexModel{
		// One vote per user per submission.
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "submission_id", Value: 1}}, Options: uniq("uniq_votes_user_submission")},
		{Keys: bson.D{{Key: "submission_id", Value: 1}}, Options: named("idx_votes_submission")},
	})
}

func ensureUserBadges(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("user_badges"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "challenge_id", Value: 1}}, Options: uniq("uniq_badges_user_challenge")},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "earned_date", Value: -1}}, Options: named("idx_badges_user_earned")},
	})
}

func ensureCollabSessions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("collab_sessions"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: uniq("uniq_collab_code")},
		// Idle sweeper scans active sessions by last activity.
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "last_activity", Value: 1}}, Options: named("idx_collab_active_lastactivity")},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: named("idx_audit_timestamp")},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: named("idx_audit_user_timestamp")},
		{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: named("idx_audit_target_timestamp")},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}, Options: named("idx_audit_category_type_timestamp")},
	})
}
