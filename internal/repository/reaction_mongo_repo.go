package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vidora/vidora-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reactionCollection = "reactions"

// reactionDocument is the Mongo shape of a reaction. The natural key
// (actor_id, target_type, target_id) carries a unique index and is used
// instead of _id for conditional writes.
type reactionDocument struct {
	ObjectID   primitive.ObjectID  `bson:"_id,omitempty"`
	ActorID    uint64              `bson:"actor_id"`
	TargetType domain.TargetType   `bson:"target_type"`
	TargetID   uint64              `bson:"target_id"`
	Kind       domain.ReactionKind `bson:"kind"`
	CreatedAt  time.Time           `bson:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at"`
}

func (d *reactionDocument) toDomain() *domain.Reaction {
	return &domain.Reaction{
		ActorID:    d.ActorID,
		TargetType: d.TargetType,
		TargetID:   d.TargetID,
		Kind:       d.Kind,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type mongoReactionRepository struct {
	coll *mongo.Collection
}

// NewMongoReactionRepository creates a ReactionStore on a MongoDB database
func NewMongoReactionRepository(db *mongo.Database) ReactionStore {
	return &mongoReactionRepository{coll: db.Collection(reactionCollection)}
}

// EnsureReactionIndexes creates the unique natural-key index and the per-target index
func EnsureReactionIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_actor_target"),
		},
		{
			Keys:    bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}, {Key: "kind", Value: 1}},
			Options: options.Index().SetName("idx_target_kind"),
		},
	}
	if _, err := db.Collection(reactionCollection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create reaction indexes: %w", err)
	}
	return nil
}

func naturalKey(actorID uint64, target domain.Target) bson.M {
	return bson.M{"actor_id": actorID, "target_type": target.Type, "target_id": target.ID}
}

func (r *mongoReactionRepository) FindReaction(ctx context.Context, actorID uint64, target domain.Target) (*domain.Reaction, error) {
	var doc reactionDocument
	err := r.coll.FindOne(ctx, naturalKey(actorID, target)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoReactionRepository) CreateReaction(ctx context.Context, reaction *domain.Reaction) error {
	now := time.Now()
	doc := reactionDocument{
		ActorID:    reaction.ActorID,
		TargetType: reaction.TargetType,
		TargetID:   reaction.TargetID,
		Kind:       reaction.Kind,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	reaction.CreatedAt = now
	reaction.UpdatedAt = now
	return nil
}

func (r *mongoReactionRepository) SwapReactionKind(ctx context.Context, existing *domain.Reaction, kind domain.ReactionKind) (bool, error) {
	filter := naturalKey(existing.ActorID, existing.Target())
	filter["kind"] = existing.Kind
	update := bson.M{"$set": bson.M{"kind": kind, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoReactionRepository) DeleteReaction(ctx context.Context, existing *domain.Reaction) (bool, error) {
	filter := naturalKey(existing.ActorID, existing.Target())
	filter["kind"] = existing.Kind
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

func (r *mongoReactionRepository) CountReactions(ctx context.Context, target domain.Target, kind domain.ReactionKind) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"target_type": target.Type, "target_id": target.ID, "kind": kind})
}

func (r *mongoReactionRepository) CountReactionsByTargets(ctx context.Context, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionCounts, error) {
	counts := make(map[uint64]domain.ReactionCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"target_type": targetType, "target_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"target_id": "$target_id", "kind": "$kind"},
			"total": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate reactions: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				TargetID uint64              `bson:"target_id"`
				Kind     domain.ReactionKind `bson:"kind"`
			} `bson:"_id"`
			Total int64 `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		c := counts[row.ID.TargetID]
		switch row.ID.Kind {
		case domain.ReactionLike:
			c.Likes = row.Total
		case domain.ReactionDislike:
			c.Dislikes = row.Total
		}
		counts[row.ID.TargetID] = c
	}
	return counts, cursor.Err()
}

func (r *mongoReactionRepository) FindActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, ids []uint64) (map[uint64]domain.ReactionKind, error) {
	kinds := make(map[uint64]domain.ReactionKind, len(ids))
	if actorID == 0 || len(ids) == 0 {
		return kinds, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"actor_id": actorID, "target_type": targetType, "target_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc reactionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		kinds[doc.TargetID] = doc.Kind
	}
	return kinds, cursor.Err()
}

func (r *mongoReactionRepository) ListActorReactions(ctx context.Context, actorID uint64, targetType domain.TargetType, kind domain.ReactionKind, offset, limit int) ([]*domain.Reaction, int64, error) {
	filter := bson.M{"actor_id": actorID, "target_type": targetType, "kind": kind}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reactions []*domain.Reaction
	for cursor.Next(ctx) {
		var doc reactionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		reactions = append(reactions, doc.toDomain())
	}
	return reactions, total, cursor.Err()
}

func (r *mongoReactionRepository) CountKindOnTargets(ctx context.Context, targetType domain.TargetType, ids []uint64, kind domain.ReactionKind) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.coll.CountDocuments(ctx, bson.M{"target_type": targetType, "target_id": bson.M{"$in": ids}, "kind": kind})
}

func (r *mongoReactionRepository) DeleteTargetReactions(ctx context.Context, targetType domain.TargetType, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.coll.DeleteMany(ctx, bson.M{"target_type": targetType, "target_id": bson.M{"$in": ids}})
	return err
}
