package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahelassur/courtage/internal/core"
)

type ContactRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewContactRepo(db *mongodrv.Database, opTimeout time.Duration) *ContactRepoMongo {
	return &ContactRepoMongo{
		coll:      db.Collection(ColContacts),
		opTimeout: opTimeout,
	}
}

func (repo *ContactRepoMongo) Create(ctx context.Context, c core.ContactRecord) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toContactDoc(c))
	if err != nil {
		var we mongodrv.WriteException
		if errors.As(err, &we) {
			for _, e := range we.WriteErrors {
				if e.Code == 11000 {
					return core.ErrConflict
				}
			}
		}
		return fmt.Errorf("contacts.insert: %w", err)
	}
	return nil
}

func (repo *ContactRepoMongo) Get(ctx context.Context, id string, typ core.ContactType) (core.ContactRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc ContactDoc
	err := repo.coll.FindOne(ctx, contactFilter(id, typ)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.ContactRecord{}, core.ErrContactNotFound
		}
		return core.ContactRecord{}, fmt.Errorf("contacts.findOne: %w", err)
	}
	return fromContactDoc(doc), nil
}

// contactFilter builds the lookup filter. An empty type is a wildcard per the
// core.ContactRepo contract: stored documents always carry a concrete type, so
// filtering on the empty string would match nothing.
func contactFilter(id string, typ core.ContactType) bson.M {
	filter := bson.M{"_id": id}
	if typ != "" {
		filter["type"] = string(typ)
	}
	return filter
}

func (repo *ContactRepoMongo) Search(ctx context.Context, query string, limit int) ([]core.ContactSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	filter := bson.M{}
	if query != "" {
		pattern := primitive.Regex{Pattern: query, Options: "i"}
		filter = bson.M{"$or": []bson.M{
			{"first_name": pattern},
			{"last_name": pattern},
			{"phone": pattern},
			{"email": pattern},
		}}
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("contacts.find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.ContactSummary
	for cursor.Next(ctx) {
		var doc ContactDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("contacts.decode: %w", err)
		}
		out = append(out, fromContactDoc(doc).Summary())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("contacts.cursor: %w", err)
	}
	return out, nil
}

func (repo *ContactRepoMongo) Update(ctx context.Context, c core.ContactRecord) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, toContactDoc(c))
	if err != nil {
		return fmt.Errorf("contacts.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrContactNotFound
	}
	return nil
}
