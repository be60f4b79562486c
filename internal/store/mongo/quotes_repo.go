package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahelassur/courtage/internal/core"
)

type QuoteRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewQuoteRepo(db *mongodrv.Database, opTimeout time.Duration) *QuoteRepoMongo {
	return &QuoteRepoMongo{
		coll:      db.Collection(ColQuotes),
		opTimeout: opTimeout,
	}
}

func (repo *QuoteRepoMongo) Create(ctx context.Context, q core.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	_, err := repo.coll.InsertOne(ctx, toQuoteDoc(q))
	if err != nil {
		// map dup key -> core.ErrConflict
		var we mongodrv.WriteException
		if errors.As(err, &we) {
			for _, e := range we.WriteErrors {
				if e.Code == 11000 {
					return core.ErrConflict
				}
			}
		}
		return fmt.Errorf("quotes.insert: %w", err)
	}
	return nil
}

func (repo *QuoteRepoMongo) Get(ctx context.Context, id string) (core.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc QuoteDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Quote{}, core.ErrQuoteNotFound
		}
		return core.Quote{}, fmt.Errorf("quotes.findOne: %w", err)
	}
	return fromQuoteDoc(doc), nil
}

func (repo *QuoteRepoMongo) Update(ctx context.Context, q core.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": q.ID}, toQuoteDoc(q))
	if err != nil {
		return fmt.Errorf("quotes.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrQuoteNotFound
	}
	return nil
}

func (repo *QuoteRepoMongo) UpdateStatus(ctx context.Context, id string, status core.QuoteStatus, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("quotes.updateStatus: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrQuoteNotFound
	}
	return nil
}

func (repo *QuoteRepoMongo) List(ctx context.Context, filter core.QuoteFilter, limit int) ([]core.Quote, error) {
	q := bson.M{}
	if filter.ContactID != "" {
		q["contact_id"] = filter.ContactID
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	return repo.find(ctx, q, limit)
}

func (repo *QuoteRepoMongo) FindByStatus(ctx context.Context, status core.QuoteStatus, limit int) ([]core.Quote, error) {
	return repo.find(ctx, bson.M{"status": string(status)}, limit)
}

func (repo *QuoteRepoMongo) find(ctx context.Context, filter bson.M, limit int) ([]core.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("quotes.find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.Quote
	for cursor.Next(ctx) {
		var doc QuoteDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("quotes.decode: %w", err)
		}
		out = append(out, fromQuoteDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("quotes.cursor: %w", err)
	}
	return out, nil
}
