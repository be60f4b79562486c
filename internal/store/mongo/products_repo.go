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

type ProductRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewProductRepo(db *mongodrv.Database, opTimeout time.Duration) *ProductRepoMongo {
	return &ProductRepoMongo{
		coll:      db.Collection(ColProducts),
		opTimeout: opTimeout,
	}
}

func (repo *ProductRepoMongo) List(ctx context.Context) ([]core.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("products.find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []core.Product
	for cursor.Next(ctx) {
		var doc ProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("products.decode: %w", err)
		}
		out = append(out, fromProductDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("products.cursor: %w", err)
	}
	return out, nil
}

func (repo *ProductRepoMongo) GetByCode(ctx context.Context, code core.ProductCode) (core.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc ProductDoc
	err := repo.coll.FindOne(ctx, bson.M{"code": string(code)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Product{}, core.ErrProductNotFound
		}
		return core.Product{}, fmt.Errorf("products.findOne: %w", err)
	}
	return fromProductDoc(doc), nil
}

func (repo *ProductRepoMongo) UpsertByCode(ctx context.Context, p core.Product) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	doc := toProductDoc(p)
	opts := options.Replace().SetUpsert(true)
	_, err := repo.coll.ReplaceOne(ctx, bson.M{"code": doc.Code}, doc, opts)
	if err != nil {
		return fmt.Errorf("products.upsert: %w", err)
	}
	return nil
}
