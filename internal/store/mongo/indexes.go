package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensureProductsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure products indexes: %w", err)
	}
	if err := ensureContactsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure contacts indexes: %w", err)
	}
	if err := ensureQuotesIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure quotes indexes: %w", err)
	}
	if err := ensurePoliciesIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure policies indexes: %w", err)
	}
	return nil
}

func ensureProductsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColProducts)
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("products_code_unique").SetUnique(true),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureContactsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColContacts)
	models := []mongo.IndexModel{
		newIndex("phone", 1, "contacts_phone", false),
		newIndex("last_name", 1, "contacts_last_name", false),
		newIndex("updated_at", -1, "contacts_updated_at", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensureQuotesIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColQuotes)
	models := []mongo.IndexModel{
		newIndex("contact_id", 1, "quotes_contact_id", false),
		newIndex("status", 1, "quotes_status", false),
		newIndex("created_at", 1, "quotes_created_at", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensurePoliciesIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColPolicies)
	models := []mongo.IndexModel{
		newIndex("number", 1, "policies_number_unique", true),
		newIndex("quote_id", 1, "policies_quote_id_unique", true),
		newIndex("contact_id", 1, "policies_contact_id", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func newIndex(field string, order int, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: order}},
		Options: opts,
	}
}
