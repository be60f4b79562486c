package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/sahelassur/courtage/internal/core"
	"github.com/sahelassur/courtage/internal/platform/config"
	"github.com/sahelassur/courtage/internal/platform/ids"
	"github.com/sahelassur/courtage/internal/platform/logging"
	"github.com/sahelassur/courtage/internal/store/dynamo"
	"github.com/sahelassur/courtage/internal/store/mongo"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var repo core.ProductRepo

	switch cfg.DBType {
	case "dynamodb":
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Error("failed to connect to DynamoDB", "err", err)
			return
		}
		if err := dynamo.EnsureTables(ctx, client.DB, log); err != nil {
			log.Error("failed to ensure DynamoDB tables", "err", err)
			return
		}
		repo = dynamo.NewProductRepo(client.DB)

	default:
		client, err := mongo.NewClient(cfg)
		if err != nil {
			log.Error("failed to connect to MongoDB", "err", err)
			return
		}
		defer client.Close(ctx)
		if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
			log.Error("failed to ensure MongoDB indexes", "err", err)
			return
		}
		repo = mongo.NewProductRepo(client.DB, 5*time.Second)
	}

	log.Info("seeding product catalog")
	seedProducts(ctx, repo, log)
	log.Info("done seeding")
}

func seedProducts(ctx context.Context, repo core.ProductRepo, log *slog.Logger) {
	products := []core.Product{
		{
			ID:          ids.New(),
			Code:        core.ProductAuto,
			Category:    core.CategoryNonVie,
			Name:        "Assurance Automobile",
			Description: "Responsabilité civile obligatoire, formules basic, standard et premium, options complémentaires.",
			Active:      true,
		},
		{
			ID:          ids.New(),
			Code:        core.ProductPackObseques,
			Category:    core.CategoryVie,
			Name:        "Pack Obsèques",
			Description: "Capital garanti bronze, argent ou or, adhésion individuelle ou famille.",
			Active:      true,
		},
	}

	for _, p := range products {
		if err := repo.UpsertByCode(ctx, p); err != nil {
			log.Error("failed to seed product", "code", p.Code, "err", err)
		} else {
			log.Info("seeded product", "code", p.Code, "name", p.Name)
		}
	}
}
