package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sahelassur/courtage/internal/core"
)

type ProductItem struct {
	ID          string `dynamodbav:"id"`
	Code        string `dynamodbav:"code"`
	Category    string `dynamodbav:"category"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description"`
	Active      bool   `dynamodbav:"active"`
}

func (i ProductItem) ToCore() core.Product {
	return core.Product{
		ID:          i.ID,
		Code:        core.ProductCode(i.Code),
		Category:    core.ProductCategory(i.Category),
		Name:        i.Name,
		Description: i.Description,
		Active:      i.Active,
	}
}

func productItemFromCore(p core.Product) ProductItem {
	return ProductItem{
		ID:          p.ID,
		Code:        string(p.Code),
		Category:    string(p.Category),
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}
}

type ProductRepo struct {
	client *dynamodb.Client
}

func NewProductRepo(client *dynamodb.Client) *ProductRepo {
	return &ProductRepo{client: client}
}

func (r *ProductRepo) List(ctx context.Context) ([]core.Product, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(TableProducts),
	})
	if err != nil {
		return nil, fmt.Errorf("products.scan: %w", err)
	}

	var items []ProductItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("products.unmarshal: %w", err)
	}

	products := make([]core.Product, len(items))
	for i, item := range items {
		products[i] = item.ToCore()
	}

	return products, nil
}

func (r *ProductRepo) GetByCode(ctx context.Context, code core.ProductCode) (core.Product, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(TableProducts),
		IndexName:              aws.String(GSIProductsCode),
		KeyConditionExpression: aws.String("code = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: string(code)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return core.Product{}, fmt.Errorf("products.query: %w", err)
	}

	if len(out.Items) == 0 {
		return core.Product{}, core.ErrProductNotFound
	}

	var item ProductItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return core.Product{}, fmt.Errorf("products.unmarshal: %w", err)
	}

	return item.ToCore(), nil
}

func (r *ProductRepo) UpsertByCode(ctx context.Context, p core.Product) error {
	existing, err := r.GetByCode(ctx, p.Code)
	if err == nil {
		p.ID = existing.ID
	}

	item := productItemFromCore(p)
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("products.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableProducts),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("products.putItem: %w", err)
	}

	return nil
}
