package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sahelassur/courtage/internal/core"
)

// QuoteItem stores the wizard state as a JSON blob: it is an opaque document
// to the store, read and written whole, and its nested maps do not need to be
// queryable attribute by attribute.
type QuoteItem struct {
	ID          string `dynamodbav:"id"`
	ContactID   string `dynamodbav:"contact_id,omitempty"`
	ContactType string `dynamodbav:"contact_type,omitempty"`
	Product     string `dynamodbav:"product"`
	State       string `dynamodbav:"state"`
	TotalAPayer int64  `dynamodbav:"total_a_payer"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
	ExpiresAt   string `dynamodbav:"expires_at"`
	SignedAt    string `dynamodbav:"signed_at,omitempty"`
}

func (i QuoteItem) ToCore() (core.Quote, error) {
	var state core.WizardState
	if err := json.Unmarshal([]byte(i.State), &state); err != nil {
		return core.Quote{}, fmt.Errorf("quotes.decodeState: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339, i.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, i.UpdatedAt)
	expiresAt, _ := time.Parse(time.RFC3339, i.ExpiresAt)

	q := core.Quote{
		ID:          i.ID,
		ContactID:   i.ContactID,
		ContactType: core.ContactType(i.ContactType),
		Product:     core.ProductCode(i.Product),
		State:       state,
		TotalAPayer: i.TotalAPayer,
		Status:      core.QuoteStatus(i.Status),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		ExpiresAt:   expiresAt,
	}
	if i.SignedAt != "" {
		if t, err := time.Parse(time.RFC3339, i.SignedAt); err == nil {
			q.SignedAt = &t
		}
	}
	return q, nil
}

func quoteItemFromCore(q core.Quote) (QuoteItem, error) {
	state, err := json.Marshal(q.State)
	if err != nil {
		return QuoteItem{}, fmt.Errorf("quotes.encodeState: %w", err)
	}

	item := QuoteItem{
		ID:          q.ID,
		ContactID:   q.ContactID,
		ContactType: string(q.ContactType),
		Product:     string(q.Product),
		State:       string(state),
		TotalAPayer: q.TotalAPayer,
		Status:      string(q.Status),
		CreatedAt:   q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   q.UpdatedAt.Format(time.RFC3339),
		ExpiresAt:   q.ExpiresAt.Format(time.RFC3339),
	}
	if q.SignedAt != nil {
		item.SignedAt = q.SignedAt.Format(time.RFC3339)
	}
	return item, nil
}

type QuoteRepo struct {
	client *dynamodb.Client
}

func NewQuoteRepo(client *dynamodb.Client) *QuoteRepo {
	return &QuoteRepo{client: client}
}

func (r *QuoteRepo) Create(ctx context.Context, q core.Quote) error {
	item, err := quoteItemFromCore(q)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("quotes.marshal: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("quotes.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TableQuotes),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return core.ErrConflict
		}
		return fmt.Errorf("quotes.putItem: %w", err)
	}

	return nil
}

func (r *QuoteRepo) Get(ctx context.Context, id string) (core.Quote, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableQuotes),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Quote{}, fmt.Errorf("quotes.getItem: %w", err)
	}

	if out.Item == nil {
		return core.Quote{}, core.ErrQuoteNotFound
	}

	var item QuoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Quote{}, fmt.Errorf("quotes.unmarshal: %w", err)
	}

	return item.ToCore()
}

func (r *QuoteRepo) Update(ctx context.Context, q core.Quote) error {
	item, err := quoteItemFromCore(q)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("quotes.marshal: %w", err)
	}

	cond := expression.AttributeExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("quotes.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TableQuotes),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return core.ErrQuoteNotFound
		}
		return fmt.Errorf("quotes.putItem: %w", err)
	}

	return nil
}

func (r *QuoteRepo) UpdateStatus(ctx context.Context, id string, status core.QuoteStatus, updatedAt time.Time) error {
	cond := expression.AttributeExists(expression.Name("id"))
	update := expression.Set(expression.Name("status"), expression.Value(string(status))).
		Set(expression.Name("updated_at"), expression.Value(updatedAt.Format(time.RFC3339)))
	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("quotes.buildExpr: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(TableQuotes),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return core.ErrQuoteNotFound
		}
		return fmt.Errorf("quotes.updateItem: %w", err)
	}

	return nil
}

func (r *QuoteRepo) List(ctx context.Context, filter core.QuoteFilter, limit int) ([]core.Quote, error) {
	if filter.ContactID != "" {
		return r.queryIndex(ctx, GSIQuotesContact, "contact_id", filter.ContactID, string(filter.Status), limit)
	}
	if filter.Status != "" {
		return r.queryIndex(ctx, GSIQuotesStatus, "#status", string(filter.Status), "", limit)
	}

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(TableQuotes),
	})
	if err != nil {
		return nil, fmt.Errorf("quotes.scan: %w", err)
	}

	return r.decodeItems(out.Items, limit)
}

func (r *QuoteRepo) FindByStatus(ctx context.Context, status core.QuoteStatus, limit int) ([]core.Quote, error) {
	return r.queryIndex(ctx, GSIQuotesStatus, "#status", string(status), "", limit)
}

func (r *QuoteRepo) queryIndex(ctx context.Context, index, keyName, keyValue, statusFilter string, limit int) ([]core.Quote, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(TableQuotes),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(keyName + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: keyValue},
		},
	}
	if keyName == "#status" {
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
	}
	if statusFilter != "" {
		input.FilterExpression = aws.String("#status = :status")
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
		input.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: statusFilter}
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("quotes.query: %w", err)
	}

	return r.decodeItems(out.Items, limit)
}

func (r *QuoteRepo) decodeItems(raw []map[string]types.AttributeValue, limit int) ([]core.Quote, error) {
	var items []QuoteItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("quotes.unmarshal: %w", err)
	}

	quotes := make([]core.Quote, 0, len(items))
	for _, item := range items {
		q, err := item.ToCore()
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
		if limit > 0 && len(quotes) >= limit {
			break
		}
	}

	return quotes, nil
}
