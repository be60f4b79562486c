package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sahelassur/courtage/internal/core"
)

type ContactItem struct {
	ID          string `dynamodbav:"id"`
	Type        string `dynamodbav:"type"`
	FirstName   string `dynamodbav:"first_name"`
	LastName    string `dynamodbav:"last_name"`
	Phone       string `dynamodbav:"phone"`
	Email       string `dynamodbav:"email"`
	City        string `dynamodbav:"city,omitempty"`
	Source      string `dynamodbav:"source,omitempty"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
	LastContact string `dynamodbav:"last_contact,omitempty"`
}

func (i ContactItem) ToCore() core.ContactRecord {
	createdAt, _ := time.Parse(time.RFC3339, i.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, i.UpdatedAt)
	c := core.ContactRecord{
		ID:        i.ID,
		Type:      core.ContactType(i.Type),
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Phone:     i.Phone,
		Email:     i.Email,
		City:      i.City,
		Source:    i.Source,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if i.LastContact != "" {
		if t, err := time.Parse(time.RFC3339, i.LastContact); err == nil {
			c.LastContact = &t
		}
	}
	return c
}

func contactItemFromCore(c core.ContactRecord) ContactItem {
	item := ContactItem{
		ID:        c.ID,
		Type:      string(c.Type),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		City:      c.City,
		Source:    c.Source,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
	if c.LastContact != nil {
		item.LastContact = c.LastContact.Format(time.RFC3339)
	}
	return item
}

type ContactRepo struct {
	client *dynamodb.Client
}

func NewContactRepo(client *dynamodb.Client) *ContactRepo {
	return &ContactRepo{client: client}
}

func (r *ContactRepo) Create(ctx context.Context, c core.ContactRecord) error {
	item := contactItemFromCore(c)
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("contacts.marshal: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("contacts.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TableContacts),
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
		return fmt.Errorf("contacts.putItem: %w", err)
	}

	return nil
}

func (r *ContactRepo) Get(ctx context.Context, id string, typ core.ContactType) (core.ContactRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableContacts),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.ContactRecord{}, fmt.Errorf("contacts.getItem: %w", err)
	}

	if out.Item == nil {
		return core.ContactRecord{}, core.ErrContactNotFound
	}

	var item ContactItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.ContactRecord{}, fmt.Errorf("contacts.unmarshal: %w", err)
	}

	if typ != "" && item.Type != string(typ) {
		return core.ContactRecord{}, core.ErrContactNotFound
	}

	return item.ToCore(), nil
}

func (r *ContactRepo) Search(ctx context.Context, query string, limit int) ([]core.ContactSummary, error) {
	// Scan with a contains filter; the book of business is small enough that
	// a full scan per search stays cheap. Case folding happens client side
	// because DynamoDB contains() is case sensitive.
	q := strings.ToLower(strings.TrimSpace(query))

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(TableContacts),
	})
	if err != nil {
		return nil, fmt.Errorf("contacts.scan: %w", err)
	}

	var items []ContactItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("contacts.unmarshal: %w", err)
	}

	summaries := make([]core.ContactSummary, 0, limit)
	for _, item := range items {
		if q != "" && !contactMatches(item, q) {
			continue
		}
		summaries = append(summaries, item.ToCore().Summary())
		if limit > 0 && len(summaries) >= limit {
			break
		}
	}

	return summaries, nil
}

func contactMatches(item ContactItem, q string) bool {
	return strings.Contains(strings.ToLower(item.FirstName), q) ||
		strings.Contains(strings.ToLower(item.LastName), q) ||
		strings.Contains(strings.ToLower(item.Email), q) ||
		strings.Contains(item.Phone, q)
}

func (r *ContactRepo) Update(ctx context.Context, c core.ContactRecord) error {
	item := contactItemFromCore(c)
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("contacts.marshal: %w", err)
	}

	cond := expression.AttributeExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("contacts.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TableContacts),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return core.ErrContactNotFound
		}
		return fmt.Errorf("contacts.putItem: %w", err)
	}

	return nil
}
