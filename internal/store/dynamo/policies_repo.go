package dynamo

import (
	"context"
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

type InsuredItem struct {
	FirstName              string `dynamodbav:"first_name"`
	LastName               string `dynamodbav:"last_name"`
	Phone                  string `dynamodbav:"phone"`
	Email                  string `dynamodbav:"email"`
	IdentityDocumentType   string `dynamodbav:"identity_document_type"`
	IdentityDocumentNumber string `dynamodbav:"identity_document_number"`
	LinkedContactID        string `dynamodbav:"linked_contact_id,omitempty"`
	LinkedContactType      string `dynamodbav:"linked_contact_type,omitempty"`
}

type PremiumItem struct {
	PrimeNette       int64 `dynamodbav:"prime_nette"`
	FraisAccessoires int64 `dynamodbav:"frais_accessoires"`
	Taxes            int64 `dynamodbav:"taxes"`
	PrimeTTC         int64 `dynamodbav:"prime_ttc"`
	FGA              int64 `dynamodbav:"fga"`
	CEDEAO           int64 `dynamodbav:"cedeao"`
	TotalAPayer      int64 `dynamodbav:"total_a_payer"`
}

type PolicyItem struct {
	ID            string      `dynamodbav:"id"`
	Number        string      `dynamodbav:"number"`
	QuoteID       string      `dynamodbav:"quote_id"`
	ContactID     string      `dynamodbav:"contact_id,omitempty"`
	Product       string      `dynamodbav:"product"`
	Insured       InsuredItem `dynamodbav:"insured"`
	Premium       PremiumItem `dynamodbav:"premium"`
	TotalAPayer   int64       `dynamodbav:"total_a_payer"`
	Status        string      `dynamodbav:"status"`
	EffectiveDate string      `dynamodbav:"effective_date"`
	ExpiryDate    string      `dynamodbav:"expiry_date"`
	IssuedAt      string      `dynamodbav:"issued_at"`
	Documents     []string    `dynamodbav:"documents,omitempty"`
}

func (i PolicyItem) ToCore() core.Policy {
	effectiveDate, _ := time.Parse(time.RFC3339, i.EffectiveDate)
	expiryDate, _ := time.Parse(time.RFC3339, i.ExpiryDate)
	issuedAt, _ := time.Parse(time.RFC3339, i.IssuedAt)
	return core.Policy{
		ID:        i.ID,
		Number:    i.Number,
		QuoteID:   i.QuoteID,
		ContactID: i.ContactID,
		Product:   core.ProductCode(i.Product),
		Insured: core.ClientIdentification{
			FirstName:              i.Insured.FirstName,
			LastName:               i.Insured.LastName,
			Phone:                  i.Insured.Phone,
			Email:                  i.Insured.Email,
			IdentityDocumentType:   i.Insured.IdentityDocumentType,
			IdentityDocumentNumber: i.Insured.IdentityDocumentNumber,
			LinkedContactID:        i.Insured.LinkedContactID,
			LinkedContactType:      core.ContactType(i.Insured.LinkedContactType),
		},
		Premium: core.PremiumBreakdown{
			PrimeNette:       i.Premium.PrimeNette,
			FraisAccessoires: i.Premium.FraisAccessoires,
			Taxes:            i.Premium.Taxes,
			PrimeTTC:         i.Premium.PrimeTTC,
			FGA:              i.Premium.FGA,
			CEDEAO:           i.Premium.CEDEAO,
			TotalAPayer:      i.Premium.TotalAPayer,
		},
		TotalAPayer:   i.TotalAPayer,
		Status:        core.PolicyStatus(i.Status),
		EffectiveDate: effectiveDate,
		ExpiryDate:    expiryDate,
		IssuedAt:      issuedAt,
		Documents:     i.Documents,
	}
}

func policyItemFromCore(p core.Policy) PolicyItem {
	return PolicyItem{
		ID:        p.ID,
		Number:    p.Number,
		QuoteID:   p.QuoteID,
		ContactID: p.ContactID,
		Product:   string(p.Product),
		Insured: InsuredItem{
			FirstName:              p.Insured.FirstName,
			LastName:               p.Insured.LastName,
			Phone:                  p.Insured.Phone,
			Email:                  p.Insured.Email,
			IdentityDocumentType:   p.Insured.IdentityDocumentType,
			IdentityDocumentNumber: p.Insured.IdentityDocumentNumber,
			LinkedContactID:        p.Insured.LinkedContactID,
			LinkedContactType:      string(p.Insured.LinkedContactType),
		},
		Premium: PremiumItem{
			PrimeNette:       p.Premium.PrimeNette,
			FraisAccessoires: p.Premium.FraisAccessoires,
			Taxes:            p.Premium.Taxes,
			PrimeTTC:         p.Premium.PrimeTTC,
			FGA:              p.Premium.FGA,
			CEDEAO:           p.Premium.CEDEAO,
			TotalAPayer:      p.Premium.TotalAPayer,
		},
		TotalAPayer:   p.TotalAPayer,
		Status:        string(p.Status),
		EffectiveDate: p.EffectiveDate.Format(time.RFC3339),
		ExpiryDate:    p.ExpiryDate.Format(time.RFC3339),
		IssuedAt:      p.IssuedAt.Format(time.RFC3339),
		Documents:     p.Documents,
	}
}

type PolicyRepo struct {
	client *dynamodb.Client
	clock  func() time.Time
}

func NewPolicyRepo(client *dynamodb.Client) *PolicyRepo {
	return &PolicyRepo{client: client, clock: time.Now}
}

func (r *PolicyRepo) Create(ctx context.Context, policy core.Policy) error {
	item := policyItemFromCore(policy)
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("policies.marshal: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("policies.buildExpr: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(TablePolicies),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return core.ErrPolicyExists
		}
		return fmt.Errorf("policies.putItem: %w", err)
	}

	return nil
}

func (r *PolicyRepo) Get(ctx context.Context, id string) (core.Policy, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TablePolicies),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Policy{}, fmt.Errorf("policies.getItem: %w", err)
	}

	if out.Item == nil {
		return core.Policy{}, core.ErrPolicyNotFound
	}

	var item PolicyItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Policy{}, fmt.Errorf("policies.unmarshal: %w", err)
	}

	return item.ToCore(), nil
}

func (r *PolicyRepo) GetByNumber(ctx context.Context, number string) (core.Policy, error) {
	return r.queryOne(ctx, GSIPoliciesNumber, "#number", "number", number)
}

func (r *PolicyRepo) GetByQuoteID(ctx context.Context, quoteID string) (core.Policy, error) {
	return r.queryOne(ctx, GSIPoliciesQuote, "quote_id", "", quoteID)
}

func (r *PolicyRepo) queryOne(ctx context.Context, index, keyExpr, keyAlias, value string) (core.Policy, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(TablePolicies),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(keyExpr + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(1),
	}
	if keyAlias != "" {
		input.ExpressionAttributeNames = map[string]string{keyExpr: keyAlias}
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return core.Policy{}, fmt.Errorf("policies.query: %w", err)
	}

	if len(out.Items) == 0 {
		return core.Policy{}, core.ErrPolicyNotFound
	}

	var item PolicyItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return core.Policy{}, fmt.Errorf("policies.unmarshal: %w", err)
	}

	return item.ToCore(), nil
}

func (r *PolicyRepo) List(ctx context.Context, filter core.PolicyFilter, limit, offset int) ([]core.Policy, int64, error) {
	var filterExpr expression.ConditionBuilder
	hasFilter := false

	if filter.ContactID != "" {
		filterExpr = expression.Name("contact_id").Equal(expression.Value(filter.ContactID))
		hasFilter = true
	}
	if filter.Status != "" {
		statusFilter := expression.Name("status").Equal(expression.Value(string(filter.Status)))
		if hasFilter {
			filterExpr = filterExpr.And(statusFilter)
		} else {
			filterExpr = statusFilter
			hasFilter = true
		}
	}

	scanInput := &dynamodb.ScanInput{
		TableName: aws.String(TablePolicies),
	}
	if hasFilter {
		expr, err := expression.NewBuilder().WithFilter(filterExpr).Build()
		if err != nil {
			return nil, 0, fmt.Errorf("policies.buildExpr: %w", err)
		}
		scanInput.FilterExpression = expr.Filter()
		scanInput.ExpressionAttributeNames = expr.Names()
		scanInput.ExpressionAttributeValues = expr.Values()
	}

	out, err := r.client.Scan(ctx, scanInput)
	if err != nil {
		return nil, 0, fmt.Errorf("policies.scan: %w", err)
	}

	var items []PolicyItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, 0, fmt.Errorf("policies.unmarshal: %w", err)
	}

	total := int64(len(items))

	if offset >= len(items) {
		return []core.Policy{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	items = items[offset:end]

	policies := make([]core.Policy, len(items))
	for i, item := range items {
		policies[i] = item.ToCore()
	}

	return policies, total, nil
}

func (r *PolicyRepo) NextPolicyNumber(ctx context.Context) (string, error) {
	year := r.clock().Year()
	counterName := fmt.Sprintf("policy_%d", year)

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(TableCounters),
		Key: map[string]types.AttributeValue{
			"counter_name": &types.AttributeValueMemberS{Value: counterName},
		},
		UpdateExpression: aws.String("SET counter_value = if_not_exists(counter_value, :zero) + :inc"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero": &types.AttributeValueMemberN{Value: "0"},
			":inc":  &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return "", fmt.Errorf("counters.updateItem: %w", err)
	}

	counterValue, ok := out.Attributes["counter_value"].(*types.AttributeValueMemberN)
	if !ok {
		return "", fmt.Errorf("counters.updateItem: missing counter_value")
	}
	var num int
	fmt.Sscanf(counterValue.Value, "%d", &num)
	return fmt.Sprintf("POL-%d-%06d", year, num), nil
}
