package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoStore stores order records in DynamoDB. A fixed partition key plus
// the RFC3339 creation timestamp as sort key makes date-range listing a
// single Query.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoOrder is the DynamoDB item structure. Items are kept as a JSON blob,
// mirroring the JSONB column of the PostgreSQL store.
type dynamoOrder struct {
	PK        string  `dynamodbav:"pk"`
	CreatedAt string  `dynamodbav:"created_at"`
	ID        string  `dynamodbav:"id"`
	Items     string  `dynamodbav:"items"`
	Total     float64 `dynamodbav:"total"`
	Source    string  `dynamodbav:"source"`
	Status    string  `dynamodbav:"status"`
}

const dynamoOrdersPK = "ORDERS"

func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func (s *DynamoStore) Create(ctx context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}

	itemsJSON, err := json.Marshal(r.Items)
	if err != nil {
		return "", err
	}

	item := dynamoOrder{
		PK:        dynamoOrdersPK,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID:        r.ID,
		Items:     string(itemsJSON),
		Total:     r.Total,
		Source:    r.Source,
		Status:    string(r.Status),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put order: %w", err)
	}
	return r.ID, nil
}

func (s *DynamoStore) List(ctx context.Context, from, to time.Time) ([]Record, error) {
	keyCondition := "pk = :pk"
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: dynamoOrdersPK},
	}
	switch {
	case !from.IsZero() && !to.IsZero():
		keyCondition += " AND created_at BETWEEN :from AND :to"
		values[":from"] = &types.AttributeValueMemberS{Value: from.UTC().Format(time.RFC3339Nano)}
		values[":to"] = &types.AttributeValueMemberS{Value: to.UTC().Format(time.RFC3339Nano)}
	case !from.IsZero():
		keyCondition += " AND created_at >= :from"
		values[":from"] = &types.AttributeValueMemberS{Value: from.UTC().Format(time.RFC3339Nano)}
	case !to.IsZero():
		keyCondition += " AND created_at <= :to"
		values[":to"] = &types.AttributeValueMemberS{Value: to.UTC().Format(time.RFC3339Nano)}
	}

	var records []Record
	var lastKey map[string]types.AttributeValue
	for {
		result, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    aws.String(keyCondition),
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query orders: %w", err)
		}

		for _, item := range result.Items {
			var d dynamoOrder
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				return nil, fmt.Errorf("failed to unmarshal order: %w", err)
			}
			r := Record{
				ID:     d.ID,
				Total:  d.Total,
				Source: d.Source,
				Status: Status(d.Status),
			}
			if t, err := time.Parse(time.RFC3339Nano, d.CreatedAt); err == nil {
				r.CreatedAt = t
			}
			if err := json.Unmarshal([]byte(d.Items), &r.Items); err != nil {
				r.Items = nil
			}
			records = append(records, r)
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	// Newest first, matching the PostgreSQL store ordering.
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}
