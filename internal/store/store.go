// Package store provides typed access to the shared catalog table,
// isolating handlers from the DynamoDB wire format.
package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gamevault/catalog-api/internal/game"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Key identifies one record in the table.
type Key struct {
	ItemType string
	ItemID   string
}

// Store wraps the catalog table.
type Store struct {
	client DynamoAPI
	table  string
}

// New creates a Store over the given client and table name.
func New(client DynamoAPI, table string) *Store {
	return &Store{client: client, table: table}
}

// NewFromConfig creates a Store with a real DynamoDB client.
func NewFromConfig(cfg aws.Config, table string) *Store {
	return New(dynamodb.NewFromConfig(cfg), table)
}

func (s *Store) key(itemType, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"itemType": &types.AttributeValueMemberS{Value: itemType},
		"itemId":   &types.AttributeValueMemberS{Value: itemID},
	}
}

// Put inserts or fully overwrites the record at the item's key. There is
// no existence precondition: a caller reusing an id silently overwrites.
func (s *Store) Put(ctx context.Context, g game.Game) error {
	item, err := attributevalue.MarshalMap(g)
	if err != nil {
		return fmt.Errorf("marshalling game: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("putting game: %w", err)
	}
	return nil
}

// Get returns the record at the key, or nil when no such record exists.
// Absence is not an error; only transport and service failures are.
func (s *Store) Get(ctx context.Context, itemType, itemID string) (game.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(itemType, itemID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var rec game.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling game: %w", err)
	}
	return rec, nil
}

// UpdateFields replaces exactly the named attributes, leaving all others
// untouched. Field names are arbitrary, including dynamically built ones
// such as translation cache attributes. Returns the full record as it
// stands after the update.
func (s *Store) UpdateFields(ctx context.Context, itemType, itemID string, fields map[string]any) (game.Record, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	var update expression.UpdateBuilder
	for name, value := range fields {
		update = update.Set(expression.Name(name), expression.Value(value))
	}
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, fmt.Errorf("building update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.key(itemType, itemID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("updating game: %w", err)
	}

	var rec game.Record
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling updated game: %w", err)
	}
	return rec, nil
}

// DeleteOne removes the record at the key. Deleting a key that does not
// exist succeeds.
func (s *Store) DeleteOne(ctx context.Context, itemType, itemID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(itemType, itemID),
	})
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	return nil
}

// ScanByType returns all records with the given itemType. When visible is
// non-nil an exact-match filter on the visible attribute is added. Results
// reflect a single scan page; see ScanKeysByType for the same caveat.
func (s *Store) ScanByType(ctx context.Context, itemType string, visible *bool) ([]game.Record, error) {
	filter := expression.Name("itemType").Equal(expression.Value(itemType))
	if visible != nil {
		filter = filter.And(expression.Name("visible").Equal(expression.Value(*visible)))
	}
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("building scan expression: %w", err)
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning games: %w", err)
	}

	records := make([]game.Record, 0, len(out.Items))
	for _, item := range out.Items {
		var rec game.Record
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, fmt.Errorf("unmarshalling scanned game: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ScanKeysByType returns the keys of all records with the given itemType,
// projecting only the key attributes. A single scan page is read; a table
// past the page limit would be enumerated partially, which callers accept.
func (s *Store) ScanKeysByType(ctx context.Context, itemType string) ([]Key, error) {
	filter := expression.Name("itemType").Equal(expression.Value(itemType))
	proj := expression.NamesList(expression.Name("itemType"), expression.Name("itemId"))
	expr, err := expression.NewBuilder().WithFilter(filter).WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("building scan expression: %w", err)
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning game keys: %w", err)
	}

	keys := make([]Key, 0, len(out.Items))
	for _, item := range out.Items {
		var k struct {
			ItemType string `dynamodbav:"itemType"`
			ItemID   string `dynamodbav:"itemId"`
		}
		if err := attributevalue.UnmarshalMap(item, &k); err != nil {
			return nil, fmt.Errorf("unmarshalling game key: %w", err)
		}
		keys = append(keys, Key{ItemType: k.ItemType, ItemID: k.ItemID})
	}
	return keys, nil
}

// DeleteBatch removes all given keys in one BatchWriteItem call. Keys the
// service leaves unprocessed are reported as a single error rather than
// retried.
func (s *Store) DeleteBatch(ctx context.Context, keys []Key) error {
	if len(keys) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, len(keys))
	for i, k := range keys {
		requests[i] = types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: s.key(k.ItemType, k.ItemID)},
		}
	}

	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{s.table: requests},
	})
	if err != nil {
		return fmt.Errorf("batch deleting games: %w", err)
	}
	if unprocessed := len(out.UnprocessedItems[s.table]); unprocessed > 0 {
		return fmt.Errorf("batch delete left %d keys unprocessed", unprocessed)
	}
	return nil
}
