package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/catalog-api/internal/game"
)

// fakeDynamo implements DynamoAPI with pluggable responses.
type fakeDynamo struct {
	putItem        func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	getItem        func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	updateItem     func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	deleteItem     func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	scan           func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	batchWriteItem func(*dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error)
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.putItem(params)
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return f.getItem(params)
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return f.updateItem(params)
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return f.deleteItem(params)
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return f.scan(params)
}

func (f *fakeDynamo) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return f.batchWriteItem(params)
}

func keyString(t *testing.T, key map[string]types.AttributeValue, name string) string {
	t.Helper()
	av, ok := key[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "key %q should be a string attribute", name)
	return av.Value
}

func TestPut(t *testing.T) {
	var got *dynamodb.PutItemInput
	fake := &fakeDynamo{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			got = in
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	s := New(fake, "games-table")

	err := s.Put(context.Background(), game.Game{
		ItemType: "game",
		ItemID:   "game#1",
		Title:    "Hades",
		Visible:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, "games-table", aws.ToString(got.TableName))
	assert.Equal(t, "game", keyString(t, got.Item, "itemType"))
	assert.Equal(t, "game#1", keyString(t, got.Item, "itemId"))
	assert.Equal(t, "Hades", keyString(t, got.Item, "title"))
}

func TestGet(t *testing.T) {
	t.Run("absent item is nil, not an error", func(t *testing.T) {
		fake := &fakeDynamo{
			getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
				return &dynamodb.GetItemOutput{}, nil
			},
		}
		s := New(fake, "games-table")

		rec, err := s.Get(context.Background(), "game", "game#missing")

		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("item round-trips with dynamic attributes", func(t *testing.T) {
		fake := &fakeDynamo{
			getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
				assert.Equal(t, "game", keyString(t, in.Key, "itemType"))
				assert.Equal(t, "game#1", keyString(t, in.Key, "itemId"))
				return &dynamodb.GetItemOutput{
					Item: map[string]types.AttributeValue{
						"itemId":      &types.AttributeValueMemberS{Value: "game#1"},
						"rating":      &types.AttributeValueMemberN{Value: "9.5"},
						"visible":     &types.AttributeValueMemberBOOL{Value: true},
						"overview_fr": &types.AttributeValueMemberS{Value: "Bonjour"},
					},
				}, nil
			},
		}
		s := New(fake, "games-table")

		rec, err := s.Get(context.Background(), "game", "game#1")

		require.NoError(t, err)
		assert.Equal(t, "game#1", rec["itemId"])
		assert.Equal(t, 9.5, rec["rating"])
		assert.Equal(t, true, rec["visible"])
		assert.Equal(t, "Bonjour", rec["overview_fr"])
	})

	t.Run("service failure is surfaced", func(t *testing.T) {
		fake := &fakeDynamo{
			getItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
				return nil, errors.New("service unavailable")
			},
		}
		s := New(fake, "games-table")

		_, err := s.Get(context.Background(), "game", "game#1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "service unavailable")
	})
}

func TestUpdateFields(t *testing.T) {
	t.Run("dynamic field names reach the update expression", func(t *testing.T) {
		var got *dynamodb.UpdateItemInput
		fake := &fakeDynamo{
			updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
				got = in
				return &dynamodb.UpdateItemOutput{
					Attributes: map[string]types.AttributeValue{
						"itemId":      &types.AttributeValueMemberS{Value: "game#1"},
						"overview_fr": &types.AttributeValueMemberS{Value: "Bonjour"},
					},
				}, nil
			},
		}
		s := New(fake, "games-table")

		rec, err := s.UpdateFields(context.Background(), "game", "game#1", map[string]any{
			"overview_fr": "Bonjour",
		})

		require.NoError(t, err)
		assert.Equal(t, "Bonjour", rec["overview_fr"])
		assert.Equal(t, types.ReturnValueAllNew, got.ReturnValues)
		assert.Contains(t, *got.UpdateExpression, "SET")

		names := make([]string, 0, len(got.ExpressionAttributeNames))
		for _, n := range got.ExpressionAttributeNames {
			names = append(names, n)
		}
		assert.Contains(t, names, "overview_fr")
	})

	t.Run("empty field set is rejected before any call", func(t *testing.T) {
		s := New(&fakeDynamo{}, "games-table")

		_, err := s.UpdateFields(context.Background(), "game", "game#1", nil)

		require.Error(t, err)
	})
}

func TestDeleteOne(t *testing.T) {
	var got *dynamodb.DeleteItemInput
	fake := &fakeDynamo{
		deleteItem: func(in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
			got = in
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}
	s := New(fake, "games-table")

	require.NoError(t, s.DeleteOne(context.Background(), "game", "game#1"))
	assert.Equal(t, "game#1", keyString(t, got.Key, "itemId"))
}

func TestScanByType(t *testing.T) {
	t.Run("visibility filter lands in the expression", func(t *testing.T) {
		var got *dynamodb.ScanInput
		fake := &fakeDynamo{
			scan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				got = in
				return &dynamodb.ScanOutput{}, nil
			},
		}
		s := New(fake, "games-table")
		visible := true

		records, err := s.ScanByType(context.Background(), "game", &visible)

		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NotNil(t, records, "no rows should still marshal as an empty list")

		names := make([]string, 0, len(got.ExpressionAttributeNames))
		for _, n := range got.ExpressionAttributeNames {
			names = append(names, n)
		}
		assert.Contains(t, names, "itemType")
		assert.Contains(t, names, "visible")
	})

	t.Run("no filter leaves visibility out", func(t *testing.T) {
		var got *dynamodb.ScanInput
		fake := &fakeDynamo{
			scan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				got = in
				return &dynamodb.ScanOutput{}, nil
			},
		}
		s := New(fake, "games-table")

		_, err := s.ScanByType(context.Background(), "game", nil)

		require.NoError(t, err)
		for _, n := range got.ExpressionAttributeNames {
			assert.NotEqual(t, "visible", n)
		}
	})
}

func TestScanKeysByType(t *testing.T) {
	fake := &fakeDynamo{
		scan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			require.NotNil(t, in.ProjectionExpression)
			return &dynamodb.ScanOutput{
				Items: []map[string]types.AttributeValue{
					{
						"itemType": &types.AttributeValueMemberS{Value: "game"},
						"itemId":   &types.AttributeValueMemberS{Value: "game#1"},
					},
					{
						"itemType": &types.AttributeValueMemberS{Value: "game"},
						"itemId":   &types.AttributeValueMemberS{Value: "game#2"},
					},
				},
			}, nil
		},
	}
	s := New(fake, "games-table")

	keys, err := s.ScanKeysByType(context.Background(), "game")

	require.NoError(t, err)
	assert.Equal(t, []Key{
		{ItemType: "game", ItemID: "game#1"},
		{ItemType: "game", ItemID: "game#2"},
	}, keys)
}

func TestDeleteBatch(t *testing.T) {
	t.Run("all keys go out in one request", func(t *testing.T) {
		var got *dynamodb.BatchWriteItemInput
		fake := &fakeDynamo{
			batchWriteItem: func(in *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error) {
				got = in
				return &dynamodb.BatchWriteItemOutput{}, nil
			},
		}
		s := New(fake, "games-table")

		err := s.DeleteBatch(context.Background(), []Key{
			{ItemType: "game", ItemID: "game#1"},
			{ItemType: "game", ItemID: "game#2"},
		})

		require.NoError(t, err)
		require.Len(t, got.RequestItems["games-table"], 2)
		for _, req := range got.RequestItems["games-table"] {
			require.NotNil(t, req.DeleteRequest)
		}
	})

	t.Run("no keys issues no call", func(t *testing.T) {
		s := New(&fakeDynamo{}, "games-table")
		require.NoError(t, s.DeleteBatch(context.Background(), nil))
	})

	t.Run("unprocessed keys become an error", func(t *testing.T) {
		fake := &fakeDynamo{
			batchWriteItem: func(in *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error) {
				return &dynamodb.BatchWriteItemOutput{
					UnprocessedItems: map[string][]types.WriteRequest{
						"games-table": in.RequestItems["games-table"][:1],
					},
				}, nil
			},
		}
		s := New(fake, "games-table")

		err := s.DeleteBatch(context.Background(), []Key{{ItemType: "game", ItemID: "game#1"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unprocessed")
	})
}
