package dynamocolumn

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/preferencekit/column"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/awsx"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/dynamox"
	"github.com/dogmatiq/preferencekit/marshaler"
)

// col is an implementation of [column.Column] that stores each record's packed
// value as an item in a DynamoDB table.
//
// Request inputs are built per call, so a col is safe for concurrent use.
type col struct {
	Client    *dynamodb.Client
	OnRequest func(any) []func(*dynamodb.Options)

	table string
	name  string
}

func (c *col) Name() string {
	return c.name
}

func (c *col) Load(ctx context.Context, id string) (uint64, bool, error) {
	out, err := awsx.Do(
		ctx,
		c.Client.GetItem,
		c.OnRequest,
		&dynamodb.GetItemInput{
			TableName:            &c.table,
			Key:                  c.key(id),
			ProjectionExpression: aws.String(`#V`),
			ExpressionAttributeNames: map[string]string{
				"#V": valueAttr,
			},
		},
	)
	if err != nil || out.Item == nil {
		return 0, false, err
	}

	packed, err := unmarshalValue(out.Item)
	if err != nil {
		return 0, false, err
	}

	return packed, true, nil
}

func (c *col) Save(ctx context.Context, id string, packed uint64) error {
	data, err := marshaler.Decimal.Marshal(packed)
	if err != nil {
		return err
	}

	item := c.key(id)
	item[valueAttr] = &types.AttributeValueMemberN{Value: string(data)}

	_, err = awsx.Do(
		ctx,
		c.Client.PutItem,
		c.OnRequest,
		&dynamodb.PutItemInput{
			TableName: &c.table,
			Item:      item,
		},
	)

	return err
}

func (c *col) Delete(ctx context.Context, id string) error {
	_, err := awsx.Do(
		ctx,
		c.Client.DeleteItem,
		c.OnRequest,
		&dynamodb.DeleteItemInput{
			TableName: &c.table,
			Key:       c.key(id),
		},
	)

	return err
}

func (c *col) Range(ctx context.Context, fn column.RangeFunc) error {
	return dynamox.Range(
		ctx,
		c.Client,
		c.OnRequest,
		&dynamodb.QueryInput{
			TableName:              &c.table,
			KeyConditionExpression: aws.String(`#C = :C`),
			ProjectionExpression:   aws.String("#I, #V"),
			ExpressionAttributeNames: map[string]string{
				"#C": columnAttr,
				"#I": idAttr,
				"#V": valueAttr,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":C": &types.AttributeValueMemberS{Value: c.name},
			},
		},
		func(ctx context.Context, item map[string]types.AttributeValue) (bool, error) {
			id, err := dynamox.AttrAs[*types.AttributeValueMemberS](item, idAttr)
			if err != nil {
				return false, err
			}

			packed, err := unmarshalValue(item)
			if err != nil {
				return false, err
			}

			return fn(ctx, id.Value, packed)
		},
	)
}

func (c *col) Close() error {
	return nil
}

// key returns the primary key of the item for the given record ID.
func (c *col) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		columnAttr: &types.AttributeValueMemberS{Value: c.name},
		idAttr:     &types.AttributeValueMemberS{Value: id},
	}
}

func unmarshalValue(item map[string]types.AttributeValue) (uint64, error) {
	v, err := dynamox.AttrAs[*types.AttributeValueMemberN](item, valueAttr)
	if err != nil {
		return 0, err
	}

	packed, err := marshaler.Decimal.Unmarshal([]byte(v.Value))
	if err != nil {
		return 0, fmt.Errorf("item is corrupt: invalid packed value: %w", err)
	}

	return packed, nil
}
