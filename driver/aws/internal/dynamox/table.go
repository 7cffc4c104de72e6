package dynamox

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/awsx"
)

// KeyAttr describes an attribute that is part of a table's primary key.
type KeyAttr struct {
	Name    *string
	Type    types.ScalarAttributeType
	KeyType types.KeyType
}

// CreateTableIfNotExists creates a DynamoDB table if it does not already
// exist.
func CreateTableIfNotExists(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
	onRequest func(any) []func(*dynamodb.Options),
	keys ...KeyAttr,
) error {
	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
	}

	for _, k := range keys {
		in.AttributeDefinitions = append(
			in.AttributeDefinitions,
			types.AttributeDefinition{
				AttributeName: k.Name,
				AttributeType: k.Type,
			},
		)

		in.KeySchema = append(
			in.KeySchema,
			types.KeySchemaElement{
				AttributeName: k.Name,
				KeyType:       k.KeyType,
			},
		)
	}

	if _, err := awsx.Do(ctx, client.CreateTable, onRequest, in); err != nil {
		if !errors.As(err, new(*types.ResourceInUseException)) {
			return err
		}
	}

	return nil
}

// DeleteTableIfExists deletes a DynamoDB table if it exists.
func DeleteTableIfExists(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
	onRequest func(any) []func(*dynamodb.Options),
) error {
	if _, err := awsx.Do(
		ctx,
		client.DeleteTable,
		onRequest,
		&dynamodb.DeleteTableInput{
			TableName: aws.String(table),
		},
	); err != nil {
		if !errors.As(err, new(*types.ResourceNotFoundException)) {
			return err
		}
	}

	return nil
}
