package dynamocolumn

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/preferencekit/driver/aws/internal/dynamox"
)

var (
	// columnAttr is the name of the attribute that stores the column name on
	// each item. Together with [idAttr], it forms the primary key of the
	// table.
	columnAttr = "C"

	// idAttr is the name of the attribute that stores the record ID on each
	// item. Together with [columnAttr], it forms the primary key of the table.
	idAttr = "I"

	// valueAttr is the name of the attribute that stores the packed value on
	// each item, as a number.
	valueAttr = "V"
)

// createTable creates the DynamoDB table if it does not already exist.
func (s *store) createTable(ctx context.Context) error {
	return dynamox.CreateTableIfNotExists(
		ctx,
		s.Client,
		s.Table,
		s.OnRequest,
		dynamox.KeyAttr{
			Name:    &columnAttr,
			Type:    types.ScalarAttributeTypeS,
			KeyType: types.KeyTypeHash,
		},
		dynamox.KeyAttr{
			Name:    &idAttr,
			Type:    types.ScalarAttributeTypeS,
			KeyType: types.KeyTypeRange,
		},
	)
}
