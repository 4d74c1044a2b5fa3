/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/fieldstore/errors"
)

// CreateTable creates the store table with on-demand billing. An existing
// table is left untouched.
func (d *DynamodbDataStore) CreateTable(ctx context.Context) error {
	_, err := d.client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: &d.tableName,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(AttrPK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(AttrSK), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(AttrPK), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(AttrSK), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if stderrors.As(err, &inUse) {
			return nil
		}
		return errors.NewStoreError("create table", d.tableName, err)
	}
	d.logger.Info("dynamodb table created", "table", d.tableName)
	return nil
}
