/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/fieldstore/datastore/eval"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

// queryInput translates a Query Descriptor into a partition query: the
// collection is the key condition, filters become a FilterExpression and a
// set order field must exist and be non-null.
func (d *DynamodbDataStore) queryInput(q *storagemodels.Query) (*sdk.QueryInput, error) {
	names := map[string]string{"#pk": AttrPK}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: q.Collection},
	}
	var conds []string

	for i, f := range q.Filters {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		av, err := toAttributeValue(f.Value)
		if err != nil {
			return nil, errors.NewValidationError(f.Field, err.Error())
		}
		names[name] = f.Field
		values[value] = av

		op := string(f.Op)
		if f.Op == storagemodels.Eq {
			op = "="
		}
		conds = append(conds, fmt.Sprintf("%s %s %s", name, op, value))
	}

	if q.Order != nil {
		names["#o"] = q.Order.Field
		values[":null"] = &types.AttributeValueMemberS{Value: "NULL"}
		conds = append(conds, "attribute_exists(#o) AND NOT attribute_type(#o, :null)")
	}

	in := &sdk.QueryInput{
		TableName:                 &d.tableName,
		KeyConditionExpression:    aws.String("#pk = :pk"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConsistentRead:            aws.Bool(true),
	}
	if len(conds) > 0 {
		in.FilterExpression = aws.String(strings.Join(conds, " AND "))
	}
	return in, nil
}

// Query pages through the collection partition. Items come back in id order;
// any other order is applied in process.
func (d *DynamodbDataStore) Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	in, err := d.queryInput(q)
	if err != nil {
		return nil, err
	}

	var docs []storagemodels.Document
	pages := 0
	for {
		out, err := d.client.Query(ctx, in)
		if err != nil {
			return nil, errors.NewStoreError("query", q.Collection, err)
		}
		pages++
		for _, item := range out.Items {
			id := ""
			if sk, ok := item[AttrSK].(*types.AttributeValueMemberS); ok {
				id = sk.Value
			}
			ref := storagemodels.Ref(q.Collection, id)
			data, err := fromItem(ref, item)
			if err != nil {
				return nil, err
			}
			docs = append(docs, storagemodels.Document{Ref: ref, Data: data})
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		if q.Order == nil && q.Limit > 0 && len(docs) >= q.Limit {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}

	d.logger.Debug("dynamodb query",
		"collection", q.Collection,
		"filters", len(q.Filters),
		"pages", pages,
		"items", len(docs))

	return eval.OrderAndLimit(docs, q), nil
}

// Count sums Select=COUNT pages over the same key and filter expressions.
func (d *DynamodbDataStore) Count(ctx context.Context, q *storagemodels.Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	in, err := d.queryInput(q)
	if err != nil {
		return 0, err
	}
	in.Select = types.SelectCount

	var n int64
	for {
		out, err := d.client.Query(ctx, in)
		if err != nil {
			return 0, errors.NewStoreError("count", q.Collection, err)
		}
		n += int64(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		if q.Limit > 0 && n >= int64(q.Limit) {
			break
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
	if q.Limit > 0 && n > int64(q.Limit) {
		n = int64(q.Limit)
	}
	return n, nil
}
