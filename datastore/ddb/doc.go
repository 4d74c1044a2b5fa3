/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package ddb implements the DocumentStore on a single DynamoDB table.

Every collection is one partition: PK holds the collection name and SK the
document id, so a collection query is a single Query call and its natural
order is id order. Payload fields are stored as top-level attributes;
timestamps are S values in schema.TimeLayout.

	store, err := ddb.NewDynamodbDataStore(ctx, ddb.Config{
	    Region: "us-west-2",
	    Table:  "fieldstore",
	})

Filters become a FilterExpression. Ordering on any field other than the id
and the limit of ordered queries are applied after the partition is read.
Count uses Select=COUNT. Commit maps to TransactWriteItems and therefore
accepts at most MaxTransactItems writes.
*/
package ddb
