/*
Package storagemodels defines the data structures shared by every fieldstore
backend.

Key Types:

DocumentRef:
Address of one record, (collection, id):

	ref := storagemodels.Ref("issues", "A1")
	fmt.Println(ref) // issues/A1

Query:
A Query Descriptor, an ordered set of filters plus an optional order:

	q := &storagemodels.Query{
	    Collection: "issues",
	    Filters: []storagemodels.Filter{
	        {Field: "timestamp", Op: storagemodels.Ge, Value: start},
	        {Field: "timestamp", Op: storagemodels.Le, Value: end},
	    },
	    Order: &storagemodels.Order{Field: "timestamp", Direction: storagemodels.Descending},
	}

Range filters on one field and an order on a different field cannot be
combined without a composite index; Query.Validate rejects them.

Write:
One entry of an atomic commit:

	writes := []storagemodels.Write{
	    storagemodels.SetWrite(ref, payload, true),
	    storagemodels.DeleteWrite(other),
	}

These types are backend neutral; each datastore translates them to its own
wire protocol.
*/
package storagemodels
