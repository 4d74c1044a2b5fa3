/*
Package query composes Query Descriptors for fieldstore collections.

Fluent form:

	q, err := query.New(models.IssueSchema).
	    Equal(models.IssueSiteID, siteID).
	    Between(models.IssueTimestamp, start, end).
	    OrderBy(models.IssueTimestamp, storagemodels.Descending).
	    Build()

Options form, used by repositories for list and count calls:

	q, err := query.FromOptions(models.IssueSchema,
	    query.Descending(true),
	    query.DateRange(start, end),
	    query.Equal(models.IssueResolved, false),
	)

Filters always precede the order clause. A range filter and an order on
different fields would need a composite index server-side, so Build rejects
them with a validation error.
*/
package query
