/*
Package schema holds the single field-name definition shared by an entity's
encoder, its decoder and every query built for its collection.

An entity declares its fields once:

	const (
	    IssueSiteID    schema.Field = "siteId"
	    IssueTimestamp schema.Field = "timestamp"
	)

	var IssueSchema = &schema.Schema{
	    Collection: "issues",
	    Fields: []schema.FieldSpec{
	        {Name: IssueSiteID, Kind: schema.KindString},
	        {Name: IssueTimestamp, Kind: schema.KindTime},
	    },
	    TimeField: IssueTimestamp,
	    SortField: IssueTimestamp,
	}

and builds a Codec with NewCodec. The query package validates every filter
and sort field against the Schema, so a renamed field fails at query build
time instead of silently matching nothing.

Payloads are normalized into one canonical value domain (string, bool, int64,
float64, UTC time.Time, []any, map[string]any, nil) before any backend sees
them. Backends without a native timestamp store times with TimeLayout, whose
lexical order equals chronological order.
*/
package schema
