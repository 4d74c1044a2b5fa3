/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/schema"
)

// Issue fields
const (
	IssueSiteID       schema.Field = "siteId"
	IssueDescription  schema.Field = "description"
	IssueType         schema.Field = "issueType"
	IssueReporterID   schema.Field = "reporterId"
	IssueTicketNumber schema.Field = "ticketNumber"
	IssueResolved     schema.Field = "resolved"
	IssueTimestamp    schema.Field = "timestamp"
)

// Issue is a problem reported at a site.
type Issue struct {
	ID           string
	SiteID       string
	Description  string
	IssueType    string
	ReporterID   string
	TicketNumber string
	Resolved     bool
	Timestamp    time.Time
}

var IssueSchema = &schema.Schema{
	Collection: CollectionIssues,
	Fields: []schema.FieldSpec{
		{Name: IssueSiteID, Kind: schema.KindString},
		{Name: IssueDescription, Kind: schema.KindString},
		{Name: IssueType, Kind: schema.KindString},
		{Name: IssueReporterID, Kind: schema.KindString},
		{Name: IssueTicketNumber, Kind: schema.KindString},
		{Name: IssueResolved, Kind: schema.KindBool},
		{Name: IssueTimestamp, Kind: schema.KindTime},
	},
	TimeField: IssueTimestamp,
	SortField: IssueTimestamp,
}

var IssueCodec = schema.NewCodec(IssueSchema,
	func(i Issue) string { return i.ID },
	func(i Issue, p schema.Payload) error {
		if err := required(IssueSiteID, i.SiteID); err != nil {
			return err
		}
		p.Set(IssueSiteID, i.SiteID).
			Set(IssueDescription, i.Description).
			Set(IssueType, i.IssueType).
			Set(IssueReporterID, i.ReporterID).
			Set(IssueTicketNumber, i.TicketNumber).
			Set(IssueResolved, i.Resolved)
		setTime(p, IssueTimestamp, i.Timestamp)
		return nil
	},
	func(r *schema.Reader) Issue {
		return Issue{
			ID:           r.ID(),
			SiteID:       r.String(IssueSiteID),
			Description:  r.OptString(IssueDescription),
			IssueType:    r.OptString(IssueType),
			ReporterID:   r.OptString(IssueReporterID),
			TicketNumber: r.OptString(IssueTicketNumber),
			Resolved:     r.OptBool(IssueResolved),
			Timestamp:    r.OptTime(IssueTimestamp),
		}
	})
