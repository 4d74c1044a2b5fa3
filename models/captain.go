/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"time"

	"github.com/suparena/fieldstore/schema"
)

// SiteCaptain fields
const (
	SiteCaptainSiteID        schema.Field = "siteId"
	SiteCaptainUserID        schema.Field = "userId"
	SiteCaptainIssueIDs      schema.Field = "issueIds"
	SiteCaptainNeedsSupplies schema.Field = "needsSupplies"
	SiteCaptainTimeOfCapture schema.Field = "timeOfCapture"
)

// SiteCaptain is one staff check-in at a site, with the issues found during
// the visit.
type SiteCaptain struct {
	ID            string
	SiteID        string
	UserID        string
	IssueIDs      []string
	NeedsSupplies bool
	TimeOfCapture time.Time
}

var SiteCaptainSchema = &schema.Schema{
	Collection: CollectionSiteCaptains,
	Fields: []schema.FieldSpec{
		{Name: SiteCaptainSiteID, Kind: schema.KindString},
		{Name: SiteCaptainUserID, Kind: schema.KindString},
		{Name: SiteCaptainIssueIDs, Kind: schema.KindStrings},
		{Name: SiteCaptainNeedsSupplies, Kind: schema.KindBool},
		{Name: SiteCaptainTimeOfCapture, Kind: schema.KindTime},
	},
	TimeField: SiteCaptainTimeOfCapture,
	SortField: SiteCaptainTimeOfCapture,
}

var SiteCaptainCodec = schema.NewCodec(SiteCaptainSchema,
	func(c SiteCaptain) string { return c.ID },
	func(c SiteCaptain, p schema.Payload) error {
		if err := required(SiteCaptainSiteID, c.SiteID); err != nil {
			return err
		}
		if err := required(SiteCaptainUserID, c.UserID); err != nil {
			return err
		}
		p.Set(SiteCaptainSiteID, c.SiteID).
			Set(SiteCaptainUserID, c.UserID).
			Set(SiteCaptainNeedsSupplies, c.NeedsSupplies)
		setStrings(p, SiteCaptainIssueIDs, c.IssueIDs)
		setTime(p, SiteCaptainTimeOfCapture, c.TimeOfCapture)
		return nil
	},
	func(r *schema.Reader) SiteCaptain {
		return SiteCaptain{
			ID:            r.ID(),
			SiteID:        r.String(SiteCaptainSiteID),
			UserID:        r.String(SiteCaptainUserID),
			IssueIDs:      r.Strings(SiteCaptainIssueIDs),
			NeedsSupplies: r.OptBool(SiteCaptainNeedsSupplies),
			TimeOfCapture: r.OptTime(SiteCaptainTimeOfCapture),
		}
	})
