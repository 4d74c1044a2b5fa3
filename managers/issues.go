/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package managers

import (
	"context"
	"time"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/query"
)

// Issues manages reported issues.
type Issues struct {
	*fieldstore.Repository[models.Issue]
	now func() time.Time
}

// Report stores a new issue, allocating its id and stamping it with the
// current time when those are unset.
func (m *Issues) Report(ctx context.Context, issue models.Issue) (models.Issue, error) {
	if issue.ID == "" {
		id, err := m.NewID(ctx)
		if err != nil {
			return models.Issue{}, err
		}
		issue.ID = id
	}
	if issue.Timestamp.IsZero() {
		issue.Timestamp = m.now()
	}
	if err := m.Create(ctx, issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// ListForSite lists the issues of one site. opts may add a date range,
// a sort direction or a limit.
func (m *Issues) ListForSite(ctx context.Context, siteID string, opts ...query.Option) ([]models.Issue, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.IssueSiteID, siteID)}, opts...)...)
}

// ListByType lists issues of one category.
func (m *Issues) ListByType(ctx context.Context, issueType string, opts ...query.Option) ([]models.Issue, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.IssueType, issueType)}, opts...)...)
}

// ListReportedBy lists the issues a user reported.
func (m *Issues) ListReportedBy(ctx context.Context, userID string, opts ...query.Option) ([]models.Issue, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.IssueReporterID, userID)}, opts...)...)
}

// ListOpen lists unresolved issues.
func (m *Issues) ListOpen(ctx context.Context, opts ...query.Option) ([]models.Issue, error) {
	return m.GetAll(ctx, append([]query.Option{query.Equal(models.IssueResolved, false)}, opts...)...)
}

// CountOpen counts unresolved issues, at one site when siteID is set.
func (m *Issues) CountOpen(ctx context.Context, siteID string) (int64, error) {
	opts := []query.Option{query.Equal(models.IssueResolved, false)}
	if siteID != "" {
		opts = append(opts, query.Equal(models.IssueSiteID, siteID))
	}
	return m.Count(ctx, opts...)
}

// Resolve marks an issue resolved.
func (m *Issues) Resolve(ctx context.Context, id string) error {
	issue, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if issue.Resolved {
		return nil
	}
	issue.Resolved = true
	return m.Update(ctx, issue)
}
