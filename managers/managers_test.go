/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package managers

import (
	"context"
	"testing"
	"time"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/datastore/mock"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/query"
)

var t0 = time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)

func newSet(t *testing.T) (*Set, *mock.DataStore) {
	t.Helper()
	store := mock.New()
	return New(store, WithClock(func() time.Time { return t0 })), store
}

func TestIssues(t *testing.T) {
	ctx := context.Background()
	set, _ := newSet(t)

	for i, in := range []models.Issue{
		{SiteID: "S1", IssueType: "printer", ReporterID: "U1", Timestamp: t0.Add(-3 * time.Hour)},
		{SiteID: "S1", IssueType: "network", ReporterID: "U2", Timestamp: t0.Add(-2 * time.Hour)},
		{SiteID: "S2", IssueType: "printer", ReporterID: "U1", Timestamp: t0.Add(-1 * time.Hour)},
		{SiteID: "S1", IssueType: "printer", ReporterID: "U1"},
	} {
		if _, err := set.Issues.Report(ctx, in); err != nil {
			t.Fatalf("Report %d failed: %v", i, err)
		}
	}

	t.Run("ListForSiteNewestFirst", func(t *testing.T) {
		got, err := set.Issues.ListForSite(ctx, "S1", query.Descending(true))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 || !got[0].Timestamp.Equal(t0) || !got[2].Timestamp.Equal(t0.Add(-3*time.Hour)) {
			t.Fatalf("unexpected order %+v", got)
		}
	})

	t.Run("ListForSiteInRange", func(t *testing.T) {
		got, err := set.Issues.ListForSite(ctx, "S1",
			query.DateRange(t0.Add(-150*time.Minute), t0.Add(-time.Minute)), query.Descending(true))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].IssueType != "network" {
			t.Fatalf("unexpected issues %+v", got)
		}
	})

	t.Run("ByTypeAndReporter", func(t *testing.T) {
		printers, err := set.Issues.ListByType(ctx, "printer")
		if err != nil || len(printers) != 3 {
			t.Fatalf("ListByType = %d, %v", len(printers), err)
		}
		byU2, err := set.Issues.ListReportedBy(ctx, "U2")
		if err != nil || len(byU2) != 1 {
			t.Fatalf("ListReportedBy = %d, %v", len(byU2), err)
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		open, err := set.Issues.ListOpen(ctx)
		if err != nil || len(open) != 4 {
			t.Fatalf("ListOpen = %d, %v", len(open), err)
		}
		if err := set.Issues.Resolve(ctx, open[0].ID); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		n, err := set.Issues.CountOpen(ctx, "")
		if err != nil || n != 3 {
			t.Fatalf("CountOpen = %d, %v", n, err)
		}
		if err := set.Issues.Resolve(ctx, "missing"); !errors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestSitesAndBuildings(t *testing.T) {
	ctx := context.Background()
	set, _ := newSet(t)

	for _, s := range []models.Site{
		{ID: "s1", Name: "Clark Lab", BuildingID: "A1", SiteType: "lab"},
		{ID: "s2", Name: "Annex", BuildingID: "A1", SiteType: "kiosk"},
		{ID: "s3", Name: "Basement", BuildingID: "B2", SiteType: "lab"},
	} {
		if err := set.Sites.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	for _, b := range []models.Building{
		{ID: "A1", Name: "Olin", IsLibrary: true},
		{ID: "B2", Name: "Gates"},
		{ID: "C3", Name: "Mann", IsLibrary: true},
	} {
		if err := set.Buildings.Create(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	sites, err := set.Sites.ListForBuilding(ctx, "A1", query.Ascending())
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 2 || sites[0].Name != "Annex" || sites[1].Name != "Clark Lab" {
		t.Fatalf("unexpected sites %+v", sites)
	}

	exists, err := set.Sites.AnyInBuilding(ctx, "C3")
	if err != nil || exists {
		t.Fatalf("AnyInBuilding(C3) = %v, %v", exists, err)
	}
	exists, err = set.Sites.AnyInBuilding(ctx, "B2")
	if err != nil || !exists {
		t.Fatalf("AnyInBuilding(B2) = %v, %v", exists, err)
	}

	labs, err := set.Sites.ListByType(ctx, "lab")
	if err != nil || len(labs) != 2 {
		t.Fatalf("ListByType = %d, %v", len(labs), err)
	}

	libs, err := set.Buildings.Libraries(ctx)
	if err != nil || len(libs) != 2 || libs[0].Name != "Mann" {
		t.Fatalf("Libraries = %+v, %v", libs, err)
	}
	all, err := set.Buildings.ListByName(ctx, true)
	if err != nil || len(all) != 3 || all[0].Name != "Olin" {
		t.Fatalf("ListByName = %+v, %v", all, err)
	}
}

func TestInventorySites(t *testing.T) {
	ctx := context.Background()
	set, _ := newSet(t)
	if err := set.InventorySites.Create(ctx, models.InventorySite{ID: "v1", Name: "Closet", BuildingID: "A1", InventoryTypeIDs: []string{"paper"}}); err != nil {
		t.Fatal(err)
	}
	got, err := set.InventorySites.ListForBuilding(ctx, "A1")
	if err != nil || len(got) != 1 || got[0].InventoryTypeIDs[0] != "paper" {
		t.Fatalf("ListForBuilding = %+v, %v", got, err)
	}
}

func TestKeySetDeleteWithKeys(t *testing.T) {
	ctx := context.Background()
	set, store := newSet(t)

	if err := set.KeySets.Create(ctx, models.KeySet{ID: "ks1", Name: "North"}); err != nil {
		t.Fatal(err)
	}
	for _, k := range []models.Key{
		{ID: "k2", KeySetID: "ks1", KeyCode: "B-2"},
		{ID: "k1", KeySetID: "ks1", KeyCode: "A-1"},
		{ID: "k3", KeySetID: "ks2", KeyCode: "C-3"},
	} {
		if err := set.Keys.Create(ctx, k); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := set.Keys.ListForKeySet(ctx, "ks1")
	if err != nil || len(keys) != 2 || keys[0].KeyCode != "A-1" {
		t.Fatalf("ListForKeySet = %+v, %v", keys, err)
	}

	before := store.Calls().Commit
	if err := set.KeySets.DeleteWithKeys(ctx, "ks1"); err != nil {
		t.Fatalf("DeleteWithKeys failed: %v", err)
	}
	if store.Calls().Commit != before+1 {
		t.Fatal("expected a single commit")
	}
	if store.Len(models.CollectionKeys) != 1 || store.Len(models.CollectionKeySets) != 0 {
		t.Fatalf("unexpected remaining documents: keys=%d sets=%d",
			store.Len(models.CollectionKeys), store.Len(models.CollectionKeySets))
	}
}

func TestSupplyRequests(t *testing.T) {
	ctx := context.Background()
	set, store := newSet(t)

	var ids []string
	for _, q := range []int64{2, 5, 1} {
		r, err := set.SupplyRequests.Submit(ctx, models.SupplyRequest{SiteID: "S1", SupplyType: "paper", Quantity: q})
		if err != nil {
			t.Fatal(err)
		}
		if !r.DateCreated.Equal(t0) {
			t.Fatalf("creation date not stamped: %v", r.DateCreated)
		}
		ids = append(ids, r.ID)
	}

	if err := set.SupplyRequests.Fulfill(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	open, err := set.SupplyRequests.ListOpen(ctx)
	if err != nil || len(open) != 2 {
		t.Fatalf("ListOpen = %d, %v", len(open), err)
	}

	t.Run("FulfillManyMissingWritesNothing", func(t *testing.T) {
		before := store.Calls().Commit
		err := set.SupplyRequests.FulfillMany(ctx, []string{ids[1], "missing"})
		if !errors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
		if store.Calls().Commit != before {
			t.Fatal("commit attempted after a failed lookup")
		}
	})

	t.Run("FulfillMany", func(t *testing.T) {
		if err := set.SupplyRequests.FulfillMany(ctx, ids[1:]); err != nil {
			t.Fatal(err)
		}
		site, err := set.SupplyRequests.ListForSite(ctx, "S1")
		if err != nil || len(site) != 3 {
			t.Fatalf("ListForSite = %d, %v", len(site), err)
		}
		for _, r := range site {
			if !r.Fulfilled {
				t.Fatalf("request %s not fulfilled", r.ID)
			}
		}
	})
}

func TestSiteCaptains(t *testing.T) {
	ctx := context.Background()
	set, _ := newSet(t)

	if _, err := set.SiteCaptains.LatestForSite(ctx, "S1"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	for i, at := range []time.Time{t0.Add(-time.Hour), t0.Add(time.Hour), t0} {
		if _, err := set.SiteCaptains.Capture(ctx, models.SiteCaptain{SiteID: "S1", UserID: "U1", TimeOfCapture: at}); err != nil {
			t.Fatalf("Capture %d failed: %v", i, err)
		}
	}
	if _, err := set.SiteCaptains.Capture(ctx, models.SiteCaptain{SiteID: "S2", UserID: "U2", IssueIDs: []string{"I1"}}); err != nil {
		t.Fatal(err)
	}

	latest, err := set.SiteCaptains.LatestForSite(ctx, "S1")
	if err != nil || !latest.TimeOfCapture.Equal(t0.Add(time.Hour)) {
		t.Fatalf("LatestForSite = %+v, %v", latest, err)
	}
	mine, err := set.SiteCaptains.ListForUser(ctx, "U2")
	if err != nil || len(mine) != 1 || mine[0].IssueIDs[0] != "I1" {
		t.Fatalf("ListForUser = %+v, %v", mine, err)
	}
	atS1, err := set.SiteCaptains.ListForSite(ctx, "S1", query.WithLimit(2))
	if err != nil || len(atS1) != 2 {
		t.Fatalf("ListForSite = %d, %v", len(atS1), err)
	}
}

func TestUsersAndEmails(t *testing.T) {
	ctx := context.Background()
	set, _ := newSet(t)

	for _, u := range []models.User{
		{ID: "u1", Email: "zoe@example.edu", IsAdmin: true},
		{ID: "u2", Email: "clark@example.edu"},
		{ID: "u3", Email: "amy@example.edu", IsAdmin: true},
	} {
		if err := set.Users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	u, err := set.Users.FindByEmail(ctx, "Clark@Example.edu")
	if err != nil || u.ID != "u2" {
		t.Fatalf("FindByEmail = %+v, %v", u, err)
	}
	if _, err := set.Users.FindByEmail(ctx, "nobody@example.edu"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	admins, err := set.Users.Admins(ctx)
	if err != nil || len(admins) != 2 || admins[0].ID != "u3" {
		t.Fatalf("Admins = %+v, %v", admins, err)
	}

	ok, err := set.AuthenticatedEmails.IsAuthorized(ctx, "new@example.edu")
	if err != nil || ok {
		t.Fatalf("IsAuthorized before = %v, %v", ok, err)
	}
	first, err := set.AuthenticatedEmails.Authorize(ctx, " New@Example.edu", "u1")
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	again, err := set.AuthenticatedEmails.Authorize(ctx, "new@example.edu", "u3")
	if err != nil || again.ID != first.ID || again.AddedBy != "u1" {
		t.Fatalf("second Authorize = %+v, %v", again, err)
	}
	ok, err = set.AuthenticatedEmails.IsAuthorized(ctx, "NEW@example.edu")
	if err != nil || !ok {
		t.Fatalf("IsAuthorized after = %v, %v", ok, err)
	}
	if _, err := set.AuthenticatedEmails.Authorize(ctx, "bogus", "u1"); !errors.IsEncodingError(err) {
		t.Fatalf("expected encoding error, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	set, _ := newSet(t)
	repo, err := fieldstore.Lookup[models.Issue](set.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	if repo != set.Issues.Repository {
		t.Fatal("catalog returned a different repository")
	}
	if n := len(set.Catalog().Collections()); n != 10 {
		t.Fatalf("expected 10 collections, got %d", n)
	}
}
