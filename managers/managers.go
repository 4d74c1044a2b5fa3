/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package managers layers the entity-specific helpers of the field
// operations app on top of generic repositories. Every helper is a filtered
// query or a batch over the repositories of one Set.
package managers

import (
	"log/slog"
	"time"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/models"
)

// Set holds one manager per entity, all sharing a store.
type Set struct {
	Issues              *Issues
	Sites               *Sites
	Buildings           *Buildings
	KeySets             *KeySets
	Keys                *Keys
	InventorySites      *InventorySites
	SupplyRequests      *SupplyRequests
	SiteCaptains        *SiteCaptains
	Users               *Users
	AuthenticatedEmails *AuthenticatedEmails

	catalog *fieldstore.Catalog
}

// Option configures a Set
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger every repository uses
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock replaces time.Now for timestamps the managers fill in
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates every manager over store.
func New(store datastore.DocumentStore, opts ...Option) *Set {
	o := options{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	log := fieldstore.WithLogger(o.logger)

	keys := &Keys{Repository: fieldstore.NewRepository(store, models.KeyCodec, log)}
	s := &Set{
		Issues:              &Issues{Repository: fieldstore.NewRepository(store, models.IssueCodec, log), now: o.now},
		Sites:               &Sites{Repository: fieldstore.NewRepository(store, models.SiteCodec, log)},
		Buildings:           &Buildings{Repository: fieldstore.NewRepository(store, models.BuildingCodec, log)},
		KeySets:             &KeySets{Repository: fieldstore.NewRepository(store, models.KeySetCodec, log), keys: keys},
		Keys:                keys,
		InventorySites:      &InventorySites{Repository: fieldstore.NewRepository(store, models.InventorySiteCodec, log)},
		SupplyRequests:      &SupplyRequests{Repository: fieldstore.NewRepository(store, models.SupplyRequestCodec, log), now: o.now},
		SiteCaptains:        &SiteCaptains{Repository: fieldstore.NewRepository(store, models.SiteCaptainCodec, log), now: o.now},
		Users:               &Users{Repository: fieldstore.NewRepository(store, models.UserCodec, log)},
		AuthenticatedEmails: &AuthenticatedEmails{Repository: fieldstore.NewRepository(store, models.AuthenticatedEmailCodec, log), now: o.now},
		catalog:             fieldstore.NewCatalog(),
	}

	mustRegister(s.catalog, s.Issues.Repository)
	mustRegister(s.catalog, s.Sites.Repository)
	mustRegister(s.catalog, s.Buildings.Repository)
	mustRegister(s.catalog, s.KeySets.Repository)
	mustRegister(s.catalog, s.Keys.Repository)
	mustRegister(s.catalog, s.InventorySites.Repository)
	mustRegister(s.catalog, s.SupplyRequests.Repository)
	mustRegister(s.catalog, s.SiteCaptains.Repository)
	mustRegister(s.catalog, s.Users.Repository)
	mustRegister(s.catalog, s.AuthenticatedEmails.Repository)
	return s
}

func mustRegister[T any](c *fieldstore.Catalog, repo *fieldstore.Repository[T]) {
	if err := fieldstore.Register(c, repo); err != nil {
		panic(err)
	}
}

// Catalog returns the repositories of the set keyed by entity type.
func (s *Set) Catalog() *fieldstore.Catalog {
	return s.catalog
}
