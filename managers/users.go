/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package managers

import (
	"context"
	"time"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/query"
)

// Users manages staff accounts.
type Users struct {
	*fieldstore.Repository[models.User]
}

// FindByEmail returns the user with email, or a NotFoundError.
func (m *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := m.First(ctx, query.Equal(models.UserEmail, models.NormalizeEmail(email)))
	if errors.IsNotFound(err) {
		return models.User{}, errors.NewNotFoundError(m.Collection(), email)
	}
	return u, err
}

// Admins lists administrators by email.
func (m *Users) Admins(ctx context.Context) ([]models.User, error) {
	return m.GetAll(ctx, query.Equal(models.UserIsAdmin, true), query.Ascending())
}

// AuthenticatedEmails manages the sign-up allow list.
type AuthenticatedEmails struct {
	*fieldstore.Repository[models.AuthenticatedEmail]
	now func() time.Time
}

// IsAuthorized reports whether email is on the allow list.
func (m *AuthenticatedEmails) IsAuthorized(ctx context.Context, email string) (bool, error) {
	return m.Exists(ctx, query.Equal(models.AuthenticatedEmailEmail, models.NormalizeEmail(email)))
}

// Authorize adds email to the allow list. Adding an address twice is a
// no-op returning the existing entry.
func (m *AuthenticatedEmails) Authorize(ctx context.Context, email, addedBy string) (models.AuthenticatedEmail, error) {
	normalized := models.NormalizeEmail(email)
	existing, err := m.First(ctx, query.Equal(models.AuthenticatedEmailEmail, normalized))
	if err == nil {
		return existing, nil
	}
	if !errors.IsNotFound(err) {
		return models.AuthenticatedEmail{}, err
	}

	id, err := m.NewID(ctx)
	if err != nil {
		return models.AuthenticatedEmail{}, err
	}
	entry := models.AuthenticatedEmail{
		ID:        id,
		Email:     normalized,
		AddedBy:   addedBy,
		DateAdded: m.now(),
	}
	if err := m.Create(ctx, entry); err != nil {
		return models.AuthenticatedEmail{}, err
	}
	return entry, nil
}
