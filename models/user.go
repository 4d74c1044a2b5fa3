/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"strings"
	"time"

	"github.com/suparena/fieldstore/schema"
)

// User fields
const (
	UserEmail       schema.Field = "email"
	UserFirstName   schema.Field = "firstName"
	UserLastName    schema.Field = "lastName"
	UserIsAdmin     schema.Field = "isAdmin"
	UserDateCreated schema.Field = "dateCreated"
)

// User is a staff member. The id is the authentication provider's user id.
type User struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	IsAdmin     bool
	DateCreated time.Time
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

var UserSchema = &schema.Schema{
	Collection: CollectionUsers,
	Fields: []schema.FieldSpec{
		{Name: UserEmail, Kind: schema.KindString},
		{Name: UserFirstName, Kind: schema.KindString},
		{Name: UserLastName, Kind: schema.KindString},
		{Name: UserIsAdmin, Kind: schema.KindBool},
		{Name: UserDateCreated, Kind: schema.KindTime},
	},
	TimeField: UserDateCreated,
	SortField: UserEmail,
}

var UserCodec = schema.NewCodec(UserSchema,
	func(u User) string { return u.ID },
	func(u User, p schema.Payload) error {
		if err := validEmail(UserEmail, NormalizeEmail(u.Email)); err != nil {
			return err
		}
		p.Set(UserEmail, NormalizeEmail(u.Email)).
			Set(UserFirstName, u.FirstName).
			Set(UserLastName, u.LastName).
			Set(UserIsAdmin, u.IsAdmin)
		setTime(p, UserDateCreated, u.DateCreated)
		return nil
	},
	func(r *schema.Reader) User {
		return User{
			ID:          r.ID(),
			Email:       r.String(UserEmail),
			FirstName:   r.OptString(UserFirstName),
			LastName:    r.OptString(UserLastName),
			IsAdmin:     r.OptBool(UserIsAdmin),
			DateCreated: r.OptTime(UserDateCreated),
		}
	})

// AuthenticatedEmail fields
const (
	AuthenticatedEmailEmail     schema.Field = "email"
	AuthenticatedEmailAddedBy   schema.Field = "addedBy"
	AuthenticatedEmailDateAdded schema.Field = "dateAdded"
)

// AuthenticatedEmail is an address allowed to sign up.
type AuthenticatedEmail struct {
	ID        string
	Email     string
	AddedBy   string
	DateAdded time.Time
}

var AuthenticatedEmailSchema = &schema.Schema{
	Collection: CollectionAuthenticatedEmails,
	Fields: []schema.FieldSpec{
		{Name: AuthenticatedEmailEmail, Kind: schema.KindString},
		{Name: AuthenticatedEmailAddedBy, Kind: schema.KindString},
		{Name: AuthenticatedEmailDateAdded, Kind: schema.KindTime},
	},
	TimeField: AuthenticatedEmailDateAdded,
	SortField: AuthenticatedEmailEmail,
}

var AuthenticatedEmailCodec = schema.NewCodec(AuthenticatedEmailSchema,
	func(a AuthenticatedEmail) string { return a.ID },
	func(a AuthenticatedEmail, p schema.Payload) error {
		if err := validEmail(AuthenticatedEmailEmail, NormalizeEmail(a.Email)); err != nil {
			return err
		}
		p.Set(AuthenticatedEmailEmail, NormalizeEmail(a.Email)).
			Set(AuthenticatedEmailAddedBy, a.AddedBy)
		setTime(p, AuthenticatedEmailDateAdded, a.DateAdded)
		return nil
	},
	func(r *schema.Reader) AuthenticatedEmail {
		return AuthenticatedEmail{
			ID:        r.ID(),
			Email:     r.String(AuthenticatedEmailEmail),
			AddedBy:   r.OptString(AuthenticatedEmailAddedBy),
			DateAdded: r.OptTime(AuthenticatedEmailDateAdded),
		}
	})

// NormalizeEmail lower-cases and trims an address. Stored emails are always
// normalized.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
