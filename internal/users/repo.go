package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/locallink/locallink-backend/internal/state"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

// ErrNotFound is returned when no roster entry matches.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "user not found")

// Repository is the registered-user roster.
type Repository struct {
	roster *state.Collection[Account]
}

// NewRepository binds the roster to its owned collection.
func NewRepository(roster *state.Collection[Account]) (*Repository, error) {
	if roster == nil {
		return nil, fmt.Errorf("users collection required")
	}
	return &Repository{roster: roster}, nil
}

// FindByEmail matches email case-insensitively.
func (r *Repository) FindByEmail(_ context.Context, email string) (*Account, error) {
	needle := normalizeEmail(email)
	acct, ok := r.roster.Find(func(a Account) bool {
		return normalizeEmail(a.Email) == needle
	})
	if !ok {
		return nil, ErrNotFound
	}
	return &acct, nil
}

// FindByID loads a roster entry by id.
func (r *Repository) FindByID(_ context.Context, id string) (*Account, error) {
	acct, ok := r.roster.Find(func(a Account) bool { return a.ID == id })
	if !ok {
		return nil, ErrNotFound
	}
	return &acct, nil
}

// List returns every registered user in signup order.
func (r *Repository) List(_ context.Context) []User {
	accounts := r.roster.Items()
	out := make([]User, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.User)
	}
	return out
}

// Create appends acct unless its email is already registered.
func (r *Repository) Create(ctx context.Context, acct Account) error {
	return r.roster.Update(ctx, func(items []Account) ([]Account, error) {
		needle := normalizeEmail(acct.Email)
		for _, existing := range items {
			if normalizeEmail(existing.Email) == needle {
				return nil, ErrEmailTaken
			}
		}
		return append(items, acct), nil
	})
}

// Update replaces the public fields of the entry with u.ID.
func (r *Repository) Update(ctx context.Context, u User) error {
	return r.roster.Update(ctx, func(items []Account) ([]Account, error) {
		for i := range items {
			if items[i].ID == u.ID {
				items[i].User = u
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
