// Package session tracks who is signed in and owns login, signup, profile
// edits and logout.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")
	ErrNoSession          = pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
)

type roster interface {
	FindByEmail(ctx context.Context, email string) (*users.Account, error)
	Create(ctx context.Context, acct users.Account) error
	Update(ctx context.Context, u users.User) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

type storeCreator interface {
	CreateDefaultStore(ctx context.Context, owner users.User) (*catalog.Store, error)
}

type cartDiscarder interface {
	Discard(ctx context.Context)
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     enums.UserRole
}

type Service interface {
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
	Register(ctx context.Context, input RegisterInput) (*users.User, error)
	UpdateProfile(ctx context.Context, patch users.ProfilePatch) (*users.User, error)
	Logout(ctx context.Context)
	Current() (users.User, bool)
}

type service struct {
	roster roster
	hasher passwordHasher
	stores storeCreator
	cart   cartDiscarder
	newID  func() string

	mu      sync.RWMutex
	current *users.User
}

// NewService wires the session to the roster and its collaborators.
func NewService(r roster, hasher passwordHasher, stores storeCreator, cart cartDiscarder) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store creator required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	return &service{roster: r, hasher: hasher, stores: stores, cart: cart, newID: uuid.NewString}, nil
}

// Authenticate signs in the roster entry whose email matches
// case-insensitively and whose password verifies.
func (s *service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	acct, err := s.roster.FindByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, acct.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	s.setCurrent(&acct.User)
	u := acct.User
	return &u, nil
}

// Register appends a new user and signs it in. Merchants also get a
// default store.
func (s *service) Register(ctx context.Context, input RegisterInput) (*users.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", input.Role)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	acct := users.Account{
		User:         users.User{ID: s.newID(), Name: name, Email: email, Role: input.Role},
		PasswordHash: hash,
	}

	var mirrorErr error
	if err := s.roster.Create(ctx, acct); err != nil {
		if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			return nil, err
		}
		mirrorErr = err
	}
	s.setCurrent(&acct.User)

	if acct.Role == enums.UserRoleMerchant {
		if _, err := s.stores.CreateDefaultStore(ctx, acct.User); err != nil {
			if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
				return nil, err
			}
			mirrorErr = err
		}
	}

	u := acct.User
	return &u, mirrorErr
}

// UpdateProfile merges patch into the signed-in user and its roster entry.
func (s *service) UpdateProfile(ctx context.Context, patch users.ProfilePatch) (*users.User, error) {
	current, ok := s.Current()
	if !ok {
		return nil, ErrNoSession
	}
	updated := patch.Apply(current)
	err := s.roster.Update(ctx, updated)
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		return nil, err
	}
	s.setCurrent(&updated)
	return &updated, err
}

// Logout clears the session and drops the live cart. The stored cart blob
// is left as it was.
func (s *service) Logout(ctx context.Context) {
	s.setCurrent(nil)
	s.cart.Discard(ctx)
}

func (s *service) Current() (users.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return users.User{}, false
	}
	return *s.current, true
}

func (s *service) setCurrent(u *users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.current = nil
		return
	}
	cp := *u
	s.current = &cp
}
