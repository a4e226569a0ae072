package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/locallink/locallink-backend/internal/state"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
)

// Default store fields for a freshly registered merchant.
const (
	DefaultStoreType    = enums.StoreTypeGeneral
	DefaultStoreAddress = "Main Market"
)

type repository interface {
	Products(ctx context.Context) []Product
	Stores(ctx context.Context) []Store
	FindProduct(ctx context.Context, id string) (*Product, error)
	FindStore(ctx context.Context, id string) (*Store, error)
	AppendProduct(ctx context.Context, p Product) error
	AppendStore(ctx context.Context, s Store) error
	ReplaceStore(ctx context.Context, s Store) error
}

// Service exposes catalog browsing and merchant inventory operations.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) []Product
	GetProduct(ctx context.Context, id string) (*Product, error)
	Categories(ctx context.Context) []string
	AddProduct(ctx context.Context, actor users.User, input ProductInput) (*Product, error)
	AddStore(ctx context.Context, actor users.User, input StoreInput) (*Store, error)
	CreateDefaultStore(ctx context.Context, owner users.User) (*Store, error)
	UpdateStore(ctx context.Context, actor users.User, storeID string, input StoreInput) (*Store, error)
	GetStore(ctx context.Context, id string) (*Store, error)
	ListStores(ctx context.Context, storeType string) []Store
	StoresByOwner(ctx context.Context, ownerID string) []Store
}

type service struct {
	repo  repository
	newID func() string
}

// NewService builds the catalog service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, newID: uuid.NewString}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) []Product {
	highlight := filter.highlightSet()
	out := []Product{}
	for _, p := range s.repo.Products(ctx) {
		if filter.matches(p, highlight) {
			out = append(out, p)
		}
	}
	return out
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.FindProduct(ctx, strings.TrimSpace(id))
}

func (s *service) Categories(ctx context.Context) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range s.repo.Products(ctx) {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

func (s *service) AddProduct(ctx context.Context, actor users.User, input ProductInput) (*Product, error) {
	if err := requireMerchant(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	store, err := s.resolveOwnedStore(ctx, actor, input.StoreID)
	if err != nil {
		return nil, err
	}

	product := Product{
		ID:          s.newID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		StoreType:   store.Type,
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Stock:       input.Stock,
		StoreName:   store.Name,
		StoreID:     store.ID,
		Distance:    strings.TrimSpace(input.Distance),
	}
	err = s.repo.AppendProduct(ctx, product)
	if !state.Committed(err) {
		return nil, err
	}
	return &product, err
}

// resolveOwnedStore returns the actor's store with storeID, or their first
// store when storeID is empty.
func (s *service) resolveOwnedStore(ctx context.Context, actor users.User, storeID string) (*Store, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		owned := s.StoresByOwner(ctx, actor.ID)
		if len(owned) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant has no store to list under")
		}
		return &owned[0], nil
	}
	store, err := s.repo.FindStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != actor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another merchant")
	}
	return store, nil
}

func (s *service) AddStore(ctx context.Context, actor users.User, input StoreInput) (*Store, error) {
	if err := requireMerchant(actor); err != nil {
		return nil, err
	}
	if err := validateStoreInput(input); err != nil {
		return nil, err
	}
	store := Store{
		ID:          s.newID(),
		OwnerID:     actor.ID,
		Name:        strings.TrimSpace(input.Name),
		Type:        input.Type,
		Address:     strings.TrimSpace(input.Address),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
	}
	err := s.repo.AppendStore(ctx, store)
	if !state.Committed(err) {
		return nil, err
	}
	return &store, err
}

func (s *service) CreateDefaultStore(ctx context.Context, owner users.User) (*Store, error) {
	store := Store{
		ID:      s.newID(),
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("%s's Store", owner.Name),
		Type:    DefaultStoreType,
		Address: DefaultStoreAddress,
	}
	err := s.repo.AppendStore(ctx, store)
	if !state.Committed(err) {
		return nil, err
	}
	return &store, err
}

func (s *service) UpdateStore(ctx context.Context, actor users.User, storeID string, input StoreInput) (*Store, error) {
	if err := requireMerchant(actor); err != nil {
		return nil, err
	}
	if err := validateStoreInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindStore(ctx, strings.TrimSpace(storeID))
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != actor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another merchant")
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Type = input.Type
	updated.Address = strings.TrimSpace(input.Address)
	updated.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

	err = s.repo.ReplaceStore(ctx, updated)
	if !state.Committed(err) {
		return nil, err
	}
	return &updated, err
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	return s.repo.FindStore(ctx, strings.TrimSpace(id))
}

func (s *service) ListStores(ctx context.Context, storeType string) []Store {
	out := []Store{}
	for _, st := range s.repo.Stores(ctx) {
		if isAny(storeType) || strings.EqualFold(string(st.Type), strings.TrimSpace(storeType)) {
			out = append(out, st)
		}
	}
	return out
}

func (s *service) StoresByOwner(ctx context.Context, ownerID string) []Store {
	out := []Store{}
	for _, st := range s.repo.Stores(ctx) {
		if st.OwnerID == ownerID {
			out = append(out, st)
		}
	}
	return out
}

func requireMerchant(actor users.User) error {
	if actor.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	if actor.Role != enums.UserRoleMerchant {
		return pkgerrors.New(pkgerrors.CodeForbidden, "merchant role required")
	}
	return nil
}

func validateStoreInput(input StoreInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown store type %q", input.Type)
	}
	return nil
}
