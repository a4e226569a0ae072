// Package preferences holds device-level UI settings.
package preferences

import (
	"context"
	"fmt"

	"github.com/locallink/locallink-backend/internal/state"
)

// Preferences is the settings payload.
type Preferences struct {
	DarkMode bool `json:"darkMode"`
}

type Service interface {
	Get(ctx context.Context) Preferences
	SetDarkMode(ctx context.Context, enabled bool) (Preferences, error)
}

type service struct {
	darkMode *state.Value[bool]
}

func NewService(darkMode *state.Value[bool]) (Service, error) {
	if darkMode == nil {
		return nil, fmt.Errorf("dark mode value required")
	}
	return &service{darkMode: darkMode}, nil
}

func (s *service) Get(_ context.Context) Preferences {
	return Preferences{DarkMode: s.darkMode.Get()}
}

func (s *service) SetDarkMode(ctx context.Context, enabled bool) (Preferences, error) {
	err := s.darkMode.Set(ctx, enabled)
	return Preferences{DarkMode: s.darkMode.Get()}, err
}
