package marketplace

import (
	"context"

	"github.com/locallink/locallink-backend/internal/session"
	"github.com/locallink/locallink-backend/internal/users"
)

// Login signs in after the simulated authentication delay. If ctx ends
// first the caller gets ctx.Err() but the sign-in still applies.
func (m *Marketplace) Login(ctx context.Context, email, password string) (*users.User, error) {
	task := session.After(ctx, m.authLatency, func(ctx context.Context) (*users.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		u, err := m.session.Authenticate(ctx, email, password)
		m.observe("session.login", err)
		if err == nil {
			m.logg.Info(m.logg.WithUserID(ctx, u.ID), "session.login")
		}
		return u, err
	})
	return task.Wait(ctx)
}

// Register creates an account after the simulated authentication delay.
func (m *Marketplace) Register(ctx context.Context, input session.RegisterInput) (*users.User, error) {
	task := session.After(ctx, m.authLatency, func(ctx context.Context) (*users.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		u, err := m.session.Register(ctx, input)
		m.observe("session.register", err)
		if u != nil {
			ctx = m.logg.WithUserID(ctx, u.ID)
			m.logg.Info(m.logg.WithRole(ctx, u.Role.String()), "session.registered")
		}
		return u, err
	})
	return task.Wait(ctx)
}

func (m *Marketplace) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Logout(ctx)
	m.observe("session.logout", nil)
}

// CurrentUser returns the signed-in user.
func (m *Marketplace) CurrentUser() (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actor()
}

func (m *Marketplace) UpdateProfile(ctx context.Context, patch users.ProfilePatch) (u *users.User, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.observe("session.update_profile", err) }()
	return m.session.UpdateProfile(ctx, patch)
}

// User looks up a roster entry for display.
func (m *Marketplace) User(ctx context.Context, id string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, err := m.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u := acct.User
	return &u, nil
}
