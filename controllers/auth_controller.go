package controllers

import (
	"context"

	"github.com/dooddles07/cyaadnu-frontend/guards"
	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

func (p *Pages) Login(ctx context.Context, form models.LoginForm) Result {
	err := p.store.Auth.Login(ctx, form)
	return p.finish("login", err, nil, guards.Home, "Login failed")
}

func (p *Pages) Register(ctx context.Context, form models.RegisterForm) Result {
	err := p.store.Auth.Register(ctx, form)
	return p.finish("register", err, nil, guards.Home, "Registration failed")
}

func (p *Pages) Logout(ctx context.Context) Result {
	p.store.Auth.Logout(ctx)
	return p.finish("logout", nil, nil, guards.Home, "")
}

func (p *Pages) UpdateProfile(ctx context.Context, form models.ProfileForm) Result {
	err := p.store.Auth.UpdateProfile(ctx, form)
	return p.finish("update_profile", err, views.Success("Profile updated successfully!"), "", "Failed to update profile")
}
