package guards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dooddles07/cyaadnu-frontend/models"
	"github.com/dooddles07/cyaadnu-frontend/store"
)

func session(u *models.User) store.AuthState {
	st := store.AuthState{Initialized: true}
	if u != nil {
		st.Authenticated = true
		st.User = store.Resource[*models.User]{Status: store.Ok, Data: u}
	}
	return st
}

var (
	anonymous = session(nil)
	member    = session(&models.User{ID: "u1", Role: models.RoleMember})
	admin     = session(&models.User{ID: "a1", Role: models.RoleAdmin})
	oddRole   = session(&models.User{ID: "u2", Role: "moderator"})
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		path string
		auth store.AuthState
		want Decision
	}{
		{"anonymous public", "/products/abc", anonymous, allow},
		{"anonymous cart", "/cart", anonymous, goHome},
		{"anonymous admin", "/admin", anonymous, goHome},
		{"member cart", "/cart", member, allow},
		{"member orders", "/orders/", member, allow},
		{"member admin", "/admin/products", member, goHome},
		{"unknown role is a member", "/admin", oddRole, goHome},
		{"admin admin", "/admin/orders", admin, allow},
		{"admin cart", "/checkout", admin, allow},
		{"unknown path", "/about", anonymous, allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.auth))
		})
	}
}

func TestGuardsWaitWhileConfirming(t *testing.T) {
	booting := store.AuthState{}
	assert.Equal(t, Wait, RequireAuth(booting).Outcome)
	assert.Equal(t, Wait, RequireAdmin(booting).Outcome)

	restoring := admin
	restoring.User.Status = store.Pending
	restoring.Restoring = true
	assert.Equal(t, Wait, Resolve("/admin", restoring).Outcome)

	// a pending profile save mid-session is not a restore
	saving := member
	saving.User.Status = store.Pending
	assert.Equal(t, Allow, RequireAuth(saving).Outcome)
	assert.Equal(t, Allow, Resolve("/profile", saving).Outcome)

	// public routes never wait
	assert.Equal(t, Allow, Resolve("/", booting).Outcome)
}

func TestAccessFor(t *testing.T) {
	assert.Equal(t, Public, AccessFor("/products"))
	assert.Equal(t, Public, AccessFor("/products/65f0"))
	assert.Equal(t, Public, AccessFor("/productsx"))
	assert.Equal(t, Authenticated, AccessFor("/profile"))
	assert.Equal(t, Admin, AccessFor("/admin"))
	assert.Equal(t, Admin, AccessFor("/admin/products/1"))
	assert.Equal(t, Public, AccessFor("/administrator"))
}
