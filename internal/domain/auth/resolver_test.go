package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_NoIdentity(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantGo  bool
	}{
		{name: "at login stays", path: PathLogin, wantGo: false},
		{name: "at dashboard goes to login", path: PathDashboard, want: PathLogin, wantGo: true},
		{name: "at role selection goes to login", path: PathRoleSelection, want: PathLogin, wantGo: true},
		{name: "at user dashboard goes to login", path: PathUserDashboard, want: PathLogin, wantGo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(nil, tt.path)
			assert.Equal(t, !tt.wantGo, d.Stay())
			if tt.wantGo {
				assert.Equal(t, tt.want, d.Target)
			}
		})
	}
}

func TestResolve_NoRole(t *testing.T) {
	identity := &Identity{ID: "u-1", Email: "u@example.com"}

	tests := []struct {
		name   string
		path   string
		want   string
		wantGo bool
	}{
		{name: "at role selection stays", path: PathRoleSelection, wantGo: false},
		{name: "at login goes to role selection", path: PathLogin, want: PathRoleSelection, wantGo: true},
		{name: "at dashboard goes to role selection", path: PathDashboard, want: PathRoleSelection, wantGo: true},
		{name: "at manager dashboard goes to role selection", path: PathManagerDashboard, want: PathRoleSelection, wantGo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(identity, tt.path)
			assert.Equal(t, !tt.wantGo, d.Stay())
			if tt.wantGo {
				assert.Equal(t, tt.want, d.Target)
			}
		})
	}
}

func TestResolve_RoleChosen(t *testing.T) {
	user := &Identity{ID: "u-1", Role: RoleUser}
	manager := &Identity{ID: "m-1", Role: RoleManager}

	tests := []struct {
		name     string
		identity *Identity
		path     string
		want     string
		wantGo   bool
	}{
		{name: "user at dashboard entry", identity: user, path: PathDashboard, want: PathUserDashboard, wantGo: true},
		{name: "manager at dashboard entry", identity: manager, path: PathDashboard, want: PathManagerDashboard, wantGo: true},
		{name: "user at login forwards to dashboard", identity: user, path: PathLogin, want: PathUserDashboard, wantGo: true},
		{name: "manager leaves role selection", identity: manager, path: PathRoleSelection, want: PathManagerDashboard, wantGo: true},
		{name: "user stays on own dashboard", identity: user, path: PathUserDashboard, wantGo: false},
		{name: "manager stays on unrelated page", identity: manager, path: "/api/purchases/assigned", wantGo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(tt.identity, tt.path)
			assert.Equal(t, !tt.wantGo, d.Stay())
			if tt.wantGo {
				assert.Equal(t, tt.want, d.Target)
			}
		})
	}
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, PathUserDashboard, DashboardPath(RoleUser))
	assert.Equal(t, PathManagerDashboard, DashboardPath(RoleManager))
	assert.Equal(t, PathRoleSelection, DashboardPath(RoleUnset))
}
