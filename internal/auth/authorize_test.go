package auth

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	tenant := Principal{Subject: "ACME", Role: RoleTenant, TenantID: 1}
	admin := Principal{Subject: "ROOT", Role: RoleAdmin}

	tests := []struct {
		name      string
		required  []Role
		principal Principal
		present   bool
		want      error
	}{
		{"public endpoint, anonymous", nil, Principal{}, false, nil},
		{"public endpoint, authenticated", nil, tenant, true, nil},
		{"protected, anonymous", []Role{RoleTenant}, Principal{}, false, ErrInvalidCredentials},
		{"tenant on tenant endpoint", []Role{RoleTenant}, tenant, true, nil},
		{"admin on tenant endpoint", []Role{RoleTenant}, admin, true, ErrForbidden},
		{"tenant on admin endpoint", []Role{RoleAdmin}, tenant, true, ErrForbidden},
		{"admin on admin endpoint", []Role{RoleAdmin}, admin, true, nil},
		{"either role, tenant", []Role{RoleTenant, RoleAdmin}, tenant, true, nil},
		{"either role, admin", []Role{RoleTenant, RoleAdmin}, admin, true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.required, tc.principal, tc.present)
			if !errors.Is(err, tc.want) && !(err == nil && tc.want == nil) {
				t.Fatalf("Authorize = %v, want %v", err, tc.want)
			}
		})
	}
}
