package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
)

func TestJWTService_IssueVerify(t *testing.T) {
	user := &db.User{ID: 42, Email: "ana@quantox.com", Role: authz.RoleProjectManager}

	t.Run("without ttl has no expiry", func(t *testing.T) {
		svc := NewJWTService("secret", 0)
		token, exp, err := svc.Issue(user)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if exp != nil {
			t.Errorf("expiry = %v, want nil", exp)
		}

		claims, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		id, err := claims.UserID()
		if err != nil || id != 42 {
			t.Errorf("UserID() = %d, %v", id, err)
		}
		if claims.Role != authz.RoleProjectManager || claims.Email != user.Email {
			t.Errorf("claims = %+v", claims)
		}
		if claims.ExpiresAt != nil {
			t.Errorf("exp claim = %v, want none", claims.ExpiresAt)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		svc := NewJWTService("secret", time.Hour)
		issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return issued }
		token, exp, err := svc.Issue(user)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if exp == nil || !exp.Equal(issued.Add(time.Hour)) {
			t.Errorf("expiry = %v", exp)
		}

		if _, err := svc.Verify(token); err != nil {
			t.Errorf("Verify() within ttl error = %v", err)
		}

		svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
		if _, err := svc.Verify(token); err == nil {
			t.Error("Verify() accepted an expired token")
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, _, err := NewJWTService("secret", 0).Issue(user)
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if _, err := NewJWTService("other", 0).Verify(token); err == nil {
			t.Error("Verify() accepted a token signed with another secret")
		}
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		claims := Claims{Email: user.Email, Role: authz.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("failed to build token: %v", err)
		}
		if _, err := NewJWTService("secret", 0).Verify(token); err == nil {
			t.Error("Verify() accepted alg none")
		}
	})

	t.Run("empty secret cannot issue", func(t *testing.T) {
		if _, _, err := NewJWTService("", 0).Issue(user); err == nil {
			t.Error("Issue() succeeded without a secret")
		}
	})
}

func TestClaims_UserID(t *testing.T) {
	for _, sub := range []string{"", "abc", "0", "-3"} {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		if _, err := c.UserID(); err == nil {
			t.Errorf("UserID() accepted subject %q", sub)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc.def", "abc.def", false},
		{"  Bearer   abc.def  ", "abc.def", false},
		{"Basic dXNlcg==", "", true},
		{"Bearer", "", true},
		{"Bearer ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
