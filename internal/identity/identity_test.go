package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDevProvider_Authenticate(t *testing.T) {
	provider := NewDevProvider()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid_credentials", "user@example.com", "secret", nil},
		{"empty_password", "user@example.com", "", ErrInvalidCredentials},
		{"missing_at", "userexample.com", "secret", ErrInvalidCredentials},
		{"missing_domain_dot", "user@localhost", "secret", ErrInvalidCredentials},
		{"empty_email", "", "secret", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := provider.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDevProvider_Register(t *testing.T) {
	provider := NewDevProvider()
	ctx := context.Background()

	assert.NoError(t, provider.Register(ctx, "a@b.com", "pw", "Name"))
	assert.ErrorIs(t, provider.Register(ctx, "a@b.com", "pw", "   "), ErrInvalidCredentials)
	assert.ErrorIs(t, provider.Register(ctx, "bad", "pw", "Name"), ErrInvalidCredentials)
}

func TestClient_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantNilErr bool
	}{
		{"success", http.StatusOK, `{"ok":true}`, nil, true},
		{"unauthorized", http.StatusUnauthorized, `{"ok":false}`, ErrInvalidCredentials, false},
		{"rejected_body", http.StatusOK, `{"ok":false,"error":"locked"}`, ErrInvalidCredentials, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/login", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second)
			err := client.Authenticate(context.Background(), "a@b.com", "pw")
			if tt.wantNilErr {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.SendPasswordReset(context.Background(), "a@b.com")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "identity API returned status")
}
