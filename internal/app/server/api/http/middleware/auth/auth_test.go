package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"

	"lecturapozos/internal/utils/logger"
)

type stubSessions struct {
	tokens map[string]int
}

func (s stubSessions) Create(context.Context, int) (string, error) {
	return "", errors.New("not implemented")
}

func (s stubSessions) Validate(_ context.Context, token string) (int, error) {
	id, ok := s.tokens[token]
	if !ok {
		return 0, errors.New("unknown token")
	}
	return id, nil
}

type whoamiOutput struct {
	Body struct {
		UserID int `json:"user_id"`
	}
}

func TestAuth_Middleware(t *testing.T) {
	_, api := humatest.New(t)

	a := New(stubSessions{tokens: map[string]int{"good": 7}}, logger.Discard())
	huma.Register(api, huma.Operation{
		OperationID: "whoami",
		Method:      http.MethodGet,
		Path:        "/api/whoami",
		Middlewares: huma.Middlewares{a.Middleware()},
	}, func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		id, ok := GetUserID(ctx)
		if !ok {
			return nil, huma.Error500InternalServerError("no user in context")
		}
		out := &whoamiOutput{}
		out.Body.UserID = id
		return out, nil
	})

	tests := []struct {
		name       string
		header     []any
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: []any{"Authorization: Bearer good"}, wantStatus: http.StatusOK, wantBody: `"user_id":7`},
		{name: "no header", wantStatus: http.StatusUnauthorized, wantBody: "Missing or invalid credentials"},
		{name: "wrong scheme", header: []any{"Authorization: Basic abc"}, wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: []any{"Authorization: Bearer bad"}, wantStatus: http.StatusUnauthorized, wantBody: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get("/api/whoami", tt.header...)
			assert.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	id, ok := GetUserID(WithUserID(context.Background(), 12))
	assert.True(t, ok)
	assert.Equal(t, 12, id)
}
