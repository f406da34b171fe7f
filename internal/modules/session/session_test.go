package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"delivery-ops/internal/models"
	"delivery-ops/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	err    error
	issued []models.User
}

func (f *fakeIssuer) Issue(user models.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued = append(f.issued, user)
	return "token-" + user.ID, nil
}

func newTestService(issuer *fakeIssuer) (*Service, *store.Store) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	n := 0
	st := store.New(store.SeedState(now),
		store.WithClock(func() time.Time { return now }),
		store.WithIDGenerator(func() string { n++; return "user-" + string(rune('0'+n)) }),
	)
	return NewService(st, issuer), st
}

func TestLoginLogout(t *testing.T) {
	issuer := &fakeIssuer{}
	svc, st := newTestService(issuer)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Name: "Alice", Role: models.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "token-user-1", resp.Token)
	assert.True(t, resp.IsAuthenticated)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "Manager", resp.RoleLabel)
	assert.Len(t, resp.Navigation, 7)
	assert.True(t, st.Snapshot().IsAuthenticated())

	require.NoError(t, svc.Logout(ctx))
	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, cur.IsAuthenticated)
	assert.Nil(t, cur.User)

	_, err = svc.Navigation(ctx)
	assert.ErrorIs(t, err, models.ErrNotAuthenticated)
}

func TestLogin_SecondLoginReplacesSession(t *testing.T) {
	svc, st := newTestService(&fakeIssuer{})
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Name: "Alice", Role: models.RoleManager})
	require.NoError(t, err)
	_, err = svc.Login(ctx, models.LoginRequest{Name: "Bob", Role: models.RoleCourier})
	require.NoError(t, err)

	user, ok := st.Session()
	require.True(t, ok)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, "user-2", user.ID)

	items, err := svc.Navigation(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "my_deliveries", items[1].Key)
}

func TestLogin_TokenFailureEndsSession(t *testing.T) {
	svc, st := newTestService(&fakeIssuer{err: errors.New("boom")})

	_, err := svc.Login(context.Background(), models.LoginRequest{Name: "Alice", Role: models.RoleKitchen})
	assert.Error(t, err)
	assert.False(t, st.Snapshot().IsAuthenticated())
}

func TestToggleLanguage(t *testing.T) {
	svc, _ := newTestService(&fakeIssuer{})
	ctx := context.Background()

	resp, err := svc.ToggleLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LangHebrew, resp.Language)

	resp, err = svc.ToggleLanguage(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LangEnglish, resp.Language)
}

func TestHandler_Login(t *testing.T) {
	svc, _ := newTestService(&fakeIssuer{})
	h := NewHandler(svc)
	e := echo.New()
	h.RegisterPublicRoutes(e.Group("/api"))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"name":"Alice","role":"KITCHEN"}`, http.StatusOK},
		{"blank name", `{"name":"   ","role":"KITCHEN"}`, http.StatusBadRequest},
		{"unknown role", `{"name":"Alice","role":"CHEF"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session/state", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var state models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "Kitchen", state.RoleLabel)
}
