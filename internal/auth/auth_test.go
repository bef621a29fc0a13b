package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cache"
	"storefront/internal/errors"
	"storefront/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	p := Principal{UserID: 7, Username: "bob", Role: model.RoleSeller}

	sessionID, token, err := svc.GenerateSessionToken(p)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.ID)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "seller", claims.Role)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	_, token, err := NewJWTService("one", time.Hour).GenerateSessionToken(Principal{UserID: 1})
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("s", time.Hour)
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "sid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewSessionStore(cache.New(mr.Addr(), "", 0))
	ctx := context.Background()
	p := Principal{UserID: 3, Username: "carol", Role: model.RoleAdmin}

	require.NoError(t, store.CreateSession(ctx, "sid-1", p, time.Hour))

	got, err := store.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	require.NoError(t, store.DeleteSession(ctx, "sid-1"))
	_, err = store.GetSession(ctx, "sid-1")
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	admin := &Principal{UserID: 1, Role: model.RoleAdmin}
	seller := &Principal{UserID: 2, Role: model.RoleSeller}

	assert.NoError(t, RequireRole(admin, model.RoleAdmin))
	assert.NoError(t, RequireRole(seller, model.RoleAdmin, model.RoleSeller))
	assert.ErrorIs(t, RequireRole(seller, model.RoleAdmin), errors.ErrUnauthorized)
	assert.ErrorIs(t, RequireRole(nil, model.RoleCustomer), errors.ErrNotAuthenticated)
}

func TestCanManage(t *testing.T) {
	product := &model.Product{SellerID: 2}

	assert.True(t, (&Principal{UserID: 2, Role: model.RoleSeller}).CanManage(product))
	assert.True(t, (&Principal{UserID: 9, Role: model.RoleAdmin}).CanManage(product))
	assert.False(t, (&Principal{UserID: 3, Role: model.RoleSeller}).CanManage(product))

	var nobody *Principal
	assert.False(t, nobody.CanManage(product))
}
