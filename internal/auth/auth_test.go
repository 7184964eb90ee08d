package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	tm := NewTokenManager("secret", 30*time.Minute, clk)
	user := &domain.User{Name: "Ana", Email: "ana@corp.com", Role: domain.UserRoleUser}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(30*time.Minute), exp)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@corp.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, domain.UserRoleUser, claims.Role)
}

func TestTokenExpiry(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	tm := NewTokenManager("secret", time.Minute, clk)

	token, _, err := tm.GenerateToken(&domain.User{Email: "ana@corp.com"})
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	clk := clock.NewFake(time.Now())
	token, _, err := NewTokenManager("one", time.Hour, clk).GenerateToken(&domain.User{Email: "a@b.co"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour, clk).ParseToken(token)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	require.NoError(t, ComparePassword(hash, "s3cret!"))
	require.Error(t, ComparePassword(hash, "wrong"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("s3cret!", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestComparePasswordMismatch(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.ErrorIs(t, ComparePassword(hash, "nope"), ErrPasswordMismatch)

	err = ComparePassword("not-a-hash", "s3cret!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, NeedsRehash(hash, bcrypt.MinCost))
	assert.True(t, NeedsRehash(hash, bcrypt.MinCost+1))
	assert.True(t, NeedsRehash("garbage", bcrypt.MinCost))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer  abc.def ", "abc.def", true},
		{"", "", false},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
