package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-auction-backend/internal/domain"
)

func newTestRepo(t *testing.T) *UserRepo {
	t.Helper()
	// named shared-cache memory DB so every pooled connection sees the
	// same data, isolated per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return NewUserRepo(db)
}

func seedUser(t *testing.T, r *UserRepo, name, email string, spent float64) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           fmt.Sprintf("id-%s", name),
		UserName:     name,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Phone:        "03001234567",
		Address:      "Lahore",
		Role:         domain.RoleBidder,
		MoneySpent:   spent,
	}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestCreateDuplicateEmailHitsUniqueIndex(t *testing.T) {
	r := newTestRepo(t)
	seedUser(t, r, "aisha", "aisha@example.com", 0)

	dup := &domain.User{
		ID:           "id-other",
		UserName:     "other",
		Email:        "aisha@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Phone:        "03007654321",
		Address:      "Karachi",
		Role:         domain.RoleAuctioneer,
	}
	err := r.Create(context.Background(), dup)
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	// the first record is untouched
	got, err := r.FindByEmail(context.Background(), "aisha@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "aisha", got.UserName)
}

func TestFindNotFoundReturnsNilNil(t *testing.T) {
	r := newTestRepo(t)

	u, err := r.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = r.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestFindRoundtrip(t *testing.T) {
	r := newTestRepo(t)
	seeded := seedUser(t, r, "bilal", "bilal@example.com", 120)

	byID, err := r.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, seeded.Email, byID.Email)

	byEmail, err := r.FindByEmail(context.Background(), seeded.Email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, seeded.ID, byEmail.ID)
}

func TestLeaderboardExcludesNonSpendersAndSortsDescending(t *testing.T) {
	r := newTestRepo(t)
	seedUser(t, r, "zara", "zara@example.com", 450)
	seedUser(t, r, "omar", "omar@example.com", 0)
	seedUser(t, r, "hina", "hina@example.com", 900)

	entries, err := r.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.LeaderboardEntry{UserName: "hina", MoneySpent: 900}, entries[0])
	assert.Equal(t, domain.LeaderboardEntry{UserName: "zara", MoneySpent: 450}, entries[1])
}

func TestLeaderboardEmptyStore(t *testing.T) {
	r := newTestRepo(t)

	entries, err := r.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
