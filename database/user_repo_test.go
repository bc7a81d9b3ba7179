package database

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

func testAdmin(email string) *models.User {
	return &models.User{
		Email:          email,
		HashedPassword: "$2a$10$notarealhashnotarealhashnotarealhash",
		FullName:       "Site Owner",
		IsActive:       true,
		IsAdmin:        true,
	}
}

func TestRegisterFirstAdmin(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	require.NoError(t, repo.RegisterFirstAdmin(testAdmin("owner@example.com")))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	user, err := repo.FindByEmail("owner@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.True(t, user.IsActive)
}

func TestRegisterFirstAdminClosesAfterFirstUser(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	require.NoError(t, repo.RegisterFirstAdmin(testAdmin("owner@example.com")))

	err := repo.RegisterFirstAdmin(testAdmin("intruder@example.com"))
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.FindByEmail("intruder@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRegisterFirstAdminConcurrentAttempts(t *testing.T) {
	db := newTestDB(t)

	// One pooled connection makes the racing transactions take turns, so
	// every loser observes the winner's row.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewUserRepo(db)

	const attempts = 8
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- repo.RegisterFirstAdmin(testAdmin(fmt.Sprintf("admin%d@example.com", i)))
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrRegistrationClosed):
			losses++
		default:
			t.Fatalf("unexpected registration error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegistrationConflictMapping(t *testing.T) {
	// Commit-time failures under postgres: the loser of a serializable race
	// or an email collision both mean registration already happened.
	conflicts := []error{
		errors.New("ERROR: could not serialize access due to read/write dependencies among transactions (SQLSTATE 40001)"),
		errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`),
		errors.New("UNIQUE constraint failed: users.email"),
	}
	for _, err := range conflicts {
		assert.True(t, registrationConflict(err), err.Error())
	}

	assert.False(t, registrationConflict(errors.New("connection refused")))
	assert.False(t, registrationConflict(gorm.ErrRecordNotFound))
}

func TestFindByID(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	admin := testAdmin("owner@example.com")
	require.NoError(t, repo.RegisterFirstAdmin(admin))

	found, err := repo.FindByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", found.Email)

	_, err = repo.FindByID(admin.ID + 100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
