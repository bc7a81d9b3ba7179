package database

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByEmail returns the user with the given email address.
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user by its ID.
func (r *UserRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of user rows.
func (r *UserRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// RegisterFirstAdmin inserts the bootstrap admin account. The count check and
// insert run in one serializable transaction so that of N concurrent
// registration attempts at most one can succeed; every other caller gets
// ErrRegistrationClosed.
func (r *UserRepo) RegisterFirstAdmin(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrRegistrationClosed
		}
		return tx.Create(user).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	// Two racing attempts can both read count=0; the loser then fails to
	// commit with a serialization failure or the email unique violation.
	// Either way someone else registered first.
	if err != nil && registrationConflict(err) {
		return ErrRegistrationClosed
	}
	return err
}

func registrationConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}
