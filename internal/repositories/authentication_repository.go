package repositories

import (
	"errors"

	"realtimeChat/internal/errs"
	"realtimeChat/internal/models"
	"realtimeChat/internal/utils"

	"gorm.io/gorm"
)

type AuthenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) *AuthenticationRepository {
	return &AuthenticationRepository{
		db: db,
	}
}

func (ar *AuthenticationRepository) CreateUser(user *models.User) (*models.User, []error) {
	result := ar.db.Create(user)
	if result.Error != nil {
		return nil, []error{translateCreateUserError(result.Error)}
	}
	if result.RowsAffected == 0 {
		return nil, []error{errs.ErrUserNotFound}
	}
	return user, nil
}

// translateCreateUserError maps the driver's unique-violation to the
// conflict sentinel. The service's pre-insert existence check cannot
// catch a concurrent duplicate registration; the constraint can.
func translateCreateUserError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.ErrUserAlreadyExists
	}
	return err
}

func (ar *AuthenticationRepository) FindUserByEmail(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

// UserExists is the directory lookup the chat service runs before
// persisting a message for a receiver.
func (ar *AuthenticationRepository) UserExists(userID uint) bool {
	var count int64
	ar.db.Model(&models.User{}).Where("id = ?", userID).Count(&count)
	return count > 0
}

func (ar *AuthenticationRepository) Login(login *models.LoginRequestBody) (*models.User, []error) {
	var errors []error
	user := ar.FindUserByEmail(login.Email)
	if user == nil {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, login.Password); err != nil {
		errors = append(errors, errs.ErrWrongPassword)
		return nil, errors
	}
	return user, nil
}
