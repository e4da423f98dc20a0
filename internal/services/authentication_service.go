package services

import (
	"time"

	"realtimeChat/configs"
	"realtimeChat/internal/errs"
	"realtimeChat/internal/models"
	"realtimeChat/internal/repositories"
	"realtimeChat/internal/utils"
	"realtimeChat/internal/validators"
)

// AuthenticationService issues and verifies bearer tokens. The realtime
// gateway and the REST middleware both verify through it.
type AuthenticationService struct {
	authRepo *repositories.AuthenticationRepository
	config   *configs.Config
}

func NewAuthenticationService(
	authRepo *repositories.AuthenticationRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		config:   config,
	}
}

func (as *AuthenticationService) Register(user *models.User) (*models.User, []error) {
	var errors []error
	validationErrs := validators.ValidateUser(user)
	if len(validationErrs) > 0 {
		errors = append(errors, validationErrs...)
		return nil, errors
	}
	if as.authRepo.FindUserByEmail(user.Email) != nil {
		errors = append(errors, errs.ErrUserAlreadyExists)
		return nil, errors
	}
	password, err := utils.HashPassword(user.Password)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	user.PasswordHash = password
	return as.authRepo.CreateUser(user)
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, []error) {
	var errors []error

	user, loginErrs := as.authRepo.Login(loginData)
	if len(loginErrs) > 0 {
		errors = append(errors, loginErrs...)
		return nil, errors
	}

	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, jwtErr := utils.CreateJwtToken(
		user.ID,
		user.Username,
		user.Email,
		as.JwtKey(),
		expiration,
	)
	if jwtErr != nil {
		errors = append(errors, jwtErr)
		return nil, errors
	}

	return &models.LoginResponse{
		User:  *user.ToUserResponse(),
		Token: token,
	}, nil
}

// VerifyToken resolves a bearer token to its claims.
func (as *AuthenticationService) VerifyToken(token string) (*models.Claims, error) {
	claims, err := utils.VerifyToken(token, as.JwtKey())
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}

func (as *AuthenticationService) JwtKey() []byte {
	return []byte(as.config.Viper.GetString("jwt.secret"))
}
