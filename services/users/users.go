// Package users stores accounts, checks passwords and builds the profile,
// contribution and activity views.
package users

import (
	"errors"
	"log"
	"strings"
	"time"

	"quizhub/models"
	"quizhub/services/apperror"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var clock = func() time.Time { return time.Now().UTC() }

type StoreInput struct {
	UserName    string `json:"userName" validate:"required,max=191"`
	Email       string `json:"email" validate:"omitempty,email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" validate:"required,min=8"`
}

// Store creates the user unless the user name is taken, in which case the
// existing user is returned and created is false. New users always get the
// User role.
func Store(db *gorm.DB, in StoreInput, saltRound int) (user *models.User, created bool, err error) {
	existing, err := GetByUserName(db, in.UserName)
	if err == nil {
		log.Printf("[USERS] User %s already exists. Skipping creation.", in.UserName)
		return existing, false, nil
	}
	if !apperror.Is(err, apperror.NotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), saltRound)
	if err != nil {
		return nil, false, apperror.Wrap(apperror.Internal, err, "Failed to process your request!")
	}

	u := models.User{
		UserName:    strings.TrimSpace(in.UserName),
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DisplayName: in.DisplayName,
		Role:        models.RoleUser,
		Password:    string(hashed),
		CreatedAt:   clock(),
	}
	if err := db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apperror.Conflictf("User name is already registered!")
		}
		return nil, false, apperror.Wrap(apperror.Internal, err, "Failed to store user!")
	}

	log.Printf("[USERS] User %s successfully added", u.UserName)
	return &u, true, nil
}

// Authenticate checks a password and reports the same error for an unknown
// user and a wrong password.
func Authenticate(db *gorm.DB, userName, password string) (*models.User, error) {
	u, err := GetByUserName(db, userName)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, apperror.New(apperror.Unauthorized, "Invalid credentials!")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperror.New(apperror.Unauthorized, "Invalid credentials!")
	}
	return u, nil
}

func GetByUserName(db *gorm.DB, userName string) (*models.User, error) {
	var u models.User
	if err := db.Where("user_name = ?", userName).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "User %s not found", userName)
	}
	return &u, nil
}

func GetByID(db *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "User with ID %d not found", id)
	}
	return &u, nil
}

func List(db *gorm.DB) ([]models.User, error) {
	var all []models.User
	if err := db.Order("id asc").Find(&all).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to list users!")
	}
	return all, nil
}

func ValidRole(role string) bool {
	switch role {
	case models.RoleUser, models.RoleContributor, models.RoleAdmin:
		return true
	}
	return false
}

func UpdateRole(db *gorm.DB, userName, role string) (*models.User, error) {
	if !ValidRole(role) {
		return nil, apperror.InvalidRequestf("Role must be one of %s, %s or %s", models.RoleUser, models.RoleContributor, models.RoleAdmin)
	}

	u, err := GetByUserName(db, userName)
	if err != nil {
		return nil, err
	}
	if err := db.Model(u).Update("role", role).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, err, "Failed to update role!")
	}
	log.Printf("[USERS] Role of %s set to %s", userName, role)
	return u, nil
}

// IsContributor is the claim carried in the auth token: Admin and
// Contributor roles, plus any user name listed in extra.
func IsContributor(u models.User, extra func(string) bool) bool {
	if u.Role == models.RoleAdmin || u.Role == models.RoleContributor {
		return true
	}
	return extra != nil && extra(u.UserName)
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf(format, args...)
	}
	return apperror.Wrap(apperror.Internal, err, "Failed to query database!")
}
