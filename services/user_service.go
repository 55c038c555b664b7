package services

import (
	"errors"
	"fmt"
	"strings"

	"focuslist/focuslist/broker"
	"focuslist/focuslist/database"
	"focuslist/focuslist/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=320"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

type UserServiceInterface interface {
	Register(db *database.Database, input RegisterInput) (models.User, error)
	GetUserById(db *database.Database, id uuid.UUID) (models.User, error)
}

type UserService struct {
	auth       AuthServiceInterface
	categories CategoryServiceInterface
}

func NewUserService(auth AuthServiceInterface, categories CategoryServiceInterface) *UserService {
	return &UserService{auth: auth, categories: categories}
}

// Register creates the account and its starter categories together.
func (s *UserService) Register(db *database.Database, input RegisterInput) (models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if err := validateStruct(input); err != nil {
		return models.User{}, err
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PasswordHash: hash,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var existing int64
	if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
		tx.Rollback()
		return models.User{}, fmt.Errorf("checking email: %w", err)
	}
	if existing > 0 {
		tx.Rollback()
		return models.User{}, ErrEmailTaken
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}

	if err := s.categories.CreateDefaultCategories(tx, user.ID); err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := recordEvent(tx, broker.UserCreated, "user", user.ID, map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	}); err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}

var UserServiceInstance UserServiceInterface
