package service

import (
	"errors"
	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/util"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) List() ([]model.User, error) {
	return s.UserRepo.FindAll()
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return user, err
}

// UserUpdate 全量替换语义，不做局部 patch。
type UserUpdate struct {
	Name     string
	Username string
	Password string
}

func (s *UserService) Update(id uint, update UserUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if update.Username != user.Username {
		if _, err := s.UserRepo.FindByUsername(update.Username); err == nil {
			return nil, fmt.Errorf("username %q already taken: %w", update.Username, util.ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user.Name = update.Name
	user.Username = update.Username
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleDisabled 读取当前状态后取反；连续两次调用回到原值。
func (s *UserService) ToggleDisabled(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	user.Disabled = !user.Disabled
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	affected, err := s.UserRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrNotFound
	}
	return nil
}
