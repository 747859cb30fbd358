package services

import (
	"shop_backend/internal/appErrors"
	"shop_backend/internal/repositories"
	"shop_backend/internal/services/dto"
)

type UserService interface {
	ListUsers(page, pageSize int) (*dto.UserListResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

// ListUsers returns a page of users for the admin panel.
func (s *UserServiceImpl) ListUsers(page, pageSize int) (*dto.UserListResponse, error) {
	offset := (page - 1) * pageSize

	users, err := s.userRepo.FindAll(pageSize, offset)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	total, err := s.userRepo.CountAll()
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.UserListResponse{
		Success: true,
		Total:   total,
		Users:   users,
	}, nil
}
