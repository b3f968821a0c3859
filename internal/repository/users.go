package repository

import (
	"context"
	"fmt"

	"recommread/internal/models"
)

func (r *GormRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := requireFields("user",
		"username", user.Username,
		"email", user.Email,
		"password", user.Password,
	); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}
	return nil
}

func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *GormRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *GormRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *GormRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count users by %s: %w", column, err)
	}
	return count > 0, nil
}

func (r *GormRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
