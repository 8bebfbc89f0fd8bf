package storage

import (
	"context"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/models"
)

// GetUsersByIDs batch-loads users. Unknown ids are simply absent from the map.
func (s *Service) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error) {
	users := make(map[int64]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var found []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate("get users", "user", err)
	}
	for _, u := range found {
		users[u.ID] = u
	}
	return users, nil
}

// SaveUser upserts a directory entry.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return translate("save user", "user", s.DB.WithContext(ctx).Save(user).Error)
}

func (s *Service) SetUserActive(ctx context.Context, userID int64, active bool) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", active)
	if result.Error != nil {
		return translate("set user active", "user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}
