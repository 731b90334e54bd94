// Package profile resolves user ids to display names.
package profile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"venuehub/internal/dbmysql"
)

const statusActive = "active"

// Repository reads and writes profiles and serves as a
// messaging.ProfileDirectory.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateProfile(ctx context.Context, p *dbmysql.Profile) error {
	if p.Status == "" {
		p.Status = statusActive
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) UpdateProfile(ctx context.Context, p *dbmysql.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (*dbmysql.Profile, error) {
	var p dbmysql.Profile
	err := r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, statusActive).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LookupDisplayName reports ok=false for unknown or inactive users and for
// profiles without a display name.
func (r *Repository) LookupDisplayName(ctx context.Context, userID string) (string, bool, error) {
	p, err := r.GetProfile(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		return "", false, nil
	}
	return name, true, nil
}
