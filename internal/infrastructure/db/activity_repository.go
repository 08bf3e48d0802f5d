package db

import (
	"context"
	"time"

	"github.com/swarmhive/orchestrator/internal/core/ports"
	"github.com/swarmhive/orchestrator/internal/domain"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type activityRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepository(db *gorm.DB, log *logger.Logger) ports.ActivityRepository {
	return &activityRepository{
		db:  db,
		log: log,
	}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		r.log.Errorw("activity_repo_create_failed", "action", activity.Action, "agent_type", activity.AgentType, "error", err)
		return err
	}
	return nil
}

func (r *activityRepository) GetAll(ctx context.Context, limit int) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		r.log.Errorw("activity_repo_list_failed", "error", err)
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) GetByAgentType(ctx context.Context, agentType domain.AgentType, limit int) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Where("agent_type = ?", agentType).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		r.log.Errorw("activity_repo_get_by_type_failed", "agent_type", agentType, "error", err)
		return nil, err
	}
	return activities, nil
}

// CleanupOld removes archived activities older than the given duration.
func (r *activityRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Activity{}).Error; err != nil {
		r.log.Errorw("activity_repo_cleanup_failed", "error", err)
		return err
	}
	r.log.Infow("activity_repo_cleanup_ok", "cutoff", cutoff)
	return nil
}
