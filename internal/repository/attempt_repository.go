package repository

import (
	"context"
	"errors"
	"time"

	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

// ErrAttemptClosed is returned by the conditional updates when the attempt is
// not in the state the update requires.
var ErrAttemptClosed = errors.New("attempt is not in the required state")

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create inserts a new open attempt. A second open attempt for the same student
// and test violates the active_key unique index and yields gorm.ErrDuplicatedKey
// when the connection was opened with TranslateError.
func (r *AttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	key := model.ActiveKeyFor(attempt.StudentID, attempt.TestID)
	attempt.ActiveKey = &key
	return r.DB.WithContext(ctx).Create(attempt).Error
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindActive(ctx context.Context, studentID uint, testID string) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND test_id = ? AND end_time IS NULL", studentID, testID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) HasCompleted(ctx context.Context, studentID uint, testID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("student_id = ? AND test_id = ? AND end_time IS NOT NULL", studentID, testID).
		Count(&count).Error
	return count > 0, err
}

// Complete freezes an open attempt with its scored answers. The update only
// matches while end_time is still NULL, so of two racing submits exactly one
// succeeds and the other gets ErrAttemptClosed.
func (r *AttemptRepository) Complete(ctx context.Context, id string, answers []model.SubmittedAnswer, score float64, endTime time.Time) error {
	result := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND end_time IS NULL", id).
		Select("answers", "score", "end_time", "progress", "active_key", "updated_at").
		Updates(&model.Attempt{
			Answers:   answers,
			Score:     &score,
			EndTime:   &endTime,
			Progress:  nil,
			ActiveKey: nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttemptClosed
	}
	return nil
}

// ApplyOverride stores regraded answers on a submitted attempt.
func (r *AttemptRepository) ApplyOverride(ctx context.Context, id string, answers []model.SubmittedAnswer, score float64) error {
	result := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND end_time IS NOT NULL", id).
		Select("answers", "score", "updated_at").
		Updates(&model.Attempt{
			Answers: answers,
			Score:   &score,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports unchanged rows as unaffected, so confirm the state first
		return r.requireState(ctx, id, "end_time IS NOT NULL")
	}
	return nil
}

// SaveProgress replaces the autosave snapshot while the attempt is open.
// It reports false when the attempt has already been submitted.
func (r *AttemptRepository) SaveProgress(ctx context.Context, id string, progress model.AttemptProgress) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ? AND end_time IS NULL", id).
		Select("progress").
		Updates(&model.Attempt{Progress: &progress})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.requireState(ctx, id, "end_time IS NULL"); err != nil {
			if errors.Is(err, ErrAttemptClosed) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// LoadProgress returns nil when no snapshot was saved.
func (r *AttemptRepository) LoadProgress(ctx context.Context, id string) (*model.AttemptProgress, error) {
	var a model.Attempt
	err := r.DB.WithContext(ctx).Select("id", "progress").Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a.Progress, nil
}

func (r *AttemptRepository) ClearProgress(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ?", id).
		Select("progress").
		Updates(&model.Attempt{Progress: nil}).Error
}

func (r *AttemptRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByTest(ctx context.Context, testID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("start_time DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) requireState(ctx context.Context, id, condition string) error {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Where("id = ?", id).
		Where(condition).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAttemptClosed
	}
	return nil
}
