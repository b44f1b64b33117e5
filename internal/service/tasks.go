package service

import (
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/pkg/validators"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// MaxListLimit caps the page size of a task listing
const MaxListLimit = 250

// sortColumns maps the public sort keys onto table columns
var sortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type ListOptions struct {
	Completed *bool
	SortBy    string
	Desc      bool
	Limit     int
	Skip      int
}

// Tasks manages tasks. Every lookup is scoped to the owning account so a
// task of someone else is indistinguishable from a missing one
type Tasks struct {
	db *gorm.DB
}

func NewTasks(db *gorm.DB) *Tasks {
	return &Tasks{db: db}
}

func (s *Tasks) ownedBy(ctx context.Context, acc *model.Account) *gorm.DB {
	return s.db.WithContext(ctx).Where("owner_id = ?", acc.ID)
}

type NewTask struct {
	Description string
	Completed   bool
}

func (s *Tasks) Create(ctx context.Context, acc *model.Account, in NewTask) (*model.Task, error) {
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID, %w", err)
	}

	t := &model.Task{
		ID:          id,
		Description: in.Description,
		Completed:   in.Completed,
		OwnerID:     acc.ID,
	}

	if err := validators.TaskValidator(t); err != nil {
		return nil, validationErr(err)
	}

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, persistErr(err)
	}

	return t, nil
}

func (s *Tasks) List(ctx context.Context, acc *model.Account, opts ListOptions) ([]model.Task, error) {
	q := s.ownedBy(ctx, acc)

	if opts.Completed != nil {
		q = q.Where("completed = ?", *opts.Completed)
	}

	if col, ok := sortColumns[opts.SortBy]; ok {
		dir := "asc"
		if opts.Desc {
			dir = "desc"
		}

		q = q.Order(col + " " + dir)
	}
	q = q.Order("created_at asc").Order("id asc")

	if opts.Limit > 0 {
		q = q.Limit(min(opts.Limit, MaxListLimit))
	}

	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}

	tasks := []model.Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, persistErr(err)
	}

	return tasks, nil
}

func (s *Tasks) Get(ctx context.Context, acc *model.Account, id string) (*model.Task, error) {
	var t model.Task

	err := s.ownedBy(ctx, acc).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, persistErr(err)
	}

	return &t, nil
}

// Update merges fields into the task and saves it. The allow-list is checked
// before the task is looked up
func (s *Tasks) Update(ctx context.Context, acc *model.Account, id string, fields map[string]json.RawMessage) (*model.Task, error) {
	if err := checkAllowed(fields, TaskFields); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, acc, id)
	if err != nil {
		return nil, err
	}

	if err := Merge(fields, TaskFields, taskTargets(t)); err != nil {
		return nil, err
	}

	if err := validators.TaskValidator(t); err != nil {
		return nil, validationErr(err)
	}

	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, persistErr(err)
	}

	return t, nil
}

// Delete removes the task and returns it as it was before deletion
func (s *Tasks) Delete(ctx context.Context, acc *model.Account, id string) (*model.Task, error) {
	var t model.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND owner_id = ?", id, acc.ID).First(&t).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return persistErr(err)
		}

		if err := tx.Where("id = ? AND owner_id = ?", id, acc.ID).Delete(&model.Task{}).Error; err != nil {
			return persistErr(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &t, nil
}
