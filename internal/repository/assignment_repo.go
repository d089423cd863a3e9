package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
// Reads always return problems and test cases in position order, since
// submissions address problems by index.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Assignment, error)
	ListActive(ctx context.Context) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).
		Preload("Problems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Problems.TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.baseQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListActive(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.baseQuery(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}
