package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock

// ListScope narrows a list query beyond the explicit filters. Zero values
// mean unrestricted.
type ListScope struct {
	RequesterID  string
	DepartmentID string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	List(ctx context.Context, scope ListScope, f ListFilter) ([]Leave, int64, error)

	// HasOverlapping reports whether the requester already has a pending or
	// approved leave intersecting the inclusive range [start, end].
	HasOverlapping(ctx context.Context, requesterID string, start, end time.Time) (bool, error)

	// TransitionFromPending writes the leave's new status and review fields,
	// succeeding only while the row is still pending. The guard lives in the
	// UPDATE itself so two racing transitions cannot both settle the balance
	// off the same stale read.
	TransitionFromPending(ctx context.Context, l *Leave) (bool, error)

	// Delete removes the leave only while its status still matches the one
	// the caller reconciled the balance against. Returns false when the row
	// changed or vanished in between.
	Delete(ctx context.Context, id, status string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("LeaveType").
		Preload("Reviewer").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, scope ListScope, f ListFilter) ([]Leave, int64, error) {
	q := r.db.WithContext(ctx).Model(&Leave{})

	if scope.RequesterID != "" {
		q = q.Where("leaves.requester_id = ?", scope.RequesterID)
	}
	if scope.DepartmentID != "" || f.DepartmentID != "" {
		deptID := scope.DepartmentID
		if deptID == "" {
			deptID = f.DepartmentID
		}
		q = q.Joins("JOIN users requesters ON requesters.id = leaves.requester_id").
			Where("requesters.department_id = ?", deptID)
	}
	if f.Status != "" {
		q = q.Where("leaves.status = ?", f.Status)
	}
	if f.LeaveTypeID != "" {
		q = q.Where("leaves.leave_type_id = ?", f.LeaveTypeID)
	}
	// Date filters select leaves starting within [from, to], not leaves
	// overlapping it.
	if f.From != "" {
		q = q.Where("leaves.start_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("leaves.start_date <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := q.
		Preload("Requester").
		Preload("LeaveType").
		Preload("Reviewer").
		Order("leaves.created_at DESC, leaves.id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&leaves).Error
	if err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

func (r *repository) HasOverlapping(ctx context.Context, requesterID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Leave{}).
		Where("requester_id = ?", requesterID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) TransitionFromPending(ctx context.Context, l *Leave) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE leaves
		SET status = ?, reviewer_id = ?, review_comment = ?, reviewed_at = ?, updated_at = now()
		WHERE id = ? AND status = 'pending'
	`, l.Status, l.ReviewerID, l.ReviewComment, l.ReviewedAt, l.ID)

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id, status string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM leaves WHERE id = ? AND status = ?
	`, id, status)

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}
