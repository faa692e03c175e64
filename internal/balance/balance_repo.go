package balance

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	Find(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindAllByUser(ctx context.Context, userID string, year int) ([]LeaveBalance, error)

	// ReservePending moves days into pending only while
	// allocated - used - pending stays non-negative. Returns false when the
	// guard fails. The guard lives in the UPDATE itself so two concurrent
	// reservations cannot both pass a stale read.
	ReservePending(ctx context.Context, userID, leaveTypeID string, year, days int) (bool, error)

	// ReleasePending returns days from pending (reject, cancel, delete of a
	// pending leave).
	ReleasePending(ctx context.Context, userID, leaveTypeID string, year, days int) error

	// ConsumePending moves days from pending to used (approval).
	ConsumePending(ctx context.Context, userID, leaveTypeID string, year, days int) error

	// ReleaseUsed returns days from used (delete of an approved leave).
	ReleaseUsed(ctx context.Context, userID, leaveTypeID string, year, days int) error
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

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Find(ctx context.Context, userID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) ReservePending(ctx context.Context, userID, leaveTypeID string, year, days int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET pending = pending + ?, updated_at = now()
		WHERE user_id = ? AND leave_type_id = ? AND year = ?
		  AND allocated - used - pending >= ?
	`, days, userID, leaveTypeID, year, days)

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *repository) ReleasePending(ctx context.Context, userID, leaveTypeID string, year, days int) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET pending = pending - ?, updated_at = now()
		WHERE user_id = ? AND leave_type_id = ? AND year = ?
	`, days, userID, leaveTypeID, year).Error
}

func (r *repository) ConsumePending(ctx context.Context, userID, leaveTypeID string, year, days int) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET pending = pending - ?, used = used + ?, updated_at = now()
		WHERE user_id = ? AND leave_type_id = ? AND year = ?
	`, days, days, userID, leaveTypeID, year).Error
}

func (r *repository) ReleaseUsed(ctx context.Context, userID, leaveTypeID string, year, days int) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE leave_balances
		SET used = used - ?, updated_at = now()
		WHERE user_id = ? AND leave_type_id = ? AND year = ?
	`, days, userID, leaveTypeID, year).Error
}
