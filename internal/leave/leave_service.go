package leave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/balance"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/events"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/identity"
	leaveerrors "github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leave/errors"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/leavetype"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/messaging/kafka"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/contextutil"
	"github.com/adeleke-taiwo-dev/HR-LeaveFlow/internal/shared/response"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetMyLeaves(ctx context.Context, actor identity.Actor, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error)
	GetTeamLeaves(ctx context.Context, actor identity.Actor, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error)
	GetAllLeaves(ctx context.Context, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, actor identity.Actor, id string) (LeaveResponse, error)
	Review(ctx context.Context, actor identity.Actor, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id string) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db         *gorm.DB
	repo       Repository
	balances   balance.Repository
	leaveTypes leavetype.Repository
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	balances balance.Repository,
	leaveTypes leavetype.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		balances:   balances,
		leaveTypes: leaveTypes,
		outbox:     outbox,
		logger:     l,
	}
}

// countBusinessDays counts Mon-Fri days in the inclusive range [start, end].
// This is the single authoritative day-count rule; clients never supply
// total_days.
func countBusinessDays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// Create validates the request against the current balance and overlap state,
// then inserts the leave and reserves the days in one transaction. The
// reservation itself is a guarded update, so two concurrent requests cannot
// jointly overdraw one balance row.
func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	totalDays := countBusinessDays(start, end)
	if totalDays == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoWorkingDays
	}

	lt, err := s.leaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveTypeUnavailable
		}
		return LeaveResponse{}, err
	}
	if !lt.IsActive {
		return LeaveResponse{}, leaveerrors.ErrLeaveTypeUnavailable
	}

	requesterID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrNotYourLeave
	}

	year := start.Year()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("create leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qbal := s.balances.WithTx(tx)

	overlap, err := qtx.HasOverlapping(ctx, actor.ID, start, end)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	// A missing balance row means no cap is tracked for this user, type and
	// year. Creation proceeds without a reservation.
	hasBalance := true
	if _, err := qbal.Find(ctx, actor.ID, req.LeaveTypeID, year); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("create leave balance lookup failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		hasBalance = false
	}

	if hasBalance {
		ok, err := qbal.ReservePending(ctx, actor.ID, req.LeaveTypeID, year, totalDays)
		if err != nil {
			log.Error("create leave reserve failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !ok {
			current, err := qbal.Find(ctx, actor.ID, req.LeaveTypeID, year)
			if err != nil {
				return LeaveResponse{}, err
			}
			return LeaveResponse{}, leaveerrors.NewInsufficientBalance(current.Remaining(), totalDays)
		}
	}

	l := &Leave{
		ID:          uuid.New(),
		RequesterID: requesterID,
		LeaveTypeID: lt.ID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		Status:      StatusPending,
	}
	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueRequested(ctx, tx, l); err != nil {
		log.Error("create leave outbox enqueue failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave created",
		zap.String("leave_id", l.ID.String()),
		zap.String("requester_id", actor.ID),
		zap.Int("total_days", totalDays),
	)

	created, err := s.repo.FindByID(ctx, l.ID.String())
	if err != nil || created == nil {
		return toResponse(l), nil
	}
	return toResponse(created), nil
}

func (s *service) GetMyLeaves(ctx context.Context, actor identity.Actor, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error) {
	normalizeFilter(&f)
	// Explicit department filters never widen an own-leaves query.
	f.DepartmentID = ""
	return s.list(ctx, ListScope{RequesterID: actor.ID}, f)
}

// GetTeamLeaves scopes to the caller's department for managers and is
// unrestricted beyond explicit filters for admins.
func (s *service) GetTeamLeaves(ctx context.Context, actor identity.Actor, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error) {
	normalizeFilter(&f)
	scope := ListScope{}
	if !actor.IsAdmin() {
		if actor.DepartmentID == "" {
			return []LeaveResponse{}, response.NewPaginationMeta(0, f.Page, f.Limit), nil
		}
		scope.DepartmentID = actor.DepartmentID
		f.DepartmentID = ""
	}
	return s.list(ctx, scope, f)
}

func (s *service) GetAllLeaves(ctx context.Context, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error) {
	normalizeFilter(&f)
	return s.list(ctx, ListScope{}, f)
}

func (s *service) list(ctx context.Context, scope ListScope, f ListFilter) ([]LeaveResponse, response.PaginationMeta, error) {
	leaves, total, err := s.repo.List(ctx, scope, f)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leaves failed", zap.Error(err))
		return nil, response.PaginationMeta{}, err
	}

	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, toResponse(&leaves[i]))
	}
	return out, response.NewPaginationMeta(total, f.Page, f.Limit), nil
}

func (s *service) GetByID(ctx context.Context, actor identity.Actor, id string) (LeaveResponse, error) {
	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := canView(actor, l); err != nil {
		return LeaveResponse{}, err
	}
	return toResponse(l), nil
}

// Review moves a pending leave to approved or rejected and settles the
// reserved days in the same transaction: approval consumes them, rejection
// releases them. The transition is guarded on the row still being pending,
// so a review racing a cancellation settles the balance exactly once.
func (s *service) Review(ctx context.Context, actor identity.Actor, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if !ValidReviewOutcome(req.Status) {
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingReviewable
	}

	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingReviewable
	}

	if actor.IsManager() {
		requesterDept := ""
		if l.Requester != nil && l.Requester.DepartmentID != nil {
			requesterDept = l.Requester.DepartmentID.String()
		}
		if requesterDept == "" || requesterDept != actor.DepartmentID {
			return LeaveResponse{}, leaveerrors.ErrDifferentDepartment
		}
	}

	reviewerID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrDifferentDepartment
	}

	now := time.Now().UTC()
	l.Status = req.Status
	l.ReviewerID = &reviewerID
	l.ReviewedAt = &now
	if req.Comment != "" {
		comment := req.Comment
		l.ReviewComment = &comment
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("review leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).TransitionFromPending(ctx, l)
	if err != nil {
		log.Error("review leave transition failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		// Another request reviewed or cancelled this leave first.
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingReviewable
	}

	// Both settlements are no-ops when no balance row exists, matching the
	// permissive fallback at creation.
	qbal := s.balances.WithTx(tx)
	year := l.StartDate.Year()
	switch req.Status {
	case StatusApproved:
		err = qbal.ConsumePending(ctx, l.RequesterID.String(), l.LeaveTypeID.String(), year, l.TotalDays)
	case StatusRejected:
		err = qbal.ReleasePending(ctx, l.RequesterID.String(), l.LeaveTypeID.String(), year, l.TotalDays)
	}
	if err != nil {
		log.Error("review leave balance settle failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueReviewed(ctx, tx, l); err != nil {
		log.Error("review leave outbox enqueue failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("review leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave reviewed",
		zap.String("leave_id", l.ID.String()),
		zap.String("reviewer_id", actor.ID),
		zap.String("status", l.Status),
	)
	return toResponse(l), nil
}

// Cancel lets the requester withdraw a still-pending leave, releasing the
// reserved days. Like Review, the transition is guarded on the pending
// status so only one of two racing settlements can go through.
func (s *service) Cancel(ctx context.Context, actor identity.Actor, id string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	l, err := s.findLeave(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.RequesterID.String() != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrNotYourLeave
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingCancellable
	}

	l.Status = StatusCancelled

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("cancel leave begin tx failed", zap.Error(tx.Error))
		return LeaveResponse{}, tx.Error
	}
	defer tx.Rollback()

	ok, err := s.repo.WithTx(tx).TransitionFromPending(ctx, l)
	if err != nil {
		log.Error("cancel leave transition failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		// Another request reviewed or cancelled this leave first.
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingCancellable
	}

	err = s.balances.WithTx(tx).ReleasePending(
		ctx, l.RequesterID.String(), l.LeaveTypeID.String(), l.StartDate.Year(), l.TotalDays,
	)
	if err != nil {
		log.Error("cancel leave balance release failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("cancel leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave cancelled", zap.String("leave_id", l.ID.String()))
	return toResponse(l), nil
}

// Delete removes a leave permanently and reverses whatever the leave had
// taken from the balance: pending days for a pending leave, used days for an
// approved one, nothing for rejected or cancelled.
func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	l, err := s.findLeave(ctx, id)
	if err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("delete leave begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	// The delete is guarded on the status the reversal below assumes. A leave
	// that was reviewed or cancelled in between affects no rows and the whole
	// transaction rolls back untouched.
	ok, err := s.repo.WithTx(tx).Delete(ctx, id, l.Status)
	if err != nil {
		log.Error("delete leave remove failed", zap.Error(err))
		return err
	}
	if !ok {
		return leaveerrors.ErrLeaveModified
	}

	qbal := s.balances.WithTx(tx)
	year := l.StartDate.Year()
	switch l.Status {
	case StatusPending:
		err = qbal.ReleasePending(ctx, l.RequesterID.String(), l.LeaveTypeID.String(), year, l.TotalDays)
	case StatusApproved:
		err = qbal.ReleaseUsed(ctx, l.RequesterID.String(), l.LeaveTypeID.String(), year, l.TotalDays)
	}
	if err != nil {
		log.Error("delete leave balance reverse failed", zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("delete leave commit failed", zap.Error(err))
		return err
	}

	log.Info("leave deleted", zap.String("leave_id", id), zap.String("was_status", l.Status))
	return nil
}

func (s *service) findLeave(ctx context.Context, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("find leave failed", zap.Error(err))
		return nil, err
	}
	return l, nil
}

func canView(actor identity.Actor, l *Leave) error {
	if l.RequesterID.String() == actor.ID || actor.IsAdmin() {
		return nil
	}
	if actor.IsManager() && l.Requester != nil && l.Requester.DepartmentID != nil &&
		l.Requester.DepartmentID.String() == actor.DepartmentID {
		return nil
	}
	return leaveerrors.ErrNotYourLeave
}

func (s *service) enqueueRequested(ctx context.Context, tx *gorm.DB, l *Leave) error {
	payload, err := json.Marshal(events.LeaveRequestedEvent{
		EventType:   "leave.requested",
		RequestID:   contextutil.GetRequestID(ctx),
		LeaveID:     l.ID.String(),
		RequesterID: l.RequesterID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		TotalDays:   l.TotalDays,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     "leave.requested",
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueReviewed(ctx context.Context, tx *gorm.DB, l *Leave) error {
	reviewerID := ""
	if l.ReviewerID != nil {
		reviewerID = l.ReviewerID.String()
	}
	payload, err := json.Marshal(events.LeaveReviewedEvent{
		EventType:   "leave.reviewed",
		RequestID:   contextutil.GetRequestID(ctx),
		LeaveID:     l.ID.String(),
		RequesterID: l.RequesterID.String(),
		ReviewerID:  reviewerID,
		Status:      l.Status,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     "leave.reviewed",
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func normalizeFilter(f *ListFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func toResponse(l *Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		RequesterID: l.RequesterID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewerID != nil {
		id := l.ReviewerID.String()
		resp.ReviewerID = &id
	}
	resp.ReviewComment = l.ReviewComment
	if l.ReviewedAt != nil {
		at := l.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
	}
	if l.Requester != nil {
		resp.Requester = &LeavePersonResponse{
			ID:        l.Requester.ID.String(),
			FirstName: l.Requester.FirstName,
			LastName:  l.Requester.LastName,
			Email:     l.Requester.Email,
		}
	}
	if l.Reviewer != nil {
		resp.Reviewer = &LeavePersonResponse{
			ID:        l.Reviewer.ID.String(),
			FirstName: l.Reviewer.FirstName,
			LastName:  l.Reviewer.LastName,
		}
	}
	return resp
}
