package balance

import (
	"context"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetMyBalances(ctx context.Context, userID string, year int) ([]LeaveBalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetMyBalances(ctx context.Context, userID string, year int) ([]LeaveBalanceResponse, error) {
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	balances, err := s.repo.FindAllByUser(ctx, userID, year)
	if err != nil {
		s.logger.Error("get balances failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = LeaveBalanceResponse{
			ID:          b.ID.String(),
			LeaveTypeID: b.LeaveTypeID.String(),
			Year:        b.Year,
			Allocated:   b.Allocated,
			Used:        b.Used,
			Pending:     b.Pending,
			Remaining:   b.Remaining(),
		}
	}
	return resp, nil
}
