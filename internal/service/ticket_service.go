package service

import (
	"context"
	"errors"
	"fmt"
	"go-parking-facility/internal/cache"
	"go-parking-facility/internal/metrics"
	"go-parking-facility/internal/model"
	"go-parking-facility/internal/repository"
	apperrors "go-parking-facility/pkg/app_errors"
	"go-parking-facility/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type TicketService interface {
	// 入場：容量預留 → 建立票券(兩步協議，第二步失敗時補償釋放)
	RegisterEntry(ctx context.Context, req model.RegisterEntryRequest) (*model.Ticket, error)
	// 出場：鎖票券 → 計費 → 落地收費明細 → 完成票券 → 釋放車位
	ProcessExit(ctx context.Context, ticketID int, freeHours float64) (*model.ExitResponse, error)
	// 試算：以現在時間作為暫定出場時間，不改任何狀態
	EstimateCharge(ctx context.Context, ticketID int, freeHours float64) (*model.Charge, error)
	GetOccupancy(ctx context.Context, branchID int, category model.VehicleCategory) (int, error)
	MarkIncident(ctx context.Context, ticketID int, note string) (*model.Ticket, error)
	List(ctx context.Context, branchID int) ([]*model.Ticket, error)
	GetByID(ctx context.Context, ticketID int) (*model.Ticket, error)
}

type TicketServiceImpl struct {
	txManager              repository.TxManager
	repository             repository.TicketRepository
	branchRepository       repository.BranchRepository
	subscriptionRepository repository.SubscriptionRepository
	chargeRepository       repository.ChargeRepository
	guard                  cache.CapacityGuard
	calculator             ChargeCalculator
}

func NewTicketService(
	txManager repository.TxManager,
	ticketRepository repository.TicketRepository,
	branchRepository repository.BranchRepository,
	subscriptionRepository repository.SubscriptionRepository,
	chargeRepository repository.ChargeRepository,
	guard cache.CapacityGuard,
	calculator ChargeCalculator,
) TicketService {
	return &TicketServiceImpl{
		txManager:              txManager,
		repository:             ticketRepository,
		branchRepository:       branchRepository,
		subscriptionRepository: subscriptionRepository,
		chargeRepository:       chargeRepository,
		guard:                  guard,
		calculator:             calculator,
	}
}

// generateFolio 分店限定、時間衍生的可讀票號
func generateFolio(branchCode string, entryTime time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("%s-%s-%s", branchCode, entryTime.Format("20060102-150405"), suffix)
}

func (s *TicketServiceImpl) RegisterEntry(ctx context.Context, req model.RegisterEntryRequest) (*model.Ticket, error) {
	category := model.VehicleCategory(req.VehicleCategory)
	if !category.IsValid() {
		return nil, apperrors.ErrVehicleTypeNotFound
	}

	branch, err := s.branchRepository.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive {
		return nil, apperrors.ErrInactiveBranch
	}

	// 同一車牌在同一分店最多一張在場票券
	if _, err := s.repository.FindInProgressByPlate(ctx, branch.ID, req.Plate); err == nil {
		return nil, apperrors.ErrDuplicateActiveTicket
	} else if !errors.Is(err, apperrors.ErrTicketNotFound) {
		return nil, err
	}

	// 1. 容量預留：唯一的共享同步點
	granted, err := s.guard.Reserve(ctx, branch.ID, category, branch.CapacityFor(category))
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, apperrors.ErrInsufficientCapacity
	}

	// 訂閱比對盡力而為：查無訂閱或查詢失敗都視為非訂閱戶
	var subscriptionID *int
	sub, err := s.subscriptionRepository.FindActiveByPlate(ctx, req.Plate)
	if err == nil {
		subscriptionID = &sub.ID
	} else if !errors.Is(err, apperrors.ErrSubscriptionNotFound) {
		logger.WithComponent("ticket_service").Warn("subscription lookup failed, treating as non-subscriber",
			zap.String("plate", req.Plate), zap.Error(err))
	}

	entryTime := time.Now().UTC()
	ticket := &model.Ticket{
		TicketID:        uuid.New(),
		BranchID:        branch.ID,
		Plate:           req.Plate,
		VehicleCategory: category,
		Folio:           generateFolio(branch.Code, entryTime),
		ScanCode:        uuid.New(),
		EntryTime:       entryTime,
		SubscriptionID:  subscriptionID,
		IsSubscriber:    subscriptionID != nil,
		Status:          model.TicketStatusInProgress,
	}

	// 2. 落地票券；失敗時補償釋放已預留的車位。
	//    補償使用 context.Background()，確保請求被取消也一定會執行。
	created, err := s.repository.Create(ctx, ticket)
	if err != nil {
		if releaseErr := s.guard.Release(context.Background(), branch.ID, category); releaseErr != nil {
			logger.WithComponent("ticket_service").Error("compensating release failed",
				zap.Int("branch_id", branch.ID),
				zap.String("category", string(category)),
				zap.Error(releaseErr))
		}

		// 與另一個入場請求競爭同一車牌
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateActiveTicket
		}
		return nil, err
	}

	return created, nil
}

func (s *TicketServiceImpl) ProcessExit(ctx context.Context, ticketID int, freeHours float64) (*model.ExitResponse, error) {
	var resp *model.ExitResponse
	var branchID int
	var category model.VehicleCategory

	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		ticket, err := s.repository.FindByIDWithLock(ctx, tx, ticketID)
		if err != nil {
			return err
		}

		if !ticket.IsInProgress() {
			// 與另一個出場請求競爭，或呼叫端重送
			if ticket.ExitTime != nil {
				return apperrors.ErrExitAlreadyRecorded
			}
			return apperrors.ErrTicketNotInProgress
		}

		branch, err := s.branchRepository.FindByID(ctx, ticket.BranchID)
		if err != nil {
			return err
		}

		// 同一訂閱的 consumed_hours 讀寫以列鎖序列化
		var sub *model.Subscription
		if ticket.SubscriptionID != nil {
			sub, err = s.subscriptionRepository.FindByIDWithLock(ctx, tx, *ticket.SubscriptionID)
			if err != nil && !errors.Is(err, apperrors.ErrSubscriptionNotFound) {
				return err
			}
		}

		// 計費失敗(如無費率可用)時交易回滾，票券維持在場狀態待設定修復後重試
		now := time.Now().UTC()
		exitTicket := *ticket
		exitTicket.ExitTime = &now
		charge, err := s.calculator.Compute(ctx, &exitTicket, branch, sub, freeHours, now)
		if err != nil {
			return err
		}

		completed, err := s.repository.Complete(ctx, tx, ticket.ID, now)
		if err != nil {
			return err
		}

		if _, err := s.chargeRepository.Create(ctx, tx, charge); err != nil {
			return err
		}

		if sub != nil && charge.SubscriptionHoursConsumed > 0 {
			if err := s.subscriptionRepository.AddConsumedHours(ctx, tx, sub.ID, charge.SubscriptionHoursConsumed); err != nil {
				return err
			}
		}

		branchID = completed.BranchID
		category = completed.VehicleCategory
		resp = &model.ExitResponse{
			Ticket: completed,
			Charge: charge,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 同步釋放車位；失敗只記 Warn，票券帳本才是真相來源，下一輪對帳會修正。
	// 絕不因計數器失敗而讓出場交易失敗。
	if err := s.guard.Release(context.Background(), branchID, category); err != nil {
		logger.WithComponent("ticket_service").Warn("release after exit failed, reconciliation will correct",
			zap.Int("branch_id", branchID),
			zap.String("category", string(category)),
			zap.Error(err))
	}

	metrics.ExitsTotal.WithLabelValues(fmt.Sprintf("%t", resp.Ticket.IsSubscriber)).Inc()
	metrics.ChargedAmountTotal.Add(resp.Charge.TotalAmount)

	return resp, nil
}

func (s *TicketServiceImpl) EstimateCharge(ctx context.Context, ticketID int, freeHours float64) (*model.Charge, error) {
	ticket, err := s.repository.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsInProgress() {
		return nil, apperrors.ErrTicketNotInProgress
	}

	branch, err := s.branchRepository.FindByID(ctx, ticket.BranchID)
	if err != nil {
		return nil, err
	}

	var sub *model.Subscription
	if ticket.SubscriptionID != nil {
		sub, err = s.subscriptionRepository.FindByID(ctx, *ticket.SubscriptionID)
		if err != nil && !errors.Is(err, apperrors.ErrSubscriptionNotFound) {
			return nil, err
		}
	}

	return s.calculator.Compute(ctx, ticket, branch, sub, freeHours, time.Now().UTC())
}

func (s *TicketServiceImpl) GetOccupancy(ctx context.Context, branchID int, category model.VehicleCategory) (int, error) {
	if !category.IsValid() {
		return 0, apperrors.ErrVehicleTypeNotFound
	}
	if _, err := s.branchRepository.FindByID(ctx, branchID); err != nil {
		return 0, err
	}
	return s.guard.CurrentOccupancy(ctx, branchID, category)
}

func (s *TicketServiceImpl) MarkIncident(ctx context.Context, ticketID int, note string) (*model.Ticket, error) {
	return s.repository.MarkIncident(ctx, ticketID, note)
}

func (s *TicketServiceImpl) List(ctx context.Context, branchID int) ([]*model.Ticket, error) {
	return s.repository.List(ctx, branchID)
}

func (s *TicketServiceImpl) GetByID(ctx context.Context, ticketID int) (*model.Ticket, error) {
	return s.repository.FindByID(ctx, ticketID)
}
