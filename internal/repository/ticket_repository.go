package repository

import (
	"context"
	"go-parking-facility/internal/model"
	apperrors "go-parking-facility/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	List(ctx context.Context, branchID int) ([]*model.Ticket, error)
	FindByID(ctx context.Context, id int) (*model.Ticket, error)
	FindInProgressByPlate(ctx context.Context, branchID int, plate string) (*model.Ticket, error)
	CountInProgress(ctx context.Context, branchID int, category model.VehicleCategory) (int, error)
	MarkIncident(ctx context.Context, id int, note string) (*model.Ticket, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error)
	Complete(ctx context.Context, tx pgx.Tx, id int, exitTime time.Time) (*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

const ticketColumns = `id, ticket_id, branch_id, plate, vehicle_category, folio, scan_code,
		entry_time, exit_time, subscription_id, is_subscriber, status,
		has_incident, incident_note, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.BranchID,
		&ticket.Plate,
		&ticket.VehicleCategory,
		&ticket.Folio,
		&ticket.ScanCode,
		&ticket.EntryTime,
		&ticket.ExitTime,
		&ticket.SubscriptionID,
		&ticket.IsSubscriber,
		&ticket.Status,
		&ticket.HasIncident,
		&ticket.IncidentNote,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
			ticket_id, branch_id, plate, vehicle_category, folio, scan_code,
			entry_time, subscription_id, is_subscriber, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + ticketColumns

	created, err := scanTicket(r.pool.QueryRow(ctx, query,
		ticket.TicketID, ticket.BranchID, ticket.Plate, ticket.VehicleCategory,
		ticket.Folio, ticket.ScanCode, ticket.EntryTime,
		ticket.SubscriptionID, ticket.IsSubscriber, ticket.Status,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *TicketRepositoryImpl) List(ctx context.Context, branchID int) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE branch_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindInProgressByPlate(ctx context.Context, branchID int, plate string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE branch_id = $1 AND plate = $2 AND status = $3
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, branchID, plate, model.TicketStatusInProgress))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

// CountInProgress 票券帳本是在場數的唯一真相來源，對帳以此為準
func (r *TicketRepositoryImpl) CountInProgress(ctx context.Context, branchID int, category model.VehicleCategory) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE branch_id = $1 AND vehicle_category = $2 AND status = $3
	`

	var count int
	err := r.pool.QueryRow(ctx, query, branchID, category, model.TicketStatusInProgress).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// MarkIncident 事故註記不改變票券狀態，完成後仍可註記
func (r *TicketRepositoryImpl) MarkIncident(ctx context.Context, id int, note string) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET has_incident = true, incident_note = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, note, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
		FOR UPDATE
	`

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) Complete(ctx context.Context, tx pgx.Tx, id int, exitTime time.Time) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $1, exit_time = $2, updated_at = $3
		WHERE id = $4 AND status = $5 AND exit_time IS NULL
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(ctx, query,
		model.TicketStatusCompleted, exitTime, time.Now().UTC(),
		id, model.TicketStatusInProgress,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			// 已完成或已記錄出場時間
			return nil, apperrors.ErrTicketNotInProgress
		}
		return nil, err
	}

	return ticket, nil
}
