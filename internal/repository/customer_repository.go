package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customhost-support/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type CustomerRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCustomerRepository(db *pgxpool.Pool, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// GetByPlatformID resolves a customer from their chat-platform account id.
func (r *CustomerRepository) GetByPlatformID(ctx context.Context, platformID string) (*models.Customer, error) {
	query := squirrel.Select("c.id", "c.name", "c.email", "l.platform_id").
		From("customers c").
		Join("platform_links l ON l.customer_id = c.id").
		Where(squirrel.Eq{"l.platform_id": platformID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.PlatformID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	return &customer, nil
}

// GetActiveContract returns the most recently started active contract.
func (r *CustomerRepository) GetActiveContract(ctx context.Context, customerID int64) (*models.Contract, error) {
	query := squirrel.Select("id", "customer_id", "plan", "status", "price_eur", "sla_tier", "start_date", "end_date").
		From("contracts").
		Where(squirrel.Eq{"customer_id": customerID, "status": "active"}).
		OrderBy("start_date DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var contract models.Contract
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&contract.ID, &contract.CustomerID, &contract.Plan, &contract.Status,
		&contract.PriceEUR, &contract.SLATier, &contract.StartDate, &contract.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up contract: %w", err)
	}

	return &contract, nil
}

// InsertTicket records a created ticket for auditing.
func (r *CustomerRepository) InsertTicket(ctx context.Context, ticket *models.Ticket) error {
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}

	query := squirrel.Insert("tickets").
		Columns("id", "platform_id", "customer_id", "contract_id", "channel_id", "title", "created_at").
		Values(ticket.ID, ticket.PlatformID, ticket.CustomerID, ticket.ContractID, ticket.ChannelID, ticket.Title, ticket.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
