package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	PlatformID string `db:"platform_id"`
}

type Contract struct {
	ID         int64      `db:"id"`
	CustomerID int64      `db:"customer_id"`
	Plan       string     `db:"plan"`
	Status     string     `db:"status"`
	PriceEUR   float64    `db:"price_eur"`
	SLATier    string     `db:"sla_tier"`
	StartDate  time.Time  `db:"start_date"`
	EndDate    *time.Time `db:"end_date"`
}

// Ticket is the persisted record of a support ticket. The channel itself
// lives in the platform layer; this row is a best-effort audit trail.
type Ticket struct {
	ID         uuid.UUID `db:"id"`
	PlatformID string    `db:"platform_id"`
	CustomerID *int64    `db:"customer_id"`
	ContractID *int64    `db:"contract_id"`
	ChannelID  string    `db:"channel_id"`
	Title      string    `db:"title"`
	CreatedAt  time.Time `db:"created_at"`
}
