package imports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royalcarriage/platform/internal/platform/db"
)

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// Repository is the persistence contract for trip imports.
type Repository interface {
	ExistingConfirmations(ctx context.Context, organizationID string, numbers []string) (map[string]bool, error)
	InsertTrips(ctx context.Context, trips []Trip) error
}

// PGRepository stores imported trips in Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ExistingConfirmations reports which of the given confirmation numbers
// are already stored for the organization.
func (r *PGRepository) ExistingConfirmations(ctx context.Context, organizationID string, numbers []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(numbers))
	if len(numbers) == 0 {
		return existing, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT confirmation_number FROM trips
		WHERE organization_id = $1 AND confirmation_number = ANY($2)`,
		organizationID, numbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		existing[n] = true
	}
	return existing, rows.Err()
}

// InsertTrips writes a batch of trips in one transaction; either every
// row lands or none do.
func (r *PGRepository) InsertTrips(ctx context.Context, trips []Trip) error {
	if len(trips) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range trips {
		batch.Queue(`
			INSERT INTO trips (
				confirmation_number, pickup_date, pickup_time, pickup_address,
				dropoff_address, passenger_name, vehicle_type, passengers,
				total_amount_cents, gratuity_cents, payment_method, status,
				organization_id, import_batch_id, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())`,
			t.ConfirmationNumber, t.PickupDate, t.PickupTime, t.PickupAddress,
			t.DropoffAddress, t.PassengerName, t.VehicleType, t.Passengers,
			t.TotalAmountCents, t.GratuityCents, t.PaymentMethod, t.Status,
			t.OrganizationID, t.ImportBatchID)
	}

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		defer func() {
			_ = results.Close()
		}()
		for range trips {
			if _, err := results.Exec(); err != nil {
				return err
			}
		}
		return results.Close()
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		// A trip slipped in between the dedupe check and the insert.
		return fmt.Errorf("confirmation number already imported: %w", err)
	}
	return err
}
