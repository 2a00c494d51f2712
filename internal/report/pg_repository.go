package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/hospital-frontdesk/internal/db"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Snapshot runs every aggregate inside one read-only transaction so the
// counters reflect a single point-in-time view of the store.
func (r *PgRepository) Snapshot(ctx context.Context, dayStart, monthStart time.Time) (*Summary, error) {
	summary := &Summary{
		Appointments: AppointmentStats{ByStatus: make(map[string]int)},
		Doctors:      DoctorStats{BySpecialization: make(map[string]int)},
		Patients:     PatientStats{ByGender: make(map[string]int), ByBloodGroup: make(map[string]int)},
	}

	err := db.WithTx(ctx, r.pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		if err := countGroups(ctx, tx, `
			SELECT status, count(*) FROM appointments GROUP BY status
		`, summary.Appointments.ByStatus, &summary.Appointments.Total); err != nil {
			return fmt.Errorf("appointments by status: %w", err)
		}

		if err := tx.QueryRow(ctx, `
			SELECT count(*) FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $1 + interval '1 day'
		`, dayStart).Scan(&summary.Appointments.Today); err != nil {
			return fmt.Errorf("appointments today: %w", err)
		}

		if err := tx.QueryRow(ctx, `
			SELECT count(*) FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $1 + interval '1 month'
		`, monthStart).Scan(&summary.Appointments.ThisMonth); err != nil {
			return fmt.Errorf("appointments this month: %w", err)
		}

		if err := countGroups(ctx, tx, `
			SELECT specialization, count(*) FROM doctors GROUP BY specialization
		`, summary.Doctors.BySpecialization, &summary.Doctors.Total); err != nil {
			return fmt.Errorf("doctors by specialization: %w", err)
		}

		if err := tx.QueryRow(ctx, `
			SELECT count(*) FROM doctors WHERE is_available
		`).Scan(&summary.Doctors.Available); err != nil {
			return fmt.Errorf("available doctors: %w", err)
		}

		if err := countGroups(ctx, tx, `
			SELECT gender, count(*) FROM patients GROUP BY gender
		`, summary.Patients.ByGender, &summary.Patients.Total); err != nil {
			return fmt.Errorf("patients by gender: %w", err)
		}

		var bloodTotal int
		if err := countGroups(ctx, tx, `
			SELECT blood_group, count(*) FROM patients WHERE blood_group IS NOT NULL GROUP BY blood_group
		`, summary.Patients.ByBloodGroup, &bloodTotal); err != nil {
			return fmt.Errorf("patients by blood group: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func countGroups(ctx context.Context, tx pgx.Tx, query string, into map[string]int, total *int) error {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
		*total += n
	}

	return rows.Err()
}
