package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/hospital-frontdesk/internal/db"
	"github.com/careops/hospital-frontdesk/internal/doctor"
	"github.com/careops/hospital-frontdesk/internal/patient"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	_ = godotenv.Load()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedUsers(context.Background(), pool); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	doctorIDs, err := seedDoctors(context.Background(), pool, 50)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	patientIDs, err := seedPatients(context.Background(), pool, 500)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, doctorIDs, patientIDs, 1000); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding staff users")

	type account struct {
		username string
		role     string
		twoFA    bool
	}
	accounts := []account{
		{"admin", "ADMIN", true},
		{"frontdesk1", "STAFF", true},
		{"frontdesk2", "STAFF", false},
		{"nurse1", "NURSE", false},
		{"drhouse", "DOCTOR", true},
	}

	// Dev-only credential, same for every seeded account.
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range accounts {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, two_factor_enabled, phone_number, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
			ON CONFLICT (username) DO NOTHING
		`, uuid.New(), a.username, a.username+"@hospital.local", string(hash),
			gofakeit.FirstName(), gofakeit.LastName(), a.role, a.twoFA, fakePhone())
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("staff users seeded")
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	schedules := []string{
		"Monday-Friday: 9:00 AM - 5:00 PM",
		"Monday-Wednesday: 8:00 AM - 4:00 PM",
		"Tuesday-Saturday: 10:00 AM - 6:00 PM",
		"Monday, Wednesday, Friday: 9:00 AM - 1:00 PM",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		spec := doctor.Specializations[gofakeit.Number(0, len(doctor.Specializations)-1)]
		schedule := schedules[gofakeit.Number(0, len(schedules)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, first_name, last_name, specialization, phone_number, email, schedule, is_available, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		`, id, gofakeit.FirstName(), gofakeit.LastName(), spec, fakePhone(),
			fmt.Sprintf("doctor%d@hospital.local", i), schedule, gofakeit.Number(0, 9) > 1)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	const batchSize = 100

	ids := make([]uuid.UUID, 0, count)
	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			gender := patient.GenderMale
			if gofakeit.Bool() {
				gender = patient.GenderFemale
			}
			bg := patient.BloodGroups[gofakeit.Number(0, len(patient.BloodGroups)-1)]
			dob := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
			)

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, first_name, last_name, date_of_birth, gender, blood_group, phone_number, email, address, medical_history, registered_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
			`, id, gofakeit.FirstName(), gofakeit.LastName(), dob, gender, bg,
				fakePhone(), gofakeit.Email(), gofakeit.Address().Address, gofakeit.Sentence(8))
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctorIDs, patientIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	reasons := []string{
		"Annual checkup",
		"Follow-up visit",
		"Chest pain",
		"Skin rash",
		"Headaches",
		"Back pain",
		"Vaccination",
		"Lab results review",
	}
	statuses := []string{"PENDING", "SCHEDULED", "SCHEDULED", "COMPLETED", "CANCELLED"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC().Truncate(time.Minute)
	for i := 0; i < count; i++ {
		doctorID := doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
		patientID := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]
		status := statuses[gofakeit.Number(0, len(statuses)-1)]

		// Half-hour grid, two weeks either side of now. Completed and
		// cancelled ones sit in the past.
		slotOffset := time.Duration(gofakeit.Number(1, 28*24*2)) * 30 * time.Minute
		scheduledAt := now.Add(slotOffset - 14*24*time.Hour)
		if status == "COMPLETED" || status == "CANCELLED" {
			scheduledAt = now.Add(-time.Duration(gofakeit.Number(1, 14*24*2)) * 30 * time.Minute)
		} else if scheduledAt.Before(now) {
			scheduledAt = scheduledAt.Add(14 * 24 * time.Hour)
		}

		// The partial unique index rejects colliding SCHEDULED slots; skip
		// those rows instead of failing the whole seed.
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, doctor_id, scheduled_at, reason, status, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (doctor_id, scheduled_at) WHERE status = 'SCHEDULED' DO NOTHING
		`, uuid.New(), patientID, doctorID, scheduledAt,
			reasons[gofakeit.Number(0, len(reasons)-1)], status, gofakeit.Sentence(6))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}

func fakePhone() string {
	return "+1" + gofakeit.Numerify("##########")
}
