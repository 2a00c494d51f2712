package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	actorID := uuid.New()
	entry := Entry{
		ActorID:   &actorID,
		ActorName: "nurse.ito",
		Action:    "update:patient",
		Entity:    "patient",
		EntityID:  uuid.NewString(),
		Outcome:   OutcomeSuccess,
		IP:        "192.168.4.12",
		UserAgent: "Mozilla/5.0",
		CreatedAt: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(entry.ActorID, entry.ActorName, entry.Action, entry.Entity, entry.EntityID,
			entry.Outcome, entry.IP, entry.UserAgent, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Insert(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPgRepository(mock)

	actorID := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "actor_id", "actor_name", "action", "entity", "entity_id",
		"outcome", "ip", "user_agent", "created_at",
	}).
		AddRow(int64(2), &actorID, "admin", "create:doctor", "doctor", uuid.NewString(),
			OutcomeSuccess, "10.0.0.1", "curl/8.0", now).
		AddRow(int64(1), (*uuid.UUID)(nil), "", "create:appointment", "appointment", uuid.NewString(),
			OutcomeDenied, "10.0.0.2", "curl/8.0", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, actor_id, actor_name, action, entity, entity_id, outcome, ip, user_agent, created_at").
		WithArgs(50, 0).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Nil(t, entries[1].ActorID)
	assert.Equal(t, OutcomeDenied, entries[1].Outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}
