package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

func newMock(t *testing.T) (BaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBaseRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAvailabilityRepository_CreateDuplicate(t *testing.T) {
	base, mock := newMock(t)
	repo := NewAvailabilityRepository(base)

	mock.ExpectExec("INSERT INTO availability").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "availability_therapist_date_start_key"})

	now := time.Now()
	err := repo.Create(context.Background(), &model.Availability{
		Base:        model.NewBase(now),
		TherapistID: uuid.New(),
		Date:        model.NewDate(2024, time.January, 10),
		StartTime:   model.TimeOfDay{Hour: 9},
		EndTime:     model.TimeOfDay{Hour: 12},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	var dup *repository.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "availability_therapist_date_start_key", dup.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_CreateUnknownAppointment(t *testing.T) {
	base, mock := newMock(t)
	repo := NewNoteRepository(base)

	mock.ExpectExec("INSERT INTO clinical_notes").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "clinical_notes_appointment_id_fkey"})

	aptID := uuid.New()
	err := repo.Create(context.Background(), &model.ClinicalNote{
		Base:          model.NewBase(time.Now()),
		AppointmentID: &aptID,
		PatientID:     uuid.New(),
		TherapistID:   uuid.New(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
	assert.NotErrorIs(t, err, repository.ErrDuplicate)
	assert.Contains(t, err.Error(), "clinical_notes_appointment_id_fkey")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepository_ListFilters(t *testing.T) {
	base, mock := newMock(t)
	repo := NewAvailabilityRepository(base)

	therapistID := uuid.New()
	from := model.NewDate(2024, time.January, 10)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "therapist_id", "date", "start_time", "end_time", "created_at", "updated_at"}).
		AddRow(id.String(), therapistID.String(), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "09:00:00", "12:00:00", now, now)

	mock.ExpectQuery("FROM availability WHERE 1=1 AND therapist_id = (.+) AND date >= (.+) ORDER BY date, start_time").
		WithArgs(therapistID, from.String()).
		WillReturnRows(rows)

	windows, err := repo.List(context.Background(), &model.AvailabilityFilters{TherapistID: &therapistID, FromDate: &from})
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, id, windows[0].ID)
	assert.Equal(t, "2024-01-10", windows[0].Date.String())
	assert.Equal(t, model.TimeOfDay{Hour: 12}, windows[0].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_GetNotFound(t *testing.T) {
	base, mock := newMock(t)
	repo := NewAppointmentRepository(base)

	mock.ExpectQuery("FROM appointments WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_UpdateMissingRow(t *testing.T) {
	base, mock := newMock(t)
	repo := NewAppointmentRepository(base)

	mock.ExpectExec("UPDATE appointments").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.Appointment{Base: model.Base{ID: uuid.New()}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_CreateAndList(t *testing.T) {
	base, mock := newMock(t)
	repo := NewAppointmentRepository(base)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	serviceID := uuid.New()
	apt := &model.Appointment{
		Base:        model.NewBase(start),
		PatientID:   uuid.New(),
		TherapistID: uuid.New(),
		ServiceID:   &serviceID,
		StartTime:   start,
		EndTime:     &end,
		Status:      model.AppointmentStatusPending,
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(apt.ID, apt.PatientID, apt.TherapistID, serviceID, nil, start, end, "PENDING", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), apt))

	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "therapist_id", "service_id", "location_id",
		"start_time", "end_time", "status", "notes", "created_at", "updated_at",
	}).AddRow(apt.ID.String(), apt.PatientID.String(), apt.TherapistID.String(), serviceID.String(), nil, start, end, "PENDING", "", start, start)

	mock.ExpectQuery("FROM appointments WHERE 1=1 AND patient_id = (.+) AND status = (.+) ORDER BY start_time ASC").
		WithArgs(apt.PatientID, "PENDING").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), &model.AppointmentFilters{
		PatientID: &apt.PatientID,
		Status:    model.AppointmentStatusPending,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].LocationID)
	assert.Equal(t, serviceID, *list[0].ServiceID)
	assert.True(t, end.Equal(*list[0].EndTime))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_FindConflictsExcludesSelf(t *testing.T) {
	base, mock := newMock(t)
	repo := NewAppointmentRepository(base)

	self := uuid.New()
	q := &model.ConflictQuery{
		TherapistID: uuid.New(),
		PatientID:   uuid.New(),
		Start:       time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		ExcludeID:   &self,
	}

	mock.ExpectQuery("status <> 'CANCELLED'").
		WithArgs(q.TherapistID, q.PatientID, q.Start, q.End, self).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	conflicts, err := repo.FindConflicts(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.NotNil(t, conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RegisterPatient(t *testing.T) {
	base, mock := newMock(t)
	repo := NewUserRepository(base)

	now := time.Now()
	user := &model.User{Base: model.NewBase(now), Email: "p@example.com", Username: "p", Role: model.RolePatient}
	profile := &model.PatientProfile{Base: model.NewBase(now), DateOfBirth: model.NewDate(1990, time.May, 1), Status: model.PatientStatusActive}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO patient_profiles").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Register(context.Background(), user, profile, nil))
	assert.Equal(t, user.ID, profile.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RegisterDuplicateEmailRollsBack(t *testing.T) {
	base, mock := newMock(t)
	repo := NewUserRepository(base)

	now := time.Now()
	user := &model.User{Base: model.NewBase(now), Email: "t@example.com", Username: "t", Role: model.RoleTherapist}
	profile := &model.TherapistProfile{Base: model.NewBase(now), LicenseNumber: "L-1", Specialization: "Physio"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	err := repo.Register(context.Background(), user, nil, profile)
	var dup *repository.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "users_email_key", dup.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetIdentity(t *testing.T) {
	base, mock := newMock(t)
	repo := NewUserRepository(base)

	userID := uuid.New()
	therapistID := uuid.New()
	rows := sqlmock.NewRows([]string{"user_id", "role", "is_superuser", "patient_profile_id", "therapist_profile_id"}).
		AddRow(userID.String(), "THERAPIST", false, nil, therapistID.String())

	mock.ExpectQuery("LEFT JOIN therapist_profiles").WithArgs(userID).WillReturnRows(rows)

	identity, err := repo.GetIdentity(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTherapist, identity.Role)
	assert.Nil(t, identity.PatientProfileID)
	require.NotNil(t, identity.TherapistProfileID)
	assert.Equal(t, therapistID, *identity.TherapistProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_ListByTherapist(t *testing.T) {
	base, mock := newMock(t)
	repo := NewPatientRepository(base)

	therapistID := uuid.New()
	mock.ExpectQuery("SELECT 1 FROM appointments a").
		WithArgs(therapistID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	patients, err := repo.List(context.Background(), &model.PatientFilters{TherapistID: &therapistID})
	require.NoError(t, err)
	assert.Empty(t, patients)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRepository_IsReferenced(t *testing.T) {
	base, mock := newMock(t)
	repo := NewServiceRepository(base)

	id := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	referenced, err := repo.IsReferenced(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, referenced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_MarkRead(t *testing.T) {
	base, mock := newMock(t)
	repo := NewMessageRepository(base)

	me, other := uuid.New(), uuid.New()
	mock.ExpectExec("UPDATE messages").WithArgs(me, other).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkRead(context.Background(), me, other)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepository_CountByDayGroupsInUTC(t *testing.T) {
	base, mock := newMock(t)
	repo := NewDashboardRepository(base)

	since := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`\(start_time AT TIME ZONE 'UTC'\)::date AS day`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).
			AddRow(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 3))

	counts, err := repo.CountByDay(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "2024-01-05", counts[0].Date.String())
	assert.Equal(t, 3, counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepository_CountByService(t *testing.T) {
	base, mock := newMock(t)
	repo := NewDashboardRepository(base)

	mock.ExpectQuery("COALESCE").WillReturnRows(
		sqlmock.NewRows([]string{"service_name", "count"}).
			AddRow("Consultation", 4).
			AddRow("Unassigned", 1),
	)

	counts, err := repo.CountByService(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.ServiceCount{{ServiceName: "Consultation", Count: 4}, {ServiceName: "Unassigned", Count: 1}}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	base, mock := newMock(t)
	repo := NewOutboxRepository(base)

	id := uuid.New()
	retryAt := time.Now().Add(time.Minute)

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("retry", "broker down", retryAt, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkFailed(context.Background(), id, "broker down", &retryAt))

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("failed", "poison", nil, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkFailed(context.Background(), id, "poison", nil))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ClaimPendingEvents(t *testing.T) {
	base, mock := newMock(t)
	repo := NewOutboxRepository(base)

	first, second := uuid.New(), uuid.New()
	now := time.Now()
	leased := now.Add(time.Minute)
	cols := []string{"id", "event_type", "payload", "status", "error_message", "retry_count",
		"retry_at", "processed_at", "created_at", "updated_at"}

	mock.ExpectQuery(`FOR UPDATE SKIP LOCKED(.|\n)*UPDATE outbox_events o\s+SET retry_at = NOW\(\) \+ \$2`).
		WithArgs(10, int64(60000)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(second.String(), model.EventAppointmentUpdated, []byte(`{}`), "pending", nil, 0, leased, nil, now, now).
			AddRow(first.String(), model.EventAppointmentCreated, []byte(`{}`), "retry", "broker down", 1, leased, nil, now.Add(-time.Second), now))

	events, err := repo.ClaimPendingEvents(context.Background(), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first, events[0].ID, "oldest first")
	assert.Equal(t, second, events[1].ID)
	require.NotNil(t, events[0].RetryAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsNilPayload(t *testing.T) {
	base, _ := newMock(t)
	repo := NewOutboxRepository(base)

	assert.Error(t, repo.Create(context.Background(), &model.OutboxEvent{EventType: model.EventAppointmentCreated}))
	assert.Error(t, repo.Create(context.Background(), nil))
}
