// Package repotest provides in-memory repositories for service tests. All
// repositories of one Store share state so cross-table queries behave like
// their Postgres counterparts.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]*model.User
	patients     map[uuid.UUID]*model.PatientProfile
	therapists   map[uuid.UUID]*model.TherapistProfile
	services     map[uuid.UUID]*model.Service
	locations    map[uuid.UUID]*model.Location
	availability map[uuid.UUID]*model.Availability
	appointments map[uuid.UUID]*model.Appointment
	notes        map[uuid.UUID]*model.ClinicalNote
	hours        map[uuid.UUID]*model.OperatingHour
	messages     []*model.Message
	Events       []*model.OutboxEvent
}

func NewStore() *Store {
	return &Store{
		users:        map[uuid.UUID]*model.User{},
		patients:     map[uuid.UUID]*model.PatientProfile{},
		therapists:   map[uuid.UUID]*model.TherapistProfile{},
		services:     map[uuid.UUID]*model.Service{},
		locations:    map[uuid.UUID]*model.Location{},
		availability: map[uuid.UUID]*model.Availability{},
		appointments: map[uuid.UUID]*model.Appointment{},
		notes:        map[uuid.UUID]*model.ClinicalNote{},
		hours:        map[uuid.UUID]*model.OperatingHour{},
	}
}

func notFound(what string) error {
	return fmt.Errorf("failed to get %s: %w", what, repository.ErrNotFound)
}

func duplicate(constraint string) error {
	return fmt.Errorf("failed to insert: %w", &repository.DuplicateError{Constraint: constraint})
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// Users

type Users struct{ *Store }

var _ repository.UserRepository = Users{}

func (s Users) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(user)
}

func (s Users) insertUser(user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return duplicate("users_email_key")
		}
		if u.Username == user.Username {
			return duplicate("users_username_key")
		}
	}
	s.users[user.ID] = clone(user)
	return nil
}

func (s Users) Register(ctx context.Context, user *model.User, patient *model.PatientProfile, therapist *model.TherapistProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if therapist != nil {
		for _, t := range s.therapists {
			if t.LicenseNumber == therapist.LicenseNumber {
				return duplicate("therapist_profiles_license_number_key")
			}
		}
	}
	if err := s.insertUser(user); err != nil {
		return err
	}
	if patient != nil {
		patient.UserID = user.ID
		p := clone(patient)
		p.FirstName, p.LastName, p.Email = user.FirstName, user.LastName, user.Email
		s.patients[p.ID] = p
	}
	if therapist != nil {
		therapist.UserID = user.ID
		t := clone(therapist)
		t.FirstName, t.LastName, t.Email = user.FirstName, user.LastName, user.Email
		s.therapists[t.ID] = t
	}
	return nil
}

func (s Users) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return clone(u), nil
}

func (s Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, notFound("user")
}

func (s Users) Update(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return notFound("user")
	}
	s.users[user.ID] = clone(user)
	return nil
}

func (s Users) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return notFound("user")
	}
	u.PasswordHash = hash
	return nil
}

func (s Users) GetIdentity(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("identity")
	}
	identity := &model.Identity{UserID: u.ID, Role: u.Role, IsSuperuser: u.IsSuperuser}
	for _, p := range s.patients {
		if p.UserID == id {
			pid := p.ID
			identity.PatientProfileID = &pid
		}
	}
	for _, t := range s.therapists {
		if t.UserID == id {
			tid := t.ID
			identity.TherapistProfileID = &tid
		}
	}
	return identity, nil
}

func (s Users) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok, nil
}

// Patients

type Patients struct{ *Store }

var _ repository.PatientRepository = Patients{}

func (s Patients) Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, notFound("patient")
	}
	return clone(p), nil
}

func (s Patients) Update(ctx context.Context, profile *model.PatientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[profile.ID]; !ok {
		return notFound("patient")
	}
	s.patients[profile.ID] = clone(profile)
	return nil
}

func (s Patients) List(ctx context.Context, filters *model.PatientFilters) ([]*model.PatientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.PatientProfile{}
	for _, p := range s.patients {
		if filters != nil && filters.Status != "" && p.Status != filters.Status {
			continue
		}
		if filters != nil && filters.TherapistID != nil && !s.hasAppointment(p.ID, *filters.TherapistID) {
			continue
		}
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName+out[i].ID.String() < out[j].LastName+out[j].ID.String() })
	return out, nil
}

func (s *Store) hasAppointment(patientID, therapistID uuid.UUID) bool {
	for _, a := range s.appointments {
		if a.PatientID == patientID && a.TherapistID == therapistID {
			return true
		}
	}
	return false
}

func (s Patients) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patients), nil
}

// Therapists

type Therapists struct{ *Store }

var _ repository.TherapistRepository = Therapists{}

func (s Therapists) Get(ctx context.Context, id uuid.UUID) (*model.TherapistProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.therapists[id]
	if !ok {
		return nil, notFound("therapist")
	}
	return clone(t), nil
}

func (s Therapists) Update(ctx context.Context, profile *model.TherapistProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.therapists[profile.ID]; !ok {
		return notFound("therapist")
	}
	s.therapists[profile.ID] = clone(profile)
	return nil
}

func (s Therapists) List(ctx context.Context, filters *model.TherapistFilters) ([]*model.TherapistProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.TherapistProfile{}
	for _, t := range s.therapists {
		if filters != nil && filters.Status != "" && t.Status != filters.Status {
			continue
		}
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName+out[i].ID.String() < out[j].LastName+out[j].ID.String() })
	return out, nil
}

func (s Therapists) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.therapists), nil
}

// Services

type Services struct {
	*Store
	Gets int
}

var _ repository.ServiceRepository = (*Services)(nil)

func (s *Services) Create(ctx context.Context, svc *model.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = clone(svc)
	return nil
}

func (s *Services) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Gets++
	svc, ok := s.services[id]
	if !ok {
		return nil, notFound("service")
	}
	return clone(svc), nil
}

func (s *Services) Update(ctx context.Context, svc *model.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[svc.ID]; !ok {
		return notFound("service")
	}
	s.services[svc.ID] = clone(svc)
	return nil
}

// Delete nulls service_id on referencing appointments, like ON DELETE SET NULL.
func (s *Services) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[id]; !ok {
		return notFound("service")
	}
	delete(s.services, id)
	for _, a := range s.appointments {
		if a.ServiceID != nil && *a.ServiceID == id {
			a.ServiceID = nil
		}
	}
	return nil
}

func (s *Services) List(ctx context.Context, filters *model.ServiceFilters) ([]*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Service{}
	for _, svc := range s.services {
		if filters != nil && filters.ActiveOnly && !svc.Active {
			continue
		}
		out = append(out, clone(svc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Services) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ServiceID != nil && *a.ServiceID == id {
			return true, nil
		}
	}
	return false, nil
}

// Locations

type Locations struct{ *Store }

var _ repository.LocationRepository = Locations{}

func (s Locations) Create(ctx context.Context, loc *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = clone(loc)
	return nil
}

func (s Locations) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, notFound("location")
	}
	return clone(loc), nil
}

func (s Locations) Update(ctx context.Context, loc *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[loc.ID]; !ok {
		return notFound("location")
	}
	s.locations[loc.ID] = clone(loc)
	return nil
}

func (s Locations) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[id]; !ok {
		return notFound("location")
	}
	delete(s.locations, id)
	for _, a := range s.appointments {
		if a.LocationID != nil && *a.LocationID == id {
			a.LocationID = nil
		}
	}
	return nil
}

func (s Locations) List(ctx context.Context, activeOnly bool) ([]*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Location{}
	for _, loc := range s.locations {
		if activeOnly && !loc.Active {
			continue
		}
		out = append(out, clone(loc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Availability

type Availability struct{ *Store }

var _ repository.AvailabilityRepository = Availability{}

func (s Availability) conflicts(a *model.Availability) bool {
	for _, other := range s.availability {
		if other.ID != a.ID && other.TherapistID == a.TherapistID &&
			other.Date.Equal(a.Date.Time) && other.StartTime == a.StartTime {
			return true
		}
	}
	return false
}

func (s Availability) Create(ctx context.Context, a *model.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts(a) {
		return duplicate("availability_therapist_date_start_key")
	}
	s.availability[a.ID] = clone(a)
	return nil
}

func (s Availability) Get(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.availability[id]
	if !ok {
		return nil, notFound("availability")
	}
	return clone(a), nil
}

func (s Availability) Update(ctx context.Context, a *model.Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.availability[a.ID]; !ok {
		return notFound("availability")
	}
	if s.conflicts(a) {
		return duplicate("availability_therapist_date_start_key")
	}
	s.availability[a.ID] = clone(a)
	return nil
}

func (s Availability) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.availability[id]; !ok {
		return notFound("availability")
	}
	delete(s.availability, id)
	return nil
}

func (s Availability) List(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Availability{}
	for _, a := range s.availability {
		if filters != nil && filters.TherapistID != nil && a.TherapistID != *filters.TherapistID {
			continue
		}
		if filters != nil && filters.FromDate != nil && a.Date.Before(*filters.FromDate) {
			continue
		}
		out = append(out, clone(a))
	}
	sortAvailability(out)
	return out, nil
}

func (s Availability) ListForDate(ctx context.Context, therapistID uuid.UUID, date model.Date) ([]*model.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Availability{}
	for _, a := range s.availability {
		if a.TherapistID == therapistID && a.Date.Equal(date.Time) {
			out = append(out, clone(a))
		}
	}
	sortAvailability(out)
	return out, nil
}

func sortAvailability(out []*model.Availability) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
}

// Appointments

type Appointments struct{ *Store }

var _ repository.AppointmentRepository = Appointments{}

func (s Appointments) Create(ctx context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID] = clone(a)
	return nil
}

func (s Appointments) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, notFound("appointment")
	}
	return clone(a), nil
}

func (s Appointments) Update(ctx context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[a.ID]; !ok {
		return notFound("appointment")
	}
	s.appointments[a.ID] = clone(a)
	return nil
}

func (s Appointments) List(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Appointment{}
	for _, a := range s.appointments {
		if f != nil {
			if f.PatientID != nil && a.PatientID != *f.PatientID {
				continue
			}
			if f.TherapistID != nil && a.TherapistID != *f.TherapistID {
				continue
			}
			if f.Status != "" && a.Status != f.Status {
				continue
			}
			if !f.StartDate.IsZero() && a.StartTime.Before(f.StartDate) {
				continue
			}
			if !f.EndDate.IsZero() && !a.StartTime.Before(f.EndDate) {
				continue
			}
		}
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s Appointments) FindConflicts(ctx context.Context, q *model.ConflictQuery) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Appointment{}
	for _, a := range s.appointments {
		if q.ExcludeID != nil && a.ID == *q.ExcludeID {
			continue
		}
		if a.Status == model.AppointmentStatusCancelled {
			continue
		}
		if a.TherapistID != q.TherapistID && a.PatientID != q.PatientID {
			continue
		}
		if a.Overlaps(q.Start, q.End) {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

// Notes

type Notes struct{ *Store }

var _ repository.NoteRepository = Notes{}

func (s Notes) Create(ctx context.Context, n *model.ClinicalNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.AppointmentID != nil {
		for _, other := range s.notes {
			if other.AppointmentID != nil && *other.AppointmentID == *n.AppointmentID {
				return duplicate("clinical_notes_appointment_id_key")
			}
		}
	}
	s.notes[n.ID] = clone(n)
	return nil
}

func (s Notes) Get(ctx context.Context, id uuid.UUID) (*model.ClinicalNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, notFound("clinical note")
	}
	return clone(n), nil
}

func (s Notes) Update(ctx context.Context, n *model.ClinicalNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.notes[n.ID]
	if !ok {
		return notFound("clinical note")
	}
	updated := clone(n)
	updated.PatientID = existing.PatientID
	updated.TherapistID = existing.TherapistID
	s.notes[n.ID] = updated
	return nil
}

func (s Notes) ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*model.ClinicalNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.ClinicalNote{}
	for _, n := range s.notes {
		if n.TherapistID == therapistID {
			out = append(out, clone(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Hours

type Hours struct{ *Store }

var _ repository.OperatingHourRepository = Hours{}

func (s Hours) Create(ctx context.Context, h *model.OperatingHour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.hours {
		if other.Weekday == h.Weekday {
			return duplicate("operating_hours_weekday_key")
		}
	}
	s.hours[h.ID] = clone(h)
	return nil
}

func (s Hours) Get(ctx context.Context, id uuid.UUID) (*model.OperatingHour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hours[id]
	if !ok {
		return nil, notFound("operating hour")
	}
	return clone(h), nil
}

func (s Hours) Update(ctx context.Context, h *model.OperatingHour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hours[h.ID]; !ok {
		return notFound("operating hour")
	}
	s.hours[h.ID] = clone(h)
	return nil
}

func (s Hours) List(ctx context.Context) ([]*model.OperatingHour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.OperatingHour{}
	for _, h := range s.hours {
		out = append(out, clone(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

// Messages

type Messages struct{ *Store }

var _ repository.MessageRepository = Messages{}

func (s Messages) Create(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, clone(msg))
	return nil
}

func (s Messages) Thread(ctx context.Context, a, b uuid.UUID) ([]*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Message{}
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, clone(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s Messages) MarkRead(ctx context.Context, receiver, sender uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.messages {
		if m.ReceiverID == receiver && m.SenderID == sender && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

// Dashboard

type Dashboard struct{ *Store }

var _ repository.DashboardRepository = Dashboard{}

func (s Dashboard) CountByDay(ctx context.Context, since time.Time) ([]model.DailyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, a := range s.appointments {
		if a.StartTime.Before(since) {
			continue
		}
		counts[model.DateOf(a.StartTime.UTC()).String()]++
	}
	out := []model.DailyCount{}
	for day, n := range counts {
		d, _ := model.ParseDate(day)
		out = append(out, model.DailyCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s Dashboard) CountByService(ctx context.Context) ([]model.ServiceCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, a := range s.appointments {
		name := "Unassigned"
		if a.ServiceID != nil {
			if svc, ok := s.services[*a.ServiceID]; ok {
				name = svc.Name
			}
		}
		counts[name]++
	}
	out := []model.ServiceCount{}
	for name, n := range counts {
		out = append(out, model.ServiceCount{ServiceName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ServiceName < out[j].ServiceName
	})
	return out, nil
}

func (s Dashboard) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[model.AppointmentStatus]int{}
	for _, a := range s.appointments {
		counts[a.Status]++
	}
	out := []model.StatusCount{}
	for status, n := range counts {
		out = append(out, model.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// Outbox

type Outbox struct{ *Store }

var _ repository.OutboxRepository = Outbox{}

func (s Outbox) Create(ctx context.Context, event *model.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := clone(event)
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Status = model.OutboxStatusPending
	s.Events = append(s.Events, e)
	return nil
}

func (s Outbox) ClaimPendingEvents(ctx context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	out := []*model.OutboxEvent{}
	for _, e := range s.Events {
		if len(out) == limit {
			break
		}
		if e.Status != model.OutboxStatusPending || (e.RetryAt != nil && e.RetryAt.After(now)) {
			continue
		}
		until := now.Add(lease)
		e.RetryAt = &until
		out = append(out, clone(e))
	}
	return out, nil
}

func (s Outbox) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(id, model.OutboxStatusProcessed)
}

func (s Outbox) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	return s.setStatus(id, model.OutboxStatusFailed)
}

func (s Outbox) setStatus(id uuid.UUID, status model.OutboxStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.Events {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return notFound("outbox event")
}

func (s Outbox) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// EventTypes lists recorded event types in insertion order.
func (s *Store) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		out = append(out, e.EventType)
	}
	return out
}
