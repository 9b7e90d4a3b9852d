// Package memory provides in-memory implementations of the repository
// interfaces for tests. The sub-repositories share one Store so the
// cross-table semantics of the postgres layer (signup and rejection
// cascades, the discharge flip) behave the same way.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
)

type Store struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*model.User
	doctors      map[uuid.UUID]*model.Doctor
	patients     map[uuid.UUID]*model.Patient
	appointments map[uuid.UUID]*model.Appointment
	discharges   map[uuid.UUID]*model.DischargeRecord
	outbox       map[uuid.UUID]*model.OutboxEvent

	clock func() time.Time
	seq   int64
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*model.User),
		doctors:      make(map[uuid.UUID]*model.Doctor),
		patients:     make(map[uuid.UUID]*model.Patient),
		appointments: make(map[uuid.UUID]*model.Appointment),
		discharges:   make(map[uuid.UUID]*model.DischargeRecord),
		outbox:       make(map[uuid.UUID]*model.OutboxEvent),
		clock:        time.Now,
	}
}

func (s *Store) Users() repository.UserRepository               { return &userRepo{s} }
func (s *Store) Doctors() repository.DoctorRepository           { return &doctorRepo{s} }
func (s *Store) Patients() repository.PatientRepository         { return &patientRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository { return &appointmentRepo{s} }
func (s *Store) Discharges() repository.DischargeRepository     { return &dischargeRepo{s} }
func (s *Store) Outbox() repository.OutboxRepository            { return &outboxRepo{s} }

// next returns monotonically increasing timestamps so creation order is
// stable even when the wall clock does not advance between calls.
func (s *Store) next() time.Time {
	s.seq++
	return s.clock().Add(time.Duration(s.seq) * time.Microsecond)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortByCreatedDesc[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
