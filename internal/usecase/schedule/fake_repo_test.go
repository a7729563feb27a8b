package schedule

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VetAgendaServices01/vet-scheduler/internal/audit"
	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/notify"
)

// fakeRepo guarda tudo em memória. txMu serializa transações inteiras
// (como o banco faz com o lock de linha do slot) e um erro dentro de
// InTx restaura o snapshot — mesmo contrato de commit/rollback que o
// repositório real oferece aos use cases.
type fakeRepo struct {
	txMu sync.Mutex
	mu   sync.Mutex

	clinics map[uint]models.Clinic
	users   map[uint]models.User

	clients map[uint]models.Client
	pets    map[uint]models.Pet

	slots        map[uuid.UUID]models.Slot
	appointments map[uint]models.Appointment

	nextClientID uint
	nextPetID    uint
	nextApptID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clinics:      map[uint]models.Clinic{},
		users:        map[uint]models.User{},
		clients:      map[uint]models.Client{},
		pets:         map[uint]models.Pet{},
		slots:        map[uuid.UUID]models.Slot{},
		appointments: map[uint]models.Appointment{},
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	slotsSnap := make(map[uuid.UUID]models.Slot, len(f.slots))
	for k, v := range f.slots {
		slotsSnap[k] = v
	}
	apptsSnap := make(map[uint]models.Appointment, len(f.appointments))
	for k, v := range f.appointments {
		apptsSnap[k] = v
	}
	nextAppt := f.nextApptID
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.slots = slotsSnap
		f.appointments = apptsSnap
		f.nextApptID = nextAppt
		f.mu.Unlock()
		return err
	}

	return nil
}

// -------- Clinic / Professional --------

func (f *fakeRepo) GetClinicByID(ctx context.Context, id uint) (*models.Clinic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.clinics[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeRepo) GetClinicBySlug(ctx context.Context, slug string) (*models.Clinic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.clinics {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetProfessionalByID(ctx context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// -------- Client / Pet --------

func (f *fakeRepo) GetOrCreateClient(
	ctx context.Context,
	clinicID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.clients {
		if c.ClinicID == clinicID && c.Phone == phone {
			c := c
			return &c, nil
		}
	}

	f.nextClientID++
	c := models.Client{
		ID:       f.nextClientID,
		ClinicID: clinicID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}
	f.clients[c.ID] = c
	return &c, nil
}

func (f *fakeRepo) GetOrCreatePet(
	ctx context.Context,
	clientID uint,
	name string,
	species string,
) (*models.Pet, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.pets {
		if p.ClientID == clientID && strings.EqualFold(p.Name, name) {
			p := p
			return &p, nil
		}
	}

	f.nextPetID++
	p := models.Pet{
		ID:       f.nextPetID,
		ClientID: clientID,
		Name:     name,
		Species:  species,
	}
	f.pets[p.ID] = p
	return &p, nil
}

// -------- Slot store --------

func (f *fakeRepo) hasSlotKeyLocked(professionalID uint, start, end time.Time) bool {
	for _, s := range f.slots {
		if s.ProfessionalID == professionalID &&
			s.StartTime.Equal(start) &&
			s.EndTime.Equal(end) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateSlot(ctx context.Context, slot *models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasSlotKeyLocked(slot.ProfessionalID, slot.StartTime, slot.EndTime) {
		return httperr.ErrBusiness(domain.CodeSlotConflict)
	}
	f.slots[slot.ID] = *slot
	return nil
}

func (f *fakeRepo) EnsureSlot(ctx context.Context, slot *models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasSlotKeyLocked(slot.ProfessionalID, slot.StartTime, slot.EndTime) {
		return nil
	}
	f.slots[slot.ID] = *slot
	return nil
}

func (f *fakeRepo) GetSlotByID(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeRepo) GetSlotByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Slot, error) {
	return f.GetSlotByID(ctx, id)
}

func (f *fakeRepo) GetSlotByKey(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) (*models.Slot, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.slots {
		if s.ProfessionalID == professionalID &&
			s.StartTime.Equal(start) &&
			s.EndTime.Equal(end) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) DeleteSlotByID(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.slots[id]
	delete(f.slots, id)
	return ok, nil
}

func (f *fakeRepo) ListFreeSlots(
	ctx context.Context,
	professionalID uint,
	from *time.Time,
) ([]models.Slot, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Slot
	for _, s := range f.slots {
		if s.ProfessionalID != professionalID {
			continue
		}
		if from != nil && s.StartTime.Before(*from) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (f *fakeRepo) ListSlotsInRange(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Slot, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Slot
	for _, s := range f.slots {
		if s.ProfessionalID != professionalID {
			continue
		}
		if s.StartTime.Before(start) || !s.StartTime.Before(end) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (f *fakeRepo) DeleteExpiredSlots(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, s := range f.slots {
		if !s.EndTime.After(now) {
			delete(f.slots, id)
			n++
		}
	}
	return n, nil
}

// -------- Appointment --------

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextApptID++
	ap.ID = f.nextApptID
	f.appointments[ap.ID] = *ap
	return nil
}

func (f *fakeRepo) GetAppointmentForProfessional(
	ctx context.Context,
	appointmentID uint,
	professionalID uint,
) (*models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[appointmentID]
	if !ok || ap.ProfessionalID != professionalID {
		return nil, nil
	}
	return &ap, nil
}

func (f *fakeRepo) MarkCancelled(ctx context.Context, appointmentID uint, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[appointmentID]
	if !ok || ap.Status != string(domain.StatusScheduled) {
		return false, nil
	}

	ap.Status = string(domain.StatusCancelled)
	ap.CancelledAt = &now
	f.appointments[appointmentID] = ap
	return true, nil
}

func (f *fakeRepo) MarkCompleted(ctx context.Context, appointmentID uint, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[appointmentID]
	if !ok || ap.Status != string(domain.StatusScheduled) {
		return false, nil
	}

	ap.Status = string(domain.StatusCompleted)
	ap.CompletedAt = &now
	f.appointments[appointmentID] = ap
	return true, nil
}

func (f *fakeRepo) UpdateAppointmentTimes(
	ctx context.Context,
	appointmentID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[appointmentID]
	if !ok || ap.Status != string(domain.StatusScheduled) {
		return false, nil
	}

	ap.StartTime = start
	ap.EndTime = end
	f.appointments[appointmentID] = ap
	return true, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.ProfessionalID != professionalID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, ap)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

// -------- helpers de inspeção --------

func (f *fakeRepo) slotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.slots)
}

func (f *fakeRepo) appointmentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appointments)
}

func (f *fakeRepo) slotCountByKey(professionalID uint, start, end time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, s := range f.slots {
		if s.ProfessionalID == professionalID &&
			s.StartTime.Equal(start) &&
			s.EndTime.Equal(end) {
			n++
		}
	}
	return n
}

// ======================================================
// AMBIENTE DE TESTE
// ======================================================

type auditSink struct {
	mu      sync.Mutex
	actions []string
}

func (s *auditSink) Log(clinicID uint, userID *uint, action, entity string, entityID *uint, metadata any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func (s *auditSink) has(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.actions {
		if a == action {
			return true
		}
	}
	return false
}

type capturePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *capturePublisher) Publish(ctx context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) has(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ev := range p.events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

type testEnv struct {
	repo   *fakeRepo
	sink   *auditSink
	pub    *capturePublisher
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func newTestEnv() *testEnv {
	repo := newFakeRepo()

	repo.clinics[1] = models.Clinic{
		ID:       1,
		Name:     "Clínica Vet Centro",
		Slug:     "vet-centro",
		Timezone: "America/Sao_Paulo",
	}
	repo.users[1] = models.User{
		ID:       1,
		ClinicID: 1,
		Name:     "Dra. Helena",
		Role:     "vet",
	}
	repo.users[2] = models.User{
		ID:       2,
		ClinicID: 1,
		Name:     "Dr. Rafael",
		Role:     "vet",
	}

	sink := &auditSink{}
	pub := &capturePublisher{}

	return &testEnv{
		repo:   repo,
		sink:   sink,
		pub:    pub,
		audit:  audit.NewDispatcher(sink),
		notify: notify.NewDispatcher(pub),
	}
}

func mustSlot(t interface{ Fatalf(string, ...any) }, repo *fakeRepo, professionalID uint, start time.Time, d time.Duration) models.Slot {
	slot := models.Slot{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		StartTime:      start,
		EndTime:        start.Add(d),
	}
	if err := repo.CreateSlot(context.Background(), &slot); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot
}
