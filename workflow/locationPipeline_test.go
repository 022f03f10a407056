package workflow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
)

func eventAtSite(siteId int) *models.LocationEvent {
	return &models.LocationEvent{SiteId: &siteId}
}

func TestClassifyLocationEvent_EnterExitSequence(t *testing.T) {
	site := testSite(1, "HQ", 37.5665, 126.9780, 100)
	sites := []*models.Site{site}

	// First sample inside the site, no prior event: enter.
	inside := ResolveGeofence(37.5665, 126.9780, sites)
	if got := ClassifyLocationEvent(inside, nil); got != models.LocationEventTypeGeofenceEnter {
		t.Fatalf("first inside sample = %s, want geofence_enter", got)
	}

	// Second sample still inside, prior resolved to the same site: plain update.
	if got := ClassifyLocationEvent(inside, eventAtSite(1)); got != models.LocationEventTypeUpdate {
		t.Fatalf("repeat inside sample = %s, want location_update", got)
	}

	// Sample far outside while prior was inside: exit.
	outside := ResolveGeofence(35.1796, 129.0756, sites)
	if got := ClassifyLocationEvent(outside, eventAtSite(1)); got != models.LocationEventTypeGeofenceExit {
		t.Fatalf("leaving sample = %s, want geofence_exit", got)
	}

	// Still outside with an outside prior: plain update.
	if got := ClassifyLocationEvent(outside, &models.LocationEvent{}); got != models.LocationEventTypeUpdate {
		t.Fatalf("repeat outside sample = %s, want location_update", got)
	}
}

func TestClassifyLocationEvent_ExactlyOneEnterOneExit(t *testing.T) {
	site := testSite(1, "HQ", 37.5665, 126.9780, 100)
	sites := []*models.Site{site}

	// Simulated track: approach, two samples inside, leave, stay out.
	track := []struct {
		lat, lng float64
	}{
		{37.5700, 126.9780},
		{37.5665, 126.9780},
		{37.5666, 126.9780},
		{37.5700, 126.9780},
		{37.5710, 126.9780},
	}

	var prior *models.LocationEvent
	enters, exits := 0, 0
	for _, p := range track {
		result := ResolveGeofence(p.lat, p.lng, sites)
		eventType := ClassifyLocationEvent(result, prior)
		switch eventType {
		case models.LocationEventTypeGeofenceEnter:
			enters++
		case models.LocationEventTypeGeofenceExit:
			exits++
		}

		event := &models.LocationEvent{EventType: eventType}
		if result.Site != nil {
			id := result.Site.ID
			event.SiteId = &id
		}
		prior = event
	}

	if enters != 1 || exits != 1 {
		t.Fatalf("track produced %d enters and %d exits, want exactly 1 each", enters, exits)
	}
}

func TestClassifyLocationEvent_SiteSwitchIsEnter(t *testing.T) {
	a := testSite(1, "A", 37.5665, 126.9780, 100)
	b := testSite(2, "B", 37.5800, 126.9780, 100)
	sites := []*models.Site{a, b}

	// Inside B while the prior event resolved to A: a fresh enter for B.
	result := ResolveGeofence(37.5800, 126.9780, sites)
	if got := ClassifyLocationEvent(result, eventAtSite(1)); got != models.LocationEventTypeGeofenceEnter {
		t.Fatalf("site switch = %s, want geofence_enter", got)
	}
}

// memoryAttendanceStore backs the state machine with a map so the
// transition logic runs without a database.
type memoryAttendanceStore struct {
	mu      sync.Mutex
	records map[string]*models.AttendanceRecord
	nextId  int
}

func newMemoryAttendanceStore() *memoryAttendanceStore {
	return &memoryAttendanceStore{records: map[string]*models.AttendanceRecord{}}
}

func dayKey(employeeId int, day time.Time) string {
	return fmt.Sprintf("%d|%s", employeeId, day.Format("2006-01-02"))
}

func (s *memoryAttendanceStore) GetForDay(ctx context.Context, employeeId int, day time.Time) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[dayKey(employeeId, day)]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return record, nil
}

func (s *memoryAttendanceStore) Create(ctx context.Context, record *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	record.ID = s.nextId
	s.records[dayKey(record.EmployeeId, record.WorkDate)] = record
	return nil
}

func (s *memoryAttendanceStore) Update(ctx context.Context, id int, updates map[string]interface{}) error {
	return nil
}

func (s *memoryAttendanceStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Concurrent geofence enters for one employee, each serialized the way
// the advisory lock serializes real transactions, must create exactly
// one record and report exactly one check-in.
func TestConcurrentEnters_SingleCheckInPerDay(t *testing.T) {
	ctx := context.Background()
	site := testSite(1, "HQ", 37.5665, 126.9780, 100)
	employee := &models.Employee{ID: 42, CompanyId: "c-1"}
	geofence := &GeofenceResult{Inside: true, Site: site}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

	for run := 0; run < 50; run++ {
		store := newMemoryAttendanceStore()
		var lock sync.Mutex
		checkIns := 0

		var wg sync.WaitGroup
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				lock.Lock()
				defer lock.Unlock()
				action, _, err := applyAttendanceTransition(ctx, store, employee,
					models.LocationEventTypeGeofenceEnter, geofence, now)
				if err != nil {
					t.Errorf("transition failed: %v", err)
					return
				}
				if action == AttendanceActionCheckIn {
					checkIns++
				}
			}()
		}
		wg.Wait()

		if checkIns != 1 || store.count() != 1 {
			t.Fatalf("run=%d: %d check-ins and %d records for one employee-day, want 1 each",
				run, checkIns, store.count())
		}
	}
}
