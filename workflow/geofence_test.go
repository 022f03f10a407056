package workflow

import (
	"encoding/json"
	"testing"

	"github.com/daycrew/attendance_backend/models"
)

func testSite(id int, name string, lat, lng, radius float64) *models.Site {
	return &models.Site{
		ID:             id,
		Name:           name,
		Latitude:       lat,
		Longitude:      lng,
		GeofenceRadius: radius,
	}
}

func TestResolveGeofence_InsideSingleSite(t *testing.T) {
	site := testSite(1, "HQ", 37.5665, 126.9780, 100)
	result := ResolveGeofence(37.5665, 126.9780, []*models.Site{site})

	if !result.Inside {
		t.Fatal("point at site center should be inside")
	}
	if result.Site.ID != 1 {
		t.Fatalf("resolved site = %d, want 1", result.Site.ID)
	}
	if result.Distance != 0 {
		t.Fatalf("distance = %f, want 0", result.Distance)
	}
}

func TestResolveGeofence_OutsideReportsClosest(t *testing.T) {
	near := testSite(1, "Near", 37.5665, 126.9780, 50)
	far := testSite(2, "Far", 35.1796, 129.0756, 50)

	// ~111 m north of Near, outside both radii.
	result := ResolveGeofence(37.5675, 126.9780, []*models.Site{far, near})

	if result.Inside {
		t.Fatal("point should be outside all geofences")
	}
	if result.Site != nil {
		t.Fatal("no site should be resolved when outside")
	}
	if result.ClosestSite == nil || result.ClosestSite.ID != 1 {
		t.Fatalf("closest site should be Near, got %+v", result.ClosestSite)
	}
	if result.MinDistance == nil {
		t.Fatal("min distance should be set when candidates exist")
	}
	if *result.MinDistance < 100 || *result.MinDistance > 120 {
		t.Fatalf("min distance = %f, want ~111", *result.MinDistance)
	}
}

func TestResolveGeofence_OverlappingPicksNearest(t *testing.T) {
	// Both contain the point; B's center is closer.
	a := testSite(1, "A", 37.5665, 126.9780, 500)
	b := testSite(2, "B", 37.5667, 126.9780, 500)
	point := [2]float64{37.5668, 126.9780}

	// Same result regardless of input order.
	r1 := ResolveGeofence(point[0], point[1], []*models.Site{a, b})
	r2 := ResolveGeofence(point[0], point[1], []*models.Site{b, a})

	if !r1.Inside || !r2.Inside {
		t.Fatal("point should be inside both geofences")
	}
	if r1.Site.ID != 2 || r2.Site.ID != 2 {
		t.Fatalf("nearest containing site should win: got %d and %d", r1.Site.ID, r2.Site.ID)
	}
}

func TestResolveGeofence_EquidistantTieBreaksById(t *testing.T) {
	// Mirror images around the point, identical distance.
	a := testSite(7, "East", 37.5665, 126.9790, 500)
	b := testSite(3, "West", 37.5665, 126.9770, 500)

	r := ResolveGeofence(37.5665, 126.9780, []*models.Site{a, b})
	if !r.Inside {
		t.Fatal("point should be inside")
	}
	if r.Site.ID != 3 {
		t.Fatalf("tie should resolve to lower id, got %d", r.Site.ID)
	}
}

func TestResolveGeofence_RadiusIsPerSite(t *testing.T) {
	// Tight site is closer but its radius excludes the point; the
	// wide site contains it.
	tight := testSite(1, "Tight", 37.5665, 126.9780, 10)
	wide := testSite(2, "Wide", 37.5650, 126.9780, 1000)

	// ~111 m from Tight's center.
	r := ResolveGeofence(37.5675, 126.9780, []*models.Site{tight, wide})
	if !r.Inside {
		t.Fatal("wide site should contain the point")
	}
	if r.Site.ID != 2 {
		t.Fatalf("resolved site = %d, want 2", r.Site.ID)
	}
	if r.ClosestSite.ID != 1 {
		t.Fatalf("closest site = %d, want 1", r.ClosestSite.ID)
	}
}

func TestResolveGeofence_NoCandidates(t *testing.T) {
	r := ResolveGeofence(37.5665, 126.9780, nil)
	if r.Inside {
		t.Fatal("no candidates can never be inside")
	}
	if r.ClosestSite != nil {
		t.Fatal("closest site should be nil without candidates")
	}
	if r.MinDistance != nil {
		t.Fatalf("min distance = %f, want nil without candidates", *r.MinDistance)
	}
}

// An unassigned employee with the open-site flag off resolves against
// zero candidates; both response types must still serialize.
func TestResolveGeofence_NoCandidatesSerializes(t *testing.T) {
	r := ResolveGeofence(37.5, 127.0, nil)
	if _, err := json.Marshal(r); err != nil {
		t.Fatalf("marshal GeofenceResult: %v", err)
	}

	out := LocationUpdateResult{
		EventType:        models.LocationEventTypeUpdate,
		Distance:         r.MinDistance,
		AttendanceAction: AttendanceActionNone,
	}
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("marshal LocationUpdateResult: %v", err)
	}
}
