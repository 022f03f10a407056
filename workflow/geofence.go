package workflow

import (
	"context"
	"sort"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
)

// GeofenceResult reports whether a point fell inside a candidate site's
// geofence. Site and Distance are set only when Inside is true;
// ClosestSite and MinDistance are nil when the candidate set is empty,
// which is the normal case for an unassigned employee.
type GeofenceResult struct {
	Inside      bool         `json:"inside"`
	Site        *models.Site `json:"site"`
	Distance    float64      `json:"distance"`
	ClosestSite *models.Site `json:"closest_site"`
	MinDistance *float64     `json:"min_distance"`
}

// ResolveGeofence tests a point against candidate sites. Candidates are
// scanned in ascending distance order (ties broken by id) so the result
// is deterministic and the containing site, when several overlap, is
// always the nearest one. Containment is radius-relative per site.
func ResolveGeofence(lat float64, lng float64, sites []*models.Site) GeofenceResult {
	var result GeofenceResult
	if len(sites) == 0 {
		return result
	}

	type candidate struct {
		site     *models.Site
		distance float64
	}
	candidates := make([]candidate, 0, len(sites))
	for _, site := range sites {
		candidates = append(candidates, candidate{
			site:     site,
			distance: Distance(lat, lng, site.Latitude, site.Longitude),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].site.ID < candidates[j].site.ID
	})

	result.ClosestSite = candidates[0].site
	result.MinDistance = &candidates[0].distance

	for _, c := range candidates {
		if c.distance <= c.site.GeofenceRadius {
			result.Inside = true
			result.Site = c.site
			result.Distance = c.distance
			return result
		}
	}
	return result
}

// candidateSites returns the sites a geofence check should consider for
// an employee. Unassigned employees only see every company site when
// the open-site flag is enabled; otherwise they resolve against nothing
// and can never check in.
func candidateSites(ctx context.Context, employee *models.Employee) ([]*models.Site, error) {
	sites, err := models.AssignedSites(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 && config.AllowAnySiteWhenUnassigned() {
		return models.ListSites(ctx, employee.CompanyId)
	}
	return sites, nil
}

// CheckGeofence resolves a point against an employee's candidate sites.
func CheckGeofence(ctx context.Context, employeeId int, lat float64, lng float64) (*GeofenceResult, error) {
	employee, err := models.GetEmployeeById(ctx, "", employeeId)
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	sites, err := candidateSites(ctx, employee)
	if err != nil {
		return nil, err
	}
	result := ResolveGeofence(lat, lng, sites)
	return &result, nil
}
