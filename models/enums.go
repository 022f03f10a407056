package models

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleEmployee:
		return true
	}
	return false
}

type LocationEventType string

const (
	LocationEventTypeUpdate        LocationEventType = "location_update"
	LocationEventTypeGeofenceEnter LocationEventType = "geofence_enter"
	LocationEventTypeGeofenceExit  LocationEventType = "geofence_exit"
	LocationEventTypeCheckIn       LocationEventType = "check_in"
	LocationEventTypeCheckOut      LocationEventType = "check_out"
)

type AttendanceStatus string

const (
	AttendanceStatusScheduled AttendanceStatus = "scheduled"
	AttendanceStatusCheckedIn AttendanceStatus = "checked_in"
	AttendanceStatusCompleted AttendanceStatus = "completed"
	AttendanceStatusAbsent    AttendanceStatus = "absent"
)

type ViolationType string

const (
	ViolationTypeLateArrival              ViolationType = "late_arrival"
	ViolationTypeEarlyDeparture           ViolationType = "early_departure"
	ViolationTypeInsufficientWorkHours    ViolationType = "insufficient_work_hours"
	ViolationTypeLocationSpoofing         ViolationType = "location_spoofing"
	ViolationTypeMockLocationDetected     ViolationType = "mock_location_detected"
	ViolationTypeAbnormalSpeed            ViolationType = "abnormal_speed"
	ViolationTypeFrequentLateness         ViolationType = "frequent_lateness"
	ViolationTypeInsufficientAverageHours ViolationType = "insufficient_average_hours"
)

type ViolationSeverity string

const (
	ViolationSeverityLow      ViolationSeverity = "low"
	ViolationSeverityMedium   ViolationSeverity = "medium"
	ViolationSeverityHigh     ViolationSeverity = "high"
	ViolationSeverityCritical ViolationSeverity = "critical"
)

// Alertable reports whether a violation of this severity warrants an
// outbound alert. Low and medium findings stay in the review queue.
func (s ViolationSeverity) Alertable() bool {
	return s == ViolationSeverityHigh || s == ViolationSeverityCritical
}

type ViolationStatus string

const (
	ViolationStatusPending      ViolationStatus = "pending"
	ViolationStatusAcknowledged ViolationStatus = "acknowledged"
	ViolationStatusResolved     ViolationStatus = "resolved"
	ViolationStatusDismissed    ViolationStatus = "dismissed"
)

func (s ViolationStatus) IsValid() bool {
	switch s {
	case ViolationStatusPending, ViolationStatusAcknowledged, ViolationStatusResolved, ViolationStatusDismissed:
		return true
	}
	return false
}

type JobPostStatus string

const (
	JobPostStatusActive  JobPostStatus = "active"
	JobPostStatusFull    JobPostStatus = "full"
	JobPostStatusExpired JobPostStatus = "expired"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWorking   ApplicationStatus = "working"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeRefund  PaymentType = "refund"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Alert outbox publish lifecycle, terminal states are SENT and DEAD.
const (
	AlertPublishStatusPending    = "PENDING"
	AlertPublishStatusProcessing = "PROCESSING"
	AlertPublishStatusSent       = "SENT"
	AlertPublishStatusFailed     = "FAILED"
	AlertPublishStatusDead       = "DEAD"
)
