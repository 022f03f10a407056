package models

import (
	"log"

	"github.com/daycrew/attendance_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Company{}, &User{}, &Department{},
		&Employee{}, &EmployeeSiteAssignment{}, &Site{},
		&LocationEvent{}, &AttendanceRecord{},
		&Violation{}, &ViolationAlertRecord{},
		&JobPost{}, &JobApplication{}, &PaymentLog{},
		&AuditLog{},
		&IdempotencyKey{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
