package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/daycrew/attendance_backend/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AcquireEmployeeAttendanceLock serializes location processing per
// employee across instances using MySQL advisory locks. GET_LOCK is
// connection-scoped, so this must be called on the same *gorm.DB that
// runs the attendance transaction.
func AcquireEmployeeAttendanceLock(tx *gorm.DB, employeeId int) error {
	lockName := fmt.Sprintf("attendance:%d", employeeId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire attendance lock for employee_id=%d", employeeId)
	}
	return nil
}

func ReleaseEmployeeAttendanceLock(tx *gorm.DB, employeeId int) {
	lockName := fmt.Sprintf("attendance:%d", employeeId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

// obtainRedisAttendanceLock is a best-effort second fence on top of the
// advisory lock. Returns nil without error when the lock service is not
// ready or the lock is held elsewhere; the advisory lock still protects
// correctness.
func obtainRedisAttendanceLock(ctx context.Context, employeeId int) *redislock.Lock {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		logger.WithFields(logrus.Fields{
			"field":       "attendanceLock",
			"employee_id": employeeId,
		}).Warn("redis lock not ready; proceeding without redis lock")
		return nil
	}
	lock, err := locker.Obtain(ctx, fmt.Sprintf("lock:attendance:%d", employeeId), 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		logger.WithFields(logrus.Fields{
			"field":       "attendanceLock",
			"employee_id": employeeId,
		}).Warn("could not obtain redis lock; proceeding without redis lock")
		return nil
	} else if err != nil {
		logger.WithFields(logrus.Fields{
			"field":       "attendanceLock",
			"employee_id": employeeId,
		}).Warn("redis lock error; proceeding without redis lock: " + err.Error())
		return nil
	}
	return lock
}
