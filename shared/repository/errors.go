package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"roombook/shared/constant"
	"roombook/shared/failure"

	"github.com/lib/pq"
)

const (
	pqClassConnectionException = "08"
	pqCodeQueryCanceled        = "57014"
)

// StoreError classifies a driver error into a failure kind. Timeouts and lost
// connections become StoreUnavailable, whose write may or may not have landed.
// Errors it does not recognise are returned unchanged.
func StoreError(err error) error {
	if err == nil {
		return nil
	}

	var (
		pqErr  *pq.Error
		netErr net.Error
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return failure.StoreUnavailable(err)
	case errors.As(err, &pqErr):
		switch {
		case pqErr.Code == constant.PqErrorCodeUniqueViolation:
			return failure.Duplicate(pqErr.Message)
		case pqErr.Code == constant.PqErrorCodeExclusionViolation,
			pqErr.Code == constant.PqErrorCodeFkViolation:
			return failure.Conflict(pqErr.Message)
		case pqErr.Code == pqCodeQueryCanceled,
			string(pqErr.Code.Class()) == pqClassConnectionException:
			return failure.StoreUnavailable(err)
		}
	case errors.As(err, &netErr):
		return failure.StoreUnavailable(err)
	}

	return err
}
