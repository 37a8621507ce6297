package timerecord

import "errors"

// TimeRecord domain errors
var (
	ErrRecordNotFound = errors.New("time record not found")

	// ErrRecordLocked rejects punch mutation on a paid record. Paid records
	// are append-only audit artifacts; corrections need a reversal workflow.
	ErrRecordLocked = errors.New("time record is paid and can no longer be modified")
)
