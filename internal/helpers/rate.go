package helpers

import (
	"time"

	"golang.org/x/time/rate"
)

// OnceAMinute throttles repeated warnings, such as disabled signature verification, to one per minute.
var OnceAMinute = &rate.Sometimes{Interval: time.Minute}
