package engine

import (
	"time"

	"github.com/Veraticus/klaro/internal/service"
)

type systemScheduler struct{}

// SystemScheduler runs callbacks on the wall clock via time.AfterFunc.
func SystemScheduler() service.Scheduler {
	return systemScheduler{}
}

func (systemScheduler) AfterFunc(d time.Duration, f func()) service.Timer {
	return time.AfterFunc(d, f)
}
