package usecase

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock は実時間（UTC）
func SystemClock() Clock {
	return systemClock{}
}
