package safe

import (
	"DMProject/logger"
)

// SafeGo starts a goroutine that recovers from panic, so a single
// connection's failure cannot take the process down.
func SafeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[SafeGo] panic recovered: %v", r)
			}
		}()
		f()
	}()
}
