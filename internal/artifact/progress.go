package artifact

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// LoggingProgressObserver emits a structured log line every step events, and
// always on the final call. It never affects stage results: a failure in
// the logger never propagates back to the caller.
type LoggingProgressObserver struct {
	log  *logrus.Logger
	step int64
	last atomic.Int64
}

// NewLoggingProgressObserver builds an observer that logs every step
// progress events. A step of zero or less logs every event.
func NewLoggingProgressObserver(logger *logrus.Logger, step int64) *LoggingProgressObserver {
	return &LoggingProgressObserver{log: logger, step: step}
}

func (o *LoggingProgressObserver) OnProgress(stage string, done, total int64) {
	if o.step > 0 {
		if done != total && done-o.last.Load() < o.step {
			return
		}
		o.last.Store(done)
	}
	o.log.WithFields(logrus.Fields{
		"stage": stage,
		"done":  done,
		"total": total,
	}).Debug("progress")
}
