package audit

import "github.com/fitcore/gym-backend/internal/logger"

type Event struct {
	UserID   *string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(ev.UserID, ev.Action, ev.Entity, ev.EntityID, ev.Metadata); err != nil {
			logger.Log.Warn("audit write failed: " + err.Error())
		}
	}
}

// Dispatch never blocks; a full queue drops the event instead of
// failing the request.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		logger.Log.Warn("audit queue full, dropping event")
	}
}
