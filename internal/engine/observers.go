package engine

import (
	"github.com/NathanMorier/ultimatetimer/internal/models"
)

// ObserverFunc receives the full active-countdown collection on every tick
// and every mutating operation.
type ObserverFunc func([]models.ActiveCountdown)

type observer struct {
	handle int
	fn     ObserverFunc
}

// observerRegistry keeps subscribers in registration order. Notification
// iterates a snapshot of the list, so a subscriber unregistering mid-pass
// cannot corrupt the pass.
type observerRegistry struct {
	nextHandle int
	observers  []observer
}

func (r *observerRegistry) add(fn ObserverFunc) int {
	r.nextHandle++
	r.observers = append(r.observers, observer{handle: r.nextHandle, fn: fn})
	return r.nextHandle
}

func (r *observerRegistry) remove(handle int) {
	for i, o := range r.observers {
		if o.handle == handle {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *observerRegistry) snapshot() []observer {
	return append([]observer(nil), r.observers...)
}
