package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// Mountable is implemented by every feature handler; the router mounts each
// one under its own route subtree.
type Mountable interface {
	Mount(r chi.Router)
}

// clockFunc lets handler tests pin time.
type clockFunc func() time.Time

func defaultClock() time.Time { return time.Now() }
