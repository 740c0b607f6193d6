package handlers

import "net/http"

// Subscriber upgrades a request into a live event stream.
type Subscriber interface {
	Subscribe(w http.ResponseWriter, r *http.Request, userID string)
}

// NewEventsHandler returns GET /api/charging-stations/events handler.
func NewEventsHandler(sub Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		sub.Subscribe(w, r, user.ID)
	}
}
