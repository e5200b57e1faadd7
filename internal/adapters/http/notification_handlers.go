package httpadapter

import (
	"net/http"
	"strings"
)

func (rt *Router) listNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	identity := identityFromContext(r.Context())

	notifications, err := rt.notifications.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (rt *Router) notificationItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/notifications/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || action != "read" {
		writeJSON(w, http.StatusNotFound, errorBody("unknown notification action"))
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	identity := identityFromContext(r.Context())
	if err := rt.notifications.MarkRead(r.Context(), id, identity.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
