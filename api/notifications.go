package api

import (
	"net/http"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
)

// notificationsHandler lists the in-app notifications of the current user.
func (a *API) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	list, err := a.db.NotificationsByUser(user.ID)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.NotificationList{Notifications: list})
}

// markNotificationReadHandler marks one notification of the current user as
// read. Marking someone else's notification reports not found.
func (a *API) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	notificationID, err := objectIDFromURL(r, "notificationID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	if err := a.db.MarkNotificationRead(notificationID, user.ID); err != nil {
		if err == db.ErrNotFound {
			errors.ErrNotificationNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}
