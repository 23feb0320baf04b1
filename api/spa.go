package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
)

// createBookingHandler reserves a spa slot for the current user. The booking
// stays pending until its payment settles.
func (a *API) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.BookingRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Service == "" {
		errors.ErrInvalidData.Withf("service is empty").Write(w)
		return
	}
	if req.Slot.Before(time.Now()) {
		errors.ErrInvalidData.Withf("slot is in the past").Write(w)
		return
	}
	id, err := a.db.SetBooking(&db.SpaBooking{
		UserID:  user.ID,
		Service: req.Service,
		Slot:    req.Slot,
	})
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	booking, err := a.db.Booking(id)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, booking)
}

// bookingsHandler lists the spa bookings of the current user.
func (a *API) bookingsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	bookings, err := a.db.BookingsByUser(user.ID)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.BookingList{Bookings: bookings})
}

// bookingInfoHandler returns a single booking, checking ownership for
// non-admin users.
func (a *API) bookingInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	bookingID, err := objectIDFromURL(r, "bookingID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	booking, err := a.db.Booking(bookingID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrBookingNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if booking.UserID != user.ID && user.Role != db.AdminRole {
		errors.ErrBookingNotFound.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, booking)
}

// deleteBookingHandler cancels a booking. Confirmed bookings can only be
// cancelled by an admin.
func (a *API) deleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	bookingID, err := objectIDFromURL(r, "bookingID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	booking, err := a.db.Booking(bookingID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrBookingNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if booking.UserID != user.ID && user.Role != db.AdminRole {
		errors.ErrBookingNotFound.Write(w)
		return
	}
	if booking.Status == db.BookingConfirmed && user.Role != db.AdminRole {
		errors.ErrInvalidData.Withf("confirmed booking cannot be cancelled").Write(w)
		return
	}
	if err := a.db.DelBooking(bookingID); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}
