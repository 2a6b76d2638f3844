package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"park-ticketing-platform/internal/models"
)

const (
	sessionName    = "parkpass_session"
	cartSessionKey = "cart"
)

// cartFromSession returns the session and the cart stored in it. A missing
// or undecodable cart comes back empty; session decode errors are ignored
// because gorilla returns a fresh session alongside them.
func cartFromSession(store sessions.Store, r *http.Request) (*sessions.Session, *models.Cart) {
	session, _ := store.Get(r, sessionName)

	if raw, ok := session.Values[cartSessionKey]; ok {
		if cart, ok := raw.(*models.Cart); ok && cart != nil {
			return session, cart
		}
	}
	return session, &models.Cart{}
}

// saveCartToSession writes the cart back into the session cookie
func saveCartToSession(session *sessions.Session, w http.ResponseWriter, r *http.Request, cart *models.Cart) error {
	session.Values[cartSessionKey] = cart
	return session.Save(r, w)
}
