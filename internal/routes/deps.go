package routes

import (
	"github.com/dukerupert/skald/internal/handler/api"
)

// APIDeps contains the handlers the API routes dispatch to.
type APIDeps struct {
	Books     *api.BookHandler
	Cart      *api.CartHandler
	Purchases *api.PurchaseHandler
	Users     *api.UserHandler
}
