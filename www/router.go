package www

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"freightcore/engine"
)

type Handlers struct {
	engine   *engine.Engine
	sessions *sessions.CookieStore
	eventHub *EventHub
}

// NewRouter builds the JSON API surface. The returned stop function
// shuts down the SSE hub.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(eng.AppConfig().Web.SessionSecret),
		eventHub: hub,
	}

	h.ensureDefaultAdmin(eng.DB())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// SSE
	r.Get("/events", hub.SSEHandler)

	// Session
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	// Marketplace API. Shippers and back-office services talk to these
	// directly; carriers come in over messaging.
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealthCheck)

		r.Get("/truck-types", h.apiListTruckTypes)
		r.Get("/truck-categories", h.apiListTruckCategories)
		r.Get("/bed-types", h.apiListBedTypes)
		r.Get("/use-tags", h.apiListUseTags)
		r.Get("/help-options", h.apiListHelpOptions)

		r.Get("/customers", h.apiListCustomers)
		r.Get("/customers/{id}/freight-bids", h.apiListCustomerFreightBids)
		r.Get("/customers/{id}/payment-accounts", h.apiListCustomerPaymentAccounts)
		r.Get("/drivers", h.apiListDrivers)
		r.Get("/drivers/{id}/trucks", h.apiListDriverTrucks)
		r.Get("/drivers/{id}/driver-bids", h.apiListDriverBidsByDriver)

		r.Get("/freight-bids", h.apiListFreightBids)
		r.Post("/freight-bids", h.apiCreateFreightBid)
		r.Get("/freight-bids/{id}", h.apiGetFreightBid)
		r.Put("/freight-bids/{id}", h.apiUpdateFreightBid)
		r.Delete("/freight-bids/{id}", h.apiDeleteFreightBid)
		r.Post("/freight-bids/{id}/publish", h.apiPublishFreightBid)
		r.Post("/freight-bids/{id}/cancel", h.apiCancelFreightBid)
		r.Post("/freight-bids/{id}/advance", h.apiAdvanceFreightBid)
		r.Post("/freight-bids/{id}/assign", h.apiAssignDriver)
		r.Get("/freight-bids/{id}/find-drivers-status", h.apiFindDriversStatus)
		r.Get("/freight-bids/{id}/history", h.apiFreightBidHistory)
		r.Get("/freight-bids/{id}/driver-bids", h.apiListDriverBidsByFreightBid)

		r.Post("/driver-bids", h.apiPlaceDriverBid)
		r.Get("/driver-bids/{id}", h.apiGetDriverBid)
		r.Put("/driver-bids/{id}", h.apiUpdateDriverBid)
		r.Post("/driver-bids/{id}/withdraw", h.apiWithdrawDriverBid)
		r.Delete("/driver-bids/{id}", h.apiDeleteDriverBid)
	})

	// Admin routes: reference data, directory onboarding, audit.
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/api/truck-types", h.apiCreateTruckType)
		r.Put("/api/truck-types/{id}", h.apiUpdateTruckType)
		r.Delete("/api/truck-types/{id}", h.apiDeleteTruckType)
		r.Post("/api/truck-categories", h.apiCreateTruckCategory)
		r.Put("/api/truck-categories/{id}", h.apiUpdateTruckCategory)
		r.Delete("/api/truck-categories/{id}", h.apiDeleteTruckCategory)
		r.Post("/api/bed-types", h.apiCreateBedType)
		r.Put("/api/bed-types/{id}", h.apiUpdateBedType)
		r.Delete("/api/bed-types/{id}", h.apiDeleteBedType)
		r.Post("/api/use-tags", h.apiCreateUseTag)
		r.Put("/api/use-tags/{id}", h.apiUpdateUseTag)
		r.Delete("/api/use-tags/{id}", h.apiDeleteUseTag)
		r.Post("/api/help-options", h.apiCreateHelpOption)
		r.Put("/api/help-options/{id}", h.apiUpdateHelpOption)
		r.Delete("/api/help-options/{id}", h.apiDeleteHelpOption)

		r.Post("/api/customers", h.apiCreateCustomer)
		r.Post("/api/drivers", h.apiCreateDriver)
		r.Post("/api/trucks", h.apiCreateTruck)
		r.Post("/api/payment-accounts", h.apiCreatePaymentAccount)

		r.Get("/api/audit", h.apiListAudit)
		r.Get("/api/stats", h.apiStats)
		r.Post("/api/refdata/sync", h.apiRefdataSync)
	})

	stopFn := func() {
		hub.Stop()
	}

	return r, stopFn
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.engine.DB().GetAdminUser(req.Username)
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		h.jsonError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Values["username"] = req.Username
	if err := session.Save(r, w); err != nil {
		log.Printf("auth: session save error: %v", err)
	}

	h.jsonOK(w, map[string]any{"success": true, "username": req.Username})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, sessionName)
	session.Values["authenticated"] = false
	session.Values["username"] = ""
	session.Save(r, w)
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	messagingOK := false
	if c := h.engine.MsgClient(); c != nil {
		messagingOK = c.IsConnected()
	}
	h.jsonOK(w, map[string]any{
		"status":    "ok",
		"database":  h.engine.DB().Driver(),
		"messaging": messagingOK,
	})
}
