package www

import (
	"net/http"

	"freightcore/match"
)

func (h *Handlers) apiPlaceDriverBid(w http.ResponseWriter, r *http.Request) {
	var req match.DriverBidRequest
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	bid, err := h.engine.Matcher().PlaceDriverBid(&req)
	if err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "driverBid": bid})
}

func (h *Handlers) apiGetDriverBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	bid, err := h.engine.DB().GetDriverBid(id)
	if err != nil {
		h.jsonError(w, "not found", http.StatusNotFound)
		return
	}
	h.jsonOK(w, bid)
}

func (h *Handlers) apiUpdateDriverBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req match.DriverBidRequest
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	bid, err := h.engine.Matcher().UpdateDriverBid(id, &req)
	if err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "driverBid": bid})
}

func (h *Handlers) apiWithdrawDriverBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.engine.Matcher().WithdrawDriverBid(id); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiDeleteDriverBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.engine.Matcher().DeleteDriverBid(id); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiListDriverBidsByFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	bids, err := h.engine.DB().ListDriverBidsByFreightBid(id)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, bids)
}

func (h *Handlers) apiListDriverBidsByDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	bids, err := h.engine.DB().ListDriverBidsByDriver(id)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, bids)
}
