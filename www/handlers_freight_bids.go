package www

import (
	"net/http"

	"freightcore/match"
)

func (h *Handlers) apiListFreightBids(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := queryLimit(r, 100)
	bids, err := h.engine.DB().ListFreightBids(status, limit)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, bids)
}

func (h *Handlers) apiListCustomerFreightBids(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	bids, err := h.engine.DB().ListFreightBidsByCustomer(id)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, bids)
}

func (h *Handlers) apiGetFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	bid, err := h.engine.DB().GetFreightBid(id)
	if err != nil {
		h.jsonError(w, "not found", http.StatusNotFound)
		return
	}
	h.jsonOK(w, bid)
}

func (h *Handlers) apiCreateFreightBid(w http.ResponseWriter, r *http.Request) {
	var req match.FreightBidRequest
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	bid, err := h.engine.Matcher().CreateFreightBid(&req)
	if err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "freightBid": bid})
}

func (h *Handlers) apiUpdateFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req match.FreightBidRequest
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	bid, err := h.engine.Matcher().UpdateFreightBid(id, &req)
	if err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "freightBid": bid})
}

func (h *Handlers) apiDeleteFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.engine.Matcher().DeleteFreightBid(id); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiPublishFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.engine.Matcher().PublishFreightBid(id); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiCancelFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	decodeJSON(r, &req) // body optional
	if req.Reason == "" {
		req.Reason = "cancelled by shipper"
	}
	if err := h.engine.Matcher().CancelFreightBid(id, req.Reason); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiAdvanceFreightBid(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.engine.Matcher().AdvanceFreightBid(id, req.Status); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "status": req.Status})
}

func (h *Handlers) apiAssignDriver(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		DriverBidID int64 `json:"driverBidId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.engine.Matcher().AssignDriver(id, req.DriverBidID); err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiFindDriversStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	status, err := h.engine.Matcher().GetFindDriversStatus(id)
	if err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, status)
}

func (h *Handlers) apiFreightBidHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	history, err := h.engine.Matcher().ListFreightBidHistory(id)
	if err != nil {
		h.jsonDomainError(w, r, err)
		return
	}
	h.jsonOK(w, history)
}
