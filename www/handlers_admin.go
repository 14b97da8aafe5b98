package www

import (
	"errors"
	"net/http"

	"freightcore/refdata"
	"freightcore/store"
)

type namedRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Reference tables share one shape, so creation, update, and deletion
// funnel through these three helpers. Every mutation refreshes the
// redis existence cache for its kind.
func (h *Handlers) createNamed(w http.ResponseWriter, r *http.Request, kind string, create func(name, description string) (int64, error)) {
	var req namedRequest
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	id, err := create(req.Name, req.Description)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.engine.RefData().Refresh(kind)
	h.engine.DB().AppendAudit(kind, id, "created", "", req.Name, h.getUsername(r))
	h.jsonOK(w, map[string]any{"success": true, "id": id})
}

func (h *Handlers) updateNamed(w http.ResponseWriter, r *http.Request, kind string, update func(id int64, name, description string) error) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req namedRequest
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := update(id, req.Name, req.Description); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.jsonError(w, "not found", http.StatusNotFound)
		} else {
			h.jsonInternalError(w, r, err)
		}
		return
	}
	h.engine.RefData().Refresh(kind)
	h.engine.DB().AppendAudit(kind, id, "updated", "", req.Name, h.getUsername(r))
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) deleteNamed(w http.ResponseWriter, r *http.Request, kind string, del func(id int64) error) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := del(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.jsonError(w, "not found", http.StatusNotFound)
		} else {
			h.jsonInternalError(w, r, err)
		}
		return
	}
	h.engine.RefData().Refresh(kind)
	h.engine.DB().AppendAudit(kind, id, "deleted", "", "", h.getUsername(r))
	h.jsonOK(w, map[string]any{"success": true})
}

// --- Truck types ---

func (h *Handlers) apiListTruckTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.engine.DB().ListTruckTypes()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, types)
}

func (h *Handlers) apiCreateTruckType(w http.ResponseWriter, r *http.Request) {
	h.createNamed(w, r, refdata.KindTruckTypes, h.engine.DB().CreateTruckType)
}

func (h *Handlers) apiUpdateTruckType(w http.ResponseWriter, r *http.Request) {
	h.updateNamed(w, r, refdata.KindTruckTypes, h.engine.DB().UpdateTruckType)
}

func (h *Handlers) apiDeleteTruckType(w http.ResponseWriter, r *http.Request) {
	h.deleteNamed(w, r, refdata.KindTruckTypes, h.engine.DB().DeleteTruckType)
}

// --- Truck categories ---

func (h *Handlers) apiListTruckCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.engine.DB().ListTruckCategories()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, cats)
}

func (h *Handlers) apiCreateTruckCategory(w http.ResponseWriter, r *http.Request) {
	h.createNamed(w, r, refdata.KindTruckCategories, h.engine.DB().CreateTruckCategory)
}

func (h *Handlers) apiUpdateTruckCategory(w http.ResponseWriter, r *http.Request) {
	h.updateNamed(w, r, refdata.KindTruckCategories, h.engine.DB().UpdateTruckCategory)
}

func (h *Handlers) apiDeleteTruckCategory(w http.ResponseWriter, r *http.Request) {
	h.deleteNamed(w, r, refdata.KindTruckCategories, h.engine.DB().DeleteTruckCategory)
}

// --- Bed types ---

func (h *Handlers) apiListBedTypes(w http.ResponseWriter, r *http.Request) {
	beds, err := h.engine.DB().ListBedTypes()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, beds)
}

func (h *Handlers) apiCreateBedType(w http.ResponseWriter, r *http.Request) {
	h.createNamed(w, r, refdata.KindBedTypes, h.engine.DB().CreateBedType)
}

func (h *Handlers) apiUpdateBedType(w http.ResponseWriter, r *http.Request) {
	h.updateNamed(w, r, refdata.KindBedTypes, h.engine.DB().UpdateBedType)
}

func (h *Handlers) apiDeleteBedType(w http.ResponseWriter, r *http.Request) {
	h.deleteNamed(w, r, refdata.KindBedTypes, h.engine.DB().DeleteBedType)
}

// --- Use tags ---

func (h *Handlers) apiListUseTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.engine.DB().ListUseTags()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, tags)
}

func (h *Handlers) apiCreateUseTag(w http.ResponseWriter, r *http.Request) {
	h.createNamed(w, r, refdata.KindUseTags, h.engine.DB().CreateUseTag)
}

func (h *Handlers) apiUpdateUseTag(w http.ResponseWriter, r *http.Request) {
	h.updateNamed(w, r, refdata.KindUseTags, h.engine.DB().UpdateUseTag)
}

func (h *Handlers) apiDeleteUseTag(w http.ResponseWriter, r *http.Request) {
	h.deleteNamed(w, r, refdata.KindUseTags, h.engine.DB().DeleteUseTag)
}

// --- Help options ---

func (h *Handlers) apiListHelpOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.engine.DB().ListHelpOptions()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, opts)
}

func (h *Handlers) apiCreateHelpOption(w http.ResponseWriter, r *http.Request) {
	h.createNamed(w, r, refdata.KindHelpOptions, h.engine.DB().CreateHelpOption)
}

func (h *Handlers) apiUpdateHelpOption(w http.ResponseWriter, r *http.Request) {
	h.updateNamed(w, r, refdata.KindHelpOptions, h.engine.DB().UpdateHelpOption)
}

func (h *Handlers) apiDeleteHelpOption(w http.ResponseWriter, r *http.Request) {
	h.deleteNamed(w, r, refdata.KindHelpOptions, h.engine.DB().DeleteHelpOption)
}

// --- Directory ---

func (h *Handlers) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.engine.DB().ListCustomers()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, customers)
}

func (h *Handlers) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	id, err := h.engine.DB().CreateCustomer(req.Name, req.Phone)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.engine.RefData().Refresh(refdata.KindCustomers)
	h.jsonOK(w, map[string]any{"success": true, "id": id})
}

func (h *Handlers) apiListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.engine.DB().ListDrivers()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, drivers)
}

func (h *Handlers) apiCreateDriver(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string  `json:"name"`
		Phone  string  `json:"phone"`
		Rating float64 `json:"rating"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		h.jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	id, err := h.engine.DB().CreateDriver(req.Name, req.Phone, req.Rating)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.engine.RefData().Refresh(refdata.KindDrivers)
	h.jsonOK(w, map[string]any{"success": true, "id": id})
}

func (h *Handlers) apiListDriverTrucks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	trucks, err := h.engine.DB().ListTrucksByDriver(id)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, trucks)
}

func (h *Handlers) apiCreateTruck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DriverID    int64  `json:"driverId"`
		PlateNumber string `json:"plateNumber"`
		TruckTypeID *int64 `json:"truckTypeId"`
		Make        string `json:"make"`
		Model       string `json:"model"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.DriverID == 0 || req.PlateNumber == "" {
		h.jsonError(w, "driverId and plateNumber are required", http.StatusBadRequest)
		return
	}
	id, err := h.engine.DB().CreateTruck(req.DriverID, req.PlateNumber, req.TruckTypeID, req.Make, req.Model)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.engine.RefData().Refresh(refdata.KindTrucks)
	h.jsonOK(w, map[string]any{"success": true, "id": id})
}

func (h *Handlers) apiListCustomerPaymentAccounts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	accounts, err := h.engine.DB().ListPaymentAccountsByCustomer(id)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, accounts)
}

func (h *Handlers) apiCreatePaymentAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID int64  `json:"customerId"`
		Label      string `json:"label"`
		Method     string `json:"method"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CustomerID == 0 {
		h.jsonError(w, "customerId is required", http.StatusBadRequest)
		return
	}
	if req.Method == "" {
		req.Method = "cash"
	}
	id, err := h.engine.DB().CreatePaymentAccount(req.CustomerID, req.Label, req.Method)
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.engine.RefData().Refresh(refdata.KindPaymentAccounts)
	h.jsonOK(w, map[string]any{"success": true, "id": id})
}

// --- Operations ---

func (h *Handlers) apiListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.engine.DB().ListAuditLog(queryLimit(r, 200))
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, entries)
}

func (h *Handlers) apiStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.engine.DB().CountFreightBids()
	if err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{
		"freightBidsByStatus": counts,
		"sseClients":          h.eventHub.ClientCount(),
	})
}

func (h *Handlers) apiRefdataSync(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RefData().SyncRedisFromSQL(); err != nil {
		h.jsonInternalError(w, r, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}
