package match

import (
	"errors"
	"fmt"
	"log"

	"freightcore/store"
)

// Resolver answers existence checks for the reference and directory ids a
// bid can point at. Backed by the refdata cache in production, a plain
// struct in tests.
type Resolver interface {
	ResolveTruckType(id int64) (bool, error)
	ResolveTruckCategory(id int64) (bool, error)
	ResolveBedType(id int64) (bool, error)
	ResolveUseTag(id int64) (bool, error)
	ResolveHelpOption(id int64) (bool, error)
	ResolvePaymentAccount(id int64) (bool, error)
	ResolveCustomer(id int64) (bool, error)
	ResolveDriver(id int64) (bool, error)
	ResolveTruck(id int64) (bool, error)
}

// Engine orchestrates the freight bid lifecycle: reference validation,
// the status state machine, driver bid acceptance, and the atomic
// assignment commit.
type Engine struct {
	db       *store.DB
	resolver Resolver
	emitter  Emitter
	retry    store.RetryPolicy
}

func NewEngine(db *store.DB, resolver Resolver, emitter Emitter, retry store.RetryPolicy) *Engine {
	return &Engine{db: db, resolver: resolver, emitter: emitter, retry: retry}
}

type FreightBidRequest struct {
	CustomerID           int64    `json:"customerId"`
	PickupLocation       string   `json:"pickupLocation"`
	PickupLat            *float64 `json:"pickupLat"`
	PickupLng            *float64 `json:"pickupLng"`
	DeliveryLocation     string   `json:"deliveryLocation"`
	DeliveryLat          *float64 `json:"deliveryLat"`
	DeliveryLng          *float64 `json:"deliveryLng"`
	PreferredTruckTypeID int64    `json:"preferredTruckTypeId"`
	TruckCategoryID      *int64   `json:"truckCategoryId"`
	BedTypeID            *int64   `json:"bedTypeId"`
	TruckMake            string   `json:"truckMake"`
	TruckModel           string   `json:"truckModel"`
	CargoWeight          string   `json:"cargoWeight"`
	SpecialInstructions  string   `json:"specialInstructions"`
	Insured              bool     `json:"insured"`
	TravelWithPayload    bool     `json:"travelWithPayload"`
	TravelRequirement    string   `json:"travelRequirement"`
	ExpressService       bool     `json:"expressService"`
	PaymentAccountID     *int64   `json:"paymentAccountId"`
	UseTagIDs            []int64  `json:"useTagIds"`
	HelpOptionIDs        []int64  `json:"helpOptionIds"`
}

type DriverBidRequest struct {
	FreightBidID int64   `json:"freightBidId"`
	DriverID     int64   `json:"driverId"`
	TruckID      int64   `json:"truckId"`
	Amount       float64 `json:"amount"`
	Message      string  `json:"message"`
}

// wrapStoreErr converts store sentinels into domain errors. Transient
// infrastructure errors that survived the retry policy surface as
// SaveFailed; anything else passes through for the outer boundary.
func wrapStoreErr(err error, what, invalidMsg string) error {
	if err == nil {
		return nil
	}
	if me := AsError(err); me != nil {
		return me
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError(what)
	case errors.Is(err, store.ErrInvalidState):
		return InvalidTransitionError(invalidMsg)
	case errors.Is(err, store.ErrConflict):
		return ConflictError("a concurrent update already changed the " + what)
	}
	if store.IsTransient(err) {
		log.Printf("match: transient failure exhausted retries: %v", err)
		return NewError(CodeSaveFailed, "storage temporarily unavailable")
	}
	return err
}

func (e *Engine) validateFreightBidRequest(req *FreightBidRequest) error {
	if req.CustomerID == 0 {
		return ValidationErr("CustomerId", "required")
	}
	if req.PickupLocation == "" {
		return ValidationErr("PickupLocation", "required")
	}
	if req.DeliveryLocation == "" {
		return ValidationErr("DeliveryLocation", "required")
	}
	if req.PreferredTruckTypeID == 0 {
		return ValidationErr("PreferredTruckTypeId", "required")
	}

	checks := []struct {
		field   string
		resolve func() (bool, error)
	}{
		{"CustomerId", func() (bool, error) { return e.resolver.ResolveCustomer(req.CustomerID) }},
		{"PreferredTruckTypeId", func() (bool, error) { return e.resolver.ResolveTruckType(req.PreferredTruckTypeID) }},
	}
	if req.TruckCategoryID != nil {
		id := *req.TruckCategoryID
		checks = append(checks, struct {
			field   string
			resolve func() (bool, error)
		}{"TruckCategoryId", func() (bool, error) { return e.resolver.ResolveTruckCategory(id) }})
	}
	if req.BedTypeID != nil {
		id := *req.BedTypeID
		checks = append(checks, struct {
			field   string
			resolve func() (bool, error)
		}{"BedTypeId", func() (bool, error) { return e.resolver.ResolveBedType(id) }})
	}
	if req.PaymentAccountID != nil {
		id := *req.PaymentAccountID
		checks = append(checks, struct {
			field   string
			resolve func() (bool, error)
		}{"PaymentAccountId", func() (bool, error) { return e.resolver.ResolvePaymentAccount(id) }})
	}
	for _, c := range checks {
		ok, err := c.resolve()
		if err != nil {
			return fmt.Errorf("resolve %s: %w", c.field, err)
		}
		if !ok {
			return ForeignKeyError(c.field)
		}
	}
	for _, tagID := range req.UseTagIDs {
		ok, err := e.resolver.ResolveUseTag(tagID)
		if err != nil {
			return fmt.Errorf("resolve UseTagIds: %w", err)
		}
		if !ok {
			return ForeignKeyError("UseTagIds")
		}
	}
	for _, optID := range req.HelpOptionIDs {
		ok, err := e.resolver.ResolveHelpOption(optID)
		if err != nil {
			return fmt.Errorf("resolve HelpOptionIds: %w", err)
		}
		if !ok {
			return ForeignKeyError("HelpOptionIds")
		}
	}
	if req.PaymentAccountID != nil {
		ok, err := e.db.PaymentAccountBelongsToCustomer(*req.PaymentAccountID, req.CustomerID)
		if err != nil {
			return fmt.Errorf("check payment account owner: %w", err)
		}
		if !ok {
			return ValidationErr("PaymentAccountId", "payment account does not belong to customer")
		}
	}
	return nil
}

func bidFromRequest(req *FreightBidRequest) *store.FreightBid {
	return &store.FreightBid{
		CustomerID:          req.CustomerID,
		PickupLocation:      req.PickupLocation,
		PickupLat:           req.PickupLat,
		PickupLng:           req.PickupLng,
		DeliveryLocation:    req.DeliveryLocation,
		DeliveryLat:         req.DeliveryLat,
		DeliveryLng:         req.DeliveryLng,
		TruckTypeID:         req.PreferredTruckTypeID,
		TruckCategoryID:     req.TruckCategoryID,
		BedTypeID:           req.BedTypeID,
		TruckMake:           req.TruckMake,
		TruckModel:          req.TruckModel,
		CargoWeight:         req.CargoWeight,
		SpecialInstructions: req.SpecialInstructions,
		Insured:             req.Insured,
		TravelWithPayload:   req.TravelWithPayload,
		TravelRequirement:   req.TravelRequirement,
		ExpressService:      req.ExpressService,
		PaymentAccountID:    req.PaymentAccountID,
		UseTagIDs:           req.UseTagIDs,
		HelpOptionIDs:       req.HelpOptionIDs,
	}
}

// CreateFreightBid validates references, persists the bid atomically with
// its tag links, and announces it.
func (e *Engine) CreateFreightBid(req *FreightBidRequest) (*store.FreightBid, error) {
	if err := e.validateFreightBidRequest(req); err != nil {
		return nil, err
	}
	b := bidFromRequest(req)
	err := e.retry.Do(func() error {
		_, err := e.db.CreateFreightBid(b)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err, "freight bid", "freight bid cannot be created")
	}
	e.emitter.EmitBidCreated(b.ID, b.BidNumber, b.CustomerID)
	return e.db.GetFreightBid(b.ID)
}

// UpdateFreightBid replaces the mutable fields of a bid. Status and
// assignment fields are untouchable here; those belong to the engine's
// transition operations.
func (e *Engine) UpdateFreightBid(id int64, req *FreightBidRequest) (*store.FreightBid, error) {
	if err := e.validateFreightBidRequest(req); err != nil {
		return nil, err
	}
	current, err := e.db.GetFreightBid(id)
	if err != nil {
		return nil, wrapStoreErr(err, "freight bid", "")
	}
	if req.CustomerID != current.CustomerID {
		return nil, ValidationErr("CustomerId", "freight bid owner cannot change")
	}
	b := bidFromRequest(req)
	b.ID = id
	err = e.retry.Do(func() error { return e.db.UpdateFreightBid(b) })
	if err != nil {
		return nil, wrapStoreErr(err, "freight bid", "freight bid is in a terminal status and cannot be updated")
	}
	return e.db.GetFreightBid(id)
}

// DeleteFreightBid removes a bid and cascades its driver bids, tag links,
// and history.
func (e *Engine) DeleteFreightBid(id int64) error {
	b, err := e.db.GetFreightBid(id)
	if err != nil {
		return wrapStoreErr(err, "freight bid", "")
	}
	err = e.retry.Do(func() error { return e.db.DeleteFreightBid(id) })
	if err != nil {
		return wrapStoreErr(err, "freight bid", "")
	}
	e.emitter.EmitBidDeleted(id, b.BidNumber)
	return nil
}

// PublishFreightBid opens a requested bid for carrier responses.
func (e *Engine) PublishFreightBid(id int64) error {
	b, err := e.db.GetFreightBid(id)
	if err != nil {
		return wrapStoreErr(err, "freight bid", "")
	}
	err = e.retry.Do(func() error {
		return e.db.TransitionFreightBid(id, store.BidStatusRequested, store.BidStatusOpen, "published")
	})
	if err != nil {
		return wrapStoreErr(err, "freight bid",
			fmt.Sprintf("freight bid in status %q cannot be published", b.Status))
	}
	e.emitter.EmitBidPublished(id, b.BidNumber)
	e.emitter.EmitBidStatusChanged(id, b.BidNumber, store.BidStatusRequested, store.BidStatusOpen)
	return nil
}

func (e *Engine) validateDriverBidRefs(req *DriverBidRequest) error {
	ok, err := e.resolver.ResolveDriver(req.DriverID)
	if err != nil {
		return fmt.Errorf("resolve DriverId: %w", err)
	}
	if !ok {
		return ForeignKeyError("DriverId")
	}
	ok, err = e.resolver.ResolveTruck(req.TruckID)
	if err != nil {
		return fmt.Errorf("resolve TruckId: %w", err)
	}
	if !ok {
		return ForeignKeyError("TruckId")
	}
	ok, err = e.db.TruckBelongsToDriver(req.TruckID, req.DriverID)
	if err != nil {
		return fmt.Errorf("check truck owner: %w", err)
	}
	if !ok {
		return ValidationErr("TruckId", "truck is not registered to this driver")
	}
	return nil
}

// PlaceDriverBid records a carrier's offer against an open freight bid.
func (e *Engine) PlaceDriverBid(req *DriverBidRequest) (*store.DriverBid, error) {
	if req.Amount < 0 {
		return nil, ValidationErr("Amount", "must not be negative")
	}
	ok, err := e.db.FreightBidExists(req.FreightBidID)
	if err != nil {
		return nil, fmt.Errorf("resolve FreightBidId: %w", err)
	}
	if !ok {
		return nil, ForeignKeyError("FreightBidId")
	}
	if err := e.validateDriverBidRefs(req); err != nil {
		return nil, err
	}
	d := &store.DriverBid{
		FreightBidID: req.FreightBidID,
		DriverID:     req.DriverID,
		TruckID:      req.TruckID,
		Amount:       req.Amount,
		Message:      req.Message,
	}
	err = e.retry.Do(func() error {
		_, err := e.db.CreateDriverBid(d)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr(err, "freight bid", "freight bid is not open for bidding")
	}
	e.emitter.EmitDriverBidPlaced(d.ID, d.FreightBidID, d.DriverID, d.Amount)
	return e.db.GetDriverBid(d.ID)
}

// UpdateDriverBid revises a pending offer. All three references are
// re-checked against the stored row: a stale or hostile client cannot
// repoint the bid at a different freight bid, driver, or truck.
func (e *Engine) UpdateDriverBid(id int64, req *DriverBidRequest) (*store.DriverBid, error) {
	if req.Amount < 0 {
		return nil, ValidationErr("Amount", "must not be negative")
	}
	current, err := e.db.GetDriverBid(id)
	if err != nil {
		return nil, wrapStoreErr(err, "driver bid", "")
	}
	if req.FreightBidID != current.FreightBidID {
		return nil, ValidationErr("FreightBidId", "driver bid cannot move to another freight bid")
	}
	if req.DriverID != current.DriverID {
		return nil, ValidationErr("DriverId", "driver bid cannot change driver")
	}
	if req.TruckID != current.TruckID {
		return nil, ValidationErr("TruckId", "driver bid cannot change truck")
	}
	err = e.retry.Do(func() error { return e.db.UpdateDriverBid(id, req.Amount, req.Message) })
	if err != nil {
		return nil, wrapStoreErr(err, "driver bid", "only pending driver bids can be revised")
	}
	return e.db.GetDriverBid(id)
}

// WithdrawDriverBid retracts a pending offer. Accepted bids cannot be
// withdrawn; the freight bid has to be cancelled instead.
func (e *Engine) WithdrawDriverBid(id int64) error {
	current, err := e.db.GetDriverBid(id)
	if err != nil {
		return wrapStoreErr(err, "driver bid", "")
	}
	err = e.retry.Do(func() error { return e.db.WithdrawDriverBid(id) })
	if err != nil {
		return wrapStoreErr(err, "driver bid", "only pending driver bids can be withdrawn")
	}
	e.emitter.EmitDriverBidWithdrawn(id, current.FreightBidID, current.DriverID)
	return nil
}

// DeleteDriverBid removes a carrier's offer entirely. The accepted bid
// on an assigned freight bid is protected; everything else may go.
func (e *Engine) DeleteDriverBid(id int64) error {
	current, err := e.db.GetDriverBid(id)
	if err != nil {
		return wrapStoreErr(err, "driver bid", "")
	}
	err = e.retry.Do(func() error { return e.db.DeleteDriverBid(id) })
	if err != nil {
		return wrapStoreErr(err, "driver bid", "the accepted driver bid cannot be deleted")
	}
	if current.Status == store.DriverBidPending {
		e.emitter.EmitDriverBidWithdrawn(id, current.FreightBidID, current.DriverID)
	}
	return nil
}

// AssignDriver accepts one driver bid and binds its driver and truck to
// the freight bid. The store runs the whole effect in one transaction;
// a concurrent winner leaves this call with Conflict and no effect.
func (e *Engine) AssignDriver(freightBidID, driverBidID int64) error {
	// Read the bid number up front; once the transaction commits the
	// events must go out regardless of any later read failing.
	b, err := e.db.GetFreightBid(freightBidID)
	if err != nil {
		return wrapStoreErr(err, "freight bid", "")
	}
	var result *store.AssignResult
	err = e.retry.Do(func() error {
		var err error
		result, err = e.db.AssignDriver(freightBidID, driverBidID)
		return err
	})
	if err != nil {
		return wrapStoreErr(err, "freight bid or driver bid",
			"freight bid must be open and the driver bid pending to assign")
	}
	e.emitter.EmitDriverAssigned(freightBidID, driverBidID, result.DriverID, result.TruckID)
	e.emitter.EmitBidStatusChanged(freightBidID, b.BidNumber, store.BidStatusOpen, store.BidStatusAssigned)
	return nil
}

// AdvanceFreightBid moves an assigned bid through its delivery milestones.
// Assignment statuses are reserved for AssignDriver, and the state machine
// only moves forward one step at a time.
func (e *Engine) AdvanceFreightBid(id int64, to string) error {
	if !ValidStatus(to) {
		return ValidationErr("Status", fmt.Sprintf("unknown status %q", to))
	}
	if to == store.BidStatusCancelled {
		return e.CancelFreightBid(id, "cancelled")
	}
	b, err := e.db.GetFreightBid(id)
	if err != nil {
		return wrapStoreErr(err, "freight bid", "")
	}
	if to == store.BidStatusAccepted || to == store.BidStatusAssigned {
		return InvalidTransitionError("assignment statuses are set by driver assignment")
	}
	if !CanTransition(b.Status, to) {
		return InvalidTransitionError(fmt.Sprintf("cannot move freight bid from %q to %q", b.Status, to))
	}
	err = e.retry.Do(func() error { return e.db.TransitionFreightBid(id, b.Status, to, "") })
	if err != nil {
		return wrapStoreErr(err, "freight bid",
			fmt.Sprintf("cannot move freight bid from %q to %q", b.Status, to))
	}
	e.emitter.EmitBidStatusChanged(id, b.BidNumber, b.Status, to)
	return nil
}

// CancelFreightBid cancels a non-terminal bid and withdraws its open
// driver bids.
func (e *Engine) CancelFreightBid(id int64, reason string) error {
	b, err := e.db.GetFreightBid(id)
	if err != nil {
		return wrapStoreErr(err, "freight bid", "")
	}
	err = e.retry.Do(func() error { return e.db.CancelFreightBid(id, reason) })
	if err != nil {
		return wrapStoreErr(err, "freight bid", "freight bid is already in a terminal status")
	}
	e.emitter.EmitBidCancelled(id, b.BidNumber, reason)
	e.emitter.EmitBidStatusChanged(id, b.BidNumber, b.Status, store.BidStatusCancelled)
	return nil
}
