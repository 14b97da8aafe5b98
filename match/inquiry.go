package match

import (
	"fmt"

	"freightcore/store"
)

// FindDriversStatus is the polling projection shippers use to watch
// carrier interest on an open bid.
type FindDriversStatus struct {
	DriversFound      bool   `json:"driversFound"`
	TotalDriversFound int    `json:"totalDriversFound"`
	StatusMessage     string `json:"statusMessage"`
}

// GetFindDriversStatus reports how many drivers have responded to a
// freight bid. Read-only.
func (e *Engine) GetFindDriversStatus(freightBidID int64) (*FindDriversStatus, error) {
	b, err := e.db.GetFreightBid(freightBidID)
	if err != nil {
		return nil, wrapStoreErr(err, "freight bid", "")
	}
	total, pending, err := e.db.CountDriverBids(freightBidID)
	if err != nil {
		return nil, err
	}

	s := &FindDriversStatus{
		DriversFound:      total > 0,
		TotalDriversFound: total,
	}
	switch {
	case IsTerminal(b.Status):
		s.StatusMessage = fmt.Sprintf("freight bid is %s", b.Status)
	case b.Status == store.BidStatusAssigned || b.Status == store.BidStatusInProgress:
		s.StatusMessage = "a driver has been assigned"
	case total == 0:
		s.StatusMessage = "no drivers have responded yet"
	case pending == 0:
		s.StatusMessage = fmt.Sprintf("%d drivers responded, none still pending", total)
	default:
		s.StatusMessage = fmt.Sprintf("%d drivers have responded", total)
	}
	return s, nil
}

// ListFreightBidHistory exposes the audit trail of status changes.
func (e *Engine) ListFreightBidHistory(freightBidID int64) ([]store.FreightBidHistory, error) {
	if _, err := e.db.GetFreightBid(freightBidID); err != nil {
		return nil, wrapStoreErr(err, "freight bid", "")
	}
	return e.db.ListFreightBidHistory(freightBidID)
}
