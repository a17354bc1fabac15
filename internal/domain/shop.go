package domain

// ShopPhase is the crew-controlled shop phase as delivered on the wire.
type ShopPhase string

const (
	ShopPhaseOpen   ShopPhase = "open"
	ShopPhaseOrder  ShopPhase = "order"
	ShopPhaseClosed ShopPhase = "closed"
)

// Shop is the shop snapshot delivered by the catalog feed.
type Shop struct {
	Status  ShopPhase
	ShiftID string
}

// ShopStatus is the availability state exposed to callers. It extends the
// wire phases with Unavailable, used before any shop data has arrived or
// when the feed delivers an unrecognized phase.
type ShopStatus string

const (
	// ShopStatusBrowse allows browsing the menu without ordering.
	ShopStatusBrowse ShopStatus = "browse"
	// ShopStatusOrder allows placing orders.
	ShopStatusOrder ShopStatus = "order"
	// ShopStatusClosed means the shop is closed for this shift.
	ShopStatusClosed ShopStatus = "closed"
	// ShopStatusUnavailable means no shop data has been received yet.
	ShopStatusUnavailable ShopStatus = "unavailable"
)
