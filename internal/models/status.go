package models

// OrderStatus is the order's current pipeline stage.
type OrderStatus string

const (
	StatusReceived     OrderStatus = "RECEIVED"
	StatusInPrep       OrderStatus = "IN_PREP"
	StatusReadyForPack OrderStatus = "READY_FOR_PACK"
	StatusPacking      OrderStatus = "PACKING"
	StatusPacked       OrderStatus = "PACKED"
	StatusAssigned     OrderStatus = "ASSIGNED"
	StatusOnTheWay     OrderStatus = "ON_THE_WAY"
	StatusDelivered    OrderStatus = "DELIVERED"
)

// AllStatuses lists every status in pipeline order.
var AllStatuses = []OrderStatus{
	StatusReceived,
	StatusInPrep,
	StatusReadyForPack,
	StatusPacking,
	StatusPacked,
	StatusAssigned,
	StatusOnTheWay,
	StatusDelivered,
}

// StatusFlow is the declared transition table. Every status names at most one
// successor; DELIVERED names none.
var StatusFlow = map[OrderStatus][]OrderStatus{
	StatusReceived:     {StatusInPrep},
	StatusInPrep:       {StatusReadyForPack},
	StatusReadyForPack: {StatusPacking},
	StatusPacking:      {StatusPacked},
	StatusPacked:       {StatusAssigned},
	StatusAssigned:     {StatusOnTheWay},
	StatusOnTheWay:     {StatusDelivered},
	StatusDelivered:    {},
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusReceived, StatusInPrep, StatusReadyForPack, StatusPacking,
		StatusPacked, StatusAssigned, StatusOnTheWay, StatusDelivered:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(StatusFlow[s]) == 0
}

// Next returns the successor of s in the flow table.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next := StatusFlow[s]
	if len(next) == 0 {
		return "", false
	}
	return next[0], true
}

// CanTransition reports whether the flow table allows from -> to.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range StatusFlow[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Priority is the urgency classification of an order, independent of status.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityUrgent Priority = "URGENT"
)

// AllPriorities lists priorities from least to most urgent.
var AllPriorities = []Priority{PriorityLow, PriorityNormal, PriorityUrgent}

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityUrgent:
		return true
	default:
		return false
	}
}
