package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoanChanged       EventType = "loan_changed"
	EventPaymentChanged    EventType = "payment_changed"
	EventReputationChanged EventType = "reputation_changed"
)

// EntityKind names the mutated record type.
type EntityKind string

const (
	EntityLoan       EntityKind = "Loan"
	EntityPayment    EntityKind = "Payment"
	EntityReputation EntityKind = "Reputation"
)

// ActionKind names the mutation applied to the record.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
)

// MutationArgs carries the write payload and the filter clause of a
// committed mutation, keyed by field name.
type MutationArgs struct {
	Data  map[string]any `json:"data,omitempty"`
	Where map[string]any `json:"where,omitempty"`
}

// UserID resolves the affected user, inspecting the write payload first
// and the filter clause second. The second return is false when neither
// carries a usable user id (e.g. a payment keyed only to its loan).
func (a MutationArgs) UserID() (string, bool) {
	if id, ok := stringField(a.Data, "userId"); ok {
		return id, true
	}
	return stringField(a.Where, "userId")
}

func stringField(fields map[string]any, key string) (string, bool) {
	val, ok := fields[key]
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

// Event represents a committed mutation observed by subscribers.
type Event struct {
	Type      EventType    `json:"type"`
	Entity    EntityKind   `json:"entity"`
	Action    ActionKind   `json:"action"`
	Args      MutationArgs `json:"args"`
	Timestamp time.Time    `json:"timestamp"`
}

// EntityChanged builds the event for a committed create/update mutation.
func EntityChanged(entity EntityKind, action ActionKind, args MutationArgs) Event {
	return Event{
		Type:      eventTypeFor(entity),
		Entity:    entity,
		Action:    action,
		Args:      args,
		Timestamp: time.Now(),
	}
}

func eventTypeFor(entity EntityKind) EventType {
	switch entity {
	case EntityLoan:
		return EventLoanChanged
	case EntityPayment:
		return EventPaymentChanged
	default:
		return EventReputationChanged
	}
}
