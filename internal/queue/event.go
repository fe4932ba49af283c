// Package queue carries completed-visit events over RabbitMQ: the
// payload, a publisher used by the service layer and a consumer that
// appends every event to the visit log.
package queue

// ReservationCompletedQueue is the durable queue completed visits are
// published to.
const ReservationCompletedQueue = "reservation.completed"

// ReservationCompletedEvent is published when a reservation moves to
// completed.  It carries enough of the visit for downstream consumers to
// log or analyse it without querying the primary database.
type ReservationCompletedEvent struct {
	ReservationID string   `json:"reservation_id"`
	CustomerName  string   `json:"customer_name"`
	Date          string   `json:"reservation_date"`
	Time          string   `json:"reservation_time"`
	PartySize     int      `json:"party_size"`
	Games         []string `json:"games"`
	OrderCount    int      `json:"order_count"`
	Total         string   `json:"total"`
	CompletedBy   string   `json:"completed_by,omitempty"`
	CompletedAt   string   `json:"completed_at"`
}
