package domain

import "time"

// ShipmentStatus enumerates the shipment lifecycle.
type ShipmentStatus string

const (
	StatusPickupPending ShipmentStatus = "recogida_pendiente"
	StatusInTransit     ShipmentStatus = "en_transito"
	StatusDelivered     ShipmentStatus = "entregado"
)

// AcceptedProgress is the progress a shipment starts with when a listing is
// accepted: claimed, not yet moving.
const AcceptedProgress = 5

// Shipment is a listing that has been accepted and is being moved.
type Shipment struct {
	ID          string         `json:"id" bson:"id"`
	Origin      string         `json:"origen" bson:"origen"`
	Destination string         `json:"destino" bson:"destino"`
	Weight      float64        `json:"peso" bson:"peso"`
	Price       float64        `json:"precio" bson:"precio"`
	Status      ShipmentStatus `json:"estado" bson:"estado"`
	Progress    int            `json:"progreso" bson:"progreso"`
	CarrierName string         `json:"transportista" bson:"transportista"`
	OwnerID     string         `json:"user_id" bson:"user_id"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}
