package domain

import "time"

// Category classifies a listing.
type Category string

const (
	CategoryFullLoad     Category = "completa"
	CategoryPartialLoad  Category = "parcial"
	CategoryUrgent       Category = "urgente"
	CategoryRefrigerated Category = "frigorifico"
)

// Listing is an unclaimed freight job open for acceptance.
type Listing struct {
	ID           string    `json:"id" bson:"id"`
	Origin       string    `json:"origen" bson:"origen"`
	Destination  string    `json:"destino" bson:"destino"`
	Weight       float64   `json:"peso" bson:"peso"`
	Distance     float64   `json:"distancia" bson:"distancia"`
	Price        float64   `json:"precio" bson:"precio"`
	Category     Category  `json:"tipo" bson:"tipo"`
	OriginCoords []float64 `json:"origen_coords" bson:"origen_coords"`
	DestCoords   []float64 `json:"destino_coords" bson:"destino_coords"`
	Description  string    `json:"descripcion" bson:"descripcion"`
	CreatedBy    string    `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
