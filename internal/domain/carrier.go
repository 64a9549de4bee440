package domain

// Availability of a carrier.
type Availability string

const (
	AvailabilityAvailable   Availability = "disponible"
	AvailabilityEnRoute     Availability = "en_ruta"
	AvailabilityUnavailable Availability = "no_disponible"
)

// Carrier is a driver or fleet able to fulfil shipments.
type Carrier struct {
	ID                 string       `json:"id" bson:"id"`
	Name               string       `json:"nombre" bson:"nombre"`
	Email              string       `json:"email" bson:"email"`
	Vehicle            string       `json:"vehiculo" bson:"vehiculo"`
	Capacity           float64      `json:"capacidad" bson:"capacidad"`
	Rating             float64      `json:"rating" bson:"rating"`
	CompletedShipments int          `json:"envios_completados" bson:"envios_completados"`
	Availability       Availability `json:"estado" bson:"estado"`
}
