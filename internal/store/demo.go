package store

import "carga-platform/internal/domain"

var (
	madrid     = []float64{-3.7038, 40.4168}
	barcelona  = []float64{2.1734, 41.3851}
	valencia   = []float64{-0.3763, 39.4699}
	sevilla    = []float64{-5.9845, 37.3891}
	bilbao     = []float64{-2.9253, 43.2630}
	zaragoza   = []float64{-0.8773, 41.6488}
	malaga     = []float64{-4.4214, 36.7213}
	coruna     = []float64{-8.3959, 43.3623}
	murcia     = []float64{-1.1307, 37.9922}
	valladolid = []float64{-4.7245, 41.6523}
)

// DemoListings are the listings seeded into an empty store.
func DemoListings() []domain.Listing {
	return []domain.Listing{
		{ID: "c1", Origin: "Madrid", Destination: "Barcelona", Weight: 18, Distance: 621, Price: 1250, Category: domain.CategoryFullLoad, OriginCoords: madrid, DestCoords: barcelona, Description: "Carga paletizada - 33 palets europeos"},
		{ID: "c2", Origin: "Valencia", Destination: "Sevilla", Weight: 12, Distance: 654, Price: 980, Category: domain.CategoryPartialLoad, OriginCoords: valencia, DestCoords: sevilla, Description: "Mercancía textil en cajas"},
		{ID: "c3", Origin: "Bilbao", Destination: "Madrid", Weight: 24, Distance: 395, Price: 890, Category: domain.CategoryUrgent, OriginCoords: bilbao, DestCoords: madrid, Description: "Piezas industriales - Entrega antes de 24h"},
		{ID: "c4", Origin: "Zaragoza", Destination: "Valencia", Weight: 8, Distance: 302, Price: 620, Category: domain.CategoryRefrigerated, OriginCoords: zaragoza, DestCoords: valencia, Description: "Productos refrigerados a 4°C"},
		{ID: "c5", Origin: "Barcelona", Destination: "Málaga", Weight: 20, Distance: 997, Price: 1850, Category: domain.CategoryFullLoad, OriginCoords: barcelona, DestCoords: malaga, Description: "Mobiliario de oficina"},
		{ID: "c6", Origin: "Sevilla", Destination: "Bilbao", Weight: 15, Distance: 933, Price: 1600, Category: domain.CategoryUrgent, OriginCoords: sevilla, DestCoords: bilbao, Description: "Material sanitario urgente"},
		{ID: "c7", Origin: "Madrid", Destination: "Valencia", Weight: 6, Distance: 352, Price: 480, Category: domain.CategoryPartialLoad, OriginCoords: madrid, DestCoords: valencia, Description: "Electrónica de consumo"},
		{ID: "c8", Origin: "A Coruña", Destination: "Madrid", Weight: 22, Distance: 603, Price: 1100, Category: domain.CategoryFullLoad, OriginCoords: coruna, DestCoords: madrid, Description: "Conservas y alimentación seca"},
		{ID: "c9", Origin: "Murcia", Destination: "Barcelona", Weight: 10, Distance: 580, Price: 750, Category: domain.CategoryRefrigerated, OriginCoords: murcia, DestCoords: barcelona, Description: "Frutas y verduras frescas"},
		{ID: "c10", Origin: "Valladolid", Destination: "Sevilla", Weight: 16, Distance: 534, Price: 920, Category: domain.CategoryFullLoad, OriginCoords: valladolid, DestCoords: sevilla, Description: "Materiales de construcción"},
	}
}

// DemoShipments are the shipments seeded into an empty store.
func DemoShipments() []domain.Shipment {
	return []domain.Shipment{
		{ID: "e1", Origin: "Madrid", Destination: "Barcelona", Weight: 18, Price: 1250, Status: domain.StatusInTransit, Progress: 65, CarrierName: "Miguel Fernández"},
		{ID: "e2", Origin: "Valencia", Destination: "Bilbao", Weight: 14, Price: 1100, Status: domain.StatusInTransit, Progress: 30, CarrierName: "Ana García"},
		{ID: "e3", Origin: "Sevilla", Destination: "Madrid", Weight: 20, Price: 980, Status: domain.StatusPickupPending, Progress: 10, CarrierName: "Pedro Ruiz"},
		{ID: "e4", Origin: "Barcelona", Destination: "Valencia", Weight: 8, Price: 520, Status: domain.StatusInTransit, Progress: 85, CarrierName: "Laura Martín"},
		{ID: "e5", Origin: "Zaragoza", Destination: "Madrid", Weight: 12, Price: 680, Status: domain.StatusDelivered, Progress: 100, CarrierName: "Carlos Torres"},
		{ID: "e6", Origin: "Málaga", Destination: "Barcelona", Weight: 25, Price: 1800, Status: domain.StatusDelivered, Progress: 100, CarrierName: "Roberto Sánchez"},
		{ID: "e7", Origin: "Bilbao", Destination: "Sevilla", Weight: 16, Price: 1450, Status: domain.StatusInTransit, Progress: 45, CarrierName: "María López"},
	}
}

// DemoCarriers are the carriers seeded into an empty store.
func DemoCarriers() []domain.Carrier {
	return []domain.Carrier{
		{ID: "t1", Name: "Miguel Fernández", Email: "miguel@transporte.es", Vehicle: "Tráiler 40t", Capacity: 24, Rating: 4.8, CompletedShipments: 234, Availability: domain.AvailabilityEnRoute},
		{ID: "t2", Name: "Ana García", Email: "ana@logistica.com", Vehicle: "Camión rígido 12t", Capacity: 12, Rating: 4.9, CompletedShipments: 187, Availability: domain.AvailabilityEnRoute},
		{ID: "t3", Name: "Pedro Ruiz", Email: "pedro@envios.es", Vehicle: "Frigorífico 18t", Capacity: 18, Rating: 4.7, CompletedShipments: 312, Availability: domain.AvailabilityAvailable},
		{ID: "t4", Name: "Laura Martín", Email: "laura@carga.com", Vehicle: "Furgoneta 3.5t", Capacity: 3, Rating: 4.6, CompletedShipments: 98, Availability: domain.AvailabilityAvailable},
		{ID: "t5", Name: "Carlos Torres", Email: "carlos@rutas.es", Vehicle: "Tráiler 40t", Capacity: 24, Rating: 4.5, CompletedShipments: 456, Availability: domain.AvailabilityUnavailable},
		{ID: "t6", Name: "Roberto Sánchez", Email: "roberto@trans.com", Vehicle: "Camión lona 18t", Capacity: 18, Rating: 4.8, CompletedShipments: 278, Availability: domain.AvailabilityAvailable},
		{ID: "t7", Name: "María López", Email: "maria@express.es", Vehicle: "Tráiler 40t", Capacity: 24, Rating: 4.9, CompletedShipments: 521, Availability: domain.AvailabilityEnRoute},
		{ID: "t8", Name: "Javier Díaz", Email: "javier@diaz.com", Vehicle: "Camión rígido 12t", Capacity: 12, Rating: 4.4, CompletedShipments: 143, Availability: domain.AvailabilityAvailable},
	}
}
