package entity

import "time"

// Estados del ciclo de vida de un traslado entre boutiques.
// created -> in_transit -> received, con cancelled como salida terminal
// desde created o in_transit.
const (
	TransferStatusCreated   = "created"
	TransferStatusInTransit = "in_transit"
	TransferStatusReceived  = "received"
	TransferStatusCancelled = "cancelled"
)

// TransferItem línea de un traslado. Quantity > 0 siempre.
type TransferItem struct {
	ProductID string
	Quantity  int64
}

// Transfer representa un traslado físico de stock entre dos boutiques del
// mismo tenant (origen y destino pueden coincidir: movimiento de reconteo).
// El ciclo de vida lo gobierna exclusivamente el workflow de traslados.
// Token es un secreto de un solo uso, único por tenant, que permite recibir
// el traslado sin conocer su ID; muere con los estados terminales.
type Transfer struct {
	ID               string
	TenantID         string
	SourceBoutiqueID string
	DestBoutiqueID   string
	Items            []TransferItem
	Reference        string
	Token            string
	Status           string
	CreatedAt        time.Time
	CreatedBy        string
	SentAt           *time.Time
	ReceivedAt       *time.Time
	CancelledAt      *time.Time
}
