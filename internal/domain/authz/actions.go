package authz

// Action identificador de una operación protegida.
type Action string

// Catálogo de acciones. Toda acción nueva debe entrar aquí y en la tabla de
// permisos; una acción ausente de la tabla se niega para todos los roles.
const (
	ActionInventoryRead   Action = "inventory.read"
	ActionInventoryWrite  Action = "inventory.write"
	ActionInventoryCommit Action = "inventory.commit"
	ActionLedgerRead      Action = "ledger.read"
	ActionStockAdjust     Action = "stock.adjust"
	ActionRestockCreate   Action = "restock.create"
	ActionRestockApprove  Action = "restock.approve"
	ActionRestockFulfill  Action = "restock.fulfill"
	ActionTransferCreate  Action = "transfer.create"
	ActionTransferSend    Action = "transfer.send"
	ActionTransferReceive Action = "transfer.receive"
	ActionTransferCancel  Action = "transfer.cancel"
	ActionEcomProductWrite  Action = "ecommerce.product.write"
	ActionOrdersStatusChange Action = "orders.status_change"
	ActionBoutiqueRead    Action = "boutique.read"
	ActionBoutiqueWrite   Action = "boutique.write"
	ActionProductRead     Action = "product.read"
	ActionProductWrite    Action = "product.write"
	ActionSalesRead       Action = "sales.read"
)

// readActions acciones de solo lectura: las únicas alcanzables por support
// (dentro de su ventana).
var readActions = map[Action]bool{
	ActionInventoryRead: true,
	ActionLedgerRead:    true,
	ActionBoutiqueRead:  true,
	ActionProductRead:   true,
	ActionSalesRead:     true,
}

// IsRead indica si la acción es de solo lectura.
func IsRead(a Action) bool { return readActions[a] }
