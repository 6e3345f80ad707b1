package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/inventory"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/application/restock"
	"github.com/gestock-saas/gestock-api/internal/application/transfer"
	"github.com/gestock-saas/gestock-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC     *ledger.UseCase
	TransferUC  *transfer.UseCase
	RestockUC   *restock.UseCase
	InventoryUC *inventory.UseCase
	BoutiqueUC  *usecase.BoutiqueUseCase
	ProductUC   *usecase.ProductUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo cuelga de /api detrás del
// middleware de autenticación; el tenant sale siempre del token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Boutiques (protegido)
	boutiques := protected.Group("/boutiques")
	boutiqueHandler := NewBoutiqueHandler(deps.BoutiqueUC)
	boutiques.Post("/", boutiqueHandler.Create)
	boutiques.Get("/", boutiqueHandler.List)
	boutiques.Get("/:id", boutiqueHandler.GetByID)
	boutiques.Put("/:id", boutiqueHandler.Update)
	boutiques.Delete("/:id", boutiqueHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock ledger (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/deltas", stockHandler.ApplyDelta)
	stock.Get("/audit", stockHandler.Audit)
	stock.Get("/summary/:boutiqueID", stockHandler.Summary)
	stock.Get("/rebuild", stockHandler.Rebuild)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/receive-by-token", transferHandler.ReceiveByToken)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/send", transferHandler.Send)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Restocks (protegido)
	restocks := protected.Group("/restocks")
	restockHandler := NewRestockHandler(deps.RestockUC)
	restocks.Post("/", restockHandler.Create)
	restocks.Get("/", restockHandler.ListByBoutique)
	restocks.Get("/:id", restockHandler.GetByID)
	restocks.Post("/:id/approve", restockHandler.Approve)
	restocks.Post("/:id/reject", restockHandler.Reject)
	restocks.Post("/:id/fulfill", restockHandler.Fulfill)

	// Inventory sessions (protegido)
	sessions := protected.Group("/inventory/sessions")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	sessions.Post("/", inventoryHandler.Compute)
	sessions.Get("/", inventoryHandler.ListByBoutique)
	sessions.Get("/:id", inventoryHandler.GetByID)
	sessions.Post("/:id/commit", inventoryHandler.Commit)
}
