package authz

import (
	"time"

	"github.com/gestock-saas/gestock-api/internal/domain"
)

// Tabla global de permisos rol × acción. Deny-by-default: un rol ausente del
// set de una acción queda negado, nunca hay allow implícito. super_admin, pdg
// y dg se listan explícitamente en cada acción en lugar de un bypass general,
// para que la tabla sea auditable línea por línea.
//
// support no aparece en ninguna fila: su acceso (solo lectura, acotado por
// SupportUntil) se resuelve en Check antes de consultar la tabla.
var table = map[Action][]Role{
	ActionInventoryRead:   {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock, RoleCaissier, RoleEcomManager, RoleEcomOps},
	ActionInventoryWrite:  {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionInventoryCommit: {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionLedgerRead:      {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock, RoleEcomManager},
	ActionStockAdjust:     {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionRestockCreate:   {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionRestockApprove:  {RoleSuperAdmin, RolePDG, RoleDG},
	ActionRestockFulfill:  {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionTransferCreate:  {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionTransferSend:    {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionTransferReceive: {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionTransferCancel:  {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock},
	ActionEcomProductWrite:   {RoleSuperAdmin, RolePDG, RoleDG, RoleEcomManager},
	ActionOrdersStatusChange: {RoleSuperAdmin, RolePDG, RoleDG, RoleEcomManager, RoleEcomOps},
	ActionBoutiqueRead:  {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock, RoleCaissier, RoleEcomManager, RoleEcomOps},
	ActionBoutiqueWrite: {RoleSuperAdmin, RolePDG, RoleDG},
	ActionProductRead:   {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock, RoleCaissier, RoleEcomManager, RoleEcomOps},
	ActionProductWrite:  {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock, RoleEcomManager},
	ActionSalesRead:     {RoleSuperAdmin, RolePDG, RoleDG, RoleManagerStock, RoleCaissier, RoleEcomManager, RoleEcomOps},
}

// Check evalúa si el principal puede ejecutar la acción sobre el scope.
// Función pura: sin red ni base de datos. Retorna domain.ErrUnauthorized en
// cualquier negación; los casos de uso deben invocarla antes de tocar estado.
func Check(p Principal, action Action, scope Scope, now time.Time) error {
	// Aislamiento de tenant: un principal nunca opera fuera del suyo.
	if p.TenantID == "" || scope.TenantID == "" || p.TenantID != scope.TenantID {
		return domain.ErrUnauthorized
	}

	if p.Role == RoleSupport {
		// support: lecturas dentro de la ventana; escrituras jamás.
		if !IsRead(action) {
			return domain.ErrUnauthorized
		}
		if p.SupportUntil == nil || now.After(*p.SupportUntil) {
			return domain.ErrUnauthorized
		}
		return nil
	}

	for _, r := range table[action] {
		if r == p.Role {
			return nil
		}
	}
	return domain.ErrUnauthorized
}
