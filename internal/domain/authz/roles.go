package authz

import "time"

// Role rol de un usuario autenticado dentro de su tenant.
type Role string

// Roles del sistema. support es especial: solo lectura y acotado en el tiempo.
const (
	RoleSuperAdmin   Role = "super_admin"
	RolePDG          Role = "pdg"
	RoleDG           Role = "dg"
	RoleManagerStock Role = "manager_stock"
	RoleCaissier     Role = "caissier"
	RoleEcomManager  Role = "ecom_manager"
	RoleEcomOps      Role = "ecom_ops"
	RoleSupport      Role = "support"
)

// Principal usuario ya autenticado (el core nunca emite ni valida credenciales;
// consume lo que resuelve el subsistema de auth). SupportUntil solo aplica al
// rol support: ventana de acceso de solo lectura.
type Principal struct {
	UserID       string
	TenantID     string
	Role         Role
	SupportUntil *time.Time
}

// Scope recurso sobre el que se evalúa la acción. TenantID es obligatorio;
// BoutiqueID es informativo (el aislamiento por boutique se resuelve en datos).
type Scope struct {
	TenantID   string
	BoutiqueID string
}
