// Package rbac maps the fixed staff roles onto per-domain capability sets.
// Every mutating route is guarded server-side; there is no per-user grant
// storage, the role recorded at login decides everything.
package rbac

// Role is one of the fixed staff roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManagement Role = "management"
	RoleSales      Role = "sales"
	RoleLogistics  Role = "logistics"
	RoleProduction Role = "production"
)

// Domain names a guarded resource area.
type Domain string

const (
	DomainOrders       Domain = "orders"
	DomainCatalog      Domain = "catalog"
	DomainStock        Domain = "stock"
	DomainDistributors Domain = "distributors"
	DomainDashboard    Domain = "dashboard"
)

// PermissionSet describes what a role may do within a domain.
type PermissionSet struct {
	CanCreate bool
	CanRead   bool
	CanUpdate bool
	CanDelete bool
	CanManage bool
}

var allPermissions = PermissionSet{
	CanCreate: true,
	CanRead:   true,
	CanUpdate: true,
	CanDelete: true,
	CanManage: true,
}

var readOnly = PermissionSet{CanRead: true}

// grants holds the capability table. Missing entries mean no access.
var grants = map[Role]map[Domain]PermissionSet{
	RoleAdmin: {
		DomainOrders:       allPermissions,
		DomainCatalog:      allPermissions,
		DomainStock:        allPermissions,
		DomainDistributors: allPermissions,
		DomainDashboard:    allPermissions,
	},
	RoleManagement: {
		DomainOrders:       readOnly,
		DomainCatalog:      readOnly,
		DomainStock:        readOnly,
		DomainDistributors: readOnly,
		DomainDashboard:    {CanRead: true, CanManage: true},
	},
	RoleSales: {
		DomainOrders:       {CanCreate: true, CanRead: true, CanUpdate: true},
		DomainCatalog:      readOnly,
		DomainStock:        readOnly,
		DomainDistributors: {CanCreate: true, CanRead: true, CanUpdate: true},
	},
	RoleLogistics: {
		DomainOrders:       {CanRead: true, CanUpdate: true},
		DomainCatalog:      readOnly,
		DomainStock:        readOnly,
		DomainDistributors: readOnly,
	},
	RoleProduction: {
		DomainOrders:  readOnly,
		DomainCatalog: {CanRead: true, CanUpdate: true},
		DomainStock:   {CanRead: true, CanUpdate: true},
	},
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := grants[r]
	return ok
}

// Permissions resolves the capability set for a role within a domain.
func (r Role) Permissions(domain Domain) PermissionSet {
	if byDomain, ok := grants[r]; ok {
		return byDomain[domain]
	}
	return PermissionSet{}
}

// Check is a predicate over a capability set.
type Check func(PermissionSet) bool

// Predicates used by route guards.
var (
	Create = func(p PermissionSet) bool { return p.CanCreate }
	Read   = func(p PermissionSet) bool { return p.CanRead }
	Update = func(p PermissionSet) bool { return p.CanUpdate }
	Delete = func(p PermissionSet) bool { return p.CanDelete }
	Manage = func(p PermissionSet) bool { return p.CanManage }
)
