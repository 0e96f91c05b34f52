package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManagement, RoleSales, RoleLogistics, RoleProduction} {
		assert.True(t, role.Valid(), "role %s", role)
	}
	assert.False(t, Role("intern").Valid())
	assert.False(t, Role("").Valid())
}

func TestAdminHasEverything(t *testing.T) {
	for _, domain := range []Domain{DomainOrders, DomainCatalog, DomainStock, DomainDistributors, DomainDashboard} {
		perms := RoleAdmin.Permissions(domain)
		require.True(t, perms.CanCreate)
		require.True(t, perms.CanRead)
		require.True(t, perms.CanUpdate)
		require.True(t, perms.CanDelete)
		require.True(t, perms.CanManage)
	}
}

func TestSalesCapabilities(t *testing.T) {
	orders := RoleSales.Permissions(DomainOrders)
	assert.True(t, orders.CanCreate)
	assert.True(t, orders.CanUpdate)
	assert.False(t, orders.CanDelete)

	assert.False(t, RoleSales.Permissions(DomainCatalog).CanUpdate)
	assert.False(t, RoleSales.Permissions(DomainDashboard).CanRead)
}

func TestLogisticsCannotCreateOrders(t *testing.T) {
	perms := RoleLogistics.Permissions(DomainOrders)
	assert.False(t, perms.CanCreate)
	assert.True(t, perms.CanUpdate)
}

func TestProductionUpdatesStockOnly(t *testing.T) {
	assert.True(t, RoleProduction.Permissions(DomainStock).CanUpdate)
	assert.True(t, RoleProduction.Permissions(DomainCatalog).CanUpdate)
	assert.False(t, RoleProduction.Permissions(DomainOrders).CanUpdate)
}

func TestUnknownRoleHasNoAccess(t *testing.T) {
	perms := Role("ghost").Permissions(DomainOrders)
	assert.Equal(t, PermissionSet{}, perms)
}
