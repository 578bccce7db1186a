package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	"hireflow/pkg/requestcontext"
)

func TestCanAccess(t *testing.T) {
	owner := id.TenantID(uuid.New())
	other := id.TenantID(uuid.New())

	t.Run("member sees own tenant only", func(t *testing.T) {
		actor := requestcontext.ActingIdentity{
			UserID:   id.UserID(uuid.New()),
			TenantID: owner,
			Role:     requestcontext.RoleMember,
		}
		assert.True(t, CanAccess(actor, owner))
		assert.False(t, CanAccess(actor, other))
	})

	t.Run("member without tenant sees nothing", func(t *testing.T) {
		actor := requestcontext.ActingIdentity{Role: requestcontext.RoleMember}
		assert.False(t, CanAccess(actor, owner))
	})

	t.Run("privileged roles cross tenant boundaries", func(t *testing.T) {
		for _, role := range []requestcontext.Role{requestcontext.RolePlatformAdmin, requestcontext.RoleSupport} {
			actor := requestcontext.ActingIdentity{Role: role}
			assert.True(t, CanAccess(actor, owner), "role %s", role)
			assert.True(t, CanAccess(actor, other), "role %s", role)
		}
	})
}

func TestAuthorize_DeniesAsNotFound(t *testing.T) {
	actor := requestcontext.ActingIdentity{
		TenantID: id.TenantID(uuid.New()),
		Role:     requestcontext.RoleMember,
	}
	err := Authorize(actor, id.TenantID(uuid.New()))
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound),
		"cross-tenant access must be indistinguishable from a missing record")
}
