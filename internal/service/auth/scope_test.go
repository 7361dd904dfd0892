package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
	"github.com/mukwano/agrotrack/internal/service/auth"
)

func branchPtr(b models.Branch) *models.Branch { return &b }

func TestRequireRole(t *testing.T) {
	manager := models.Caller{Role: models.RoleManager}

	assert.NoError(t, auth.RequireRole(manager, models.RoleManager))
	assert.NoError(t, auth.RequireRole(manager, models.RoleDirector, models.RoleManager))
	assert.ErrorIs(t, auth.RequireRole(manager, models.RoleDirector), errs.ErrUnauthorized)
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name      string
		caller    models.Caller
		requested string
		want      models.Branch
		wantErr   error
	}{
		{
			name:      "branch-bound caller uses own branch",
			caller:    models.Caller{Role: models.RoleSalesAgent, Branch: branchPtr(models.BranchMaganjo)},
			requested: "",
			want:      models.BranchMaganjo,
		},
		{
			name:      "branch-bound caller ignores requested branch",
			caller:    models.Caller{Role: models.RoleManager, Branch: branchPtr(models.BranchMaganjo)},
			requested: "Matugga",
			want:      models.BranchMaganjo,
		},
		{
			name:    "branch-bound caller without assignment fails",
			caller:  models.Caller{Role: models.RoleManager},
			wantErr: errs.ErrInvalidInput,
		},
		{
			name:      "director must name a branch",
			caller:    models.Caller{Role: models.RoleDirector},
			requested: "",
			wantErr:   errs.ErrInvalidInput,
		},
		{
			name:      "director with explicit branch",
			caller:    models.Caller{Role: models.RoleDirector},
			requested: "Matugga",
			want:      models.BranchMatugga,
		},
		{
			name:      "director with unknown branch fails",
			caller:    models.Caller{Role: models.RoleDirector},
			requested: "Gulu",
			wantErr:   errs.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			branch, err := auth.ResolveScope(tt.caller, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, branch)
		})
	}
}

func TestOptionalScope(t *testing.T) {
	// Directors default to no filter and may narrow to one branch.
	scope, err := auth.OptionalScope(models.Caller{Role: models.RoleDirector}, "")
	require.NoError(t, err)
	assert.Nil(t, scope)

	scope, err = auth.OptionalScope(models.Caller{Role: models.RoleDirector}, "Maganjo")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, models.BranchMaganjo, *scope)

	// Branch-bound callers are always pinned.
	scope, err = auth.OptionalScope(models.Caller{Role: models.RoleSalesAgent, Branch: branchPtr(models.BranchMatugga)}, "Maganjo")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, models.BranchMatugga, *scope)

	_, err = auth.OptionalScope(models.Caller{Role: models.RoleManager}, "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
