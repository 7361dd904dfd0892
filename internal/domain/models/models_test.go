package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mukwano/agrotrack/internal/domain/models"
)

func TestProduceKey(t *testing.T) {
	assert.Equal(t, "maize", models.ProduceKey("Maize"))
	assert.Equal(t, "maize", models.ProduceKey("  MAIZE  "))
	assert.Equal(t, "sweet potatoes", models.ProduceKey("Sweet Potatoes"))
}

func TestParseBranch(t *testing.T) {
	branch, ok := models.ParseBranch("maganjo")
	assert.True(t, ok)
	assert.Equal(t, models.BranchMaganjo, branch)

	branch, ok = models.ParseBranch(" Matugga ")
	assert.True(t, ok)
	assert.Equal(t, models.BranchMatugga, branch)

	_, ok = models.ParseBranch("Gulu")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	role, ok := models.ParseRole("sales agent")
	assert.True(t, ok)
	assert.Equal(t, models.RoleSalesAgent, role)

	_, ok = models.ParseRole("Accountant")
	assert.False(t, ok)
}

func TestParseCreditStatus(t *testing.T) {
	status, ok := models.ParseCreditStatus("")
	assert.True(t, ok)
	assert.Equal(t, models.CreditPending, status)

	status, ok = models.ParseCreditStatus("Partially Paid")
	assert.True(t, ok)
	assert.Equal(t, models.CreditPartiallyPaid, status)

	_, ok = models.ParseCreditStatus("overdue")
	assert.False(t, ok)
}
