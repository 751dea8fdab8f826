package orderflow

import (
	"errors"
	"testing"

	"delivery_marketplace/config"
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func step(status string, roles []string, next ...string) models.OrderFlowStep {
	return models.OrderFlowStep{
		Status:          status,
		Name:            status,
		AuthorizedRoles: roles,
		NextStatuses:    next,
		IsActive:        true,
		ForwardingDestinations: []models.ForwardingDestination{
			{Type: models.DestinationTelegramGroup, Identifier: "-100" + status, IsActive: true},
		},
	}
}

func sampleFlow() models.OrderFlow {
	owner := []string{basemodels.RoleAdmin, basemodels.RoleShopOwner}
	courier := []string{basemodels.RoleAdmin, basemodels.RoleCourier}
	flow := models.OrderFlow{
		Name: "sample",
		Steps: []models.OrderFlowStep{
			step("created", owner, "confirmed", "rejected"),
			step("confirmed", owner, "courier_picked", "rejected"),
			step("courier_picked", courier, "delivered"),
			step("delivered", courier),
			step("rejected", owner),
		},
		IsActive: true,
	}
	Normalize(&flow)
	return flow
}

func TestValidate_ZeroStepsRejected(t *testing.T) {
	flow := models.OrderFlow{Name: "empty"}
	Normalize(&flow)

	err := Validate(flow)
	require.Error(t, err)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	fields := appErr.Details.(map[string]interface{})["errors"].(map[string]string)
	assert.Contains(t, fields, "steps")
}

func TestValidate_FieldPaths(t *testing.T) {
	flow := sampleFlow()
	flow.Steps[1].Name = ""
	flow.Steps[2].Status = "created"
	flow.Steps[3].AuthorizedRoles = []string{"janitor"}
	flow.Steps[0].NextStatuses = append(flow.Steps[0].NextStatuses, "lost")
	flow.Steps[4].ForwardingDestinations[0].Type = "email"
	flow.Steps[4].ForwardingDestinations[0].Identifier = ""

	err := Validate(flow)
	require.Error(t, err)
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	fields := appErr.Details.(map[string]interface{})["errors"].(map[string]string)

	assert.Equal(t, "is required", fields["steps[1].name"])
	assert.Contains(t, fields["steps[2].status"], "duplicates steps[0].status")
	assert.Contains(t, fields, "steps[3].authorizedRoles[0]")
	assert.Contains(t, fields, "steps[0].nextStatuses[2]")
	assert.Contains(t, fields, "steps[4].forwardingDestinations[0].type")
	assert.Contains(t, fields, "steps[4].forwardingDestinations[0].identifier")
}

func TestValidate_ShopFlowCannotBeDefault(t *testing.T) {
	flow := sampleFlow()
	shopID := primitive.NewObjectID()
	flow.ShopID = &shopID
	flow.IsDefault = true

	assert.Error(t, Validate(flow))
}

func TestNormalize_RenumbersOrderToPosition(t *testing.T) {
	flow := sampleFlow()
	flow.Steps[0].Order = 40
	flow.Steps[1].Order = 7
	flow.Steps[4].Order = -2
	flow.Steps[0].AuthorizedRoles = []string{" admin", "admin", ""}

	Normalize(&flow)
	for i, s := range flow.Steps {
		assert.Equal(t, i, s.Order)
	}
	assert.Equal(t, []string{"admin"}, flow.Steps[0].AuthorizedRoles)
}

func TestNextStatuses_SkipsInactiveTargets(t *testing.T) {
	flow := sampleFlow()
	assert.Equal(t, []string{"confirmed", "rejected"}, NextStatuses(flow, "created"))

	flow.Steps[4].IsActive = false
	assert.Equal(t, []string{"confirmed"}, NextStatuses(flow, "created"))
	assert.Empty(t, NextStatuses(flow, "unknown"))
}

func TestCanChangeStatus(t *testing.T) {
	flow := sampleFlow()

	assert.NoError(t, CanChangeStatus(flow, "created", "confirmed", basemodels.RoleShopOwner))

	// outside nextStatuses
	err := CanChangeStatus(flow, "created", "delivered", basemodels.RoleAdmin)
	assert.True(t, errors.Is(err, common.ErrTransitionInvalid))

	// role outside authorizedRoles of the target step
	err = CanChangeStatus(flow, "confirmed", "courier_picked", basemodels.RoleClient)
	assert.True(t, errors.Is(err, common.ErrTransitionDenied))
	var appErr *common.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, common.StatusForbidden, appErr.StatusCode)

	// same status
	assert.Error(t, CanChangeStatus(flow, "created", "created", basemodels.RoleAdmin))
}

func TestActiveDestinations(t *testing.T) {
	flow := sampleFlow()
	flow.Steps[0].ForwardingDestinations = append(flow.Steps[0].ForwardingDestinations,
		models.ForwardingDestination{Type: models.DestinationTelegramUser, Identifier: "42", IsActive: false})

	dests := ActiveDestinations(flow, "created")
	require.Len(t, dests, 1)
	assert.Equal(t, "-100created", dests[0].Identifier)
	assert.Empty(t, ActiveDestinations(flow, "missing"))
}

func TestReplaceDestinationAt_IsIndexStable(t *testing.T) {
	flow := sampleFlow()
	flow.Steps[1].ForwardingDestinations = []models.ForwardingDestination{
		{Type: models.DestinationTelegramGroup, Identifier: "-1001", IsActive: true},
		{Type: models.DestinationTelegramUser, Identifier: "555", IsActive: true},
	}

	out, err := ReplaceDestinationAt(flow, 1, 1, models.ForwardingDestination{
		Type: models.DestinationTelegramChannel, Identifier: "@news", IsActive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "-1001", out.Steps[1].ForwardingDestinations[0].Identifier)
	assert.Equal(t, "@news", out.Steps[1].ForwardingDestinations[1].Identifier)
	// original untouched
	assert.Equal(t, "555", flow.Steps[1].ForwardingDestinations[1].Identifier)

	_, err = ReplaceDestinationAt(flow, 1, 2, models.ForwardingDestination{})
	assert.Error(t, err)
	_, err = ReplaceDestinationAt(flow, 9, 0, models.ForwardingDestination{})
	assert.Error(t, err)
}

func TestReplaceStepAt(t *testing.T) {
	flow := sampleFlow()
	replacement := step("confirmed", []string{basemodels.RoleAdmin}, "rejected")
	replacement.Name = "Accepted"

	out, err := ReplaceStepAt(flow, 1, replacement)
	require.NoError(t, err)
	assert.Equal(t, "Accepted", out.Steps[1].Name)
	assert.Equal(t, flow.Steps[0], out.Steps[0])
	assert.Equal(t, "confirmed", flow.Steps[1].Name)

	_, err = ReplaceStepAt(flow, -1, replacement)
	assert.Error(t, err)
}

func TestClone_SharesNothing(t *testing.T) {
	flow := sampleFlow()
	shopID := primitive.NewObjectID()
	flow.ShopID = &shopID

	clone := Clone(flow)
	clone.Steps[0].AuthorizedRoles[0] = "changed"
	clone.Steps[0].ForwardingDestinations[0].Identifier = "changed"
	*clone.ShopID = primitive.NewObjectID()

	assert.Equal(t, basemodels.RoleAdmin, flow.Steps[0].AuthorizedRoles[0])
	assert.Equal(t, "-100created", flow.Steps[0].ForwardingDestinations[0].Identifier)
	assert.Equal(t, shopID, *flow.ShopID)
}

func TestInitialStatus(t *testing.T) {
	flow := sampleFlow()
	status, ok := InitialStatus(flow)
	require.True(t, ok)
	assert.Equal(t, "created", status)

	flow.Steps[0].IsActive = false
	status, _ = InitialStatus(flow)
	assert.Equal(t, "confirmed", status)
}

func TestLoadSeed_DefaultFlow(t *testing.T) {
	flow, err := LoadSeed(config.DefaultOrderFlowYAML)
	require.NoError(t, err)

	assert.True(t, flow.IsDefault)
	assert.Nil(t, flow.ShopID)
	require.Len(t, flow.Steps, 8)
	for i, s := range flow.Steps {
		assert.Equal(t, i, s.Order)
	}
	assert.NoError(t, CanChangeStatus(flow, "created", "confirmed", basemodels.RoleShopOwner))
	assert.NoError(t, CanChangeStatus(flow, "packed", "courier_picked", basemodels.RoleCourier))
	assert.Error(t, CanChangeStatus(flow, "created", "paid", basemodels.RoleAdmin))
}

func TestLoadSeed_RejectsInvalid(t *testing.T) {
	_, err := LoadSeed([]byte("name: broken\nsteps: []\n"))
	assert.Error(t, err)

	_, err = LoadSeed([]byte("steps: [\n"))
	assert.Error(t, err)
}
