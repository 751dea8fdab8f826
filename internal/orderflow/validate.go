package orderflow

import (
	"fmt"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"
)

// Validate checks the structure of a normalized flow. Failures are returned as one
// validation error whose details.errors maps field paths like "steps[1].name" to a message.
func Validate(flow models.OrderFlow) error {
	errs := map[string]string{}

	if flow.Name == "" {
		errs["name"] = "is required"
	}
	if len(flow.Steps) == 0 {
		errs["steps"] = "must have at least 1 step"
	}
	if flow.IsDefault && flow.IsCustom() {
		errs["isDefault"] = "a shop flow cannot be the default flow"
	}

	statuses := make(map[string]int, len(flow.Steps))
	for i, step := range flow.Steps {
		path := fmt.Sprintf("steps[%d]", i)
		if step.Status == "" {
			errs[path+".status"] = "is required"
		} else if first, dup := statuses[step.Status]; dup {
			errs[path+".status"] = fmt.Sprintf("duplicates steps[%d].status %q", first, step.Status)
		} else {
			statuses[step.Status] = i
		}
		if step.Name == "" {
			errs[path+".name"] = "is required"
		}
		for j, role := range step.AuthorizedRoles {
			if !basemodels.IsValidRole(role) {
				errs[fmt.Sprintf("%s.authorizedRoles[%d]", path, j)] = fmt.Sprintf("unknown role %q", role)
			}
		}
		for j, dest := range step.ForwardingDestinations {
			dpath := fmt.Sprintf("%s.forwardingDestinations[%d]", path, j)
			if !models.IsValidDestinationType(dest.Type) {
				errs[dpath+".type"] = fmt.Sprintf("unknown destination type %q", dest.Type)
			}
			if dest.Identifier == "" {
				errs[dpath+".identifier"] = "is required"
			}
		}
	}

	for i, step := range flow.Steps {
		for j, next := range step.NextStatuses {
			if _, ok := statuses[next]; !ok {
				errs[fmt.Sprintf("steps[%d].nextStatuses[%d]", i, j)] = fmt.Sprintf("status %q is not a step of this flow", next)
			} else if next == step.Status {
				errs[fmt.Sprintf("steps[%d].nextStatuses[%d]", i, j)] = "a step cannot lead to itself"
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return common.NewValidationError("Order flow is invalid", errs)
}
