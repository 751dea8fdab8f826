// Package orderflow is the order-flow state machine: step lookup, transition checks,
// forwarding destinations and the index-stable edits the flow editor performs.
// Everything here is pure; persistence lives in the orderflow service.
package orderflow

import (
	"sort"
	"strings"

	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/utility"
)

// Normalize trims names, drops duplicate roles and next statuses, replaces nil slices
// and renumbers every step's Order to its array position.
func Normalize(flow *models.OrderFlow) {
	flow.Name = strings.TrimSpace(flow.Name)
	if flow.Steps == nil {
		flow.Steps = []models.OrderFlowStep{}
	}
	for i := range flow.Steps {
		step := &flow.Steps[i]
		step.Status = strings.TrimSpace(step.Status)
		step.Name = strings.TrimSpace(step.Name)
		step.AuthorizedRoles = utility.Unique(trimAll(step.AuthorizedRoles))
		step.NextStatuses = utility.Unique(trimAll(step.NextStatuses))
		if step.ForwardingDestinations == nil {
			step.ForwardingDestinations = []models.ForwardingDestination{}
		}
		for j := range step.ForwardingDestinations {
			d := &step.ForwardingDestinations[j]
			d.Identifier = strings.TrimSpace(d.Identifier)
		}
		step.Order = i
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SortedSteps returns the steps ordered by Order, keeping array order for ties.
func SortedSteps(flow models.OrderFlow) []models.OrderFlowStep {
	steps := make([]models.OrderFlowStep, len(flow.Steps))
	copy(steps, flow.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	return steps
}

// StepByStatus finds the step for status.
func StepByStatus(flow models.OrderFlow, status string) (models.OrderFlowStep, bool) {
	for _, step := range flow.Steps {
		if step.Status == status {
			return step, true
		}
	}
	return models.OrderFlowStep{}, false
}

// InitialStatus is the status of the first active step.
func InitialStatus(flow models.OrderFlow) (string, bool) {
	for _, step := range SortedSteps(flow) {
		if step.IsActive {
			return step.Status, true
		}
	}
	return "", false
}

// NextStatuses lists the statuses reachable from status: entries of its nextStatuses
// whose step exists and is active. An unknown or inactive status has none.
func NextStatuses(flow models.OrderFlow, status string) []string {
	current, ok := StepByStatus(flow, status)
	if !ok || !current.IsActive {
		return []string{}
	}
	out := make([]string, 0, len(current.NextStatuses))
	for _, next := range current.NextStatuses {
		if target, ok := StepByStatus(flow, next); ok && target.IsActive {
			out = append(out, next)
		}
	}
	return out
}

// CanChangeStatus checks that role may move an order from current to next.
// next must be reachable from current (ErrTransitionInvalid) and role must be in
// the target step's authorizedRoles (ErrTransitionDenied).
func CanChangeStatus(flow models.OrderFlow, current, next, role string) error {
	if current == next {
		return common.NewError(common.ErrCodeBusinessState,
			"Order is already in status "+next, common.StatusBadRequest, nil)
	}
	if !utility.Contains(NextStatuses(flow, current), next) {
		return common.NewError(common.ErrCodeBusinessState,
			common.ErrTransitionInvalid.Error(), common.StatusBadRequest,
			map[string]interface{}{"from": current, "to": next})
	}
	target, _ := StepByStatus(flow, next)
	if !utility.Contains(target.AuthorizedRoles, role) {
		return common.NewError(common.ErrCodeBusinessTransition,
			common.ErrTransitionDenied.Error(), common.StatusForbidden,
			map[string]interface{}{"to": next, "role": role, "authorizedRoles": target.AuthorizedRoles})
	}
	return nil
}

// ActiveDestinations returns the active forwarding destinations of status's step.
func ActiveDestinations(flow models.OrderFlow, status string) []models.ForwardingDestination {
	step, ok := StepByStatus(flow, status)
	if !ok {
		return []models.ForwardingDestination{}
	}
	out := make([]models.ForwardingDestination, 0, len(step.ForwardingDestinations))
	for _, d := range step.ForwardingDestinations {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out
}

// Clone deep-copies flow; the copy shares no slices with the original.
func Clone(flow models.OrderFlow) models.OrderFlow {
	out := flow
	if flow.ShopID != nil {
		shopID := *flow.ShopID
		out.ShopID = &shopID
	}
	out.Steps = make([]models.OrderFlowStep, len(flow.Steps))
	for i, step := range flow.Steps {
		out.Steps[i] = cloneStep(step)
	}
	return out
}

func cloneStep(step models.OrderFlowStep) models.OrderFlowStep {
	out := step
	out.AuthorizedRoles = append([]string{}, step.AuthorizedRoles...)
	out.NextStatuses = append([]string{}, step.NextStatuses...)
	out.ForwardingDestinations = append([]models.ForwardingDestination{}, step.ForwardingDestinations...)
	return out
}

// ReplaceStepAt returns a copy of flow with the step at index replaced. Other steps are untouched.
func ReplaceStepAt(flow models.OrderFlow, index int, step models.OrderFlowStep) (models.OrderFlow, error) {
	if index < 0 || index >= len(flow.Steps) {
		return flow, common.NewValidationError(common.MsgValidationError, map[string]string{
			"index": "step index out of range",
		})
	}
	out := Clone(flow)
	out.Steps[index] = cloneStep(step)
	return out, nil
}

// ReplaceDestinationAt returns a copy of flow with one forwarding destination replaced.
func ReplaceDestinationAt(flow models.OrderFlow, stepIndex, destIndex int, dest models.ForwardingDestination) (models.OrderFlow, error) {
	if stepIndex < 0 || stepIndex >= len(flow.Steps) {
		return flow, common.NewValidationError(common.MsgValidationError, map[string]string{
			"index": "step index out of range",
		})
	}
	if destIndex < 0 || destIndex >= len(flow.Steps[stepIndex].ForwardingDestinations) {
		return flow, common.NewValidationError(common.MsgValidationError, map[string]string{
			"destIndex": "destination index out of range",
		})
	}
	out := Clone(flow)
	out.Steps[stepIndex].ForwardingDestinations[destIndex] = dest
	return out, nil
}
