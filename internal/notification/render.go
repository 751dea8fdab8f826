package notification

import (
	"strconv"
	"strings"

	ordermodels "delivery_marketplace/internal/api/order/models"
	flowmodels "delivery_marketplace/internal/api/orderflow/models"
)

// DefaultTemplate is the status change message. Variables are {{name}} tokens.
const DefaultTemplate = "{{step}}\nOrder #{{order_id}}\nStatus: {{status}}\nTotal: {{total}}{{notes}}"

// Render replaces {{key}} tokens in tmpl. Unknown tokens are left as they are.
func Render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// MessageVars builds the template variables of a status change.
func MessageVars(order ordermodels.Order, step flowmodels.OrderFlowStep, notes string) map[string]string {
	name := step.Name
	if name == "" {
		name = step.Status
	}
	vars := map[string]string{
		"step":     name,
		"order_id": order.ID.Hex(),
		"status":   order.Status,
		"total":    strconv.FormatFloat(order.TotalAmount, 'f', 2, 64),
		"notes":    "",
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		vars["notes"] = "\nNotes: " + notes
	}
	return vars
}
