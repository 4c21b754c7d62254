package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/synapse/internal/prompt"
	"github.com/petasbytes/synapse/tools"
)

func TestSystem_Persona(t *testing.T) {
	got := prompt.System("", tools.Registry())
	assert.True(t, strings.HasPrefix(got, "You are Synapse, an expert AI agent acting as an intelligent last-mile coordinator."))

	named := prompt.System("Relay", nil)
	assert.Contains(t, named, "You are Relay,")
}

func TestSystem_ListsEveryTool(t *testing.T) {
	defs := tools.Registry()
	got := prompt.System("Synapse", defs)

	for _, d := range defs {
		assert.Contains(t, got, "- `"+d.Signature()+"`: "+d.Summary, d.Name)
	}
	assert.Contains(t, got, "- `get_merchant_status(merchant_name: str)`: Checks a restaurant's or store's current status and prep time.")
	assert.Contains(t, got, "- `reroute_driver(driver_id: str, new_task_description: str)`:")
}

func TestSystem_ToolOrderFollowsRegistry(t *testing.T) {
	defs := tools.Registry()
	got := prompt.System("Synapse", defs)

	last := -1
	for _, d := range defs {
		idx := strings.Index(got, "`"+d.Name+"(")
		require.Greater(t, idx, last, "%s out of order", d.Name)
		last = idx
	}
}

func TestSystem_Directives(t *testing.T) {
	got := prompt.System("Synapse", tools.Registry())
	for _, want := range []string{
		"**Dispute Types:**",
		"starting with `verify_delivery_attempt`",
		"your only action should be to use `request_address_clarification`",
		"suggest alternatives using `get_nearby_merchants`",
		"based on the merchant's name",
		"first and only action should be to use `initiate_qr_code_verification`",
		"think step-by-step",
	} {
		assert.Contains(t, got, want)
	}
}
