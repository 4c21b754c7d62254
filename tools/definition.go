package tools

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Group is the functional area a tool belongs to.
type Group string

const (
	GroupLogistics    Group = "logistics"
	GroupCustomer     Group = "customer"
	GroupDispute      Group = "dispute"
	GroupVerification Group = "verification"
)

// GroupOrder is the display order used by listings and the system prompt.
var GroupOrder = []Group{GroupLogistics, GroupCustomer, GroupDispute, GroupVerification}

type ToolDefinition struct {
	Name  string `json:"name"`
	Group Group  `json:"group"`
	// Summary is the one-line form rendered into the system prompt.
	Summary     string                         `json:"summary"`
	Description string                         `json:"description"`
	InputSchema anthropic.ToolInputSchemaParam `json:"input_schema"`
	Function    func(input json.RawMessage) (string, error)
}

// GenerateSchema reflects T into the input schema sent to the model.
// Fields without omitempty are reported as required.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}

// ParamNames returns the schema's property names in declaration order.
func (d ToolDefinition) ParamNames() []string {
	props, ok := d.InputSchema.Properties.(*orderedmap.OrderedMap[string, *jsonschema.Schema])
	if !ok || props == nil {
		return nil
	}
	names := make([]string, 0, props.Len())
	for p := props.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// Signature renders the tool as name(param: str, ...).
func (d ToolDefinition) Signature() string {
	params := d.ParamNames()
	for i, p := range params {
		params[i] = p + ": str"
	}
	return d.Name + "(" + strings.Join(params, ", ") + ")"
}

// arg is a named required argument value.
type arg struct {
	name  string
	value string
}

// validator is implemented by every tool input struct.
type validator interface {
	required() []arg
}

// parseArgs decodes input into T and rejects blank required arguments.
func parseArgs[T validator](input json.RawMessage) (T, error) {
	var in T
	if err := json.Unmarshal(input, &in); err != nil {
		return in, ToolError{Code: ErrInvalidArgs, Message: "malformed arguments: " + err.Error()}
	}
	var missing []string
	for _, a := range in.required() {
		if strings.TrimSpace(a.value) == "" {
			missing = append(missing, a.name)
		}
	}
	if len(missing) > 0 {
		return in, ToolError{Code: ErrInvalidArgs, Message: "missing required arguments: " + strings.Join(missing, ", ")}
	}
	return in, nil
}
