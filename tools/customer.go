package tools

import (
	"encoding/json"
	"fmt"
)

// Simulated recipient replies for contact_recipient_via_chat.
var RecipientResponses = []string{
	"Response from recipient: 'I'm not home, please leave it with the concierge at the front desk.'",
	"Response from recipient: 'Oh no, I'm running 10 minutes late! Can the driver wait?'",
	"Response from recipient: 'I did not order anything. Please cancel this delivery.'",
	"Response from recipient: 'I'm not home right now. Can you just leave it somewhere safe?'",
}

const (
	safeDropOffResult = "Safe drop-off location found: 'Building Concierge/Reception'. Please confirm with recipient."
	lockerResult      = "Found nearby secure locker: 'ParcelHub Locker #78B' at the corner of Main St and 1st Ave."
)

type NotifyCustomerInput struct {
	CustomerID string `json:"customer_id" jsonschema_description:"Identifier of the customer to notify."`
	Message    string `json:"message" jsonschema_description:"Notification text."`
}

func (in NotifyCustomerInput) required() []arg {
	return []arg{{"customer_id", in.CustomerID}, {"message", in.Message}}
}

var NotifyCustomerDefinition = ToolDefinition{
	Name:        "notify_customer",
	Group:       GroupCustomer,
	Summary:     "Sends a direct notification to a customer.",
	Description: "Sends a notification message to a specific customer. Returns a confirmation that the message was sent.",
	InputSchema: GenerateSchema[NotifyCustomerInput](),
	Function:    NotifyCustomer,
}

func NotifyCustomer(input json.RawMessage) (string, error) {
	in, err := parseArgs[NotifyCustomerInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Notification successfully sent to customer %s.", in.CustomerID), nil
}

type ContactRecipientInput struct {
	CustomerID string `json:"customer_id" jsonschema_description:"Identifier of the recipient."`
	Message    string `json:"message" jsonschema_description:"Question to ask the recipient."`
}

func (in ContactRecipientInput) required() []arg {
	return []arg{{"customer_id", in.CustomerID}, {"message", in.Message}}
}

var ContactRecipientDefinition = ToolDefinition{
	Name:        "contact_recipient_via_chat",
	Group:       GroupCustomer,
	Summary:     "Contacts a package recipient to get instructions.",
	Description: "Initiates a chat with the recipient to ask for instructions. Returns the recipient's reply.",
	InputSchema: GenerateSchema[ContactRecipientInput](),
	Function:    ContactRecipient,
}

func ContactRecipient(input json.RawMessage) (string, error) {
	if _, err := parseArgs[ContactRecipientInput](input); err != nil {
		return "", err
	}
	return pick(RecipientResponses), nil
}

type AddressInput struct {
	Address string `json:"address" jsonschema_description:"Delivery address."`
}

func (in AddressInput) required() []arg {
	return []arg{{"address", in.Address}}
}

var SuggestSafeDropOffDefinition = ToolDefinition{
	Name:    "suggest_safe_drop_off",
	Group:   GroupCustomer,
	Summary: "Suggests a safe drop-off location like a concierge.",
	Description: `Analyzes a delivery address to suggest a safe drop-off location.

Use this after a recipient has given permission but hasn't specified a location.`,
	InputSchema: GenerateSchema[AddressInput](),
	Function:    SuggestSafeDropOff,
}

func SuggestSafeDropOff(input json.RawMessage) (string, error) {
	if _, err := parseArgs[AddressInput](input); err != nil {
		return "", err
	}
	return safeDropOffResult, nil
}

var FindNearbyLockerDefinition = ToolDefinition{
	Name:    "find_nearby_locker",
	Group:   GroupCustomer,
	Summary: "Finds a secure parcel locker as an alternative delivery point.",
	Description: `Finds a secure parcel locker near a given address.

Use this as a last resort if no safe drop-off is possible.`,
	InputSchema: GenerateSchema[AddressInput](),
	Function:    FindNearbyLocker,
}

func FindNearbyLocker(input json.RawMessage) (string, error) {
	if _, err := parseArgs[AddressInput](input); err != nil {
		return "", err
	}
	return lockerResult, nil
}

type AddressClarificationInput struct {
	CustomerID   string `json:"customer_id" jsonschema_description:"Identifier of the customer."`
	VagueAddress string `json:"vague_address" jsonschema_description:"The address the driver cannot locate."`
}

func (in AddressClarificationInput) required() []arg {
	return []arg{{"customer_id", in.CustomerID}, {"vague_address", in.VagueAddress}}
}

var RequestAddressClarificationDefinition = ToolDefinition{
	Name:        "request_address_clarification",
	Group:       GroupCustomer,
	Summary:     "Asks the customer for landmarks to clarify a vague address.",
	Description: "Notifies a customer that the driver cannot find their address and requests clarification. Returns the customer's reply with more details.",
	InputSchema: GenerateSchema[AddressClarificationInput](),
	Function:    RequestAddressClarification,
}

func RequestAddressClarification(input json.RawMessage) (string, error) {
	in, err := parseArgs[AddressClarificationInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Customer %s has responded with clarification for '%s': 'Tell the driver to look for the big red gate near the old temple. It's the third house from there.'",
		in.CustomerID, in.VagueAddress,
	), nil
}
