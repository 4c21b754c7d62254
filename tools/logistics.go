package tools

import (
	"encoding/json"
	"fmt"
)

// Canned merchant states returned by get_merchant_status.
var MerchantStatuses = []string{
	"The merchant is overloaded. Estimated prep time is 40 minutes.",
	"The merchant is operating normally. Estimated prep time is 15 minutes.",
	"The merchant is currently closed.",
}

// Canned route conditions returned by check_traffic.
var TrafficConditions = []string{
	"Traffic is clear. No delays expected.",
	"A major accident has been reported along the route. Expect a 30-minute delay.",
	"Heavy congestion due to rush hour. Expect a 15-minute delay.",
}

const nearbyMerchantsResult = "Found nearby merchants: 'Pizza Pronto' and 'Italiano Fast' are operating normally."

type GetMerchantStatusInput struct {
	MerchantName string `json:"merchant_name" jsonschema_description:"Name of the restaurant or store."`
}

func (in GetMerchantStatusInput) required() []arg {
	return []arg{{"merchant_name", in.MerchantName}}
}

var GetMerchantStatusDefinition = ToolDefinition{
	Name:        "get_merchant_status",
	Group:       GroupLogistics,
	Summary:     "Checks a restaurant's or store's current status and prep time.",
	Description: "Checks the current operational status and preparation time for a specific merchant. Returns a string describing the merchant's status.",
	InputSchema: GenerateSchema[GetMerchantStatusInput](),
	Function:    GetMerchantStatus,
}

func GetMerchantStatus(input json.RawMessage) (string, error) {
	if _, err := parseArgs[GetMerchantStatusInput](input); err != nil {
		return "", err
	}
	return pick(MerchantStatuses), nil
}

type CheckTrafficInput struct {
	Route string `json:"route" jsonschema_description:"Route to check, e.g. 'Main St to 5th Ave'."`
}

func (in CheckTrafficInput) required() []arg {
	return []arg{{"route", in.Route}}
}

var CheckTrafficDefinition = ToolDefinition{
	Name:        "check_traffic",
	Group:       GroupLogistics,
	Summary:     "Checks the traffic conditions for a specified route.",
	Description: "Checks the traffic conditions for a given route. Returns a string describing the traffic situation.",
	InputSchema: GenerateSchema[CheckTrafficInput](),
	Function:    CheckTraffic,
}

func CheckTraffic(input json.RawMessage) (string, error) {
	if _, err := parseArgs[CheckTrafficInput](input); err != nil {
		return "", err
	}
	return pick(TrafficConditions), nil
}

type RerouteDriverInput struct {
	DriverID           string `json:"driver_id" jsonschema_description:"Identifier of the driver to reroute."`
	NewTaskDescription string `json:"new_task_description" jsonschema_description:"The task the driver should take on instead."`
}

func (in RerouteDriverInput) required() []arg {
	return []arg{{"driver_id", in.DriverID}, {"new_task_description", in.NewTaskDescription}}
}

var RerouteDriverDefinition = ToolDefinition{
	Name:    "reroute_driver",
	Group:   GroupLogistics,
	Summary: "Assigns a new task to a driver to prevent them from being idle.",
	Description: `Reroutes a driver to a new task to optimize their time.

Use this when a driver would otherwise be idle, for example, waiting for a long food prep.`,
	InputSchema: GenerateSchema[RerouteDriverInput](),
	Function:    RerouteDriver,
}

func RerouteDriver(input json.RawMessage) (string, error) {
	in, err := parseArgs[RerouteDriverInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Driver %s has been successfully rerouted.", in.DriverID), nil
}

type GetNearbyMerchantsInput struct {
	CuisineType string `json:"cuisine_type" jsonschema_description:"Cuisine to match, e.g. 'pizza'. Infer it from the merchant name when unknown."`
}

func (in GetNearbyMerchantsInput) required() []arg {
	return []arg{{"cuisine_type", in.CuisineType}}
}

var GetNearbyMerchantsDefinition = ToolDefinition{
	Name:        "get_nearby_merchants",
	Group:       GroupLogistics,
	Summary:     "Finds alternative merchants with a similar cuisine.",
	Description: "Finds nearby merchants of a similar cuisine type that are operating normally.",
	InputSchema: GenerateSchema[GetNearbyMerchantsInput](),
	Function:    GetNearbyMerchants,
}

// GetNearbyMerchants always reports the same two alternatives; there is no merchant index behind it.
func GetNearbyMerchants(input json.RawMessage) (string, error) {
	if _, err := parseArgs[GetNearbyMerchantsInput](input); err != nil {
		return "", err
	}
	return nearbyMerchantsResult, nil
}
