package tools

import (
	"encoding/json"
	"fmt"
)

type VerifyAttemptInput struct {
	DriverID        string `json:"driver_id" jsonschema_description:"Identifier of the driver who marked the attempt."`
	CustomerAddress string `json:"customer_address" jsonschema_description:"Address where the attempt was reported."`
}

func (in VerifyAttemptInput) required() []arg {
	return []arg{{"driver_id", in.DriverID}, {"customer_address", in.CustomerAddress}}
}

var VerifyDeliveryAttemptDefinition = ToolDefinition{
	Name:    "verify_delivery_attempt",
	Group:   GroupVerification,
	Summary: "Checks a driver's GPS data to confirm if a delivery attempt was legitimate.",
	Description: `Verifies if a driver was physically at a customer's address by checking GPS data.

Use this when a customer disputes a 'failed delivery' notification.`,
	InputSchema: GenerateSchema[VerifyAttemptInput](),
	Function:    VerifyDeliveryAttempt,
}

// attemptGenuine weights the simulated GPS check: two genuine attempts for every faked one.
var attemptGenuine = []bool{true, true, false}

func VerifyDeliveryAttempt(input json.RawMessage) (string, error) {
	in, err := parseArgs[VerifyAttemptInput](input)
	if err != nil {
		return "", err
	}
	if pick(attemptGenuine) {
		return VerificationSucceeded(in.DriverID, in.CustomerAddress), nil
	}
	return VerificationFailed(in.DriverID, in.CustomerAddress), nil
}

func VerificationSucceeded(driverID, address string) string {
	return fmt.Sprintf("Verification successful: Driver %s's GPS data confirms they were at or near '%s'.", driverID, address)
}

func VerificationFailed(driverID, address string) string {
	return fmt.Sprintf("Verification FAILED: Driver %s's GPS data does NOT show them near '%s' at the time of the marked attempt.", driverID, address)
}

var InitiateQRVerificationDefinition = ToolDefinition{
	Name:    "initiate_qr_code_verification",
	Group:   GroupVerification,
	Summary: "Provides a secure QR code for the customer to scan when an OTP fails.",
	Description: `Initiates a secure, in-app QR code verification when an OTP fails.

The driver's app displays a QR code for the customer to scan.`,
	InputSchema: GenerateSchema[PartiesInput](),
	Function:    InitiateQRVerification,
}

func InitiateQRVerification(input json.RawMessage) (string, error) {
	in, err := parseArgs[PartiesInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"QR code for in-app verification has been sent to driver %s's device. Customer %s must scan it to confirm the delivery.",
		in.DriverID, in.CustomerID,
	), nil
}
