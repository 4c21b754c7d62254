package tools

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Simulated evidence records for collect_evidence.
var EvidenceScenarios = []string{
	"{'customer_photo': 'spilled_drink.jpg', 'driver_photo': 'intact_bag_seal.jpg', 'customer_statement': 'The seal was intact when I received it.', 'driver_statement': 'The bag was sealed by the merchant.'}",
	"{'customer_photo': 'crushed_box.jpg', 'driver_photo': 'torn_bag.jpg', 'customer_statement': 'The bag was already torn.', 'driver_statement': 'The bag was flimsy and tore when I picked it up.'}",
}

// Verdicts produced by analyze_evidence.
const (
	VerdictMerchantFault = "Conclusion: Merchant packaging fault. The bag seal was intact, but the contents were damaged."
	VerdictDriverFault   = "Conclusion: Driver mishandling fault. The packaging itself was damaged during transit."
	VerdictInconclusive  = "Conclusion: Inconclusive. Requires manual review."
)

const (
	mediationResult = "Mediation flow initiated. Both parties are now in a synchronized resolution session."
	evidencePrefix  = "Evidence collected: "
)

type PartiesInput struct {
	CustomerID string `json:"customer_id" jsonschema_description:"Identifier of the customer in the dispute."`
	DriverID   string `json:"driver_id" jsonschema_description:"Identifier of the driver in the dispute."`
}

func (in PartiesInput) required() []arg {
	return []arg{{"customer_id", in.CustomerID}, {"driver_id", in.DriverID}}
}

var InitiateMediationDefinition = ToolDefinition{
	Name:        "initiate_mediation_flow",
	Group:       GroupDispute,
	Summary:     "Starts a dispute resolution session.",
	Description: "Initiates a real-time mediation flow between a customer and a driver for a dispute.",
	InputSchema: GenerateSchema[PartiesInput](),
	Function:    InitiateMediation,
}

func InitiateMediation(input json.RawMessage) (string, error) {
	if _, err := parseArgs[PartiesInput](input); err != nil {
		return "", err
	}
	return mediationResult, nil
}

var CollectEvidenceDefinition = ToolDefinition{
	Name:        "collect_evidence",
	Group:       GroupDispute,
	Summary:     "Gathers evidence from both parties in a dispute.",
	Description: "Guides the customer and driver to provide evidence, such as photos and answers to questions. Returns the collected evidence as a structured string.",
	InputSchema: GenerateSchema[PartiesInput](),
	Function:    CollectEvidence,
}

func CollectEvidence(input json.RawMessage) (string, error) {
	if _, err := parseArgs[PartiesInput](input); err != nil {
		return "", err
	}
	return evidencePrefix + pick(EvidenceScenarios), nil
}

type AnalyzeEvidenceInput struct {
	EvidenceString string `json:"evidence_string" jsonschema_description:"Evidence as returned by collect_evidence."`
}

func (in AnalyzeEvidenceInput) required() []arg {
	return []arg{{"evidence_string", in.EvidenceString}}
}

var AnalyzeEvidenceDefinition = ToolDefinition{
	Name:        "analyze_evidence",
	Group:       GroupDispute,
	Summary:     "Determines the cause of a dispute based on evidence.",
	Description: "Analyzes the collected evidence to determine the likely cause of the dispute.",
	InputSchema: GenerateSchema[AnalyzeEvidenceInput](),
	Function:    AnalyzeEvidence,
}

func AnalyzeEvidence(input json.RawMessage) (string, error) {
	in, err := parseArgs[AnalyzeEvidenceInput](input)
	if err != nil {
		return "", err
	}
	return Verdict(in.EvidenceString), nil
}

var (
	sealIntactPhrase = regexp.MustCompile(`(?i)\bseal was intact\b`)
	intactSealPhoto  = evidenceFile("intact_bag_seal.jpg")
	spilledPhoto     = evidenceFile("spilled_drink.jpg")
	tornPhoto        = evidenceFile("torn_bag.jpg")
)

// evidenceFile matches name as a whole file token, quoted or bare, so that
// names such as torn_bag.jpg.bak or old_torn_bag.jpg do not count.
func evidenceFile(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\w.\-])` + regexp.QuoteMeta(name) + `(?:[^\w.\-]|$)`)
}

// Verdict classifies an evidence record. Matching is case-insensitive.
// An intact seal with spilled contents blames the merchant; a torn bag blames the driver.
func Verdict(evidence string) string {
	sealIntact := sealIntactPhrase.MatchString(evidence) || intactSealPhoto.MatchString(evidence)
	spilled := spilledPhoto.MatchString(evidence)
	torn := tornPhoto.MatchString(evidence)

	switch {
	case sealIntact && spilled:
		return VerdictMerchantFault
	case torn:
		return VerdictDriverFault
	default:
		return VerdictInconclusive
	}
}

type RefundInput struct {
	CustomerID string `json:"customer_id" jsonschema_description:"Identifier of the customer to refund."`
	Reason     string `json:"reason" jsonschema_description:"Why the refund is issued."`
}

func (in RefundInput) required() []arg {
	return []arg{{"customer_id", in.CustomerID}, {"reason", in.Reason}}
}

var IssueInstantRefundDefinition = ToolDefinition{
	Name:        "issue_instant_refund",
	Group:       GroupDispute,
	Summary:     "Issues a refund to a customer.",
	Description: "Issues an instant refund to the customer.",
	InputSchema: GenerateSchema[RefundInput](),
	Function:    IssueInstantRefund,
}

func IssueInstantRefund(input json.RawMessage) (string, error) {
	in, err := parseArgs[RefundInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Instant refund processed for customer %s. Reason: %s", in.CustomerID, in.Reason), nil
}

type ExonerateDriverInput struct {
	DriverID string `json:"driver_id" jsonschema_description:"Identifier of the driver to clear."`
	Reason   string `json:"reason" jsonschema_description:"Why the driver is not at fault."`
}

func (in ExonerateDriverInput) required() []arg {
	return []arg{{"driver_id", in.DriverID}, {"reason", in.Reason}}
}

var ExonerateDriverDefinition = ToolDefinition{
	Name:        "exonerate_driver",
	Group:       GroupDispute,
	Summary:     "Clears a driver of fault.",
	Description: "Clears the driver of any fault in a dispute.",
	InputSchema: GenerateSchema[ExonerateDriverInput](),
	Function:    ExonerateDriver,
}

func ExonerateDriver(input json.RawMessage) (string, error) {
	in, err := parseArgs[ExonerateDriverInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Driver %s has been exonerated. Reason: %s", in.DriverID, in.Reason), nil
}

type PackagingFeedbackInput struct {
	MerchantName string `json:"merchant_name" jsonschema_description:"Merchant the feedback is about."`
	Feedback     string `json:"feedback" jsonschema_description:"Packaging feedback to record."`
}

func (in PackagingFeedbackInput) required() []arg {
	return []arg{{"merchant_name", in.MerchantName}, {"feedback", in.Feedback}}
}

var LogPackagingFeedbackDefinition = ToolDefinition{
	Name:        "log_merchant_packaging_feedback",
	Group:       GroupDispute,
	Summary:     "Logs packaging feedback for a merchant.",
	Description: "Logs feedback for a merchant regarding their packaging.",
	InputSchema: GenerateSchema[PackagingFeedbackInput](),
	Function:    LogPackagingFeedback,
}

func LogPackagingFeedback(input json.RawMessage) (string, error) {
	in, err := parseArgs[PackagingFeedbackInput](input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Feedback logged for %s: %s", in.MerchantName, in.Feedback), nil
}
