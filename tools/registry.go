package tools

// Registry returns all tool definitions wired for the agent, grouped by area.
func Registry() []ToolDefinition {
	return []ToolDefinition{
		GetMerchantStatusDefinition,
		CheckTrafficDefinition,
		RerouteDriverDefinition,
		GetNearbyMerchantsDefinition,

		NotifyCustomerDefinition,
		ContactRecipientDefinition,
		SuggestSafeDropOffDefinition,
		FindNearbyLockerDefinition,
		RequestAddressClarificationDefinition,

		InitiateMediationDefinition,
		CollectEvidenceDefinition,
		AnalyzeEvidenceDefinition,
		IssueInstantRefundDefinition,
		ExonerateDriverDefinition,
		LogPackagingFeedbackDefinition,

		VerifyDeliveryAttemptDefinition,
		InitiateQRVerificationDefinition,
	}
}

// Lookup finds a definition by name.
func Lookup(defs []ToolDefinition, name string) (ToolDefinition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}

// Groups buckets defs by group, preserving registry order within each group.
func Groups(defs []ToolDefinition) map[Group][]ToolDefinition {
	out := make(map[Group][]ToolDefinition, len(GroupOrder))
	for _, d := range defs {
		out[d.Group] = append(out[d.Group], d)
	}
	return out
}
