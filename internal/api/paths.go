// Package api provides the completion clients used by chat sessions.
package api

// GJSON paths for extracting values from generateContent responses.
const (
	PathCandidates   = "candidates"
	PathReplyText    = "candidates.0.content.parts.0.text"
	PathFinishReason = "candidates.0.finishReason"
	PathBlockReason  = "promptFeedback.blockReason"
	PathModelVersion = "modelVersion"

	// Candidate paths (relative to candidate object)
	PathCandText         = "content.parts.0.text"
	PathCandFinishReason = "finishReason"

	// Usage paths
	PathUsagePrompt     = "usageMetadata.promptTokenCount"
	PathUsageCandidates = "usageMetadata.candidatesTokenCount"
	PathUsageTotal      = "usageMetadata.totalTokenCount"

	// Error envelope paths
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"
)
