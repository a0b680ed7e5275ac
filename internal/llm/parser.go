package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
)

// ParseBatchResponse extracts the JSON body from an inference reply and
// decodes it. Markdown fences and surrounding prose are tolerated; a reply
// with no decodable JSON object at all is a batch-level failure.
func ParseBatchResponse(content string) (BatchResponse, error) {
	jsonText := extractJSON(content)
	if jsonText == "" {
		return BatchResponse{}, fmt.Errorf("%w: no JSON object found", common.ErrMalformedResponse)
	}

	var resp BatchResponse
	if err := json.Unmarshal([]byte(jsonText), &resp); err != nil {
		return BatchResponse{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	if len(resp.Categorizations) == 0 {
		return BatchResponse{}, fmt.Errorf("%w: no categorizations", common.ErrMalformedResponse)
	}

	return resp, nil
}

// extractJSON strips markdown code fences and returns the outermost JSON
// object in the content, or empty when there is none.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}

// EntryValidation is the outcome of validating a single response entry:
// either a usable result or a reason it was discarded.
type EntryValidation struct {
	Result model.CategorizationResult
	Reason string
	Valid  bool
}

// ValidateEntries checks every response entry against the request it
// answers. An entry must reference a requested transaction exactly once and
// use a label from the closed set; confidence outside [0,1] is clamped
// rather than rejected. Invalid entries are reported, not fatal — their
// transactions fall back while valid entries in the same response are
// honored.
func ValidateEntries(req BatchRequest, resp BatchResponse) []EntryValidation {
	requested := make(map[string]bool, len(req.Entries))
	for _, entry := range req.Entries {
		requested[entry.ID] = true
	}

	seen := make(map[string]bool, len(resp.Categorizations))
	out := make([]EntryValidation, 0, len(resp.Categorizations))

	for _, entry := range resp.Categorizations {
		if !requested[entry.TransactionID] {
			out = append(out, EntryValidation{
				Reason: fmt.Sprintf("references unknown transaction %q", entry.TransactionID),
			})
			continue
		}
		if seen[entry.TransactionID] {
			out = append(out, EntryValidation{
				Reason: fmt.Sprintf("duplicate entry for transaction %q", entry.TransactionID),
			})
			continue
		}

		category, err := model.ParseCategory(entry.Category)
		if err != nil {
			out = append(out, EntryValidation{
				Reason: fmt.Sprintf("label outside closed set: %q", entry.Category),
			})
			continue
		}

		confidence := entry.Confidence
		if confidence < 0 {
			confidence = 0
		} else if confidence > 1 {
			confidence = 1
		}

		seen[entry.TransactionID] = true
		out = append(out, EntryValidation{
			Valid: true,
			Result: model.CategorizationResult{
				TransactionID: entry.TransactionID,
				Category:      category,
				Confidence:    confidence,
				Source:        model.SourceInference,
				Rationale:     entry.Reasoning,
			},
		})
	}

	return out
}
