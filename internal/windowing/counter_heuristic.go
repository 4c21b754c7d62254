package windowing

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m anthropic.MessageParam) int
	CountGroup(g Group, all []anthropic.MessageParam) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
// - text blocks: rune count of TextBlockParam.Text
// - tool_result blocks: sum of nested text runes
// - tool_use blocks: rune count of the tool name plus the encoded input size
// Every block adds a small fixed overhead for formatting.
type HeuristicCounter struct{}

// Fixed per-block overhead for deterministic counts; changing this requires updating the guard test.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += countBlock(blk)
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []anthropic.MessageParam) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

func countBlock(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return utf8.RuneCountInString(tb.Text) + blockOverhead
	}

	if tr := blk.OfToolResult; tr != nil {
		subtotal := 0
		for _, nb := range tr.Content {
			if nt := nb.OfText; nt != nil {
				subtotal += utf8.RuneCountInString(nt.Text)
			}
			// Non-text nested blocks contribute only via parent overhead.
		}
		return subtotal + blockOverhead
	}

	if tu := blk.OfToolUse; tu != nil {
		return utf8.RuneCountInString(tu.Name) + inputSize(tu.Input) + blockOverhead
	}

	// thinking, images and documents count overhead only.
	return blockOverhead
}

// inputSize returns the byte length of a tool_use input as sent on the wire.
func inputSize(in any) int {
	switch v := in.(type) {
	case nil:
		return 0
	case json.RawMessage:
		return len(v)
	case []byte:
		return len(v)
	case string:
		return len(v)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return 0
	}
	return len(b)
}
