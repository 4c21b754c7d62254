package windowing

import (
	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"
)

// Stats summarizes the result of window preparation.
//
// Fields:
// - Total: estimated tokens for included groups only.
// - Budget: the input token budget used.
// - IncludedGroups: number of groups included, the pinned one among them.
// - SkippedGroups: total groups minus IncludedGroups.
// - OverBudgetNewest: true when the newest group (plus the pinned opening
// message, if any) exceeds Budget.
// - Pinned: true when the opening user message was kept ahead of the tail.
type Stats struct {
	Total            int
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	OverBudgetNewest bool
	Pinned           bool
}

// PrepareSendWindow returns the messages of msgs (oldest→newest) that fit
// within budget using the TokenCounter, without splitting groups.
//
// Rules:
//   - When msgs opens with a plain user message (the scenario), that message is
//     pinned: it is counted first and always leads the window.
//   - The remaining budget is filled with whole groups scanning newest→oldest;
//     the scan stops at the first group that does not fit.
//   - If the newest group (plus the pinned message) exceeds budget, the window
//     is empty and OverBudgetNewest is set.
//   - If budget ≤ 0, the window is empty (OverBudgetNewest set when any groups exist).
//
// The returned slice never aliases msgs when groups in the middle were dropped.
// log may be nil.
func PrepareSendWindow(msgs []anthropic.MessageParam, budget int, c TokenCounter, log *zap.Logger) ([]anthropic.MessageParam, Stats) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupBlocks(msgs, log)
	overBudget := Stats{Budget: budget, SkippedGroups: len(groups), OverBudgetNewest: true}
	if budget <= 0 {
		return nil, overBudget
	}

	costs := make([]int, len(groups))
	for i, g := range groups {
		costs[i] = c.CountGroup(g, msgs)
	}

	// A single group is both the opening message and the newest one.
	pinned := len(groups) > 1 && isOpening(groups[0], msgs)
	first := 0
	total := 0
	if pinned {
		first = 1
		total = costs[0]
	}

	newest := len(groups) - 1
	if total+costs[newest] > budget {
		log.Debug("newest group over budget",
			zap.Int("budget", budget),
			zap.Int("cost", costs[newest]),
			zap.Int("pinned_cost", total),
		)
		return nil, overBudget
	}

	startIdx := newest
	total += costs[newest]
	for gi := newest - 1; gi >= first; gi-- {
		if total+costs[gi] > budget {
			break
		}
		total += costs[gi]
		startIdx = gi
	}

	stats := Stats{
		Total:          total,
		Budget:         budget,
		IncludedGroups: len(groups) - startIdx,
		Pinned:         pinned,
	}
	if pinned {
		stats.IncludedGroups++
	}
	stats.SkippedGroups = len(groups) - stats.IncludedGroups

	tail := msgs[groups[startIdx].Start:]
	if !pinned || startIdx == first {
		// Contiguous: either nothing is pinned or nothing was dropped after it.
		if pinned {
			return msgs, stats
		}
		return tail, stats
	}

	log.Debug("dropped middle groups", zap.Int("from", first), zap.Int("to", startIdx))
	head := msgs[groups[0].Start:groups[0].End]
	window := make([]anthropic.MessageParam, 0, len(head)+len(tail))
	window = append(window, head...)
	window = append(window, tail...)
	return window, stats
}

// isOpening reports whether g is a lone user message without tool results.
func isOpening(g Group, msgs []anthropic.MessageParam) bool {
	if g.Kind != GroupSingleton || g.Start != 0 || !isUser(msgs[g.Start]) {
		return false
	}
	for _, blk := range msgs[g.Start].Content {
		if blk.OfToolResult != nil {
			return false
		}
	}
	return true
}
