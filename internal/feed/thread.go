// Package feed rebuilds an event's threaded activity feed from flat
// activity and reaction rows.
package feed

import "rsvp-service/internal/models"

// Build partitions activities by parent and expands each top-level post
// depth-first into a forest. Sibling order equals the caller-supplied
// order; the builder never resorts. Reactions are grouped per activity
// by exact emoji match, listed in first-seen order.
//
// An activity whose parent is absent from the input is never emitted:
// traversal only descends from actual roots, and cascade deletion at
// the storage layer is expected to keep orphans out of reads anyway.
func Build(activities []models.Activity, reactions []models.Reaction) []models.ActivityNode {
	children := make(map[int][]models.Activity)
	var roots []models.Activity
	for _, a := range activities {
		if a.ParentID == nil {
			roots = append(roots, a)
			continue
		}
		children[*a.ParentID] = append(children[*a.ParentID], a)
	}

	reactionsByActivity := make(map[int][]models.Reaction)
	for _, r := range reactions {
		reactionsByActivity[r.ActivityID] = append(reactionsByActivity[r.ActivityID], r)
	}

	forest := make([]models.ActivityNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, expand(root, children, reactionsByActivity))
	}
	return forest
}

func expand(a models.Activity, children map[int][]models.Activity, reactions map[int][]models.Reaction) models.ActivityNode {
	node := models.ActivityNode{
		Activity:  a,
		Replies:   make([]models.ActivityNode, 0, len(children[a.ID])),
		Reactions: summarize(reactions[a.ID]),
	}
	for _, child := range children[a.ID] {
		node.Replies = append(node.Replies, expand(child, children, reactions))
	}
	return node
}

func summarize(reactions []models.Reaction) []models.ReactionSummary {
	summary := make([]models.ReactionSummary, 0, len(reactions))
	index := make(map[string]int, len(reactions))
	for _, r := range reactions {
		if i, ok := index[r.Emoji]; ok {
			summary[i].Count++
			continue
		}
		index[r.Emoji] = len(summary)
		summary = append(summary, models.ReactionSummary{Emoji: r.Emoji, Count: 1})
	}
	return summary
}
