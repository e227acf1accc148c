package progress

import "github.com/yungbote/pathways-backend/internal/domain/journey"

// Toggle flips membership of id in the completed set. The input is not
// modified; insertion order of the remaining ids is preserved and a newly
// completed id is appended.
func Toggle(completed []string, id string) ([]string, journey.Action) {
	next := make([]string, 0, len(completed)+1)
	removed := false
	for _, existing := range completed {
		if existing == id {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if removed {
		return next, journey.ActionUncompleted
	}
	return append(next, id), journey.ActionCompleted
}

// Contains reports whether id is in the completed set.
func Contains(completed []string, id string) bool {
	for _, existing := range completed {
		if existing == id {
			return true
		}
	}
	return false
}
