package progress

import (
	"strconv"

	"github.com/yungbote/pathways-backend/internal/domain/catalog"
	"github.com/yungbote/pathways-backend/internal/domain/journey"
)

// Aggregate tallies the completed set against the whole catalog, grouped by
// stage. Completed ids that are not in the catalog count toward no stage, and
// stages without milestones do not appear in the result.
func Aggregate(all []catalog.MilestoneRef, completed []string) journey.StageProgressMap {
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}

	out := journey.StageProgressMap{}
	for _, m := range all {
		sp := out[m.StageID]
		sp.Total++
		if _, ok := done[m.ID]; ok {
			sp.Completed++
		}
		out[m.StageID] = sp
	}
	for stageID, sp := range out {
		sp.Percentage = Percentage(sp.Completed, sp.Total)
		out[stageID] = sp
	}
	return out
}

// Percentage is completed/total*100 rounded to one decimal place. Rounding is
// decided on the exact value of the float with ties to even, so 1/16 gives 6.2.
// A zero total yields 0.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 1, 64), 64)
	if err != nil {
		return pct
	}
	return rounded
}
