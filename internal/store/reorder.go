package store

import (
	"sort"
	"strings"

	"lessons-cli/internal/model"
)

// reorderPlan lists the rank writes needed to realize an index move.
// Only lessons whose rank changes appear in rankByID.
type reorderPlan struct {
	rankByID  map[string]string
	rebalance []string // ids re-ranked by the window fallback, in final order
}

// sortLessons orders by rank, then creation time, then id.
func sortLessons(ls []model.Lesson) {
	sort.SliceStable(ls, func(i, j int) bool { return lessonLess(ls[i], ls[j]) })
}

func lessonLess(a, b model.Lesson) bool {
	ra, rb := strings.TrimSpace(a.Rank), strings.TrimSpace(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// planReorder plans moving the lesson at from so it lands at to, both indices
// into the ordered list. to is the final position, which equals the insert
// position once the moved lesson has been taken out.
//
// The moved lesson alone is re-ranked when its new neighbours leave room.
// Otherwise the smallest window around it with usable outer bounds is rewritten.
func planReorder(ordered []model.Lesson, from, to int) (reorderPlan, error) {
	n := len(ordered)
	if from < 0 || from >= n || to < 0 || to >= n {
		return reorderPlan{}, ErrIndexOutOfRange
	}
	plan := reorderPlan{rankByID: map[string]string{}}
	if from == to {
		return plan, nil
	}

	moved := ordered[from]
	final := make([]model.Lesson, 0, n)
	final = append(final, ordered[:from]...)
	final = append(final, ordered[from+1:]...)
	final = append(final[:to], append([]model.Lesson{moved}, final[to:]...)...)

	taken := ranksExcept(final, map[string]bool{moved.ID: true})
	if r, ok := rankForSlot(taken, final, to); ok {
		if strings.TrimSpace(moved.Rank) != r {
			plan.rankByID[moved.ID] = r
		}
		return plan, nil
	}

	// Moving up pulls the displaced neighbours below into the window first.
	lo, hi := smallestWindow(final, to, to < from)

	lower, upper := "", ""
	if lo > 0 {
		lower = strings.TrimSpace(final[lo-1].Rank)
	}
	if hi+1 < n {
		upper = strings.TrimSpace(final[hi+1].Rank)
	}
	skip := map[string]bool{}
	for i := lo; i <= hi; i++ {
		skip[final[i].ID] = true
	}
	taken = ranksExcept(final, skip)

	cur := lower
	for i := lo; i <= hi; i++ {
		r, err := rankBetweenUnique(taken, cur, upper)
		if err != nil {
			return reorderPlan{}, err
		}
		taken[r] = true
		plan.rankByID[final[i].ID] = r
		plan.rebalance = append(plan.rebalance, final[i].ID)
		cur = r
	}
	return plan, nil
}

func ranksExcept(ls []model.Lesson, skip map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, l := range ls {
		if skip[l.ID] {
			continue
		}
		if r := normRank(l.Rank); r != "" {
			out[r] = true
		}
	}
	return out
}

// rankForSlot computes a rank for final[idx] from its immediate neighbours.
// ok is false when the neighbours are tied or out of order.
func rankForSlot(taken map[string]bool, final []model.Lesson, idx int) (string, bool) {
	lower, upper := "", ""
	if idx > 0 {
		lower = strings.TrimSpace(final[idx-1].Rank)
	}
	if idx+1 < len(final) {
		upper = strings.TrimSpace(final[idx+1].Rank)
	}
	if lower != "" && upper != "" && lower >= upper {
		return "", false
	}
	r, err := rankBetweenUnique(taken, lower, upper)
	if err != nil {
		return "", false
	}
	return r, true
}

// smallestWindow returns the shortest [lo, hi] containing idx whose outer
// bounds leave room for new ranks. Ties go right when preferRight.
func smallestWindow(final []model.Lesson, idx int, preferRight bool) (lo, hi int) {
	n := len(final)
	usable := func(lo, hi int) bool {
		lower, upper := "", ""
		if lo > 0 {
			lower = strings.TrimSpace(final[lo-1].Rank)
		}
		if hi+1 < n {
			upper = strings.TrimSpace(final[hi+1].Rank)
		}
		_, err := RankBetween(lower, upper)
		return err == nil
	}
	for size := 1; size <= n; size++ {
		first := max(idx-size+1, 0)
		last := min(idx, n-size)
		if preferRight {
			for lo := last; lo >= first; lo-- {
				if usable(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
			continue
		}
		for lo := first; lo <= last; lo++ {
			if usable(lo, lo+size-1) {
				return lo, lo + size - 1
			}
		}
	}
	return 0, n - 1
}
