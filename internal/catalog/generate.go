package catalog

import (
	"fmt"
	"sort"
)

// Generate produces the complete ordered catalog. existing maps record ID to
// a previously saved record; groups marked Preserve keep those records
// verbatim so hand edits survive regeneration, the remaining groups are
// always rebuilt from their axis patterns. Output is sorted by ID and is
// byte-identical across runs with the same inputs.
func Generate(existing map[int]MetricRecord) ([]MetricRecord, error) {
	records := make([]MetricRecord, 0, Groups[len(Groups)-1].EndID)
	for _, g := range Groups {
		for id := g.StartID; id <= g.EndID; id++ {
			if g.Preserve {
				if rec, ok := existing[id]; ok {
					records = append(records, rec)
					continue
				}
			}
			rec, err := Synthesize(id, g.Name)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// GroupTally reports how one group was filled during a rebuild.
type GroupTally struct {
	Group       GroupRange
	FromSource  int
	Synthesized int
}

// Rebuild reassigns canonical IDs to a source export whose IDs have
// drifted. Records are bucketed by chartGroup; each group takes at most its
// declared count from the source (in source order) and renumbers them from
// the group's start ID. Missing tail entries are synthesized from the axis
// patterns. Result is sorted by ID.
func Rebuild(source []MetricRecord) ([]MetricRecord, []GroupTally, error) {
	byGroup := make(map[string][]MetricRecord)
	for _, rec := range source {
		byGroup[rec.ChartGroup] = append(byGroup[rec.ChartGroup], rec)
	}

	var records []MetricRecord
	tallies := make([]GroupTally, 0, len(Groups))
	for _, g := range Groups {
		tally := GroupTally{Group: g}
		src := byGroup[g.Name]
		if len(src) > g.Count() {
			src = src[:g.Count()]
		}
		for i, rec := range src {
			rec.ID = g.StartID + i
			records = append(records, rec)
			tally.FromSource++
		}
		for id := g.StartID + len(src); id <= g.EndID; id++ {
			rec, err := Synthesize(id, g.Name)
			if err != nil {
				return nil, nil, err
			}
			records = append(records, rec)
			tally.Synthesized++
		}
		tallies = append(tallies, tally)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, tallies, nil
}

// GroupStatus is one row of a Verify report.
type GroupStatus struct {
	Group GroupRange
	Got   int
	OK    bool
}

// Verify checks the catalog against the taxonomy: every group present with
// exactly its declared count, every ID inside its group's range, no
// duplicates. The error describes the first structural violation; the
// statuses cover all groups regardless.
func Verify(records []MetricRecord) ([]GroupStatus, error) {
	seen := make(map[int]bool, len(records))
	counts := make(map[string]int)
	var firstErr error
	for _, rec := range records {
		if seen[rec.ID] {
			if firstErr == nil {
				firstErr = fmt.Errorf("catalog: duplicate id %d", rec.ID)
			}
			continue
		}
		seen[rec.ID] = true
		counts[rec.ChartGroup]++

		g, ok := GroupByName(rec.ChartGroup)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("catalog: id %d has unknown chart group %q", rec.ID, rec.ChartGroup)
			}
			continue
		}
		if rec.ID < g.StartID || rec.ID > g.EndID {
			if firstErr == nil {
				firstErr = fmt.Errorf("catalog: id %d outside range %d-%d for group %q",
					rec.ID, g.StartID, g.EndID, g.Name)
			}
		}
	}

	statuses := make([]GroupStatus, 0, len(Groups))
	for _, g := range Groups {
		got := counts[g.Name]
		ok := got == g.Count()
		if !ok && firstErr == nil {
			firstErr = fmt.Errorf("catalog: group %q has %d records, want %d", g.Name, got, g.Count())
		}
		statuses = append(statuses, GroupStatus{Group: g, Got: got, OK: ok})
	}
	return statuses, firstErr
}
