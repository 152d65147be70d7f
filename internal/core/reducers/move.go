package reducers

import "github.com/custodia-labs/iiif-vault/internal/core/domain"

// moveEntities relocates subjects from one reference list to another.
//
// Subjects are selected from the source list before it is modified, removed
// from it preserving the order of the remainder, then spliced into the
// destination. The destination index is applied to the destination list as
// it stands after the removal, which matters when both ends are the same list.
func moveEntities(entities domain.Entities, a domain.MoveEntities) (domain.Entities, bool) {
	source, ok := lookup(entities, a.From.Entity)
	if !ok {
		return entities, false
	}
	sourceList, isList := source.RefList(a.From.Key)
	if !isList {
		return entities, false
	}
	dest, ok := lookup(entities, a.To.Entity)
	if !ok {
		return entities, false
	}
	if _, isList := dest.ListField(a.To.Key); !isList {
		return entities, false
	}

	positions := selectSubjects(sourceList, a.Subjects)
	if len(positions) == 0 {
		return entities, false
	}

	moved := make([]domain.Reference, len(positions))
	drop := make(map[int]bool, len(positions))
	for i, pos := range positions {
		moved[i] = sourceList[pos]
		drop[pos] = true
	}
	remaining := make([]domain.Reference, 0, len(sourceList)-len(positions))
	for i, ref := range sourceList {
		if !drop[i] {
			remaining = append(remaining, ref)
		}
	}

	sameEntity := source.Type == dest.Type && source.ID == dest.ID
	nextSource := source.Clone()
	nextSource.Refs[a.From.Key] = remaining

	nextDest := nextSource
	if !sameEntity {
		nextDest = dest.Clone()
	}
	destList := nextDest.Refs[a.To.Key]

	index := len(destList)
	if a.To.Index != nil {
		index = clamp(*a.To.Index, 0, len(destList))
	}
	nextDest.Refs[a.To.Key] = insert(destList, index, moved...)

	if sameEntity {
		return put(entities, nextSource), true
	}
	return put(entities, nextSource, nextDest), true
}

// selectSubjects returns the source positions of the subjects, in the order
// they will be inserted. Subjects missing from the source are skipped.
func selectSubjects(list []domain.Reference, subjects domain.Subjects) []int {
	if subjects.Slice != nil {
		start := clamp(subjects.Slice.StartIndex, 0, len(list))
		end := clamp(start+subjects.Slice.Length, start, len(list))
		positions := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			positions = append(positions, i)
		}
		return positions
	}

	taken := make(map[int]bool, len(subjects.IDs))
	positions := make([]int, 0, len(subjects.IDs))
	for _, id := range subjects.IDs {
		for i := range list {
			if !taken[i] && list[i].MatchID() == id {
				taken[i] = true
				positions = append(positions, i)
				break
			}
		}
	}
	return positions
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
