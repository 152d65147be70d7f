package reducers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

func TestMoveEntities_SingleCanvasBetweenRanges(t *testing.T) {
	state := seed(
		rangeEntity("range-a", "canvas-1", "canvas-2", "canvas-3"),
		rangeEntity("range-b", "canvas-4"),
	)

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"canvas-1"}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "range-a"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "range-b"), Key: "items", Index: domain.At(0)},
	})

	assert.Equal(t, []string{"canvas-2", "canvas-3"}, refIDs(get(next, domain.TypeRange, "range-a").Refs["items"]))
	assert.Equal(t, []string{"canvas-1", "canvas-4"}, refIDs(get(next, domain.TypeRange, "range-b").Refs["items"]))
}

func TestMoveEntities_SliceIntoEmptyRange(t *testing.T) {
	state := seed(
		rangeEntity("source", "c0", "c1", "c2", "c3", "c4", "c5"),
		rangeEntity("dest"),
	)

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{Slice: &domain.Slice{StartIndex: 3, Length: 3}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "source"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "dest"), Key: "items", Index: domain.At(0)},
	})

	assert.Equal(t, []string{"c0", "c1", "c2"}, refIDs(get(next, domain.TypeRange, "source").Refs["items"]))
	assert.Equal(t, []string{"c3", "c4", "c5"}, refIDs(get(next, domain.TypeRange, "dest").Refs["items"]))
}

func TestMoveEntities_SameListUsesPostRemovalIndex(t *testing.T) {
	state := seed(rangeEntity("r", "a", "b", "c", "d"))
	loc := domain.Location{Entity: domain.Ref(domain.TypeRange, "r"), Key: "items"}
	to := loc
	to.Index = domain.At(2)

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"a"}},
		From:     loc,
		To:       to,
	})

	// After removing "a" the list is [b c d]; index 2 lands before "d".
	assert.Equal(t, []string{"b", "c", "a", "d"}, refIDs(get(next, domain.TypeRange, "r").Refs["items"]))
}

func TestMoveEntities_Appends(t *testing.T) {
	state := seed(rangeEntity("a", "x", "y"), rangeEntity("b", "z"))

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"y", "x"}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "a"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "b"), Key: "items"},
	})

	assert.Empty(t, get(next, domain.TypeRange, "a").Refs["items"])
	assert.Equal(t, []string{"z", "y", "x"}, refIDs(get(next, domain.TypeRange, "b").Refs["items"]))
}

func TestMoveEntities_MissingSubjectIgnored(t *testing.T) {
	state := seed(rangeEntity("a", "x", "y"), rangeEntity("b"))

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"ghost", "y"}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "a"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "b"), Key: "items"},
	})

	assert.Equal(t, []string{"x"}, refIDs(get(next, domain.TypeRange, "a").Refs["items"]))
	assert.Equal(t, []string{"y"}, refIDs(get(next, domain.TypeRange, "b").Refs["items"]))

	allMissing := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"ghost"}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "a"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "b"), Key: "items"},
	})
	assert.Same(t, state, allMissing)
}

func TestMoveEntities_MissingDestinationIsNoop(t *testing.T) {
	state := seed(rangeEntity("a", "x"))

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"x"}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "a"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "missing"), Key: "items"},
	})

	assert.Same(t, state, next)
}

func TestMoveEntities_IntoUndeclaredItems(t *testing.T) {
	state := seed(
		rangeEntity("a", "x", "y"),
		domain.NewEntity(domain.TypeRange, "b"),
	)

	next := Reduce(state, domain.MoveEntities{
		Subjects: domain.Subjects{IDs: []string{"y"}},
		From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "a"), Key: "items"},
		To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "b"), Key: "items", Index: domain.At(3)},
	})

	assert.Equal(t, []string{"x"}, refIDs(get(next, domain.TypeRange, "a").Refs["items"]))
	assert.Equal(t, []string{"y"}, refIDs(get(next, domain.TypeRange, "b").Refs["items"]))
}

func TestMoveEntities_Conservation(t *testing.T) {
	tests := []struct {
		name     string
		subjects domain.Subjects
		index    *int
	}{
		{"ids", domain.Subjects{IDs: []string{"a2", "a0"}}, domain.At(1)},
		{"slice", domain.Subjects{Slice: &domain.Slice{StartIndex: 1, Length: 2}}, nil},
		{"slice past end", domain.Subjects{Slice: &domain.Slice{StartIndex: 2, Length: 10}}, domain.At(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name+" across lists", func(t *testing.T) {
			state := seed(rangeEntity("A", "a0", "a1", "a2", "a3"), rangeEntity("B", "b0", "b1"))
			next := Reduce(state, domain.MoveEntities{
				Subjects: tt.subjects,
				From:     domain.Location{Entity: domain.Ref(domain.TypeRange, "A"), Key: "items"},
				To:       domain.Location{Entity: domain.Ref(domain.TypeRange, "B"), Key: "items", Index: tt.index},
			})
			a := refIDs(get(next, domain.TypeRange, "A").Refs["items"])
			b := refIDs(get(next, domain.TypeRange, "B").Refs["items"])
			assert.Equal(t, 6, len(a)+len(b))
			assert.ElementsMatch(t, []string{"a0", "a1", "a2", "a3", "b0", "b1"}, append(a, b...))
		})

		t.Run(tt.name+" within a list", func(t *testing.T) {
			state := seed(rangeEntity("A", "a0", "a1", "a2", "a3"))
			loc := domain.Location{Entity: domain.Ref(domain.TypeRange, "A"), Key: "items"}
			to := loc
			to.Index = tt.index
			next := Reduce(state, domain.MoveEntities{Subjects: tt.subjects, From: loc, To: to})
			a := refIDs(get(next, domain.TypeRange, "A").Refs["items"])
			assert.Len(t, a, 4)
			assert.ElementsMatch(t, []string{"a0", "a1", "a2", "a3"}, a)
		})
	}
}
