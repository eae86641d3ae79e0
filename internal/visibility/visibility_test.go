package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/studytime/internal/model"
)

var base = time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

func task(id string, mutate func(*model.Task)) model.Task {
	t := model.Task{ID: id, Title: id, CreatedAt: base, UpdatedAt: base}
	if mutate != nil {
		mutate(&t)
	}
	return t
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyCreatedDescIsStable(t *testing.T) {
	tasks := []model.Task{
		task("c", func(t *model.Task) { t.CreatedAt = base.Add(2 * time.Hour) }),
		task("b1", func(t *model.Task) { t.CreatedAt = base.Add(time.Hour) }),
		task("b2", func(t *model.Task) { t.CreatedAt = base.Add(time.Hour) }),
		task("a", nil),
	}
	got := Apply(tasks, DefaultFilters())
	assert.Equal(t, []string{"c", "b1", "b2", "a"}, ids(got))

	reordered := []model.Task{tasks[0], tasks[2], tasks[1], tasks[3]}
	assert.Equal(t, []string{"c", "b2", "b1", "a"}, ids(Apply(reordered, DefaultFilters())))
}

func TestApplyPriorityDescTreatsAbsentAsLow(t *testing.T) {
	tasks := []model.Task{
		task("low", func(t *model.Task) { t.Priority = model.PriorityLow }),
		task("high", func(t *model.Task) { t.Priority = model.PriorityHigh }),
		task("medium", func(t *model.Task) { t.Priority = model.PriorityMedium }),
		task("absent", nil),
	}
	f := DefaultFilters()
	f.SortBy = SortPriorityDesc
	assert.Equal(t, []string{"high", "medium", "low", "absent"}, ids(Apply(tasks, f)))
}

func TestApplyDueSortsMissingFirstAscendingLastDescending(t *testing.T) {
	tasks := []model.Task{
		task("later", func(t *model.Task) { t.Due = "2026-03-01" }),
		task("none", nil),
		task("sooner", func(t *model.Task) { t.Due = "2026-02-10" }),
	}
	f := DefaultFilters()
	f.SortBy = SortDueAsc
	assert.Equal(t, []string{"none", "sooner", "later"}, ids(Apply(tasks, f)))
	f.SortBy = SortDueDesc
	assert.Equal(t, []string{"later", "sooner", "none"}, ids(Apply(tasks, f)))
}

func TestApplyFilters(t *testing.T) {
	tasks := []model.Task{
		task("essay", func(t *model.Task) { t.Title = "Essay draft"; t.Priority = model.PriorityHigh }),
		task("math", func(t *model.Task) { t.Title = "Math"; t.Description = "ESSAY questions"; t.Completed = true }),
		task("gym", func(t *model.Task) { t.Title = "Gym" }),
	}

	f := DefaultFilters()
	f.SortBy = SortCreatedAsc
	f.Query = "  essay "
	assert.Equal(t, []string{"essay", "math"}, ids(Apply(tasks, f)))

	f.Status = StatusActive
	assert.Equal(t, []string{"essay"}, ids(Apply(tasks, f)))

	f = DefaultFilters()
	f.SortBy = SortCreatedAsc
	f.Status = StatusCompleted
	assert.Equal(t, []string{"math"}, ids(Apply(tasks, f)))

	f = DefaultFilters()
	f.SortBy = SortCreatedAsc
	f.Priority = string(model.PriorityLow)
	assert.Equal(t, []string{"math", "gym"}, ids(Apply(tasks, f)), "absent priority filters as low")
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	tasks := []model.Task{
		task("a", nil),
		task("b", func(t *model.Task) { t.CreatedAt = base.Add(time.Hour) }),
	}
	_ = Apply(tasks, DefaultFilters())
	assert.Equal(t, []string{"a", "b"}, ids(tasks))
}

func TestParsers(t *testing.T) {
	s, err := ParseStatus("Active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)
	_, err = ParseStatus("pending")
	assert.Error(t, err)

	p, err := ParsePriorityFilter("ALL")
	require.NoError(t, err)
	assert.Equal(t, PriorityAll, p)
	_, err = ParsePriorityFilter("urgent")
	assert.Error(t, err)

	m, err := ParseSortMode("due-desc")
	require.NoError(t, err)
	assert.Equal(t, SortDueDesc, m)
	assert.Equal(t, SortCreatedDesc, SortPriorityDesc.Next())
	assert.Equal(t, StatusAll, StatusCompleted.Next())
}
