package locallist

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	items []Item
	saves int
	err   error
}

func (m *memoryStorage) Load() ([]Item, error) {
	items := make([]Item, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (m *memoryStorage) Save(items []Item) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.items = make([]Item, len(items))
	copy(m.items, items)
	return nil
}

type scriptedPrompter struct {
	alerts    []string
	prompts   []string
	confirms  []string
	answer    string
	answered  bool
	confirmed bool
}

func (p *scriptedPrompter) Alert(message string) {
	p.alerts = append(p.alerts, message)
}

func (p *scriptedPrompter) Prompt(message, defaultValue string) (string, bool) {
	p.prompts = append(p.prompts, message+"|"+defaultValue)
	return p.answer, p.answered
}

func (p *scriptedPrompter) Confirm(message string) bool {
	p.confirms = append(p.confirms, message)
	return p.confirmed
}

func newTestStore(t *testing.T, items ...Item) (*Store, *memoryStorage, *scriptedPrompter) {
	t.Helper()
	storage := &memoryStorage{items: items}
	prompter := &scriptedPrompter{}
	store, err := New(zerolog.Nop(), storage, prompter)
	require.NoError(t, err)
	return store, storage, prompter
}

func TestStoreAdd(t *testing.T) {
	store, storage, prompter := newTestStore(t)

	require.NoError(t, store.Add("  Buy milk "))
	assert.Equal(t, []Item{{Text: "Buy milk"}}, store.Items())
	assert.Equal(t, store.Items(), storage.items)

	err := store.Add("   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, []string{"Please enter a task."}, prompter.alerts)
	assert.Len(t, store.Items(), 1)
	assert.Equal(t, 1, storage.saves)
}

func TestStoreToggle(t *testing.T) {
	store, storage, _ := newTestStore(t, Item{Text: "Buy milk"})

	require.NoError(t, store.Toggle(0))
	assert.True(t, storage.items[0].Completed)
	require.NoError(t, store.Toggle(0))
	assert.False(t, storage.items[0].Completed)

	assert.ErrorIs(t, store.Toggle(1), ErrIndexOutOfRange)
	assert.ErrorIs(t, store.Toggle(-1), ErrIndexOutOfRange)
}

func TestStoreEdit(t *testing.T) {
	store, storage, prompter := newTestStore(t, Item{Text: "Buy milk"})

	prompter.answered = false
	changed, err := store.Edit(0)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"Edit your task:|Buy milk"}, prompter.prompts)

	prompter.answer, prompter.answered = "   ", true
	changed, err = store.Edit(0)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, storage.saves)

	prompter.answer = " Buy oat milk "
	changed, err = store.Edit(0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Buy oat milk", storage.items[0].Text)

	_, err = store.Edit(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStoreRemove(t *testing.T) {
	store, _, prompter := newTestStore(t, Item{Text: "a"}, Item{Text: "b"})

	removed, err := store.Remove(0)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []string{"Are you sure you want to delete this task?"}, prompter.confirms)
	assert.Len(t, store.Items(), 2)

	prompter.confirmed = true
	removed, err = store.Remove(0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []Item{{Text: "b"}}, store.Items())
}

func TestStoreFilterCompletedPreservesOrder(t *testing.T) {
	store, _, _ := newTestStore(t,
		Item{Text: "a", Completed: true},
		Item{Text: "b"},
		Item{Text: "c", Completed: true},
		Item{Text: "d"},
	)

	completed, err := store.Filter(FilterCompleted)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Index: 0, Item: Item{Text: "a", Completed: true}},
		{Index: 2, Item: Item{Text: "c", Completed: true}},
	}, completed)

	active, err := store.Filter(FilterActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, 1, active[0].Index)
	assert.Equal(t, 3, active[1].Index)

	all, err := store.Filter(FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = store.Filter("someday")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestStoreClearCompleted(t *testing.T) {
	store, storage, _ := newTestStore(t,
		Item{Text: "done 1", Completed: true},
		Item{Text: "todo"},
		Item{Text: "done 2", Completed: true},
	)

	removed, err := store.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []Item{{Text: "todo"}}, store.Items())
	assert.Equal(t, []Item{{Text: "todo"}}, storage.items)
}

func TestStoreSaveFailure(t *testing.T) {
	before := []Item{
		{Text: "a", Completed: true},
		{Text: "b"},
	}
	store, storage, prompter := newTestStore(t, before...)
	storage.err = errors.New("disk full")
	prompter.answer, prompter.answered = "changed", true
	prompter.confirmed = true

	assert.EqualError(t, store.Add("Buy milk"), "disk full")
	assert.EqualError(t, store.Toggle(1), "disk full")

	edited, err := store.Edit(0)
	assert.EqualError(t, err, "disk full")
	assert.False(t, edited)

	removed, err := store.Remove(0)
	assert.EqualError(t, err, "disk full")
	assert.False(t, removed)

	n, err := store.ClearCompleted()
	assert.EqualError(t, err, "disk full")
	assert.Zero(t, n)

	assert.Equal(t, before, store.Items())
}

func TestStoreFilterRejectsUnknownMode(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Filter("done")
	assert.ErrorIs(t, err, ErrUnknownFilter)

	require.NoError(t, store.Add("Buy milk"))
	_, err = store.Filter("done")
	assert.ErrorIs(t, err, ErrUnknownFilter)

	entries, err := store.Filter("")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
