// Package locallist is the single-user to-do list kept on the local
// machine, with no account and no server.
package locallist

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	FilterAll       = "all"
	FilterActive    = "active"
	FilterCompleted = "completed"
)

const (
	emptyTextAlert = "Please enter a task."
	editPrompt     = "Edit your task:"
	removeConfirm  = "Are you sure you want to delete this task?"
)

var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrIndexOutOfRange = errors.New("task index out of range")
	ErrUnknownFilter   = errors.New("unknown filter")
)

type Item struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Entry is an item together with its position in the full list.
type Entry struct {
	Index int
	Item
}

type Storage interface {
	Load() ([]Item, error)
	Save(items []Item) error
}

// Prompter asks the user. Prompt returns false when the user cancels.
type Prompter interface {
	Alert(message string)
	Prompt(message, defaultValue string) (string, bool)
	Confirm(message string) bool
}

type Store struct {
	logger   zerolog.Logger
	storage  Storage
	prompter Prompter

	mu    sync.Mutex
	items []Item
}

// New loads the persisted list. A missing list starts empty.
func New(logger zerolog.Logger, storage Storage, prompter Prompter) (*Store, error) {
	s := &Store{
		logger:   logger,
		storage:  storage,
		prompter: prompter,
	}
	err := s.Reload()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory list with what storage holds now.
func (s *Store) Reload() error {
	items, err := s.storage.Load()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load list")
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug().
		Int("count", len(items)).
		Msg("loaded list")
	return nil
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) Add(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		s.prompter.Alert(emptyTextAlert)
		return ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.copyItems()
	items = append(items, Item{Text: text})
	return s.commit(items)
}

func (s *Store) Toggle(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inRange(index) {
		return ErrIndexOutOfRange
	}
	items := s.copyItems()
	items[index].Completed = !items[index].Completed
	return s.commit(items)
}

// Edit prompts for a replacement text. Cancelling or entering a blank
// text leaves the item alone and reports false.
func (s *Store) Edit(index int) (bool, error) {
	s.mu.Lock()
	if !s.inRange(index) {
		s.mu.Unlock()
		return false, ErrIndexOutOfRange
	}
	current := s.items[index].Text
	s.mu.Unlock()

	text, ok := s.prompter.Prompt(editPrompt, current)
	if !ok {
		return false, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(index) {
		return false, ErrIndexOutOfRange
	}
	items := s.copyItems()
	items[index].Text = text
	err := s.commit(items)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove asks for confirmation first and reports whether the item went.
func (s *Store) Remove(index int) (bool, error) {
	s.mu.Lock()
	inRange := s.inRange(index)
	s.mu.Unlock()
	if !inRange {
		return false, ErrIndexOutOfRange
	}

	if !s.prompter.Confirm(removeConfirm) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inRange(index) {
		return false, ErrIndexOutOfRange
	}
	items := make([]Item, 0, len(s.items)-1)
	items = append(items, s.items[:index]...)
	items = append(items, s.items[index+1:]...)
	err := s.commit(items)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Filter returns the matching items in list order with their indices.
func (s *Store) Filter(mode string) ([]Entry, error) {
	switch mode {
	case FilterAll, "", FilterActive, FilterCompleted:
	default:
		return nil, ErrUnknownFilter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.items))
	for i, item := range s.items {
		if mode == FilterActive && item.Completed ||
			mode == FilterCompleted && !item.Completed {
			continue
		}
		entries = append(entries, Entry{Index: i, Item: item})
	}
	return entries, nil
}

// ClearCompleted drops every completed item and returns how many went.
func (s *Store) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if !item.Completed {
			kept = append(kept, item)
		}
	}
	removed := len(s.items) - len(kept)
	err := s.commit(kept)
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// commit persists items and only then makes them the current list,
// so a failed save leaves the store as it was. mu must be held.
func (s *Store) commit(items []Item) error {
	err := s.storage.Save(items)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to save list")
		return err
	}
	s.items = items

	s.logger.Debug().
		Int("count", len(items)).
		Msg("saved list")
	return nil
}

// copyItems must be called with mu held.
func (s *Store) copyItems() []Item {
	items := make([]Item, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return items
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.items)
}
