package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session is what the CLI remembers between runs: the token pair and a
// local profile cache. The avatar never leaves this file.
type Session struct {
	Tokens
	UserID    string  `json:"user_id"`
	SessionID string  `json:"session_id"`
	Email     string  `json:"email,omitempty"`
	Profile   Profile `json:"profile"`
}

type Profile struct {
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

func (s *Session) LoggedIn() bool {
	return s.AccessToken != ""
}

type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

func (f *SessionFile) Path() string {
	return f.path
}

// Load returns an empty session when the file doesn't exist yet.
func (f *SessionFile) Load() (*Session, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	session := new(Session)
	err = json.Unmarshal(raw, session)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return session, nil
}

// Save writes the session readable by the owner only.
func (f *SessionFile) Save(session *Session) error {
	err := os.MkdirAll(filepath.Dir(f.path), 0o700)
	if err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := f.path + ".tmp"
	err = os.WriteFile(tmp, append(raw, '\n'), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *SessionFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
