package session

import (
	"time"

	"docline/internal/extract"
)

// Mode is the top-level conversation mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeUpload
	ModeSearch
)

// Step is the mode-specific sub-state.
type Step int

const (
	StepNone Step = iota
	StepWaitingCode
	StepWaitingImage
	StepChooseType
	StepWaitingValue
)

// SearchType selects which query the search flow will run.
type SearchType int

const (
	SearchNone SearchType = iota
	SearchByIdentifier
	SearchBySecondaryID
	SearchByName
	SearchByDate
)

// Session is the per-user conversation state. It is owned by the Repository
// and mutated in place while a per-identity lock is held.
type Session struct {
	UserID             string
	Mode               Mode
	Step               Step
	EmployeeCode       string
	Records            []extract.Record
	LastActivity       time.Time
	SearchType         SearchType
	SearchWaitingSince time.Time
}

func newSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:       userID,
		Mode:         ModeIdle,
		Step:         StepNone,
		LastActivity: now,
	}
}
