// Package conversation drives the per-user chat flow: which input is
// acceptable at each step, when to validate, extract, persist, and what to
// reply.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docline/internal/extract"
	"docline/internal/ocr"
	"docline/internal/session"
	"docline/internal/sheet"
	"docline/internal/validate"
)

// EventKind classifies an inbound message-platform event.
type EventKind int

const (
	EventText EventKind = iota
	EventImage
	EventOther
)

// Event is one inbound chat event.
type Event struct {
	UserID     string
	ReplyToken string
	Kind       EventKind
	Text       string
	MessageID  string
}

// MediaFetcher retrieves the photograph referenced by an image event.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, messageID string) ([]byte, string, error)
}

// Archive keeps an audit copy of fetched media. Failures are non-fatal.
type Archive interface {
	Save(filename string, data []byte) (string, error)
}

// RecordStore persists and queries extracted records.
type RecordStore interface {
	Persist(ctx context.Context, employeeCode string, rec extract.Record) error
	FindByIdentifier(ctx context.Context, employeeCode, identifier string) (*sheet.Row, error)
	FindBySecondaryID(ctx context.Context, employeeCode, secondaryID string) ([]sheet.Row, error)
	FindByName(ctx context.Context, employeeCode, name string) ([]sheet.Row, error)
	CountByDate(ctx context.Context, employeeCode, date string) (int, error)
}

// Config holds the machine's tunables.
type Config struct {
	// SessionTimeout expires inactive non-Idle sessions, checked lazily.
	SessionTimeout time.Duration
	// SearchTimeout bounds how long a search flow may sit waiting.
	SearchTimeout time.Duration
	// MaxImages is how many records one upload batch collects before it
	// persists.
	MaxImages int
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		SessionTimeout: 60 * time.Second,
		SearchTimeout:  2 * time.Minute,
		MaxImages:      2,
	}
}

// Machine is the conversation state machine. Handle processes exactly one
// event start to finish while holding the identity's lock.
type Machine struct {
	sessions   *session.Repository
	locks      *session.Locks
	engine     *extract.Engine
	media      MediaFetcher
	recognizer ocr.Recognizer
	archive    Archive
	records    RecordStore
	timeSource session.TimeSource
	cfg        Config
}

// NewMachine creates a new Machine
func NewMachine(
	sessions *session.Repository,
	engine *extract.Engine,
	media MediaFetcher,
	recognizer ocr.Recognizer,
	archive Archive,
	records RecordStore,
	timeSource session.TimeSource,
	cfg Config,
) *Machine {
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = DefaultConfig().MaxImages
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = DefaultConfig().SessionTimeout
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultConfig().SearchTimeout
	}
	return &Machine{
		sessions:   sessions,
		locks:      session.NewLocks(),
		engine:     engine,
		media:      media,
		recognizer: recognizer,
		archive:    archive,
		records:    records,
		timeSource: timeSource,
		cfg:        cfg,
	}
}

// Handle processes one inbound event and returns the reply text. A non-nil
// error is a collaborator failure: the event is aborted with the session in
// its pre-event state, except for the explicitly-reported partial persist
// case. An empty reply with nil error means no response is owed.
func (m *Machine) Handle(ctx context.Context, ev Event) (string, error) {
	release := m.locks.Acquire(ev.UserID)
	defer release()

	sess := m.sessions.GetOrCreate(ev.UserID)

	// Lazy expiry runs before anything else; the expired event itself is
	// not processed further.
	if m.expired(sess) {
		m.sessions.Reset(ev.UserID)
		return replyTimeout, nil
	}

	switch ev.Kind {
	case EventText:
		return m.handleText(ctx, sess, strings.TrimSpace(ev.Text))
	case EventImage:
		return m.handleImage(ctx, sess, ev.MessageID)
	default:
		return "", nil
	}
}

// expired applies the upload timeout through the repository's inactivity
// check; search flows get the longer waiting budget instead.
func (m *Machine) expired(sess *session.Session) bool {
	if sess.Mode == session.ModeSearch {
		return m.timeSource.Now().Sub(sess.SearchWaitingSince) > m.cfg.SearchTimeout
	}
	return m.sessions.IsExpired(sess, m.cfg.SessionTimeout)
}

func (m *Machine) handleText(ctx context.Context, sess *session.Session, text string) (string, error) {
	// Cancel and help precede all state dispatch.
	switch {
	case text == cmdCancel:
		if sess.Mode == session.ModeIdle {
			return replyCancelIdle, nil
		}
		m.sessions.Reset(sess.UserID)
		return replyCancelDone, nil
	case text == cmdHelp || strings.EqualFold(text, cmdHelpEN):
		return replyHelp, nil
	}

	switch sess.Mode {
	case session.ModeIdle:
		return m.handleIdleText(sess, text)
	case session.ModeUpload:
		return m.handleUploadText(sess, text)
	case session.ModeSearch:
		return m.handleSearchText(ctx, sess, text)
	}
	return replyIdleGuidance, nil
}

func (m *Machine) handleIdleText(sess *session.Session, text string) (string, error) {
	switch text {
	case cmdStartUpload:
		sess.Mode = session.ModeUpload
		sess.Step = session.StepWaitingCode
		sess.EmployeeCode = ""
		sess.Records = nil
		m.sessions.Touch(sess)
		return replyAskCode, nil
	case cmdStartSearch:
		sess.Mode = session.ModeSearch
		sess.Step = session.StepWaitingCode
		sess.SearchType = session.SearchNone
		sess.SearchWaitingSince = m.timeSource.Now()
		m.sessions.Touch(sess)
		return replyAskCode, nil
	default:
		return replyIdleGuidance, nil
	}
}

func (m *Machine) handleUploadText(sess *session.Session, text string) (string, error) {
	switch sess.Step {
	case session.StepWaitingCode:
		code, ok := validate.EmployeeCode(text)
		if !ok {
			return replyBadCode, nil
		}
		sess.EmployeeCode = code
		sess.Step = session.StepWaitingImage
		sess.Records = nil
		m.sessions.Touch(sess)
		return fmt.Sprintf(replyCodeOK, code, m.cfg.MaxImages), nil
	case session.StepWaitingImage:
		m.sessions.Touch(sess)
		return replyWaitingImage, nil
	}
	return replyIdleGuidance, nil
}

func (m *Machine) handleSearchText(ctx context.Context, sess *session.Session, text string) (string, error) {
	switch sess.Step {
	case session.StepWaitingCode:
		code, ok := validate.EmployeeCode(text)
		if !ok {
			return replyBadCode, nil
		}
		sess.EmployeeCode = code
		sess.Step = session.StepChooseType
		m.sessions.Touch(sess)
		return replySearchMenu, nil

	case session.StepChooseType:
		searchType, prompt, ok := parseSearchType(text)
		if !ok {
			m.sessions.Touch(sess)
			return replySearchMenu, nil
		}
		sess.SearchType = searchType
		sess.Step = session.StepWaitingValue
		sess.SearchWaitingSince = m.timeSource.Now()
		m.sessions.Touch(sess)
		return prompt, nil

	case session.StepWaitingValue:
		if sess.SearchType == session.SearchByDate && !validate.DateDMY(text) {
			return replyBadDate, nil
		}
		result, err := m.runSearch(ctx, sess, text)
		if err != nil {
			return "", err
		}
		m.sessions.Reset(sess.UserID)
		return result, nil
	}
	return replyIdleGuidance, nil
}

func parseSearchType(text string) (session.SearchType, string, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "1", "BN":
		return session.SearchByIdentifier, replyAskIdentifier, true
	case "2", "HN":
		return session.SearchBySecondaryID, replyAskSecondaryID, true
	case "3", "ชื่อ":
		return session.SearchByName, replyAskName, true
	case "4", "วันที่":
		return session.SearchByDate, replyAskDate, true
	}
	return session.SearchNone, "", false
}

func (m *Machine) runSearch(ctx context.Context, sess *session.Session, value string) (string, error) {
	switch sess.SearchType {
	case session.SearchByIdentifier:
		row, err := m.records.FindByIdentifier(ctx, sess.EmployeeCode, value)
		if err != nil {
			return "", fmt.Errorf("searching by identifier: %w", err)
		}
		if row == nil {
			return replyNoMatch, nil
		}
		return formatRow(row), nil

	case session.SearchBySecondaryID:
		rows, err := m.records.FindBySecondaryID(ctx, sess.EmployeeCode, value)
		if err != nil {
			return "", fmt.Errorf("searching by secondary id: %w", err)
		}
		return formatRows(rows), nil

	case session.SearchByName:
		rows, err := m.records.FindByName(ctx, sess.EmployeeCode, value)
		if err != nil {
			return "", fmt.Errorf("searching by name: %w", err)
		}
		return formatRows(rows), nil

	case session.SearchByDate:
		count, err := m.records.CountByDate(ctx, sess.EmployeeCode, value)
		if err != nil {
			return "", fmt.Errorf("counting by date: %w", err)
		}
		return fmt.Sprintf(replyCountByDate, value, count), nil
	}
	return replyNoMatch, nil
}

func formatRow(row *sheet.Row) string {
	return fmt.Sprintf("🔎 พบรายการ\nBN: %s\nHN: %s\nชื่อ: %s\nวันที่: %s\nรวม: %s",
		dash(row.Identifier), dash(row.SecondaryID), dash(row.Name), dash(row.Date), dash(row.Total))
}

func formatRows(rows []sheet.Row) string {
	if len(rows) == 0 {
		return replyNoMatch
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 พบ %d รายการ", len(rows))
	for i, row := range rows {
		fmt.Fprintf(&b, "\n%d. BN %s | %s | %s", i+1, dash(row.Identifier), dash(row.Name), dash(row.Date))
	}
	return b.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m *Machine) handleImage(ctx context.Context, sess *session.Session, messageID string) (string, error) {
	if sess.Mode != session.ModeUpload || sess.Step != session.StepWaitingImage {
		return replyImageOutsideFlow, nil
	}

	data, contentType, err := m.media.FetchMedia(ctx, messageID)
	if err != nil {
		return "", fmt.Errorf("fetching media %s: %w", messageID, err)
	}

	pngData, _, err := ocr.PrepareImage(data, contentType)
	if err != nil {
		// Undecodable media is an input problem, not a collaborator failure.
		slog.Warn("Failed to prepare media", "message_id", messageID, "error", err)
		return replyUnreadable, nil
	}

	if m.archive != nil {
		if _, err := m.archive.Save(messageID+".png", pngData); err != nil {
			slog.Warn("Failed to archive media", "message_id", messageID, "error", err)
		}
	}

	text, err := m.recognizer.RecognizeText(ctx, pngData, "image/png")
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		m.sessions.Touch(sess)
		return replyUnreadable, nil
	}

	kind, ok := m.engine.Detect(text)
	if !ok {
		m.sessions.Touch(sess)
		return replyShapeReject, nil
	}

	rec := m.engine.Extract(kind, text, m.timeSource.Now())
	if receipt, isReceipt := rec.(*extract.Receipt); isReceipt && receipt.Identifier == "" {
		m.sessions.Touch(sess)
		return replyMissingIdentifier, nil
	}

	sess.Records = append(sess.Records, rec)
	m.sessions.Touch(sess)

	if len(sess.Records) < m.cfg.MaxImages {
		return fmt.Sprintf(replyNextImage, len(sess.Records), m.cfg.MaxImages-len(sess.Records)), nil
	}

	return m.persistBatch(ctx, sess)
}

// persistBatch stores the collected records in original order, then resets
// the session. A mid-batch failure is reported to the user explicitly: rows
// already persisted cannot be withdrawn.
func (m *Machine) persistBatch(ctx context.Context, sess *session.Session) (string, error) {
	total := len(sess.Records)
	saved := 0
	for _, rec := range sess.Records {
		if err := m.records.Persist(ctx, sess.EmployeeCode, rec); err != nil {
			m.sessions.Reset(sess.UserID)
			return fmt.Sprintf(replyPartialFailure, saved, total-saved),
				fmt.Errorf("persisting record %d of %d: %w", saved+1, total, err)
		}
		saved++
	}

	var b strings.Builder
	fmt.Fprintf(&b, replySavedHeader, total, sess.EmployeeCode)
	for _, rec := range sess.Records {
		b.WriteString("\n\n")
		b.WriteString(rec.Summary())
	}

	m.sessions.Reset(sess.UserID)
	return b.String(), nil
}
