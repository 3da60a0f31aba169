package conversation

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"SaborBot/bot/chat"
	"SaborBot/entity"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu            sync.Mutex
	blockedErr    error
	blocked       map[string]bool
	greeted       map[string]bool
	handoffs      map[string]bool
	attendances   map[string]entity.Attendance
	drafts        map[string]entity.RegistrationDraft
	registrations []entity.Registration
	nextID        int64
	pending       map[string]entity.PendingAction
	messages      []entity.MessageLogEntry
}

func newMemStore() *memStore {
	return &memStore{
		blocked:     make(map[string]bool),
		greeted:     make(map[string]bool),
		handoffs:    make(map[string]bool),
		attendances: make(map[string]entity.Attendance),
		drafts:      make(map[string]entity.RegistrationDraft),
		pending:     make(map[string]entity.PendingAction),
	}
}

func (s *memStore) IsBlocked(_ context.Context, chatID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blockedErr != nil {
		return false, s.blockedErr
	}
	return s.blocked[chatID], nil
}

func (s *memStore) LogMessage(_ context.Context, entry entity.MessageLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, entry)
	return nil
}

func (s *memStore) IsGreeted(_ context.Context, chatID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.greeted[chatID], nil
}

func (s *memStore) MarkGreeted(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.greeted[chatID] = true
	return nil
}

func (s *memStore) ResetGreeting(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.greeted, chatID)
	return nil
}

func (s *memStore) ListGreetedChats(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range s.greeted {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) ClearGreetings(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.greeted = make(map[string]bool)
	return nil
}

func (s *memStore) InHandoff(_ context.Context, chatID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handoffs[chatID], nil
}

func (s *memStore) StartHandoff(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handoffs[chatID] = true
	return nil
}

func (s *memStore) EndHandoff(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handoffs, chatID)
	return nil
}

func (s *memStore) ListHandoffChats(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range s.handoffs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) ClearHandoffs(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handoffs = make(map[string]bool)
	return nil
}

func (s *memStore) GetAttendance(_ context.Context, chatID string) (*entity.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	att, ok := s.attendances[chatID]
	if !ok {
		return nil, nil
	}
	return &att, nil
}

func (s *memStore) UpsertAttendance(_ context.Context, att entity.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendances[att.ChatID] = att
	return nil
}

func (s *memStore) DeleteAttendance(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attendances, chatID)
	return nil
}

func (s *memStore) ListActiveAttendances(_ context.Context, since time.Time) ([]entity.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var atts []entity.Attendance
	for _, att := range s.attendances {
		if !att.LastActivity.Before(since) {
			atts = append(atts, att)
		}
	}
	return atts, nil
}

func (s *memStore) ClearAttendances(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendances = make(map[string]entity.Attendance)
	return nil
}

func (s *memStore) GetDraft(_ context.Context, chatID string) (*entity.RegistrationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[chatID]
	if !ok {
		return nil, nil
	}
	return &draft, nil
}

func (s *memStore) SaveDraft(_ context.Context, draft entity.RegistrationDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ChatID] = draft
	return nil
}

func (s *memStore) DeleteDraft(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, chatID)
	return nil
}

func (s *memStore) ListDraftChats(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range s.drafts {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) ClearDrafts(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = make(map[string]entity.RegistrationDraft)
	return nil
}

func (s *memStore) CreateRegistration(_ context.Context, reg entity.Registration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	reg.ID = s.nextID
	s.registrations = append(s.registrations, reg)
	return reg.ID, nil
}

func (s *memStore) ListRegistrations(_ context.Context) ([]entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Registration(nil), s.registrations...), nil
}

func (s *memStore) DeleteRegistration(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reg := range s.registrations {
		if reg.ID == id {
			s.registrations = append(s.registrations[:i], s.registrations[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) ClearRegistrations(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations = nil
	return nil
}

func (s *memStore) GetPendingAction(_ context.Context, chatID string) (*entity.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.pending[chatID]
	if !ok {
		return nil, nil
	}
	return &action, nil
}

func (s *memStore) SavePendingAction(_ context.Context, action entity.PendingAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[action.ChatID] = action
	return nil
}

func (s *memStore) ClearPendingAction(_ context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, chatID)
	return nil
}

// fakeMessenger records every outbound message.
type fakeMessenger struct {
	mu    sync.Mutex
	sent  []sentMessage
	files []sentFile
}

type sentMessage struct {
	chatID string
	text   string
}

type sentFile struct {
	chatID   string
	filename string
	caption  string
	body     string
}

func (m *fakeMessenger) SendText(chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (m *fakeMessenger) SendFile(chatID string, file chat.FileMessage) error {
	body, _ := io.ReadAll(file.Reader)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, sentFile{
		chatID:   chatID,
		filename: file.Filename,
		caption:  file.Caption,
		body:     string(body),
	})
	return nil
}

// lastTo returns the latest message sent to chatID, or "".
func (m *fakeMessenger) lastTo(chatID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].chatID == chatID {
			return m.sent[i].text
		}
	}
	return ""
}

func (m *fakeMessenger) allTo(chatID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var texts []string
	for _, s := range m.sent {
		if s.chatID == chatID {
			texts = append(texts, s.text)
		}
	}
	return texts
}

func (m *fakeMessenger) anyContains(chatID, substr string) bool {
	for _, text := range m.allTo(chatID) {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

func (m *fakeMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeContacts resolves names and reachability from fixed maps.
type fakeContacts struct {
	names        map[string]string
	unregistered map[string]bool
}

func (c *fakeContacts) DisplayName(chatID string) string {
	return c.names[chatID]
}

func (c *fakeContacts) IsRegistered(chatID string) (bool, error) {
	return !c.unregistered[chatID], nil
}

// fakeGate is an in-memory bot switch.
type fakeGate struct {
	mu     sync.Mutex
	status entity.BotStatus
}

func (g *fakeGate) Get(_ context.Context) (entity.BotStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == "" {
		return entity.BotActive, nil
	}
	return g.status, nil
}

func (g *fakeGate) Set(_ context.Context, status entity.BotStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
	return nil
}

const (
	adminChat    = "5511000000001@c.us"
	customerChat = "5511999999999@c.us"
)

func testEngine() (*Engine, *memStore, *fakeMessenger, *fakeGate) {
	store := newMemStore()
	gate := &fakeGate{}
	m := &fakeMessenger{}
	contacts := &fakeContacts{
		names:        map[string]string{customerChat: "Maria"},
		unregistered: map[string]bool{"5511888888888@c.us": true},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := NewEngine(store, gate, m, contacts, Options{
		Admins:        []string{adminChat},
		AdminChatId:   adminChat,
		ChatIdSuffix:  "@c.us",
		CountryPrefix: "55",
		Timeout:       time.Hour,
	}, log)
	return engine, store, m, gate
}

func send(e *Engine, from, body string) error {
	return e.HandleMessage(context.Background(), chat.Message{From: from, Body: body, ID: "msg-1"})
}
