package conversation

import (
	"strings"
	"testing"

	"SaborBot/entity"
)

func openAdminMenu(t *testing.T, engine *Engine, store *memStore) {
	t.Helper()
	store.greeted[adminChat] = true
	if err := send(engine, adminChat, "mudarmenu"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := store.pending[adminChat].Action; got != entity.ActionAdminMenu {
		t.Fatalf("pending action = %q, want %q", got, entity.ActionAdminMenu)
	}
}

func TestAdminMenuOpens(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	openAdminMenu(t, engine, store)

	if !m.anyContains(adminChat, "Menu Administrativo") {
		t.Fatal("admin menu not shown")
	}
}

func TestAdminResetStoreConfirmFlow(t *testing.T) {
	t.Parallel()
	engine, store, m, gate := testEngine()
	store.greeted[customerChat] = true
	store.handoffs[customerChat] = true
	store.attendances[customerChat] = entity.Attendance{ChatID: customerChat}
	store.drafts[customerChat] = entity.RegistrationDraft{ChatID: customerChat, Step: stepName}
	store.registrations = []entity.Registration{{ID: 1, Name: "Maria"}}

	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "4"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := store.pending[adminChat].Action; got != entity.ActionResetStore {
		t.Fatalf("pending action = %q, want %q", got, entity.ActionResetStore)
	}
	if !strings.Contains(m.lastTo(adminChat), "Confirmar reset do banco") {
		t.Fatalf("expected confirm prompt, got %q", m.lastTo(adminChat))
	}

	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(store.attendances) != 0 || len(store.handoffs) != 0 ||
		len(store.drafts) != 0 || len(store.registrations) != 0 {
		t.Fatal("store not fully cleared")
	}
	if len(store.greeted) != 0 {
		t.Fatal("greetings not cleared")
	}
	if got := store.pending[adminChat].Action; got != entity.ActionAdminMenu {
		t.Fatalf("pending after confirm = %q, want re-armed %q", got, entity.ActionAdminMenu)
	}
	if gate.status == entity.BotStopped {
		t.Fatal("reset must not touch the bot switch")
	}

	// A stray second "sim" hits the menu option parser.
	store.greeted[adminChat] = true
	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(m.lastTo(adminChat), "Opção inválida") {
		t.Fatalf("second sim reply = %q, want invalid option", m.lastTo(adminChat))
	}
}

func TestAdminResetIsIdempotent(t *testing.T) {
	t.Parallel()
	engine, store, _, _ := testEngine()
	openAdminMenu(t, engine, store)

	for i := 0; i < 2; i++ {
		if err := send(engine, adminChat, "1"); err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if err := send(engine, adminChat, "sim"); err != nil {
			t.Fatalf("reset round %d error = %v", i, err)
		}
	}
}

func TestAdminCancelAtConfirmReturnsToMenu(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	store.greeted[customerChat] = true
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "2"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := send(engine, adminChat, "cancelar"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if got := store.pending[adminChat].Action; got != entity.ActionAdminMenu {
		t.Fatalf("pending = %q, want %q", got, entity.ActionAdminMenu)
	}
	if !store.greeted[customerChat] {
		t.Fatal("cancel must not execute the reset")
	}
	if !strings.Contains(m.lastTo(adminChat), "Menu Administrativo") {
		t.Fatal("admin menu not re-shown after cancel")
	}
}

func TestAdminLeaveMenu(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "cancelar"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if _, ok := store.pending[adminChat]; ok {
		t.Fatal("pending action not cleared on leaving the menu")
	}
	if !strings.Contains(m.lastTo(adminChat), "menu principal") {
		t.Fatalf("expected main menu, got %q", m.lastTo(adminChat))
	}
}

func TestAdminListRegistrationsKeepsMenu(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	store.registrations = []entity.Registration{{ID: 1, Name: "Maria", Phone: "5511988887777@c.us", BusinessName: "Pizza Bella"}}
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "5"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !m.anyContains(adminChat, "Pizza Bella") {
		t.Fatal("listing missing the registration")
	}
	if got := store.pending[adminChat].Action; got != entity.ActionAdminMenu {
		t.Fatalf("pending = %q, want menu kept", got)
	}
}

func TestAdminExportSendsCSV(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	store.registrations = []entity.Registration{{ID: 1, Name: "Maria", Phone: "5511988887777@c.us", BusinessName: "Pizza Bella"}}
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "6"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if len(m.files) != 1 {
		t.Fatalf("files sent = %d, want 1", len(m.files))
	}
	file := m.files[0]
	if file.chatID != adminChat {
		t.Fatalf("file sent to %q", file.chatID)
	}
	if !strings.HasSuffix(file.filename, ".csv") {
		t.Fatalf("filename = %q", file.filename)
	}
	if !strings.Contains(file.body, "Pizza Bella") {
		t.Fatal("csv body missing the registration")
	}
}

func TestAdminDeleteRegistrationFlow(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	store.registrations = []entity.Registration{{ID: 7, Name: "Maria"}}
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "7"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := store.pending[adminChat].Action; got != entity.ActionAwaitRegistrationID {
		t.Fatalf("pending = %q, want %q", got, entity.ActionAwaitRegistrationID)
	}

	if err := send(engine, adminChat, "deletarcadastro 7"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	pending := store.pending[adminChat]
	if pending.Action != entity.ActionDeleteRegistration || pending.Parameter != "7" {
		t.Fatalf("pending = %+v", pending)
	}
	if len(store.registrations) != 1 {
		t.Fatal("delete must wait for confirmation")
	}

	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(store.registrations) != 0 {
		t.Fatal("registration not deleted after confirm")
	}
	if !m.anyContains(adminChat, "deletado com sucesso") {
		t.Fatal("missing success reply")
	}
}

func TestAdminInterveneFlow(t *testing.T) {
	t.Parallel()
	engine, store, _, _ := testEngine()
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "9"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := send(engine, adminChat, "intervir "+customerChat); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if store.handoffs[customerChat] {
		t.Fatal("intervention must wait for confirmation")
	}

	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !store.handoffs[customerChat] {
		t.Fatal("intervention did not start the handoff")
	}
}

func TestAdminReactivateFlowConfirmsFirst(t *testing.T) {
	t.Parallel()
	engine, store, _, _ := testEngine()
	store.handoffs[customerChat] = true
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "10"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	// With the prompt pending, the reativar text feeds the confirm flow
	// instead of the bare shortcut.
	if err := send(engine, adminChat, "reativar "+customerChat); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !store.handoffs[customerChat] {
		t.Fatal("reactivation must wait for confirmation")
	}

	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if store.handoffs[customerChat] {
		t.Fatal("handoff not cleared after confirm")
	}
}

func TestAdminInterveneRejectsBadChatId(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "9"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := send(engine, adminChat, "intervir 12345"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if got := store.pending[adminChat].Action; got != entity.ActionAwaitIntervention {
		t.Fatalf("pending = %q, want to stay waiting", got)
	}
	if !strings.Contains(m.lastTo(adminChat), "Chat ID inválido") {
		t.Fatalf("expected invalid chat id reply, got %q", m.lastTo(adminChat))
	}
}

func TestAdminStopAndStartBot(t *testing.T) {
	t.Parallel()
	engine, store, m, gate := testEngine()
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "12"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if gate.status != entity.BotStopped {
		t.Fatalf("gate = %q, want stopped", gate.status)
	}

	// The customer now only sees the closed notice.
	store.greeted[customerChat] = true
	if err := send(engine, customerChat, "oi"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(m.lastTo(customerChat), "fechados") {
		t.Fatalf("expected closed notice, got %q", m.lastTo(customerChat))
	}

	if err := send(engine, adminChat, "13"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := send(engine, adminChat, "sim"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if gate.status != entity.BotActive {
		t.Fatalf("gate = %q, want active", gate.status)
	}
}

func TestAdminInvalidOption(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "42"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(m.lastTo(adminChat), "Opção inválida") {
		t.Fatalf("expected invalid admin option, got %q", m.lastTo(adminChat))
	}
}

func TestAdminConfirmReprompt(t *testing.T) {
	t.Parallel()
	engine, store, m, _ := testEngine()
	openAdminMenu(t, engine, store)

	if err := send(engine, adminChat, "2"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := send(engine, adminChat, "talvez"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(m.lastTo(adminChat), "digite *sim*") {
		t.Fatalf("expected confirm reprompt, got %q", m.lastTo(adminChat))
	}
	if got := store.pending[adminChat].Action; got != entity.ActionResetGreetings {
		t.Fatalf("pending = %q, must stay at confirm", got)
	}
}
