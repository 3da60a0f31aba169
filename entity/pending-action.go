package entity

// Pending admin actions. Await* actions expect a follow-up argument, the
// rest expect a yes/cancel confirmation.
const (
	ActionAdminMenu          = "menu_admin"
	ActionResetAttendances   = "reset_atendimentos"
	ActionResetGreetings     = "reset_saudados"
	ActionResetRegistrations = "reset_cadastros"
	ActionResetStore         = "reset_banco"
	ActionDeleteRegistration = "deletar_cadastro"
	ActionStopBot            = "parar_bot_geral"
	ActionStartBot           = "reativar_bot_geral"
	ActionIntervene          = "intervir"
	ActionReactivate         = "reativar_usuario"
	ActionResetGreeting      = "resetar_saudacao"

	ActionAwaitRegistrationID = "aguardar_id_cadastro"
	ActionAwaitIntervention   = "aguardar_intervencao"
	ActionAwaitReactivation   = "aguardar_reativacao"
	ActionAwaitGreetingReset  = "aguardar_resetsaudacao"
)

// PendingAction is the stored admin sub-machine state for an authorized chat.
type PendingAction struct {
	ChatID    string `json:"chat_id" bson:"chat_id"`
	Action    string `json:"action" bson:"action"`
	Parameter string `json:"parameter" bson:"parameter"`
}
