package conversation

import (
	"SaborBot/entity"
	"fmt"
	"strings"
	"time"
)

const mainMenu = "🍕 *Bem-vindo à Pizzaria Sabor Italiano!* 😊\n" +
	"1️⃣ - Fazer um pedido\n" +
	"2️⃣ - Acompanhar pedido\n" +
	"3️⃣ - Confirmar pagamento\n" +
	"4️⃣ - Ver cardápio\n" +
	"5️⃣ - Falar com um atendente\n" +
	"💬 Digite o número da opção desejada (ex.: 1, 2, 3, 4, 5), *cadastro* para cadastrar sua pizzaria ou *menu* para voltar."

const adminMenu = "📋 *Menu Administrativo* 🔐\n" +
	"1️⃣ - Resetar atendimentos\n" +
	"2️⃣ - Resetar saudados\n" +
	"3️⃣ - Resetar cadastros\n" +
	"4️⃣ - Resetar banco inteiro\n" +
	"5️⃣ - Listar cadastros\n" +
	"6️⃣ - Exportar cadastros (CSV)\n" +
	"7️⃣ - Deletar cadastro específico\n" +
	"8️⃣ - Listar atendimentos em andamento\n" +
	"9️⃣ - Intervir em atendimento (parar bot)\n" +
	"🔟 - Reativar bot para usuário\n" +
	"1️⃣1️⃣ - Resetar saudação para usuário\n" +
	"1️⃣2️⃣ - Parar bot geral\n" +
	"1️⃣3️⃣ - Reativar bot geral\n" +
	"💬 Digite o número da opção desejada ou *cancelar* para voltar."

var menuReplies = map[string]string{
	"1": "🍕 *Fazer um pedido:* 🛒\nClique no link para fazer seu pedido diretamente no nosso site: https://minhaloja.systemautojk.com.br/\n\n🔙 Digite *voltar* para o menu principal.",
	"2": "📦 *Acompanhar pedido:* 🚚\nPor favor, informe o número do seu pedido para verificarmos o status. Um atendente irá ajudá-lo em breve.\n\nDigite *Finalizar atendimento* quando quiser voltar ao menu principal.",
	"3": "💳 *Confirmar pagamento:* ✅\nPor favor, envie o ID da transação ou comprovante de pagamento para verificarmos. Um atendente irá ajudá-lo em breve.\n\nDigite *Finalizar atendimento* quando quiser voltar ao menu principal.",
	"4": "📋 *Ver cardápio:* 🍕\nConfira nosso cardápio digital em: https://minhaloja.systemautojk.com.br/\nOu peça aqui e receba a lista de nossas pizzas! 😋\n\n🔙 Digite *voltar* para o menu principal.",
	"5": "👨‍💼 *Falar com um atendente:* ⏳\nAguarde um momento, estamos encaminhando sua solicitação para um de nossos atendentes.\nPor favor, escreva como podemos ajudar para agilizarmos o atendimento.\n\nDigite *Finalizar atendimento* quando quiser voltar ao menu principal.",
}

// Options whose selection hands the chat over to a human agent.
var handoffOptions = map[string]string{
	"2": "📩 Novo pedido de acompanhamento:",
	"3": "📩 Novo pedido de confirmação de pagamento:",
	"5": "📩 Novo pedido de atendimento:",
}

var numberWords = map[string]string{
	"um": "1", "dois": "2", "tres": "3", "três": "3", "quatro": "4", "cinco": "5",
}

const (
	msgClosed        = "🍕 *Pizzaria Sabor Italiano* 🍕\n\nEstamos temporariamente fechados. Voltaremos em breve! 😊"
	msgInternalError = "⚠️ Ocorreu um erro interno. Tente novamente mais tarde."
	msgRestricted    = "⛔ Comando restrito! Você não tem permissão para usar comandos admin."
	msgInvalidOption = "❌ *Opção inválida.*\n" +
		"Digite *1*, *2*, *3*, *4* ou *5* para escolher uma opção.\n" +
		"Ou digite *menu* para voltar ao menu principal."
	msgInvalidAdminOption = "❌ Opção inválida. Digite um número de 1 a 13 ou *cancelar* para voltar."
	msgConfirmOrCancel    = "❌ Por favor, digite *sim* para confirmar ou *cancelar* para voltar ao menu admin."
	msgInvalidChatId      = "❌ Chat ID inválido. Deve terminar com %s (ex.: 5511999999999%s)"

	msgRegistrationName        = "🔄 Cadastro iniciado. Por favor, informe seu nome completo.\n\nDigite *menu* ou *cancelar* para voltar ao menu principal."
	msgRegistrationRestart     = "🔄 Cadastro reiniciado. Por favor, informe seu nome completo."
	msgRegistrationBadName     = "❌ Por favor, informe um nome válido (mínimo 2 caracteres). \n\nDigite *menu* ou *cancelar* para voltar ao menu principal."
	msgRegistrationBadBusiness = "❌ Por favor, informe um nome válido para a pizzaria (mínimo 3 caracteres). \n\nDigite *menu* ou *cancelar* para voltar ao menu principal."
	msgRegistrationBadPhone    = "❌ Número inválido. Informe um número no formato 11999999999 ou digite *sim* para usar o número atual. \n\nDigite *menu* ou *cancelar* para voltar ao menu principal."
	msgRegistrationUnreachable = "❌ O número informado não está registrado no WhatsApp. Informe outro número ou digite *sim* para usar o número atual."
	msgRegistrationBusiness    = "🍽️ Qual é o nome da sua pizzaria? \n\nDigite *menu* ou *cancelar* para voltar ao menu principal."
	msgRegistrationCheckin     = "❌ Por favor, digite *sim* para confirmar o cadastro, *recomeçar* para reiniciar ou *menu* para voltar ao menu principal."
)

func welcomeText(name string) string {
	return fmt.Sprintf("👋 Olá, %s! Bem-vindo(a) à Pizzaria Sabor Italiano! 🍕 Como posso ajudar você hoje? 😊\n\n%s", name, mainMenu)
}

func backToMenuText() string {
	return "🔄 Voltando ao menu principal...\n\n" + mainMenu
}

func attendanceClosedText() string {
	return "✅ Atendimento finalizado. \n\n" + mainMenu
}

func reactivatedText() string {
	return "🔄 Atendimento finalizado. \n\n" + mainMenu
}

// InactivityNotice is the text sent to chats expired by the sweeper.
func InactivityNotice() string {
	return "🔄 Seu atendimento foi finalizado por inatividade. \n\n" + mainMenu
}

func reactivationHint(chatID string) string {
	return fmt.Sprintf("ℹ️ Use *reativar %s* para reativar o bot para este usuário.", chatID)
}

func formatRegistrations(regs []entity.Registration, suffix string) string {
	if len(regs) == 0 {
		return "📋 *Lista de Cadastros*\n\nNenhum cadastro encontrado."
	}
	var sb strings.Builder
	sb.WriteString("📋 *Lista de Cadastros*\n\n")
	for i, reg := range regs {
		sb.WriteString(fmt.Sprintf("%d. Nome: %s\n", i+1, reg.Name))
		sb.WriteString(fmt.Sprintf("   Número: %s\n", waLink(reg.Phone, suffix)))
		sb.WriteString(fmt.Sprintf("   Pizzaria: %s\n", reg.BusinessName))
		sb.WriteString(fmt.Sprintf("   Contato: %s\n", waLink(reg.OriginChatID, suffix)))
		sb.WriteString(fmt.Sprintf("   Data: %s\n\n", reg.CreatedAt.Format("02/01/2006 15:04")))
	}
	return sb.String()
}

// FormatOverview renders the dashboard session breakdown as chat text for
// the admin menu listing.
func FormatOverview(o *entity.SessionOverview) string {
	var sb strings.Builder
	sb.WriteString("📋 *Status dos Usuários*\n\n")
	total := 0

	writeGroup := func(header string, entries []entity.ChatEntry) {
		if len(entries) == 0 {
			return
		}
		sb.WriteString(header + "\n")
		for _, e := range entries {
			name := e.DisplayName
			if name == "" {
				name = "Desconhecido"
			}
			if e.Label != "" {
				sb.WriteString(fmt.Sprintf("• %s (%s) [%s]\n", name, e.ChatID, e.Label))
			} else {
				sb.WriteString(fmt.Sprintf("• %s (%s)\n", name, e.ChatID))
			}
			total++
		}
		sb.WriteString("\n")
	}

	writeGroup("👨‍💼 *Em Atendimento Manual:*", o.Attended)
	writeGroup("🛑 *Em Intervenção (Bot Pausado):*", o.InHandoff)
	writeGroup("📝 *Em Cadastro (preenchendo dados):*", o.InRegistration)
	writeGroup("🏠 *No Menu Principal:*", o.Menu)

	if total == 0 {
		sb.WriteString("Nenhum usuário ativo no momento.")
	}
	return sb.String()
}

func registrationSummary(draft entity.RegistrationDraft, suffix string) string {
	return "📋 *Resumo do Cadastro*\n\n" +
		fmt.Sprintf("Nome: %s\n", draft.Name) +
		fmt.Sprintf("Número Cadastrado: %s\n", waLink(draft.Phone, suffix)) +
		fmt.Sprintf("Pizzaria: %s\n\n", draft.BusinessName) +
		"✅ Tudo correto? Digite *sim* para finalizar, *recomeçar* para reiniciar o cadastro ou *menu* para voltar ao menu principal."
}

func registrationAdminNotice(reg entity.Registration, suffix string) string {
	return "📋 *Novo Cadastro para Pizzaria*\n\n" +
		fmt.Sprintf("Nome: %s\n", reg.Name) +
		fmt.Sprintf("Número Cadastrado: %s\n", waLink(reg.Phone, suffix)) +
		fmt.Sprintf("Pizzaria: %s\n", reg.BusinessName) +
		fmt.Sprintf("Número do Contato: %s", waLink(reg.OriginChatID, suffix))
}

func newCustomerNotice(name, chatID, suffix string) string {
	return fmt.Sprintf("📩 Novo cliente recebido:\n\nNome: %s\nNúmero: %s", name, waLink(chatID, suffix))
}

func handoffNotice(header, name, chatID, suffix string) string {
	return fmt.Sprintf("%s\n\nNome: %s\nNúmero: %s", header, name, waLink(chatID, suffix))
}

func orderNotice(name, chatID, suffix, body string) string {
	return fmt.Sprintf("📩 *Novo pedido do site recebido:*\n\nNome: %s\nNúmero: %s\nDetalhes do pedido:\n%s",
		name, waLink(chatID, suffix), body)
}

func exportCaption(count int, at time.Time) string {
	return fmt.Sprintf("📊 Aqui está o export de cadastros em CSV (%d registros, %s).",
		count, at.Format("02/01/2006 15:04"))
}
