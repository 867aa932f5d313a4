// Package service: intent_resolver.go implementa o IntentResolver.
//
// ============================================================
// ARQUITETURA: lista ordenada de regras (first match wins)
// ============================================================
//
// Cada regra é um par (predicado sobre o texto em minúsculas, produtor de
// resposta). As regras são avaliadas de cima para baixo e a primeira que
// casa vence; se nenhuma casa, o fallback responde.
//
// Ordem de prioridade:
//
//	sair/voltar → créditos do app → saudação → saldo → Pix → cartões →
//	pagamentos → recarga → câmbio → ajuda → agradecimento → fallback
//
// A lista é montada uma vez em NewIntentResolver e nunca muda. Ela é
// exposta via Rules() para os testes validarem a ordem diretamente.
package service

import (
	"fmt"
	"strings"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/domain"
	"github.com/braiatenebras/trabalhomobile-bryan/internal/chat/port"
	maindomain "github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
)

// ============================================================
// IntentRule
// ============================================================

// IntentRule casa um texto já em minúsculas e produz a resposta.
type IntentRule struct {
	Category domain.Category

	// Keywords: a regra casa se o texto contém qualquer uma delas.
	Keywords []string

	// Respond monta a resposta a partir do estado atual do app.
	Respond func(facts port.Facts) domain.Reply
}

// Matches diz se o texto (já em minúsculas) aciona a regra.
func (r IntentRule) Matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ============================================================
// IntentResolver
// ============================================================

// IntentResolver classifica texto livre numa das categorias fixas.
// É uma função pura do texto + saldo + snapshot: não guarda memória
// das mensagens anteriores.
type IntentResolver struct {
	rules    []IntentRule
	fallback IntentRule
}

// NewIntentResolver cria o resolver com as regras padrão do app.
func NewIntentResolver() *IntentResolver {
	return &IntentResolver{
		rules:    defaultRules(),
		fallback: fallbackRule(),
	}
}

// Rules devolve uma cópia das regras na ordem de avaliação.
func (r *IntentResolver) Rules() []IntentRule {
	out := make([]IntentRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Resolve classifica rawText e devolve a resposta pronta.
// Exatamente uma regra dispara: a primeira que casa, ou o fallback.
func (r *IntentResolver) Resolve(rawText string, facts port.Facts) domain.Reply {
	lower := strings.ToLower(rawText)
	for _, rule := range r.rules {
		if rule.Matches(lower) {
			return rule.Respond(facts)
		}
	}
	return r.fallback.Respond(facts)
}

// ============================================================
// Regras padrão
// ============================================================

func fixed(category domain.Category, text string) func(port.Facts) domain.Reply {
	return func(port.Facts) domain.Reply {
		return domain.Reply{Category: category, Response: text}
	}
}

func defaultRules() []IntentRule {
	return []IntentRule{
		{
			Category: domain.CategoryExit,
			Keywords: []string{"sair", "voltar", "home", "início", "inicio"},
			Respond: func(port.Facts) domain.Reply {
				return domain.Reply{
					Category:          domain.CategoryExit,
					Response:          "Clique no botão abaixo para voltar à tela inicial:",
					OfferReturnToHome: true,
				}
			},
		},
		{
			Category: domain.CategoryCredits,
			Keywords: []string{"site", "bryan", "criação"},
			Respond: fixed(domain.CategoryCredits,
				"Esse aplicativo em React Native foi criado e configurado por Bryan Kauan Fagundes! (3°D)."),
		},
		{
			Category: domain.CategoryGreeting,
			Keywords: []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite"},
			Respond: fixed(domain.CategoryGreeting,
				"Olá! Sou seu assistente bancário. Posso te ajudar com:\n\n• Saldo \n• Transferências Pix\n• Pagamentos\n• Cartões\n• Recargas"),
		},
		{
			Category: domain.CategoryBalance,
			Keywords: []string{"saldo", "dinheiro", "disponível"},
			Respond: func(facts port.Facts) domain.Reply {
				return domain.Reply{
					Category: domain.CategoryBalance,
					Response: fmt.Sprintf("Seu saldo atual é R$ %s.", maindomain.FormatBRL(facts.Balance)),
				}
			},
		},
		{
			Category: domain.CategoryPix,
			Keywords: []string{"pix", "transferência", "transferencia", "enviar dinheiro"},
			Respond: fixed(domain.CategoryPix,
				"Para fazer um Pix:\n1. Acesse a aba \"Pix\"\n2. Escolha o tipo de chave\n3. Digite o valor\n4. Confirme os dados\n\n"),
		},
		{
			Category: domain.CategoryCards,
			Keywords: []string{"cartão", "cartao", "crédito", "credito", "débito", "cartões", " debito"},
			Respond: fixed(domain.CategoryCards,
				"Na seção \"Meus cartões\" você pode:\n• Ver seus cartões\n• Bloquear cartões\n• Ajustar limites\n• Solicitar novos"),
		},
		{
			Category: domain.CategoryPayment,
			Keywords: []string{"pagar", "conta", "boleto", "qr code"},
			Respond: fixed(domain.CategoryPayment,
				"Para pagamentos:\n1. Toque em \"Pagar\"\n2. Escaneie o código\n3. Confirme os dados\n4. Autorize o pagamento"),
		},
		{
			Category: domain.CategoryRecharge,
			Keywords: []string{"recarga", "celular", "créditos"},
			Respond: fixed(domain.CategoryRecharge,
				"Recarregue seu celular:\n1. Vá em \"Recarga\"\n2. Digite o número\n3. Escolha o valor\n4. Confirme"),
		},
		{
			Category: domain.CategoryCurrency,
			Keywords: []string{"câmbio", "cambio", "moeda", "dólar", "dolar", "euro"},
			Respond:  currencyReply,
		},
		{
			Category: domain.CategoryHelp,
			Keywords: []string{"ajuda", "comandos", "opções", "o que você faz"},
			Respond: fixed(domain.CategoryHelp,
				"Posso ajudar com:\n\n• Consultas de saldo\n• Instruções sobre Pix\n• Informações de cartões\n• Pagamento de contas\n• Recarga de celular\n• Conversão de moedas"),
		},
		{
			Category: domain.CategoryThanks,
			Keywords: []string{"obrigado", "obrigada", "valeu", "tchau"},
			Respond: fixed(domain.CategoryThanks,
				"Por nada! Estou aqui sempre que precisar. Tenha um ótimo dia!"),
		},
	}
}

func fallbackRule() IntentRule {
	return IntentRule{
		Category: domain.CategoryFallback,
		Respond: fixed(domain.CategoryFallback,
			"Não entendi completamente. Posso te ajudar com:\n• Site\n• Saldo\n• Pix\n• Cartões\n• Pagamentos\n• Recargas\n• Conversão de saldo\n\nO que você precisa?"),
	}
}

// chatCurrencies são as moedas listadas na resposta de câmbio do chat.
var chatCurrencies = []maindomain.CurrencyDisplay{
	{Code: "USD", Name: "Dólar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "Libra", Symbol: "£"},
}

// currencyReply converte o saldo atual. Sem snapshot, a regra continua
// vencendo sua posição mas responde que as cotações não carregaram.
func currencyReply(facts port.Facts) domain.Reply {
	if facts.Snapshot == nil {
		return domain.Reply{
			Category: domain.CategoryCurrencyUnavailable,
			Response: "As cotações ainda não foram carregadas. Tente novamente em instantes.",
		}
	}

	lines := make([]string, 0, len(chatCurrencies))
	for _, c := range chatCurrencies {
		converted, ok := facts.Snapshot.Convert(facts.Balance, c.Code)
		if !ok {
			lines = append(lines, c.Name+": indisponível")
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s%s", c.Name, c.Symbol, maindomain.FormatFixed(converted)))
	}

	return domain.Reply{
		Category: domain.CategoryCurrency,
		Response: "Seu saldo em outras moedas:\n\n" + strings.Join(lines, "\n"),
	}
}
