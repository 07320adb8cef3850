// Package notify renders and delivers Discord webhook notifications.
// Delivery is fire and forget: failures are logged and never bubble
// into the business flow that triggered them.
package notify

import (
	"fmt"
	"time"

	"github.com/vultos-swap/internal/constants"
	"github.com/vultos-swap/internal/models"
)

// EmbedField is a single name/value row inside a Discord embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

// WebhookMessage is the Discord webhook request body.
type WebhookMessage struct {
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds"`
}

func newEmbed(title string, color int, fields []EmbedField) WebhookMessage {
	return WebhookMessage{
		Embeds: []Embed{{
			Title:     title,
			Color:     color,
			Fields:    fields,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
}

func moneyBRL(m models.Money) string {
	return "R$ " + m.String()
}

// BuildLeadCreated renders the intake notification for a new ticket.
func BuildLeadCreated(lead *models.Lead) WebhookMessage {
	fields := []EmbedField{
		{Name: "Ticket", Value: lead.LeadCode, Inline: true},
		{Name: "Afiliado", Value: lead.AffiliateCode, Inline: true},
		{Name: "Cliente", Value: lead.ClientName, Inline: true},
		{Name: "Valor", Value: moneyBRL(lead.TransactionValue), Inline: true},
		{Name: "Taxa", Value: lead.FeePercent.String() + "%", Inline: true},
		{Name: "Comissão Estimada", Value: moneyBRL(lead.AffiliateCommission), Inline: true},
	}
	if lead.CryptoCoin != "" {
		fields = append(fields, EmbedField{Name: "Moeda", Value: lead.CryptoCoin, Inline: true})
	}
	return newEmbed("Nova Lead Registrada", constants.EmbedColorBlue, fields)
}

// BuildSaleConfirmed renders the confirmation notification.
func BuildSaleConfirmed(lead *models.Lead) WebhookMessage {
	fields := []EmbedField{
		{Name: "Ticket", Value: lead.LeadCode, Inline: true},
		{Name: "Afiliado", Value: lead.AffiliateCode, Inline: true},
		{Name: "Valor", Value: moneyBRL(lead.TransactionValue), Inline: true},
		{Name: "Lucro Total", Value: moneyBRL(lead.TotalProfit), Inline: true},
		{Name: "Comissão", Value: moneyBRL(lead.AffiliateCommission), Inline: true},
	}
	if lead.CascadeCode != "" {
		fields = append(fields,
			EmbedField{Name: "Indicador", Value: lead.CascadeCode, Inline: true},
			EmbedField{Name: "Comissão de Indicação", Value: moneyBRL(lead.CascadeCommission), Inline: true},
		)
	}
	return newEmbed("Venda Confirmada", constants.EmbedColorGreen, fields)
}

// BuildCascadeCredit renders the recruiter's share of a confirmed
// sale made by one of their referrals.
func BuildCascadeCredit(lead *models.Lead) WebhookMessage {
	fields := []EmbedField{
		{Name: "Ticket", Value: lead.LeadCode, Inline: true},
		{Name: "Seu Indicado", Value: lead.AffiliateCode, Inline: true},
		{Name: "Valor", Value: moneyBRL(lead.TransactionValue), Inline: true},
		{Name: "Lucro Total", Value: moneyBRL(lead.TotalProfit), Inline: true},
		{Name: "Comissão Cascata", Value: lead.CascadePercent.String() + "%", Inline: true},
		{Name: "Você Ganhou", Value: moneyBRL(lead.CascadeCommission), Inline: true},
	}
	return newEmbed("Comissão Cascata Recebida", constants.EmbedColorPurple, fields)
}

// BuildWithdrawalRequested renders the payout request notification.
func BuildWithdrawalRequested(req *models.WithdrawalRequest) WebhookMessage {
	fields := []EmbedField{
		{Name: "Solicitação", Value: fmt.Sprintf("#%d", req.ID), Inline: true},
		{Name: "Afiliado", Value: req.AffiliateCode, Inline: true},
		{Name: "Valor", Value: moneyBRL(req.Amount), Inline: true},
		{Name: "Método", Value: req.Method, Inline: true},
	}
	if req.Method == constants.WithdrawalMethodCrypto {
		fields = append(fields,
			EmbedField{Name: "Moeda", Value: req.CryptoCoin, Inline: true},
			EmbedField{Name: "Rede", Value: req.CryptoNetwork, Inline: true},
		)
	}
	return newEmbed("Saque Solicitado", constants.EmbedColorOrange, fields)
}

// BuildWithdrawalStatusChanged renders the payout decision notification.
func BuildWithdrawalStatusChanged(req *models.WithdrawalRequest) WebhookMessage {
	color := constants.EmbedColorBlue
	switch req.Status {
	case constants.WithdrawalStatusCompleted:
		color = constants.EmbedColorGreen
	case constants.WithdrawalStatusRejected:
		color = constants.EmbedColorRed
	}
	fields := []EmbedField{
		{Name: "Solicitação", Value: fmt.Sprintf("#%d", req.ID), Inline: true},
		{Name: "Afiliado", Value: req.AffiliateCode, Inline: true},
		{Name: "Valor", Value: moneyBRL(req.Amount), Inline: true},
		{Name: "Status", Value: req.Status, Inline: true},
	}
	if req.Notes != "" {
		fields = append(fields, EmbedField{Name: "Observações", Value: req.Notes})
	}
	return newEmbed("Status de Saque Atualizado", color, fields)
}

// BuildAffiliateCreated renders the onboarding notification.
func BuildAffiliateCreated(affiliate *models.Affiliate) WebhookMessage {
	fields := []EmbedField{
		{Name: "Nome", Value: affiliate.Name, Inline: true},
		{Name: "Código", Value: affiliate.AffiliateCode, Inline: true},
		{Name: "Nível", Value: affiliate.Tier, Inline: true},
		{Name: "Comissão", Value: affiliate.Commission.String() + "%", Inline: true},
	}
	if affiliate.ReferredBy != "" {
		fields = append(fields, EmbedField{Name: "Indicado por", Value: affiliate.ReferredBy, Inline: true})
	}
	return newEmbed("Novo Afiliado", constants.EmbedColorBlue, fields)
}
