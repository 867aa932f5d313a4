package service

import (
	"fmt"
	"strings"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/domain"
)

// Catalog serves the read-only screens: cards, profile and transfer contacts.
type Catalog struct {
	cards    domain.CardsView
	profile  domain.Profile
	contacts []domain.Contact
}

// NewCatalog returns the fixtures shown by the app.
func NewCatalog() *Catalog {
	return &Catalog{
		cards: domain.CardsView{
			Primary: domain.Card{
				Brand:          "VISA",
				LastFourDigits: "1234",
				HolderName:     "Bryan K. Fagundes",
				Expiry:         "12/25",
				Primary:        true,
			},
			Saved: []domain.Card{
				{Brand: "Mastercard", LastFourDigits: "5678"},
				{Brand: "Elo", LastFourDigits: "9012"},
			},
		},
		profile: domain.Profile{
			Name:     "Bryan Kauan Fagundes",
			Headline: "3°D - Desenvolvimento de Sistemas",
			CPF:      "123.456.789-00",
			Email:    "bryan@escola.com",
			Phone:    "(11) 98765-4321",
		},
		contacts: []domain.Contact{
			{Name: "Giovane"},
			{Name: "Maidel"},
			{Name: "Jiane"},
		},
	}
}

// Cards returns the primary and saved cards.
func (c *Catalog) Cards() domain.CardsView {
	view := c.cards
	view.Saved = append([]domain.Card(nil), c.cards.Saved...)
	return view
}

// Profile returns the account holder.
func (c *Catalog) Profile() domain.Profile {
	return c.profile
}

// Contacts returns the recent transfer recipients.
func (c *Catalog) Contacts() []domain.Contact {
	return append([]domain.Contact(nil), c.contacts...)
}

// Contact finds a recipient by name, case-insensitively.
func (c *Catalog) Contact(name string) (domain.Contact, error) {
	for _, ct := range c.contacts {
		if strings.EqualFold(ct.Name, strings.TrimSpace(name)) {
			return ct, nil
		}
	}
	return domain.Contact{}, &domain.ErrNotFound{Resource: "contact", ID: name}
}

// contactSelection is the notice shown after picking ct.
func contactSelection(ct domain.Contact) *domain.ContactSelection {
	return &domain.ContactSelection{
		Contact: ct,
		Title:   fmt.Sprintf("%s selecionado", ct.Name),
		Message: "Digite o valor e confirme a transferência",
	}
}
