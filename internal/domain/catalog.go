package domain

// ============================================================
// Static screens: cards, profile, transfer contacts
// ============================================================

// Card is a payment card shown on the Cards screen.
type Card struct {
	Brand          string `json:"brand"`
	LastFourDigits string `json:"lastFourDigits"`
	HolderName     string `json:"holderName,omitempty"`
	Expiry         string `json:"expiry,omitempty"` // MM/YY
	Primary        bool   `json:"primary"`
}

// CardsView is returned by GET /v1/cards.
type CardsView struct {
	Primary Card   `json:"primary"`
	Saved   []Card `json:"saved"`
}

// Profile is the account holder shown on the Profile screen.
type Profile struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
	CPF      string `json:"cpf"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Contact is a recent transfer recipient.
type Contact struct {
	Name string `json:"name"`
}

// ContactSelection is the notice shown after picking a contact.
type ContactSelection struct {
	Contact Contact `json:"contact"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
}
