package domain

import "fmt"

// ============================================================
// Screens & navigation events
// ============================================================

// Screen is the active view of the app. Exactly one is active at a time.
type Screen string

const (
	ScreenHome     Screen = "Home"
	ScreenPix      Screen = "Pix"
	ScreenRecharge Screen = "Recharge"
	ScreenPay      Screen = "Pay"
	ScreenTransfer Screen = "Transfer"
	ScreenCards    Screen = "Cards"
	ScreenProfile  Screen = "Profile"
	ScreenChatbot  Screen = "Chatbot"
)

// Screens lists every screen in display order.
var Screens = []Screen{
	ScreenHome, ScreenPix, ScreenRecharge, ScreenPay,
	ScreenTransfer, ScreenCards, ScreenProfile, ScreenChatbot,
}

// ParseScreen validates a screen name.
func ParseScreen(name string) (Screen, error) {
	for _, s := range Screens {
		if string(s) == name {
			return s, nil
		}
	}
	return "", &ErrValidation{Field: "target", Message: fmt.Sprintf("tela desconhecida: %q", name)}
}

// NavEventType names what caused a navigation request.
type NavEventType string

const (
	// NavTap is a user tap on a control that opens Target.
	NavTap NavEventType = "tap"
	// NavBack is the "Voltar" action every non-Home screen exposes.
	NavBack NavEventType = "back"
	// NavCommitted follows a successful money-movement commit.
	NavCommitted NavEventType = "committed"
	// NavChatReturnHome is the button embedded in an assistant reply.
	NavChatReturnHome NavEventType = "chat_return_home"
)

// NavEvent is the input of the navigation transition function.
type NavEvent struct {
	Type   NavEventType
	Target Screen // only meaningful for NavTap
}

// Tap builds a tap event towards target.
func Tap(target Screen) NavEvent {
	return NavEvent{Type: NavTap, Target: target}
}
