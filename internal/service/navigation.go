package service

import "github.com/braiatenebras/trabalhomobile-bryan/internal/domain"

// Transition is the navigation state machine: a total function from the
// active screen and an event to the next screen. Any screen can reach any
// other screen, itself included.
func Transition(current domain.Screen, ev domain.NavEvent) domain.Screen {
	switch ev.Type {
	case domain.NavTap:
		if ev.Target == "" {
			return current
		}
		return ev.Target
	case domain.NavBack, domain.NavCommitted, domain.NavChatReturnHome:
		return domain.ScreenHome
	default:
		return current
	}
}

// NavigationController holds the active screen. It starts on Home and has
// no terminal state. Not safe for concurrent use; the session loop owns it.
type NavigationController struct {
	current domain.Screen

	// observe is called for every applied event, no-op transitions included.
	observe func(from, to domain.Screen, ev domain.NavEvent)
}

// NewNavigationController starts on Home. observe may be nil.
func NewNavigationController(observe func(from, to domain.Screen, ev domain.NavEvent)) *NavigationController {
	return &NavigationController{current: domain.ScreenHome, observe: observe}
}

// Current returns the active screen.
func (n *NavigationController) Current() domain.Screen {
	return n.current
}

// Apply runs ev through Transition and makes the result active.
func (n *NavigationController) Apply(ev domain.NavEvent) domain.Screen {
	from := n.current
	n.current = Transition(from, ev)
	if n.observe != nil {
		n.observe(from, n.current, ev)
	}
	return n.current
}

// GoTo unconditionally replaces the active screen.
func (n *NavigationController) GoTo(target domain.Screen) domain.Screen {
	return n.Apply(domain.Tap(target))
}
