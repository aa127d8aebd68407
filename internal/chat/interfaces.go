package chat

// Identity exposes the display name of the local session. Ownership of
// a message is decided by comparing its user field against this name;
// nothing verifies the claim (any client can claim any name).
type Identity interface {
	Name() (string, bool)
}

// Notifier is the single user-facing notification surface. Every
// caller-visible failure goes through it; nothing else reaches the
// user.
type Notifier interface {
	Info(message string)
}

// Confirmer gates a destructive action behind explicit user approval.
// The action runs at most once, and only after approval.
type Confirmer interface {
	Confirm(message string, action func())
}

// AutoConfirm runs actions immediately. It serves callers where the
// user already approved upstream, such as the browser's own
// confirmation modal in front of the HTTP API.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(_ string, action func()) {
	action()
}
