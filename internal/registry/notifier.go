// Package registry keeps the client-side view of a user's categories and
// tasks in sync with the store and reports every outcome as a notification.
package registry

// Notification is a short user-facing message about an operation's outcome.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

func failure(description string) Notification {
	return Notification{
		Title:       "Error",
		Description: description,
		Destructive: true,
	}
}
