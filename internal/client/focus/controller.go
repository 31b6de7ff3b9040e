// Package focus runs timed study sessions and toggles the device's
// do-not-disturb mode through a Controller.
package focus

import "context"

// Activity describes the focus session to the platform.
type Activity struct {
	Name  string
	Icon  string
	Color string
}

// DefaultActivity is used when a Session is created without one.
var DefaultActivity = Activity{Name: "Study Session", Icon: "book", Color: "blue"}

// Controller switches do-not-disturb on and off. Each call reports success.
type Controller interface {
	RequestAuthorization(ctx context.Context) bool
	EnableFocus(ctx context.Context, a Activity) bool
	DisableFocus(ctx context.Context) bool
}
