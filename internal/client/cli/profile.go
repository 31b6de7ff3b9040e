package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/client/services"
)

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.profile.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printf("%s <%s>\n", u.Name, u.Email)
	a.printf("Notifications %s, theme %s, study duration %d min\n",
		onOff(u.NotificationEnabled), u.Theme, u.DefaultStudyDuration/60)
	return nil
}

func (a *App) Prefs(ctx context.Context) error {
	p, err := a.profile.Load(ctx)
	if err != nil {
		return err
	}
	if p.Email != "" {
		a.printf("%s <%s>\n", p.Name, p.Email)
	}
	theme := models.ThemeLight
	if p.DarkMode {
		theme = models.ThemeDark
	}
	a.printf("Notifications %s, theme %s, study duration %d min\n",
		onOff(p.NotificationsEnabled), theme, p.DefaultStudyDuration/60)
	return nil
}

func (a *App) Notify(ctx context.Context, arg string) error {
	var enabled bool
	switch strings.ToLower(arg) {
	case "on":
		enabled = true
	case "off":
	default:
		return &services.ValidationError{Message: "Usage: notify on|off"}
	}
	if err := a.profile.SetNotifications(ctx, enabled); err != nil {
		return err
	}
	a.println("Notifications", onOff(enabled))
	return nil
}

func (a *App) Theme(ctx context.Context, arg string) error {
	theme, err := models.ParseTheme(arg)
	if err != nil {
		return &services.ValidationError{Message: "Usage: theme light|dark"}
	}
	if err := a.profile.SetDarkMode(ctx, theme == models.ThemeDark); err != nil {
		return err
	}
	a.println("Theme", theme)
	return nil
}

// Duration takes minutes; the profile stores seconds.
func (a *App) Duration(ctx context.Context, arg string) error {
	minutes, err := strconv.Atoi(arg)
	if err != nil {
		return &services.ValidationError{Message: "Usage: duration <minutes>"}
	}
	if err := a.profile.SetDefaultStudyDuration(ctx, minutes*60); err != nil {
		return err
	}
	a.printf("Study duration set to %d min\n", minutes)
	return nil
}
