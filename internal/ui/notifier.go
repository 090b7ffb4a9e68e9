package ui

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/service"
)

// DesktopNotifier surfaces countdown completion through the system
// notification service. It satisfies engine.Notifier.
type DesktopNotifier struct {
	app        fyne.App
	categories *service.CategoryService
}

func NewDesktopNotifier(app fyne.App, categories *service.CategoryService) *DesktopNotifier {
	return &DesktopNotifier{app: app, categories: categories}
}

func (n *DesktopNotifier) CountdownFinished(countdown models.ActiveCountdown) error {
	title := "Countdown Complete!"
	body := "Your countdown has finished."
	if category, ok := n.categories.ByID(countdown.CategoryID); ok {
		body = fmt.Sprintf("Your %s countdown has finished.", category.Title)
	}
	if countdown.Note != "" {
		body += " " + countdown.Note
	}

	n.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}
