package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// AppName is shown as the notification source where the platform supports it.
const AppName = "besessen"

// Desktop shows notifications through the platform notification service.
type Desktop struct {
	send   func(title, message string, icon any) error
	logger *slog.Logger
}

// NewDesktop creates a Desktop sink backed by beeep.
func NewDesktop(logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}

	beeep.AppName = AppName

	return &Desktop{send: beeep.Notify, logger: logger}
}

// Notify posts the notification. Delivery errors are logged at debug level
// only; a missing notification daemon is common on headless machines.
func (d *Desktop) Notify(title, message string) {
	if err := d.send(title, message, ""); err != nil {
		d.logger.Debug("desktop notification failed",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
	}
}
