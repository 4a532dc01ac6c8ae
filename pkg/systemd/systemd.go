// Package systemd reports service state to systemd through sd_notify.
// Every call is a no-op when the process was not started by systemd.
package systemd

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify messages. The zero value is ready to use.
type Notifier struct {
	// UnsetEnv clears NOTIFY_SOCKET after the first message so child
	// processes do not inherit it.
	UnsetEnv bool
}

func (n Notifier) send(state string) (bool, error) {
	return daemon.SdNotify(n.UnsetEnv, state)
}

// Ready tells systemd start-up finished (Type=notify units).
func (n Notifier) Ready() (bool, error) { return n.send(daemon.SdNotifyReady) }

// Reloading marks a configuration reload in progress.
func (n Notifier) Reloading() (bool, error) { return n.send(daemon.SdNotifyReloading) }

func (n Notifier) Stopping() (bool, error) { return n.send(daemon.SdNotifyStopping) }

// Status sets the free-form status line shown by systemctl status.
func (n Notifier) Status(msg string) (bool, error) { return n.send("STATUS=" + msg) }

// Watchdog pings the watchdog at half the configured interval until ctx is
// done. It returns immediately when WatchdogSec is not set.
func (n Notifier) Watchdog(ctx context.Context) error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return err
	}
	t := time.NewTicker(interval / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if _, err := n.send(daemon.SdNotifyWatchdog); err != nil {
				return err
			}
		}
	}
}
