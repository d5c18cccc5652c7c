package app

import (
	"github.com/coreos/go-systemd/v22/daemon"
)

// sdNotify reports state to systemd when NOTIFY_SOCKET is set (Type=notify
// units); otherwise it does nothing.
func sdNotify(state string) {
	_, _ = daemon.SdNotify(false, state)
}
