package ui

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// For a list of possible icons, see: https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
const (
	IconDialogError = "dialog-error"
	IconDialogWarn  = "dialog-warning"

	UrgencyNormal   = "normal"
	UrgencyCritical = "critical"

	notificationAppName = "karlson"
)

func NotifyWarn(title, text string) {
	NotifySend(UrgencyNormal, title, text, IconDialogWarn)
}

func NotifyError(title, text string) {
	NotifySend(UrgencyCritical, title, text, IconDialogError)
}

// NotifySend shows a desktop notification to the user owning the current X display.
// Since karlson runs as root, notify-send is executed on behalf of that user.
func NotifySend(urgency, title, text, icon string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Cannot send notification, missing env variable 'DISPLAY'")
		return
	}

	user, err := findDisplayUser(display)
	if err != nil {
		Debug("Cannot send notification: %v", err)
		return
	}

	output, err := exec.Command("id", "-u", user).Output()
	userId := strings.TrimSpace(string(output))
	if err != nil || len(userId) <= 0 {
		Debug("Cannot send notification, unable to detect id of user %s", user)
		return
	}

	cmd := exec.Command("sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+userId+"/bus",
		"notify-send",
		"-a", notificationAppName,
		"-u", urgency,
		"-i", icon,
		title, text,
	)
	if err := cmd.Run(); err != nil {
		Warning("Error sending notification: %v", err)
	}
}

func findDisplayUser(display string) (string, error) {
	output, err := exec.Command("who").Output()
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, display) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields[0], nil
		}
	}
	return "", errors.New("unable to detect user of current display session")
}
