// Package device turns User-Agent headers into short labels for login logs.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknown = "Unknown Device"

// Describe returns "Browser on OS" (e.g. "Chrome on Intel Mac OS X 10_15_7").
// Mobile agents name the platform instead, so an iPhone reads "Safari on iPhone".
// Desktop distros keep their name with the kernel appended ("Firefox on Ubuntu Linux").
func Describe(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknown
	}

	ua := useragent.New(userAgent)
	if ua.Bot() {
		name, _ := ua.Browser()
		if name == "" {
			return "Bot"
		}
		return "Bot (" + name + ")"
	}

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	where := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		where = ua.Platform()
	}
	if !ua.Mobile() && strings.Contains(userAgent, "Linux") && !strings.Contains(userAgent, "Android") && !strings.Contains(where, "Linux") {
		// Distro tokens such as "Ubuntu" replace the kernel name.
		where = strings.TrimSpace(where + " Linux")
	}
	if where == "" {
		where = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + where)
}
