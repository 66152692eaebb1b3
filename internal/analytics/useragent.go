// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Device types.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// ParsedUA is the part of a user agent the collector cares about.
type ParsedUA struct {
	Browser    string
	OS         string
	DeviceType string
}

// parseUserAgent extracts browser, OS, and device type from a user agent string.
func parseUserAgent(uaString string) ParsedUA {
	ua := useragent.Parse(uaString)

	result := ParsedUA{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	switch {
	case ua.Bot, isHeadless(uaString):
		result.DeviceType = DeviceBot
	case ua.Mobile:
		result.DeviceType = DeviceMobile
	case ua.Tablet:
		result.DeviceType = DeviceTablet
	default:
		result.DeviceType = DeviceDesktop
	}
	return result
}

// isHeadless catches empty agents and common scripted clients the parser
// does not flag as bots.
func isHeadless(ua string) bool {
	if strings.TrimSpace(ua) == "" {
		return true
	}
	lower := strings.ToLower(ua)
	for _, marker := range []string{"headlesschrome", "curl/", "wget/", "python-requests", "go-http-client"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
