package analytics

import "strings"

// DeviceFromUserAgent classifies a user-agent string into exactly one of
// mobile, tablet, or desktop. Anything without a recognized substring is
// desktop.
func DeviceFromUserAgent(userAgent string) string {
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "mobile") {
		return "mobile"
	}
	if strings.Contains(ua, "tablet") {
		return "tablet"
	}
	return "desktop"
}

// BrowserFromUserAgent maps a user-agent to a small browser enumeration.
// Match order is significant: Chrome UAs also contain "Safari", so Chrome
// is checked first.
func BrowserFromUserAgent(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Edge"):
		return "Edge"
	case strings.Contains(userAgent, "Opera"):
		return "Opera"
	default:
		return "Unknown"
	}
}

// OSFromUserAgent maps a user-agent to a small OS enumeration with an
// Unknown fallback
func OSFromUserAgent(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Mac"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iOS"):
		return "iOS"
	default:
		return "Unknown"
	}
}

// ClientIP picks the originating address: the first entry of a forwarded-for
// header when present, otherwise the transport-level remote address
func ClientIP(forwardedFor, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	if remoteAddr == "" {
		return "unknown"
	}
	return remoteAddr
}
