package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	safariMacUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
	safariIPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	chromeAndroidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Mobile Safari/537.36"
	firefoxLinuxUA  = "Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0"
)

func TestDeviceFromUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"desktop chrome", chromeWindowsUA, "desktop"},
		{"iphone is mobile", safariIPhoneUA, "mobile"},
		{"android phone is mobile", chromeAndroidUA, "mobile"},
		{"tablet keyword", "Mozilla/5.0 (Tablet; rv:127.0) Gecko/127.0 Firefox/127.0", "tablet"},
		{"empty falls back to desktop", "", "desktop"},
		{"case insensitive", "SOMETHING MOBILE SOMETHING", "mobile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeviceFromUserAgent(tt.ua))
		})
	}
}

func TestBrowserFromUserAgent(t *testing.T) {
	// Chrome UAs also contain "Safari"; Chrome must win
	assert.Equal(t, "Chrome", BrowserFromUserAgent(chromeWindowsUA))
	assert.Equal(t, "Chrome", BrowserFromUserAgent(chromeAndroidUA))
	assert.Equal(t, "Safari", BrowserFromUserAgent(safariMacUA))
	assert.Equal(t, "Safari", BrowserFromUserAgent(safariIPhoneUA))
	assert.Equal(t, "Firefox", BrowserFromUserAgent(firefoxLinuxUA))
	assert.Equal(t, "Unknown", BrowserFromUserAgent("curl/8.0"))
}

func TestOSFromUserAgent(t *testing.T) {
	assert.Equal(t, "Windows", OSFromUserAgent(chromeWindowsUA))
	assert.Equal(t, "macOS", OSFromUserAgent(safariMacUA))
	// Android UAs also contain "Linux"; Linux wins by match order
	assert.Equal(t, "Linux", OSFromUserAgent(chromeAndroidUA))
	assert.Equal(t, "Linux", OSFromUserAgent(firefoxLinuxUA))
	// iPhone UAs say "like Mac OS X", so they classify as macOS
	assert.Equal(t, "macOS", OSFromUserAgent(safariIPhoneUA))
	assert.Equal(t, "Unknown", OSFromUserAgent("curl/8.0"))
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.7", ClientIP("203.0.113.7", "10.0.0.1"))
	assert.Equal(t, "203.0.113.7", ClientIP("203.0.113.7, 198.51.100.2", "10.0.0.1"))
	assert.Equal(t, "203.0.113.7", ClientIP(" 203.0.113.7 , 198.51.100.2", "10.0.0.1"))
	assert.Equal(t, "10.0.0.1", ClientIP("", "10.0.0.1"))
	assert.Equal(t, "unknown", ClientIP("", ""))
}
