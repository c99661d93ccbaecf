package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrafficSource(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]string
		want string
	}{
		{"gclid wins", map[string]string{"gclid": "abc", "utm_source": "facebook"}, SourceGoogleAds},
		{"utm source", map[string]string{"utm_source": "facebook"}, "facebook"},
		{"nothing", map[string]string{}, SourceDirect},
		{"blank values", map[string]string{"utm_source": "  "}, SourceDirect},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromMap(tc.in).TrafficSource())
		})
	}
}

func TestCampaign(t *testing.T) {
	assert.Equal(t, UnknownCampaign, UTM{}.CampaignName())
	assert.Equal(t, "launch", UTM{Campaign: "launch"}.CampaignName())
	assert.True(t, UTM{}.Empty())
	assert.Equal(t, map[string]string{"utm_campaign": "launch"}, UTM{Campaign: "launch"}.Map())
}

func TestDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 13; SM-X700) Safari/537.36", DeviceTablet},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", DeviceTablet},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", DeviceDesktop},
		{"", DeviceDesktop},
	}

	for _, tc := range tests {
		t.Run(tc.want+"/"+tc.ua, func(t *testing.T) {
			assert.Equal(t, tc.want, Device(tc.ua))
		})
	}
}
