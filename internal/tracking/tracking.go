// Package tracking reads UTM campaign parameters and the device class of
// landing page visitors.
package tracking

import (
	"strings"
)

// Sources and devices.
const (
	SourceGoogleAds = "google_ads"
	SourceDirect    = "direct"
	UnknownCampaign = "unknown"

	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// UTM holds the campaign parameters of a visit.
type UTM struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
	Term     string `json:"utm_term,omitempty"`
	Content  string `json:"utm_content,omitempty"`
	GCLID    string `json:"gclid,omitempty"`
}

// Parse reads UTM parameters through get, typically fiber's Ctx.Query.
func Parse(get func(key string, def ...string) string) UTM {
	return UTM{
		Source:   strings.TrimSpace(get("utm_source")),
		Medium:   strings.TrimSpace(get("utm_medium")),
		Campaign: strings.TrimSpace(get("utm_campaign")),
		Term:     strings.TrimSpace(get("utm_term")),
		Content:  strings.TrimSpace(get("utm_content")),
		GCLID:    strings.TrimSpace(get("gclid")),
	}
}

// FromMap reads UTM parameters posted by the client tracker.
func FromMap(m map[string]string) UTM {
	return Parse(func(key string, _ ...string) string { return m[key] })
}

// Empty reports whether no parameter is set.
func (u UTM) Empty() bool {
	return u == UTM{}
}

// TrafficSource is google_ads for Google Ads clicks, otherwise utm_source,
// otherwise direct.
func (u UTM) TrafficSource() string {
	switch {
	case u.GCLID != "":
		return SourceGoogleAds
	case u.Source != "":
		return u.Source
	default:
		return SourceDirect
	}
}

// CampaignName is utm_campaign or "unknown".
func (u UTM) CampaignName() string {
	if u.Campaign == "" {
		return UnknownCampaign
	}

	return u.Campaign
}

// Map returns the set parameters keyed by their query names.
func (u UTM) Map() map[string]string {
	out := map[string]string{}

	for k, v := range map[string]string{
		"utm_source":   u.Source,
		"utm_medium":   u.Medium,
		"utm_campaign": u.Campaign,
		"utm_term":     u.Term,
		"utm_content":  u.Content,
		"gclid":        u.GCLID,
	} {
		if v != "" {
			out[k] = v
		}
	}

	return out
}

var (
	tabletMarkers = []string{"ipad", "tablet", "kindle", "silk/", "playbook"} //nolint:gochecknoglobals
	mobileMarkers = []string{                                                //nolint:gochecknoglobals
		"mobi", "iphone", "ipod", "android", "blackberry", "opera mini", "windows phone", "iemobile",
	}
)

// Device classifies a User-Agent as mobile, tablet or desktop.
func Device(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, m := range tabletMarkers {
		if strings.Contains(ua, m) {
			return DeviceTablet
		}
	}

	// Android tablets omit "mobile" from the UA.
	if strings.Contains(ua, "android") && !strings.Contains(ua, "mobile") {
		return DeviceTablet
	}

	for _, m := range mobileMarkers {
		if strings.Contains(ua, m) {
			return DeviceMobile
		}
	}

	return DeviceDesktop
}
