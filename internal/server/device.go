package server

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

const (
	deviceDesktop = "Desktop"
	deviceMobile  = "Mobile"
	deviceTablet  = "Tablet"
)

// layoutHint tells the browser shell how to place the inline player. Phones
// get a sticky player pinned above the list.
type layoutHint struct {
	Device       string `json:"device"`
	StickyPlayer bool   `json:"stickyPlayer"`
}

func layoutFor(r *http.Request) layoutHint {
	device := parseDevice(r.UserAgent())
	return layoutHint{Device: device, StickyPlayer: device == deviceMobile}
}

func parseDevice(uaString string) string {
	if uaString == "" {
		return deviceDesktop
	}
	ua := useragent.New(uaString)
	switch {
	case ua.Bot():
		return deviceDesktop
	case ua.Platform() == "iPad" || strings.Contains(uaString, "iPad"):
		return deviceTablet
	case strings.Contains(uaString, "Android") && !strings.Contains(uaString, "Mobile"):
		return deviceTablet
	case ua.Mobile():
		return deviceMobile
	default:
		return deviceDesktop
	}
}
