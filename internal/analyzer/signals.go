package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joshsymonds/rasa/internal/models"
)

// Signals is everything a single pass over the log lines collects.
type Signals struct {
	APs           []string
	Clients       []string
	DeauthReasons []int
	RadarChannels []string
	JoinFailure   bool
	DTLSTeardown  bool
	CertFailure   bool
	GenericFault  bool
}

// SplitLines splits raw text into trimmed, non-empty lines.
func SplitLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if l := strings.TrimSpace(p); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// DetectPlatform guesses the controller OS from message formatting.
// IOS-XE messages carry %FACILITY-SEVERITY-MNEMONIC tags; AireOS lines
// start with *task names such as *capwap or *spam.
func DetectPlatform(lines []string) string {
	for _, l := range lines {
		if strings.Contains(l, "%") && strings.Contains(l, "-") {
			return models.PlatformCatalyst
		}
	}
	for _, l := range lines {
		if strings.Contains(l, "*capwap") || strings.Contains(l, "*spam") {
			return models.PlatformAireOS
		}
	}
	return models.PlatformUnknown
}

// Scan tests every line against the pattern table.
func Scan(lines []string) *Signals {
	sig := &Signals{}
	seenAP := make(map[string]bool)
	seenClient := make(map[string]bool)

	for _, line := range lines {
		if m := aireosDiscovery.FindStringSubmatch(line); m != nil {
			sig.JoinFailure = true
			if ap := strings.ToLower(m[1]); !seenAP[ap] {
				seenAP[ap] = true
				sig.APs = append(sig.APs, ap)
			}
		}
		if strings.Contains(strings.ToLower(line), discoveryToken) ||
			aireosDTLSFail.MatchString(line) ||
			catalystJoinFail.MatchString(line) {
			sig.JoinFailure = true
		}
		if catalystTeardown.MatchString(line) {
			sig.DTLSTeardown = true
		}
		if certFailure.MatchString(line) {
			sig.CertFailure = true
		}

		if m := firstSubmatch(line, deauthReason, catalystReason, reasonCode); m != "" {
			if code, err := strconv.Atoi(m); err == nil {
				sig.DeauthReasons = append(sig.DeauthReasons, code)
			}
		}
		if m := firstSubmatch(line, catalystDisassoc, clientMAC); m != "" {
			if mac := strings.ToLower(m); !seenClient[mac] {
				seenClient[mac] = true
				sig.Clients = append(sig.Clients, mac)
			}
		}

		if ch := firstSubmatch(line, radarDetected, radar9800, radarChannel, channelRadar); ch != "" {
			sig.RadarChannels = append(sig.RadarChannels, ch)
		}

		if genericFault.MatchString(line) {
			sig.GenericFault = true
		}
	}

	return sig
}

// firstSubmatch returns the first capture group of the first matching pattern.
func firstSubmatch(line string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(line); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
