package analyzer

import (
	"fmt"
	"slices"
	"strings"
)

// SampleAireOS is a short AireOS controller excerpt that trips every rule.
const SampleAireOS = `*capwap_cli: Discovery Request from AP 00:a1:b2:c3:d4:e5
*spamApTask0: Jun 12 14:05:22.341: %CAPWAP-3-DTLS_HS_FAILURE: DTLS handshake failed for AP 00:a1:b2:c3:d4:e5
*dot11_driver: Received DEAUTH from client d8:32:14:00:11:22 reason 15
*rrm_ctrl: Radar detected on channel 52 - Non-Occupancy Period started`

// SampleCatalyst is the equivalent Catalyst 9800 (IOS-XE) excerpt.
const SampleCatalyst = `*Apr 30 06:55:49.022: %CAPWAP-3-DTLS_FAILURE: AP 00:d1:e2:f3:a4:b5 failed to join, DTLS teardown
*Apr 30 06:55:53.770: CAPWAP State: DTLS Teardown
*Jun 12 10:15:33.122: %DOT11-6-DISASSOC: Client d8:32:14:00:11:22 disassociate from AP 9120-AP-01 disassoc reason: 15
*Jun 12 11:22:45.001: %RRM-6-RADAR_DETECTED: Radar signals have been detected on channel 100`

var samples = map[string]string{
	"aireos":   SampleAireOS,
	"catalyst": SampleCatalyst,
}

// SampleNames lists the built-in samples.
func SampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sample returns a built-in sample by name, ignoring case.
func Sample(name string) (string, error) {
	s, ok := samples[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown sample %q (have %s)", name, strings.Join(SampleNames(), ", "))
	}
	return s, nil
}
