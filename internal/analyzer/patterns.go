package analyzer

import "regexp"

// Syslog signatures for Cisco AireOS and Catalyst 9800 (IOS-XE) controllers.
var (
	aireosDiscovery  = regexp.MustCompile(`(?i)Discovery Request from AP ([\da-fA-F:]{17})`)
	aireosDTLSFail   = regexp.MustCompile(`(?i)(DTLS handshake failed|DTLS connection closed|DTLS_HS_FAILURE)`)
	catalystJoinFail = regexp.MustCompile(`(?i)%CAPWAP-3-(JOIN_FAILED|DTLS_FAILURE|SEQUENCING_ERROR)`)
	catalystTeardown = regexp.MustCompile(`(?i)CAPWAP State: DTLS Teardown`)
	catalystDisassoc = regexp.MustCompile(`(?i)%DOT11-6-DISASSOC:.*client ([\da-fA-F:]{17})`)
	catalystReason   = regexp.MustCompile(`(?i)disassoc reason: (\d{1,5})\b`)
	deauthReason     = regexp.MustCompile(`(?i)reason (\d{1,5})\b`)
	reasonCode       = regexp.MustCompile(`(?i)reason code (\d{1,5})\b`)
	radarDetected    = regexp.MustCompile(`(?i)Radar (?:signals have|detected).*channel (\d+)`)
	radar9800        = regexp.MustCompile(`(?i)%RRM-6-RADAR_DETECTED:.*channel (\d+)`)
	radarChannel     = regexp.MustCompile(`(?i)radar.*?\b(?:channel|chan|ch)\s*[:=#]?\s*(\d+)`)
	channelRadar     = regexp.MustCompile(`(?i)\b(?:channel|chan|ch)\s*[:=#]?\s*(\d+).*radar`)
	certFailure      = regexp.MustCompile(`(?i)(certificate|pki|validation) (failed|error|expired)`)
	clientMAC        = regexp.MustCompile(`(?i)client ([\da-fA-F:]{17})`)
	genericFault     = regexp.MustCompile(`(?i)(error|fail)`)
)

// bare discovery token; the full pattern above also captures the AP MAC
const discoveryToken = "discovery request"

// 802.11 reason codes with operator-facing explanations.
var reasonDescriptions = map[int]string{
	1:  "Unspecified failure. This is a generic disconnect catch-all.",
	2:  "Previous authentication is no longer valid. Often seen during re-authentication cycles.",
	3:  "Station is leaving. This is a normal client-initiated disconnect (e.g., turning off Wi-Fi).",
	4:  "Disassociated due to inactivity. The client stopped sending data for 300+ seconds.",
	6:  "Class 2 frame received from nonauthenticated station. Usually means the signal (RSSI) is too low for a stable connection.",
	7:  "Class 3 frame received from nonassociated station. Client is trying to send data before finishing the association process.",
	15: "4-Way Handshake timeout. This almost always indicates a PSK (Pre-shared Key) or password mismatch.",
}

var (
	joinFailureTips = []string{
		"C9800 Specific: Ensure 'SSC Hash Validation' is compatible if migrating from older AireOS WLCs.",
		"MTU Mismatch: Ensure that the path MTU is at least 1500. Check 'show wireless management trustpoint'.",
		"Trustpoint Check: On Catalyst 9800, verify the wireless management trustpoint status if DTLS fails.",
	}

	rfInterferenceTips = []string{
		"RRM (Radio Resource Management) will lock this channel for 30 minutes. This is standard 802.11h behavior.",
		"9800 Tip: Check your RRM 'Radar Detection' settings in the Radio/Channel profiles.",
		"CSA Alert: Ensure 'Channel Switch Announcement' is enabled so clients move gracefully during Radar hits.",
	}

	generalTips = []string{
		"Correlate the timestamps with your change calendar before chasing RF ghosts.",
		"'show logging' on the WLC keeps only the recent buffer; forward syslog to a collector for history.",
		"Raise the syslog level to informational temporarily to capture CAPWAP and DOT11 events.",
	}

	clientReasonTips = map[int]string{
		6:  "Signal is too weak. If the client is close to the AP, check for loose antenna cables (RP-TNC connectors).",
		15: "100% a credential mismatch. If logs show this, don't waste time on RF troubleshooting. Fix the PSK or RADIUS logic.",
	}
)

const clientFallbackTip = "Verify client driver versions and check for known bugs with specific NIC chipsets (Intel AX201, etc)."
