package analyzer

import (
	"fmt"
	"strings"

	"github.com/joshsymonds/rasa/internal/models"
)

// Input bundles what a rule evaluates.
type Input struct {
	Signals  *Signals
	Platform string
	Tips     TipPicker
}

// Rule turns collected signals into findings for one category.
type Rule interface {
	Name() string
	Evaluate(in Input) []models.Finding
}

// TipPicker chooses an index in [0, n).
type TipPicker interface {
	IntN(n int) int
}

func pickTip(p TipPicker, tips []string) string {
	if len(tips) == 0 {
		return ""
	}
	return tips[p.IntN(len(tips))]
}

// JoinFailureRule reports CAPWAP/DTLS join failures. It emits at most one
// finding regardless of how many lines matched.
type JoinFailureRule struct{}

// Name implements Rule.
func (r *JoinFailureRule) Name() string { return "join-failure" }

// Evaluate implements Rule.
func (r *JoinFailureRule) Evaluate(in Input) []models.Finding {
	sig := in.Signals
	if !sig.JoinFailure && !sig.DTLSTeardown {
		return nil
	}

	title := "AireOS Join Failure"
	first := "Check WLC clock and certificate validity."
	if in.Platform == models.PlatformCatalyst {
		title = "Catalyst CAPWAP Join Failure"
		first = "Verify Trustpoint: 'show wireless management trustpoint'."
	}

	confidence := 85
	diagnosis := "Secure tunnel establishment failed. The WLC and AP cannot agree on the DTLS handshake parameters."
	if sig.DTLSTeardown {
		confidence = 98
		diagnosis = "The AP established a connection but suffered a DTLS Teardown. This is usually due to a certificate Trustpoint mismatch on the C9800."
	}

	evidence := fmt.Sprintf("Detected '%s' specific join failure patterns in the syslog stream.", in.Platform)
	if len(sig.APs) > 0 {
		evidence += fmt.Sprintf(" Affected AP(s): %s.", strings.Join(sig.APs, ", "))
	}

	remediation := []string{
		first,
		"Verify MTU: Path must support 1500 bytes or adjust fragmentation settings.",
		"Ensure UDP 5246/5247 is not filtered by a transit firewall.",
	}
	if sig.CertFailure {
		remediation = append(remediation,
			"Certificate errors were logged: confirm the AP MIC/SSC has not expired and NTP is in sync on the controller.")
	}

	return []models.Finding{{
		Title:       title,
		Severity:    models.SeverityCritical,
		Category:    models.CategoryJoinFailure,
		Confidence:  confidence,
		Diagnosis:   diagnosis,
		Evidence:    evidence,
		Remediation: remediation,
		ProTip:      pickTip(in.Tips, joinFailureTips),
	}}
}

// ClientIssueRule reports one finding per deauthentication reason code.
type ClientIssueRule struct{}

// Name implements Rule.
func (r *ClientIssueRule) Name() string { return "client-issue" }

// Evaluate implements Rule.
func (r *ClientIssueRule) Evaluate(in Input) []models.Finding {
	findings := make([]models.Finding, 0, len(in.Signals.DeauthReasons))
	for _, reason := range in.Signals.DeauthReasons {
		severity := models.SeverityWarning
		if reason == 15 || reason == 6 {
			severity = models.SeverityCritical
		}

		diagnosis, ok := reasonDescriptions[reason]
		if !ok {
			diagnosis = fmt.Sprintf("Standard 802.11 disconnect reason code %d.", reason)
		}

		first := "Check for local interferers on the 2.4/5GHz band."
		if reason == 15 {
			first = "Perform a 'PSK sanity check' on the SSID configuration."
		}

		tip, ok := clientReasonTips[reason]
		if !ok {
			tip = clientFallbackTip
		}

		findings = append(findings, models.Finding{
			Title:      fmt.Sprintf("Client Disconnect (Reason %d)", reason),
			Severity:   severity,
			Category:   models.CategoryClientIssue,
			Confidence: 90,
			Diagnosis:  diagnosis,
			Evidence:   fmt.Sprintf("Found %s deauthentication event with exact reason code mapping.", in.Platform),
			Remediation: []string{
				first,
				"Increase AP signal density if Reason 6 is recurring.",
				"Review 'Radioactive Tracing' for this client on the C9800 GUI if applicable.",
			},
			ProTip: tip,
		})
	}
	return findings
}

// RFInterferenceRule reports one finding per radar hit.
type RFInterferenceRule struct{}

// Name implements Rule.
func (r *RFInterferenceRule) Name() string { return "rf-interference" }

// Evaluate implements Rule.
func (r *RFInterferenceRule) Evaluate(in Input) []models.Finding {
	findings := make([]models.Finding, 0, len(in.Signals.RadarChannels))
	for _, channel := range in.Signals.RadarChannels {
		findings = append(findings, models.Finding{
			Title:      "DFS Radar Detection",
			Severity:   models.SeverityCritical,
			Category:   models.CategoryRFInterference,
			Confidence: 100,
			Diagnosis:  fmt.Sprintf("Radar pulse detected on DFS Channel %s. System forced an immediate channel switch.", channel),
			Evidence:   fmt.Sprintf("Syslog contains %s RRM radar detection signature.", in.Platform),
			Remediation: []string{
				"Move critical devices to non-DFS channels (36-48 or 149-161).",
				"Check for false detections if this happens on indoor APs far from airports.",
				"Ensure WLC is running updated software for improved radar filter algorithms.",
			},
			ProTip: pickTip(in.Tips, rfInterferenceTips),
		})
	}
	return findings
}

// generalFinding is emitted when nothing specific matched but the log still
// mentions errors or failures.
func generalFinding(in Input) models.Finding {
	return models.Finding{
		Title:      "System Diagnostics",
		Severity:   models.SeverityInfo,
		Category:   models.CategoryGeneral,
		Confidence: 40,
		Diagnosis:  fmt.Sprintf("Logs provided are in %s format but do not contain high-severity Wi-Fi events.", in.Platform),
		Evidence:   "General log pattern analyzed. No specific Join, Client, or RF signatures matched.",
		Remediation: []string{
			"Check for interface flaps or high-CPU alerts.",
			"Enable 'debug wireless' for more granular event visibility.",
			"Review the Audit Trail for recent configuration pushes.",
		},
		ProTip: pickTip(in.Tips, generalTips),
	}
}
