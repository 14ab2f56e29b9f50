package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
)

const (
	aireosSample   = SampleAireOS
	catalystSample = SampleCatalyst
)

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

func newTestAnalyzer(opts ...Option) *Analyzer {
	base := []Option{
		WithStepDelay(0),
		WithTipPicker(fixedPicker(0)),
		WithLogger(logger.NewMockLogger()),
	}
	return New(append(base, opts...)...)
}

func countCategory(findings []models.Finding, category string) int {
	n := 0
	for _, f := range findings {
		if f.Category == category {
			n++
		}
	}
	return n
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := newTestAnalyzer()

	for _, raw := range []string{"", "   ", "\n\n  \n\t"} {
		var steps []models.Step
		findings, err := a.Analyze(context.Background(), raw, func(s models.Step) { steps = append(steps, s) })
		require.NoError(t, err)
		assert.NotNil(t, findings)
		assert.Empty(t, findings)
		assert.Empty(t, steps)
	}
}

func TestAnalyze_JoinFailureSignals(t *testing.T) {
	tests := []struct {
		name      string
		log       string
		wantTitle string
	}{
		{
			name:      "discovery request with AP MAC",
			log:       "*capwap_cli: Discovery Request from AP 00:a1:b2:c3:d4:e5",
			wantTitle: "AireOS Join Failure",
		},
		{
			name:      "bare discovery request",
			log:       "AP sent a Discovery Request but never joined",
			wantTitle: "AireOS Join Failure",
		},
		{
			name:      "dtls connection closed",
			log:       "*spamApTask2: DTLS connection closed for AP 10.1.1.20",
			wantTitle: "AireOS Join Failure",
		},
		{
			name:      "catalyst join failed",
			log:       "*May 2 01:01:01.000: %CAPWAP-3-JOIN_FAILED: AP 00:11:22:33:44:55 join failed",
			wantTitle: "Catalyst CAPWAP Join Failure",
		},
		{
			name: "many dtls markers still one finding",
			log: `*spamApTask0: DTLS_HS_FAILURE for AP 1
*spamApTask0: DTLS_HS_FAILURE for AP 2
*spamApTask0: DTLS handshake failed for AP 3
*capwap_cli: Discovery Request from AP 00:a1:b2:c3:d4:e5`,
			wantTitle: "AireOS Join Failure",
		},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := a.Analyze(context.Background(), tt.log, nil)
			require.NoError(t, err)
			require.Equal(t, 1, countCategory(findings, models.CategoryJoinFailure))

			f := findings[0]
			assert.Equal(t, tt.wantTitle, f.Title)
			assert.Equal(t, models.SeverityCritical, f.Severity)
			assert.Equal(t, 85, f.Confidence)
			assert.Len(t, f.Remediation, 3)
			assert.NoError(t, f.IsValid())
		})
	}
}

func TestAnalyze_DTLSTeardownRaisesConfidence(t *testing.T) {
	a := newTestAnalyzer()

	findings, err := a.Analyze(context.Background(), "*Apr 30 06:55:53.770: CAPWAP State: DTLS Teardown", nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 98, findings[0].Confidence)
	assert.Contains(t, findings[0].Diagnosis, "DTLS Teardown")
}

func TestAnalyze_CertificateFailureAddsRemediation(t *testing.T) {
	a := newTestAnalyzer()

	log := `*spamApTask0: DTLS handshake failed for AP 00:a1:b2:c3:d4:e5
*spamApTask0: Certificate validation failed for AP 00:a1:b2:c3:d4:e5`
	findings, err := a.Analyze(context.Background(), log, nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Len(t, findings[0].Remediation, 4)
	assert.Contains(t, findings[0].Remediation[3], "Certificate errors")
}

func TestAnalyze_ClientReasons(t *testing.T) {
	tests := []struct {
		name         string
		log          string
		wantReason   string
		wantSeverity string
		wantTip      string
	}{
		{
			name:         "reason 15 psk mismatch",
			log:          "*dot11_driver: Received DEAUTH from client d8:32:14:00:11:22 reason 15",
			wantReason:   "Client Disconnect (Reason 15)",
			wantSeverity: models.SeverityCritical,
			wantTip:      clientReasonTips[15],
		},
		{
			name:         "catalyst disassoc reason",
			log:          "%DOT11-6-DISASSOC: Client d8:32:14:00:11:22 disassociate from AP 9120-AP-01 disassoc reason: 6",
			wantReason:   "Client Disconnect (Reason 6)",
			wantSeverity: models.SeverityCritical,
			wantTip:      clientReasonTips[6],
		},
		{
			name:         "reason code wording",
			log:          "client aa:bb:cc:dd:ee:ff deauthenticated with reason code 7",
			wantReason:   "Client Disconnect (Reason 7)",
			wantSeverity: models.SeverityWarning,
			wantTip:      clientFallbackTip,
		},
		{
			name:         "unmapped reason",
			log:          "Sent DEAUTH to client aa:bb:cc:dd:ee:ff reason 99",
			wantReason:   "Client Disconnect (Reason 99)",
			wantSeverity: models.SeverityWarning,
			wantTip:      clientFallbackTip,
		},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := a.Analyze(context.Background(), tt.log, nil)
			require.NoError(t, err)
			require.Len(t, findings, 1)

			f := findings[0]
			assert.Equal(t, models.CategoryClientIssue, f.Category)
			assert.Equal(t, tt.wantReason, f.Title)
			assert.Equal(t, tt.wantSeverity, f.Severity)
			assert.Equal(t, 90, f.Confidence)
			assert.Equal(t, tt.wantTip, f.ProTip)
		})
	}
}

func TestAnalyze_UnmappedReasonDiagnosis(t *testing.T) {
	a := newTestAnalyzer()
	findings, err := a.Analyze(context.Background(), "deauth reason 42", nil)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "Standard 802.11 disconnect reason code 42.", findings[0].Diagnosis)
}

func TestAnalyze_RadarChannels(t *testing.T) {
	tests := []struct {
		name        string
		log         string
		wantChannel string
	}{
		{"aireos wording", "*rrm_ctrl: Radar detected on channel 52 - Non-Occupancy Period started", "52"},
		{"catalyst wording", "%RRM-6-RADAR_DETECTED: Radar signals have been detected on channel 100", "100"},
		{"lower case", "radar pulse seen, channel: 64", "64"},
		{"channel first", "DFS event on channel 120 caused by radar", "120"},
		{"key=value channel", "DFS radar event, channel=52", "52"},
		{"ch abbreviation", "radar ch 52", "52"},
		{"chan with hash before radar", "chan#36 radar hit", "36"},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := a.Analyze(context.Background(), tt.log, nil)
			require.NoError(t, err)
			require.Len(t, findings, 1)

			f := findings[0]
			assert.Equal(t, models.CategoryRFInterference, f.Category)
			assert.Equal(t, models.SeverityCritical, f.Severity)
			assert.Equal(t, 100, f.Confidence)
			assert.Contains(t, f.Diagnosis, "DFS Channel "+tt.wantChannel+".")
		})
	}
}

func TestAnalyze_OversizedReasonIsIgnored(t *testing.T) {
	a := newTestAnalyzer()
	findings, err := a.Analyze(context.Background(), "deauth reason 99999999999999999999", nil)
	require.NoError(t, err)
	assert.Empty(t, findings)

	sig := Scan([]string{"reason 65535", "reason 123456"})
	assert.Equal(t, []int{65535}, sig.DeauthReasons)
}

func TestAnalyze_RadarWithoutChannelIsIgnored(t *testing.T) {
	a := newTestAnalyzer()
	findings, err := a.Analyze(context.Background(), "radar event cleared", nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAnalyze_Samples(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("aireos sample", func(t *testing.T) {
		run, err := a.Run(context.Background(), "sample", aireosSample, nil)
		require.NoError(t, err)
		// the DTLS line carries an IOS-XE style %TAG, which wins detection
		assert.Equal(t, models.PlatformCatalyst, run.Platform)
		require.Len(t, run.Findings, 3)
		assert.Equal(t, models.CategoryJoinFailure, run.Findings[0].Category)
		assert.Equal(t, models.CategoryClientIssue, run.Findings[1].Category)
		assert.Equal(t, models.CategoryRFInterference, run.Findings[2].Category)
		assert.Contains(t, run.Findings[0].Evidence, "00:a1:b2:c3:d4:e5")
	})

	t.Run("catalyst sample", func(t *testing.T) {
		run, err := a.Run(context.Background(), "sample", catalystSample, nil)
		require.NoError(t, err)
		assert.Equal(t, models.PlatformCatalyst, run.Platform)
		require.Len(t, run.Findings, 3)
		assert.Equal(t, "Catalyst CAPWAP Join Failure", run.Findings[0].Title)
		assert.Equal(t, 98, run.Findings[0].Confidence)
		assert.Equal(t, "Client Disconnect (Reason 15)", run.Findings[1].Title)
		assert.Contains(t, run.Findings[2].Diagnosis, "Channel 100")
	})
}

func TestAnalyze_EmissionOrderFollowsLines(t *testing.T) {
	a := newTestAnalyzer()
	log := `radar detected on channel 100
client reason 7
radar detected on channel 52
client reason 15`

	findings, err := a.Analyze(context.Background(), log, nil)
	require.NoError(t, err)
	require.Len(t, findings, 4)
	assert.Equal(t, "Client Disconnect (Reason 7)", findings[0].Title)
	assert.Equal(t, "Client Disconnect (Reason 15)", findings[1].Title)
	assert.Contains(t, findings[2].Diagnosis, "Channel 100")
	assert.Contains(t, findings[3].Diagnosis, "Channel 52")
}

func TestAnalyze_GeneralFallback(t *testing.T) {
	a := newTestAnalyzer()

	var steps []models.Step
	findings, err := a.Analyze(context.Background(), "Interface GigabitEthernet0/1 error counter increased",
		func(s models.Step) { steps = append(steps, s) })
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, models.CategoryGeneral, findings[0].Category)
	assert.Equal(t, models.SeverityInfo, findings[0].Severity)
	assert.Equal(t, 40, findings[0].Confidence)
	assert.Equal(t, generalTips[0], findings[0].ProTip)
	assert.Contains(t, findings[0].Diagnosis, models.PlatformUnknown)

	require.Len(t, steps, 6)
	assert.Equal(t, "Parsing general anomalies...", steps[4].Message)
}

func TestAnalyze_NoKeywordsNoFindings(t *testing.T) {
	a := newTestAnalyzer()
	findings, err := a.Analyze(context.Background(), "AP 9120-AP-01 uptime 12 days", nil)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestAnalyze_Steps(t *testing.T) {
	a := newTestAnalyzer()

	var steps []models.Step
	_, err := a.Analyze(context.Background(), catalystSample, func(s models.Step) { steps = append(steps, s) })
	require.NoError(t, err)

	messages := make([]string, len(steps))
	for i, s := range steps {
		messages[i] = s.Message
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, []string{
		"Detecting WLC Operating System...",
		"OS Identified: CATALYST (IOS-XE)",
		"Correlating MAC addresses and state transitions...",
		"Running CATALYST (IOS-XE) Optimized Regex Suite...",
		"Finalizing remediation and pro-tips...",
	}, messages)
}

func TestAnalyze_ProTipUsesPicker(t *testing.T) {
	a := newTestAnalyzer(WithTipPicker(fixedPicker(2)))

	findings, err := a.Analyze(context.Background(), "DTLS_HS_FAILURE\nradar detected on channel 52", nil)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, joinFailureTips[2], findings[0].ProTip)
	assert.Equal(t, rfInterferenceTips[2], findings[1].ProTip)
}

func TestAnalyze_DefaultPickerStaysInTable(t *testing.T) {
	a := New(WithStepDelay(0), WithLogger(logger.NewMockLogger()))

	for i := 0; i < 20; i++ {
		findings, err := a.Analyze(context.Background(), "DTLS_HS_FAILURE", nil)
		require.NoError(t, err)
		require.Len(t, findings, 1)
		assert.Contains(t, joinFailureTips, findings[0].ProTip)
	}
}

func TestAnalyze_Cancellation(t *testing.T) {
	a := newTestAnalyzer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, catalystSample, nil)
	require.ErrorIs(t, err, context.Canceled)

	slow := newTestAnalyzer(WithStepDelay(time.Hour))
	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var steps int
	_, err = slow.Analyze(ctx, catalystSample, func(models.Step) { steps++ })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, steps)
}

func TestRun_Envelope(t *testing.T) {
	start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return start.Add(time.Duration(calls) * time.Second)
	}
	mock := logger.NewMockLogger()
	a := newTestAnalyzer(WithClock(clock), WithLogger(mock))

	run, err := a.Run(context.Background(), "wlc.log", catalystSample+"\n\n", nil)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(run.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "wlc.log", run.Source)
	assert.Equal(t, 4, run.LineCount)
	assert.Equal(t, time.Second, run.Duration())
	assert.True(t, mock.HasMessage("INFO", "Analysis complete"))
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, models.PlatformCatalyst, DetectPlatform([]string{"%CAPWAP-3-JOIN_FAILED"}))
	assert.Equal(t, models.PlatformAireOS, DetectPlatform([]string{"*capwap_cli: hello"}))
	assert.Equal(t, models.PlatformAireOS, DetectPlatform([]string{"*spamApTask0: hello"}))
	assert.Equal(t, models.PlatformUnknown, DetectPlatform([]string{"plain text"}))
	assert.Equal(t, models.PlatformUnknown, DetectPlatform(nil))
}

func TestScan_CollectsIdentifiers(t *testing.T) {
	sig := Scan(SplitLines(catalystSample + "\n*capwap_cli: Discovery Request from AP 00:A1:B2:C3:D4:E5"))

	assert.True(t, sig.JoinFailure)
	assert.True(t, sig.DTLSTeardown)
	assert.Equal(t, []int{15}, sig.DeauthReasons)
	assert.Equal(t, []string{"100"}, sig.RadarChannels)
	assert.Equal(t, []string{"d8:32:14:00:11:22"}, sig.Clients)
	assert.Equal(t, []string{"00:a1:b2:c3:d4:e5"}, sig.APs)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitLines("  a \n\n\tb c\r\n   "))
	assert.Empty(t, SplitLines(""))
}

func TestSample(t *testing.T) {
	assert.Equal(t, []string{"aireos", "catalyst"}, SampleNames())

	s, err := Sample("Catalyst")
	require.NoError(t, err)
	assert.Equal(t, SampleCatalyst, s)

	_, err = Sample("meraki")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aireos, catalyst")
}

type radarOnlyRule struct{}

func (radarOnlyRule) Name() string { return "radar-only" }

func (radarOnlyRule) Evaluate(in Input) []models.Finding {
	return (&RFInterferenceRule{}).Evaluate(in)
}

func TestAnalyze_WithRulesReplacesDefaults(t *testing.T) {
	a := newTestAnalyzer(WithRules(radarOnlyRule{}))

	raw := "%CAPWAP-3-JOIN_FAILED: AP 00:11:22:33:44:55 join failed\n" +
		"Radar detected on channel 100"
	findings, err := a.Analyze(context.Background(), raw, nil)
	require.NoError(t, err)

	assert.Zero(t, countCategory(findings, models.CategoryJoinFailure))
	assert.NotZero(t, countCategory(findings, models.CategoryRFInterference))
}
