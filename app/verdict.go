package app

import "strings"

// Verdict labels the analysis service is known to return.
const (
	VerdictPhishing   = "Phishing Detected"
	VerdictHighRisk   = "High Risk"
	VerdictSuspicious = "Suspicious"
	VerdictSafe       = "Looks Safe"
	VerdictError      = "Error"
)

type Tone string

const (
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
	ToneSafe    Tone = "safe"
	ToneUnknown Tone = "unknown"
)

// VerdictClass turns a verdict label into a CSS class name,
// e.g. "Phishing Detected" -> "phishing-detected".
func VerdictClass(verdict string) string {
	fields := strings.Fields(strings.ToLower(verdict))
	if len(fields) == 0 {
		return "unknown"
	}

	return strings.Join(fields, "-")
}

func VerdictTone(verdict string) Tone {
	switch VerdictClass(verdict) {
	case VerdictClass(VerdictPhishing), VerdictClass(VerdictHighRisk), VerdictClass(VerdictError),
		"phishing", "malicious":
		return ToneDanger
	case VerdictClass(VerdictSuspicious):
		return ToneWarning
	case VerdictClass(VerdictSafe), "safe":
		return ToneSafe
	default:
		return ToneUnknown
	}
}
