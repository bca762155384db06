package preprocess

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "symbol translation",
			input: "Efficacy → improved, dose 2×daily, HbA1c ↑ at baseline",
			want:  "Efficacy -> improved, dose 2xdaily, HbA1c up at baseline",
		},
		{
			name:  "gender symbols",
			input: "Cohort: 12♂ / 10♀",
			want:  "Cohort: 12male / 10female",
		},
		{
			name:  "dashes and nbsp",
			input: "dose–response curve — flattened",
			want:  "dose-response curve - flattened",
		},
		{
			name:  "space and tab collapse",
			input: "FINDINGS:\t\tNormal   lungs.",
			want:  "FINDINGS: Normal lungs.",
		},
		{
			name:  "CRLF and blank line squeeze",
			input: "line one\r\n\r\n\r\n\r\nline two",
			want:  "line one\n\nline two",
		},
		{
			name:  "control characters removed",
			input: "before\x00\x07after",
			want:  "beforeafter",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n report body \n ",
			want:  "report body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "report wrappers removed",
			input: "--- BEGIN REPORT ---\nFINDINGS: Normal.\n--- END REPORT ---",
			want:  "FINDINGS: Normal.",
		},
		{
			name:  "star headers become headings",
			input: "***FINDINGS***\nNormal lungs.",
			want:  "FINDINGS:\nNormal lungs.",
		},
		{
			name:  "bullet prefixes dropped",
			input: "* Mild nausea\n- No hepatotoxicity",
			want:  "Mild nausea\nNo hepatotoxicity",
		},
		{
			name:  "enumerations restyled",
			input: "1) First finding\n2) Second finding",
			want:  "1. First finding\n2. Second finding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStructure(tt.input); got != tt.want {
				t.Errorf("NormalizeStructure(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReport_FullPass(t *testing.T) {
	input := "--- BEGIN REPORT ---\r\n***RESULTS***\r\n• Endpoint   met → p<0.001\r\n\r\n\r\n• Grade 2 nausea\r\n--- END REPORT ---"
	want := "RESULTS:\nEndpoint met -> p<0.001\n\nGrade 2 nausea"

	if got := Report(input); got != want {
		t.Errorf("Report() = %q, want %q", got, want)
	}
}

func TestReport_Idempotent(t *testing.T) {
	once := Report("***FINDINGS***\n• Normal lungs.\n\n\nNo effusion.")
	twice := Report(once)
	if once != twice {
		t.Errorf("second pass changed output:\nonce:  %q\ntwice: %q", once, twice)
	}
}
