package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recs/internal/domain"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		tok     string
		id      int
		letter  byte
		tag     string
		wantErr bool
	}{
		{tok: "12M", id: 12, letter: 'M', tag: "spendthrift"},
		{tok: "0P", id: 0, letter: 'P', tag: "traditional"},
		{tok: "451Q", id: 451, letter: 'Q', tag: "creative"},
		{tok: "7R", id: 7, letter: 'R', tag: "fun"},
		{tok: "9S", id: 9, letter: 'S', tag: "quiet"},
		{tok: "33L", id: 33, letter: 'L', tag: ""},
		{tok: "M", wantErr: true},
		{tok: "12", wantErr: true},
		{tok: "abM", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			got, err := ParseRating(tt.tok)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRating() error = %v", err)
			}
			if got.ItemID != tt.id || got.Letter != tt.letter || got.Personality != tt.tag {
				t.Errorf("ParseRating() = %+v", got)
			}
		})
	}
}

func TestReadSessions(t *testing.T) {
	input := strings.Join([]string{
		"09/21/1996\t1.2.3.4\t0L\t12M 13P bad 12M\t14",
		"too\tfew",
		"09/22/1996\t5.6.7.8\t1L\t\t-1",
	}, "\n")
	got, report, err := ReadSessions("session.1", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(got) != 2 || report.Processed != 2 {
		t.Fatalf("sessions = %d, processed = %d, want 2 2", len(got), report.Processed)
	}
	if got[0].IP != "1.2.3.4" || got[0].EntryPoint != "0L" || got[0].EndPoint != "14" {
		t.Errorf("session = %+v", got[0])
	}
	if len(got[0].Ratings) != 3 {
		t.Errorf("ratings = %d, want 3", len(got[0].Ratings))
	}
	if len(report.Failures) != 2 {
		t.Errorf("failures = %d, want 2: %v", len(report.Failures), report.Err())
	}

	profile := PersonalityProfile(got)
	if profile[12]["spendthrift"] != 2 {
		t.Errorf("profile[12] = %v, want spendthrift=2", profile[12])
	}
	if profile[13]["traditional"] != 1 {
		t.Errorf("profile[13] = %v, want traditional=1", profile[13])
	}
}

func TestLoadSessions(t *testing.T) {
	dir := t.TempDir()
	body := "d\tip\t0L\t1R 2S\t3\n"
	if err := os.WriteFile(filepath.Join(dir, "session.1"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, report, err := LoadSessions([]string{filepath.Join(dir, "session.*")})
	if err != nil {
		t.Fatalf("LoadSessions() error = %v", err)
	}
	if len(got) != 1 || report.Err() != nil {
		t.Fatalf("sessions = %d, report = %v", len(got), report.Err())
	}
	profile := PersonalityProfile(got)
	if profile[1]["fun"] != 1 || profile[2]["quiet"] != 1 {
		t.Errorf("profile = %v", profile)
	}
}
