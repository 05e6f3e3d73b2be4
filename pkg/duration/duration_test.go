// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package duration

import (
	"errors"
	"testing"
	"time"
)

func TestPhrase(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		want     string
	}{
		{"Empty", "", ""},
		{"Day And Hours", "1d12h", "1 day 12 hour"},
		{"Minutes", "30m", "30 minute"},
		{"Months Not Minutes", "2M", "2 month"},
		{"Every Unit", "1y2M3w4d5h6m", "1 year 2 month 3 week 4 day 5 hour 6 minute"},
		{"Multi Digit", "120m", "120 minute"},
		{"Bare Unit", "d", "day"},
		{"No Unit", "42", ""},
		{"Out Of Order", "12h1d", "12h1 day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phrase(tt.duration); got != tt.want {
				t.Errorf("Phrase(%q) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestParseAt(t *testing.T) {
	now := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		duration  string
		want      time.Time
		wantError bool
	}{
		{"Empty Is Now", "", now, false},
		{"Day And Hours", "1d12h", time.Date(2024, time.February, 1, 22, 0, 0, 0, time.UTC), false},
		{"Week", "2w", time.Date(2024, time.February, 14, 10, 0, 0, 0, time.UTC), false},
		{"Month Overflow", "1M", time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC), false},
		{"Year", "1y", time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC), false},
		{"Minutes", "90m", time.Date(2024, time.January, 31, 11, 30, 0, 0, time.UTC), false},
		{"Bare Unit", "h", time.Date(2024, time.January, 31, 11, 0, 0, 0, time.UTC), false},
		{"Garbage Count", "xd", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAt(tt.duration, now)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseAt(%q) error = %v, wantError %v", tt.duration, err, tt.wantError)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseAt(%q) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	for _, phrase := range []string{"3", "1 fortnight", "1 day 2"} {
		_, err := Resolve(phrase, time.Now())
		var pe *PhraseError
		if !errors.As(err, &pe) {
			t.Errorf("Resolve(%q) error = %v, want *PhraseError", phrase, err)
		}
	}
	if _, err := Resolve("1 days 2 Hours", time.Now()); err != nil {
		t.Errorf("Resolve with plural units failed: %v", err)
	}
}

func TestResolveCountOutOfRange(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []string{"99999999999h", "999999999999999m", "9999999999999999999w"} {
		_, err := ParseAt(d, now)
		var pe *PhraseError
		if !errors.As(err, &pe) || pe.Reason != "count out of range" {
			t.Errorf("ParseAt(%q) error = %v, want count out of range", d, err)
		}
	}
	if _, err := ParseAt("2000h", now); err != nil {
		t.Errorf("ParseAt(2000h) failed: %v", err)
	}
}

func TestUntil(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	got, err := Until("1d12h", now)
	if err != nil {
		t.Fatalf("Until failed: %v", err)
	}
	if want := 36 * time.Hour; got != want {
		t.Errorf("Until(1d12h) = %v, want %v", got, want)
	}
}

func TestParseDuration(t *testing.T) {
	const tolerance = 5
	now := time.Now().Unix()
	if got := ParseDuration(""); got < now || got > now+tolerance {
		t.Errorf("ParseDuration(\"\") = %d, want about %d", got, now)
	}
	want := time.Now().AddDate(0, 0, 1).Add(12 * time.Hour).Unix()
	if got := ParseDuration("1d12h"); got < want-tolerance || got > want+tolerance {
		t.Errorf("ParseDuration(1d12h) = %d, want about %d", got, want)
	}
	if got := ParseDuration("xd"); got < now || got > now+tolerance {
		t.Errorf("ParseDuration(xd) = %d, want about %d", got, now)
	}
}
