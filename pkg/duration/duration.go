// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package duration resolves compact durations such as "1d12h" to points in
// time.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// units lists the unit symbols in the order they must appear.
var units = []struct {
	symbol rune
	word   string
}{
	{'y', "year"},
	{'M', "month"},
	{'w', "week"},
	{'d', "day"},
	{'h', "hour"},
	{'m', "minute"},
}

// Phrase expands a compact duration into a relative phrase, e.g. "1d12h"
// becomes "1 day 12 hour". Units must appear in the order y, M, w, d, h, m;
// anything else is carried into the counts as-is.
func Phrase(duration string) string {
	parts := []rune(duration)
	var sb strings.Builder
	for _, u := range units {
		idx := -1
		for i, r := range parts {
			if r == u.symbol {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s %s ", string(parts[:idx]), u.word)
		parts = parts[idx+1:]
	}
	return strings.TrimSpace(sb.String())
}

// PhraseError is returned when a relative phrase cannot be resolved.
type PhraseError struct {
	Phrase string
	Token  string
	Reason string
}

func (e *PhraseError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s %q", e.Phrase, e.Reason, e.Token)
}

// Resolve applies a phrase of "<count> <unit>" pairs to now. Units may be
// plural and a unit without a count counts once. Years, months, weeks and
// days follow the calendar; hours and minutes follow the clock.
func Resolve(phrase string, now time.Time) (time.Time, error) {
	fields := strings.Fields(phrase)
	t := now
	for i := 0; i < len(fields); i++ {
		n, count := 1, ""
		if v, err := strconv.Atoi(fields[i]); err == nil {
			n, count = v, fields[i]
			i++
			if i == len(fields) {
				return time.Time{}, &PhraseError{Phrase: phrase, Token: fields[i-1], Reason: "missing unit after"}
			}
		}
		word := strings.TrimSuffix(strings.ToLower(fields[i]), "s")
		if !inRange(word, n) {
			return time.Time{}, &PhraseError{Phrase: phrase, Token: count, Reason: "count out of range"}
		}
		switch word {
		case "year":
			t = t.AddDate(n, 0, 0)
		case "month":
			t = t.AddDate(0, n, 0)
		case "week":
			t = t.AddDate(0, 0, 7*n)
		case "day":
			t = t.AddDate(0, 0, n)
		case "hour":
			t = t.Add(time.Duration(n) * time.Hour)
		case "minute":
			t = t.Add(time.Duration(n) * time.Minute)
		default:
			return time.Time{}, &PhraseError{Phrase: phrase, Token: fields[i], Reason: "unknown unit"}
		}
	}
	return t, nil
}

// inRange reports whether n units of word can be applied without overflow.
func inRange(word string, n int) bool {
	var limit int64
	switch word {
	case "week":
		limit = math.MaxInt / 7
	case "hour":
		limit = int64(math.MaxInt64 / time.Hour)
	case "minute":
		limit = int64(math.MaxInt64 / time.Minute)
	default:
		return true
	}
	return int64(n) <= limit && int64(n) >= -limit
}

// ParseAt returns the point in time duration after now. An empty duration, or
// one without any unit symbol, is now itself.
func ParseAt(duration string, now time.Time) (time.Time, error) {
	phrase := Phrase(duration)
	if phrase == "" {
		return now, nil
	}
	return Resolve(phrase, now)
}

// Until returns how far the point in time described by duration lies after now.
func Until(duration string, now time.Time) (time.Duration, error) {
	t, err := ParseAt(duration, now)
	if err != nil {
		return 0, err
	}
	return t.Sub(now), nil
}

// ParseDuration returns the unix timestamp duration from now. Durations that
// cannot be resolved yield the current time.
func ParseDuration(duration string) int64 {
	now := time.Now()
	t, err := ParseAt(duration, now)
	if err != nil {
		return now.Unix()
	}
	return t.Unix()
}
