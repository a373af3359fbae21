// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"encoding"
	"strconv"
	"strings"
	"time"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var units = []struct {
	suffix string
	dur    time.Duration
}{
	{"w", week},
	{"d", day},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

// ParseDuration parses a duration of the form <integer><unit>, where unit is
// one of w, d, h, m, s, ms, us or ns. Other inputs are handed to
// time.ParseDuration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return 0, serrors.New("invalid duration", "value", s)
	}
	num, unit := s[:i], s[i:]
	for _, u := range units {
		if u.suffix != unit {
			continue
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0, serrors.Wrap("parsing duration", err, "value", s)
		}
		return time.Duration(n) * u.dur, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, serrors.Wrap("parsing duration", err, "value", s)
	}
	return d, nil
}

// FmtDuration formats the duration using the largest unit that represents it
// exactly, so that ParseDuration(FmtDuration(d)) == d.
func FmtDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	for _, u := range units {
		if d%u.dur == 0 {
			return strconv.FormatInt(int64(d/u.dur), 10) + u.suffix
		}
	}
	return d.String()
}

var (
	_ encoding.TextUnmarshaler = (*DurWrap)(nil)
	_ encoding.TextMarshaler   = DurWrap{}
)

// DurWrap is a duration in a config file. It is written in the format of
// FmtDuration.
type DurWrap struct {
	time.Duration
}

// SetDefault sets the duration to def if it is unset.
func (d *DurWrap) SetDefault(def time.Duration) {
	if d.Duration == 0 {
		d.Duration = def
	}
}

func (d *DurWrap) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d DurWrap) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d DurWrap) String() string {
	return FmtDuration(d.Duration)
}
