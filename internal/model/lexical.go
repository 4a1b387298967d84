package model

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ands/rifcs/internal/qname"
)

// Primitive identifies the primitive datatype a simple type derives from.
type Primitive uint8

const (
	PrimitiveAnySimple Primitive = iota
	PrimitiveString
	PrimitiveBoolean
	PrimitiveDecimal
	PrimitiveFloat
	PrimitiveDouble
	PrimitiveDuration
	PrimitiveDateTime
	PrimitiveTime
	PrimitiveDate
	PrimitiveGYearMonth
	PrimitiveGYear
	PrimitiveGMonthDay
	PrimitiveGDay
	PrimitiveGMonth
	PrimitiveHexBinary
	PrimitiveBase64Binary
	PrimitiveAnyURI
	PrimitiveQName
	PrimitiveNotation
)

var (
	decimalRE  = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)
	floatRE    = regexp.MustCompile(`^(?:[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?|INF|-INF|NaN)$`)
	durationRE = regexp.MustCompile(`^-?P(?:[0-9]+Y)?(?:[0-9]+M)?(?:[0-9]+D)?(?:T(?:[0-9]+H)?(?:[0-9]+M)?(?:[0-9]+(?:\.[0-9]+)?S)?)?$`)

	tz = `(?P<tz>Z|[+-][0-9]{2}:[0-9]{2})?`

	temporalRE = map[Primitive]*regexp.Regexp{
		PrimitiveDateTime:   regexp.MustCompile(`^(?P<y>-?[0-9]{4,})-(?P<m>[0-9]{2})-(?P<d>[0-9]{2})T(?P<h>[0-9]{2}):(?P<mi>[0-9]{2}):(?P<s>[0-9]{2}(?:\.[0-9]+)?)` + tz + `$`),
		PrimitiveDate:       regexp.MustCompile(`^(?P<y>-?[0-9]{4,})-(?P<m>[0-9]{2})-(?P<d>[0-9]{2})` + tz + `$`),
		PrimitiveTime:       regexp.MustCompile(`^(?P<h>[0-9]{2}):(?P<mi>[0-9]{2}):(?P<s>[0-9]{2}(?:\.[0-9]+)?)` + tz + `$`),
		PrimitiveGYearMonth: regexp.MustCompile(`^(?P<y>-?[0-9]{4,})-(?P<m>[0-9]{2})` + tz + `$`),
		PrimitiveGYear:      regexp.MustCompile(`^(?P<y>-?[0-9]{4,})` + tz + `$`),
		PrimitiveGMonthDay:  regexp.MustCompile(`^--(?P<m>[0-9]{2})-(?P<d>[0-9]{2})` + tz + `$`),
		PrimitiveGDay:       regexp.MustCompile(`^---(?P<d>[0-9]{2})` + tz + `$`),
		PrimitiveGMonth:     regexp.MustCompile(`^--(?P<m>[0-9]{2})` + tz + `$`),
	}
)

func checkPrimitive(p Primitive, s string) error {
	switch p {
	case PrimitiveBoolean:
		switch s {
		case "true", "false", "1", "0":
			return nil
		}
		return fmt.Errorf("invalid boolean %q", s)
	case PrimitiveDecimal:
		if !decimalRE.MatchString(s) {
			return fmt.Errorf("invalid decimal %q", s)
		}
	case PrimitiveFloat, PrimitiveDouble:
		if !floatRE.MatchString(s) {
			return fmt.Errorf("invalid floating point value %q", s)
		}
	case PrimitiveDuration:
		if !durationRE.MatchString(s) || strings.HasSuffix(s, "P") || strings.HasSuffix(s, "T") {
			return fmt.Errorf("invalid duration %q", s)
		}
	case PrimitiveDateTime, PrimitiveTime, PrimitiveDate, PrimitiveGYearMonth,
		PrimitiveGYear, PrimitiveGMonthDay, PrimitiveGDay, PrimitiveGMonth:
		_, err := parseTemporal(p, s)
		return err
	case PrimitiveHexBinary:
		if _, err := hex.DecodeString(s); err != nil {
			return fmt.Errorf("invalid hexBinary %q", s)
		}
	case PrimitiveBase64Binary:
		if _, err := decodeBase64(s); err != nil {
			return fmt.Errorf("invalid base64Binary value")
		}
	case PrimitiveAnyURI:
		if _, err := url.Parse(strings.ReplaceAll(s, " ", "%20")); err != nil {
			return fmt.Errorf("invalid anyURI %q", s)
		}
	case PrimitiveQName, PrimitiveNotation:
		if _, _, _, err := qname.Split(s); err != nil {
			return err
		}
	}
	return nil
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.FieldsFunc(s, isXMLSpace), ""))
}

func parseTemporal(p Primitive, s string) (time.Time, error) {
	re, ok := temporalRE[p]
	if !ok {
		return time.Time{}, fmt.Errorf("not a temporal type")
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid lexical value %q", s)
	}
	field := func(name string, dflt int) int {
		idx := re.SubexpIndex(name)
		if idx < 0 || m[idx] == "" {
			return dflt
		}
		v, err := strconv.Atoi(m[idx])
		if err != nil {
			return -1
		}
		return v
	}
	year := field("y", 2000)
	month := field("m", 1)
	day := field("d", 1)
	hour := field("h", 0)
	minute := field("mi", 0)
	var seconds float64
	if idx := re.SubexpIndex("s"); idx >= 0 {
		seconds, _ = strconv.ParseFloat(m[idx], 64)
	}
	if year == 0 {
		return time.Time{}, fmt.Errorf("year 0000 is not allowed in %q", s)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month out of range in %q", s)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("day out of range in %q", s)
	}
	if minute < 0 || minute > 59 || seconds >= 60 || hour < 0 || hour > 24 {
		return time.Time{}, fmt.Errorf("time out of range in %q", s)
	}
	if hour == 24 && (minute != 0 || seconds != 0) {
		return time.Time{}, fmt.Errorf("hour 24 requires zero minutes and seconds in %q", s)
	}
	loc := time.UTC
	if idx := re.SubexpIndex("tz"); idx >= 0 && m[idx] != "" && m[idx] != "Z" {
		h, _ := strconv.Atoi(m[idx][1:3])
		mi, _ := strconv.Atoi(m[idx][4:6])
		if h > 14 || mi > 59 || (h == 14 && mi != 0) {
			return time.Time{}, fmt.Errorf("timezone out of range in %q", s)
		}
		offset := h*3600 + mi*60
		if m[idx][0] == '-' {
			offset = -offset
		}
		loc = time.FixedZone(m[idx], offset)
	}
	whole, frac := math.Modf(seconds)
	return time.Date(year, time.Month(month), day, hour, minute, int(whole), int(frac*1e9), loc), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func parseDecimal(s string) (*big.Rat, bool) {
	s = strings.TrimPrefix(s, "+")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}
	return new(big.Rat).SetString(s)
}

// compareValues orders two lexical values of primitive p. ok is false when
// the primitive has no usable order or either value fails to parse.
func compareValues(p Primitive, a, b string) (c int, ok bool) {
	switch p {
	case PrimitiveDecimal:
		x, okx := parseDecimal(a)
		y, oky := parseDecimal(b)
		if !okx || !oky {
			return 0, false
		}
		return x.Cmp(y), true
	case PrimitiveFloat, PrimitiveDouble:
		x, errx := strconv.ParseFloat(a, 64)
		y, erry := strconv.ParseFloat(b, 64)
		if errx != nil || erry != nil || math.IsNaN(x) || math.IsNaN(y) {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	case PrimitiveDateTime, PrimitiveTime, PrimitiveDate, PrimitiveGYearMonth,
		PrimitiveGYear, PrimitiveGMonthDay, PrimitiveGDay, PrimitiveGMonth:
		x, errx := parseTemporal(p, a)
		y, erry := parseTemporal(p, b)
		if errx != nil || erry != nil {
			return 0, false
		}
		return x.Compare(y), true
	default:
		return 0, false
	}
}

// equalValues compares two lexical values in the value space of p where
// that differs from string identity.
func equalValues(p Primitive, a, b string) bool {
	if c, ok := compareValues(p, a, b); ok {
		return c == 0
	}
	if p == PrimitiveBoolean {
		return boolValue(a) == boolValue(b)
	}
	return a == b
}

func boolValue(s string) bool {
	return s == "true" || s == "1"
}

// decimalDigits returns the total and fraction digit counts of a decimal.
func decimalDigits(s string) (total, fraction int) {
	s = strings.TrimLeft(s, "+-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	intPart = strings.TrimLeft(intPart, "0")
	fracPart = strings.TrimRight(fracPart, "0")
	total = len(intPart) + len(fracPart)
	if total == 0 {
		total = 1
	}
	return total, len(fracPart)
}
