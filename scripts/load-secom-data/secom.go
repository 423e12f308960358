package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// secomFeatureCount is the number of sensor columns in secom.data.
const secomFeatureCount = 590

// labelLayout is the timestamp format of secom_labels.data.
const labelLayout = "02/01/2006 15:04:05"

// Sample is one row of the SECOM data set: the sensor readings of a lot and
// its final test outcome.
type Sample struct {
	Index          int
	Values         []*float64
	Classification int
	RawTimestamp   string
	TestTime       time.Time
}

// fallbackTestTime places samples without a usable timestamp on a 30 minute
// grid starting 2025-09-15 12:00 UTC.
func fallbackTestTime(idx int) time.Time {
	return time.Date(2025, time.September, 15, 12, 0, 0, 0, time.UTC).Add(time.Duration(idx) * 30 * time.Minute)
}

// shiftTimeline moves a 2008 test time onto the 2025 production calendar:
// 17 years and two months later, keeping day and time of day. July through
// September 2008 land in September through November 2025.
func shiftTimeline(t time.Time) time.Time {
	year := t.Year() + 17
	month := int(t.Month()) + 2
	if month > 12 {
		month -= 12
		year++
	}
	return time.Date(year, time.Month(month), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// parseFeatureLine splits one whitespace-separated row. NaN and unparseable
// values become nil.
func parseFeatureLine(line string) []*float64 {
	fields := strings.Fields(line)
	values := make([]*float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values[i] = &v
	}
	return values
}

// parseLabelLine parses `-1 "19/07/2008 11:55:00"`. A missing or malformed
// timestamp leaves ok false and raw as read.
func parseLabelLine(line string) (classification int, raw string, at time.Time, ok bool, err error) {
	head, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	classification, err = strconv.Atoi(head)
	if err != nil {
		return 0, "", time.Time{}, false, fmt.Errorf("invalid classification %q", head)
	}
	if classification != -1 && classification != 1 {
		return 0, "", time.Time{}, false, fmt.Errorf("classification must be -1 or 1, got %d", classification)
	}

	raw = strings.Trim(strings.TrimSpace(rest), `"`)
	if raw == "" {
		return classification, "", time.Time{}, false, nil
	}
	parsed, perr := time.Parse(labelLayout, raw)
	if perr != nil {
		return classification, raw, time.Time{}, false, nil
	}
	return classification, raw, shiftTimeline(parsed), true, nil
}

// readSamples pairs the rows of the data and label streams. Both must have
// the same number of non-blank lines.
func readSamples(data, labels io.Reader) ([]*Sample, error) {
	dataLines, err := readLines(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	labelLines, err := readLines(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(dataLines) != len(labelLines) {
		return nil, fmt.Errorf("data has %d rows but labels has %d", len(dataLines), len(labelLines))
	}

	samples := make([]*Sample, 0, len(dataLines))
	for idx := range dataLines {
		classification, raw, at, ok, err := parseLabelLine(labelLines[idx])
		if err != nil {
			return nil, fmt.Errorf("label row %d: %w", idx+1, err)
		}
		if !ok {
			at = fallbackTestTime(idx)
		}
		if raw == "" {
			raw = at.Format(labelLayout)
		}

		values := parseFeatureLine(dataLines[idx])
		if len(values) > secomFeatureCount {
			return nil, fmt.Errorf("data row %d has %d columns, want at most %d", idx+1, len(values), secomFeatureCount)
		}

		samples = append(samples, &Sample{
			Index:          idx,
			Values:         values,
			Classification: classification,
			RawTimestamp:   raw,
			TestTime:       at,
		})
	}
	return samples, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
