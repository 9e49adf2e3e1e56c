package collector

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/ssq/internal/contracts"
)

// drawPage is the official draw notice response
type drawPage struct {
	State    int         `json:"state"`
	Message  string      `json:"message"`
	Total    int         `json:"total"`
	PageNum  int         `json:"pageNum"`
	PageNo   int         `json:"pageNo"`
	PageSize int         `json:"pageSize"`
	Records  []drawEntry `json:"result"`
}

// drawEntry is one draw as published; numbers arrive as strings
type drawEntry struct {
	Name string     `json:"name"`
	Code string     `json:"code"`
	Date noticeDate `json:"date"`
	Week string     `json:"week"`
	Red  string     `json:"red"`
	Blue string     `json:"blue"`
}

// noticeDate decodes "2024-01-02(二)"; the weekday suffix is optional
type noticeDate struct {
	time.Time
	weekday string
}

func (d *noticeDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("draw date must be a string: %w", err)
	}

	day, suffix, _ := strings.Cut(strings.TrimSpace(s), "(")
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(day))
	if err != nil {
		return fmt.Errorf("invalid draw date %q: %w", s, err)
	}

	d.Time = t
	d.weekday = strings.TrimSuffix(suffix, ")")
	return nil
}

// toRecord converts an entry into a validated record with the given seq
func (e drawEntry) toRecord(seq int) (contracts.DrawRecord, error) {
	blue, err := strconv.Atoi(strings.TrimSpace(e.Blue))
	if err != nil {
		return contracts.DrawRecord{}, fmt.Errorf("draw %s: invalid blue ball %q: %w", e.Code, e.Blue, err)
	}
	special, err := contracts.NewSpecialBall(blue)
	if err != nil {
		return contracts.DrawRecord{}, fmt.Errorf("draw %s: %w", e.Code, err)
	}

	primary, err := parseRed(e.Red)
	if err != nil {
		return contracts.DrawRecord{}, fmt.Errorf("draw %s: %w", e.Code, err)
	}

	weekday := e.Week
	if weekday == "" {
		weekday = e.Date.weekday
	}

	return contracts.NewDrawRecord(seq, e.Code, e.Date.Time, weekday, special, primary)
}

// parseRed parses "01,02,03,04,05,06"
func parseRed(s string) ([contracts.PrimaryPerDraw]contracts.PrimaryBall, error) {
	var balls [contracts.PrimaryPerDraw]contracts.PrimaryBall

	parts := strings.Split(s, ",")
	if len(parts) != contracts.PrimaryPerDraw {
		return balls, fmt.Errorf("expected %d red balls, got %q", contracts.PrimaryPerDraw, s)
	}

	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return balls, fmt.Errorf("invalid red ball %q: %w", part, err)
		}
		b, err := contracts.NewPrimaryBall(v)
		if err != nil {
			return balls, err
		}
		balls[i] = b
	}
	return balls, nil
}
