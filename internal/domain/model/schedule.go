package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay bounds the minute-of-day of a departure.
const MinutesPerDay = 24 * 60

var departureTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Weekday is a three-letter lower-case day name.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var weekdays = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// ParseWeekday accepts "Mon", "mon", "MON" and so on.
func ParseWeekday(s string) (Weekday, bool) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	_, ok := weekdays[d]
	return d, ok
}

// Time converts d to a time.Weekday.
func (d Weekday) Time() (time.Weekday, bool) {
	wd, ok := weekdays[d]
	return wd, ok
}

// RouteSchedule is the recurring template that produces trip instances.
//
// @Description Recurring departure template for a route and transport unit
type RouteSchedule struct {
	ID               string    `json:"id" example:"sch-colombo-kandy-am"`
	RouteID          string    `json:"route_id" example:"colombo-kandy"`
	Leg              Leg       `json:"leg" example:"train"`
	TransportUnitID  string    `json:"transport_unit_id" example:"train-3"`
	DepartureTime    string    `json:"departure_time" example:"08:00"`
	FrequencyMinutes int       `json:"frequency_minutes" example:"60"`
	DurationMinutes  int       `json:"duration_minutes" example:"180"`
	OperatingDays    []Weekday `json:"operating_days" swaggertype:"array,string" example:"mon,wed"`
	Version          int       `json:"version" example:"1"`
	UpdatedAt        time.Time `json:"updated_at"`
} // @name RouteSchedule

// Validate checks schedule field invariants. Failures wrap ErrInvalidSchedule.
func (s RouteSchedule) Validate() error {
	if s.ID == "" {
		return InvalidSchedule("id", "must not be empty")
	}
	if s.RouteID == "" {
		return InvalidSchedule("route_id", "must not be empty")
	}
	if !s.Leg.Valid() {
		return InvalidSchedule("leg", "must be train or truck")
	}
	if s.TransportUnitID == "" {
		return InvalidSchedule("transport_unit_id", "must not be empty")
	}
	if !departureTimePattern.MatchString(s.DepartureTime) {
		return InvalidSchedule("departure_time", "must be HH:MM")
	}
	if s.FrequencyMinutes <= 0 {
		return InvalidSchedule("frequency_minutes", "must be greater than zero")
	}
	if s.DurationMinutes <= 0 {
		return InvalidSchedule("duration_minutes", "must be greater than zero")
	}
	if len(s.OperatingDays) == 0 {
		return InvalidSchedule("operating_days", "must not be empty")
	}
	for _, d := range s.OperatingDays {
		if _, ok := d.Time(); !ok {
			return InvalidSchedule("operating_days", "unknown day "+string(d))
		}
	}
	return nil
}

// DepartureMinute returns the first departure as minutes after midnight.
// Callers must Validate first.
func (s RouteSchedule) DepartureMinute() int {
	h, _ := strconv.Atoi(s.DepartureTime[:2])
	m, _ := strconv.Atoi(s.DepartureTime[3:])
	return h*60 + m
}

// OperatesOn reports whether the schedule runs on wd.
func (s RouteSchedule) OperatesOn(wd time.Weekday) bool {
	for _, d := range s.OperatingDays {
		if t, ok := d.Time(); ok && t == wd {
			return true
		}
	}
	return false
}

// Duration returns the trip duration.
func (s RouteSchedule) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
