package service

import (
	"fmt"
	"time"
)

const formatoDia = "2006-01-02"

// Reloj converts between the shop's calendar and stored instants. Instants
// are stored in UTC; calendar days (batch dates) are stored as UTC midnight
// of the local date.
type Reloj struct {
	Loc *time.Location
	Now func() time.Time
}

func NewReloj(loc *time.Location) Reloj {
	if loc == nil {
		loc = time.UTC
	}
	return Reloj{Loc: loc, Now: time.Now}
}

// Ahora is the current instant in UTC.
func (r Reloj) Ahora() time.Time { return r.Now().UTC() }

// Hoy is today's local calendar day.
func (r Reloj) Hoy() time.Time {
	n := r.Now().In(r.Loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDia reads a "YYYY-MM-DD" calendar day; empty means today.
func (r Reloj) ParseDia(s string) (time.Time, error) {
	if s == "" {
		return r.Hoy(), nil
	}
	t, err := time.Parse(formatoDia, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha invalida %q (se espera AAAA-MM-DD)", s)
	}
	return t, nil
}

// Rango turns an inclusive local [desde, hasta] day range into UTC instants
// with an exclusive upper bound. Empty ends are open.
func (r Reloj) Rango(desde, hasta string) (*time.Time, *time.Time, error) {
	var d, h *time.Time
	if desde != "" {
		t, err := time.ParseInLocation(formatoDia, desde, r.Loc)
		if err != nil {
			return nil, nil, fmt.Errorf("desde invalido %q (se espera AAAA-MM-DD)", desde)
		}
		t = t.UTC()
		d = &t
	}
	if hasta != "" {
		t, err := time.ParseInLocation(formatoDia, hasta, r.Loc)
		if err != nil {
			return nil, nil, fmt.Errorf("hasta invalido %q (se espera AAAA-MM-DD)", hasta)
		}
		t = t.AddDate(0, 0, 1).UTC()
		h = &t
	}
	if d != nil && h != nil && !d.Before(*h) {
		return nil, nil, fmt.Errorf("rango de fechas invalido: %s > %s", desde, hasta)
	}
	return d, h, nil
}

// Local formats an instant in the shop's time zone.
func (r Reloj) Local(t time.Time) string { return t.In(r.Loc).Format(time.RFC3339) }
