package intake

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/alexanderramin/intake/internal/calc"
	"github.com/alexanderramin/intake/internal/domain"
)

// autoFill derives every system-owned field after a merge. The order is
// fixed: location, area, budget, dates, identity, timestamp, phone, mirror.
func (r *Reconciler) autoFill(ctx context.Context, p domain.Record) {
	r.fillLocation(ctx, p)

	if area, ok := calc.Area(value(p, domain.SectionScope, "length"), value(p, domain.SectionScope, "width")); ok {
		p.Set(area, domain.SectionScope, "totalArea")
	}

	if b, ok := calc.Budget(
		value(p, domain.SectionBudget, "total"),
		value(p, domain.SectionBudget, "used"),
		value(p, domain.SectionBudget, "remaining"),
	); ok {
		p.Set(b.Total, domain.SectionBudget, "total")
		p.Set(b.Used, domain.SectionBudget, "used")
		p.Set(b.Remaining, domain.SectionBudget, "remaining")
	}

	if d, ok := calc.Dates(
		value(p, domain.SectionDates, "plannedStart"),
		value(p, domain.SectionDates, "duration"),
		value(p, domain.SectionDates, "plannedEnd"),
	); ok {
		p.Set(d.Start, domain.SectionDates, "plannedStart")
		p.Set(d.End, domain.SectionDates, "plannedEnd")
		p.Set(d.Duration, domain.SectionDates, "duration")
	}

	now := r.now()
	if p.Blank(domain.FieldID) {
		p[domain.FieldID] = r.newID()
	}
	if p.Blank(domain.FieldProjectCode) {
		p[domain.FieldProjectCode] = now.Format("KY-20060102")
	}
	p[domain.FieldLastUpdate] = now.Format(time.RFC3339)

	if phone := p.Str(domain.SectionTeam, "projectManager", "phone"); phone != "" {
		if formatted, ok := NormalizePhone(phone); ok {
			p.Set(formatted, domain.SectionTeam, "projectManager", "phone")
		}
	}

	mirror := p.Clone()
	delete(mirror, domain.FieldDetail)
	p[domain.FieldDetail] = map[string]any(mirror)
}

// fillLocation geocodes the start point. With a street it always
// re-resolves and overwrites; with only a district it fills an empty
// start point and leaves a manual one alone.
func (r *Reconciler) fillLocation(ctx context.Context, p domain.Record) {
	if r.locator == nil {
		return
	}
	district := p.Str(domain.SectionLocation, "district")
	street := p.Str(domain.SectionLocation, "street")

	switch {
	case district != "" && street != "":
		coords, ok := r.locator.Resolve(ctx, district, street)
		if !ok {
			return
		}
		if p.Str(domain.SectionLocation, "startPoint") != coords {
			r.logger.Info("start point updated", "session_id", r.sessionID, "street", street, "coords", coords)
			p.Set(coords, domain.SectionLocation, "startPoint")
		}
	case district != "" && p.Blank(domain.SectionLocation, "startPoint"):
		if coords, ok := r.locator.Resolve(ctx, district, ""); ok {
			p.Set(coords, domain.SectionLocation, "startPoint")
		}
	}
}

func value(p domain.Record, path ...string) any {
	v, _ := p.Get(path...)
	return v
}

// NormalizePhone formats the last ten digits of s as "+90 XXX XXX XXXX".
// It reports false when s holds fewer than ten digits.
func NormalizePhone(s string) (string, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) < 10 {
		return "", false
	}
	d := digits[len(digits)-10:]
	return fmt.Sprintf("+90 %s %s %s", d[:3], d[3:6], d[6:]), true
}

// NewProjectID returns a "PRJ-" identifier with six upper-case hex digits.
func NewProjectID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PRJ-" + strings.Map(unicode.ToUpper, hex[:6])
}
