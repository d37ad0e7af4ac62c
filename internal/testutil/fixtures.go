package testutil

import (
	"github.com/alexanderramin/intake/internal/domain"
)

// RecordOption mutates a test record.
type RecordOption func(domain.Record)

// WithField sets value at path.
func WithField(value any, path ...string) RecordOption {
	return func(r domain.Record) {
		r.Set(value, path...)
	}
}

func WithName(name string) RecordOption {
	return WithField(name, domain.FieldProjectName)
}

func WithLocation(district, street string) RecordOption {
	return func(r domain.Record) {
		r.Set(district, domain.SectionLocation, "district")
		r.Set(street, domain.SectionLocation, "street")
	}
}

func WithBudget(total, used, remaining any) RecordOption {
	return func(r domain.Record) {
		r.Set(total, domain.SectionBudget, "total")
		r.Set(used, domain.SectionBudget, "used")
		r.Set(remaining, domain.SectionBudget, "remaining")
	}
}

func WithTeams(teams ...string) RecordOption {
	return func(r domain.Record) {
		list := make([]any, len(teams))
		for i, t := range teams {
			list[i] = t
		}
		r.Set(list, domain.SectionTeam, "assignedTeams")
	}
}

// NewTestRecord returns a blank record with opts applied.
func NewTestRecord(opts ...RecordOption) domain.Record {
	r := domain.NewBlankRecord()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestState wraps NewTestRecord in a persisted document.
func NewTestState(opts ...RecordOption) *domain.State {
	s := domain.NewBlankState()
	s.Projects[0] = NewTestRecord(opts...)
	return s
}

// CompleteRecord returns a record with every question-ladder field filled.
func CompleteRecord() domain.Record {
	return NewTestRecord(
		WithName("Nilüfer Altyapı Yenileme"),
		WithField("Eskiyen içme suyu hattının yenilenmesi", domain.FieldDescription),
		WithField(domain.CategoryWater, domain.FieldCategory),
		WithField(domain.TypeNewConstruction, domain.FieldProjectType),
		WithField(domain.PriorityHigh, domain.FieldPriority),
		WithLocation("Nilüfer", "Özlüce Mahallesi"),
		WithField("40.2210, 28.9870", domain.SectionLocation, "startPoint"),
		WithField("Özlüce Camii", domain.SectionLocation, "endPoint"),
		WithField("250", domain.SectionScope, "length"),
		WithField("4", domain.SectionScope, "width"),
		WithField("1000", domain.SectionScope, "totalArea"),
		WithField("100'lük PE boru", domain.SectionScope, "materialSummary"),
		WithField("2025-05-01", domain.SectionDates, "plannedStart"),
		WithField("30", domain.SectionDates, "duration"),
		WithField("2025-05-31", domain.SectionDates, "plannedEnd"),
		WithBudget("10000000", "2000000", "8000000"),
		WithField("Ayşe Demir", domain.SectionTeam, "projectManager", "name"),
		WithField("+90 532 123 4567", domain.SectionTeam, "projectManager", "phone"),
		WithTeams("Kazı Ekibi", "Asfalt Ekibi"),
	)
}
