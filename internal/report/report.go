// Package report builds the full field report shown when the user asks for
// a summary of the project record.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/intake/internal/domain"
)

const (
	labelWidth = 30
	valueWidth = 55
	empty      = "-"
)

// Row is one labelled value.
type Row struct {
	Label string
	Value string
}

// Section groups related rows.
type Section struct {
	Title string
	Rows  []Row
}

// Report is the field report for one record.
type Report struct {
	GeneratedAt time.Time
	Sections    []Section
}

// Build collects every known field of the record plus any extra keys the
// interpreter added, and keys only present in the detail mirror.
func Build(p domain.Record, now time.Time) Report {
	if p == nil {
		p = domain.Record{}
	}
	cur := p.Str(domain.SectionBudget, "currency")

	sections := []Section{
		{Title: "Kimlik", Rows: []Row{
			row("Proje ID", p.Str(domain.FieldID)),
			row("Proje Kodu", p.Str(domain.FieldProjectCode)),
			row("Son Güncelleme", p.Str(domain.FieldLastUpdate)),
		}},
		{Title: "Genel", Rows: []Row{
			row("Proje Adı", p.Str(domain.FieldProjectName)),
			row("Açıklama", p.Str(domain.FieldDescription)),
			row("Kategori", p.Str(domain.FieldCategory)),
			row("Proje Türü", p.Str(domain.FieldProjectType)),
			row("Öncelik", p.Str(domain.FieldPriority)),
		}},
		{Title: "Konum", Rows: []Row{
			row("İlçe", p.Str(domain.SectionLocation, "district")),
			row("Mahalle / Sokak", p.Str(domain.SectionLocation, "street")),
			row("Başlangıç (Koord/Adres)", p.Str(domain.SectionLocation, "startPoint")),
			row("Bitiş (Koord/Adres)", p.Str(domain.SectionLocation, "endPoint")),
		}},
		{Title: "Kapsam", Rows: []Row{
			row("Uzunluk", withUnit(p.Str(domain.SectionScope, "length"), "m")),
			row("Genişlik", withUnit(p.Str(domain.SectionScope, "width"), "m")),
			row("Toplam Alan", withUnit(p.Str(domain.SectionScope, "totalArea"), "m²")),
			row("Malzeme Özeti", p.Str(domain.SectionScope, "materialSummary")),
		}},
		{Title: "Takvim", Rows: []Row{
			row("Planlanan Başlangıç", p.Str(domain.SectionDates, "plannedStart")),
			row("Planlanan Bitiş", p.Str(domain.SectionDates, "plannedEnd")),
			row("Süre (Gün)", p.Str(domain.SectionDates, "duration")),
		}},
		{Title: "Bütçe", Rows: []Row{
			row("Toplam Bütçe", withUnit(p.Str(domain.SectionBudget, "total"), cur)),
			row("Harcanan", withUnit(p.Str(domain.SectionBudget, "used"), cur)),
			row("Kalan", withUnit(p.Str(domain.SectionBudget, "remaining"), cur)),
		}},
		{Title: "Ekip", Rows: []Row{
			row("Yönetici Adı", p.Str(domain.SectionTeam, "projectManager", "name")),
			row("Yönetici Tel", p.Str(domain.SectionTeam, "projectManager", "phone")),
			row("Atanan Ekipler", strings.Join(p.Teams(), ", ")),
		}},
	}

	if extras := extraRows(p); len(extras) > 0 {
		sections = append(sections, Section{Title: "Ekstra Detaylar", Rows: extras})
	}
	return Report{GeneratedAt: now, Sections: sections}
}

func extraRows(p domain.Record) []Row {
	var rows []Row
	for _, k := range sortedKeys(p) {
		if domain.KnownTopLevelKeys[k] || k == "status" {
			continue
		}
		rows = append(rows, row("Ekstra: "+k, domain.ValueString(p[k])))
	}
	detail := p.Section(domain.FieldDetail)
	for _, k := range sortedKeys(detail) {
		if _, onRecord := p[k]; onRecord {
			continue
		}
		rows = append(rows, row("Detay: "+k, domain.ValueString(detail[k])))
	}
	return rows
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func row(label, value string) Row {
	if strings.TrimSpace(value) == "" {
		value = empty
	}
	return Row{Label: label, Value: value}
}

func withUnit(value, unit string) string {
	if value == "" {
		return ""
	}
	if unit == "" {
		return value
	}
	return value + " " + unit
}

// Text renders the report as a fixed-width plain-text table.
func (r Report) Text() string {
	line := "+" + strings.Repeat("-", labelWidth+2) + "+" + strings.Repeat("-", valueWidth+2) + "+"

	var b strings.Builder
	fmt.Fprintf(&b, "📊 PROJE TAM DETAY RAPORU (%s)\n", r.GeneratedAt.Format("02.01.2006 15:04"))
	b.WriteString(line + "\n")
	b.WriteString(cells("ALAN ADI", "DEĞER") + "\n")
	b.WriteString(line + "\n")
	for _, s := range r.Sections {
		if s.Title == "Ekstra Detaylar" {
			b.WriteString("| " + pad("--- EKSTRA DETAYLAR ---", labelWidth+valueWidth+3) + " |\n")
			b.WriteString(line + "\n")
		}
		for _, rw := range s.Rows {
			b.WriteString(cells(rw.Label, truncate(rw.Value, valueWidth)) + "\n")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func cells(label, value string) string {
	return "| " + pad(label, labelWidth) + " | " + pad(value, valueWidth) + " |"
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
