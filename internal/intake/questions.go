package intake

import (
	"fmt"

	"github.com/alexanderramin/intake/internal/domain"
)

// FinalConfirmation is asked once every field on the ladder is filled.
const FinalConfirmation = "✅ Mükemmel! Tüm detaylar eksiksiz alındı. Kaydı onaylıyor musunuz? (Evet/Hayır)"

// Question is the next prompt put to the user. Field is the dotted path of
// the missing field, or empty for the final confirmation.
type Question struct {
	Field string
	Text  string
}

// Done reports whether the question is the final confirmation.
func (q Question) Done() bool { return q.Field == "" }

type rung struct {
	field string
	unset func(domain.Record) bool
	text  func(domain.Record) string
}

func blankAt(path ...string) func(domain.Record) bool {
	return func(p domain.Record) bool { return p.Blank(path...) }
}

func fixed(text string) func(domain.Record) string {
	return func(domain.Record) string { return text }
}

// ladder is the fixed elicitation order. It is never reordered by content.
var ladder = []rung{
	{"projectName", blankAt(domain.FieldProjectName), fixed("Projenin adı ne olsun?")},
	{"description", blankAt(domain.FieldDescription), fixed("Proje hakkında kısa bir açıklama girer misiniz?")},
	{"category", blankAt(domain.FieldCategory), fixed("Proje kategorisi nedir? (Örn: Su İşleri, Üstyapı, Elektrik, Park Bahçe)")},
	{"projectType", blankAt(domain.FieldProjectType), fixed("Proje türü nedir? (Örn: Arıza Onarım, Yeni İmalat, Periyodik Bakım)")},
	{"priority", priorityUnset, fixed("Projenin öncelik durumu nedir? (Düşük, Orta, Yüksek, Kritik)")},
	{"location.district", blankAt(domain.SectionLocation, "district"), fixed("Çalışma hangi ilçede yapılacak?")},
	{"location.street", blankAt(domain.SectionLocation, "street"), fixed("Hangi mahalle veya sokakta?")},
	{"location.startPoint", blankAt(domain.SectionLocation, "startPoint"), startPointQuestion},
	{"location.endPoint", blankAt(domain.SectionLocation, "endPoint"), fixed("Çalışma nerede sonlanacak?")},
	{"scope.length", blankAt(domain.SectionScope, "length"), fixed("Projenin uzunluğu (metre) ne kadar?")},
	{"scope.width", blankAt(domain.SectionScope, "width"), fixed("Projenin genişliği (metre) ne kadar?")},
	{"scope.totalArea", blankAt(domain.SectionScope, "totalArea"), fixed("Toplam alan (m2) ne kadar?")},
	{"scope.materialSummary", blankAt(domain.SectionScope, "materialSummary"), fixed("Kullanılacak ana malzemeler nelerdir? (Örn: 100'lük boru, C35 beton)")},
	{"dates.plannedStart", blankAt(domain.SectionDates, "plannedStart"), fixed("İş ne zaman başlayacak?")},
	{"dates.duration", blankAt(domain.SectionDates, "duration"), fixed("Tahminen kaç gün sürecek?")},
	{"budget.total", budgetUnset, fixed("Proje için ayrılan bütçe ne kadar?")},
	{"team.projectManager.name", managerUnset, fixed("Proje yöneticisi kim olacak?")},
	{"team.projectManager.phone", blankAt(domain.SectionTeam, "projectManager", "phone"), phoneQuestion},
	{"team.assignedTeams", blankAt(domain.SectionTeam, "assignedTeams"), fixed("Hangi ekipler veya taşeronlar bu işe atandı?")},
}

// priority has a default, so only an absent or null value counts as unset.
func priorityUnset(p domain.Record) bool {
	v, _ := p.Get(domain.FieldPriority)
	return v == nil
}

func budgetUnset(p domain.Record) bool {
	return p.Blank(domain.SectionBudget, "total") || p.Str(domain.SectionBudget, "total") == "0"
}

func managerUnset(p domain.Record) bool {
	name := p.Str(domain.SectionTeam, "projectManager", "name")
	return name == "" || name == domain.UnassignedManager
}

func startPointQuestion(p domain.Record) string {
	if street := p.Str(domain.SectionLocation, "street"); street != "" {
		return fmt.Sprintf("'%s' civarında tam başlangıç noktası neresi? (Bina no, Cami, Okul vb.)", street)
	}
	return "Tam başlangıç noktası neresi?"
}

func phoneQuestion(p domain.Record) string {
	name := p.Str(domain.SectionTeam, "projectManager", "name")
	return fmt.Sprintf("Proje yöneticisi %s için telefon numarası girilmemiş. Lütfen numarayı belirtin.", name)
}

// NextQuestion returns the question for the first unset field on the
// ladder, or the final confirmation when nothing is missing.
func NextQuestion(p domain.Record) Question {
	if p == nil {
		p = domain.Record{}
	}
	for _, r := range ladder {
		if r.unset(p) {
			return Question{Field: r.field, Text: r.text(p)}
		}
	}
	return Question{Text: FinalConfirmation}
}
