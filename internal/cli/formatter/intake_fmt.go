package formatter

import (
	"strings"

	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/report"
	"github.com/charmbracelet/lipgloss"
)

const (
	AssistantPrefix = "🤖 AI: "
	UserPrefix      = "👤 Siz: "

	MsgCompleted = "✅ KAYIT TAMAMLANDI! Dosya oluşturuldu."
	MsgCancelled = "🚫 Kayıt iptal edildi."
	MsgSaved     = "💾 Veriler kaydedildi. İyi çalışmalar!"
	MsgInterrupt = "🚫 İşlem durduruldu."
)

// Banner is the greeting printed when a chat session opens.
func Banner() string {
	features := strings.Join([]string{
		"📍 Konum: İlçe ve sokak söyleyin, koordinatı ben bulayım.",
		"💰 Bütçe: Toplam ve harcananı verin, kalanı hesaplarım.",
		"📅 Zaman: Başlangıç ve süreyi verin, bitişi hesaplarım.",
		"📐 Metraj: Uzunluk ve genişlikten alanı hesaplarım.",
		"⌨️  Komutlar: 'Geri al' son adımı geri alır, 'Kapat' çıkar.",
	}, "\n")
	return RenderBox("İnşaat Proje ve Veri Asistanı", features)
}

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)
	if title == "" {
		return box.Render(content)
	}
	return box.Render(StyleHeader.Render(Upper(title)) + "\n\n" + content)
}

// FormatQuestion renders an outstanding question as an assistant line.
func FormatQuestion(q string) string {
	return StyleSpeaker.Render(AssistantPrefix) + StyleFg.Render(q)
}

// FormatUser echoes what the user typed.
func FormatUser(text string) string {
	return Dim(UserPrefix) + text
}

// FormatReply renders one turn's reply. Ended conversations show a fixed
// closing line instead of the sentinel reply text.
func FormatReply(r intake.Reply) string {
	switch {
	case r.Completed():
		return ReplyStyle(r.Kind).Render(MsgCompleted)
	case r.Kind == intake.KindCancelled:
		return ReplyStyle(r.Kind).Render(MsgCancelled)
	}
	text := strings.TrimPrefix(r.Text, AssistantPrefix)
	return StyleSpeaker.Render(AssistantPrefix) + ReplyStyle(r.Kind).Render(text)
}

// FormatReport renders the field report as one table per section.
func FormatReport(rep report.Report) string {
	var b strings.Builder
	b.WriteString(Header("Proje Tam Detay Raporu"))
	b.WriteString("\n")
	b.WriteString(Dim(rep.GeneratedAt.Format("02.01.2006 15:04")))
	b.WriteString("\n\n")
	for _, s := range rep.Sections {
		rows := make([][]string, 0, len(s.Rows))
		for _, r := range s.Rows {
			value := r.Value
			if value == "-" {
				value = Dim(value)
			}
			rows = append(rows, []string{r.Label, value})
		}
		b.WriteString(RenderTable([]string{s.Title, ""}, rows))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
