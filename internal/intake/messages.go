package intake

import (
	"fmt"

	"github.com/alexanderramin/intake/internal/domain"
)

// Sentinels returned as reply text when the conversation ends.
const (
	SessionCompleted = "SESSION_COMPLETED_SUCCESSFULLY"
	SessionCancelled = "SESSION_CANCELLED"
)

const (
	msgNothingToUndo = "Geri alınacak işlem yok."
	msgUndone        = "⏪ Son işlem geri alındı."
	msgNotUnderstood = "Veriyi anlayamadım, lütfen tekrar eder misiniz?"
	msgIrrelevant    = "⛔ Üzgünüm, sadece belediye proje verileri ile ilgili yardımcı olabilirim."
	msgReset         = "🗑️ Tüm veriler silindi, kayda baştan başlıyoruz."
	assistantPrefix  = "🤖 AI: "
)

// undoWords trigger an undo without consulting the interpreter.
var undoWords = map[string]bool{
	"undo":      true,
	"geri al":   true,
	"geri":      true,
	"vazgeçtim": true,
}

func withQuestion(msg, question string) string {
	return msg + "\n\n" + assistantPrefix + question
}

func paymentMessage(category domain.PaymentCategory, link, question string) string {
	return fmt.Sprintf("💳 ÖDEME YÖNLENDİRMESİ\nİlgili işlem için sizi güvenli ödeme sayfasına yönlendiriyorum:\n🔗 %s ÖDEME: %s\n\n%sBiz projemize dönelim. %s",
		category, link, assistantPrefix, question)
}
