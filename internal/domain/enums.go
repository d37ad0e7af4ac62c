package domain

// Directive is the control status an interpreted patch may carry under
// the reserved KeySystemStatus key.
type Directive string

const (
	DirectiveFinished        Directive = "FINISHED"
	DirectiveCancelled       Directive = "CANCELLED"
	DirectiveAnswer          Directive = "ANSWER"
	DirectiveShowSummary     Directive = "SHOW_SUMMARY"
	DirectiveResetAll        Directive = "RESET_ALL"
	DirectivePaymentRedirect Directive = "PAYMENT_REDIRECT"
	DirectiveIrrelevant      Directive = "IRRELEVANT"
)

// ValidDirectives is the closed directive vocabulary. Any other status
// value is handled as an ordinary field patch.
var ValidDirectives = map[Directive]bool{
	DirectiveFinished:        true,
	DirectiveCancelled:       true,
	DirectiveAnswer:          true,
	DirectiveShowSummary:     true,
	DirectiveResetAll:        true,
	DirectivePaymentRedirect: true,
	DirectiveIrrelevant:      true,
}

// Reserved patch keys. They never reach the stored record.
const (
	KeySystemStatus    = "_system_status"
	KeyResponseMessage = "_response_message"
	KeyPaymentCategory = "_payment_category"
)

// ReservedKeys lists every key stripped from a patch before merging.
var ReservedKeys = []string{KeySystemStatus, KeyResponseMessage, KeyPaymentCategory}

type PaymentCategory string

const (
	PaymentPropertyTax   PaymentCategory = "EMLAK"
	PaymentWater         PaymentCategory = "SU"
	PaymentEnvironmental PaymentCategory = "CEVRE"
	PaymentAdvertising   PaymentCategory = "ILAN_REKLAM"
	PaymentGeneral       PaymentCategory = "GENEL"
)

// DefaultPaymentLinks maps each payment category to the municipal payment
// page the assistant redirects to. PaymentGeneral is the fallback.
var DefaultPaymentLinks = map[PaymentCategory]string{
	PaymentPropertyTax:   "https://ebelediye.bursa.bel.tr/emlak-vergisi-odeme",
	PaymentWater:         "https://buski.gov.tr/fatura-odeme",
	PaymentEnvironmental: "https://ebelediye.bursa.bel.tr/cevre-temizlik-vergisi",
	PaymentAdvertising:   "https://ebelediye.bursa.bel.tr/ilan-reklam",
	PaymentGeneral:       "https://ebelediye.bursa.bel.tr/hizli-odeme",
}

// Category taxonomy the interpreter normalizes free text into.
const (
	CategoryWater     = "Su ve Kanalizasyon"
	CategoryRoad      = "Üstyapı ve Yol"
	CategoryElectric  = "Elektrik ve Aydınlatma"
	CategoryParks     = "Park ve Bahçe"
	CategoryBuildings = "Bina ve Tesis"
)

// Project types.
const (
	TypeEmergencyRepair     = "Arıza Onarım"
	TypeNewConstruction     = "Yeni İmalat"
	TypePeriodicMaintenance = "Periyodik Bakım"
)

// Priorities. PriorityMedium is assumed when the user gives none.
const (
	PriorityCritical = "Kritik"
	PriorityHigh     = "Yüksek"
	PriorityMedium   = "Orta"
	PriorityLow      = "Düşük"
)

const (
	// DefaultCurrency is stored in budget.currency on blank records.
	DefaultCurrency = "TRY"
	// UnassignedManager is the placeholder the interpreter may write for a
	// missing project manager. It counts as unset.
	UnassignedManager = "Atanmamış"
	// DateLayout is the calendar format used for planned dates.
	DateLayout = "2006-01-02"
)
