package state

// Slot keys. Each record lives in its own slot so a write to one can never
// clobber another.
const (
	KeyProfile = "hs_profile"
	KeyPlan    = "hs_plan"
	KeyStats   = "hs_stats"
	KeyJournal = "hs_journal"
	KeyTheme   = "hs_theme"
	KeyImages  = "hs_ai_images"
)

// saveOrder lists slots most essential first; the image cache goes last so
// that evicting it never delays the records that matter.
var saveOrder = []string{KeyProfile, KeyPlan, KeyStats, KeyJournal, KeyTheme, KeyImages}
