package content

// Well-known setting keys.
const (
	SettingFooterText     = "footer_text"
	SettingContactAddress = "contact_address"
	SettingContactEmail   = "contact_email"
	SettingContactPhone   = "contact_phone"
	SettingWhatsAppNumber = "whatsapp_number"
)

// Settings indexes the settings of one language by key.
type Settings map[string]string

// NewSettings builds a Settings index. Later rows win on duplicate keys.
func NewSettings(rows []Setting) Settings {
	s := make(Settings, len(rows))
	for _, r := range rows {
		s[r.Key] = r.Value
	}
	return s
}

// Value returns the value for key, or fallback when the key is missing or
// empty.
func (s Settings) Value(key, fallback string) string {
	if v := s[key]; v != "" {
		return v
	}
	return fallback
}
