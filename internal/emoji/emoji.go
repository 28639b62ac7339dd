package emoji

// EmojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":       {"❌", "[ERR]"},
	"warning":     {"⚠️", "[WRN]"},
	"info":        {"ℹ️", "[INF]"},
	"success":     {"✅", "[OK]"},
	"dataset":     {"🗂️", "[DATA]"},
	"preview":     {"👀", "[PRV]"},
	"statistics":  {"📊", "[STATS]"},
	"columns":     {"🧾", "[COLS]"},
	"chart":       {"📈", "[CHART]"},
	"pie":         {"🥧", "[PIE]"},
	"heatmap":     {"🌡️", "[HEAT]"},
	"numeric":     {"🔢", "[#]"},
	"categorical": {"🏷️", "[TAG]"},
	"boolean":     {"☑️", "[BOOL]"},
	"missing":     {"🕳️", "[NA]"},
	"export":      {"💾", "[SAVE]"},
	"watch":       {"👁️", "[WATCH]"},
	"rocket":      {"🚀", "[DS]"},
	"help":        {"❓", "[?]"},
	"target":      {"🎯", "[>]"},
	"brain":       {"🧠", "[AI]"},
	"door":        {"🚪", "[EXIT]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// ForKind returns the icon for a column kind name ("numeric", "categorical", "boolean").
func ForKind(kind string) string {
	if _, ok := emojiMap[kind]; ok {
		return GetEmoji(kind)
	}
	return GetEmoji("info")
}
