package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error messages
	"error.keyword_empty":     "Search keyword must not be empty",
	"error.cookie_missing":    "Cloud Music cookie is not configured. Paste the full cookie string into the plugin configuration",
	"error.cookie_keys":       "Cookie string is missing required fields: %s. Make sure the cookie contains MUSIC_U and __csrf",
	"error.search_no_results": "No songs found for '%s'",
	"error.song_not_found":    "No song found with ID %d",
	"error.invalid_song_id":   "Invalid song ID: %d",
	"error.bad_chat_key":      "Cannot parse chat key: %s",
	"error.rate_limited":      "Too many song requests, please try again later",
	"error.generic":           "Something went wrong. Please try again",

	// Search results
	"search.header": "Cloud Music Search Results",
	"search.intro":  "Found these songs (keyword: %s):",
	"search.entry":  "%d. %s - %s (ID: %d)",
	"search.footer": "To play one, call 'play_song' with its ID.",

	// Playback delivery
	"play.info":          "🎵 Song info:\nTitle: %s\nArtist: %s\nDuration: %s\nID: %d\n\nListen on Cloud Music: %s",
	"play.native_sent":   "🎵 Shared song '%s' as a music card",
	"play.card_sent":     "🎵 Sent song '%s' as a signed card",
	"play.fallback_sent": "🎵 Sent song '%s' (text + cover + voice)",

	// Catalog data placeholders
	"catalog.unknown_album": "Unknown album",
}
