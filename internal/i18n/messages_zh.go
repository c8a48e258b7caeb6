package i18n

// chineseMessages contains all Chinese translations.
var chineseMessages = map[string]string{
	// Error messages
	"error.keyword_empty":     "搜索关键词不能为空",
	"error.cookie_missing":    "未配置网易云音乐Cookie，请在插件配置中填写完整的Cookie字符串",
	"error.cookie_keys":       "Cookie字符串缺少必需字段: %s。请确保Cookie包含 MUSIC_U 和 __csrf 字段",
	"error.search_no_results": "未找到与'%s'相关的歌曲",
	"error.song_not_found":    "未找到歌曲ID %d",
	"error.invalid_song_id":   "无效的歌曲ID: %d",
	"error.bad_chat_key":      "无法解析会话标识: %s",
	"error.rate_limited":      "发送过于频繁，请稍后再试",
	"error.generic":           "操作失败，请稍后再试",

	// Search results
	"search.header": "网易云音乐搜索结果",
	"search.intro":  "为您找到以下歌曲(关键词: %s):",
	"search.entry":  "%d. %s - %s (ID: %d)",
	"search.footer": "若要播放,请使用 'play_song' 方法。",

	// Playback delivery
	"play.info":          "🎵 歌曲信息:\n标题: %s\n艺术家: %s\n时长: %s\nID: %d\n\n请在网易云音乐中搜索播放: %s",
	"play.native_sent":   "🎵 歌曲《%s》分享卡片已发送",
	"play.card_sent":     "🎵 歌曲《%s》卡片已发送",
	"play.fallback_sent": "🎵 歌曲《%s》已发送（文字+封面+语音）",

	// Catalog data placeholders
	"catalog.unknown_album": "未知专辑",
}
