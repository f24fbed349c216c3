package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Progress
	Skip
	Proxy
	Warn
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "\uf00c",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "\uf00d",
		plain:   "✗",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf252",
		plain:   "…",
		kaomoji: "(・_・ヾ",
		squares: "🟦",
	},
	Skip: {
		emoji:   "⏭️",
		nerd:    "\uf051",
		plain:   "»",
		kaomoji: "(￣ー￣)",
		squares: "🟨",
	},
	Proxy: {
		emoji:   "🛰️",
		nerd:    "\uf1eb",
		plain:   "~",
		kaomoji: "(⌐■_■)",
		squares: "🟪",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "\uf071",
		plain:   "!",
		kaomoji: "(°ロ°)",
		squares: "🟧",
	},
}
