// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/key"
)

const (
	emoji   = "emoji"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, plain, squares}
}

// Icon identifies a symbol independently of its variant.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Cached
	Stale
	Lua
	Web
	Star
	Video
)

type iconDef struct {
	emoji   string
	plain   string
	squares string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

var icons = map[Icon]iconDef{
	Success: {emoji: "✅", plain: "OK", squares: "▣"},
	Fail:    {emoji: "❌", plain: "X", squares: "▢"},
	Warn:    {emoji: "⚠️", plain: "!", squares: "◩"},
	Cached:  {emoji: "💾", plain: "C", squares: "▤"},
	Stale:   {emoji: "⏳", plain: "~", squares: "◫"},
	Lua:     {emoji: "🌙", plain: "lua", squares: "◈"},
	Web:     {emoji: "🌐", plain: "web", squares: "◇"},
	Star:    {emoji: "⭐", plain: "*", squares: "■"},
	Video:   {emoji: "🎬", plain: ">", squares: "▶"},
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
