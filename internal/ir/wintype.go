package ir

// Wintype is an EWMH window type.
type Wintype int

const (
	WintypeUnknown Wintype = iota
	WintypeDesktop
	WintypeDock
	WintypeToolbar
	WintypeMenu
	WintypeUtility
	WintypeSplash
	WintypeDialog
	WintypeNormal
	WintypeDropdownMenu
	WintypePopupMenu
	WintypeTooltip
	WintypeNotification
	WintypeCombo
	WintypeDND

	NumWintypes int = iota
)

var wintypeNames = [NumWintypes]string{
	"unknown", "desktop", "dock", "toolbar", "menu", "utility", "splash",
	"dialog", "normal", "dropdown_menu", "popup_menu", "tooltip",
	"notification", "combo", "dnd",
}

func (w Wintype) String() string {
	if w >= 0 && int(w) < NumWintypes {
		return wintypeNames[w]
	}
	return "invalid"
}

// WintypeOptions holds the legacy per-window-type defaults. Unset fields
// defer to the global options.
type WintypeOptions struct {
	Shadow          Tristate
	Fade            Tristate
	Focus           Tristate
	BlurBackground  Tristate
	FullShadow      Tristate
	RedirIgnore     Tristate
	ClipShadowAbove Tristate
	Opacity         *float64
}

// WintypeBoolOptions lists the tristate fields of WintypeOptions.
var WintypeBoolOptions = []struct {
	Name  string
	Field func(*WintypeOptions) *Tristate
}{
	{"shadow", func(o *WintypeOptions) *Tristate { return &o.Shadow }},
	{"fade", func(o *WintypeOptions) *Tristate { return &o.Fade }},
	{"focus", func(o *WintypeOptions) *Tristate { return &o.Focus }},
	{"blur-background", func(o *WintypeOptions) *Tristate { return &o.BlurBackground }},
	{"full-shadow", func(o *WintypeOptions) *Tristate { return &o.FullShadow }},
	{"redir-ignore", func(o *WintypeOptions) *Tristate { return &o.RedirIgnore }},
	{"clip-shadow-above", func(o *WintypeOptions) *Tristate { return &o.ClipShadowAbove }},
}

// IsEmpty reports whether nothing was configured for the window type.
func (o *WintypeOptions) IsEmpty() bool {
	for _, b := range WintypeBoolOptions {
		if b.Field(o).IsSet() {
			return false
		}
	}
	return o.Opacity == nil
}
