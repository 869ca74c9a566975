package compiler

import (
	"cuelang.org/go/cue"
	"github.com/rs/zerolog"

	"github.com/roach88/winrule/internal/ir"
)

// WintypeTable holds the legacy per-window-type defaults.
type WintypeTable [ir.NumWintypes]ir.WintypeOptions

// compileWintypes reads the "wintypes" block. "notify" is accepted as the
// old name of "notification" and is applied after it.
func compileWintypes(v cue.Value, log zerolog.Logger) *WintypeTable {
	var table WintypeTable
	wv, ok := lookup(v, "wintypes")
	if !ok {
		return &table
	}
	if wv.Kind() != cue.StructKind {
		log.Warn().Int("line", wv.Pos().Line()).Msg(`"wintypes" must be a struct, ignoring`)
		return &table
	}

	for i := range ir.NumWintypes {
		w := ir.Wintype(i)
		parseWintype(wv, w.String(), &table[w], log)
	}
	parseWintype(wv, "notify", &table[ir.WintypeNotification], log)
	return &table
}

func parseWintype(wv cue.Value, name string, o *ir.WintypeOptions, log zerolog.Logger) {
	v, ok := lookup(wv, name)
	if !ok {
		return
	}
	f := fields{v: v, log: log.With().Str("wintype", name).Logger()}
	for _, b := range ir.WintypeBoolOptions {
		if val, ok := f.boolean(b.Name); ok {
			*b.Field(o) = ir.TriFromBool(val)
		}
	}
	if x, ok := f.float("opacity"); ok {
		x = ir.Normalize(x)
		o.Opacity = &x
	}
}
