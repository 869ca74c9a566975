package compiler

import (
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"github.com/rs/zerolog"

	"github.com/roach88/winrule/internal/condition"
	"github.com/roach88/winrule/internal/config"
	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/logging"
	"github.com/roach88/winrule/internal/paths"
	"github.com/roach88/winrule/internal/script"
)

// Config supplies the collaborators of Compile. Zero fields get defaults.
type Config struct {
	Scripts  ScriptCompiler
	Presets  PresetExpander
	Resolver paths.Resolver
	Reporter Reporter
	// Settings are the values in effect before the file is read.
	Settings *config.Settings
	// IncludeDir is the base for relative shader paths, normally the
	// directory of the configuration file. Settings.IncludeDir wins when set.
	IncludeDir string
	IDs        LoadIDGenerator
}

// Result is everything one configuration compiles to.
type Result struct {
	LoadID string
	// Unified is true when the "rules" list is in use.
	Unified bool
	// Rules holds one condition per compiled rule, in file order. Each
	// carries an *ir.WindowOptions, see RuleOptions.
	Rules *condition.List
	// Animations is the default trigger table.
	Animations ir.AnimationTable
	// Scripts is every retained script, for teardown.
	Scripts *ir.ScriptRegistry
	// Legacy and Wintypes are nil in unified mode.
	Legacy   LegacyLists
	Wintypes *WintypeTable

	Settings       config.Settings
	LogLevel       string
	LogFile        string
	WritePIDPath   string
	WindowShaderFG string
	VSync          bool

	Problems   []string
	Deprecated []Deprecation
}

// Close releases every retained script.
func (r *Result) Close() {
	r.Scripts.ReleaseAll()
}

func (c *Config) fill() error {
	if c.Scripts == nil {
		c.Scripts = script.NewCompiler()
	}
	if c.Presets == nil {
		sc, ok := c.Scripts.(*script.Compiler)
		if !ok {
			sc = script.NewCompiler()
		}
		c.Presets = script.NewPresets(sc)
	}
	if c.Resolver == nil {
		c.Resolver = paths.NewXDGResolver()
	}
	if c.Settings == nil {
		s, err := config.Defaults()
		if err != nil {
			return err
		}
		c.Settings = s
	}
	if c.Settings.IncludeDir != "" {
		c.IncludeDir = c.Settings.IncludeDir
	}
	if c.IDs == nil {
		c.IDs = UUIDv7Generator{}
	}
	return nil
}

// Compile compiles a configuration value. Per-item problems are logged and
// the item skipped; a structural problem returns a *CompileError and no
// result.
func Compile(v cue.Value, cfg Config) (*Result, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return nil, newError("config", ErrCodeNotStruct, v.Pos(),
			"configuration must be a struct, got %s", v.Kind())
	}
	if err := cfg.fill(); err != nil {
		return nil, err
	}

	res := &Result{
		LoadID:   cfg.IDs.Generate(),
		Rules:    &condition.List{},
		Scripts:  &ir.ScriptRegistry{},
		Settings: *cfg.Settings,
	}
	log := logging.GetLogger("compiler").With().Str("load_id", res.LoadID).Logger()
	if cfg.Reporter == nil {
		cfg.Reporter = NewProblemLog(log)
	}

	c := &compilation{
		v:          v,
		cfg:        cfg,
		res:        res,
		log:        log,
		f:          fields{v: v, log: log},
		animations: NewAnimationCompiler(cfg.Scripts, cfg.Presets, res.Scripts),
	}
	if err := c.run(); err != nil {
		res.Scripts.ReleaseAll()
		return nil, err
	}

	if pl, ok := cfg.Reporter.(*ProblemLog); ok {
		res.Problems = pl.Problems()
		res.Deprecated = pl.Deprecated()
	}
	log.Info().
		Int("rules", res.Rules.Len()).
		Int("scripts", res.Scripts.Len()).
		Bool("unified", res.Unified).
		Msg("configuration compiled")
	return res, nil
}

// compilation is the state of one Compile call.
type compilation struct {
	v          cue.Value
	cfg        Config
	res        *Result
	log        zerolog.Logger
	f          fields
	animations *AnimationCompiler
}

func (c *compilation) run() error {
	c.logLevel()

	if rv, ok := lookup(c.v, "rules"); ok {
		deprecated, err := NewRuleCompiler(c.animations).CompileRules(c.res.Rules, rv)
		if err != nil {
			return err
		}
		if deprecated {
			c.cfg.Reporter.ReportDeprecated("rules", false)
		}
		c.resolveRuleShaders()
	}
	c.res.Unified = c.res.Rules.Len() > 0

	if err := c.scalars(); err != nil {
		return err
	}

	rc := &reconciler{
		log:        c.log,
		reporter:   c.cfg.Reporter,
		resolver:   c.cfg.Resolver,
		includeDir: c.cfg.IncludeDir,
	}
	c.res.Legacy = rc.reconcile(c.v, c.res.Unified)

	if s, ok := c.f.str("window-shader-fg"); ok {
		c.res.WindowShaderFG = c.resolveShader("window-shader-fg", s)
	}
	if s, ok := c.f.str("write-pid-path"); ok {
		c.absolutePath("write-pid-path", s)
		c.res.WritePIDPath = s
	}

	if !c.res.Unified {
		c.res.Wintypes = compileWintypes(c.v, c.log)
	}

	if av, ok := lookup(c.v, "animations"); ok {
		if err := c.animations.CompileAnimations(&c.res.Animations, av); err != nil {
			return err
		}
	}

	if c.res.Settings.Fading {
		c.animations.GenerateFading(&c.res.Animations, FadeParams{
			InStep:            c.res.Settings.FadeInStep,
			OutStep:           c.res.Settings.FadeOutStep,
			Delta:             c.res.Settings.FadeDelta,
			NoFadingOpenClose: c.res.Settings.NoFadingOpenClose,
		})
	}
	return nil
}

func (c *compilation) logLevel() {
	s, ok := c.f.str("log-level")
	if !ok {
		return
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lvl < zerolog.TraceLevel || lvl > zerolog.FatalLevel || s == "" {
		c.log.Warn().Str("log_level", s).Msg("invalid log level, defaults to warn")
		c.cfg.Reporter.RecordProblem("log-level")
		return
	}
	c.res.LogLevel = lvl.String()
}

func (c *compilation) resolveRuleShaders() {
	for _, cond := range c.res.Rules.All() {
		opts := RuleOptions(cond)
		if opts == nil || opts.Shader == "" {
			continue
		}
		opts.Shader = c.resolveShader("shader", opts.Shader)
	}
}

// resolveShader returns the absolute path of a shader, or "" when it cannot
// be found.
func (c *compilation) resolveShader(option, file string) string {
	resolved, ok := c.cfg.Resolver.Resolve("shaders", file, c.cfg.IncludeDir)
	if !ok {
		c.log.Warn().Str("option", option).Str("shader", file).Msg("cannot find shader, ignoring")
		c.cfg.Reporter.RecordProblem(option)
		return ""
	}
	return resolved
}

func (c *compilation) absolutePath(option, p string) {
	if !filepath.IsAbs(p) {
		c.log.Warn().Str("option", option).Msgf("the %s in your configuration file is not an absolute path", option)
		c.cfg.Reporter.RecordProblem(option)
	}
}

// scalars applies the scalar options on top of the settings.
func (c *compilation) scalars() error {
	s := &c.res.Settings
	f := c.f
	bothStyles := func(option string) {
		if c.res.Unified {
			warnBothStyles(c.log, c.cfg.Reporter, option)
		}
	}

	if n, ok := f.integer("fade-delta"); ok {
		s.FadeDelta = n
	}
	if x, ok := f.float("fade-in-step"); ok {
		s.FadeInStep = ir.Normalize(x)
	}
	if x, ok := f.float("fade-out-step"); ok {
		s.FadeOutStep = ir.Normalize(x)
	}
	if b, ok := f.boolean("fading"); ok {
		s.Fading = b
	}
	if b, ok := f.boolean("no-fading-openclose"); ok {
		s.NoFadingOpenClose = b
	}

	if x, ok := f.float("inactive-opacity"); ok {
		s.InactiveOpacity = ir.Normalize(x)
		bothStyles("inactive-opacity")
	}
	if x, ok := f.float("active-opacity"); ok {
		s.ActiveOpacity = ir.Normalize(x)
		bothStyles("active-opacity")
	}

	if fv, ok := lookup(c.v, "shadow-exclude-reg"); ok {
		return newError("shadow-exclude-reg", ErrCodeRemovedOption, fv.Pos(),
			"shadow-exclude-reg is deprecated, use clip-shadow-above for more flexible shadow exclusion")
	}

	if b, ok := f.boolean("inactive-opacity-override"); ok {
		s.InactiveOpacityOverride = b
		bothStyles("inactive-opacity-override")
	}
	if x, ok := f.float("inactive-dim"); ok {
		s.InactiveDim = x
		bothStyles("inactive-dim")
	}
	if b, ok := f.boolean("mark-wmwin-focused"); ok {
		s.MarkWMWinFocused = b
		bothStyles("mark-wmwin-focused")
	}
	if b, ok := f.boolean("mark-ovredir-focused"); ok {
		s.MarkOverrideRedirFocus = b
		bothStyles("mark-ovredir-focused")
	}
	if b, ok := f.boolean("shadow-ignore-shaped"); ok {
		s.ShadowIgnoreShaped = b
		bothStyles("shadow-ignore-shaped")
	}

	if b, ok := f.boolean("xinerama-shadow-crop"); ok {
		s.CropShadowToMonitor = b
		c.log.Warn().Msg("xinerama-shadow-crop is deprecated, use crop-shadow-to-monitor instead")
		c.cfg.Reporter.RecordProblem("xinerama-shadow-crop")
	}
	if b, ok := f.boolean("crop-shadow-to-monitor"); ok {
		s.CropShadowToMonitor = b
	}
	if _, ok := f.integer("refresh-rate"); ok {
		c.cfg.Reporter.ReportDeprecated("refresh-rate", false)
	}

	if fv, ok := lookup(c.v, "vsync"); ok {
		if fv.Kind() == cue.StringKind {
			sv, _ := fv.String()
			return newError("vsync", ErrCodeVsyncString, fv.Pos(),
				"vsync option will take a boolean from now on, %q in your configuration should be changed to %t",
				sv, parseVsync(sv))
		}
		if b, ok := f.boolean("vsync"); ok {
			c.res.VSync = b
		}
	}

	if p, ok := f.str("log-file"); ok {
		c.absolutePath("log-file", p)
		c.res.LogFile = p
	}
	if n, ok := f.integer("unredir-if-possible-delay"); ok {
		if n < 0 {
			c.log.Warn().Int("value", n).Msg("invalid unredir-if-possible-delay")
			c.cfg.Reporter.RecordProblem("unredir-if-possible-delay")
		} else {
			s.UnredirIfPossibleDelay = n
		}
	}

	if _, ok := f.integer("resize-damage"); ok {
		c.cfg.Reporter.ReportDeprecated("resize-damage", false)
	}
	if _, ok := f.boolean("glx-no-stencil"); ok {
		c.cfg.Reporter.ReportDeprecated("glx-no-stencil", false)
	}
	if _, ok := f.boolean("glx-no-rebind-pixmap"); ok {
		c.cfg.Reporter.ReportDeprecated("glx-no-rebind-pixmap", false)
	}
	return nil
}

// parseVsync maps the old string vsync modes onto on/off.
func parseVsync(s string) bool {
	switch strings.ToLower(s) {
	case "", "none", "off", "false", "no":
		return false
	}
	return true
}
