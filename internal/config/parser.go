package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/wangnov/gewe-notice-shim/internal/platform"
)

// Parser evaluates shim configs with the host's platform table injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform global undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// Load reads FileName from root. A missing file yields Default.
func Load(ctx context.Context, root string, detector platform.Detector) (*Config, error) {
	path := filepath.Join(root, FileName)
	cfg, err := NewParser(detector).ParseFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ParseFile parses a Lua config file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string. Fields the config leaves
// out keep their Default values.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// extractConfig reads the global "shim" table over the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	shimVal := L.GetGlobal(luaGlobalShim)
	shimTable, ok := shimVal.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'shim' table",
			Detail:  fmt.Sprintf("expected table, got %s", shimVal.Type()),
		}
	}

	cfg := Default()

	if s, ok := stringField(shimTable, luaFieldBinary); ok {
		cfg.Binary = s
	}
	if s, ok := stringField(shimTable, luaFieldPrefix); ok {
		cfg.PackagePrefix = s
	}

	if buildTable, ok := shimTable.RawGetString(luaFieldBuild).(*lua.LTable); ok {
		if s, ok := stringField(buildTable, luaFieldTool); ok {
			cfg.Build.Tool = s
		}
		if list, ok := stringListField(buildTable, luaFieldProbeArgs); ok {
			cfg.Build.ProbeArgs = list
		}
		if list, ok := stringListField(buildTable, luaFieldArgs); ok {
			cfg.Build.Args = list
		}
		if s, ok := stringField(buildTable, luaFieldOutputDir); ok {
			cfg.Build.OutputDir = s
		}
	}

	if verifyTable, ok := shimTable.RawGetString(luaFieldVerify).(*lua.LTable); ok {
		if s, ok := stringField(verifyTable, luaFieldKeyring); ok {
			cfg.Verify.Keyring = s
		}
		if b, ok := verifyTable.RawGetString(luaFieldRequired).(lua.LBool); ok {
			cfg.Verify.Required = bool(b)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

func stringField(table *lua.LTable, name string) (string, bool) {
	v, ok := table.RawGetString(name).(lua.LString)
	if !ok {
		return "", false
	}
	return string(v), true
}

// stringListField reads an array of strings. nil holes left by
// platform.when are skipped.
func stringListField(table *lua.LTable, name string) ([]string, bool) {
	list, ok := table.RawGetString(name).(*lua.LTable)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, list.Len())
	for i := 1; i <= list.MaxN(); i++ {
		if s, ok := list.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out, true
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
