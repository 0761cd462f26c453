package config

// File and environment names shared by the commands.
const (
	// FileName is the optional config file looked up in the package root.
	FileName = "gewe-shim.lua"

	// EnvRoot overrides the package root for both installer and launcher.
	EnvRoot = "GEWE_NOTICE_MCP_ROOT"

	// EnvLogLevel selects the log level (debug, info, warn, error).
	EnvLogLevel = "GEWE_SHIM_LOG"
)

// Defaults matching the published package.
const (
	DefaultBinary        = "gewe-notice-mcp"
	DefaultPackagePrefix = "gewe-notice-mcp"
	DefaultBuildTool     = "cargo"
	DefaultOutputDir     = "target/release"

	// ProjectURL is shown in guidance as the place to ask for help.
	ProjectURL = "https://github.com/wangnov/gewe-notice-mcp"
)

// Lua schema field names and globals
const (
	luaGlobalShim     = "shim"
	luaFieldBinary    = "binary"
	luaFieldPrefix    = "package_prefix"
	luaFieldBuild     = "build"
	luaFieldTool      = "tool"
	luaFieldProbeArgs = "probe_args"
	luaFieldArgs      = "args"
	luaFieldOutputDir = "output_dir"
	luaFieldVerify    = "verify"
	luaFieldKeyring   = "keyring"
	luaFieldRequired  = "required"
)
