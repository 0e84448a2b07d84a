package config

import (
	"time"
)

// Config is the root configuration shared by all batch tools.
type Config struct {
	Wiki     WikiConfig     `yaml:"wiki"`
	Dump     DumpConfig     `yaml:"dump"`
	Database DatabaseConfig `yaml:"database"`
	Analyser AnalyserConfig `yaml:"analyser"`
	Log      LogConfig      `yaml:"log"`
}

// WikiConfig holds the MediaWiki API endpoint and bot credentials.
type WikiConfig struct {
	URL       string        `yaml:"url"        env:"WIKI_URL"        env-default:"https://satni.uit.no/termwiki"`
	Username  string        `yaml:"username"   env:"WIKI_USERNAME"`
	Password  string        `yaml:"password"   env:"WIKI_PASSWORD"`
	Timeout   time.Duration `yaml:"timeout"    env:"WIKI_TIMEOUT"    env-default:"30s"`
	SaveDelay time.Duration `yaml:"save_delay" env:"WIKI_SAVE_DELAY" env-default:"500ms"`
}

// DumpConfig holds the location of the offline XML dump.
type DumpConfig struct {
	Path string `yaml:"path" env:"DUMP_PATH" env-default:"./terms.xml"`
}

// DatabaseConfig holds PostgreSQL connection settings for the term
// database export sink. DSN is only required by tools that write to
// the database; they check for it themselves.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AnalyserConfig holds the morphological analyser setup. LookupTool is
// the hfst-lookup executable; FstDir contains per-language transducer
// files.
type AnalyserConfig struct {
	LookupTool string        `yaml:"lookup_tool" env:"ANALYSER_LOOKUP_TOOL" env-default:"hfst-lookup"`
	FstDir     string        `yaml:"fst_dir"     env:"ANALYSER_FST_DIR"     env-default:"/usr/share/giella"`
	Timeout    time.Duration `yaml:"timeout"     env:"ANALYSER_TIMEOUT"     env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
