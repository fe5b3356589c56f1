package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shapestone/shape-csvreader/pkg/csv"
)

// Config holds the resolved settings for one conversion run.
type Config struct {
	Input      string
	ConfigFile string
	Reader     csv.ReaderOptions
	// Sniff detects the delimiter and header mode from the start of the input.
	// It leaves alone whichever of the two was set by flag or config file.
	Sniff        bool
	DelimiterSet bool
	HeadersSet   bool
	// Types maps a column name to the converter applied to its values.
	Types   map[string]csv.Converter
	Columns csv.ColumnSelector
	// KeyCase rewrites output keys; nil keeps them as read.
	KeyCase csv.HeaderConverter
}

var keyCases = map[string]csv.HeaderConverter{
	"lower": csv.LowercaseHeader,
	"upper": csv.UppercaseHeader,
	"snake": csv.SnakeCaseHeader,
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	def := csv.DefaultReaderOptions()

	// Dialect flags
	flags.StringP("delimiter", "d", string(def.Delimiter), `Field delimiter (a single character, or \t)`)
	flags.String("quote", string(def.Quote), "Quote character (empty disables quoting)")
	flags.String("escape", string(def.Escape), "Escape character inside quoted fields")
	flags.String("comment", string(def.Comment), "Comment line prefix (empty disables comments)")
	flags.String("trim", def.Trim.String(), "Whitespace trimming: none, unquoted, quoted or all")

	// Reader flags
	flags.BoolP("headers", "H", def.HasHeaders, "Treat the first record as headers")
	flags.Bool("multiline", def.SupportsMultiline, "Allow line breaks inside quoted fields")
	flags.Bool("skip-empty-lines", def.SkipEmptyLines, "Skip empty lines")
	flags.Bool("lazy-quotes", def.LazyQuotes, "Accept bare quotes in unquoted fields")
	flags.String("default-header-name", def.DefaultHeaderName, "Prefix for names of blank or missing headers")
	flags.Int("buffer-size", def.BufferSize, "Read buffer size in bytes")
	flags.Bool("sniff", false, "Detect delimiter and headers from the start of the input")

	// Output flags
	flags.StringSlice("type", nil, "Column conversion in name=kind form (repeatable)")
	flags.StringSlice("columns", nil, "Columns to emit, by name or 0-based index")
	flags.String("key-case", "", "Rewrite output keys: lower, upper or snake")
	flags.String("config", "", "Path to configuration file (JSON, YAML or TOML)")
}

// loadConfig merges the optional config file with flag overrides.
// Flags that were set explicitly win over file settings.
func loadConfig(flags *pflag.FlagSet, args []string) (*Config, error) {
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigFile: configPath,
		Reader:     csv.DefaultReaderOptions(),
		Types:      map[string]csv.Converter{},
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}

	opts := &cfg.Reader
	if opts.Delimiter, err = parseChar("delimiter", v.GetString("delimiter")); err != nil {
		return nil, err
	}
	if opts.Quote, err = parseChar("quote", v.GetString("quote")); err != nil {
		return nil, err
	}
	if opts.Escape, err = parseChar("escape", v.GetString("escape")); err != nil {
		return nil, err
	}
	if opts.Comment, err = parseChar("comment", v.GetString("comment")); err != nil {
		return nil, err
	}
	if opts.Trim, err = parseTrim(v.GetString("trim")); err != nil {
		return nil, err
	}
	opts.HasHeaders = v.GetBool("headers")
	opts.SupportsMultiline = v.GetBool("multiline")
	opts.SkipEmptyLines = v.GetBool("skip-empty-lines")
	opts.LazyQuotes = v.GetBool("lazy-quotes")
	opts.DefaultHeaderName = v.GetString("default-header-name")
	opts.BufferSize = v.GetInt("buffer-size")
	cfg.Sniff = v.GetBool("sniff")
	cfg.DelimiterSet = v.IsSet("delimiter")
	cfg.HeadersSet = v.IsSet("headers")

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	registry := csv.NewConverterRegistry()
	for _, entry := range v.GetStringSlice("type") {
		name, kind, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("type: %q is not in name=kind form", entry)
		}
		conv, err := columnConverter(registry, strings.TrimSpace(kind))
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", name, err)
		}
		cfg.Types[name] = conv
	}

	for _, col := range v.GetStringSlice("columns") {
		if idx, err := strconv.Atoi(col); err == nil && idx >= 0 {
			cfg.Columns.Indexes = append(cfg.Columns.Indexes, idx)
			continue
		}
		cfg.Columns.Names = append(cfg.Columns.Names, col)
	}

	if keyCase := v.GetString("key-case"); keyCase != "" {
		conv, ok := keyCases[strings.ToLower(keyCase)]
		if !ok {
			return nil, fmt.Errorf("key-case: unknown case %q", keyCase)
		}
		cfg.KeyCase = conv
	}

	return cfg, nil
}

// columnConverter resolves kind in registry. Characters are emitted as strings.
func columnConverter(registry *csv.ConverterRegistry, kind string) (csv.Converter, error) {
	if kind == "char" {
		return csv.ConverterFunc(func(v string) (any, error) {
			r, err := csv.ParseChar(v)
			if err != nil {
				return nil, err
			}
			return string(r), nil
		}), nil
	}
	conv, ok := registry.Get(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (known: %s)", kind, strings.Join(registry.Names(), ", "))
	}
	return conv, nil
}

// parseChar reads a single-character setting. An empty value disables it.
func parseChar(name, value string) (rune, error) {
	switch value {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	case `\n`:
		return '\n', nil
	case `\r`:
		return '\r', nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) || r == utf8.RuneError {
		return 0, fmt.Errorf("%s: %q is not a single character", name, value)
	}
	return r, nil
}

func parseTrim(value string) (csv.TrimMode, error) {
	for _, mode := range []csv.TrimMode{csv.TrimNone, csv.TrimUnquotedOnly, csv.TrimQuotedOnly, csv.TrimAll} {
		if strings.EqualFold(value, mode.String()) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("trim: unknown mode %q", value)
}
