package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"patma/internal/evaluator"
	"patma/internal/object"
	"patma/internal/parser"
	"patma/internal/repl"
	"patma/internal/sqlsrc"
	"patma/internal/util"
)

var (
	// Version is stamped at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	rulesPath  string
	dbProfile  string
	dbDriver   string
	dbDSN      string
	dbQuery    string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// rules config
	flag.StringVar(&rulesPath, "rules", "", "Path to a rules file (pattern => label per clause)")
	flag.StringVar(&configPath, "config", "", "Path to a TOML config file")
	// input source config
	flag.StringVar(&dbProfile, "db", "", "Named database profile from the config file")
	flag.StringVar(&dbDriver, "driver", "", "Database driver: sqlite3, mysql or postgres")
	flag.StringVar(&dbDSN, "dsn", "", "Database connection string")
	flag.StringVar(&dbQuery, "query", "", "SQL query whose rows are matched instead of stdin")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	flag.Parse()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	var fileConfig *util.FileConfig
	if configPath != "" {
		cfg, err := util.LoadFile(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fileConfig = cfg
		if logLevel == "" {
			logLevel = cfg.LogLevel
		}
		if logFile == "" {
			logFile = cfg.LogFile
		}
	}

	// Creates a new Logger that uses a JSONHandler to write to standard error
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(logLevel),
	}
	logWriter := configureLogWriter()
	defaultLogger := slog.New(slog.NewJSONHandler(logWriter, loggerOptions))
	slog.SetDefault(defaultLogger)

	if rulesPath == "" {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	clauses, err := loadRules(rulesPath)
	if err != nil {
		slog.Error("failed to load rules", "path", rulesPath, "err", err)
		os.Exit(1)
	}

	e := evaluator.New()
	if err := e.CheckClauses(clauses); err != nil {
		slog.Error("rules reference unknown extractors", "err", err)
		os.Exit(1)
	}

	values, err := inputValues(fileConfig)
	if err != nil {
		slog.Error("failed to read input", "err", err)
		os.Exit(1)
	}

	exitCode := 0
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for value, err := range values {
		if err != nil {
			slog.Error("bad input value", "err", err)
			exitCode = 1
			continue
		}
		result, err := e.Evaluate(value, clauses)
		if err != nil {
			var matchErr *evaluator.MatchError
			if errors.As(err, &matchErr) {
				slog.Warn("no rule matched", "value", matchErr.Value.Inspect())
				exitCode = 1
				continue
			}
			slog.Error("evaluation failed", "err", err)
			os.Exit(1)
		}
		rendered, err := object.ToJSON(result)
		if err != nil {
			slog.Error("failed to render result", "err", err)
			os.Exit(1)
		}
		out.Write(rendered)
		out.WriteByte('\n')
	}
	out.Flush()
	os.Exit(exitCode)
}

// loadRules parses the rules file into clauses whose bodies report the
// winning label together with the clause bindings.
func loadRules(path string) ([]evaluator.Clause, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rules, err := parser.ParseRules(string(src))
	if err != nil {
		return nil, err
	}

	clauses := make([]evaluator.Clause, 0, len(rules))
	for _, rule := range rules {
		label := rule.Label
		clauses = append(clauses, evaluator.Clause{
			Pattern: rule.Pattern,
			Body: func(env *object.Bindings) (object.Object, error) {
				result := object.NewMap()
				result.Put("rule", &object.String{Value: label})
				result.Put("bindings", env.ToMap())
				return result, nil
			},
		})
	}
	return clauses, nil
}

// inputValues yields the values to match: rows of -query when a database is
// configured, otherwise one JSON document per stdin line.
func inputValues(fileConfig *util.FileConfig) (func(yield func(object.Object, error) bool), error) {
	if dbQuery == "" {
		return stdinValues, nil
	}

	driver, dsn := dbDriver, dbDSN
	if dbProfile != "" {
		if fileConfig == nil {
			return nil, fmt.Errorf("-db %q needs a -config file with database profiles", dbProfile)
		}
		profile, err := fileConfig.Database(dbProfile)
		if err != nil {
			return nil, err
		}
		driver, dsn = profile.Driver, profile.DSN
	}
	if driver == "" || dsn == "" {
		return nil, fmt.Errorf("-query needs -driver and -dsn, or -db with a config file")
	}

	src, err := sqlsrc.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	rows, err := src.Query(dbQuery)
	src.Close()
	if err != nil {
		return nil, err
	}

	return func(yield func(object.Object, error) bool) {
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	}, nil
}

func stdinValues(yield func(object.Object, error) bool) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		value, err := object.FromJSON(line)
		if !yield(value, err) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		yield(nil, err)
	}
}

func configureLogWriter() *os.File {
	var logWriter *os.File
	var err error
	if logFile != "" {
		// Create parent directories if they don't exist
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
			return os.Stderr
		}
		logWriter, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
			logWriter = os.Stderr
		}
	} else {
		logWriter = os.Stderr
	}
	return logWriter
}

func printVersion() {
	fmt.Printf("patma version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: patma [options]

Options:
  -rules <path>      Rules file with one 'pattern => label' clause per line.
  -config <path>     TOML config file with log settings and database profiles.
  -db <name>         Named database profile from the config file.
  -driver <name>     Database driver: sqlite3, mysql or postgres.
  -dsn <string>      Database connection string.
  -query <sql>       Match the rows of this query instead of stdin.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error. Default is 'error'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
Without -rules, patma starts an interactive session. With -rules, it reads
one JSON document per stdin line (or the rows of -query) and prints, for
each input, the label of the first matching rule and its bindings as JSON.

Examples:
  patma                                      Start the interactive session
  patma -rules routes.pat < events.jsonl     Match JSON lines against rules
  patma -rules audit.pat -config patma.toml -db events -query 'SELECT * FROM events'

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
