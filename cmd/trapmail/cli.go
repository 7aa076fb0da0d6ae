package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/kornelski/trapmail/internal/config"
	"github.com/kornelski/trapmail/internal/errors"
	"github.com/kornelski/trapmail/internal/mail"
	"github.com/kornelski/trapmail/internal/mcp"
	"github.com/kornelski/trapmail/internal/ops"
	"github.com/kornelski/trapmail/internal/store"
)

// newCLIApp creates the CLI application. trapmail is flag-driven rather
// than subcommand-driven so that it can stand in for sendmail, which
// accepts recipient addresses as positional arguments.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:      "trapmail",
		Usage:     "Capture outgoing mail to local files instead of sending it",
		ArgsUsage: "[addresses...]",
		Version:   Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.BoolFlag{Name: "i", Usage: "Do not treat a lone dot on a line as end of input"},
			&cli.BoolFlag{Name: "t", Usage: "Read additional recipients from the message headers"},
			&cli.StringFlag{Name: "dump", Usage: "Pretty-print the mail record at `PATH` and exit"},
			&cli.BoolFlag{Name: "dump-all", Usage: "Pretty-print every mail record in the store and exit"},
			&cli.BoolFlag{Name: "export-mbox", Usage: "Write all captured mail to stdout in mbox format and exit"},
			&cli.BoolFlag{Name: "purge", Usage: "Delete all captured mail from the store and exit"},
			&cli.BoolFlag{Name: "mcp", Usage: "Run as an MCP server on stdio"},
			&cli.StringFlag{Name: "store", Usage: "Override the storage directory `PATH`"},
		},
		Action: runAction,
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func runAction(c *cli.Context) error {
	cfg := loadConfig()
	if root := c.String("store"); root != "" {
		cfg.StorePath = root
	}
	setupLogging(c.Bool("debug"), cfg.LogLevel)

	st := store.WithRoot(cfg.StorePath)

	switch {
	case c.Bool("mcp"):
		return mcp.Run(st, Version)
	case c.String("dump") != "":
		return runDump(c.String("dump"))
	case c.Bool("dump-all"):
		return runDumpAll(st)
	case c.Bool("export-mbox"):
		return runExport(st)
	case c.Bool("purge"):
		return runPurge(st)
	default:
		return runCapture(c, st)
	}
}

// loadConfig resolves configuration from ~/.trapmail/config.yaml and
// the environment, falling back to env-only when no home directory is
// available (as under some daemon contexts).
func loadConfig() *config.Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config.FromEnv()
	}
	cfg, err := config.Load(filepath.Join(homeDir, ".trapmail"))
	if err != nil {
		log.WithError(err).Warn("ignoring unreadable config file")
		return config.FromEnv()
	}
	return cfg
}

func setupLogging(debug bool, level string) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.WarnLevel
	}
	log.SetLevel(parsed)
}

func runCapture(c *cli.Context, st *store.Store) error {
	opts := mail.Options{
		Debug:            c.Bool("debug"),
		IgnoreDots:       c.Bool("i"),
		InlineRecipients: c.Bool("t"),
		Addresses:        c.Args().Slice(),
	}

	body, err := readBody(os.Stdin, opts.IgnoreDots)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not read message from stdin: %v", err), 1)
	}

	output, err := ops.Capture(st, ops.CaptureInput{Options: opts, Body: body})
	if err != nil {
		return outputError(err)
	}

	// sendmail is silent on success; only announce under debug.
	log.WithField("file", output.FileName).Debug("capture complete")
	return nil
}

func runDump(path string) error {
	m, err := ops.Dump(path)
	if err != nil {
		return outputError(err)
	}
	ops.Render(os.Stdout, filepath.Base(path), m)
	return nil
}

func runDumpAll(st *store.Store) error {
	failed, err := ops.DumpAll(os.Stdout, st)
	if err != nil {
		return outputError(err)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d record(s) could not be read", failed), 1)
	}
	return nil
}

func runExport(st *store.Store) error {
	output, err := ops.ExportMbox(os.Stdout, st)
	if err != nil {
		return outputError(err)
	}
	if output.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d record(s) could not be exported", output.Failed), 1)
	}
	return nil
}

func runPurge(st *store.Store) error {
	output, err := ops.Purge(st)
	if err != nil {
		return outputError(err)
	}
	return outputJSON(output)
}

// readBody reads a message body from r. Unless ignoreDots is set, a
// line consisting of a single dot terminates the input and is not part
// of the body, matching sendmail's behavior when fed by shell scripts.
func readBody(r io.Reader, ignoreDots bool) ([]byte, error) {
	if ignoreDots {
		return io.ReadAll(r)
	}

	var body bytes.Buffer
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if isDotLine(line) {
			return body.Bytes(), nil
		}
		body.Write(line)
		if err == io.EOF {
			return body.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// isDotLine reports whether line is a single dot with an optional line
// terminator.
func isDotLine(line []byte) bool {
	trimmed := bytes.TrimRight(line, "\r\n")
	return len(trimmed) == 1 && trimmed[0] == '.'
}

// outputJSON writes indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var te *errors.TrapError
	if stderrors.As(err, &te) {
		return cli.Exit(fmt.Sprintf("[%s] %s", te.Code, te.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
