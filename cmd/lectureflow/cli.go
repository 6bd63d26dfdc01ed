package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	apperr "github.com/nguyentantai21042004/lecture-flow/internal/errors"
	"github.com/nguyentantai21042004/lecture-flow/internal/metrics"
	"github.com/nguyentantai21042004/lecture-flow/internal/processor"
	"github.com/nguyentantai21042004/lecture-flow/internal/watcher"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "lectureflow",
		Usage:   "Turn lecture recordings into transcripts and structured summaries",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "Path to the YAML config", EnvVars: []string{"LECTUREFLOW_CONFIG"}},
		},
		Commands: []*cli.Command{
			transcribeCmd(),
			summarizeCmd(),
			processCmd(),
			watchCmd(),
			audioCmd(),
			metadataCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// transcribeCmd creates the transcribe command.
func transcribeCmd() *cli.Command {
	return &cli.Command{
		Name:      "transcribe",
		Usage:     "Transcribe a stored recording into its class transcripts folder",
		ArgsUsage: "<audio-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "class", Usage: "Class name (inferred from <class>/audio/<file> when omitted)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(apperr.NewValidation("exactly one audio path is required"))
			}
			rt, err := loadRuntime(c)
			if err != nil {
				return outputError(err)
			}
			ctx, stop := signalContext(c.Context)
			defer stop()

			proc, closeFn, err := rt.pipeline(ctx, nil)
			if err != nil {
				return outputError(err)
			}
			defer closeFn()

			path, err := proc.Transcribe(ctx, c.Args().First(), c.String("class"))
			if err != nil {
				return outputError(err)
			}
			fmt.Fprintln(c.App.Writer, path)
			return nil
		},
	}
}

// summarizeCmd creates the summarize command.
func summarizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Usage:     "Summarize a transcript into a .txt/.pdf pair",
		ArgsUsage: "<transcript-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "class", Usage: "Class name (inferred from <class>/transcripts/<file> when omitted)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(apperr.NewValidation("exactly one transcript path is required"))
			}
			rt, err := loadRuntime(c)
			if err != nil {
				return outputError(err)
			}
			ctx, stop := signalContext(c.Context)
			defer stop()

			proc, closeFn, err := rt.pipeline(ctx, nil)
			if err != nil {
				return outputError(err)
			}
			defer closeFn()

			artifacts, err := proc.Summarize(ctx, c.Args().First(), c.String("class"))
			if err != nil {
				if artifacts != nil && artifacts.Preview != "" {
					fmt.Fprintln(c.App.Writer, artifacts.Preview)
				}
				return outputError(err)
			}
			return outputJSON(c.App.Writer, artifacts)
		},
	}
}

// processCmd creates the process command.
func processCmd() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Save, transcribe and summarize one recording",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "class", Required: true, Usage: "Class name"},
			&cli.StringFlag{Name: "name", Usage: "Store the recording under this filename"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(apperr.NewValidation("exactly one file is required"))
			}
			rt, err := loadRuntime(c)
			if err != nil {
				return outputError(err)
			}
			ctx, stop := signalContext(c.Context)
			defer stop()

			proc, closeFn, err := rt.pipeline(ctx, nil)
			if err != nil {
				return outputError(err)
			}
			defer closeFn()

			report, err := proc.Process(ctx, processor.Request{
				SourcePath: c.Args().First(),
				Filename:   c.String("name"),
				Class:      c.String("class"),
				OnStatus:   printStatus(c.App.ErrWriter),
			})
			if report != nil {
				if jerr := outputJSON(c.App.Writer, report); jerr != nil {
					return jerr
				}
			}
			if err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// watchCmd creates the watch command.
func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Process recordings dropped into <inbox>/<class>/",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address (overrides metrics.addr)"},
		},
		Action: func(c *cli.Context) error {
			rt, err := loadRuntime(c)
			if err != nil {
				return outputError(err)
			}
			ctx, stop := signalContext(c.Context)
			defer stop()
			log := rt.logger

			m := metrics.New()
			addr := rt.cfg.Metrics.Addr
			if c.IsSet("metrics-addr") {
				addr = c.String("metrics-addr")
			}
			if addr != "" {
				shutdown := serveMetrics(ctx, addr, m)
				defer shutdown()
				log.Info(ctx, "Metrics available at http://%s/metrics", addr)
			}

			proc, closeFn, err := rt.pipeline(ctx, m)
			if err != nil {
				return outputError(err)
			}
			defer closeFn()

			w, err := watcher.New(rt.cfg.Paths.Inbox, inboxHandler(proc, rt), log, rt.cfg.Performance.MaxConcurrent)
			if err != nil {
				return outputError(err)
			}
			defer w.Stop()

			log.Info(ctx, "LectureFlow is ready. Drop recordings into %s/<class>/", rt.cfg.Paths.Inbox)
			log.Info(ctx, "Press Ctrl+C to stop")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return outputError(err)
			}
			log.Info(ctx, "LectureFlow stopped")
			return nil
		},
	}
}

// audioCmd creates the audio command group.
func audioCmd() *cli.Command {
	return &cli.Command{
		Name:  "audio",
		Usage: "Manage stored recordings",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recordings of a class",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "class", Required: true, Usage: "Class name"},
				},
				Action: func(c *cli.Context) error {
					rt, err := loadRuntime(c)
					if err != nil {
						return outputError(err)
					}
					files, err := rt.store.ListAudioFiles(c.String("class"))
					if err != nil {
						return outputError(err)
					}
					for _, f := range files {
						fmt.Fprintln(c.App.Writer, f)
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a recording of a class",
				ArgsUsage: "<filename>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "class", Required: true, Usage: "Class name"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return outputError(apperr.NewValidation("exactly one filename is required"))
					}
					rt, err := loadRuntime(c)
					if err != nil {
						return outputError(err)
					}
					name := c.Args().First()
					deleted, err := rt.store.DeleteAudioFile(name, c.String("class"))
					if err != nil {
						return outputError(err)
					}
					if !deleted {
						return outputError(apperr.NewNotFound(name))
					}
					fmt.Fprintf(c.App.Writer, "deleted %s\n", name)
					return nil
				},
			},
		},
	}
}

// metadataCmd creates the metadata command.
func metadataCmd() *cli.Command {
	return &cli.Command{
		Name:  "metadata",
		Usage: "Show the resolved metadata of a class (the selected class when omitted)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "class", Usage: "Class name"},
		},
		Action: func(c *cli.Context) error {
			rt, err := loadRuntime(c)
			if err != nil {
				return outputError(err)
			}
			resolver := rt.resolver()
			if class := c.String("class"); class != "" {
				return outputJSON(c.App.Writer, resolver.Resolve(c.Context, class))
			}
			return outputJSON(c.App.Writer, resolver.ResolveSelected(c.Context))
		},
	}
}

// inboxHandler runs a dropped file through the pipeline and removes it from
// the inbox once the store holds a copy.
func inboxHandler(proc processor.Processor, rt *runtime) watcher.EventHandler {
	return func(ctx context.Context, class, path string) error {
		report, err := proc.Process(ctx, processor.Request{
			SourcePath: path,
			Class:      class,
			OnStatus: func(s processor.Status) {
				if s.OK {
					rt.logger.Info(ctx, "[%s] %s", s.Stage, s.Message)
				} else {
					rt.logger.Warn(ctx, "[%s] %s", s.Stage, s.Message)
				}
			},
		})
		if report != nil && report.AudioPath != "" && filepath.Clean(report.AudioPath) != filepath.Clean(path) {
			if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				rt.logger.Warn(ctx, "Failed to remove %s from inbox: %v", path, rerr)
			}
		}
		return err
	}
}

// serveMetrics starts the Prometheus endpoint and returns its shutdown func.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// Helper functions

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// printStatus writes one line per finished stage.
func printStatus(w io.Writer) processor.StatusFunc {
	return func(s processor.Status) {
		mark := "ok"
		if !s.OK {
			mark = "FAILED"
		}
		fmt.Fprintf(w, "[%s] %-11s %s %s\n", s.RunID, s.Stage, mark, s.Message)
	}
}

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
