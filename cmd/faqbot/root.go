package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"faqbot/internal/config"
	"faqbot/internal/domain"
	"faqbot/internal/faq"
	"faqbot/internal/matcher"
	"faqbot/internal/preprocess"
	"faqbot/internal/service"
	"faqbot/internal/tui"
)

type options struct {
	configPath string
	faqPath    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "faqbot",
		Short:         "Answer customer questions from a fixed FAQ",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file (defaults to ./config.yaml or ~/.config/faqbot/config.yaml)")
	root.PersistentFlags().StringVar(&opts.faqPath, "faq", "", "Path to a YAML FAQ corpus (overrides corpus.path)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Start the interactive chat window",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChat(opts)
			},
		},
		&cobra.Command{
			Use:   "ask <question...>",
			Short: "Answer a single question and exit",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, _, closeLog, err := setup(opts, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer closeLog()
				reply := svc.Ask(strings.Join(args, " "))
				_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
				return err
			},
		},
		newRankCmd(opts),
	)
	return root
}

func newRankCmd(opts *options) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "rank <question...>",
		Short: "Show the closest FAQ entries and their scores",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closeLog, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()
			out := cmd.OutOrStdout()
			for i, r := range svc.Rank(strings.Join(args, " "), top) {
				if _, err := fmt.Fprintf(out, "%2d. %.3f  %s\n", i+1, r.Score, r.Question); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 3, "Number of entries to show (0 for all)")
	return cmd
}

func runChat(opts *options) error {
	// Logs would corrupt the terminal UI unless they go to a file.
	svc, log, closeLog, err := setup(opts, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	if _, err := tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run(); err != nil {
		log.WithError(err).Error("chat ended with error")
		return err
	}
	return nil
}

// setup loads configuration, the corpus and the matcher. Logs go to
// fallbackOut unless the config names a log file; callers must call the
// returned close func when done.
func setup(opts *options, fallbackOut io.Writer) (*service.FAQService, *logrus.Entry, func() error, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if opts.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(opts.configPath)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.faqPath != "" {
		cfg.Corpus.Path = opts.faqPath
	}

	log, closeLog, err := newLogger(cfg.Log, fallbackOut)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("set up logging: %w", err)
	}

	entries := faq.Default()
	if cfg.Corpus.Path != "" {
		entries, err = faq.Load(cfg.Corpus.Path)
		if err != nil {
			log.WithError(err).WithField("path", cfg.Corpus.Path).Error("failed to load faq corpus")
			_ = closeLog()
			return nil, nil, nil, fmt.Errorf("load faq corpus: %w", err)
		}
	}

	m, err := newMatcher(log, entries, cfg.Matcher)
	if err != nil {
		log.WithError(err).Error("failed to fit matcher")
		_ = closeLog()
		return nil, nil, nil, fmt.Errorf("fit matcher: %w", err)
	}
	log.WithFields(logrus.Fields{"entries": m.Len(), "threshold": m.Threshold()}).Info("faq matcher ready")
	return service.NewFAQService(m, log), log, closeLog, nil
}

func newMatcher(log logrus.FieldLogger, entries []domain.Entry, cfg config.MatcherConfig) (*matcher.Matcher, error) {
	return matcher.New(preprocess.Default(log), entries,
		matcher.WithThreshold(cfg.Threshold),
		matcher.WithFallback(cfg.Fallback),
	)
}
