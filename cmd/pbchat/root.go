package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liutizhong/PBChatbot/config"
)

type rootFlags struct {
	configPath string
	endpoint   string
	apiKey     string
	authType   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pbchat",
		Short:         "Talk to a configured chat backend from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "settings file (yaml or json)")
	pf.StringVar(&flags.endpoint, "endpoint", "", "chat endpoint URL (overrides the settings file)")
	pf.StringVar(&flags.apiKey, "api-key", "", "credential (overrides the settings file)")
	pf.StringVar(&flags.authType, "auth", "", "auth mode: Bearer, apikey or none (overrides the settings file)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log request and retry details to stderr")

	cmd.AddCommand(
		newChatCmd(flags),
		newProbeCmd(flags),
		newSettingsCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// settingsManager builds the settings source for a run: the watched file
// when --config is given, otherwise an in-memory manager. Flag overrides
// are applied on top either way.
func (f *rootFlags) settingsManager() (*config.Manager, error) {
	var (
		m   *config.Manager
		err error
	)
	if f.configPath != "" {
		m, err = config.Load(f.configPath, config.WithDefaults(config.Default()), config.WithEnv("PBCHAT"))
		if err != nil {
			return nil, err
		}
	} else {
		m = config.New(config.Default())
	}

	s := m.Get()
	if f.endpoint != "" {
		s.APIURL = f.endpoint
	}
	if f.apiKey != "" {
		s.APIKey = f.apiKey
	}
	if f.authType != "" {
		s.AuthType = f.authType
	}
	m.Update(s)
	return m, nil
}

func (f *rootFlags) logger() *slog.Logger {
	if f.verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
