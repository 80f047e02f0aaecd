// Command flickrcall invokes one Flickr API method and prints the reply.
//
//	flickrcall --config flickr.yaml flickr.test.echo foo=bar
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	flickrbridge "github.com/opengovern/flickr-bridge"
	"github.com/opengovern/flickr-bridge/adapters"
	"github.com/opengovern/flickr-bridge/internal/secrets"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		useKeyring bool
		isWrite    bool
		raw        bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "flickrcall <method> [key=value ...]",
		Short: "Call a Flickr API method",
		Long: `Call a Flickr API method with the given arguments and print the reply.

Credentials, request delay, proxy and user agent come from the YAML config
file. With --keyring, secrets missing from the file are read from the system
keyring. --write sends the call as a POST.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flickrbridge.DefaultConfig()
			if configPath != "" {
				loaded, err := flickrbridge.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}
			if debug {
				cfg.Debug = true
			}
			if useKeyring {
				if err := secrets.NewKeyringStore("").FillCredentials(&cfg.Credentials); err != nil {
					return fmt.Errorf("failed to read keyring: %w", err)
				}
			}

			params, err := parseArgs(args[1:])
			if err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if cfg.Debug {
				logger.SetLevel(logrus.DebugLevel)
			}

			adapter, err := adapters.NewFlickrAdapter(cfg, logger)
			if err != nil {
				return err
			}
			session, err := flickrbridge.NewSession(cfg, adapter, flickrbridge.WithLogger(logger))
			if err != nil {
				return err
			}
			defer session.Close()

			return run(cmd.Context(), cmd, session, args[0], isWrite, raw, params)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().BoolVar(&useKeyring, "keyring", false, "read missing secrets from the system keyring")
	cmd.Flags().BoolVarP(&isWrite, "write", "w", false, "send the call as a POST")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the body without parsing it")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "log debug output")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, s *flickrbridge.Session, method string, isWrite, raw bool, params []flickrbridge.Param) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	s.Begin(isWrite)
	for _, p := range params {
		s.Add(p.Key, p.Value)
	}
	s.Finish()
	if err := s.BuildAndSign(method); err != nil {
		return err
	}

	if raw {
		data, err := s.InvokeRaw(ctx)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	res, err := s.Invoke(ctx)
	if err != nil {
		return err
	}
	res.Document.Indent(2)
	_, err = res.Document.WriteTo(out)
	return err
}

// parseArgs turns key=value arguments into params.
func parseArgs(args []string) ([]flickrbridge.Param, error) {
	params := make([]flickrbridge.Param, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		params = append(params, flickrbridge.Param{Key: key, Value: value})
	}
	return params, nil
}
