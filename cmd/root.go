/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"net/http"
	"time"

	"github.com/phux/phishcheck/app"
	"github.com/phux/phishcheck/config"

	"github.com/spf13/cobra"
)

var (
	configFile string
	endpoint   string
	insecure   bool
	timeout    time.Duration
	headerFile string
)

// newHTTPClient is swapped in tests so outgoing calls can be mocked.
var newHTTPClient = func(timeout time.Duration, insecure bool) *http.Client {
	return app.NewHTTPClient(timeout, insecure)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "phishcheck",
	Short: "ask a phishing analysis service for a verdict on a URL",
	Long: `phishcheck forwards a URL to a phishing analysis service and shows
the verdict and findings it returns, either in the terminal (check) or on
a single web page (serve).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "[optional] YAML config file")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "[optional] base URL of the analysis service (default from config: "+config.DefaultEndpoint+")")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "[optional] skip TLS verification of the analysis service")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "[optional] timeout for the analysis request (0 = none)")
	rootCmd.PersistentFlags().StringVar(&headerFile, "headerFile", "", "[optional] headerFile: provide (additional) header key-value pairs via a JSON object (string: string). Applied to every request")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Changed("insecure") {
		cfg.Insecure = insecure
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}

	headers, err := app.LoadHeadersFromFile(headerFile)
	if err != nil {
		return nil, err
	}
	cfg.Headers = app.Headers(cfg.Headers).Merge(headers)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newClient(cfg *config.Config) *app.Client {
	return app.NewClient(
		cfg.Endpoint,
		newHTTPClient(cfg.Timeout, cfg.Insecure),
		cfg.Headers,
	)
}
