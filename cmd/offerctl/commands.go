package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	offerhttp "github.com/flight-search/flight-offer-engine/internal/adapter/http"
	"github.com/flight-search/flight-offer-engine/internal/adapter/provider"
	"github.com/flight-search/flight-offer-engine/internal/config"
	"github.com/flight-search/flight-offer-engine/internal/domain"
	"github.com/flight-search/flight-offer-engine/internal/infrastructure/logger"
	"github.com/flight-search/flight-offer-engine/internal/usecase"
)

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks failures caused by the caller's input rather than the engine.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var uerr *usageError
	if errors.As(err, &uerr) || domain.IsValidation(err) || domain.IsConfiguration(err) {
		return exitUsage
	}
	return exitFailure
}

type filterOptions struct {
	input    string
	profile  string
	pretty   bool
	logLevel string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "offerctl",
		Short:         "Normalize and filter raw flight offers",
		Long:          "offerctl runs raw supplier offers through the normalization adapters and a filter profile.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr (debug, info, warn, error)")

	root.AddCommand(
		newFilterCmd(&logLevel),
		newProfilesCmd(),
	)
	return root
}

func newFilterCmd(logLevel *string) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a request document and print the result as JSON",
		Example: `  offerctl filter --input request.json --pretty
  cat request.json | offerctl filter --profile autobook`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.logLevel = *logLevel
			return runFilter(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "request document path, or - for stdin")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "filter profile; overrides the document's profile")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	return cmd
}

func runFilter(cmd *cobra.Command, opts *filterOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return &usageError{err: err}
	}

	log := logger.NewWithOutput(logger.Config{
		Level:       opts.logLevel,
		Format:      "console",
		ServiceName: "offerctl",
	}, cmd.ErrOrStderr())

	req, err := readRequest(cmd.InOrStdin(), opts.input)
	if err != nil {
		return &usageError{err: err}
	}
	if opts.profile != "" {
		req.Profile = opts.profile
	}
	if err := req.Validate(); err != nil {
		return &usageError{err: fmt.Errorf("invalid request: %w", err)}
	}

	uc := usecase.NewOfferSearchUseCase(provider.NewDefaultRegistry(), log, nil, &usecase.Config{
		NormalizeConcurrency: cfg.Engine.NormalizeConcurrency,
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Engine.RequestTimeout)
	defer cancel()

	result, err := uc.Filter(ctx, offerhttp.ToFilterRequest(req, cfg.DefaultProfile()))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// readRequest decodes the request document from path, or from stdin when path is "-".
func readRequest(stdin io.Reader, path string) (*offerhttp.FilterOffersRequest, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req offerhttp.FilterOffersRequest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return &req, nil
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List filter profiles and their stages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "PROFILE\tSTAGES\n")
			for _, p := range domain.Profiles() {
				stages, err := usecase.ProfileStages(p)
				if err != nil {
					return err
				}
				names := make([]string, len(stages))
				for i, s := range stages {
					names[i] = string(s)
				}
				fmt.Fprintf(w, "%s\t%s\n", p, strings.Join(names, " -> "))
			}
			fmt.Fprintf(w, "\nversion %s\n", usecase.ProfileVersion)
			return w.Flush()
		},
	}
}
