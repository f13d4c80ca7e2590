package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-request-client/internal/app"
)

// ErrRequestFailed is returned when the request completed without success.
// The normalized result has already been printed.
var ErrRequestFailed = errors.New("request failed")

// RunnerFactory opens a Runner for one command invocation.
type RunnerFactory func(cmd *cobra.Command) (*app.Runner, error)

type globalFlags struct {
	profile string
	headers []string
	baseURI string
	timeout time.Duration
	debug   bool
}

// NewRootCommand builds the reqctl command tree.
func NewRootCommand(newRunner RunnerFactory) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "reqctl",
		Short:         "Send JSON requests and print the normalized result",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.profile, "profile", "", "profile id from the profiles file")
	root.PersistentFlags().StringArrayVarP(&flags.headers, "header", "H", nil, `extra header "Key: Value" (repeatable)`)
	root.PersistentFlags().StringVar(&flags.baseURI, "base-uri", "", "override the profile base URI")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "override the request timeout (negative disables)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log the wire exchange")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		root.AddCommand(newVerbCommand(method, flags, newRunner))
	}
	return root
}

func newVerbCommand(method string, flags *globalFlags, newRunner RunnerFactory) *cobra.Command {
	var (
		query []string
		data  string
	)

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <endpoint>",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			headers, err := parseHeaders(flags.headers)
			if err != nil {
				return err
			}
			params, err := parseQuery(query)
			if err != nil {
				return err
			}
			body, err := parseBody(data)
			if err != nil {
				return err
			}

			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}
			defer func() {
				cerr := runner.Close()
				if cerr == nil {
					return
				}
				if err == nil {
					err = fmt.Errorf("close runner: %w", cerr)
					return
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "close runner: %v\n", cerr)
			}()

			client, err := runner.Client(app.ClientOptions{
				Profile: flags.profile,
				BaseURI: flags.baseURI,
				Timeout: flags.timeout,
				Debug:   flags.debug,
			})
			if err != nil {
				return err
			}

			res := app.Call(cmd.Context(), client, method, args[0], params, body, headers)

			out, err := json.MarshalIndent(res.Normalized(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if res.Failed() {
				return fmt.Errorf("%w: %s", ErrRequestFailed, res.Outcome)
			}
			return nil
		},
	}

	if method == http.MethodGet {
		cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter key=value (repeatable)")
	} else {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, or @file to read it from a file")
	}
	return cmd
}
