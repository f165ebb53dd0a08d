package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/pulseboard/heartbeat/internal/version"
)

// resolveServerURL returns the server URL from the flag or HEARTBEAT_SERVER_URL
// env var. Prints a warning to stderr when falling back to the env var.
func resolveServerURL(cmd *cobra.Command, flagValue string) (string, error) {
	normalize := func(v string) string {
		return strings.TrimRight(v, "/")
	}
	if cmd.Flags().Changed("server") {
		return normalize(flagValue), nil
	}
	if v := os.Getenv("HEARTBEAT_SERVER_URL"); v != "" {
		fmt.Fprintf(os.Stderr, "heartbeatctl: WARNING: using server URL from HEARTBEAT_SERVER_URL environment variable\n")
		return normalize(v), nil
	}
	return "", fmt.Errorf("server URL required: use --server flag or set HEARTBEAT_SERVER_URL")
}

func main() {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:     "heartbeatctl",
		Short:   "heartbeatctl - command-line client for the heartbeat presence ledger",
		Version: version.Version,
	}
	rootCmd.SetVersionTemplate(version.String("heartbeatctl") + "\n")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Heartbeat server URL (or set HEARTBEAT_SERVER_URL)")

	rootCmd.AddCommand(newLoginCmd(&serverURL))
	rootCmd.AddCommand(newBeatCmd(&serverURL))
	rootCmd.AddCommand(newQueryCmd(&serverURL))
	rootCmd.AddCommand(newAdjustCmd(&serverURL))
	rootCmd.AddCommand(newCreateCmd(&serverURL))
	rootCmd.AddCommand(newValidateCmd(&serverURL))
	rootCmd.AddCommand(newDashboardCmd(&serverURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// authedParams loads the cached binding and seeds the id/secret params every
// verified operation requires.
func authedParams() (url.Values, error) {
	cred, err := loadCredential()
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("id", cred.ID)
	params.Set("secret", cred.Secret)
	return params, nil
}

func runOp(cmd *cobra.Command, serverURL *string, method, op string, params url.Values) error {
	resolved, err := resolveServerURL(cmd, *serverURL)
	if err != nil {
		return err
	}
	result, err := callAPI(resolved, method, op, params)
	if err != nil {
		if strings.Contains(err.Error(), "authentication failed") {
			clearCredential()
			fmt.Fprintln(os.Stderr, "heartbeatctl: cached credential rejected and cleared; run 'heartbeatctl login' again")
		}
		return err
	}
	var pretty any
	_ = json.Unmarshal(result, &pretty)
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
	return nil
}

func newLoginCmd(serverURL *string) *cobra.Command {
	var (
		accessToken  string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Bind your Google identity and store the issued secret locally",
		Long: `Exchange a Google access token for a local id/secret credential.
Pass --token directly, or pass --client-id to run the OAuth device flow:
you will be shown a code to enter at google.com/device.
The issued secret is displayed by the server exactly once; heartbeatctl
caches it for later commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveServerURL(cmd, *serverURL)
			if err != nil {
				return err
			}

			token := accessToken
			if token == "" {
				if clientID == "" {
					return fmt.Errorf("either --token or --client-id is required")
				}
				token, err = deviceFlowToken(cmd.Context(), clientID, clientSecret)
				if err != nil {
					return err
				}
			}

			params := url.Values{}
			params.Set("access_token", token)
			result, err := callAPI(resolved, http.MethodPost, "oauth", params)
			if err != nil {
				return err
			}

			cred := &storedCredential{}
			if err := json.Unmarshal(result, cred); err != nil {
				return fmt.Errorf("decode binding: %w", err)
			}
			if err := saveCredential(cred); err != nil {
				return err
			}
			fmt.Printf("bound subject %s; credential stored\n", cred.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&accessToken, "token", "", "Google access token to exchange directly")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id for the device flow")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret for the device flow")

	return cmd
}

// deviceFlowToken runs the OAuth Device Authorization Grant (RFC 8628), which
// needs no redirect URI and so works from any terminal.
func deviceFlowToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"email"},
	}

	deviceResp, err := conf.DeviceAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("device auth request: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Visit %s and enter code %s\n", deviceResp.VerificationURI, deviceResp.UserCode)

	token, err := conf.DeviceAccessToken(ctx, deviceResp)
	if err != nil {
		return "", fmt.Errorf("device flow: %w", err)
	}
	return token.AccessToken, nil
}

func newBeatCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "beat",
		Short: "Send one liveness signal for the bound subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := loadCredential()
			if err != nil {
				return err
			}
			params := url.Values{}
			params.Set("id", cred.ID)
			return runOp(cmd, serverURL, http.MethodPost, "heartbeat", params)
		},
	}
}

func newQueryCmd(serverURL *string) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Fetch the raw ledger rows for a month's calendar window",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := authedParams()
			if err != nil {
				return err
			}
			if month != "" {
				params.Set("month", month)
			}
			return runOp(cmd, serverURL, http.MethodGet, "query", params)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to fetch (YYYYMM, default: current month)")
	return cmd
}

func newAdjustCmd(serverURL *string) *cobra.Command {
	var date, target, value string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Write a manual override (start, end or gaps) for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := authedParams()
			if err != nil {
				return err
			}
			params.Set("date", date)
			params.Set("target", target)
			params.Set("value", value)
			return runOp(cmd, serverURL, http.MethodPost, "adjust", params)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day key (YYYYMMDD)")
	cmd.Flags().StringVar(&target, "target", "", "Override field: start, end or gaps")
	cmd.Flags().StringVar(&value, "value", "", "Epoch seconds for start/end (0 clears), gap seconds for gaps")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newCreateCmd(serverURL *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Materialize an empty day so it can be edited",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := authedParams()
			if err != nil {
				return err
			}
			params.Set("date", date)
			return runOp(cmd, serverURL, http.MethodPost, "create", params)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day key (YYYYMMDD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newValidateCmd(serverURL *string) *cobra.Command {
	var date, value string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Set or clear the reviewed lock flag on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := authedParams()
			if err != nil {
				return err
			}
			params.Set("date", date)
			params.Set("value", value)
			return runOp(cmd, serverURL, http.MethodPost, "validate", params)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day key (YYYYMMDD)")
	cmd.Flags().StringVar(&value, "value", "1", "1 to lock, 0 to unlock")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newDashboardCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch the anonymized cross-subject dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, serverURL, http.MethodGet, "dashboard", url.Values{})
		},
	}
}
