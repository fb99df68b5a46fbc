package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/config"
	"github.com/muurk/contactform/internal/discovery"
	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/prompt"
	"github.com/muurk/contactform/internal/server"
	"github.com/muurk/contactform/internal/submission"
	"github.com/muurk/contactform/internal/ui"
	"github.com/muurk/contactform/internal/version"
	"github.com/muurk/contactform/internal/wizard/tui"
)

// Command flags
var (
	profileName    string
	serveHost      string
	servePort      int
	advertise      bool
	instanceName   string
	fieldArgs      []string
	simulate       bool
	scanTimeout    time.Duration
	forceOverwrite bool
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// profileOrDefault returns the --profile flag, falling back to the config file
func profileOrDefault() string {
	if profileName != "" {
		return profileName
	}
	return settings.Profile
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}

// tuiCmd launches the full-screen terminal form
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the full-screen terminal form",
	Long: `Open the contact form in a full-screen terminal interface.

Without --profile a picker lists the available forms. Fields are validated
as you type; Enter submits and Esc closes the confirmation.`,
	Example: `  # Pick a form
  contactform tui
  # Or simply (tui is default):
  contactform

  # Open the async form directly
  contactform tui --profile async`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&profileName, "profile", "", "Form profile (classic, async); empty shows a picker")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	snap, err := tui.Run(ctx, profileName, settings.SessionOptions())
	if err != nil {
		return err
	}
	if snap != nil {
		newPrinter(cmd).PrintConfirmation(*snap)
	}
	return nil
}

// serveCmd serves the browser form
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form to browsers",
	Long: `Start an HTTP server with the browser form.

Each browser tab gets its own form session over a WebSocket, so fields are
validated as you type and async submissions report back when they resolve.
Browsers without JavaScript fall back to a plain form POST.

Prometheus metrics are exposed at /metrics and a health check at /healthz.
With --advertise the server registers itself on the local network over mDNS
so 'contactform discover' can find it.`,
	Example: `  # Serve the classic form on localhost:8080
  contactform serve

  # Serve the async form on all interfaces and advertise it
  contactform serve --host 0.0.0.0 --profile async --advertise

  # Debug logging of every WebSocket message
  contactform serve --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (default from config: 127.0.0.1)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config: 8080)")
	serveCmd.Flags().StringVar(&profileName, "profile", "", "Profile served at / (default from config)")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the server over mDNS")
	serveCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default: contactform on <hostname>)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("host") {
		settings.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		settings.Server.Port = servePort
	}
	if cmd.Flags().Changed("advertise") {
		settings.Server.Advertise = advertise
	}
	if instanceName != "" {
		settings.Server.Instance = instanceName
	}
	profile := profileOrDefault()

	srv, err := server.New(&server.Config{
		Host:           settings.Server.Host,
		Port:           settings.Server.Port,
		DefaultProfile: profile,
		Session:        settings.SessionOptions(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr, err := srv.Listen()
	if err != nil {
		return err
	}
	port := addr.(*net.TCPAddr).Port

	printer := newPrinter(cmd)
	params := []ui.Param{
		{Key: "Address", Value: fmt.Sprintf("http://%s/", addr)},
		{Key: "Profile", Value: profile},
		{Key: "Profiles", Value: strings.Join(form.Names(), ", ")},
	}

	if settings.Server.Advertise {
		adv, err := discovery.Advertise(discovery.Advertisement{
			Instance: instanceOrDefault(settings.Server.Instance),
			Port:     port,
			Profile:  profile,
			Path:     "/forms/" + profile,
			Version:  version.Version,
		})
		if err != nil {
			// The form still works without mDNS
			logging.Error("mDNS advertisement failed", zap.Error(err))
			printer.PrintWarning("mDNS advertisement failed", []ui.Param{{Key: "Error", Value: err.Error()}})
		} else {
			defer adv.Shutdown()
			params = append(params, ui.Param{Key: "mDNS", Value: discovery.ServiceType})
		}
	}

	printer.PrintHeader("Contact form server", "contactform serve", params)

	ctx, stop := signalContext()
	defer stop()
	return srv.Run(ctx)
}

func instanceOrDefault(name string) string {
	if name != "" {
		return name
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return "contactform on " + strings.TrimSuffix(host, ".local")
	}
	return discovery.DefaultInstanceName
}

// promptCmd fills the form with line-by-line prompts
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill the form with line-by-line prompts",
	Long: `Ask for each field in turn on a plain terminal.

Answers are validated as they are typed. After submitting, rejected fields
are asked again, and a failed async submission offers a retry.`,
	Example: `  contactform prompt
  contactform prompt --profile async`,
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().StringVar(&profileName, "profile", "", "Form profile (default from config)")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	p, err := form.Lookup(profileOrDefault())
	if err != nil {
		return err
	}
	sess, err := form.NewSession(p, settings.SessionOptions())
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signalContext()
	defer stop()

	runner := prompt.NewRunner(prompt.NewSurveyDriver(), newPrinter(cmd))
	if _, err := runner.Run(ctx, sess); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return fmt.Errorf("aborted")
		}
		return err
	}
	return nil
}

// checkCmd validates field values without any interaction
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate field values non-interactively",
	Long: `Fill a form from --field flags, submit it and print the outcome.

Unlisted fields keep their initial values. The submission is a dry run that
always succeeds unless --simulate is given, in which case the configured
delay and success rate apply. Exits non-zero when the form is rejected.`,
	Example: `  # Valid classic submission
  contactform check --field textInput=Bob --field emailInput=bob@example.com \
    --field passwordInput='abc123!' --field textareaInput=Hi \
    --field selectInput=option1 --field genderInput=Male

  # Show the errors of an async submission
  contactform check --profile async --field emailInput=nope`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&profileName, "profile", "", "Form profile (default from config)")
	checkCmd.Flags().StringArrayVar(&fieldArgs, "field", nil, "Field value as name=value (repeatable)")
	checkCmd.Flags().BoolVar(&simulate, "simulate", false, "Use the configured simulated submission")
}

// parseFieldArgs splits name=value pairs. The value may contain '='.
func parseFieldArgs(args []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --field %q (expected name=value)", arg)
		}
		pairs = append(pairs, [2]string{name, value})
	}
	return pairs, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	pairs, err := parseFieldArgs(fieldArgs)
	if err != nil {
		return err
	}
	p, err := form.Lookup(profileOrDefault())
	if err != nil {
		return err
	}

	opts := settings.SessionOptions()
	if !simulate {
		opts.Submission = submission.Options{Delay: 0, SuccessRate: 1}
	}
	sess, err := form.NewSession(p, opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signalContext()
	defer stop()
	return check(ctx, sess, pairs, newPrinter(cmd))
}

// check applies pairs to sess, submits and prints the outcome
func check(ctx context.Context, sess *form.Session, pairs [][2]string, printer *ui.Printer) error {
	p := sess.Profile()
	printer.PrintHeader(p.Title, "contactform check", []ui.Param{
		{Key: "Profile", Value: p.Name},
		{Key: "Fields", Value: fmt.Sprintf("%d given", len(pairs))},
	})

	for _, pair := range pairs {
		if _, err := sess.Change(pair[0], pair[1]); err != nil {
			printer.PrintError("Invalid field value", err, []string{
				"Field names: " + strings.Join(fieldNames(p), ", "),
				"Options are given by value, e.g. selectInput=option1",
				"Checkboxes take true/false",
			})
			return err
		}
	}

	err := sess.Submit(ctx)
	var serr *form.SubmitError
	if errors.As(err, &serr) {
		if serr.Kind == form.ErrUnfilled {
			printer.PrintNotice(sess.Notice())
			errs := make(form.Errors, len(serr.Unfilled))
			for _, name := range serr.Unfilled {
				errs[name] = "required"
			}
			printer.PrintFieldErrors(serr.Alert, errs, p.Fields)
		} else {
			printer.PrintFieldErrors("Form rejected", serr.Errors, p.Fields)
		}
		return err
	}
	if err != nil {
		return err
	}

	state, err := sess.Await(ctx)
	if err != nil {
		return err
	}
	if state == submission.StateFailed {
		printer.PrintNotice(sess.Notice())
		return submission.ErrSubmissionFailed
	}

	snap, _ := sess.Confirmation()
	printer.PrintConfirmation(snap)
	return nil
}

func fieldNames(p form.Profile) []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

// discoverCmd lists advertised servers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find contactform servers on the local network",
	Long: `Browse for contactform servers advertised over mDNS.

Servers started with 'contactform serve --advertise' are listed with their
form profile and address.`,
	Example: `  contactform discover
  contactform discover --timeout 10s`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for advertisements")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	printer.PrintHeader("Discover", "contactform discover", []ui.Param{
		{Key: "Service", Value: discovery.ServiceType},
		{Key: "Timeout", Value: scanTimeout.String()},
	})

	ctx, stop := signalContext()
	defer stop()

	instances, err := discovery.Scan(ctx, scanTimeout)
	if err != nil {
		printer.PrintError("Discovery failed", err, []string{
			"Check that multicast is allowed on this network",
			"Firewall must allow mDNS (UDP port 5353)",
		})
		return err
	}

	if len(instances) == 0 {
		printer.PrintWarning("No servers found", []ui.Param{
			{Key: "Hint", Value: "start one with 'contactform serve --advertise'"},
			{Key: "Hint", Value: "try a longer --timeout"},
		})
		return nil
	}

	details := make([]ui.Param, 0, len(instances))
	for _, i := range instances {
		details = append(details, ui.Param{
			Key:   i.Name,
			Value: fmt.Sprintf("%s  (%s, v%s)", i.URL(), i.Profile(), i.Version()),
		})
	}
	printer.PrintSuccess(fmt.Sprintf("Found %d server(s)", len(instances)), details)
	return nil
}

// configCmd manages the config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// init must work even when the existing file is broken
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeWithOutput(logLevel, "stderr")
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceOverwrite, "force", false, "Overwrite an existing file without asking")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	path, err := config.CreateDefaultConfig(configPath, forceOverwrite)
	if errors.Is(err, config.ErrConfigExists) {
		if !ui.ConfirmOverwrite(cmd.InOrStdin(), cmd.OutOrStdout(), "Config file exists", []string{
			path,
			"Its contents will be replaced with the defaults",
		}) {
			printer.Println("Cancelled.")
			return nil
		}
		path, err = config.CreateDefaultConfig(configPath, true)
	}
	if err != nil {
		return err
	}

	printer.PrintSuccess("Configuration written", []ui.Param{{Key: "Path", Value: path}})
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := loadSettings(cmd, args); err != nil {
		return err
	}
	path, err := config.GetConfigPath()
	if configPath != "" {
		path, err = configPath, nil
	}
	if err != nil {
		return err
	}

	data, err := settings.Marshal()
	if err != nil {
		return err
	}
	printer := newPrinter(cmd)
	printer.PrintHeader("Effective configuration", "contactform config show", []ui.Param{{Key: "File", Value: path}})
	printer.Print(string(data))
	return nil
}
