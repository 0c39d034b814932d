package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cropguard/backend/internal/assessment"
	"github.com/cropguard/backend/internal/config"
	"github.com/cropguard/backend/internal/models"
	"github.com/cropguard/backend/internal/validate"
	"github.com/cropguard/backend/internal/view"
	"github.com/cropguard/backend/internal/webhook"
)

var (
	form       view.ShipmentForm
	webhookURL string
	timeout    time.Duration
	verbose    bool
)

var errFailedOutcome = errors.New("assessment failed")

var rootCmd = &cobra.Command{
	Use:           "assess",
	Short:         "Run one spoilage risk assessment against the analysis webhook",
	Long:          `Posts a shipment to the analysis webhook, normalizes the response and prints the outcome as JSON.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAssess,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&form.TruckID, "truck-id", "", "Truck identifier (required)")
	f.StringVar(&form.TruckCity, "truck-city", "", "City the truck departs from (required)")
	f.StringVar(&form.Crops, "crops", "", "Crops loaded, comma separated (required)")
	f.StringVar(&form.WarehouseCity, "warehouse-city", "", "Destination warehouse city (required)")
	f.StringVar(&form.Email, "email", "", "Alert email address (required)")
	f.StringVar(&form.TransportType, "transport-type", "", "refrigerated, ventilated, open or closed")
	f.StringVar(&form.TemperatureC, "temperature", "", "Load temperature in °C")
	f.StringVar(&form.HumidityPct, "humidity", "", "Relative humidity in %")
	f.StringVar(&form.DurationHours, "duration", "", "Expected trip duration in hours")
	f.StringVar(&form.Phone, "phone", "", "Alert phone number")
	f.StringVar(&form.Notes, "notes", "", "Free-text notes")
	f.StringVar(&webhookURL, "webhook-url", "", "Webhook URL (default: WEBHOOK_URL, mock when empty)")
	f.DurationVar(&timeout, "timeout", 0, "Request timeout (default: REQUEST_TIMEOUT)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}

func runAssess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if webhookURL != "" {
		cfg.WebhookURL = webhookURL
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}

	logger := zerolog.Nop()
	if verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	in, errs := form.Input()
	if err := validate.Shipment(validator.New(), in); err != nil {
		var fe validate.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		for k, v := range fe {
			errs[k] = v
		}
	}
	if len(errs) > 0 {
		for field, msg := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
		}
		return errors.New("invalid shipment input")
	}

	client, mode := webhook.FromURL(cfg.WebhookURL, cfg.RequestTimeout)
	logger.Info().Str("webhook", mode).Msg("sending shipment")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()
	flow := assessment.NewFlow(client, logger, cfg.DebugBodyLimit)
	out, err := flow.Submit(ctx, in)
	if err != nil {
		return err
	}
	return printOutcome(cmd, out)
}

func printOutcome(cmd *cobra.Command, out models.Outcome) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if out.Status == models.StatusFailure {
		return errFailedOutcome
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errFailedOutcome) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
