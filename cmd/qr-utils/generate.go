package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/generator"
	"github.com/prasetyowira/qr-utils/domain/payload"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	appLogger "github.com/prasetyowira/qr-utils/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// EventInputLayout is the --start/--end format.
const EventInputLayout = "2006-01-02 15:04"

// requestBuilder turns parsed flags into a payload request.
type requestBuilder func() (payload.Request, error)

// generateCommand wraps a builder into a subcommand that renders and saves.
func (a *app) generateCommand(use, short string, required []string, bind func(cmd *cobra.Command) requestBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	build := bind(cmd)
	for _, name := range required {
		_ = cmd.MarkFlagRequired(name)
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		req, err := build()
		if err != nil {
			return err
		}
		return a.generate(cmd, req)
	}
	return cmd
}

func (a *app) generate(cmd *cobra.Command, req payload.Request) error {
	overrides, err := a.overrides(cmd)
	if err != nil {
		return err
	}
	logoSize, err := parseLogoSize(a.flags.logoSize)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	if vc, ok := req.(*payload.VCardRequest); ok && vc.Version == "" {
		vc.Version = a.cfg.VCardDefaults.Version
	}

	ctx := appLogger.WithRequestID(context.Background(), uuid.New().String())
	artifact, err := svc.Generate(ctx, generator.GenerateOptions{
		Request:    req,
		OutputPath: a.flags.output,
		LogoPath:   a.flags.logo,
		LogoSize:   logoSize,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "QR code generated successfully!")
	fmt.Fprintf(a.stdout, "Output: %s\n", artifact.Path)
	fmt.Fprintf(a.stdout, "Config directory: %s\n", a.cfg.Dir())
	fmt.Fprintf(a.stdout, "Logs directory: %s\n", a.cfg.LogDir())
	fmt.Fprintln(a.stdout, appLogger.FormatMetadata(map[string]interface{}{
		constant.DataKind:    string(artifact.Kind),
		constant.DataVersion: artifact.Version,
		constant.DataFormat:  string(artifact.Format),
		constant.DataSize:    artifact.Bytes,
	}))
	return nil
}

func (a *app) kindCommands() []*cobra.Command {
	return []*cobra.Command{
		a.generateCommand("url", "Generate URL QR code", []string{"url"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.URLRequest{}
			cmd.Flags().StringVar(&req.URL, "url", "", "URL to encode")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("vcard", "Generate vCard QR code", []string{"first-name", "last-name"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.VCardRequest{}
			addr := &payload.Address{}
			fl := cmd.Flags()
			fl.StringVar(&req.FirstName, "first-name", "", "first name")
			fl.StringVar(&req.LastName, "last-name", "", "last name")
			fl.StringVar(&req.Phone, "phone", "", "phone number")
			fl.StringVar(&req.Email, "email", "", "email address")
			fl.StringVar(&req.Organization, "organization", "", "organization")
			fl.StringVar(&req.Title, "title", "", "job title")
			fl.StringVar(&req.URL, "url", "", "website URL")
			fl.StringVar(&req.Birthday, "birthday", "", "birthday (YYYYMMDD)")
			fl.StringVar(&req.Note, "note", "", "additional notes")
			fl.StringVar(&req.Version, "vcard-version", "", "vCard version (default from config)")
			fl.StringVar(&addr.Street, "street", "", "work address street")
			fl.StringVar(&addr.City, "city", "", "work address city")
			fl.StringVar(&addr.State, "state", "", "work address state")
			fl.StringVar(&addr.PostalCode, "postal-code", "", "work address postal code")
			fl.StringVar(&addr.Country, "country", "", "work address country")
			return func() (payload.Request, error) {
				if *addr != (payload.Address{}) {
					req.Address = addr
				}
				return req, nil
			}
		}),

		a.generateCommand("wifi", "Generate WiFi QR code", []string{"ssid"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.WiFiRequest{}
			var security string
			fl := cmd.Flags()
			fl.StringVar(&req.SSID, "ssid", "", "WiFi SSID")
			fl.StringVar(&req.Password, "password", "", "WiFi password")
			fl.StringVar(&security, "security", string(payload.SecurityWPA), "security type (WPA, WEP, nopass)")
			fl.BoolVar(&req.Hidden, "hidden", false, "network is hidden")
			return func() (payload.Request, error) {
				s, err := payload.ParseSecurity(security)
				if err != nil {
					return nil, err
				}
				req.Security = s
				return req, nil
			}
		}),

		a.generateCommand("sms", "Generate SMS QR code", []string{"phone"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.SMSRequest{}
			cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
			cmd.Flags().StringVar(&req.Message, "message", "", "pre-filled message")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("email", "Generate email QR code", []string{"email"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.EmailRequest{}
			cmd.Flags().StringVar(&req.Email, "email", "", "email address")
			cmd.Flags().StringVar(&req.Subject, "subject", "", "email subject")
			cmd.Flags().StringVar(&req.Body, "body", "", "email body")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("phone", "Generate phone QR code", []string{"phone"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.PhoneRequest{}
			cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("text", "Generate plain text QR code", []string{"text"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.TextRequest{}
			cmd.Flags().StringVar(&req.Text, "text", "", "text to encode")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("location", "Generate location QR code", []string{"latitude", "longitude"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.LocationRequest{}
			cmd.Flags().Float64Var(&req.Latitude, "latitude", 0, "latitude in decimal degrees")
			cmd.Flags().Float64Var(&req.Longitude, "longitude", 0, "longitude in decimal degrees")
			cmd.Flags().StringVar(&req.Query, "query", "", "location name")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("event", "Generate calendar event QR code", []string{"title", "start", "end"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.EventRequest{}
			var start, end string
			fl := cmd.Flags()
			fl.StringVar(&req.Title, "title", "", "event title")
			fl.StringVar(&start, "start", "", `start time ("YYYY-MM-DD HH:MM")`)
			fl.StringVar(&end, "end", "", `end time ("YYYY-MM-DD HH:MM")`)
			fl.StringVar(&req.Location, "location", "", "event location")
			fl.StringVar(&req.Description, "description", "", "event description")
			return func() (payload.Request, error) {
				var err error
				if req.StartTime, err = parseEventTime("start", start); err != nil {
					return nil, err
				}
				if req.EndTime, err = parseEventTime("end", end); err != nil {
					return nil, err
				}
				return req, nil
			}
		}),

		a.generateCommand("whatsapp", "Generate WhatsApp QR code", []string{"phone"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.WhatsAppRequest{}
			cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number with country code")
			cmd.Flags().StringVar(&req.Message, "message", "", "pre-filled message")
			return func() (payload.Request, error) { return req, nil }
		}),

		a.generateCommand("payment", "Generate payment QR code", []string{"type", "recipient"}, func(cmd *cobra.Command) requestBuilder {
			req := &payload.PaymentRequest{}
			var amount string
			fl := cmd.Flags()
			fl.StringVar(&req.PaymentType, "type", "", "payment type (bitcoin, ethereum, paypal, ...)")
			fl.StringVar(&req.Recipient, "recipient", "", "wallet address or PayPal username")
			fl.StringVar(&amount, "amount", "", "payment amount")
			fl.StringVar(&req.Currency, "currency", payload.DefaultCurrency, "currency code")
			fl.StringVar(&req.Message, "message", "", "payment message")
			return func() (payload.Request, error) {
				if amount != "" {
					d, err := decimal.NewFromString(strings.TrimSpace(amount))
					if err != nil {
						return nil, qrerr.Validation("payment", "invalid amount %q", amount)
					}
					req.Amount = &d
				}
				return req, nil
			}
		}),
	}
}

func parseEventTime(flag, value string) (time.Time, error) {
	t, err := time.ParseInLocation(EventInputLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, qrerr.Validation("event", "--%s must look like %q, got %q", flag, EventInputLayout, value)
	}
	return t, nil
}
