package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prilive-com/onboardiq/foxit"
	"github.com/prilive-com/onboardiq/vonage"
)

func (a *app) smokeCmd() *cobra.Command {
	var reportDir string

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Check both vendors and show that repeated reads are served from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := runSmoke(cmd.Context(), a.svc)

			fmt.Fprint(cmd.OutOrStdout(), report.FormatSummary())

			if reportDir != "" {
				path, err := report.Save(reportDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", path)
			}
			if !report.Success {
				return fmt.Errorf("smoke failed: %d of %d steps failed", report.Summary.Failed, report.Summary.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reportDir, "report", "", "directory to save a JSON report in")
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print circuit breaker and cache state per vendor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd.OutOrStdout(), output, a.svc.Status())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run a phone verification",
	}

	var brand string
	start := &cobra.Command{
		Use:   "start <number>",
		Short: "Send a verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.svc.Vonage().StartVerification(cmd.Context(), vonage.VerifyRequest{
				PhoneNumber: args[0],
				Brand:       brand,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "request_id: %s\nstatus: %s\n", v.RequestID, v.Status)
			return nil
		},
	}
	start.Flags().StringVar(&brand, "brand", "", "sender brand (default from config)")

	check := &cobra.Command{
		Use:   "check <request-id> <code>",
		Short: "Check a verification code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Vonage().CheckVerification(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "request_id: %s\nstatus: %s\n", res.RequestID, res.Status)
			return nil
		},
	}

	cmd.AddCommand(start, check)
	return cmd
}

func (a *app) generateCmd() *cobra.Command {
	var (
		fields []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "generate <template-id>",
		Short: "Generate a document from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseFields(fields)
			if err != nil {
				return err
			}
			doc, err := a.svc.Foxit().GenerateDocument(cmd.Context(), foxit.GenerateRequest{
				TemplateID: args[0],
				Data:       data,
				Options:    foxit.GenerateOptions{Format: format},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "document_id: %s\nurl: %s\n", doc.DocumentID, doc.DocumentURL)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "template field as key=value (repeatable)")
	cmd.Flags().StringVar(&format, "format", "", "output format: pdf, docx or html")
	return cmd
}

func (a *app) smsCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "sms <to> <text>",
		Short: "Send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Vonage().SendSMS(cmd.Context(), vonage.SMSRequest{
				To:   args[0],
				From: from,
				Text: args[1],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "message_id: %s\nto: %s\n", res.MessageID, res.To)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "sender (default from config)")
	return cmd
}

func parseFields(pairs []string) (map[string]any, error) {
	data := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid field %q (want key=value)", p)
		}
		data[strings.TrimSpace(k)] = v
	}
	return data, nil
}
