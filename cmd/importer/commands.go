package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hotel-reservations/internal/config"
	"hotel-reservations/internal/domain/imports"
	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/platform/dates"
	"hotel-reservations/internal/platform/logger"
	"hotel-reservations/internal/router"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "importer",
		Short:        "Cargue masivo de reservas y utilidades de tarifas",
		SilenceUsage: true,
	}
	root.AddCommand(newUploadCmd(), newTemplateCmd(), newQuoteCmd())
	return root
}

// upload usa la misma configuración que la API (DB_DSN, EMAIL_*, RABBITMQ_URL, HOTELS_FILE).
func newUploadCmd() *cobra.Command {
	var (
		file   string
		user   string
		email  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Cargar un CSV o XLSX de reservas",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(user) == "" {
				return errors.New("--user is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Options{
				Level:  logger.ParseLevel(cfg.Log.Level),
				Format: logger.ParseFormat(cfg.Log.Format),
				App:    cfg.Log.App,
				Out:    cmd.ErrOrStderr(),
			})

			opts, cleanup, err := router.OptionsFromConfig(cmd.Context(), cfg, log)
			defer func() { _ = cleanup() }()
			if err != nil {
				return err
			}
			svcs := router.NewServices(opts)

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			rep, err := svcs.Imports.Upload(cmd.Context(), user, filepath.Base(file), f, imports.UploadOptions{
				DryRun:    dryRun,
				Recipient: email,
			})
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "archivo .csv o .xlsx")
	cmd.Flags().StringVar(&user, "user", "", "usuario que queda como creado_por")
	cmd.Flags().StringVar(&email, "email", "", "destinatario de las confirmaciones (vacío = no enviar)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validar sin insertar")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Generar la plantilla de cargue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body []byte
				err  error
			)
			switch imports.Format(strings.ToLower(format)) {
			case imports.FormatCSV:
				body, err = imports.TemplateCSV()
			case imports.FormatXLSX:
				body, err = imports.TemplateXLSX()
			default:
				return fmt.Errorf("format must be csv or xlsx, got %q", format)
			}
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(out, body, 0o644)
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "csv o xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida (vacío = stdout)")
	return cmd
}

func newQuoteCmd() *cobra.Command {
	var (
		hotel     string
		occupants int
		checkIn   string
		checkOut  string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Cotizar una estadía con la tabla de tarifas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			in, err := optionalDate("check-in", checkIn)
			if err != nil {
				return err
			}
			outDate, err := optionalDate("check-out", checkOut)
			if err != nil {
				return err
			}

			q, err := pricing.NewTable(cfg.Hotels).Quote(hotel, occupants, in, outDate)
			if err != nil {
				return fmt.Errorf("%s: %w", hotel, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		},
	}

	cmd.Flags().StringVar(&hotel, "hotel", "", "key o nombre del hotel")
	cmd.Flags().IntVar(&occupants, "occupants", 1, "ocupantes")
	cmd.Flags().StringVar(&checkIn, "check-in", "", "fecha de ingreso")
	cmd.Flags().StringVar(&checkOut, "check-out", "", "fecha de salida")
	_ = cmd.MarkFlagRequired("hotel")
	return cmd
}

func optionalDate(flag, v string) (dates.Date, error) {
	if strings.TrimSpace(v) == "" {
		return dates.Date{}, nil
	}
	d, ok := dates.Parse(v)
	if !ok {
		return dates.Date{}, fmt.Errorf("--%s: invalid date %q", flag, v)
	}
	return d, nil
}

func writeReport(w io.Writer, rep imports.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
