package router

import (
	"context"
	"errors"
	"fmt"

	"hotel-reservations/internal/adapters/auth/supabase"
	"hotel-reservations/internal/adapters/email/resend"
	"hotel-reservations/internal/adapters/messaging/rabbitmq"
	pg "hotel-reservations/internal/adapters/storage/postgres"
	"hotel-reservations/internal/config"
	"hotel-reservations/internal/domain/pricing"
	"hotel-reservations/internal/domain/vouchers"
	"hotel-reservations/internal/platform/httpclient"
	"hotel-reservations/internal/platform/logger"
)

// OptionsFromConfig abre las dependencias externas configuradas. El cleanup
// devuelto cierra DB y broker; siempre es no nil.
func OptionsFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (Options, func() error, error) {
	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	opts := Options{
		Logger:          log,
		Prices:          pricing.NewTable(cfg.Hotels),
		OperationsEmail: cfg.Email.OperationsEmail,
		Voucher: vouchers.Config{
			LogoLeft:  cfg.Voucher.LogoLeft,
			LogoRight: cfg.Voucher.LogoRight,
		},
		HTTPClient: httpclient.New(vouchers.LogoTimeout),
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return Options{}, cleanup, fmt.Errorf("open database: %w", err)
		}
		closers = append(closers, db.Close)
		if err := pg.EnsureSchema(ctx, db); err != nil {
			return Options{}, cleanup, err
		}
		opts.DB = db
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("storage: in-memory (DB_DSN not set)", nil)
	}

	if cfg.Auth.URL != "" {
		client, err := supabase.NewClient(supabase.Config{
			URL:     cfg.Auth.URL,
			APIKey:  cfg.Auth.APIKey,
			Timeout: cfg.Auth.Timeout,
		})
		if err != nil {
			return Options{}, cleanup, fmt.Errorf("auth client: %w", err)
		}
		opts.AuthVerifier = supabase.NewVerifier(client)
	} else {
		log.Warn("auth: dev mode (X-Debug-User-ID)", nil)
	}

	sender, err := resend.NewSender(resend.Config{
		BaseURL: cfg.Email.APIURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
	})
	if err != nil {
		return Options{}, cleanup, fmt.Errorf("email sender: %w", err)
	}
	if !sender.Enabled() {
		log.Warn("email: demo mode (EMAIL_API_KEY not set)", nil)
	}
	opts.Email = sender

	if cfg.Broker.URL != "" {
		pub, err := rabbitmq.Dial(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			return Options{}, cleanup, err
		}
		closers = append(closers, pub.Close)
		opts.Events = pub
	}

	return opts, cleanup, nil
}
