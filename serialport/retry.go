package serialport

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
)

const (
	minOpenInterval = 250 * time.Millisecond
	maxOpenInterval = 2 * time.Second
)

// openPort is swapped out in tests.
var openPort = Open

// OpenWithRetry opens the port, retrying up to retries more times with
// exponential backoff. Boards with native USB reset when the port opens and
// may briefly disappear while they re-enumerate.
func OpenWithRetry(ctx context.Context, cfg *Config, retries int) (Port, error) {
	openBackoff := backoff.NewExponentialBackOff()
	openBackoff.InitialInterval = minOpenInterval
	openBackoff.MaxInterval = maxOpenInterval
	openBackoff.MaxElapsedTime = 0

	var b backoff.BackOff = openBackoff
	if retries > 0 {
		b = backoff.WithMaxRetries(b, uint64(retries))
	} else {
		b = &backoff.StopBackOff{}
	}
	b = backoff.WithContext(b, ctx)

	var port Port
	attempt := 0
	operation := func() error {
		attempt++
		p, err := openPort(cfg)
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Msgf("Failed to open %s.", cfg.Device)
			return err
		}
		port = p
		return nil
	}

	if err := backoff.Retry(operation, b); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	log.Debug().Str("device", cfg.Device).Int("attempts", attempt).Msg("Serial port opened.")
	return port, nil
}
