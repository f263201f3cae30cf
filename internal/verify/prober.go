package verify

import (
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/mailvet/internal/metrics"
)

// Prober defaults.
const (
	DefaultSMTPTimeout = 10 * time.Second
	DefaultSMTPPort    = 25
	DefaultSender      = "test@example.com"
	DefaultHelloDomain = "mailvet.local"
)

// ProberOptions configures the SMTP recipient probe.
type ProberOptions struct {
	// Sender is the address used for MAIL FROM. Defaults to
	// test@example.com; callers may override it per run.
	Sender string
	// HelloDomain is the name announced in the HELO/EHLO greeting.
	HelloDomain string
	// Port is the SMTP port to probe. Defaults to 25; tests point it
	// at an in-process server.
	Port int
	// Timeout bounds both the connect and every subsequent protocol
	// exchange on the session.
	Timeout time.Duration
}

// Prober performs a single SMTP recipient-verification handshake
// (HELO, MAIL FROM, RCPT TO, QUIT) against a resolved mail exchange.
// No message is ever sent and no retry happens at this layer;
// transient failures surface as Invalid or Greylisted for the caller
// to decide whether to re-run.
type Prober struct {
	sender      string
	helloDomain string
	port        int
	timeout     time.Duration
	log         zerolog.Logger
}

// NewProber creates a Prober, applying defaults for zero options.
func NewProber(opts ProberOptions, log zerolog.Logger) *Prober {
	if opts.Sender == "" {
		opts.Sender = DefaultSender
	}
	if opts.HelloDomain == "" {
		opts.HelloDomain = DefaultHelloDomain
	}
	if opts.Port <= 0 {
		opts.Port = DefaultSMTPPort
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSMTPTimeout
	}
	return &Prober{
		sender:      opts.Sender,
		helloDomain: opts.HelloDomain,
		port:        opts.Port,
		timeout:     opts.Timeout,
		log:         log,
	}
}

// Probe runs one recipient probe for address against mxHost and maps
// the server's reply to a disposition: 250 is Valid, 550 Invalid,
// 451 Greylisted, anything else Invalid naming the code.
func (p *Prober) Probe(address, mxHost string) Disposition {
	start := time.Now()
	disp := p.probe(address, mxHost)
	metrics.SMTPProbeDuration.Observe(time.Since(start).Seconds())
	metrics.SMTPProbesTotal.WithLabelValues(string(disp.Status)).Inc()
	return disp
}

func (p *Prober) probe(address, mxHost string) Disposition {
	addr := net.JoinHostPort(mxHost, strconv.Itoa(p.port))

	conn, err := net.DialTimeout("tcp", addr, p.timeout)
	if err != nil {
		p.log.Debug().Err(err).Str("mx_host", addr).Msg("SMTP dial failed")
		return Disposition{
			Email:   address,
			Status:  StatusInvalid,
			Message: "SMTP connection failed.",
		}
	}
	defer conn.Close()

	// One deadline covers the whole handshake.
	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return p.mapError(address, err)
	}

	client, err := smtp.NewClient(conn, mxHost)
	if err != nil {
		return p.mapError(address, err)
	}
	defer client.Close()

	if err := client.Hello(p.helloDomain); err != nil {
		return p.mapError(address, err)
	}
	if err := client.Mail(p.sender); err != nil {
		return p.mapError(address, err)
	}

	err = client.Rcpt(address)
	quitErr := client.Quit()
	if err == nil {
		if quitErr != nil {
			p.log.Debug().Err(quitErr).Str("mx_host", addr).Msg("SMTP quit failed")
		}
		return Disposition{
			Email:   address,
			Status:  StatusValid,
			Message: "Email exists and is reachable.",
		}
	}
	return p.mapError(address, err)
}

// mapError converts an SMTP exchange error into a disposition.
// Protocol replies carry a numeric code; anything else is reported
// with its underlying description.
func (p *Prober) mapError(address string, err error) Disposition {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 250:
			return Disposition{
				Email:   address,
				Status:  StatusValid,
				Message: "Email exists and is reachable.",
			}
		case 550:
			return Disposition{
				Email:   address,
				Status:  StatusInvalid,
				Message: "Mailbox does not exist.",
			}
		case 451:
			return Disposition{
				Email:   address,
				Status:  StatusGreylisted,
				Message: "Temporary error, try again later.",
			}
		default:
			return Disposition{
				Email:   address,
				Status:  StatusInvalid,
				Message: fmt.Sprintf("SMTP response code %d.", tpErr.Code),
			}
		}
	}
	return Disposition{
		Email:   address,
		Status:  StatusInvalid,
		Message: "SMTP error: " + err.Error(),
	}
}
