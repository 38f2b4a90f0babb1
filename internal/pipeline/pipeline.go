// Package pipeline is the submit-to-render cycle shared by every dashboard
// form, the sidebar read actions, login and registration. It turns a form's
// fields into one request and the reply into the text the UI shows.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/jask/bankdesk/internal/api"
	"github.com/jask/bankdesk/internal/logging"
)

const (
	WelcomeText        = "Login successful! Welcome. Select an action from the sidebar."
	LoggedOutText      = "You have been logged out."
	RegisterFailedText = "Registration request failed."
	LoginFailedText    = "Login request failed."
)

// Requester is the transport the pipeline drives. *api.Client implements it.
type Requester interface {
	PostForm(ctx context.Context, endpoint string, fields map[string]string) (api.Result, error)
	GetText(ctx context.Context, endpoint string) (string, error)
	GetJSON(ctx context.Context, endpoint string) (api.Result, error)
}

// Outcome is what a finished dashboard submission puts in the output area.
// Success means the form is cleared; on failure it is kept for correction.
type Outcome struct {
	Text    string
	Success bool
}

// AuthOutcome is what a finished login or registration shows on the auth
// screen.
type AuthOutcome struct {
	Text    string
	IsError bool
	Success bool
}

// Pipeline issues one request per call and never retries.
type Pipeline struct {
	client   Requester
	currency string
	log      *logrus.Entry
}

// New returns a Pipeline rendering balances with currency, e.g. "$".
func New(client Requester, currency string, log *logrus.Entry) *Pipeline {
	if log == nil {
		log = logging.Component(nil, "pipeline")
	}
	return &Pipeline{client: client, currency: currency, log: log}
}

// Submit posts fields to op's endpoint and renders the reply.
func (p *Pipeline) Submit(ctx context.Context, op Operation, fields map[string]string) Outcome {
	log := p.log.WithField("endpoint", op.Endpoint)
	res, err := p.client.PostForm(ctx, op.Endpoint, fields)
	if err != nil {
		log.WithError(err).Warn("submit failed")
		return Outcome{Text: "Request failed: " + err.Error()}
	}
	if !res.OK() {
		log.WithField("status", res.Status).Info("submit rejected")
		return Outcome{Text: "Error: " + res.Message}
	}
	if op.Detail && res.Account != nil {
		return Outcome{Text: FormatAccount(*res.Account, p.currency), Success: true}
	}
	return Outcome{Text: res.Message, Success: true}
}

// Fetch runs a read action and returns the text for the output area.
func (p *Pipeline) Fetch(ctx context.Context, r ReadAction) string {
	log := p.log.WithField("endpoint", r.Endpoint)
	if r.JSON {
		res, err := p.client.GetJSON(ctx, r.Endpoint)
		if err != nil {
			log.WithError(err).Warn("fetch failed")
			return r.FailText
		}
		return res.Message
	}
	text, err := p.client.GetText(ctx, r.Endpoint)
	if err != nil {
		log.WithError(err).Warn("fetch failed")
		return r.FailText
	}
	return text
}

// Register posts a registration that already passed client-side validation.
func (p *Pipeline) Register(ctx context.Context, fields map[string]string) AuthOutcome {
	res, err := p.client.PostForm(ctx, api.EndpointRegister, fields)
	if err != nil {
		p.log.WithError(err).Warn("register failed")
		return AuthOutcome{Text: RegisterFailedText, IsError: true}
	}
	if !res.OK() {
		return AuthOutcome{Text: res.Message, IsError: true}
	}
	return AuthOutcome{Text: res.Message, Success: true}
}

// Login posts credentials. The server's success message is not shown.
func (p *Pipeline) Login(ctx context.Context, fields map[string]string) AuthOutcome {
	res, err := p.client.PostForm(ctx, api.EndpointLogin, fields)
	if err != nil {
		p.log.WithError(err).Warn("login failed")
		return AuthOutcome{Text: LoginFailedText, IsError: true}
	}
	if !res.OK() {
		return AuthOutcome{Text: res.Message, IsError: true}
	}
	return AuthOutcome{Text: WelcomeText, Success: true}
}

// FormatAccount renders the fixed account record block.
func FormatAccount(a api.Account, currency string) string {
	return "--- Account Details ---\n" +
		fmt.Sprintf("ID:      %s\n", a.ID) +
		fmt.Sprintf("Name:    %s\n", a.Name) +
		fmt.Sprintf("Phone:   %s\n", a.Phone) +
		fmt.Sprintf("Balance: %s%s", currency, formatMoney(a.Balance))
}

// formatMoney renders v with two decimals, rounding an exact tie away from
// zero. The comparison runs on the exact binary value, so 1.005 (stored just
// below the tie) still gives "1.00".
func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%.2f", v)
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	// 53 mantissa bits times 100 fits in 128 bits, so every step is exact.
	scaled := new(big.Float).SetPrec(128).SetFloat64(math.Abs(v))
	scaled.Mul(scaled, big.NewFloat(100))
	cents, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(scaled, new(big.Float).SetInt(cents))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		cents.Add(cents, big.NewInt(1))
	}
	units, rem := new(big.Int).QuoRem(cents, big.NewInt(100), new(big.Int))
	return fmt.Sprintf("%s%s.%02d", sign, units.String(), rem.Int64())
}
