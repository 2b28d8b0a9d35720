package probate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
)

const (
	captchaInputSelector = "#captchaResponse"
	captchaImageSelector = "#captchaImage"
)

var ErrCaptchaUnsolved = errors.New("captcha was not solved")

// Solver reads the text of a captcha image.
type Solver interface {
	SolveImage(ctx context.Context, image []byte) (string, error)
}

// solveCaptcha fills the captcha of the search form with the text the
// solver reads from the captcha image. the text is not checked, a wrong
// answer only shows up once the form is submitted.
func (n *Navigator) solveCaptcha(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Navigator:solveCaptcha")
	defer span.End()

	text, err := n.readCaptcha(ctx)
	if err == nil && text == "" {
		err = errors.New("decoded text is empty")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to solve captcha")
		return fmt.Errorf("%w: %w", ErrCaptchaUnsolved, err)
	}

	err = n.page.Fill(ctx, captchaInputSelector, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fill captcha")
		return fmt.Errorf("%w: %w", ErrCaptchaUnsolved, err)
	}
	n.reporter.Status(ctx, fmt.Sprintf("CAPTCHA solved: %s", text))
	slog.DebugContext(ctx, "captcha filled", "text", text)

	// give the form a moment to register the input
	return n.sleep(ctx, time.Second)
}

func (n *Navigator) readCaptcha(ctx context.Context) (string, error) {
	n.reporter.Status(ctx, "Waiting for CAPTCHA...")
	err := n.page.WaitFor(ctx, captchaInputSelector)
	if err != nil {
		return "", err
	}
	err = n.page.WaitFor(ctx, captchaImageSelector)
	if err != nil {
		return "", err
	}

	n.reporter.Status(ctx, "Solving CAPTCHA...")
	image, err := n.page.Screenshot(ctx, captchaImageSelector)
	if err != nil {
		return "", err
	}
	return n.solver.SolveImage(ctx, image)
}
