// README: Trip assistant: token-guarded LLM suggestions with a canned fallback.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tourquote/internal/modules/catalog"
	"tourquote/internal/types"
)

const systemInstruction = `You are a travel consultant for a private tour company in Japan.
Answer in plain text, at most five short sentences, in the language the customer wrote in.
Never quote a final price; tell the customer to use the price calculator for an exact quote.`

type Usage interface {
	Consume(ctx context.Context, uid string) (int, error)
}

type Tours interface {
	GetTour(ctx context.Context, id int64) (catalog.Tour, error)
	ListTours(ctx context.Context) ([]catalog.Tour, error)
}

type Deps struct {
	LLM     LLMProvider
	Routes  RouteEstimator
	Usage   Usage
	Tours   Tours
	Timeout time.Duration
	Logger  *zap.Logger
}

type Service struct {
	llm     LLMProvider
	routes  RouteEstimator
	usage   Usage
	tours   Tours
	policy  *bluemonday.Policy
	timeout time.Duration
	logger  *zap.Logger
}

// NewService accepts nil LLM and Routes; replies then fall back to canned text.
func NewService(d Deps) *Service {
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		llm:     d.LLM,
		routes:  d.Routes,
		usage:   d.Usage,
		tours:   d.Tours,
		policy:  bluemonday.StrictPolicy(),
		timeout: d.Timeout,
		logger:  d.Logger,
	}
}

func (s *Service) Suggest(ctx context.Context, req SuggestRequest) (*Suggestion, error) {
	req.UID = strings.TrimSpace(req.UID)
	req.Message = strings.TrimSpace(req.Message)
	req.From = strings.TrimSpace(req.From)
	if req.UID == "" || req.Message == "" {
		return nil, ErrBadRequest
	}

	var tour *catalog.Tour
	if req.TourID > 0 {
		t, err := s.tours.GetTour(ctx, req.TourID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		if err != nil {
			return nil, err
		}
		tour = &t
	}

	remaining, err := s.usage.Consume(ctx, req.UID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := &Suggestion{TokensRemaining: remaining}
	if tour != nil && req.From != "" && s.routes != nil {
		hint, err := s.routes.Estimate(ctx, req.From, tour.Location+", Japan")
		if err != nil {
			s.logger.Warn("route estimate failed", zap.String("from", req.From), zap.Error(err))
		} else {
			out.Route = &hint
		}
	}

	out.Reply, out.Source = s.reply(ctx, req, tour, out.Route)
	return out, nil
}

func (s *Service) reply(ctx context.Context, req SuggestRequest, tour *catalog.Tour, route *RouteHint) (string, string) {
	if s.llm == nil {
		return fallbackReply(tour), SourceFallback
	}
	prompt, err := s.buildPrompt(ctx, req, tour, route)
	if err != nil {
		s.logger.Warn("assistant prompt context unavailable", zap.Error(err))
		return fallbackReply(tour), SourceFallback
	}
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("llm call failed, using fallback", zap.String("uid", req.UID), zap.Error(err))
		return fallbackReply(tour), SourceFallback
	}
	clean := strings.TrimSpace(s.policy.Sanitize(text))
	if clean == "" {
		return fallbackReply(tour), SourceFallback
	}
	return clean, SourceLLM
}

func (s *Service) buildPrompt(ctx context.Context, req SuggestRequest, tour *catalog.Tour, route *RouteHint) (string, error) {
	var b strings.Builder
	if tour != nil {
		fmt.Fprintf(&b, "Tour of interest: %s in %s, nominally %d day(s), from %s per person.\n",
			tour.Name, tour.Location, tour.DurationDays, types.FormatAmount(decimal.NewFromInt(tour.BasePrice), types.JPY))
	} else {
		tours, err := s.tours.ListTours(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString("Available tours:\n")
		for _, t := range tours {
			fmt.Fprintf(&b, "- %s (%s, %d day(s))\n", t.Name, t.Location, t.DurationDays)
		}
	}
	if route != nil {
		fmt.Fprintf(&b, "Driving from %s takes about %d minutes (%s).\n", req.From, route.Minutes, route.Distance)
	}
	fmt.Fprintf(&b, "\nCustomer message: %s", req.Message)
	return b.String(), nil
}

func fallbackReply(tour *catalog.Tour) string {
	if tour != nil {
		return fmt.Sprintf("Thank you for your interest in %s. Our assistant is busy right now; "+
			"please use the price calculator for an exact quote and our team will follow up with suggestions for %s.",
			tour.Name, tour.Location)
	}
	return "Thank you for your message. Our assistant is busy right now; " +
		"please browse our tours and use the price calculator, and our team will follow up shortly."
}
