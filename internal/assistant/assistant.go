// Package assistant answers free-form solar questions through the Anthropic
// API, grounding the system prompt in the live knowledge base so the advice
// matches what the engine actually computes.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/resilience"
)

// ErrMissingAPIKey reports that no Anthropic API key is configured.
var ErrMissingAPIKey = eris.New("assistant: no API key configured, set SOLAR_ASSISTANT_KEY")

// Turn is one exchange in the conversation history.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Options configures the assistant.
type Options struct {
	Model          string
	MaxTokens      int64
	HistoryWindow  int
	RequestsPerMin int
}

// Assistant wraps the Anthropic client with rate limiting, retry, and a
// knowledge-base-derived system prompt.
type Assistant struct {
	client  Client
	kb      *kb.Handle
	opts    Options
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// New creates an assistant. The knowledge handle is read per request, so a
// reloaded knowledge base is reflected in subsequent prompts.
func New(client Client, handle *kb.Handle, opts Options) *Assistant {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 5
	}
	if opts.RequestsPerMin <= 0 {
		opts.RequestsPerMin = 30
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")
	return &Assistant{
		client:  client,
		kb:      handle,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMin)/60.0), 1),
		retry:   retry,
	}
}

// Ask sends the question with the trailing window of conversation history
// and returns the assistant's text reply.
func (a *Assistant) Ask(ctx context.Context, history []Turn, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", eris.New("assistant: empty question")
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "assistant: rate limit wait")
	}

	req := MessageRequest{
		Model:     a.opts.Model,
		MaxTokens: a.opts.MaxTokens,
		System: []SystemBlock{{
			Text:         systemPrompt(a.kb.Current()),
			CacheControl: &CacheControl{TTL: "5m"},
		}},
		Messages: a.buildMessages(history, question),
	}

	resp, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (*MessageResponse, error) {
		return a.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogUsage(resp.Model)

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// buildMessages keeps only the trailing HistoryWindow turns to bound the
// context sent per request.
func (a *Assistant) buildMessages(history []Turn, question string) []Message {
	if len(history) > a.opts.HistoryWindow {
		history = history[len(history)-a.opts.HistoryWindow:]
	}
	msgs := make([]Message, 0, len(history)+1)
	for _, t := range history {
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}
	return append(msgs, Message{Role: "user", Content: question})
}

// systemPrompt renders the advisor persona with key figures taken from the
// knowledge base rather than hard-coded, so the chatbot and the engine never
// disagree on constants.
func systemPrompt(k *kb.KnowledgeBase) string {
	var b strings.Builder
	b.WriteString("You are a helpful Solar Energy Advisor for Sri Lankan households.\n\n")
	b.WriteString("Help users with:\n")
	b.WriteString("- Solar panel sizing and costs (LKR currency)\n")
	b.WriteString("- ROI and payback calculations\n")
	b.WriteString("- CEB/LECO electricity tariffs\n")
	b.WriteString("- Installation guidance\n\n")

	b.WriteString("Key facts:\n")
	fmt.Fprintf(&b, "- Installation cost: ~%s per kW plus roof-type multipliers\n", model.FormatLKR(k.Costs.CostPerKW))
	fmt.Fprintf(&b, "- Fixed monthly grid charge: %s\n", model.FormatLKR(k.Tariffs.FixedCharge))
	fmt.Fprintf(&b, "- Typical payback: under %g years is excellent, under %g years is good\n",
		k.Thresholds.ExcellentPayback, k.Thresholds.GoodPayback)
	fmt.Fprintf(&b, "- Standard panel: %gW, about %g sqft each\n",
		k.Panels.Standard.Wattage, k.Panels.Standard.AreaSqft)
	fmt.Fprintf(&b, "- System sizes quoted between %g and %g kW\n",
		k.Sizing.MinSystemKW, k.Sizing.MaxSystemKW)

	b.WriteString("- Daily sun hours by district: ")
	locations := k.Locations()
	for i, loc := range locations {
		if i > 0 {
			b.WriteString(", ")
		}
		r, _ := k.Region(loc)
		fmt.Fprintf(&b, "%s %.1f", loc, r.SunHours)
	}
	b.WriteString("\n\nKeep responses brief and helpful. For a full recommendation, point users at the evaluate command.")
	return b.String()
}
