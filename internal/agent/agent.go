package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel/trace"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
	"github.com/enzocage/Notion-Mediator/internal/logging"
	"github.com/enzocage/Notion-Mediator/internal/tools"
)

// MaxRounds is the hard ceiling of model rounds per run.
const MaxRounds = 30

// Fixed replies of the planner.
const (
	MessageTaskCompleted = "Task completed."
	MessageExhausted     = "Error: Maximum iterations reached."
)

var errEmptyResponse = errors.New("model returned no choices")

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeAnswer    Outcome = "answer"
	OutcomePlainText Outcome = "plain_text"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeTransport Outcome = "transport_error"
)

// Result is the outcome of one run.
type Result struct {
	// Text is the final answer shown to the user.
	Text    string
	Outcome Outcome
	// Rounds is the number of model calls made.
	Rounds int
	// ToolCalls counts executed tools, including failed ones.
	ToolCalls int
}

// Agent runs the plan, act, observe loop against a model. It holds no
// per-run state and is safe for concurrent use.
type Agent struct {
	model     llms.Model
	resolver  *tools.Resolver
	prompts   map[backend.Kind]string
	logger    logging.Logger
	metrics   *instrumentation.Metrics
	maxRounds int
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger. The default discards records.
func WithLogger(l logging.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithMetrics records run metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithMaxRounds lowers the round ceiling. Values outside 1..MaxRounds are
// ignored.
func WithMaxRounds(n int) Option {
	return func(a *Agent) {
		if n >= 1 && n <= MaxRounds {
			a.maxRounds = n
		}
	}
}

// New creates an Agent and renders the system prompt of every mode the
// resolver serves.
func New(model llms.Model, resolver *tools.Resolver, opts ...Option) (*Agent, error) {
	a := &Agent{
		model:     model,
		resolver:  resolver,
		prompts:   make(map[backend.Kind]string),
		logger:    logging.Discard(),
		maxRounds: MaxRounds,
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, mode := range resolver.Modes() {
		reg, err := resolver.Resolve(string(mode))
		if err != nil {
			return nil, err
		}
		prompt, err := SystemPrompt(reg)
		if err != nil {
			return nil, err
		}
		a.prompts[mode] = prompt
	}
	return a, nil
}

// Run answers utterance using the tools of mode. The only error is an
// unknown or unconfigured mode; every other failure is reported in
// Result.Text.
func (a *Agent) Run(ctx context.Context, utterance, mode string) (Result, error) {
	reg, err := a.resolver.Resolve(mode)
	if err != nil {
		return Result{}, err
	}

	runID := instrumentation.RunIDFromContext(ctx)
	ctx, span := instrumentation.StartRunSpan(ctx, string(reg.Mode()), runID)
	defer span.End()

	logger := a.logger.With(logging.Mode(string(reg.Mode())), logging.RunID(runID))
	logger.Info("run started", logging.PromptHash(utterance))

	start := time.Now()
	result := a.loop(ctx, reg, utterance, logger, span)

	a.metrics.RecordAgentRun(ctx, string(reg.Mode()), string(result.Outcome), result.Rounds)
	logger.Info("run finished",
		"outcome", string(result.Outcome),
		"rounds", result.Rounds,
		"tool_calls", result.ToolCalls,
		"duration", time.Since(start),
	)
	return result, nil
}

func (a *Agent) loop(ctx context.Context, reg *tools.Registry, utterance string, logger logging.Logger, span trace.Span) Result {
	conv := NewConversation(a.prompts[reg.Mode()])
	pending := utterance
	toolCalls := 0

	for round := 1; round <= a.maxRounds; round++ {
		conv.AddHuman(pending)

		reply, err := a.generate(ctx, conv)
		if err != nil {
			logger.Warn("model call failed", logging.Round(round), logging.Err(err))
			instrumentation.SetSpanError(span, err)
			return Result{
				Text:      fmt.Sprintf("Sorry, I encountered an error processing your request: %v", err),
				Outcome:   OutcomeTransport,
				Rounds:    round,
				ToolCalls: toolCalls,
			}
		}
		conv.AddAI(reply)

		decision := Decode(reply)
		if decision.Kind == DecisionPlainText {
			logger.Debug("reply is not a plan", logging.Round(round))
			return Result{Text: decision.Text, Outcome: OutcomePlainText, Rounds: round, ToolCalls: toolCalls}
		}

		plan := decision.Plan
		instrumentation.AddRoundEvent(span, round, plan.Tool)

		if plan.Tool == "" {
			text := plan.Response
			if text == "" {
				text = MessageTaskCompleted
			}
			return Result{Text: text, Outcome: OutcomeAnswer, Rounds: round, ToolCalls: toolCalls}
		}

		if _, ok := reg.Lookup(plan.Tool); !ok {
			logger.Warn("unknown tool", logging.Round(round), logging.Tool(plan.Tool))
			pending = fmt.Sprintf("Error: Tool '%s' not found.", plan.Tool)
			continue
		}

		toolCalls++
		observation, err := reg.Invoke(ctx, plan.Tool, plan.Args)
		if err != nil {
			logger.Warn("tool failed", logging.Round(round), logging.Tool(plan.Tool), logging.Err(err))
			observation = fmt.Sprintf("Error executing tool: %v", err)
		} else {
			logger.Debug("tool executed", logging.Round(round), logging.Tool(plan.Tool))
		}
		pending = fmt.Sprintf("Tool '%s' output: %s. Continue or provide final response.", plan.Tool, observation)
	}

	logger.Warn("round ceiling reached", "max_rounds", a.maxRounds)
	return Result{Text: MessageExhausted, Outcome: OutcomeExhausted, Rounds: a.maxRounds, ToolCalls: toolCalls}
}

// generate sends the conversation and returns the first choice.
func (a *Agent) generate(ctx context.Context, conv *Conversation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := a.model.GenerateContent(ctx, conv.Messages())
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
