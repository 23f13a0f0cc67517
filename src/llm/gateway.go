package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/pkg"
)

// ErrEmptyCompletion is reported when the chat model returns no message at all
var ErrEmptyCompletion = errors.New("empty completion")

// Result is the outcome of one reasoning call: either reply text or the failure cause
type Result struct {
	Text string
	Err  error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Reply maps the result onto the text shown to the user.
// A failure becomes the placeholder reply; blank text becomes defaultResponse.
func (r Result) Reply(defaultResponse string) string {
	if r.Err != nil {
		return PlaceholderReply(r.Err)
	}
	if strings.TrimSpace(r.Text) == "" {
		return defaultResponse
	}
	return r.Text
}

// PlaceholderReply is the synthetic reply substituted for a failed reasoning call
func PlaceholderReply(cause error) string {
	return fmt.Sprintf("(Oops, something went wrong: %v)", cause)
}

// Gateway submits the persona prompt to the chat model
type Gateway struct {
	runnable compose.Runnable[map[string]any, *schema.Message]
	log      zerolog.Logger
}

// NewGateway compiles the template -> chat model chain
func NewGateway(ctx context.Context, chatModel model.BaseChatModel, log zerolog.Logger) (*Gateway, error) {
	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.
		AppendChatTemplate(createPersonaTemplate()).
		AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error compiling reasoning chain: %w", err)
	}

	return &Gateway{runnable: runnable, log: log}, nil
}

// Invoke runs one reasoning call. It never panics and never returns an error directly;
// failures are carried in Result.Err.
func (g *Gateway) Invoke(ctx context.Context, bundle pkg.ContextBundle) (result Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("panic during reasoning: %v", r)}
		}
		event := g.log.Debug()
		if result.Err != nil {
			event = g.log.Warn().Err(result.Err)
		}
		event.
			Dur("latency", time.Since(start)).
			Int("reply_length", len(result.Text)).
			Msg("reasoning call finished")
	}()

	msg, err := g.runnable.Invoke(ctx, templateVariables(bundle))
	if err != nil {
		return Result{Err: err}
	}
	if msg == nil {
		return Result{Err: ErrEmptyCompletion}
	}

	return Result{Text: msg.Content}
}
