// Package advisor is the gateway's adapter over the hosted Gemini models:
// idea evaluation, starter-code generation, and the conversational intake
// turn with its submitIdea function contract.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartsite/internal/llmclient"
)

const (
	evaluateSystem = "You are a senior tech strategist. Analyze this idea. Provide a score 1-10 and brief market/tech feedback."
	generateSystem = "Generate clean HTML/Tailwind CSS boilerplate for this idea. Return only the code."
	chatSystem     = "You are a Product Consultant. Your goal is to collect three things from the user: " +
		"1) A Project/Site Name, 2) Their Email, 3) A clear Description of their idea. " +
		"Engage in friendly conversation to gather these. Once you have all three, use the 'submitIdea' tool. " +
		"Do not submit until you have all details clearly."

	// Fixed placeholders for empty model output.
	noEvaluationText  = "No evaluation provided."
	codeGenFailedText = "Code generation failed."
)

// Reply is the outcome of one chat turn: free text, or a submission call
// once the model judges all three fields are known.
type Reply struct {
	Text string
	Call *SubmitCall
}

// SubmitCall carries the arguments of a submitIdea function call.
type SubmitCall struct {
	SiteName string
	Email    string
	Idea     string
}

// Advisor owns model selection and system prompts for the three remote
// operations. It is stateless; every call is one request/response exchange
// with no local fallback or caching.
type Advisor struct {
	llm       *llmclient.GeminiClient
	chatModel string
	evalModel string
	codeModel string
}

func New(llm *llmclient.GeminiClient, chatModel, evalModel, codeModel string) *Advisor {
	return &Advisor{
		llm:       llm,
		chatModel: chatModel,
		evalModel: evalModel,
		codeModel: codeModel,
	}
}

// Evaluate asks the strategist model for feedback on the idea.
func (a *Advisor) Evaluate(ctx context.Context, ideaText string) (string, error) {
	prompt := fmt.Sprintf("Evaluate: %q", ideaText)
	text, err := a.llm.GenerateText(ctx, a.evalModel, evaluateSystem, prompt)
	if errors.Is(err, llmclient.ErrEmptyResponse) {
		return noEvaluationText, nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateCode asks the code model for starter markup for the idea.
func (a *Advisor) GenerateCode(ctx context.Context, ideaText string) (string, error) {
	prompt := fmt.Sprintf("Create prototype for: %q", ideaText)
	text, err := a.llm.GenerateText(ctx, a.codeModel, generateSystem, prompt)
	if errors.Is(err, llmclient.ErrEmptyResponse) {
		return codeGenFailedText, nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// ChatTurn sends the full conversation so far. Only the first submitIdea
// call in the response is honored; any other function name is ignored and
// treated as an empty text reply.
func (a *Advisor) ChatTurn(ctx context.Context, history []llmclient.Message) (Reply, error) {
	res, err := a.llm.Chat(ctx, a.chatModel, chatSystem, history, submitIdeaTools())
	if err != nil {
		return Reply{}, err
	}
	if res.Call != nil {
		if res.Call.Name != submitIdeaName {
			return Reply{}, nil
		}
		return Reply{Call: submitCallFromArgs(res.Call.Args)}, nil
	}
	return Reply{Text: res.Text}, nil
}

func submitCallFromArgs(args map[string]any) *SubmitCall {
	return &SubmitCall{
		SiteName: stringArg(args, "siteName"),
		Email:    stringArg(args, "email"),
		Idea:     stringArg(args, "idea"),
	}
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}
