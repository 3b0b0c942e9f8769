// Package conversation drives the intake chat: it feeds user turns to the
// advisor, watches for the submitIdea call, and on a valid call fans out to
// evaluation and code generation before writing exactly one idea record.
package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/repository/snapshot"
	"smartsite/internal/gateway/service/advisor"
	"smartsite/internal/i18n"
	"smartsite/internal/llmclient"
)

const (
	roleUser      = "user"
	roleAssistant = "model"

	// SnapshotName is the object name each idea's starter code is stored
	// under in the snapshot store.
	SnapshotName = "starter-code.html"
)

// Gateway is the slice of the advisor this controller needs.
type Gateway interface {
	Evaluate(ctx context.Context, ideaText string) (string, error)
	GenerateCode(ctx context.Context, ideaText string) (string, error)
	ChatTurn(ctx context.Context, history []llmclient.Message) (advisor.Reply, error)
}

// IdeaSaver is the slice of the idea store this controller needs.
type IdeaSaver interface {
	Save(ctx context.Context, in ideastore.NewIdea) (ideastore.Idea, error)
}

type Service struct {
	gw        Gateway
	ideas     IdeaSaver
	snapshots snapshot.Store // optional
	sessions  *sessionMap
}

func New(gw Gateway, ideas IdeaSaver, snapshots snapshot.Store) *Service {
	return &Service{
		gw:        gw,
		ideas:     ideas,
		snapshots: snapshots,
		sessions:  newSessionMap(),
	}
}

// HandleMessage appends one user turn and advances the conversation. Remote
// failures never return an error; they surface as a localized assistant
// turn so the user can retry with history intact.
func (s *Service) HandleMessage(ctx context.Context, sessionID, text, lang string) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Result{}, fmt.Errorf("session id is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, fmt.Errorf("message is required")
	}
	msgs := i18n.Lookup(lang)

	s.sessions.append(sessionID, roleUser, text)
	reply, err := s.gw.ChatTurn(ctx, s.sessions.history(sessionID))
	if err != nil {
		log.Printf("conversation: chat turn failed: %v", err)
		s.sessions.append(sessionID, roleAssistant, msgs.AIError)
		return Result{Reply: msgs.AIError}, nil
	}

	call := reply.Call
	if call == nil || !callComplete(call) {
		// Either a plain reply, or a premature submit call with missing
		// fields: fail closed and keep collecting.
		out := strings.TrimSpace(reply.Text)
		if out == "" {
			out = msgs.Listening
		}
		s.sessions.append(sessionID, roleAssistant, out)
		return Result{Reply: out}, nil
	}

	s.sessions.append(sessionID, roleAssistant, msgs.Analyzing)
	idea, err := s.finalize(ctx, *call)
	if err != nil {
		log.Printf("conversation: finalize failed: %v", err)
		s.sessions.append(sessionID, roleAssistant, msgs.AIError)
		return Result{Reply: msgs.AIError}, nil
	}

	// The submission is complete; the transient conversation is done.
	s.sessions.drop(sessionID)
	return Result{Submitted: &idea}, nil
}

// Turns returns a copy of the session's turn list, oldest first.
func (s *Service) Turns(sessionID string) []llmclient.Message {
	return s.sessions.history(sessionID)
}

// CloseSession discards a session's turns. In-flight remote calls are not
// canceled; their results are simply dropped.
func (s *Service) CloseSession(sessionID string) {
	s.sessions.drop(strings.TrimSpace(sessionID))
}

// finalize runs evaluation and code generation in parallel and writes one
// idea record once both have succeeded. No partial commit: either call
// failing aborts the write entirely.
func (s *Service) finalize(ctx context.Context, call advisor.SubmitCall) (ideastore.Idea, error) {
	var (
		wg         sync.WaitGroup
		evaluation string
		code       string
		evalErr    error
		codeErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		evaluation, evalErr = s.gw.Evaluate(ctx, call.Idea)
	}()
	go func() {
		defer wg.Done()
		code, codeErr = s.gw.GenerateCode(ctx, call.Idea)
	}()
	wg.Wait()
	if evalErr != nil {
		return ideastore.Idea{}, fmt.Errorf("evaluate: %w", evalErr)
	}
	if codeErr != nil {
		return ideastore.Idea{}, fmt.Errorf("generate code: %w", codeErr)
	}

	idea, err := s.ideas.Save(ctx, ideastore.NewIdea{
		SiteName:      call.SiteName,
		Email:         call.Email,
		Idea:          call.Idea,
		Evaluation:    evaluation,
		GeneratedCode: code,
	})
	if err != nil {
		return ideastore.Idea{}, fmt.Errorf("save idea: %w", err)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Put(ctx, idea.ID, SnapshotName, []byte(code)); err != nil {
			// Best effort; the record already holds the code.
			log.Printf("conversation: code snapshot for %s failed: %v", idea.ID, err)
		}
	}
	return idea, nil
}

func callComplete(call *advisor.SubmitCall) bool {
	return strings.TrimSpace(call.SiteName) != "" &&
		strings.TrimSpace(call.Email) != "" &&
		strings.TrimSpace(call.Idea) != ""
}
