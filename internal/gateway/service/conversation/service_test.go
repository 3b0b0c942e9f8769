package conversation

import (
	"context"
	"errors"
	"testing"

	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/gateway/repository/snapshot"
	"smartsite/internal/gateway/service/advisor"
	"smartsite/internal/i18n"
	"smartsite/internal/llmclient"
)

// fakeGateway scripts the advisor. Replies are consumed in order; Evaluate
// and GenerateCode return fixed values or errors.
type fakeGateway struct {
	replies []advisor.Reply
	chatErr error

	evaluation string
	evalErr    error
	code       string
	codeErr    error

	chatCalls int
}

func (g *fakeGateway) ChatTurn(_ context.Context, _ []llmclient.Message) (advisor.Reply, error) {
	g.chatCalls++
	if g.chatErr != nil {
		return advisor.Reply{}, g.chatErr
	}
	if len(g.replies) == 0 {
		return advisor.Reply{Text: "Tell me more."}, nil
	}
	r := g.replies[0]
	g.replies = g.replies[1:]
	return r, nil
}

func (g *fakeGateway) Evaluate(_ context.Context, _ string) (string, error) {
	return g.evaluation, g.evalErr
}

func (g *fakeGateway) GenerateCode(_ context.Context, _ string) (string, error) {
	return g.code, g.codeErr
}

// fakeSaver records saves without touching disk.
type fakeSaver struct {
	saved []ideastore.NewIdea
}

func (f *fakeSaver) Save(_ context.Context, in ideastore.NewIdea) (ideastore.Idea, error) {
	f.saved = append(f.saved, in)
	return ideastore.Idea{
		ID:            "idea-1",
		SiteName:      in.SiteName,
		Email:         in.Email,
		Idea:          in.Idea,
		Evaluation:    in.Evaluation,
		GeneratedCode: in.GeneratedCode,
		Status:        ideastore.StatusReview,
	}, nil
}

func TestPlainTurnsNeverWrite(t *testing.T) {
	gw := &fakeGateway{replies: []advisor.Reply{
		{Text: "What's the project called?"},
		{Text: "And your email?"},
	}}
	saver := &fakeSaver{}
	svc := New(gw, saver, snapshot.NewMemoryStore())
	ctx := context.Background()

	for _, msg := range []string{"I want a bakery site", "Crumb & Co"} {
		res, err := svc.HandleMessage(ctx, "s1", msg, "en")
		if err != nil {
			t.Fatalf("handle message: %v", err)
		}
		if res.Submitted != nil {
			t.Fatal("plain reply must not produce a submission")
		}
		if res.Reply == "" {
			t.Fatal("expected an assistant reply")
		}
	}
	if len(saver.saved) != 0 {
		t.Fatalf("expected no writes, got %d", len(saver.saved))
	}
	// Two user turns and two assistant turns, oldest first.
	turns := svc.Turns("s1")
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "model" {
		t.Fatalf("unexpected turn roles: %q %q", turns[0].Role, turns[1].Role)
	}
}

func TestCompleteCallWritesOneRecord(t *testing.T) {
	gw := &fakeGateway{
		replies: []advisor.Reply{{
			Call: &advisor.SubmitCall{SiteName: "Foo", Email: "a@b.com", Idea: "A recipe-sharing app"},
		}},
		evaluation: "Score: 7/10...",
		code:       "<html>...</html>",
	}
	saver := &fakeSaver{}
	snaps := snapshot.NewMemoryStore()
	svc := New(gw, saver, snaps)

	res, err := svc.HandleMessage(context.Background(), "s1", "I want a recipe-sharing app", "en")
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if res.Submitted == nil {
		t.Fatal("expected a submission")
	}
	if len(saver.saved) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(saver.saved))
	}
	got := saver.saved[0]
	want := ideastore.NewIdea{
		SiteName:      "Foo",
		Email:         "a@b.com",
		Idea:          "A recipe-sharing app",
		Evaluation:    "Score: 7/10...",
		GeneratedCode: "<html>...</html>",
	}
	if got != want {
		t.Fatalf("saved record mismatch:\n got %+v\nwant %+v", got, want)
	}
	if res.Submitted.Status != ideastore.StatusReview {
		t.Fatalf("expected Review status, got %q", res.Submitted.Status)
	}

	// Starter code is exported to the snapshot store as a side effect.
	raw, err := snaps.Get(context.Background(), res.Submitted.ID, SnapshotName)
	if err != nil {
		t.Fatalf("snapshot get: %v", err)
	}
	if string(raw) != "<html>...</html>" {
		t.Fatalf("snapshot content mismatch: %q", raw)
	}

	// The session is dropped once the submission completes.
	if turns := svc.Turns("s1"); len(turns) != 0 {
		t.Fatalf("expected empty session after submission, got %d turns", len(turns))
	}
}

func TestEvaluateFailureWritesNothing(t *testing.T) {
	gw := &fakeGateway{
		replies: []advisor.Reply{{
			Call: &advisor.SubmitCall{SiteName: "Foo", Email: "a@b.com", Idea: "An app"},
		}},
		evalErr: errors.New("model unavailable"),
		code:    "<html></html>",
	}
	saver := &fakeSaver{}
	svc := New(gw, saver, nil)

	res, err := svc.HandleMessage(context.Background(), "s1", "submit it", "en")
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if res.Submitted != nil {
		t.Fatal("failed finalize must not produce a submission")
	}
	if len(saver.saved) != 0 {
		t.Fatalf("expected zero writes, got %d", len(saver.saved))
	}
	wantErr := i18n.Lookup("en").AIError
	if res.Reply != wantErr {
		t.Fatalf("expected localized error reply %q, got %q", wantErr, res.Reply)
	}
	// History survives so the user can retry; the last turn is the error.
	turns := svc.Turns("s1")
	if len(turns) == 0 {
		t.Fatal("expected history to survive a failed finalize")
	}
	last := turns[len(turns)-1]
	if last.Role != "model" || last.Text != wantErr {
		t.Fatalf("unexpected final turn: %+v", last)
	}
}

func TestIncompleteCallFailsClosed(t *testing.T) {
	gw := &fakeGateway{
		replies: []advisor.Reply{{
			Text: "Almost there, what's your email?",
			Call: &advisor.SubmitCall{SiteName: "Foo", Email: "   ", Idea: "An app"},
		}},
	}
	saver := &fakeSaver{}
	svc := New(gw, saver, nil)

	res, err := svc.HandleMessage(context.Background(), "s1", "call it Foo", "en")
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if res.Submitted != nil {
		t.Fatal("incomplete call must not produce a submission")
	}
	if len(saver.saved) != 0 {
		t.Fatalf("expected zero writes, got %d", len(saver.saved))
	}
	if res.Reply != "Almost there, what's your email?" {
		t.Fatalf("expected the plain reply, got %q", res.Reply)
	}
}

func TestChatErrorKeepsHistory(t *testing.T) {
	gw := &fakeGateway{chatErr: errors.New("timeout")}
	svc := New(gw, &fakeSaver{}, nil)

	res, err := svc.HandleMessage(context.Background(), "s1", "hello", "fr")
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	wantErr := i18n.Lookup("fr").AIError
	if res.Reply != wantErr {
		t.Fatalf("expected %q, got %q", wantErr, res.Reply)
	}
	turns := svc.Turns("s1")
	if len(turns) != 2 {
		t.Fatalf("expected user turn + error turn, got %d turns", len(turns))
	}
	if turns[0].Text != "hello" {
		t.Fatalf("user turn lost: %+v", turns[0])
	}
}

func TestHandleMessageRejectsBlankInput(t *testing.T) {
	svc := New(&fakeGateway{}, &fakeSaver{}, nil)
	if _, err := svc.HandleMessage(context.Background(), "", "hi", "en"); err == nil {
		t.Fatal("expected error for empty session id")
	}
	if _, err := svc.HandleMessage(context.Background(), "s1", "   ", "en"); err == nil {
		t.Fatal("expected error for blank message")
	}
}

func TestCloseSessionDropsTurns(t *testing.T) {
	svc := New(&fakeGateway{}, &fakeSaver{}, nil)
	if _, err := svc.HandleMessage(context.Background(), "s1", "hello", "en"); err != nil {
		t.Fatalf("handle message: %v", err)
	}
	svc.CloseSession("s1")
	if turns := svc.Turns("s1"); len(turns) != 0 {
		t.Fatalf("expected no turns after close, got %d", len(turns))
	}
}
