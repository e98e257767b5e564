package interactive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedBackend struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []llm.Request
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Generate(ctx context.Context, req llm.Request) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := len(b.requests)
	b.requests = append(b.requests, req)
	if i < len(b.errs) && b.errs[i] != nil {
		return "", b.errs[i]
	}
	if i < len(b.replies) {
		return b.replies[i], nil
	}
	return "ok", nil
}

type fakeSpeaker struct {
	said    []string
	voices  []core.VoiceConfig
	stopped int
	err     error
}

func (s *fakeSpeaker) Say(ctx context.Context, text string, cfg core.VoiceConfig) (<-chan error, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.said = append(s.said, text)
	s.voices = append(s.voices, cfg)
	ch := make(chan error)
	close(ch)
	return ch, nil
}

func (s *fakeSpeaker) Stop() error {
	s.stopped++
	return nil
}

func runChat(t *testing.T, backend llm.Backend, input string, opts ...ChatOption) (*ChatHandler, string) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]ChatOption{WithIO(strings.NewReader(input), &out)}, opts...)
	h := NewChatHandler(explain.New(backend), nil, opts...)
	require.NoError(t, h.RunChatLoop(context.Background()))
	return h, out.String()
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	assert.NotEmpty(t, m.ID())
	assert.Equal(t, 0, m.Len())

	m.Add("q1", "a1")
	m.Add("q2", "a2")
	require.Equal(t, 4, m.Len())

	messages := m.Messages()
	assert.Equal(t, core.ChatMessage{Role: core.RoleUser, Content: "q1"}, messages[0])
	assert.Equal(t, core.ChatMessage{Role: core.RoleAssistant, Content: "a2"}, messages[3])

	// Messages is a copy.
	messages[0].Content = "changed"
	assert.Equal(t, "q1", m.Messages()[0].Content)

	transcript := m.Transcript()
	assert.Contains(t, transcript, "**👤 User:** q1")
	assert.Contains(t, transcript, "**🤖 Bot:** a2")
	assert.Contains(t, transcript, m.ID())
}

func TestMemory_ConcurrentAdd(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Add("q", "a")
		}()
	}
	wg.Wait()
	assert.Equal(t, 40, m.Len())
}

func TestRunChatLoop_RemembersSuccessfulExchanges(t *testing.T) {
	backend := &scriptedBackend{replies: []string{"Plants make food from light.", "They use chlorophyll."}}
	h, out := runChat(t, backend, "What is photosynthesis?\nHow?\nquit\n")

	assert.Contains(t, out, "Plants make food from light.")
	assert.Contains(t, out, "They use chlorophyll.")
	assert.Contains(t, out, explain.Subheading(core.StyleDefault))

	messages := h.Memory().Messages()
	require.Len(t, messages, 4)
	assert.Equal(t, explain.BuildStylePrompt("What is photosynthesis?", core.StyleDefault), messages[0].Content)
	assert.Equal(t, "Plants make food from light.", messages[1].Content)

	// The second call sees the first exchange as history.
	require.Len(t, backend.requests, 2)
	assert.Empty(t, backend.requests[0].History)
	assert.Len(t, backend.requests[1].History, 2)
}

func TestRunChatLoop_FailureNotRemembered(t *testing.T) {
	backend := &scriptedBackend{errs: []error{errors.New("model offline")}}
	h, out := runChat(t, backend, "Why is the sky blue?\n")

	assert.Contains(t, out, "⚠️ Error generating explanation: model offline")
	assert.Equal(t, 0, h.Memory().Len())
}

func TestRunChatLoop_StyleCommand(t *testing.T) {
	backend := &scriptedBackend{}
	h, out := runChat(t, backend, "/style expert\nExplain entropy\n/style nonsense\n/exit\nignored\n")

	assert.Equal(t, core.StyleExpert, h.Style())
	assert.Contains(t, out, "Style set to 🧠 Expert")
	assert.Contains(t, out, "Error: unknown explanation style")
	require.Len(t, backend.requests, 1)
	assert.Contains(t, backend.requests[0].Prompt, "Explain entropy")
	assert.Contains(t, out, explain.Subheading(core.StyleExpert))
}

func TestRunChatLoop_Commands(t *testing.T) {
	_, out := runChat(t, &scriptedBackend{}, "/help\n/history\n/bogus\n/stop\n")

	assert.Contains(t, out, "Available Commands")
	assert.Contains(t, out, "No conversation history yet.")
	assert.Contains(t, out, "Unknown command: /bogus")
	assert.Contains(t, out, "Error: speech is not available")
	assert.Contains(t, out, "Goodbye!")
}

func TestRunChatLoop_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.md")
	_, out := runChat(t, &scriptedBackend{replies: []string{"An answer."}}, "A question\n/save "+path+"\n")

	assert.Contains(t, out, "Conversation saved to: "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**🤖 Bot:** An answer.")
}

func TestRunChatLoop_Speech(t *testing.T) {
	speaker := &fakeSpeaker{}
	backend := &scriptedBackend{replies: []string{"Spoken answer."}}
	_, out := runChat(t, backend, "/play\nQuestion\n/stop\n",
		WithSpeaker(speaker, core.VoiceConfig{Rate: 400, Gender: core.GenderFemale}, true))

	assert.Contains(t, out, "Nothing to play yet.")
	require.Equal(t, []string{"Spoken answer."}, speaker.said)
	assert.Equal(t, core.MaxSpeechRate, speaker.voices[0].Rate)
	// /stop plus the stop on exit.
	assert.Equal(t, 2, speaker.stopped)
}

func TestRunChatLoop_SpeechFailure(t *testing.T) {
	speaker := &fakeSpeaker{err: errors.New("no engine")}
	_, out := runChat(t, &scriptedBackend{}, "Question\n",
		WithSpeaker(speaker, core.VoiceConfig{}, true))

	assert.Contains(t, out, "Speech failed: no engine")
}
