// Package interactive runs the line-based chat assistant.
package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/logger"
)

// Speaker reads answers aloud. *tts.Synthesizer satisfies it.
type Speaker interface {
	Say(ctx context.Context, text string, cfg core.VoiceConfig) (<-chan error, error)
	Stop() error
}

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ChatHandler manages an interactive chat session with the explainer
type ChatHandler struct {
	explainer *explain.Explainer
	memory    *Memory
	scanner   *bufio.Scanner
	out       io.Writer

	style   core.Style
	speaker Speaker
	voice   core.VoiceConfig
	speak   bool
	last    string
}

// ChatOption configures a ChatHandler.
type ChatOption func(*ChatHandler)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) ChatOption {
	return func(h *ChatHandler) {
		h.scanner = bufio.NewScanner(in)
		h.out = out
	}
}

// WithStyle sets the initial explanation style.
func WithStyle(style core.Style) ChatOption {
	return func(h *ChatHandler) { h.style = style }
}

// WithSpeaker enables reading answers aloud.
func WithSpeaker(speaker Speaker, voice core.VoiceConfig, autoSpeak bool) ChatOption {
	return func(h *ChatHandler) {
		h.speaker = speaker
		h.voice = voice.Normalized()
		h.speak = autoSpeak
	}
}

// NewChatHandler creates a new chat handler
func NewChatHandler(explainer *explain.Explainer, memory *Memory, opts ...ChatOption) *ChatHandler {
	if memory == nil {
		memory = NewMemory()
	}
	h := &ChatHandler{
		explainer: explainer,
		memory:    memory,
		scanner:   bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
		style:     core.StyleDefault,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Memory returns the conversation history.
func (h *ChatHandler) Memory() *Memory {
	return h.memory
}

// Style returns the current explanation style.
func (h *ChatHandler) Style() core.Style {
	return h.style
}

func (h *ChatHandler) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(h.out, format, args...)
}

// printIntro displays the chat introduction
func (h *ChatHandler) printIntro() {
	h.printf("\n🧠 Like-a-10: Smart Explainer Bot 🤖\n")
	h.printf("%s\n", rule)
	h.printf("Backend: %s   Style: %s\n", h.backendName(), h.style.Label())
	h.printf("\nType your question, /help for commands, or 'quit' to exit.\n")
	h.printf("%s\n\n", rule)
}

func (h *ChatHandler) backendName() string {
	if b := h.explainer.Backend(); b != nil {
		return b.Name()
	}
	return "none"
}

// RunChatLoop runs the main interactive chat loop until EOF, quit or /exit.
func (h *ChatHandler) RunChatLoop(ctx context.Context) error {
	h.printIntro()

	for {
		h.printf("You: ")
		if !h.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(h.scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			exit, err := h.handleCommand(ctx, input)
			if err != nil {
				h.printf("Error: %v\n", err)
			}
			if exit {
				break
			}
			continue
		}

		if lower := strings.ToLower(input); lower == "quit" || lower == "exit" {
			break
		}

		h.processUserInput(ctx, input)

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	h.stopSpeech()
	h.printf("\n👋 Chat session ended. Goodbye!\n")
	return h.scanner.Err()
}

// processUserInput sends the question to the explainer and displays the answer.
// Only successful exchanges are remembered.
func (h *ChatHandler) processUserInput(ctx context.Context, input string) {
	h.printf("⏳ Thinking...\n")

	result := h.explainer.ExplainStyle(ctx, core.ExplanationRequest{
		SourceText: input,
		Style:      h.style,
	}, h.memory.Messages())

	if !result.OK() {
		h.printf("\n⚠️ %s\n\n", result.Display())
		return
	}

	h.memory.Add(explain.BuildStylePrompt(input, h.style), result.Explanation.Text)
	h.last = result.Explanation.Text

	h.printf("\n%s\n\n%s\n\n", result.Explanation.Subheading, result.Explanation.Text)

	if h.speak {
		h.sayLast(ctx)
	}
}

func (h *ChatHandler) sayLast(ctx context.Context) {
	if h.speaker == nil {
		h.printf("Speech is not available.\n")
		return
	}
	if h.last == "" {
		h.printf("Nothing to play yet.\n")
		return
	}
	if _, err := h.speaker.Say(ctx, h.last, h.voice); err != nil {
		logger.Error("Speech failed", err)
		h.printf("Speech failed: %v\n", err)
	}
}

func (h *ChatHandler) stopSpeech() {
	if h.speaker == nil {
		return
	}
	if err := h.speaker.Stop(); err != nil {
		logger.Debug("Stop speech", "error", err.Error())
	}
}

// handleCommand processes chat commands. It reports whether the session should end.
func (h *ChatHandler) handleCommand(ctx context.Context, command string) (bool, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return false, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(command, parts[0]))

	switch parts[0] {
	case "/help":
		h.showHelp()
	case "/style":
		if arg == "" {
			h.printf("Current style: %s\nAvailable: %s\n", h.style.Label(), strings.Join(core.StyleOptions(), ", "))
			return false, nil
		}
		style, err := core.ParseStyle(arg)
		if err != nil {
			return false, err
		}
		h.style = style
		h.printf("Style set to %s\n", style.Label())
	case "/history":
		h.showHistory()
	case "/save":
		filename := "chat-log.md"
		if arg != "" {
			filename = arg
		}
		return false, h.saveConversation(filename)
	case "/play":
		h.sayLast(ctx)
	case "/stop":
		if h.speaker == nil {
			return false, fmt.Errorf("speech is not available")
		}
		return false, h.speaker.Stop()
	case "/exit":
		return true, nil
	default:
		h.printf("Unknown command: %s. Type /help for available commands.\n", parts[0])
	}

	return false, nil
}

// showHelp displays available commands
func (h *ChatHandler) showHelp() {
	h.printf("\n📚 Available Commands:\n")
	h.printf("%s\n", rule)
	h.printf("  /style [name]  - Show or change the explanation style\n")
	h.printf("  /history       - Show conversation history\n")
	h.printf("  /save [file]   - Save conversation to file (default: chat-log.md)\n")
	h.printf("  /play          - Read the last answer aloud\n")
	h.printf("  /stop          - Stop playback\n")
	h.printf("  /exit          - End chat session\n")
	h.printf("  quit           - End chat session\n")
	h.printf("%s\n\n", rule)
}

// showHistory displays the conversation so far
func (h *ChatHandler) showHistory() {
	h.printf("\n📜 Conversation History\n")
	h.printf("%s\n", rule)
	messages := h.memory.Messages()
	if len(messages) == 0 {
		h.printf("No conversation history yet.\n")
	}
	for _, msg := range messages {
		h.printf("%s: %s\n\n", RoleLabel(msg.Role), msg.Content)
	}
	h.printf("%s\n\n", rule)
}

// saveConversation saves the chat history to a file
func (h *ChatHandler) saveConversation(filename string) error {
	if err := os.WriteFile(filename, []byte(h.memory.Transcript()), 0644); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	h.printf("💾 Conversation saved to: %s\n", filename)
	return nil
}
