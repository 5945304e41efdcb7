package chat

import (
	"context"
	"fmt"
	"strings"

	applog "larder/internal/log"
	"larder/internal/shopping"
)

// Brain turns one user utterance, with conversation history and the current
// list rendered as text, into a structured reply.
type Brain interface {
	ChatTurn(ctx context.Context, history []Turn, utterance, listText string) (Reply, error)
}

// maxHistoryTurns bounds the conversation window sent to the brain.
const maxHistoryTurns = 10

// Agent drives a conversation over a shopping list. It keeps a bounded
// history of turns and applies each reply's commands through an Editor.
// Agent is not safe for concurrent use; callers hold one per session.
type Agent struct {
	brain   Brain
	editor  *Editor
	history []Turn
}

// NewAgent builds an Agent around a brain and an editor.
func NewAgent(brain Brain, editor *Editor) *Agent {
	return &Agent{brain: brain, editor: editor}
}

// Chat handles one user utterance against list. A brain failure is reported
// conversationally and leaves both the list and the history unchanged.
func (a *Agent) Chat(ctx context.Context, utterance string, list *shopping.CategorizedList) Result {
	reply, err := a.brain.ChatTurn(ctx, a.history, utterance, FormatList(list))
	if err != nil {
		applog.Error(ctx, "chat turn failed", "error", err)
		return Result{
			Response: "I encountered an error. Could you please rephrase your request?",
			Action:   ActionNone,
		}
	}

	result := a.editor.Apply(ctx, list, reply)

	a.history = append(a.history,
		Turn{Role: "user", Content: utterance},
		Turn{Role: "assistant", Content: result.Response},
	)
	if len(a.history) > maxHistoryTurns {
		a.history = a.history[len(a.history)-maxHistoryTurns:]
	}
	return result
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.history = nil
}

// History returns a copy of the conversation window, for callers that persist
// it between requests.
func (a *Agent) History() []Turn {
	return append([]Turn(nil), a.history...)
}

// RestoreHistory replaces the conversation window, trimming to the bounded
// size from the front.
func (a *Agent) RestoreHistory(turns []Turn) {
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	a.history = append([]Turn(nil), turns...)
}

// FormatList renders a categorised list as the plain text the brain reads.
func FormatList(list *shopping.CategorizedList) string {
	if list == nil || list.ItemCount() == 0 {
		return "The shopping list is currently empty."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Total items: %d\n", list.ItemCount())
	for _, category := range list.OrderedCategories() {
		items := list.Categories[category]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", category)
		for _, item := range items {
			line := "  - " + item.Item
			if item.Quantity != "" {
				line += " (" + item.Quantity + ")"
			}
			if item.Notes != "" {
				line += " - " + item.Notes
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
