package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/journai/journai-core/internal/core/domain"
)

var askNoCache bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your journal",
	Long: `Answers a question using context gathered from your journal.

With a question argument, prints a single answer. Without one, reads the
question from stdin, or starts a conversation when stdin is a terminal.
Type "exit" or press Ctrl-D to leave a conversation.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoCache, "no-cache", false, "re-embed queries instead of using the cache")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireServices(cmd.Context()); err != nil {
		return err
	}

	if len(args) > 0 {
		return answerOnce(cmd, strings.Join(args, " "))
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return runConversation(cmd, in)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return answerOnce(cmd, string(data))
}

func answerOnce(cmd *cobra.Command, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return errors.New("no question given")
	}

	reply, err := completionService.Complete(cmd.Context(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: question},
	}, !askNoCache)
	if err != nil {
		return askError(err)
	}

	cmd.Println(reply)
	return nil
}

// runConversation keeps the history so follow-up questions have context.
func runConversation(cmd *cobra.Command, in io.Reader) error {
	reader := bufio.NewReader(in)
	var history []domain.ChatMessage

	cmd.Println("Ask about your journal. Type \"exit\" to quit.")
	for {
		cmd.Print("\n> ")
		line, err := reader.ReadString('\n')
		question := strings.TrimSpace(line)
		if question == "exit" || question == "quit" {
			return nil
		}
		if question != "" {
			history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: question})
			reply, cerr := completionService.Complete(cmd.Context(), history, !askNoCache)
			if cerr != nil {
				// Drop the unanswered question so the next turn starts clean.
				history = history[:len(history)-1]
				cmd.PrintErrln(askError(cerr))
			} else {
				history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
				cmd.Println(reply)
			}
		}
		if errors.Is(err, io.EOF) {
			cmd.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
}

func askError(err error) error {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return fmt.Errorf("%w. Run 'journai settings set llm.provider <provider>' to configure one", err)
	}
	return fmt.Errorf("ask failed: %w", err)
}
