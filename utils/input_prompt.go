package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/RichelynScott/claude-code-project-index/constants/lipgloss"
)

// ConfirmPrompt asks the operator a yes/no question and returns true only on
// an explicit "y"/"yes". EOF, interruption, or any other answer decline.
func ConfirmPrompt(ctx context.Context, question string, reader *bufio.Reader) (bool, error) {
	answerChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		fmt.Print(lipgloss.BlueSky.Render(fmt.Sprintf("%s [y/N]: ", question)))

		answer, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				answerChan <- ""
				return
			}
			errChan <- fmt.Errorf("error reading input: %w", err)
			return
		}
		answerChan <- strings.TrimSpace(answer)
	}()

	select {
	case <-ctx.Done():
		fmt.Println()
		return false, ctx.Err()
	case err := <-errChan:
		return false, err
	case answer := <-answerChan:
		answer = strings.ToLower(answer)
		return answer == "y" || answer == "yes", nil
	}
}
