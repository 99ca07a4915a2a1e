package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"picsort/internal/organize"
)

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirmProceed asks a yes/no question and defaults to no.
func confirmProceed(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// terminalAsk builds the duplicate-name prompt for the ask policy. It runs on
// the single execution worker that policy enforces, so blocking on stdin is
// fine. EOF or unreadable input cancels the run rather than guessing.
func terminalAsk(in io.Reader, out io.Writer, bar *barReporter) organize.AskFunc {
	reader := bufio.NewReader(in)
	return func(p organize.Prompt) organize.Answer {
		bar.suspend()
		fmt.Fprintf(out, "\n%s already exists\n", p.Dest)
		fmt.Fprintf(out, "  source: %s\n", p.Source)
		for {
			fmt.Fprintf(out, "[r]ename to %s, [s]kip, [c]ancel run? ", p.Proposed)
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Fprintln(out, "cancel")
				return organize.AnswerCancel
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "r", "rename":
				return organize.AnswerRename
			case "s", "skip":
				return organize.AnswerSkip
			case "c", "cancel":
				return organize.AnswerCancel
			}
		}
	}
}
