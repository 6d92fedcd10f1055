package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// runREPL reads one message per line and prints the assistant's answer. It
// returns on EOF, on "exit"/"quit", or when ctx is done. The prompt is only
// printed when interactive is set.
func runREPL(ctx context.Context, conv Conversation, in io.Reader, out io.Writer, interactive bool) error {
	scanner := bufio.NewScanner(in)
	page := ""

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if interactive {
			fmt.Fprint(out, "you> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		reply, err := conv.Send(ctx, line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}

		fmt.Fprintln(out, "assistant>", reply.Text)
		if reply.Page != "" && reply.Page != page {
			if page != "" {
				fmt.Fprintf(out, "[page: %s]\n", reply.Page)
			}
			page = reply.Page
		}
	}
}
