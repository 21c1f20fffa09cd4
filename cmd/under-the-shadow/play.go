package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"github.com/appengine-ltd/under-the-shadow/internal/parser"
	"github.com/appengine-ltd/under-the-shadow/internal/save"
	"github.com/appengine-ltd/under-the-shadow/internal/tui"
)

func newPlayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the full-screen terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, flags, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			run, err := sess.run(cmd.Context(), flags.resume)
			if err != nil {
				return err
			}
			app := tui.NewApp(tui.AppConfig{
				Version: version,
				Store:   sess.store,
				Slot:    sess.slot,
				Logger:  sess.logger,
			}, run)
			return app.Run()
		},
	}
}

func newReplCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Play line by line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), cmd, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			run, err := sess.run(cmd.Context(), flags.resume)
			if err != nil {
				return err
			}
			sh := &shell{sess: sess, run: run, parser: parser.New(), out: cmd.OutOrStdout()}
			return sh.loop(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// shell is the line-oriented front end. save, load and quit are handled here;
// everything else goes to the run.
type shell struct {
	sess   *session
	run    *game.RunState
	parser *parser.Parser
	out    io.Writer
	last   string
}

func (sh *shell) loop(ctx context.Context, in io.Reader) error {
	sh.printf("%s\n", sh.banner())
	scanner := bufio.NewScanner(in)
	sh.prompt()
	for scanner.Scan() {
		if done := sh.line(ctx, scanner.Text()); done {
			return nil
		}
		sh.prompt()
	}
	return scanner.Err()
}

// line handles one input line and reports whether the shell should exit.
func (sh *shell) line(ctx context.Context, raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	pctx := parser.ContextFor(sh.run)
	pctx.LastEntity = sh.last
	intent := sh.parser.Parse(pctx, raw)
	if intent.Clarify != nil {
		sh.printf("%s\n", clarifyText(intent.Clarify))
		return false
	}

	switch intent.Verb {
	case "quit":
		return true
	case "save":
		sh.save(ctx, slotArg(intent.Args, sh.sess.slot))
		return false
	case "load":
		sh.load(ctx, slotArg(intent.Args, sh.sess.slot))
		return false
	}

	command := parser.IntentToCommandString(intent)
	res := sh.run.ExecuteRunCommand(command)
	if !res.Handled {
		sh.printf("Unknown command: %s\n", command)
		return false
	}
	if len(intent.Args) > 0 {
		sh.last = intent.Args[0]
	}
	if res.Message != "" {
		sh.printf("%s\n", res.Message)
	}
	if res.Result.Ending != nil {
		sh.sess.logger.Info("run ended", "run", sh.run.RunID, "week", sh.run.Week, "ending", res.Result.Ending.ID)
	}
	return false
}

func (sh *shell) save(ctx context.Context, slot int) {
	if err := sh.sess.store.Save(ctx, slot, save.NewFile(sh.run, time.Now())); err != nil {
		sh.printf("Save failed: %v\n", err)
		return
	}
	sh.printf("Saved to slot %d.\n", slot)
}

func (sh *shell) load(ctx context.Context, slot int) {
	f, err := sh.sess.store.Load(ctx, slot)
	if err != nil {
		sh.printf("Load failed: %v\n", err)
		return
	}
	state, err := game.Restore(f.Snapshot, sh.sess.runCfg)
	if err != nil {
		sh.printf("Load failed: %v\n", err)
		return
	}
	sh.run = &state
	sh.last = ""
	sh.sess.logger.Info("run restored", "run", state.RunID, "slot", slot, "week", state.Week)
	sh.printf("Loaded slot %d.\n%s\n", slot, sh.banner())
}

func (sh *shell) banner() string {
	res := sh.run.ExecuteRunCommand("status")
	return res.Message
}

func (sh *shell) prompt() {
	sh.printf("> ")
}

func (sh *shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

func clarifyText(q *parser.ClarifyQuestion) string {
	if len(q.Options) == 0 {
		return q.Prompt
	}
	opts := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		opts = append(opts, parser.IntentToCommandString(opt))
	}
	return q.Prompt + " " + strings.Join(opts, " | ")
}

func slotArg(args []string, fallback int) int {
	if len(args) == 0 {
		return fallback
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fallback
	}
	return n
}
