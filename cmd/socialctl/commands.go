package main

import (
	"context"
	"fmt"
	"io"
	"social-lab/domain"
	"social-lab/infrastructure/storage/badgerdb"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

const usage = `usage: socialctl <command> [arguments]

  indexes                       create the unique username index
  inspect users <term>          list users whose username contains term
  inspect messages              list every message, flagged ones censored
  moderate                      flag messages containing censored words
  register <username> <password>
  login <username> <password>   print a fresh session token
  post <text>                   save a broadcast message
  dm <fromID> <toID> <text>     send a direct message
  flag <id>                     flag a message
  serve-inspect                 browse the Badger store over HTTP (badger only)`

var errUsage = fmt.Errorf("bad arguments\n%s", usage)

type command struct {
	args int
	// variadic commands accept more than args and join the tail
	variadic bool
	run      func(ctx context.Context, a *app, args []string, out io.Writer) error
}

var commands = map[string]command{
	"indexes":       {args: 0, run: runIndexes},
	"inspect":       {args: 1, variadic: true, run: runInspect},
	"moderate":      {args: 0, run: runModerate},
	"register":      {args: 2, run: runRegister},
	"login":         {args: 2, run: runLogin},
	"post":          {args: 1, variadic: true, run: runPost},
	"dm":            {args: 3, variadic: true, run: runDirectMessage},
	"flag":          {args: 1, run: runFlag},
	"serve-inspect": {args: 0, run: runServeInspect},
}

func dispatch(ctx context.Context, a *app, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	rest := args[1:]
	if len(rest) < cmd.args || (!cmd.variadic && len(rest) > cmd.args) {
		return errUsage
	}
	return cmd.run(ctx, a, rest, out)
}

func runIndexes(ctx context.Context, a *app, _ []string, out io.Writer) error {
	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "indexes ready on %q\n", a.config.AuthCollection)
	return err
}

func runInspect(ctx context.Context, a *app, args []string, out io.Writer) error {
	switch args[0] {
	case "users":
		if len(args) != 2 {
			return errUsage
		}
		users, err := a.users.SearchUsers(ctx, args[1])
		if err != nil {
			return err
		}
		renderUsers(out, users)
		return nil
	case "messages":
		if len(args) != 1 {
			return errUsage
		}
		messages, err := a.messages.GetAll(ctx)
		if err != nil {
			return err
		}
		renderMessages(out, messages, a.censor)
		return nil
	default:
		return errUsage
	}
}

func runModerate(ctx context.Context, a *app, _ []string, out io.Writer) error {
	report, err := a.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "scanned %d, already flagged %d, newly flagged %d\n",
		report.Scanned, report.AlreadyFlagged, len(report.Flagged))
	for _, id := range report.Flagged {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return err
}

func runRegister(ctx context.Context, a *app, args []string, out io.Writer) error {
	user, err := a.auth.Register(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "registered %s\nid    %s\ntoken %s\n", user.Username, user.ID, user.Token)
	return err
}

func runLogin(ctx context.Context, a *app, args []string, out io.Writer) error {
	token, err := a.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func runPost(ctx context.Context, a *app, args []string, out io.Writer) error {
	message, err := a.messages.Save(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, message.ID)
	return err
}

func runDirectMessage(ctx context.Context, a *app, args []string, out io.Writer) error {
	message, err := a.users.NewMessage(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, message.ID)
	return err
}

func runFlag(ctx context.Context, a *app, args []string, out io.Writer) error {
	if err := a.messages.Flag(ctx, args[0]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "flagged %s\n", args[0])
	return err
}

// runServeInspect blocks until ctx is cancelled.
func runServeInspect(ctx context.Context, a *app, _ []string, out io.Writer) error {
	if a.badger == nil {
		return fmt.Errorf("serve-inspect needs STORAGE_BACKEND=badger")
	}
	db, err := a.badger.DB()
	if err != nil {
		return err
	}
	endpoint := "/inspect"
	database.StartDebugServer(db, a.config.DebugPort, endpoint, badgerdb.InspectMapper)
	fmt.Fprintf(out, "Badger inspector at http://localhost:%d%s\n", a.config.DebugPort, endpoint)
	<-ctx.Done()
	return nil
}

// censor hides flagged text in listings.
func (a *app) censor(m domain.Message) string {
	if !m.Flag {
		return m.Message
	}
	censored, _ := a.moderator.Censor(m.Message)
	return censored
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func renderUsers(out io.Writer, users []domain.User) {
	table := newTable(out, []string{"#", "ID", "Username"})
	for i, u := range users {
		table.Append([]string{strconv.Itoa(i + 1), u.ID, u.Username})
	}
	table.Render()
}

func renderMessages(out io.Writer, messages []domain.Message, text func(domain.Message) string) {
	flagged := color.New(color.BgBlack, color.FgRed)
	table := newTable(out, []string{"ID", "From", "To", "Message", "Flag"})
	for _, m := range messages {
		state := ""
		if m.Flag {
			state = flagged.Render("flagged")
		}
		table.Append([]string{m.ID, m.From, m.To, text(m), state})
	}
	table.Render()
}
