package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/and161185/task-keeper/internal/api"
)

var errUsage = errors.New("usage")

// app runs one subcommand against an established client.
type app struct {
	cli    *api.Client
	out    io.Writer
	stdin  *os.File
	prompt io.Writer
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := removeToken(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "ok")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "add":
		return a.add(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "rm":
		return a.rm(ctx, args)
	default:
		return errUsage
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) password(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	return promptPassword(a.stdin, a.prompt)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	user := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *email == "" {
		return errors.New("need -u and -e")
	}
	pw, err := a.password(*pass)
	if err != nil {
		return err
	}

	resp, err := a.cli.Register(ctx, &api.RegisterRequest{Username: *user, Email: *email, Password: pw})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.User.ID)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	ident := fs.String("u", "", "username or email")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ident == "" {
		return errors.New("need -u")
	}
	pw, err := a.password(*pass)
	if err != nil {
		return err
	}

	resp, err := a.cli.Login(ctx, &api.LoginRequest{Identifier: *ident, Password: pw})
	if err != nil {
		return err
	}
	if err := saveToken(tokenFile{AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt, Username: resp.User.Username}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ok")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	resp, err := a.cli.CheckAuth(ctx, &api.CheckAuthRequest{})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", resp.Username, resp.UserID)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	tf := bindTaskFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := tf.input()
	if err != nil {
		return err
	}

	resp, err := a.cli.CreateTask(ctx, &api.CreateTaskRequest{Task: in})
	if err != nil {
		return err
	}
	printJSON(a.out, resp.Task)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	lf := bindListFlags(fs)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.cli.ListTasks(ctx, lf.request())
	if err != nil {
		return err
	}
	if *asJSON {
		printJSON(a.out, resp.Tasks)
		return nil
	}
	return printTable(a.out, resp.Tasks)
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get")
	id := fs.String("id", "", "task id (uuid)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}

	resp, err := a.cli.GetTask(ctx, &api.GetTaskRequest{ID: *id})
	if err != nil {
		return err
	}
	printJSON(a.out, resp.Task)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := newFlagSet("edit")
	id := fs.String("id", "", "task id (uuid)")
	tf := bindTaskFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}
	in, err := tf.input()
	if err != nil {
		return err
	}

	resp, err := a.cli.UpdateTask(ctx, &api.UpdateTaskRequest{ID: *id, Task: in})
	if err != nil {
		return err
	}
	printJSON(a.out, resp.Task)
	return nil
}

func (a *app) rm(ctx context.Context, args []string) error {
	fs := newFlagSet("rm")
	id := fs.String("id", "", "task id (uuid)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("need -id")
	}

	if _, err := a.cli.DeleteTask(ctx, &api.DeleteTaskRequest{ID: *id}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted")
	return nil
}
