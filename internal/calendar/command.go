package calendar

import (
	"context"
	"fmt"
	"strings"

	"github.com/mithrel/calpad/pkg/api"
)

// CommandKind names a toolbar or popover action.
type CommandKind string

const (
	CmdToday        CommandKind = "today"
	CmdBack         CommandKind = "back"
	CmdNext         CommandKind = "next"
	CmdSetView      CommandKind = "set-view"
	CmdSave         CommandKind = "save"
	CmdDelete       CommandKind = "delete"
	CmdClosePopover CommandKind = "close-popover"
)

// Command is a navigation or popover command. View is only read by
// CmdSetView.
type Command struct {
	Kind CommandKind
	View api.View
}

// ParseCommand accepts "today", "back", "next", "save", "delete",
// "close-popover" and "set-view <view>" (or "set-view:<view>").
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	name, arg, _ := strings.Cut(strings.Replace(s, ":", " ", 1), " ")
	arg = strings.TrimSpace(arg)
	switch k := CommandKind(name); k {
	case CmdToday, CmdBack, CmdNext, CmdSave, CmdDelete, CmdClosePopover:
		if arg != "" {
			return Command{}, fmt.Errorf("command %q takes no argument", name)
		}
		return Command{Kind: k}, nil
	case CmdSetView:
		v, ok := api.ParseView(arg)
		if !ok {
			return Command{}, fmt.Errorf("unknown view %q", arg)
		}
		return Command{Kind: k, View: v}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", s)
}

// Dispatch runs cmd and reports whether it changed anything.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) bool {
	switch cmd.Kind {
	case CmdToday:
		c.Today()
	case CmdBack:
		c.Back()
	case CmdNext:
		c.Next()
	case CmdSetView:
		return c.SetView(ctx, cmd.View)
	case CmdSave:
		return c.Save(ctx)
	case CmdDelete:
		return c.Delete(ctx)
	case CmdClosePopover:
		c.ClosePopover()
	default:
		return false
	}
	return true
}
