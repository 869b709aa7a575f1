// Package desktop connects navguard to SDL applications.
//
// It provides a native message box confirmation policy and a Bridge that turns SDL
// quit and back-button events into close attempts and history moves.
package desktop

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
	"github.com/BrandonKowalski/navguard/pkg/navguard/constants"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	buttonStay int32 = iota
	buttonLeave
)

// MessageBoxPolicy asks with a native SDL message box. It blocks until answered.
// Enter and Escape both choose "stay".
type MessageBoxPolicy struct {
	Window     *sdl.Window // Parent window, may be nil
	Title      string      // Dialog title (default: "Leave activity")
	LeaveLabel string      // Default: "Leave"
	StayLabel  string      // Default: "Stay"
}

// Confirm implements navguard.Policy.
func (p MessageBoxPolicy) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return showChoice(p.Window, orDefault(p.Title, "Leave activity"), message,
		orDefault(p.LeaveLabel, "Leave"), orDefault(p.StayLabel, "Stay"))
}

// showNativeCloseWarning shows the generic close warning and reports whether the user
// still wants to close.
func showNativeCloseWarning(window *sdl.Window) (bool, error) {
	return showChoice(window, "", constants.NativeCloseWarning, "Leave", "Stay")
}

func showChoice(window *sdl.Window, title, message, leave, stay string) (bool, error) {
	buttons := []sdl.MessageBoxButtonData{
		{
			Flags:    sdl.MESSAGEBOX_BUTTON_RETURNKEY_DEFAULT | sdl.MESSAGEBOX_BUTTON_ESCAPEKEY_DEFAULT,
			ButtonID: buttonStay,
			Text:     stay,
		},
		{
			ButtonID: buttonLeave,
			Text:     leave,
		},
	}

	id, err := sdl.ShowMessageBox(&sdl.MessageBoxData{
		Flags:      sdl.MESSAGEBOX_WARNING,
		Window:     window,
		Title:      title,
		Message:    message,
		NumButtons: int32(len(buttons)),
		Buttons:    buttons,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", navguard.ErrPromptUnavailable, err)
	}
	return id == buttonLeave, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

var _ navguard.Policy = MessageBoxPolicy{}
