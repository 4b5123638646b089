//go:build linux

package preview

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// netWMStateAdd is the _NET_WM_STATE client message action that sets a state.
const netWMStateAdd = 1

// ApplyKeepAbove asks the window manager to keep the active window above
// others through the EWMH _NET_WM_STATE_ABOVE state. It returns nil when no
// X server is reachable.
func ApplyKeepAbove() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		return nil
	}
	root := setup.Roots[0].Root

	window, err := activeWindow(conn, root)
	if err != nil || window == xproto.WindowNone {
		return err
	}
	state, err := internAtom(conn, "_NET_WM_STATE")
	if err != nil {
		return err
	}
	above, err := internAtom(conn, "_NET_WM_STATE_ABOVE")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   state,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{netWMStateAdd, uint32(above), 0, 1, 0}),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	return xproto.SendEventChecked(conn, false, root, mask, string(ev.Bytes())).Check()
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

// activeWindow returns _NET_ACTIVE_WINDOW, falling back to the input focus.
func activeWindow(conn *xgb.Conn, root xproto.Window) (xproto.Window, error) {
	if atom, err := internAtom(conn, "_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(conn, false, root, atom, xproto.AtomWindow, 0, 1).Reply()
		if err == nil && reply != nil && len(reply.Value) >= 4 {
			return xproto.Window(xgb.Get32(reply.Value)), nil
		}
	}
	focus, err := xproto.GetInputFocus(conn).Reply()
	if err != nil {
		return xproto.WindowNone, err
	}
	return focus.Focus, nil
}
