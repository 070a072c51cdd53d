package cli

import (
	"testing"

	"github.com/DripjobsJeremy/workorders/internal/session"
	"github.com/DripjobsJeremy/workorders/internal/teatest"
	"github.com/DripjobsJeremy/workorders/internal/testutil"
)

// TestDriver wraps teatest.Driver with editor-specific inspection
// methods: the view stack, the session, and the status line.
type TestDriver struct {
	*teatest.Driver
	Gateway *testutil.FakeGateway
}

// NewTestDriver builds an appModel over a fake gateway, sets terminal
// size, and drains Init (which loads the fixture document).
func NewTestDriver(t *testing.T) *TestDriver {
	t.Helper()

	fake := testutil.NewFakeGateway()
	sess := session.New(fake, 42)
	d := teatest.New(t, newAppModel(sess), teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, Gateway: fake}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// Session returns the session under test.
func (d *TestDriver) Session() *session.Session {
	return d.appModel().state.Session
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Status returns the current status line text.
func (d *TestDriver) Status() string {
	return d.appModel().status
}
