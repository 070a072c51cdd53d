package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DripjobsJeremy/workorders/internal/cli/formatter"
	"github.com/DripjobsJeremy/workorders/internal/domain"
	"github.com/DripjobsJeremy/workorders/internal/session"
)

// editorRow is one selectable line: an area header or a line item.
type editorRow struct {
	isArea bool
	areaID int64
	itemID int64
}

// editorView is the single main view: the whole document with a cursor,
// inline field edits, keyboard reorder, and the save/cancel flow.
type editorView struct {
	state  *SharedState
	cursor int

	// editBuf backs the active field form; read by the done callback.
	editBuf string

	// moveActive is set while a reorder gesture is in progress; the
	// next non-move key settles it and commits the new order.
	moveActive bool
}

func newEditorView(state *SharedState) *editorView {
	return &editorView{state: state}
}

func (v *editorView) ID() ViewID { return ViewEditor }

func (v *editorView) Title() string {
	if doc := v.state.Session.Document(); doc != nil {
		return fmt.Sprintf("Work Order #%d", doc.ID)
	}
	return "Work Order"
}

func (v *editorView) ShortHelp() []key.Binding {
	if v.state.Session.State() == session.Viewing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "collapse")),
			key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
			key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("p", "w", "u", "c"), key.WithHelp("p/w/u/c", "edit field")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "rename area")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("J", "K"), key.WithHelp("J/K", "move")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *editorView) Init() tea.Cmd { return nil }

// rows flattens the document into the current presentation order,
// honoring collapsed areas.
func (v *editorView) rows() []editorRow {
	doc := v.state.Session.Document()
	if doc == nil {
		return nil
	}
	var rows []editorRow
	for _, a := range doc.Areas {
		rows = append(rows, editorRow{isArea: true, areaID: a.ID})
		if v.state.Session.Collapsed(a.ID) {
			continue
		}
		for _, li := range a.LineItems {
			rows = append(rows, editorRow{areaID: a.ID, itemID: li.ID})
		}
	}
	return rows
}

func (v *editorView) currentRow() (editorRow, bool) {
	rows := v.rows()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return editorRow{}, false
	}
	return rows[v.cursor], true
}

func (v *editorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	sess := v.state.Session
	k := keyMsg.String()

	// A move gesture settles on the first non-move key.
	var settle tea.Cmd
	if v.moveActive && k != "J" && k != "K" {
		v.moveActive = false
		settle = v.state.Dispatch(session.CommitReorder{})
	}

	switch k {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows())-1 {
			v.cursor++
		}

	case "e":
		return v, tea.Batch(settle, v.state.Dispatch(session.EnterEdit{}))

	case "r":
		return v, tea.Batch(settle, v.state.Dispatch(session.Reload{}))

	case "enter", "space":
		if row, ok := v.currentRow(); ok && row.isArea {
			sess.ToggleCollapse(row.areaID)
		}

	case "J", "K":
		return v, v.move(k == "J")

	case "p":
		return v, tea.Batch(settle, v.editField(domain.FieldPrepHours))
	case "w":
		return v, tea.Batch(settle, v.editField(domain.FieldWorkingHours))
	case "u":
		return v, tea.Batch(settle, v.editField(domain.FieldUnit))
	case "c":
		return v, tea.Batch(settle, v.editField(domain.FieldCoats))

	case "n":
		return v, tea.Batch(settle, v.renameArea())

	case "d":
		return v, tea.Batch(settle, v.deleteItem())

	case "s":
		if sess.State() == session.Editing {
			return v, tea.Batch(settle, v.state.Dispatch(session.SaveAll{}))
		}

	case "esc":
		if sess.State() == session.Editing {
			return v, tea.Batch(settle, v.cancelEdit())
		}

	case "q", "ctrl+c":
		return v, tea.Batch(settle, v.quit())
	}

	return v, settle
}

func (v *editorView) move(down bool) tea.Cmd {
	if v.state.Session.State() != session.Editing {
		return nil
	}
	row, ok := v.currentRow()
	if !ok {
		return nil
	}
	dir := session.MoveUp
	if down {
		dir = session.MoveDown
	}
	var cmd tea.Cmd
	if row.isArea {
		cmd = v.state.Dispatch(session.MoveArea{AreaID: row.areaID, Dir: dir})
	} else {
		cmd = v.state.Dispatch(session.MoveLineItem{ItemID: row.itemID, Dir: dir})
	}
	v.moveActive = true
	// Keep the cursor on the moved row.
	v.followRow(row)
	return cmd
}

// followRow moves the cursor to wherever the given row ended up.
func (v *editorView) followRow(target editorRow) {
	for i, row := range v.rows() {
		if row.isArea == target.isArea && row.areaID == target.areaID && row.itemID == target.itemID {
			v.cursor = i
			return
		}
	}
}

func (v *editorView) editField(field domain.Field) tea.Cmd {
	if v.state.Session.State() != session.Editing {
		return nil
	}
	row, ok := v.currentRow()
	if !ok || row.isArea {
		return nil
	}
	doc := v.state.Session.Document()
	_, li := doc.FindLineItem(row.itemID)
	if li == nil || li.IsDeleted {
		return nil
	}

	v.editBuf = li.FieldValue(field)
	itemID := row.itemID
	form := fieldForm(field, li.ItemName, &v.editBuf)
	fv := newFormView(v.state, fieldTitle(field), form, func() tea.Cmd {
		return v.state.Dispatch(session.EditField{ItemID: itemID, Field: field, Raw: v.editBuf})
	})
	return pushView(fv)
}

func (v *editorView) renameArea() tea.Cmd {
	if v.state.Session.State() != session.Editing {
		return nil
	}
	row, ok := v.currentRow()
	if !ok {
		return nil
	}
	area := v.state.Session.Document().FindArea(row.areaID)
	if area == nil {
		return nil
	}

	areaID := area.ID
	form := areaNameForm(area.DisplayName(), &v.editBuf)
	fv := newFormView(v.state, "Rename area", form, func() tea.Cmd {
		return v.state.Dispatch(session.RenameArea{AreaID: areaID, Name: v.editBuf})
	})
	return pushView(fv)
}

func (v *editorView) deleteItem() tea.Cmd {
	if v.state.Session.State() != session.Editing {
		return nil
	}
	row, ok := v.currentRow()
	if !ok || row.isArea {
		return nil
	}
	_, li := v.state.Session.Document().FindLineItem(row.itemID)
	if li == nil || li.IsDeleted {
		return nil
	}

	requestCmd := v.state.Dispatch(session.RequestDelete{ItemID: row.itemID})
	confirmed := false
	form := confirmForm(fmt.Sprintf("Delete %q?", li.ItemName), &confirmed)
	cv := newConfirmView(v.state, "Delete line item", form, func() tea.Cmd {
		if confirmed {
			return v.state.Dispatch(session.ConfirmDelete{})
		}
		return v.state.Dispatch(session.DismissDelete{})
	})
	return tea.Batch(requestCmd, pushView(cv))
}

func (v *editorView) cancelEdit() tea.Cmd {
	if !v.state.Session.Dirty() {
		return v.state.Dispatch(session.CancelEdit{})
	}
	confirmed := false
	form := confirmForm("Discard unsaved changes?", &confirmed)
	cv := newConfirmView(v.state, "Cancel editing", form, func() tea.Cmd {
		if confirmed {
			return v.state.Dispatch(session.CancelEdit{})
		}
		return nil
	})
	return pushView(cv)
}

func (v *editorView) quit() tea.Cmd {
	if !v.state.Session.Dirty() {
		return requestQuit
	}
	confirmed := false
	form := confirmForm("Quit with unsaved changes?", &confirmed)
	cv := newConfirmView(v.state, "Quit", form, func() tea.Cmd {
		if confirmed {
			return requestQuit
		}
		return nil
	})
	return pushView(cv)
}

func fieldTitle(field domain.Field) string {
	switch field {
	case domain.FieldPrepHours:
		return "Prep hours"
	case domain.FieldWorkingHours:
		return "Working hours"
	case domain.FieldCoats:
		return "Coats"
	default:
		return "Unit"
	}
}

func (v *editorView) View() string {
	sess := v.state.Session
	doc := sess.Document()
	if doc == nil {
		return formatter.Dim("Loading…")
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(formatter.Header(doc)))
	b.WriteString("\n")

	rows := v.rows()
	for i, row := range rows {
		line := v.renderRow(row)
		if i == v.cursor {
			line = formatter.StyleBold.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatter.StyleBlue.Render(formatter.TotalsLine("Grand totals:", sess.GrandTotals())))
	return b.String()
}

func (v *editorView) renderRow(row editorRow) string {
	sess := v.state.Session
	doc := sess.Document()
	if row.isArea {
		a := doc.FindArea(row.areaID)
		if a == nil {
			return ""
		}
		marker := "▾"
		if sess.Collapsed(a.ID) {
			marker = "▸"
		}
		totals := sess.AreaTotals(a.ID)
		return fmt.Sprintf("%s %s  %s", marker,
			formatter.StyleHeader.Render(a.DisplayName()),
			formatter.Dim(fmt.Sprintf("(%s h)", formatter.Hours(totals.TotalHours))))
	}
	_, li := doc.FindLineItem(row.itemID)
	if li == nil {
		return ""
	}
	line := formatter.LineItemRow(li)
	if li.IsDeleted {
		return formatter.Dim(line)
	}
	return line
}
