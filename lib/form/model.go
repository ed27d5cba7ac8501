// Copyright 2026 The Cappa Authors
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akgerber/cappa/lib/command"
	"github.com/akgerber/cappa/lib/tui"
)

// FocusRegion identifies which part of the form has keyboard focus.
type FocusRegion int

const (
	// FocusFields is the argument list (the default region).
	FocusFields FocusRegion = iota

	// FocusTree is the command path sidebar. Only reachable when the
	// root command has subcommands.
	FocusTree

	// FocusFilter routes input to the filter bar.
	FocusFilter

	// FocusEditor routes input to the inline line editor.
	FocusEditor

	// FocusDropdown routes input to the choice dropdown overlay.
	FocusDropdown
)

// Layout constants. The header takes two lines (title and rule), and
// the footer takes the filter bar, preview, and key help.
const (
	headerHeight = 2
	footerHeight = 3
	treeMinWidth = 16
)

// commandPath is one selectable invocation path through the command
// tree: the command names from the root to a leaf and the collected
// schemas along the way.
type commandPath struct {
	names    []string
	commands []*command.Command
}

// Model is the top-level bubbletea model for the command form.
type Model struct {
	prog  string
	theme tui.Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int

	// Invocation paths through the command tree. A command without
	// subcommands has exactly one path and no sidebar.
	paths     []commandPath
	pathIndex int

	// Field state per path, built lazily so values entered on one
	// path survive switching away and back.
	fieldsByPath map[int][]*Field
	fields       []*Field

	focusRegion  FocusRegion
	priorFocus   FocusRegion // Saved focus when entering filter mode.
	cursor       int
	scrollOffset int

	filter   FilterModel
	editor   tui.LineEditor
	dropdown *tui.DropdownOverlay

	accepted bool
}

// New creates a form over a collected command schema. The program
// name seeds the invocation preview.
func New(cmd *command.Command, prog string) Model {
	model := Model{
		prog:         prog,
		theme:        tui.DefaultTheme,
		keys:         DefaultKeyMap,
		paths:        leafPaths(cmd),
		fieldsByPath: make(map[int][]*Field),
		width:        80,
		height:       24,
	}
	model.fields = model.fieldsFor(0)
	return model
}

// Accepted reports whether the user confirmed the form rather than
// quitting out of it.
func (m *Model) Accepted() bool {
	return m.accepted
}

// leafPaths flattens the command tree into selectable paths, one per
// leaf, preserving variant declaration order.
func leafPaths(cmd *command.Command) []commandPath {
	root := commandPath{
		names:    []string{cmd.Name},
		commands: []*command.Command{cmd},
	}
	if cmd.Sub == nil {
		return []commandPath{root}
	}

	var paths []commandPath
	for _, name := range cmd.Sub.Names {
		sub := cmd.Sub.Options[name]
		if sub.Hidden {
			continue
		}
		child := commandPath{
			names:    append(append([]string(nil), root.names...), name),
			commands: append(append([]*command.Command(nil), root.commands...), sub),
		}
		for _, nested := range leafPaths(sub) {
			merged := commandPath{
				names:    append(append([]string(nil), child.names...), nested.names[1:]...),
				commands: append(append([]*command.Command(nil), child.commands...), nested.commands[1:]...),
			}
			paths = append(paths, merged)
		}
	}
	if !cmd.Sub.Required {
		paths = append([]commandPath{root}, paths...)
	}
	return paths
}

// fieldsFor builds (or recalls) the field state for one path.
func (m *Model) fieldsFor(pathIndex int) []*Field {
	if fields, ok := m.fieldsByPath[pathIndex]; ok {
		return fields
	}
	var fields []*Field
	for level, cmd := range m.paths[pathIndex].commands {
		for _, arg := range cmd.Arguments {
			if arg.Hidden || arg.Action.IsMeta() {
				continue
			}
			fields = append(fields, fieldFor(arg, level))
		}
	}
	m.fieldsByPath[pathIndex] = fields
	return fields
}

// visibleFields applies the filter to the current path's fields.
func (m *Model) visibleFields() []*Field {
	if m.filter.Input == "" {
		return m.fields
	}
	var visible []*Field
	for _, field := range m.fields {
		if m.filter.MatchesArg(field.Arg) {
			visible = append(visible, field)
		}
	}
	return visible
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Routes keyboard events based on the
// current focus region.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if m.focusRegion == FocusFilter {
			return m.handleFilterKeys(message)
		}
		if m.focusRegion == FocusDropdown {
			return m.handleDropdownKeys(message)
		}
		if m.focusRegion == FocusEditor {
			return m.handleEditorKeys(message)
		}
		return m.handleListKeys(message)
	}
	return m, nil
}

// handleListKeys processes input when the field list or the command
// tree has focus.
func (m Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.Accept):
		m.accepted = true
		return m, tea.Quit

	case key.Matches(message, m.keys.FocusToggle):
		if len(m.paths) > 1 {
			if m.focusRegion == FocusTree {
				m.focusRegion = FocusFields
			} else {
				m.focusRegion = FocusTree
			}
		}

	case key.Matches(message, m.keys.FilterActivate):
		m.priorFocus = m.focusRegion
		m.focusRegion = FocusFilter
		m.filter.Active = true
		m.cursor = 0
		m.scrollOffset = 0

	case key.Matches(message, m.keys.FilterClear):
		m.filter.Clear()
		m.cursor = 0
		m.scrollOffset = 0

	case key.Matches(message, m.keys.Up):
		if m.focusRegion == FocusTree {
			m.selectPath(m.pathIndex - 1)
		} else {
			m.moveCursor(-1)
		}

	case key.Matches(message, m.keys.Down):
		if m.focusRegion == FocusTree {
			m.selectPath(m.pathIndex + 1)
		} else {
			m.moveCursor(1)
		}

	case key.Matches(message, m.keys.Home):
		if m.focusRegion == FocusFields {
			m.cursor = 0
			m.clampScroll()
		}

	case key.Matches(message, m.keys.End):
		if m.focusRegion == FocusFields {
			m.cursor = len(m.visibleFields()) - 1
			m.clampScroll()
		}

	case key.Matches(message, m.keys.Toggle):
		if field := m.selectedField(); field != nil {
			switch field.Kind {
			case ControlFlag:
				field.Enabled = !field.Enabled
			case ControlCount:
				field.Count++
			}
		}

	case key.Matches(message, m.keys.Clear):
		if field := m.selectedField(); field != nil {
			if field.Kind == ControlCount && field.Count > 1 {
				field.Count--
			} else if field.Kind == ControlList && len(field.Values) > 1 {
				field.Values = field.Values[:len(field.Values)-1]
			} else {
				field.Clear()
			}
		}

	case key.Matches(message, m.keys.Edit):
		return m.openControl()
	}
	return m, nil
}

// openControl activates the selected field's widget: flags toggle in
// place, choices open a dropdown, everything else opens the inline
// editor.
func (m Model) openControl() (tea.Model, tea.Cmd) {
	field := m.selectedField()
	if field == nil {
		return m, nil
	}

	switch field.Kind {
	case ControlFlag:
		field.Enabled = !field.Enabled

	case ControlCount:
		field.Count++

	case ControlChoice, ControlMulti:
		options := make([]tui.DropdownOption, len(field.Arg.Choices))
		checked := make([]bool, len(field.Arg.Choices))
		cursor := 0
		for i, choice := range field.Arg.Choices {
			options[i] = tui.DropdownOption{Label: choice, Value: choice}
			for _, set := range field.Values {
				if set == choice {
					checked[i] = true
					cursor = i
				}
			}
		}
		dropdown := &tui.DropdownOverlay{
			Options: options,
			Cursor:  cursor,
			AnchorX: m.fieldPaneLeft() + 2,
			AnchorY: headerHeight + m.cursor - m.scrollOffset + 1,
		}
		if field.Kind == ControlMulti {
			dropdown.Checked = checked
		}
		m.dropdown = dropdown
		m.focusRegion = FocusDropdown

	default:
		initial := ""
		if field.Kind == ControlText && len(field.Values) > 0 {
			initial = field.Values[0]
		}
		m.editor = tui.NewLineEditor(initial, m.theme)
		m.focusRegion = FocusEditor
	}
	return m, nil
}

// handleFilterKeys processes input while the filter bar has focus.
func (m Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		m.filter.Clear()
		m.focusRegion = m.priorFocus
		m.cursor = 0
		m.scrollOffset = 0
	case tea.KeyEnter:
		// Keep the filter text, return focus to the list.
		m.filter.Active = false
		m.focusRegion = m.priorFocus
	case tea.KeyBackspace:
		m.filter.HandleBackspace()
		m.cursor = 0
		m.scrollOffset = 0
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			m.filter.HandleRune(character)
		}
		if message.Type == tea.KeySpace {
			m.filter.HandleRune(' ')
		}
		m.cursor = 0
		m.scrollOffset = 0
	}
	return m, nil
}

// handleDropdownKeys processes input while a dropdown overlay is
// visible.
func (m Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.selectedField()
	switch message.Type {
	case tea.KeyEscape:
		m.dropdown = nil
		m.focusRegion = FocusFields

	case tea.KeyUp:
		m.dropdown.MoveUp()
	case tea.KeyDown:
		m.dropdown.MoveDown()

	case tea.KeySpace:
		if m.dropdown.Checked != nil {
			m.dropdown.Toggle()
		}

	case tea.KeyEnter:
		if field != nil {
			if m.dropdown.Checked != nil {
				field.Values = m.dropdown.CheckedValues()
			} else {
				field.Values = []string{m.dropdown.Selected().Value}
			}
		}
		m.dropdown = nil
		m.focusRegion = FocusFields

	case tea.KeyRunes:
		switch string(message.Runes) {
		case "k":
			m.dropdown.MoveUp()
		case "j":
			m.dropdown.MoveDown()
		}
	}
	return m, nil
}

// handleEditorKeys processes input while the inline editor is open.
func (m Model) handleEditorKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		m.focusRegion = FocusFields

	case tea.KeyEnter:
		value := m.editor.Value()
		if field := m.selectedField(); field != nil && value != "" {
			if field.Kind == ControlList {
				field.Values = append(field.Values, value)
			} else {
				field.Values = []string{value}
			}
		}
		m.focusRegion = FocusFields

	default:
		m.editor.Update(message)
	}
	return m, nil
}

// selectedField returns the field under the cursor, nil when the
// filtered list is empty.
func (m *Model) selectedField() *Field {
	visible := m.visibleFields()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return visible[m.cursor]
}

// selectPath switches the active command path, clamped to the list.
func (m *Model) selectPath(index int) {
	if index < 0 || index >= len(m.paths) {
		return
	}
	m.pathIndex = index
	m.fields = m.fieldsFor(index)
	m.cursor = 0
	m.scrollOffset = 0
}

func (m *Model) moveCursor(delta int) {
	visible := m.visibleFields()
	next := m.cursor + delta
	if next < 0 || next >= len(visible) {
		return
	}
	m.cursor = next
	m.clampScroll()
}

// fieldViewHeight is the number of field rows that fit on screen.
func (m *Model) fieldViewHeight() int {
	height := m.height - headerHeight - footerHeight
	if height < 1 {
		return 1
	}
	return height
}

func (m *Model) clampScroll() {
	visible := m.fieldViewHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// treeWidth is the sidebar width, zero when the command has a single
// invocation path.
func (m *Model) treeWidth() int {
	if len(m.paths) <= 1 {
		return 0
	}
	width := treeMinWidth
	for _, path := range m.paths {
		if label := len(pathLabel(path)) + 4; label > width {
			width = label
		}
	}
	if max := m.width / 3; width > max {
		width = max
	}
	return width
}

// fieldPaneLeft is the X coordinate where the field pane starts.
func (m *Model) fieldPaneLeft() int {
	if width := m.treeWidth(); width > 0 {
		return width + 1
	}
	return 0
}

// pathLabel renders a path for the sidebar: subcommand names joined
// by spaces, or "(root)" for the bare root command.
func pathLabel(path commandPath) string {
	if len(path.names) == 1 {
		return "(root)"
	}
	return strings.Join(path.names[1:], " ")
}

// View implements tea.Model.
func (m Model) View() string {
	header := m.viewHeader()
	body := m.viewBody()
	footer := m.viewFooter()

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.dropdown != nil {
		view = tui.SpliceOverlay(view, m.dropdown.Render(m.theme),
			m.dropdown.AnchorX, m.dropdown.AnchorY)
	}
	return view
}

// viewHeader renders the title line and a rule.
func (m Model) viewHeader() string {
	cmd := m.paths[m.pathIndex].commands[len(m.paths[m.pathIndex].commands)-1]
	title := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true).
		Render(" " + m.prog)
	if cmd.Help != "" {
		title += lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Render(" — " + cmd.Help)
	}
	rule := lipgloss.NewStyle().
		Foreground(m.theme.BorderColor).
		Render(strings.Repeat("─", max(m.width, 1)))
	return title + "\n" + rule
}

// viewBody renders the optional command tree beside the field list.
func (m Model) viewBody() string {
	fields := m.viewFields()
	treeWidth := m.treeWidth()
	if treeWidth == 0 {
		return fields
	}
	divider := lipgloss.NewStyle().
		Foreground(m.theme.BorderColor).
		Render(strings.Repeat("│\n", m.fieldViewHeight()-1) + "│")
	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewTree(treeWidth), divider, fields)
}

// viewTree renders the command path sidebar.
func (m Model) viewTree(width int) string {
	lines := make([]string, 0, m.fieldViewHeight())
	base := lipgloss.NewStyle().Width(width)
	for i, path := range m.paths {
		if i >= m.fieldViewHeight() {
			break
		}
		label := " " + pathLabel(path)
		style := base.Foreground(m.theme.NormalText)
		if i == m.pathIndex {
			style = base.
				Background(m.theme.SelectedBackground).
				Foreground(m.theme.SelectedForeground)
			if m.focusRegion == FocusTree {
				label = "▸" + label[1:]
			}
		}
		lines = append(lines, style.Render(label))
	}
	for len(lines) < m.fieldViewHeight() {
		lines = append(lines, base.Render(""))
	}
	return strings.Join(lines, "\n")
}

// viewFields renders the field list with a scrollbar when the list
// overflows.
func (m Model) viewFields() string {
	visible := m.visibleFields()
	viewHeight := m.fieldViewHeight()
	width := m.width - m.fieldPaneLeft() - 1

	lines := make([]string, 0, viewHeight)
	for row := 0; row < viewHeight; row++ {
		index := m.scrollOffset + row
		if index >= len(visible) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, m.viewFieldRow(visible[index], index == m.cursor, width))
	}

	body := strings.Join(lines, "\n")
	if len(visible) <= viewHeight {
		return body
	}
	scrollbar := tui.RenderScrollbar(m.theme, viewHeight, len(visible),
		viewHeight, m.scrollOffset, m.focusRegion == FocusFields)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, scrollbar)
}

// viewFieldRow renders one argument's row: name, required marker,
// current value, and help text.
func (m Model) viewFieldRow(field *Field, selected bool, width int) string {
	name := field.Arg.NamesString()
	nameStyle := lipgloss.NewStyle().Foreground(m.theme.FlagName)

	marker := "  "
	if selected && m.focusRegion != FocusTree {
		marker = "▸ "
	}

	var row strings.Builder
	row.WriteString(marker)
	row.WriteString(nameStyle.Render(name))
	if field.Arg.Required {
		row.WriteString(lipgloss.NewStyle().
			Foreground(m.theme.RequiredMarker).
			Render("*"))
	}

	if selected && m.focusRegion == FocusEditor {
		row.WriteString(" = ")
		row.WriteString(m.editor.View())
	} else if summary := field.Summary(); summary != "" {
		valueColor := m.theme.FilledValue
		if !field.Filled() {
			valueColor = m.theme.FaintText
		}
		row.WriteString(" = ")
		row.WriteString(lipgloss.NewStyle().
			Foreground(valueColor).
			Render(summary))
	}

	if field.Arg.Help != "" {
		row.WriteString(lipgloss.NewStyle().
			Foreground(m.theme.HelpText).
			Render("  " + field.Arg.Help))
	}

	line := row.String()
	style := lipgloss.NewStyle().MaxWidth(max(width, 1))
	if selected && m.focusRegion != FocusTree && m.focusRegion != FocusEditor {
		style = style.Background(m.theme.SelectedBackground)
	}
	return style.Render(line)
}

// viewFooter renders the filter bar, the live invocation preview,
// and the key help line.
func (m Model) viewFooter() string {
	filter := m.filter.View(m.theme, m.width)
	if filter == "" {
		filter = " "
	}

	preview := lipgloss.NewStyle().
		Foreground(m.theme.PreviewCommand).
		Render(" $ " + m.CommandLine())

	help := lipgloss.NewStyle().
		Foreground(m.theme.HelpText).
		Render(m.helpLine())

	return lipgloss.JoinVertical(lipgloss.Left, filter, preview, help)
}

// helpLine renders the footer key hints from the key map.
func (m Model) helpLine() string {
	bindings := []key.Binding{
		m.keys.Edit, m.keys.Toggle, m.keys.FilterActivate, m.keys.Accept, m.keys.Quit,
	}
	if len(m.paths) > 1 {
		bindings = append([]key.Binding{m.keys.FocusToggle}, bindings...)
	}
	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		help := binding.Help()
		parts[i] = help.Key + " " + help.Desc
	}
	return " " + strings.Join(parts, " · ")
}

// Run shows the form on the terminal and blocks until the user
// accepts or quits. Returns the composed argv tokens (excluding the
// program name) and whether the form was accepted.
func Run(cmd *command.Command, prog string) ([]string, bool, error) {
	program := tea.NewProgram(New(cmd, prog), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return nil, false, err
	}
	model := final.(Model)
	if !model.Accepted() {
		return nil, false, nil
	}
	return model.Argv()[1:], true, nil
}
