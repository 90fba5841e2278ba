package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/editor"
	"github.com/alexanderramin/itinera/internal/export"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/service"
)

type rowKind int

const (
	rowDay rowKind = iota
	rowActivity
	rowAlternative
	rowEvent
)

// editorRow is one line of the flattened itinerary. Pool rows point at the
// activity (alternatives) or day (events) that owns the pool.
type editorRow struct {
	kind rowKind
	day  int
	act  int
	item int
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeEditText
	modeEditTimes
	modeRenameDay
	modeAddActivity
	modeRefine
)

// carried is the element picked up by a drag gesture.
type carried struct {
	payload itinerary.PayloadKind
	source  itinerary.ContainerRef
	index   int
	label   string
}

type alternativesLoadedMsg struct {
	activityID string
	items      []domain.PoolItem
}

type eventsLoadedMsg struct {
	dayID  string
	events []domain.Event
	err    error
}

type refinedMsg struct {
	text string
	err  error
}

type savedMsg struct {
	trip *domain.Trip
	err  error
}

type editorKeyMap struct {
	Up, Down     key.Binding
	Carry        key.Binding
	Cancel       key.Binding
	Edit         key.Binding
	Times        key.Binding
	Add          key.Binding
	AddDay       key.Binding
	Delete       key.Binding
	Alternatives key.Binding
	Events       key.Binding
	Refine       key.Binding
	Undo, Redo   key.Binding
	Save         key.Binding
	Quit         key.Binding
}

func defaultEditorKeys() editorKeyMap {
	return editorKeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Carry:        key.NewBinding(key.WithKeys(" ", "space", "m"), key.WithHelp("space/m", "pick up/drop")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Edit:         key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("e", "edit")),
		Times:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "times")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add activity")),
		AddDay:       key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add day")),
		Delete:       key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Alternatives: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "alternatives")),
		Events:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "events")),
		Refine:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refine")),
		Undo:         key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:         key.NewBinding(key.WithKeys("ctrl+r", "ctrl+y"), key.WithHelp("ctrl+r", "redo")),
		Save:         key.NewBinding(key.WithKeys("w", "ctrl+s"), key.WithHelp("w", "save")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Carry, k.Edit, k.Times, k.Add, k.AddDay, k.Delete, k.Alternatives, k.Events, k.Refine, k.Undo, k.Redo, k.Save, k.Quit}
}

// editorModel is the interactive itinerary editor. All itinerary changes go
// through the session so every edit lands on the undo history.
type editorModel struct {
	app     *App
	trip    *domain.Trip
	session *editor.Session
	keys    editorKeyMap

	cursor    int
	carrying  *carried
	eventsFor string // day id whose events pool is visible

	mode  inputMode
	input textinput.Model

	status      string
	err         error
	confirmQuit bool
	width       int
}

func newEditorModel(app *App, t *domain.Trip) *editorModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 300

	return &editorModel{
		app:     app,
		trip:    t,
		session: editor.NewSession(t.Itinerary),
		keys:    defaultEditorKeys(),
		input:   ti,
	}
}

func (m *editorModel) Init() tea.Cmd { return nil }

// rows flattens the current itinerary and visible pools into cursor rows.
func (m *editorModel) rows() []editorRow {
	it := m.session.Itinerary()
	view := m.session.View()
	pools := m.session.Pools()

	var rows []editorRow
	for di, d := range it.Days {
		rows = append(rows, editorRow{kind: rowDay, day: di})
		for ai, a := range d.Activities {
			rows = append(rows, editorRow{kind: rowActivity, day: di, act: ai})
			if view.AlternativesFor == a.ID {
				for k := range pools.Alternatives[a.ID] {
					rows = append(rows, editorRow{kind: rowAlternative, day: di, act: ai, item: k})
				}
			}
		}
		if m.eventsFor == d.ID {
			for k := range pools.Events[d.ID] {
				rows = append(rows, editorRow{kind: rowEvent, day: di, item: k})
			}
		}
	}
	return rows
}

func (m *editorModel) current() (editorRow, bool) {
	rows := m.rows()
	if len(rows) == 0 {
		return editorRow{}, false
	}
	m.cursor = clampInt(m.cursor, 0, len(rows)-1)
	return rows[m.cursor], true
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case alternativesLoadedMsg:
		m.session.EndRequest()
		if di, _ := m.session.Itinerary().FindActivity(msg.activityID); di < 0 {
			m.status = "Activity was removed before suggestions arrived."
			return m, nil
		}
		m.session.SetAlternatives(msg.activityID, msg.items)
		m.status = fmt.Sprintf("%d alternatives. Pick one up to copy it into a day.", len(msg.items))
		return m, nil

	case eventsLoadedMsg:
		m.session.EndRequest()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]domain.PoolItem, len(msg.events))
		for i, e := range msg.events {
			items[i] = e.PoolItem()
		}
		m.session.SetEvents(msg.dayID, items)
		m.eventsFor = msg.dayID
		m.status = fmt.Sprintf("%d events found.", len(items))
		return m, nil

	case refinedMsg:
		m.session.EndRequest()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if err := m.session.RefineFromText(msg.text); err != nil {
			m.err = err
			return m, nil
		}
		m.eventsFor = ""
		m.status = "Itinerary refined (u to undo)."
		return m, nil

	case savedMsg:
		m.session.EndRequest()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.trip = msg.trip
		m.session.MarkSaved()
		m.status = "Saved."
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}
	it := m.session.Itinerary()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session.View().Dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "Unsaved changes. Press w to save or q again to quit."
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Carry):
		if m.carrying != nil {
			m.drop()
		} else {
			m.pickUp()
		}

	case key.Matches(msg, m.keys.Cancel):
		switch {
		case m.carrying != nil:
			m.dropAt(nil, 0)
		case m.eventsFor != "":
			m.eventsFor = ""
		case m.session.View().AlternativesFor != "":
			m.session.HideAlternatives()
		}

	case key.Matches(msg, m.keys.Undo):
		if m.session.Undo() {
			m.status = "Undone."
		} else {
			m.status = "Nothing to undo."
		}

	case key.Matches(msg, m.keys.Redo):
		if m.session.Redo() {
			m.status = "Redone."
		} else {
			m.status = "Nothing to redo."
		}

	case key.Matches(msg, m.keys.AddDay):
		m.session.Apply(itinerary.AddDayCmd{})
		m.cursor = m.rowIndex(func(r editorRow) bool {
			return r.kind == rowDay && r.day == len(m.session.Itinerary().Days)-1
		})
		m.status = "Day added."

	case key.Matches(msg, m.keys.Save):
		return m, m.save()

	case key.Matches(msg, m.keys.Refine):
		if m.app.Refiner == nil {
			m.err = service.ErrLLMDisabled
			return m, nil
		}
		return m, m.startInput(modeRefine, "", "Describe the change, e.g. \"make day 2 more relaxed\"")
	}

	row, ok := m.current()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		switch row.kind {
		case rowDay:
			return m, m.startInput(modeRenameDay, it.Days[row.day].Title, "Day title")
		case rowActivity:
			a := it.Days[row.day].Activities[row.act]
			m.session.StartEditing(a.ID)
			return m, m.startInput(modeEditText, a.Text, "Activity")
		}

	case key.Matches(msg, m.keys.Times):
		if row.kind == rowActivity {
			a := it.Days[row.day].Activities[row.act]
			m.session.StartEditing(a.ID)
			value := ""
			if a.Start != "" || a.End != "" {
				value = a.Start + "-" + a.End
			}
			return m, m.startInput(modeEditTimes, value, "HH:MM-HH:MM, blank clears")
		}

	case key.Matches(msg, m.keys.Add):
		return m, m.startInput(modeAddActivity, "", "New activity for "+it.Days[row.day].Title)

	case key.Matches(msg, m.keys.Delete):
		d := it.Days[row.day]
		switch row.kind {
		case rowDay:
			m.session.Apply(itinerary.DeleteDayCmd{DayID: d.ID})
			m.status = "Deleted " + d.Title + "."
		case rowActivity:
			m.session.Apply(itinerary.DeleteActivityCmd{DayID: d.ID, ActivityID: d.Activities[row.act].ID})
			m.status = "Activity deleted."
		}

	case key.Matches(msg, m.keys.Alternatives):
		if row.kind == rowActivity || row.kind == rowAlternative {
			return m, m.fetchAlternatives(it.Days[row.day], it.Days[row.day].Activities[row.act])
		}

	case key.Matches(msg, m.keys.Events):
		return m, m.fetchEvents(row.day)
	}
	return m, nil
}

// pickUp starts a drag gesture from the row under the cursor.
func (m *editorModel) pickUp() {
	row, ok := m.current()
	if !ok {
		return
	}
	it := m.session.Itinerary()
	pools := m.session.Pools()
	d := it.Days[row.day]

	switch row.kind {
	case rowDay:
		m.carrying = &carried{payload: itinerary.PayloadDays, source: itinerary.DaysRef(), index: row.day, label: d.Title}
	case rowActivity:
		m.carrying = &carried{payload: itinerary.PayloadActivities, source: itinerary.DayRef(d.ID), index: row.act, label: d.Activities[row.act].Text}
	case rowAlternative:
		src := itinerary.AlternativesRef(d.Activities[row.act].ID)
		item, _ := pools.Item(src, row.item)
		m.carrying = &carried{payload: itinerary.PayloadActivities, source: src, index: row.item, label: item.Text}
	case rowEvent:
		src := itinerary.EventsRef(d.ID)
		item, _ := pools.Item(src, row.item)
		m.carrying = &carried{payload: itinerary.PayloadActivities, source: src, index: row.item, label: item.Text}
	}
	m.status = fmt.Sprintf("Carrying %q. Move and press space to drop, esc to cancel.", m.carrying.label)
}

// drop completes the gesture at the row under the cursor.
func (m *editorModel) drop() {
	row, ok := m.current()
	if !ok {
		m.dropAt(nil, 0)
		return
	}
	it := m.session.Itinerary()
	d := it.Days[row.day]

	if m.carrying.payload == itinerary.PayloadDays {
		dst := itinerary.DaysRef()
		m.dropAt(&dst, row.day)
		return
	}
	switch row.kind {
	case rowDay:
		dst := itinerary.DayRef(d.ID)
		m.dropAt(&dst, 0)
	case rowActivity:
		dst := itinerary.DayRef(d.ID)
		m.dropAt(&dst, row.act)
	case rowAlternative:
		dst := itinerary.AlternativesRef(d.Activities[row.act].ID)
		m.dropAt(&dst, row.item)
	case rowEvent:
		dst := itinerary.EventsRef(d.ID)
		m.dropAt(&dst, row.item)
	}
}

func (m *editorModel) dropAt(dst *itinerary.ContainerRef, index int) {
	ev := itinerary.DragEvent{
		Payload:          m.carrying.payload,
		Source:           m.carrying.source,
		SourceIndex:      m.carrying.index,
		Destination:      dst,
		DestinationIndex: index,
	}
	m.carrying = nil
	if m.session.Drop(ev) {
		m.status = "Moved."
		return
	}
	if dst == nil {
		m.status = "Cancelled."
		return
	}
	m.status = "Nothing changed."
}

func (m *editorModel) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *editorModel) stopInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
	m.session.StopEditing()
}

func (m *editorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		m.status = "Cancelled."
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		row, ok := m.current()
		m.stopInput()
		if mode == modeRefine {
			return m, m.refine(value)
		}
		if !ok {
			return m, nil
		}
		m.commitInput(mode, row, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *editorModel) commitInput(mode inputMode, row editorRow, value string) {
	it := m.session.Itinerary()
	d := it.Days[row.day]

	switch mode {
	case modeRenameDay:
		if value != "" && m.session.Apply(itinerary.RenameDayCmd{DayID: d.ID, Title: value}) {
			m.status = "Day renamed."
		}
	case modeAddActivity:
		if value == "" {
			return
		}
		m.session.Apply(itinerary.AddActivityCmd{DayID: d.ID, Text: value})
		last := len(m.session.Itinerary().Days[row.day].Activities) - 1
		m.cursor = m.rowIndex(func(r editorRow) bool {
			return r.kind == rowActivity && r.day == row.day && r.act == last
		})
		m.status = "Activity added."
	case modeEditText:
		if row.kind != rowActivity || value == "" {
			return
		}
		if m.session.Apply(itinerary.EditActivityCmd{
			DayID:      d.ID,
			ActivityID: d.Activities[row.act].ID,
			Patch:      itinerary.ActivityPatch{Text: &value},
		}) {
			m.status = "Activity updated."
		}
	case modeEditTimes:
		if row.kind != rowActivity {
			return
		}
		start, end, err := parseTimeRange(value)
		if err != nil {
			m.err = err
			return
		}
		if m.session.Apply(itinerary.EditActivityCmd{
			DayID:      d.ID,
			ActivityID: d.Activities[row.act].ID,
			Patch:      itinerary.ActivityPatch{Start: &start, End: &end},
		}) {
			m.status = "Times updated."
		}
	}
}

// parseTimeRange reads "HH:MM-HH:MM", "HH:MM" or "" (clears both).
func parseTimeRange(s string) (string, string, error) {
	start, end, _ := strings.Cut(strings.ReplaceAll(s, " ", ""), "-")
	for _, v := range []string{start, end} {
		if v != "" && !domain.ValidClock(v) {
			return "", "", fmt.Errorf("time %q must be HH:MM", v)
		}
	}
	return start, end, nil
}

func (m *editorModel) fetchAlternatives(d domain.Day, a domain.Activity) tea.Cmd {
	if err := m.session.BeginRequest("alternatives"); err != nil {
		m.err = err
		return nil
	}
	alts := m.app.Alternatives
	if alts == nil {
		alts = intelligence.NewAlternativesService(nil)
	}
	m.status = "Finding alternatives..."
	return func() tea.Msg {
		return alternativesLoadedMsg{activityID: a.ID, items: alts.Suggest(context.Background(), a, d.Title)}
	}
}

func (m *editorModel) fetchEvents(dayIndex int) tea.Cmd {
	if m.app.Events == nil {
		m.err = service.ErrLLMDisabled
		return nil
	}
	if err := m.session.BeginRequest("events"); err != nil {
		m.err = err
		return nil
	}
	d := m.session.Itinerary().Days[dayIndex]
	q := intelligence.EventQuery{Location: eventLocation(m.trip, d)}
	if date := m.trip.DayDate(dayIndex); date != nil {
		q.Date = date.Format("2006-01-02")
	}
	events := m.app.Events
	m.status = "Looking for events..."
	return func() tea.Msg {
		found, err := events.Suggest(context.Background(), q)
		return eventsLoadedMsg{dayID: d.ID, events: found, err: err}
	}
}

// eventLocation guesses where a day takes place: the first attached place,
// then the day title, then the trip's first city or country.
func eventLocation(t *domain.Trip, d domain.Day) string {
	for _, a := range d.Activities {
		if a.Place != nil && a.Place.Name != "" {
			return a.Place.Name
		}
	}
	var fallback string
	if len(t.Prefs.PrioritizedCities) > 0 {
		fallback = t.Prefs.PrioritizedCities[0]
	} else if len(t.Prefs.Countries) > 0 {
		fallback = t.Prefs.Countries[0]
	}
	return domain.CoalesceStr(d.Title, fallback)
}

func (m *editorModel) refine(request string) tea.Cmd {
	if request == "" {
		return nil
	}
	if err := m.session.BeginRequest("refine"); err != nil {
		m.err = err
		return nil
	}
	current := itinerary.Render(m.session.Itinerary())
	refiner := m.app.Refiner
	m.status = "Refining..."
	return func() tea.Msg {
		text, err := refiner.Refine(context.Background(), current, request)
		return refinedMsg{text: text, err: err}
	}
}

func (m *editorModel) save() tea.Cmd {
	if err := m.session.BeginRequest("save"); err != nil {
		m.err = err
		return nil
	}
	trips := m.app.Trips
	id := m.trip.ID
	it := m.session.Itinerary()
	m.status = "Saving..."
	return func() tea.Msg {
		t, err := trips.SaveItinerary(context.Background(), id, it)
		return savedMsg{trip: t, err: err}
	}
}

func (m *editorModel) rowIndex(match func(editorRow) bool) int {
	for i, r := range m.rows() {
		if match(r) {
			return i
		}
	}
	return m.cursor
}

var (
	cursorStyle  = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	carriedStyle = lipgloss.NewStyle().Foreground(formatter.ColorYellow).Italic(true)
	poolStyle    = lipgloss.NewStyle().Foreground(formatter.ColorPurple)
)

func (m *editorModel) View() string {
	var b strings.Builder
	title := m.trip.Name
	if m.session.View().Dirty {
		title += " *"
	}
	b.WriteString(formatter.Header(title) + "\n\n")

	it := m.session.Itinerary()
	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString("  " + formatter.Dim("No days yet. Press A to add one.") + "\n")
	}
	m.cursor = clampInt(m.cursor, 0, max(len(rows)-1, 0))

	pools := m.session.Pools()
	for i, r := range rows {
		line := m.renderRow(it, pools, r)
		if m.carrying != nil && m.isCarried(it, r) {
			line = carriedStyle.Render(line)
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("▸ ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n")
	if m.mode != modeBrowse {
		b.WriteString(m.input.View() + "\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(formatter.Dim(m.status) + "\n")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *editorModel) renderRow(it domain.Itinerary, pools itinerary.Pools, r editorRow) string {
	d := it.Days[r.day]
	switch r.kind {
	case rowDay:
		label := fmt.Sprintf("DAY %d  %s", r.day+1, d.Title)
		if date := m.trip.DayDate(r.day); date != nil {
			label += "  " + formatter.Dim(date.Format("Mon, Jan 2"))
		}
		if mins := export.DayMinutes(d); mins > 0 {
			label += "  " + formatter.Dim("~"+export.FormatMinutes(mins))
		}
		return formatter.StyleHeader.Render(label)
	case rowActivity:
		a := d.Activities[r.act]
		line := "  " + a.Text
		if tr := formatter.TimeRange(a.Start, a.End); tr != "" {
			line = "  " + formatter.StyleGreen.Render(tr) + " " + a.Text
		}
		if a.Place != nil {
			line += " " + formatter.Dim("@ "+a.Place.Name)
		}
		return line
	case rowAlternative:
		item, _ := pools.Item(itinerary.AlternativesRef(d.Activities[r.act].ID), r.item)
		return poolStyle.Render("      ↳ " + item.Text)
	case rowEvent:
		item, _ := pools.Item(itinerary.EventsRef(d.ID), r.item)
		return poolStyle.Render("    ★ " + item.Text)
	}
	return ""
}

func (m *editorModel) isCarried(it domain.Itinerary, r editorRow) bool {
	c := m.carrying
	d := it.Days[r.day]
	switch c.source.Kind {
	case itinerary.ContainerDays:
		return r.kind == rowDay && r.day == c.index
	case itinerary.ContainerDay:
		return r.kind == rowActivity && d.ID == c.source.ID && r.act == c.index
	case itinerary.ContainerAlternatives:
		return r.kind == rowAlternative && d.Activities[r.act].ID == c.source.ID && r.item == c.index
	case itinerary.ContainerEvents:
		return r.kind == rowEvent && d.ID == c.source.ID && r.item == c.index
	}
	return false
}

func (m *editorModel) helpLine() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	line := strings.Join(parts, " · ")
	if m.width > 0 {
		line = lipgloss.NewStyle().Width(m.width).Render(line)
	}
	return formatter.Dim(line)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
